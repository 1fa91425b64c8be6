package logic

import "errors"

var (
	ErrBookNotFound    = errors.New("book not found")
	ErrTeacherNotFound = errors.New("teacher not found")
	ErrBillNotFound    = errors.New("bill not found")
	ErrPaymentNotFound = errors.New("payment not found")

	ErrDuplicateBookName   = errors.New("book name already exists")
	ErrDuplicateMobile     = errors.New("mobile number already registered")
	ErrDuplicateBillNumber = errors.New("bill number already exists")

	ErrNoEntries            = errors.New("bill requires at least one book entry")
	ErrInvalidAmount        = errors.New("payment amount must be greater than zero")
	ErrBillTerminal         = errors.New("bill is already settled or closed")
	ErrAmountExceedsBalance = errors.New("payment amount exceeds remaining balance")
)
