package constants

// BillStatus is the lifecycle marker of a bill. A bill starts out pending,
// becomes paid when payments settle its balance, and closed is a terminal
// state that blocks further payments. Reversing a payment reopens the bill
// to pending when the restored balance is positive; it stays closed only
// while the balance remains zero.
type BillStatus int

const (
	BillStatusUnknown BillStatus = iota
	BillStatusPending
	BillStatusPaid
	BillStatusClosed
)

func (s BillStatus) String() string {
	switch s {
	case BillStatusPending:
		return "pending"
	case BillStatusPaid:
		return "paid"
	case BillStatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the status blocks new payments.
func (s BillStatus) Terminal() bool {
	return s == BillStatusPaid || s == BillStatusClosed
}

var billStatusMap = map[string]BillStatus{
	"pending": BillStatusPending,
	"paid":    BillStatusPaid,
	"closed":  BillStatusClosed,
	"unknown": BillStatusUnknown,
}

func ParseBillStatus(s string) BillStatus {
	if status, ok := billStatusMap[s]; ok {
		return status
	}
	return BillStatusUnknown
}
