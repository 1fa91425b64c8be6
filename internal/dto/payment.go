package dto

import (
	"time"

	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/helper"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/models"
)

type CreatePaymentRequest struct {
	BillID      string     `json:"billId" validate:"required"`
	Amount      float64    `json:"amount" validate:"required,gt=0"`
	PaymentDate *time.Time `json:"paymentDate"`
	CollectBy   string     `json:"collectBy"`
}

// BillSummary is the embedded bill snapshot returned alongside a payment.
type BillSummary struct {
	ID            string    `json:"_id"`
	BillNumber    string    `json:"billNumber"`
	Date          time.Time `json:"date"`
	TotalAmount   float64   `json:"totalAmount"`
	RemainPayment float64   `json:"remainPayment"`
	Status        string    `json:"status"`
}

type PaymentResponse struct {
	ID          string       `json:"_id"`
	BillID      string       `json:"bill"`
	Bill        *BillSummary `json:"billDetail,omitempty"`
	ReceiptNo   string       `json:"receiptNo"`
	PaymentDate time.Time    `json:"paymentDate"`
	Amount      float64      `json:"amount"`
	CollectBy   string       `json:"collectBy,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

func NewBillSummary(bill *models.Bill) *BillSummary {
	total, _ := helper.Decimal128ToFloat64(bill.TotalAmount)
	remain, _ := helper.Decimal128ToFloat64(bill.RemainPayment)
	return &BillSummary{
		ID:            bill.ID.Hex(),
		BillNumber:    bill.BillNumber,
		Date:          bill.Date,
		TotalAmount:   total,
		RemainPayment: remain,
		Status:        bill.Status,
	}
}

// NewPaymentResponse maps a stored payment; bill may be nil when the parent
// bill is not expanded.
func NewPaymentResponse(payment *models.Payment, bill *models.Bill) *PaymentResponse {
	amount, _ := helper.Decimal128ToFloat64(payment.Amount)
	resp := &PaymentResponse{
		ID:          payment.ID.Hex(),
		BillID:      payment.Bill.Hex(),
		ReceiptNo:   payment.ReceiptNo,
		PaymentDate: payment.PaymentDate,
		Amount:      amount,
		CollectBy:   payment.CollectBy,
		CreatedAt:   payment.CreatedAt,
	}
	if bill != nil {
		resp.Bill = NewBillSummary(bill)
	}
	return resp
}

func NewPaymentListResponse(payments []*models.Payment, bill *models.Bill) []*PaymentResponse {
	out := make([]*PaymentResponse, 0, len(payments))
	for _, p := range payments {
		out = append(out, NewPaymentResponse(p, bill))
	}
	return out
}
