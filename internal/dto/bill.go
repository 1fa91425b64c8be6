package dto

import (
	"time"

	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/helper"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/models"
)

type BookEntryRequest struct {
	BookID    string  `json:"bookId" validate:"required"`
	Price     float64 `json:"price" validate:"gte=0"`
	Quantity  int64   `json:"quantity" validate:"gte=0"`
	FreeIssue int64   `json:"freeIssue" validate:"gte=0"`
}

type CreateBillRequest struct {
	BillNumber  string             `json:"billNumber" validate:"required"`
	Date        *time.Time         `json:"date"`
	TeacherID   string             `json:"teacherId" validate:"required"`
	BookEntries []BookEntryRequest `json:"bookEntries" validate:"required,min=1,dive"`
}

// UpdateBillRequest carries a partial bill update. A nil BookEntries leaves the
// entry list and totals untouched; a non-empty one fully replaces it.
type UpdateBillRequest struct {
	BillNumber  *string            `json:"billNumber" validate:"omitempty,min=1"`
	Date        *time.Time         `json:"date"`
	TeacherID   *string            `json:"teacherId"`
	BookEntries []BookEntryRequest `json:"bookEntries" validate:"omitempty,min=1,dive"`
}

// BillDetails bundles a bill with its expanded teacher and payment history.
// Teacher is nil when the referenced teacher no longer exists.
type BillDetails struct {
	Bill     *models.Bill
	Teacher  *models.Teacher
	Payments []*models.Payment
}

// BillWithTeacher is the aggregation projection for bill listings; teacher_doc
// is populated by a $lookup against the teachers collection.
type BillWithTeacher struct {
	models.Bill `bson:",inline"`
	TeacherDoc  []models.Teacher `bson:"teacher_doc"`
}

type BookEntryResponse struct {
	ID        string  `json:"_id"`
	BookID    string  `json:"book"`
	BookName  string  `json:"bookName"`
	Price     float64 `json:"price"`
	Quantity  int64   `json:"quantity"`
	FreeIssue int64   `json:"freeIssue"`
	Total     float64 `json:"total"`
}

type BillResponse struct {
	ID            string              `json:"_id"`
	BillNumber    string              `json:"billNumber"`
	Date          time.Time           `json:"date"`
	TeacherID     string              `json:"teacherId"`
	Teacher       *TeacherSummary     `json:"teacher,omitempty"`
	BookEntries   []BookEntryResponse `json:"bookEntries"`
	TotalAmount   float64             `json:"totalAmount"`
	RemainPayment float64             `json:"remainPayment"`
	Status        string              `json:"status"`
	CreatedAt     time.Time           `json:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt"`
}

// NewBillResponse maps a stored bill onto the wire shape. teacher may be nil
// for responses that do not expand the reference.
func NewBillResponse(bill *models.Bill, teacher *models.Teacher) *BillResponse {
	entries := make([]BookEntryResponse, 0, len(bill.BookEntries))
	for _, e := range bill.BookEntries {
		price, _ := helper.Decimal128ToFloat64(e.Price)
		total, _ := helper.Decimal128ToFloat64(e.Total)
		entries = append(entries, BookEntryResponse{
			ID:        e.ID.Hex(),
			BookID:    e.Book.Hex(),
			BookName:  e.BookName,
			Price:     price,
			Quantity:  e.Quantity,
			FreeIssue: e.FreeIssue,
			Total:     total,
		})
	}

	total, _ := helper.Decimal128ToFloat64(bill.TotalAmount)
	remain, _ := helper.Decimal128ToFloat64(bill.RemainPayment)

	resp := &BillResponse{
		ID:            bill.ID.Hex(),
		BillNumber:    bill.BillNumber,
		Date:          bill.Date,
		TeacherID:     bill.Teacher.Hex(),
		BookEntries:   entries,
		TotalAmount:   total,
		RemainPayment: remain,
		Status:        bill.Status,
		CreatedAt:     bill.CreatedAt,
		UpdatedAt:     bill.UpdatedAt,
	}
	if teacher != nil {
		resp.Teacher = NewTeacherSummary(teacher)
	}
	return resp
}

// BillDetailsResponse is the single-bill shape with payments included.
type BillDetailsResponse struct {
	BillResponse
	Payments []*PaymentResponse `json:"payments"`
}

func NewBillDetailsResponse(details *BillDetails) *BillDetailsResponse {
	resp := NewBillResponse(details.Bill, details.Teacher)
	return &BillDetailsResponse{
		BillResponse: *resp,
		Payments:     NewPaymentListResponse(details.Payments, nil),
	}
}

func NewBillListResponse(bills []*BillWithTeacher) []*BillResponse {
	out := make([]*BillResponse, 0, len(bills))
	for _, b := range bills {
		var teacher *models.Teacher
		if len(b.TeacherDoc) > 0 {
			teacher = &b.TeacherDoc[0]
		}
		bill := b.Bill
		out = append(out, NewBillResponse(&bill, teacher))
	}
	return out
}
