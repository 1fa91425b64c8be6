package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dto"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/models"
)

type BookRepository interface {
	Create(ctx context.Context, book *models.Book) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error)
	FindByName(ctx context.Context, name string) (*models.Book, error)
	List(ctx context.Context, activeOnly bool) ([]*models.Book, error)
	Update(ctx context.Context, id primitive.ObjectID, opts ...UpdateOption) error
}

type TeacherRepository interface {
	Create(ctx context.Context, teacher *models.Teacher) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Teacher, error)
	FindByMobile(ctx context.Context, mobile string) (*models.Teacher, error)
	List(ctx context.Context) ([]*models.Teacher, error)
	Update(ctx context.Context, id primitive.ObjectID, opts ...UpdateOption) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type BillRepository interface {
	Create(ctx context.Context, bill *models.Bill) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Bill, error)
	FindByNumber(ctx context.Context, billNumber string) (*models.Bill, error)
	// ListWithTeacher returns bills newest-first with the referenced teacher
	// joined in. A non-positive limit returns the full list.
	ListWithTeacher(ctx context.Context, limit, offset int) ([]*dto.BillWithTeacher, int64, error)
	Update(ctx context.Context, id primitive.ObjectID, opts ...UpdateOption) error
	Delete(ctx context.Context, id primitive.ObjectID) error

	// ApplyPaymentDebit atomically decrements remain_payment by amount,
	// guarded by the bill not being in a terminal status and the balance
	// covering the amount. It returns the post-update bill, or
	// mongodb.ErrNotFound when no document satisfied the precondition.
	ApplyPaymentDebit(ctx context.Context, billID primitive.ObjectID, amount primitive.Decimal128) (*models.Bill, error)
	// ReversePaymentCredit atomically adds amount back onto remain_payment
	// and returns the post-update bill.
	ReversePaymentCredit(ctx context.Context, billID primitive.ObjectID, amount primitive.Decimal128) (*models.Bill, error)
	// MarkPaidIfSettled flips status to paid only while remain_payment is
	// still exactly zero.
	MarkPaidIfSettled(ctx context.Context, billID primitive.ObjectID) error
}

type PaymentRepository interface {
	Create(ctx context.Context, payment *models.Payment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error)
	ListByBill(ctx context.Context, billID primitive.ObjectID) ([]*models.Payment, error)
	SumByBill(ctx context.Context, billID primitive.ObjectID) (primitive.Decimal128, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByBill(ctx context.Context, billID primitive.ObjectID) (int64, error)
}

type AuditLogRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

type OutboxRepository interface {
	Create(ctx context.Context, message *models.OutboxMessage) error
	ClaimAndFetchEvents(ctx context.Context, limit int) ([]*models.OutboxMessage, error)
	MarkAsProcessed(ctx context.Context, id primitive.ObjectID) error
	IncrementRetry(ctx context.Context, id primitive.ObjectID, errorMessage string) error
}
