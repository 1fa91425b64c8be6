package logic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/constants"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dao/mongodb"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dao/repository"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dto"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/helper"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/models"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/pkg/snowflake"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PaymentLogic defines the interface for payment business logic.
type PaymentLogic interface {
	AddPayment(ctx context.Context, d *dto.CreatePaymentRequest) (*models.Payment, *models.Bill, error)
	GetPayment(ctx context.Context, id primitive.ObjectID) (*models.Payment, *models.Bill, error)
	ListPaymentsByBill(ctx context.Context, billID primitive.ObjectID) ([]*models.Payment, *models.Bill, error)
	DeletePayment(ctx context.Context, id primitive.ObjectID, reason string) (*models.Bill, error)
}

var _ PaymentLogic = (*paymentLogic)(nil)

type paymentLogic struct {
	paymentRepo           repository.PaymentRepository
	billRepo              repository.BillRepository
	auditLogRepo          repository.AuditLogRepository
	paymentEventPublisher *PaymentEventPublisher
	idGenerator           *snowflake.Generator
	logger                *zap.Logger
}

func NewPaymentLogic(
	paymentRepo repository.PaymentRepository,
	billRepo repository.BillRepository,
	auditLogRepo repository.AuditLogRepository,
	paymentEventPublisher *PaymentEventPublisher,
	idGenerator *snowflake.Generator,
	logger *zap.Logger,
) *paymentLogic {
	return &paymentLogic{
		paymentRepo:           paymentRepo,
		billRepo:              billRepo,
		auditLogRepo:          auditLogRepo,
		paymentEventPublisher: paymentEventPublisher,
		idGenerator:           idGenerator,
		logger:                logger.Named("PaymentLogic"),
	}
}

// classifyDebitRefusal re-reads the bill after a guarded debit matched
// nothing, to report which precondition failed.
func (l *paymentLogic) classifyDebitRefusal(ctx context.Context, billID primitive.ObjectID) error {
	bill, err := l.billRepo.GetByID(ctx, billID)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return ErrBillNotFound
		}
		return err
	}
	if constants.ParseBillStatus(bill.Status).Terminal() {
		return ErrBillTerminal
	}
	return ErrAmountExceedsBalance
}

// AddPayment records a payment against a bill. The remaining balance is
// decremented with a guarded single-document update, so two concurrent
// payments can never overdraw the bill; the loser of the race gets a
// refusal instead.
func (l *paymentLogic) AddPayment(ctx context.Context, d *dto.CreatePaymentRequest) (*models.Payment, *models.Bill, error) {
	billID, err := helper.ObjectIDFromHex(d.BillID)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid bill id %q: %w", d.BillID, err)
	}

	amount, err := helper.Float64ToDecimal128(d.Amount)
	if err != nil {
		return nil, nil, err
	}
	cmp, err := helper.CompareDecimal128(amount, helper.ZeroDecimal128)
	if err != nil {
		return nil, nil, err
	}
	if cmp <= 0 {
		return nil, nil, ErrInvalidAmount
	}

	bill, err := l.billRepo.ApplyPaymentDebit(ctx, billID, amount)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, nil, l.classifyDebitRefusal(ctx, billID)
		}
		return nil, nil, err
	}

	receiptID, err := l.idGenerator.GetID()
	if err != nil {
		l.logger.Error("AddPayment: receipt id generation failed", zap.Error(err))
		l.compensateDebit(ctx, billID, amount)
		return nil, nil, err
	}

	now := time.Now()
	paymentDate := now
	if d.PaymentDate != nil {
		paymentDate = *d.PaymentDate
	}
	payment := &models.Payment{
		ID:          primitive.NewObjectID(),
		Bill:        billID,
		ReceiptNo:   fmt.Sprintf("R-%d", receiptID),
		PaymentDate: paymentDate,
		Amount:      amount,
		CollectBy:   d.CollectBy,
		CreatedAt:   now,
	}
	if _, err := l.paymentRepo.Create(ctx, payment); err != nil {
		l.logger.Error("AddPayment: payment insert failed", zap.Error(err), zap.Stringer("billID", billID))
		l.compensateDebit(ctx, billID, amount)
		return nil, nil, err
	}

	settled, err := helper.IsZeroDecimal128(bill.RemainPayment)
	if err != nil {
		return nil, nil, err
	}
	if settled {
		if err := l.billRepo.MarkPaidIfSettled(ctx, billID); err != nil {
			// The payment stands; the status catches up on the next write.
			l.logger.Warn("AddPayment: MarkPaidIfSettled failed", zap.Error(err), zap.Stringer("billID", billID))
		} else if refreshed, err := l.billRepo.GetByID(ctx, billID); err == nil {
			bill = refreshed
		}
	}

	operator := helper.OperatorFromContext(ctx)
	if err := l.auditLogRepo.Create(ctx, buildCreatePaymentAuditLog(operator, payment, bill)); err != nil {
		l.logger.Warn("AddPayment: audit log failed", zap.Error(err), zap.Stringer("paymentID", payment.ID))
	}

	if err := l.paymentEventPublisher.PublishPaymentEvent(ctx, constants.PaymentActionCreate, payment, bill); err != nil {
		l.logger.Warn("AddPayment: event publish failed", zap.Error(err), zap.Stringer("paymentID", payment.ID))
	}

	return payment, bill, nil
}

// compensateDebit returns a debited amount to the bill after a downstream
// failure aborted the payment.
func (l *paymentLogic) compensateDebit(ctx context.Context, billID primitive.ObjectID, amount primitive.Decimal128) {
	if _, err := l.billRepo.ReversePaymentCredit(ctx, billID, amount); err != nil {
		l.logger.Error("compensateDebit: credit back failed, balance is short",
			zap.Error(err),
			zap.Stringer("billID", billID),
			zap.String("amount", amount.String()),
		)
	}
}

func (l *paymentLogic) GetPayment(ctx context.Context, id primitive.ObjectID) (*models.Payment, *models.Bill, error) {
	payment, err := l.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, nil, ErrPaymentNotFound
		}
		return nil, nil, err
	}

	bill, err := l.billRepo.GetByID(ctx, payment.Bill)
	if err != nil && !errors.Is(err, mongodb.ErrNotFound) {
		return nil, nil, err
	}
	return payment, bill, nil
}

func (l *paymentLogic) ListPaymentsByBill(ctx context.Context, billID primitive.ObjectID) ([]*models.Payment, *models.Bill, error) {
	bill, err := l.billRepo.GetByID(ctx, billID)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, nil, ErrBillNotFound
		}
		return nil, nil, err
	}

	payments, err := l.paymentRepo.ListByBill(ctx, billID)
	if err != nil {
		return nil, nil, err
	}
	return payments, bill, nil
}

// DeletePayment reverses a recorded payment: the amount is credited back onto
// the bill, the status recomputed from the new balance, and the payment
// document removed. A bill whose balance goes back above zero returns to
// pending; the degenerate zero-balance case closes it.
func (l *paymentLogic) DeletePayment(ctx context.Context, id primitive.ObjectID, reason string) (*models.Bill, error) {
	payment, err := l.paymentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, err
	}

	bill, err := l.billRepo.ReversePaymentCredit(ctx, payment.Bill, payment.Amount)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			// Orphaned payment; drop it without touching any bill.
			if err := l.paymentRepo.Delete(ctx, id); err != nil && !errors.Is(err, mongodb.ErrNotFound) {
				return nil, err
			}
			return nil, nil
		}
		return nil, err
	}

	cmp, err := helper.CompareDecimal128(bill.RemainPayment, helper.ZeroDecimal128)
	if err != nil {
		return nil, err
	}
	newStatus := constants.BillStatusPending
	if cmp <= 0 {
		newStatus = constants.BillStatusClosed
	}
	if bill.Status != newStatus.String() {
		if err := l.billRepo.Update(ctx, bill.ID, repository.WithStatus(newStatus.String())); err != nil {
			l.logger.Error("DeletePayment: status update failed", zap.Error(err), zap.Stringer("billID", bill.ID))
			return nil, err
		}
		bill.Status = newStatus.String()
	}

	if err := l.paymentRepo.Delete(ctx, id); err != nil {
		if !errors.Is(err, mongodb.ErrNotFound) {
			l.logger.Error("DeletePayment: payment delete failed", zap.Error(err), zap.Stringer("paymentID", id))
			l.compensateCredit(ctx, bill.ID, payment.Amount)
			return nil, err
		}
	}

	operator := helper.OperatorFromContext(ctx)
	if err := l.auditLogRepo.Create(ctx, buildDeletePaymentAuditLog(operator, payment, bill, reason)); err != nil {
		l.logger.Warn("DeletePayment: audit log failed", zap.Error(err), zap.Stringer("paymentID", id))
	}

	if err := l.paymentEventPublisher.PublishPaymentEvent(ctx, constants.PaymentActionDelete, payment, bill); err != nil {
		l.logger.Warn("DeletePayment: event publish failed", zap.Error(err), zap.Stringer("paymentID", id))
	}

	return bill, nil
}

// compensateCredit re-applies a debit after a failed payment delete left the
// credited balance in place.
func (l *paymentLogic) compensateCredit(ctx context.Context, billID primitive.ObjectID, amount primitive.Decimal128) {
	if _, err := l.billRepo.ApplyPaymentDebit(ctx, billID, amount); err != nil {
		l.logger.Error("compensateCredit: re-debit failed, balance is long",
			zap.Error(err),
			zap.Stringer("billID", billID),
			zap.String("amount", amount.String()),
		)
	}
}
