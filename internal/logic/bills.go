package logic

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/constants"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dao/mongodb"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dao/repository"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/db"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dto"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/helper"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/models"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/pkg/pagination"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BillLogic defines the interface for bill business logic.
type BillLogic interface {
	AddBill(ctx context.Context, d *dto.CreateBillRequest) (*dto.BillDetails, error)
	GetBillDetails(ctx context.Context, id primitive.ObjectID) (*dto.BillDetails, error)
	ListBills(ctx context.Context, pageReq *pagination.PageRequest) (*pagination.PageResult, error)
	UpdateBill(ctx context.Context, id primitive.ObjectID, d *dto.UpdateBillRequest) (*dto.BillDetails, error)
	DeleteBill(ctx context.Context, id primitive.ObjectID) error
}

var _ BillLogic = (*billLogic)(nil)

type billLogic struct {
	billRepo     repository.BillRepository
	teacherRepo  repository.TeacherRepository
	bookRepo     repository.BookRepository
	paymentRepo  repository.PaymentRepository
	auditLogRepo repository.AuditLogRepository
	txManager    db.TransactionManager
	logger       *zap.Logger
}

func NewBillLogic(
	billRepo repository.BillRepository,
	teacherRepo repository.TeacherRepository,
	bookRepo repository.BookRepository,
	paymentRepo repository.PaymentRepository,
	auditLogRepo repository.AuditLogRepository,
	txManager db.TransactionManager,
	logger *zap.Logger,
) *billLogic {
	return &billLogic{
		billRepo:     billRepo,
		teacherRepo:  teacherRepo,
		bookRepo:     bookRepo,
		paymentRepo:  paymentRepo,
		auditLogRepo: auditLogRepo,
		txManager:    txManager,
		logger:       logger.Named("BillLogic"),
	}
}

// buildBookEntries validates each requested line against the catalog and
// snapshots the book name into the entry. Returns the entries and the bill
// total. Free issue quantities never contribute to the line total.
func (l *billLogic) buildBookEntries(ctx context.Context, reqs []dto.BookEntryRequest) ([]models.BookEntry, primitive.Decimal128, error) {
	entries := make([]models.BookEntry, 0, len(reqs))
	total := helper.ZeroDecimal128

	for _, r := range reqs {
		bookID, err := helper.ObjectIDFromHex(r.BookID)
		if err != nil {
			return nil, total, fmt.Errorf("invalid book id %q: %w", r.BookID, err)
		}
		book, err := l.bookRepo.GetByID(ctx, bookID)
		if err != nil {
			if errors.Is(err, mongodb.ErrNotFound) {
				// Name the offending reference so a multi-line bill is debuggable.
				return nil, total, fmt.Errorf("%w: %s", ErrBookNotFound, r.BookID)
			}
			return nil, total, err
		}

		price, err := helper.Float64ToDecimal128(r.Price)
		if err != nil {
			return nil, total, err
		}
		lineTotal, err := helper.MulDecimal128ByInt(price, r.Quantity)
		if err != nil {
			return nil, total, err
		}
		total, err = helper.AddDecimal128(total, lineTotal)
		if err != nil {
			return nil, total, err
		}

		entries = append(entries, models.BookEntry{
			ID:        primitive.NewObjectID(),
			Book:      book.ID,
			BookName:  book.Name,
			Price:     price,
			Quantity:  r.Quantity,
			FreeIssue: r.FreeIssue,
			Total:     lineTotal,
		})
	}

	return entries, total, nil
}

func (l *billLogic) AddBill(ctx context.Context, d *dto.CreateBillRequest) (*dto.BillDetails, error) {
	if len(d.BookEntries) == 0 {
		return nil, ErrNoEntries
	}

	teacherID, err := helper.ObjectIDFromHex(d.TeacherID)
	if err != nil {
		return nil, fmt.Errorf("invalid teacher id %q: %w", d.TeacherID, err)
	}
	teacher, err := l.teacherRepo.GetByID(ctx, teacherID)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, ErrTeacherNotFound
		}
		return nil, err
	}

	entries, total, err := l.buildBookEntries(ctx, d.BookEntries)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	billDate := now
	if d.Date != nil {
		billDate = *d.Date
	}

	bill := &models.Bill{
		ID:            primitive.NewObjectID(),
		BillNumber:    d.BillNumber,
		Date:          billDate,
		Teacher:       teacher.ID,
		BookEntries:   entries,
		TotalAmount:   total,
		RemainPayment: total,
		Status:        constants.BillStatusPending.String(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if _, err := l.billRepo.Create(ctx, bill); err != nil {
		if errors.Is(err, mongodb.ErrDuplicateKey) {
			return nil, ErrDuplicateBillNumber
		}
		l.logger.Error("AddBill: create failed", zap.Error(err), zap.String("billNumber", d.BillNumber))
		return nil, err
	}

	operator := helper.OperatorFromContext(ctx)
	if err := l.auditLogRepo.Create(ctx, buildCreateBillAuditLog(operator, bill)); err != nil {
		l.logger.Warn("AddBill: audit log failed", zap.Error(err), zap.Stringer("billID", bill.ID))
	}

	return &dto.BillDetails{Bill: bill, Teacher: teacher, Payments: []*models.Payment{}}, nil
}

// GetBillDetails loads the bill together with its teacher and payment history.
// The three reads are independent, so they run concurrently.
func (l *billLogic) GetBillDetails(ctx context.Context, id primitive.ObjectID) (*dto.BillDetails, error) {
	bill, err := l.billRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, mongodb.ErrNotFound) {
			return nil, ErrBillNotFound
		}
		return nil, err
	}

	details := &dto.BillDetails{Bill: bill}

	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		teacher, err := l.teacherRepo.GetByID(gCtx, bill.Teacher)
		if err != nil {
			if errors.Is(err, mongodb.ErrNotFound) {
				// The teacher may have been deleted after the bill was cut;
				// the bill detail still renders without the expansion.
				return nil
			}
			return err
		}
		details.Teacher = teacher
		return nil
	})
	g.Go(func() error {
		payments, err := l.paymentRepo.ListByBill(gCtx, bill.ID)
		if err != nil {
			return err
		}
		details.Payments = payments
		return nil
	})
	if err := g.Wait(); err != nil {
		l.logger.Error("GetBillDetails: expansion failed", zap.Error(err), zap.Stringer("billID", id))
		return nil, err
	}

	return details, nil
}

func (l *billLogic) ListBills(ctx context.Context, pageReq *pagination.PageRequest) (*pagination.PageResult, error) {
	bills, total, err := l.billRepo.ListWithTeacher(ctx, pageReq.GetLimit(), pageReq.GetOffset())
	if err != nil {
		l.logger.Error("ListBills: list failed", zap.Error(err))
		return nil, err
	}
	return pagination.NewPageResult(dto.NewBillListResponse(bills), total, pageReq), nil
}

// UpdateBill applies a partial update inside a transaction. When the entry
// list is replaced, the totals are recomputed and the remaining balance is
// reconciled against the payments already recorded: remain = max(0, newTotal
// minus paid-to-date). A closed bill keeps its status; otherwise the status
// follows the reconciled balance.
func (l *billLogic) UpdateBill(ctx context.Context, id primitive.ObjectID, d *dto.UpdateBillRequest) (*dto.BillDetails, error) {
	_, err := l.txManager.WithTransaction(ctx, func(sessCtx context.Context) (interface{}, error) {
		before, err := l.billRepo.GetByID(sessCtx, id)
		if err != nil {
			if errors.Is(err, mongodb.ErrNotFound) {
				return nil, ErrBillNotFound
			}
			return nil, err
		}

		var opts []repository.UpdateOption
		if d.BillNumber != nil {
			opts = append(opts, repository.WithBillNumber(*d.BillNumber))
		}
		if d.Date != nil {
			opts = append(opts, repository.WithBillDate(*d.Date))
		}
		if d.TeacherID != nil {
			teacherID, err := helper.ObjectIDFromHex(*d.TeacherID)
			if err != nil {
				return nil, fmt.Errorf("invalid teacher id %q: %w", *d.TeacherID, err)
			}
			if _, err := l.teacherRepo.GetByID(sessCtx, teacherID); err != nil {
				if errors.Is(err, mongodb.ErrNotFound) {
					return nil, ErrTeacherNotFound
				}
				return nil, err
			}
			opts = append(opts, repository.WithBillTeacher(teacherID))
		}

		if len(d.BookEntries) > 0 {
			entries, newTotal, err := l.buildBookEntries(sessCtx, d.BookEntries)
			if err != nil {
				return nil, err
			}

			paid, err := l.paymentRepo.SumByBill(sessCtx, id)
			if err != nil {
				return nil, err
			}
			remain, err := helper.SubDecimal128(newTotal, paid)
			if err != nil {
				return nil, err
			}
			cmp, err := helper.CompareDecimal128(remain, helper.ZeroDecimal128)
			if err != nil {
				return nil, err
			}
			if cmp < 0 {
				// Payments already exceed the new total; the balance floors
				// at zero rather than going negative.
				remain = helper.ZeroDecimal128
			}

			opts = append(opts,
				repository.WithBookEntries(entries),
				repository.WithTotalAmount(newTotal),
				repository.WithRemainPayment(remain),
			)

			if before.Status != constants.BillStatusClosed.String() {
				if cmp > 0 {
					opts = append(opts, repository.WithStatus(constants.BillStatusPending.String()))
				} else {
					opts = append(opts, repository.WithStatus(constants.BillStatusPaid.String()))
				}
			}
		}

		if err := l.billRepo.Update(sessCtx, id, opts...); err != nil {
			if errors.Is(err, mongodb.ErrNotFound) {
				return nil, ErrBillNotFound
			}
			if errors.Is(err, mongodb.ErrDuplicateKey) {
				return nil, ErrDuplicateBillNumber
			}
			return nil, err
		}

		after, err := l.billRepo.GetByID(sessCtx, id)
		if err != nil {
			return nil, err
		}

		operator := helper.OperatorFromContext(sessCtx)
		if err := l.auditLogRepo.Create(sessCtx, buildUpdateBillAuditLog(operator, before, after)); err != nil {
			l.logger.Warn("UpdateBill: audit log failed", zap.Error(err), zap.Stringer("billID", id))
		}
		return nil, nil
	})
	if err != nil {
		return nil, err
	}

	return l.GetBillDetails(ctx, id)
}

// DeleteBill removes the bill and cascades to its payments in one
// transaction, so a failure partway leaves both collections untouched.
func (l *billLogic) DeleteBill(ctx context.Context, id primitive.ObjectID) error {
	_, err := l.txManager.WithTransaction(ctx, func(sessCtx context.Context) (interface{}, error) {
		bill, err := l.billRepo.GetByID(sessCtx, id)
		if err != nil {
			if errors.Is(err, mongodb.ErrNotFound) {
				return nil, ErrBillNotFound
			}
			return nil, err
		}

		removed, err := l.paymentRepo.DeleteByBill(sessCtx, id)
		if err != nil {
			return nil, err
		}

		if err := l.billRepo.Delete(sessCtx, id); err != nil {
			if errors.Is(err, mongodb.ErrNotFound) {
				return nil, ErrBillNotFound
			}
			return nil, err
		}

		operator := helper.OperatorFromContext(sessCtx)
		if err := l.auditLogRepo.Create(sessCtx, buildDeleteBillAuditLog(operator, bill, removed)); err != nil {
			l.logger.Warn("DeleteBill: audit log failed", zap.Error(err), zap.Stringer("billID", id))
		}

		l.logger.Info("DeleteBill: bill removed",
			zap.Stringer("billID", id),
			zap.String("billNumber", bill.BillNumber),
			zap.Int64("removedPayments", removed),
		)
		return nil, nil
	})
	return err
}
