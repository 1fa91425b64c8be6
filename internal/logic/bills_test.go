package logic

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/constants"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dao/mongodb"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dao/repository"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/db"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dto"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/helper"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/models"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/pkg/pagination"
)

func decimal(t testing.TB, s string) primitive.Decimal128 {
	t.Helper()
	d, err := primitive.ParseDecimal128(s)
	require.NoError(t, err)
	return d
}

func assertDecimalEqual(t testing.TB, want, got primitive.Decimal128) {
	t.Helper()
	cmp, err := helper.CompareDecimal128(want, got)
	require.NoError(t, err)
	assert.Zerof(t, cmp, "want %s, got %s", want.String(), got.String())
}

func newBillLogicForTest(
	billRepo *mockBillRepository,
	teacherRepo *mockTeacherRepository,
	bookRepo *mockBookRepository,
	paymentRepo *mockPaymentRepository,
	auditLogRepo *mockAuditLogRepository,
) *billLogic {
	return &billLogic{
		billRepo:     billRepo,
		teacherRepo:  teacherRepo,
		bookRepo:     bookRepo,
		paymentRepo:  paymentRepo,
		auditLogRepo: auditLogRepo,
		txManager:    db.NewNoOpTransactionManager(),
		logger:       zap.NewNop(),
	}
}

func TestBillLogic_AddBill(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		billRepo := newMockBillRepository()
		teacherRepo := newMockTeacherRepository()
		bookRepo := newMockBookRepository()
		paymentRepo := newMockPaymentRepository()
		auditLogRepo := newMockAuditLogRepository()
		l := newBillLogicForTest(billRepo, teacherRepo, bookRepo, paymentRepo, auditLogRepo)

		teacher := &models.Teacher{
			ID:          primitive.NewObjectID(),
			TeacherName: "Nimal Perera",
			Mobile:      "0771234567",
			SchoolName:  "Ananda College",
			Active:      true,
		}
		mathBook := &models.Book{
			ID:           primitive.NewObjectID(),
			Name:         "Grade 5 Mathematics",
			DefaultPrice: decimal(t, "100"),
			IsActive:     true,
		}
		scienceBook := &models.Book{
			ID:           primitive.NewObjectID(),
			Name:         "Grade 5 Science",
			DefaultPrice: decimal(t, "250"),
			IsActive:     true,
		}

		teacherRepo.On("GetByID", mock.Anything, teacher.ID).Return(teacher, nil).Once()
		bookRepo.On("GetByID", mock.Anything, mathBook.ID).Return(mathBook, nil).Once()
		bookRepo.On("GetByID", mock.Anything, scienceBook.ID).Return(scienceBook, nil).Once()

		var createdBill *models.Bill
		billRepo.On("Create", mock.Anything, mock.MatchedBy(func(b *models.Bill) bool {
			createdBill = b
			return true
		})).Return(primitive.NilObjectID, nil).Once()
		auditLogRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.AuditLog")).Return(nil).Once()

		details, err := l.AddBill(context.Background(), &dto.CreateBillRequest{
			BillNumber: "B-1001",
			TeacherID:  teacher.ID.Hex(),
			BookEntries: []dto.BookEntryRequest{
				// 3 x 100, one of which is a free issue on top
				{BookID: mathBook.ID.Hex(), Price: 100, Quantity: 3, FreeIssue: 1},
				{BookID: scienceBook.ID.Hex(), Price: 250, Quantity: 2},
			},
		})

		require.NoError(t, err)
		require.NotNil(t, details)
		require.NotNil(t, createdBill)

		// 3*100 + 2*250; the free issue adds nothing.
		assertDecimalEqual(t, decimal(t, "800"), createdBill.TotalAmount)
		assertDecimalEqual(t, decimal(t, "800"), createdBill.RemainPayment)
		assert.Equal(t, constants.BillStatusPending.String(), createdBill.Status)

		// Entries snapshot the catalog name at creation time.
		require.Len(t, createdBill.BookEntries, 2)
		assert.Equal(t, "Grade 5 Mathematics", createdBill.BookEntries[0].BookName)
		assert.Equal(t, int64(1), createdBill.BookEntries[0].FreeIssue)
		assertDecimalEqual(t, decimal(t, "300"), createdBill.BookEntries[0].Total)

		billRepo.AssertExpectations(t)
		teacherRepo.AssertExpectations(t)
		bookRepo.AssertExpectations(t)
		auditLogRepo.AssertExpectations(t)
	})

	t.Run("DuplicateBillNumber", func(t *testing.T) {
		billRepo := newMockBillRepository()
		teacherRepo := newMockTeacherRepository()
		bookRepo := newMockBookRepository()
		l := newBillLogicForTest(billRepo, teacherRepo, bookRepo, newMockPaymentRepository(), newMockAuditLogRepository())

		teacher := &models.Teacher{ID: primitive.NewObjectID()}
		book := &models.Book{ID: primitive.NewObjectID(), Name: "Reader", DefaultPrice: decimal(t, "100")}

		teacherRepo.On("GetByID", mock.Anything, teacher.ID).Return(teacher, nil).Once()
		bookRepo.On("GetByID", mock.Anything, book.ID).Return(book, nil).Once()
		billRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Bill")).
			Return(primitive.NilObjectID, mongodb.ErrDuplicateKey).Once()

		_, err := l.AddBill(context.Background(), &dto.CreateBillRequest{
			BillNumber:  "B-1001",
			TeacherID:   teacher.ID.Hex(),
			BookEntries: []dto.BookEntryRequest{{BookID: book.ID.Hex(), Price: 100, Quantity: 1}},
		})
		assert.ErrorIs(t, err, ErrDuplicateBillNumber)
	})

	t.Run("TeacherMissing", func(t *testing.T) {
		teacherRepo := newMockTeacherRepository()
		l := newBillLogicForTest(newMockBillRepository(), teacherRepo, newMockBookRepository(), newMockPaymentRepository(), newMockAuditLogRepository())

		teacherID := primitive.NewObjectID()
		teacherRepo.On("GetByID", mock.Anything, teacherID).Return(nil, mongodb.ErrNotFound).Once()

		_, err := l.AddBill(context.Background(), &dto.CreateBillRequest{
			BillNumber:  "B-1001",
			TeacherID:   teacherID.Hex(),
			BookEntries: []dto.BookEntryRequest{{BookID: primitive.NewObjectID().Hex(), Price: 10, Quantity: 1}},
		})
		assert.ErrorIs(t, err, ErrTeacherNotFound)
	})

	t.Run("BookMissingNamesTheReference", func(t *testing.T) {
		teacherRepo := newMockTeacherRepository()
		bookRepo := newMockBookRepository()
		l := newBillLogicForTest(newMockBillRepository(), teacherRepo, bookRepo, newMockPaymentRepository(), newMockAuditLogRepository())

		teacher := &models.Teacher{ID: primitive.NewObjectID()}
		missingBookID := primitive.NewObjectID()

		teacherRepo.On("GetByID", mock.Anything, teacher.ID).Return(teacher, nil).Once()
		bookRepo.On("GetByID", mock.Anything, missingBookID).Return(nil, mongodb.ErrNotFound).Once()

		_, err := l.AddBill(context.Background(), &dto.CreateBillRequest{
			BillNumber:  "B-1001",
			TeacherID:   teacher.ID.Hex(),
			BookEntries: []dto.BookEntryRequest{{BookID: missingBookID.Hex(), Price: 10, Quantity: 1}},
		})
		assert.ErrorIs(t, err, ErrBookNotFound)
		// The message must point at the reference that failed to resolve.
		assert.Contains(t, err.Error(), missingBookID.Hex())
	})

	t.Run("NoEntries", func(t *testing.T) {
		l := newBillLogicForTest(newMockBillRepository(), newMockTeacherRepository(), newMockBookRepository(), newMockPaymentRepository(), newMockAuditLogRepository())

		_, err := l.AddBill(context.Background(), &dto.CreateBillRequest{
			BillNumber: "B-1001",
			TeacherID:  primitive.NewObjectID().Hex(),
		})
		assert.ErrorIs(t, err, ErrNoEntries)
	})
}

func TestBillLogic_UpdateBill(t *testing.T) {
	t.Run("ReplacingEntriesReconcilesBalance", func(t *testing.T) {
		billRepo := newMockBillRepository()
		teacherRepo := newMockTeacherRepository()
		bookRepo := newMockBookRepository()
		paymentRepo := newMockPaymentRepository()
		auditLogRepo := newMockAuditLogRepository()
		l := newBillLogicForTest(billRepo, teacherRepo, bookRepo, paymentRepo, auditLogRepo)

		billID := primitive.NewObjectID()
		teacherID := primitive.NewObjectID()
		book := &models.Book{ID: primitive.NewObjectID(), Name: "Reader", DefaultPrice: decimal(t, "100")}

		before := &models.Bill{
			ID:            billID,
			BillNumber:    "B-2001",
			Teacher:       teacherID,
			TotalAmount:   decimal(t, "500"),
			RemainPayment: decimal(t, "300"),
			Status:        constants.BillStatusPending.String(),
		}
		after := &models.Bill{
			ID:            billID,
			BillNumber:    "B-2001",
			Teacher:       teacherID,
			TotalAmount:   decimal(t, "150"),
			RemainPayment: helper.ZeroDecimal128,
			Status:        constants.BillStatusPaid.String(),
		}

		billRepo.On("GetByID", mock.Anything, billID).Return(before, nil).Once()
		bookRepo.On("GetByID", mock.Anything, book.ID).Return(book, nil).Once()
		// 200 already collected against a new total of 150: remain floors at 0.
		paymentRepo.On("SumByBill", mock.Anything, billID).Return(decimal(t, "200"), nil).Once()

		billRepo.On("Update", mock.Anything, billID, mock.MatchedBy(func(opts []repository.UpdateOption) bool {
			updateData := repository.NewUpdateOptions()
			for _, opt := range opts {
				opt(updateData)
			}
			remain, ok := updateData.SetFields["remain_payment"].(primitive.Decimal128)
			if !ok {
				return false
			}
			cmp, err := helper.CompareDecimal128(remain, helper.ZeroDecimal128)
			return err == nil && cmp == 0 &&
				updateData.SetFields["status"] == constants.BillStatusPaid.String()
		})).Return(nil).Once()

		billRepo.On("GetByID", mock.Anything, billID).Return(after, nil)
		teacherRepo.On("GetByID", mock.Anything, teacherID).Return(&models.Teacher{ID: teacherID}, nil)
		paymentRepo.On("ListByBill", mock.Anything, billID).Return([]*models.Payment{}, nil)
		auditLogRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.AuditLog")).Return(nil).Once()

		details, err := l.UpdateBill(context.Background(), billID, &dto.UpdateBillRequest{
			BookEntries: []dto.BookEntryRequest{{BookID: book.ID.Hex(), Price: 150, Quantity: 1}},
		})
		require.NoError(t, err)
		assert.Equal(t, constants.BillStatusPaid.String(), details.Bill.Status)

		billRepo.AssertExpectations(t)
		paymentRepo.AssertExpectations(t)
	})

	t.Run("BillMissing", func(t *testing.T) {
		billRepo := newMockBillRepository()
		l := newBillLogicForTest(billRepo, newMockTeacherRepository(), newMockBookRepository(), newMockPaymentRepository(), newMockAuditLogRepository())

		billID := primitive.NewObjectID()
		billRepo.On("GetByID", mock.Anything, billID).Return(nil, mongodb.ErrNotFound).Once()

		_, err := l.UpdateBill(context.Background(), billID, &dto.UpdateBillRequest{})
		assert.ErrorIs(t, err, ErrBillNotFound)
	})
}

func TestBillLogic_DeleteBill(t *testing.T) {
	t.Run("CascadesToPayments", func(t *testing.T) {
		billRepo := newMockBillRepository()
		paymentRepo := newMockPaymentRepository()
		auditLogRepo := newMockAuditLogRepository()
		l := newBillLogicForTest(billRepo, newMockTeacherRepository(), newMockBookRepository(), paymentRepo, auditLogRepo)

		billID := primitive.NewObjectID()
		bill := &models.Bill{ID: billID, BillNumber: "B-3001"}

		billRepo.On("GetByID", mock.Anything, billID).Return(bill, nil).Once()
		paymentRepo.On("DeleteByBill", mock.Anything, billID).Return(int64(2), nil).Once()
		billRepo.On("Delete", mock.Anything, billID).Return(nil).Once()
		auditLogRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.AuditLog")).Return(nil).Once()

		err := l.DeleteBill(context.Background(), billID)
		require.NoError(t, err)

		billRepo.AssertExpectations(t)
		paymentRepo.AssertExpectations(t)
		auditLogRepo.AssertExpectations(t)
	})

	t.Run("BillMissing", func(t *testing.T) {
		billRepo := newMockBillRepository()
		l := newBillLogicForTest(billRepo, newMockTeacherRepository(), newMockBookRepository(), newMockPaymentRepository(), newMockAuditLogRepository())

		billID := primitive.NewObjectID()
		billRepo.On("GetByID", mock.Anything, billID).Return(nil, mongodb.ErrNotFound).Once()

		err := l.DeleteBill(context.Background(), billID)
		assert.ErrorIs(t, err, ErrBillNotFound)
	})
}

func TestBillLogic_ListBills(t *testing.T) {
	billRepo := newMockBillRepository()
	l := newBillLogicForTest(billRepo, newMockTeacherRepository(), newMockBookRepository(), newMockPaymentRepository(), newMockAuditLogRepository())

	bill := &dto.BillWithTeacher{}
	bill.Bill = models.Bill{
		ID:            primitive.NewObjectID(),
		BillNumber:    "B-4001",
		Date:          time.Now(),
		Teacher:       primitive.NewObjectID(),
		TotalAmount:   decimal(t, "100"),
		RemainPayment: decimal(t, "100"),
		Status:        constants.BillStatusPending.String(),
	}
	billRepo.On("ListWithTeacher", mock.Anything, 20, 0).Return([]*dto.BillWithTeacher{bill}, int64(1), nil).Once()

	res, err := l.ListBills(context.Background(), pagination.NewPageRequest(1, 20))
	require.NoError(t, err)
	assert.Equal(t, int64(1), res.Total)
	assert.Equal(t, 1, res.TotalPages)

	billRepo.AssertExpectations(t)
}

// --- mocks ---

type mockBillRepository struct {
	mock.Mock
}

func newMockBillRepository() *mockBillRepository {
	return &mockBillRepository{}
}

func (m *mockBillRepository) Create(ctx context.Context, bill *models.Bill) (primitive.ObjectID, error) {
	args := m.Called(ctx, bill)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *mockBillRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Bill, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bill), args.Error(1)
}

func (m *mockBillRepository) FindByNumber(ctx context.Context, billNumber string) (*models.Bill, error) {
	panic("not implemented")
}

func (m *mockBillRepository) ListWithTeacher(ctx context.Context, limit, offset int) ([]*dto.BillWithTeacher, int64, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*dto.BillWithTeacher), args.Get(1).(int64), args.Error(2)
}

func (m *mockBillRepository) Update(ctx context.Context, id primitive.ObjectID, opts ...repository.UpdateOption) error {
	args := m.Called(ctx, id, opts)
	return args.Error(0)
}

func (m *mockBillRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockBillRepository) ApplyPaymentDebit(ctx context.Context, billID primitive.ObjectID, amount primitive.Decimal128) (*models.Bill, error) {
	args := m.Called(ctx, billID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bill), args.Error(1)
}

func (m *mockBillRepository) ReversePaymentCredit(ctx context.Context, billID primitive.ObjectID, amount primitive.Decimal128) (*models.Bill, error) {
	args := m.Called(ctx, billID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Bill), args.Error(1)
}

func (m *mockBillRepository) MarkPaidIfSettled(ctx context.Context, billID primitive.ObjectID) error {
	args := m.Called(ctx, billID)
	return args.Error(0)
}

type mockTeacherRepository struct {
	mock.Mock
}

func newMockTeacherRepository() *mockTeacherRepository {
	return &mockTeacherRepository{}
}

func (m *mockTeacherRepository) Create(ctx context.Context, teacher *models.Teacher) (primitive.ObjectID, error) {
	args := m.Called(ctx, teacher)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *mockTeacherRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Teacher, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Teacher), args.Error(1)
}

func (m *mockTeacherRepository) FindByMobile(ctx context.Context, mobile string) (*models.Teacher, error) {
	panic("not implemented")
}

func (m *mockTeacherRepository) List(ctx context.Context) ([]*models.Teacher, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Teacher), args.Error(1)
}

func (m *mockTeacherRepository) Update(ctx context.Context, id primitive.ObjectID, opts ...repository.UpdateOption) error {
	args := m.Called(ctx, id, opts)
	return args.Error(0)
}

func (m *mockTeacherRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type mockBookRepository struct {
	mock.Mock
}

func newMockBookRepository() *mockBookRepository {
	return &mockBookRepository{}
}

func (m *mockBookRepository) Create(ctx context.Context, book *models.Book) (primitive.ObjectID, error) {
	args := m.Called(ctx, book)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *mockBookRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *mockBookRepository) FindByName(ctx context.Context, name string) (*models.Book, error) {
	panic("not implemented")
}

func (m *mockBookRepository) List(ctx context.Context, activeOnly bool) ([]*models.Book, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Book), args.Error(1)
}

func (m *mockBookRepository) Update(ctx context.Context, id primitive.ObjectID, opts ...repository.UpdateOption) error {
	args := m.Called(ctx, id, opts)
	return args.Error(0)
}

type mockPaymentRepository struct {
	mock.Mock
}

func newMockPaymentRepository() *mockPaymentRepository {
	return &mockPaymentRepository{}
}

func (m *mockPaymentRepository) Create(ctx context.Context, payment *models.Payment) (primitive.ObjectID, error) {
	args := m.Called(ctx, payment)
	return args.Get(0).(primitive.ObjectID), args.Error(1)
}

func (m *mockPaymentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Payment), args.Error(1)
}

func (m *mockPaymentRepository) ListByBill(ctx context.Context, billID primitive.ObjectID) ([]*models.Payment, error) {
	args := m.Called(ctx, billID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Payment), args.Error(1)
}

func (m *mockPaymentRepository) SumByBill(ctx context.Context, billID primitive.ObjectID) (primitive.Decimal128, error) {
	args := m.Called(ctx, billID)
	return args.Get(0).(primitive.Decimal128), args.Error(1)
}

func (m *mockPaymentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockPaymentRepository) DeleteByBill(ctx context.Context, billID primitive.ObjectID) (int64, error) {
	args := m.Called(ctx, billID)
	return args.Get(0).(int64), args.Error(1)
}

type mockAuditLogRepository struct {
	mock.Mock
}

func newMockAuditLogRepository() *mockAuditLogRepository {
	return &mockAuditLogRepository{}
}

func (m *mockAuditLogRepository) Create(ctx context.Context, log *models.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

type mockOutboxRepository struct {
	mock.Mock
}

func newMockOutboxRepository() *mockOutboxRepository {
	return &mockOutboxRepository{}
}

func (m *mockOutboxRepository) Create(ctx context.Context, message *models.OutboxMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *mockOutboxRepository) ClaimAndFetchEvents(ctx context.Context, limit int) ([]*models.OutboxMessage, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.OutboxMessage), args.Error(1)
}

func (m *mockOutboxRepository) MarkAsProcessed(ctx context.Context, id primitive.ObjectID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockOutboxRepository) IncrementRetry(ctx context.Context, id primitive.ObjectID, errorMessage string) error {
	args := m.Called(ctx, id, errorMessage)
	return args.Error(0)
}
