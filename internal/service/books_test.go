package service

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dto"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/logic"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/models"
)

type mockBookLogic struct {
	mock.Mock
}

func (m *mockBookLogic) AddBook(ctx context.Context, d *dto.CreateBookRequest) (*models.Book, error) {
	args := m.Called(ctx, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *mockBookLogic) GetBook(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *mockBookLogic) ListBooks(ctx context.Context, activeOnly bool) ([]*models.Book, error) {
	args := m.Called(ctx, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Book), args.Error(1)
}

func (m *mockBookLogic) DeactivateBook(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func (m *mockBookLogic) UpdateBook(ctx context.Context, id primitive.ObjectID, d *dto.UpdateBookRequest) (*models.Book, error) {
	args := m.Called(ctx, id, d)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Book), args.Error(1)
}

func newBookHandlerForTest(t *testing.T) (*BookHandler, *mockBookLogic) {
	t.Helper()
	bookLogic := new(mockBookLogic)
	handler := NewBookHandler(bookLogic, dto.NewValidator(), zap.NewNop())
	return handler, bookLogic
}

func decodeEnvelope(t *testing.T, body *bytes.Buffer) map[string]any {
	t.Helper()
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(body.Bytes(), &envelope))
	return envelope
}

func TestBookHandlerCreate(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, bookLogic := newBookHandlerForTest(t)

		book := &models.Book{
			ID:       primitive.NewObjectID(),
			Name:     "Grade 5 Mathematics",
			IsActive: true,
		}
		bookLogic.On("AddBook", mock.Anything, mock.MatchedBy(func(d *dto.CreateBookRequest) bool {
			return d.Name == "Grade 5 Mathematics"
		})).Return(book, nil)

		body := bytes.NewBufferString(`{"name":"Grade 5 Mathematics","defaultPrice":350}`)
		req := httptest.NewRequest(http.MethodPost, "/api/books", body)
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		envelope := decodeEnvelope(t, rec.Body)
		assert.Equal(t, "success", envelope["status"])
		bookLogic.AssertExpectations(t)
	})

	t.Run("MissingNameRejected", func(t *testing.T) {
		handler, bookLogic := newBookHandlerForTest(t)

		body := bytes.NewBufferString(`{"defaultPrice":350}`)
		req := httptest.NewRequest(http.MethodPost, "/api/books", body)
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		bookLogic.AssertNotCalled(t, "AddBook", mock.Anything, mock.Anything)
	})

	t.Run("MalformedBodyRejected", func(t *testing.T) {
		handler, _ := newBookHandlerForTest(t)

		req := httptest.NewRequest(http.MethodPost, "/api/books", bytes.NewBufferString(`{`))
		rec := httptest.NewRecorder()

		handler.Create(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestBookHandlerGet(t *testing.T) {
	t.Run("NotFoundMapsTo404", func(t *testing.T) {
		handler, bookLogic := newBookHandlerForTest(t)

		id := primitive.NewObjectID()
		bookLogic.On("GetBook", mock.Anything, id).Return(nil, logic.ErrBookNotFound)

		req := httptest.NewRequest(http.MethodGet, "/api/books/"+id.Hex(), nil)
		req = mux.SetURLVars(req, map[string]string{"id": id.Hex()})
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		envelope := decodeEnvelope(t, rec.Body)
		assert.Equal(t, "error", envelope["status"])
	})

	t.Run("InvalidIDMapsTo400", func(t *testing.T) {
		handler, _ := newBookHandlerForTest(t)

		req := httptest.NewRequest(http.MethodGet, "/api/books/nope", nil)
		req = mux.SetURLVars(req, map[string]string{"id": "nope"})
		rec := httptest.NewRecorder()

		handler.Get(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestBookHandlerDelete(t *testing.T) {
	handler, bookLogic := newBookHandlerForTest(t)

	id := primitive.NewObjectID()
	deactivated := &models.Book{ID: id, Name: "Grade 5 Mathematics", IsActive: false}
	bookLogic.On("DeactivateBook", mock.Anything, id).Return(deactivated, nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/books/"+id.Hex(), nil)
	req = mux.SetURLVars(req, map[string]string{"id": id.Hex()})
	rec := httptest.NewRecorder()

	handler.Delete(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec.Body)
	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, false, data["isActive"])
	bookLogic.AssertExpectations(t)
}

func TestBookHandlerList(t *testing.T) {
	handler, bookLogic := newBookHandlerForTest(t)

	books := []*models.Book{
		{ID: primitive.NewObjectID(), Name: "Grade 5 Mathematics", IsActive: true},
		{ID: primitive.NewObjectID(), Name: "Grade 5 Science", IsActive: false},
	}
	bookLogic.On("ListBooks", mock.Anything, true).Return(books, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/books?active=true", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec.Body)
	data, ok := envelope["data"].([]any)
	require.True(t, ok)
	assert.Len(t, data, 2)
	bookLogic.AssertExpectations(t)
}
