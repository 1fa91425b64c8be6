package service

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dto"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/helper"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/logic"
)

// BookHandler exposes the book catalog over HTTP.
type BookHandler struct {
	bookLogic logic.BookLogic
	validate  *validator.Validate
	logger    *zap.Logger
}

func NewBookHandler(bookLogic logic.BookLogic, validate *validator.Validate, logger *zap.Logger) *BookHandler {
	return &BookHandler{
		bookLogic: bookLogic,
		validate:  validate,
		logger:    logger.Named("BookHandler"),
	}
}

func (h *BookHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteHttpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}

	book, err := h.bookLogic.AddBook(r.Context(), &req)
	if err != nil {
		h.logger.Error("Failed to create book", zap.Error(err))
		WriteLogicError(w, err)
		return
	}

	WriteHttpSuccess(w, http.StatusCreated, dto.NewBookResponse(book))
}

func (h *BookHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := helper.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}

	book, err := h.bookLogic.GetBook(r.Context(), id)
	if err != nil {
		WriteLogicError(w, err)
		return
	}

	WriteHttpSuccess(w, http.StatusOK, dto.NewBookResponse(book))
}

// List returns the catalog. ?active=true narrows it to active books only.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	activeOnly := r.URL.Query().Get("active") == "true"

	books, err := h.bookLogic.ListBooks(r.Context(), activeOnly)
	if err != nil {
		h.logger.Error("Failed to list books", zap.Error(err))
		WriteLogicError(w, err)
		return
	}

	WriteHttpSuccess(w, http.StatusOK, dto.NewBookListResponse(books))
}

// Delete soft-deletes: the book is deactivated, not removed.
func (h *BookHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := helper.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}

	book, err := h.bookLogic.DeactivateBook(r.Context(), id)
	if err != nil {
		WriteLogicError(w, err)
		return
	}

	WriteHttpSuccess(w, http.StatusOK, dto.NewBookResponse(book))
}

func (h *BookHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := helper.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.UpdateBookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteHttpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}

	book, err := h.bookLogic.UpdateBook(r.Context(), id, &req)
	if err != nil {
		WriteLogicError(w, err)
		return
	}

	WriteHttpSuccess(w, http.StatusOK, dto.NewBookResponse(book))
}
