package service

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dto"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/helper"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/logic"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/pkg/pagination"
)

// BillHandler exposes bill management over HTTP.
type BillHandler struct {
	billLogic logic.BillLogic
	validate  *validator.Validate
	logger    *zap.Logger
}

func NewBillHandler(billLogic logic.BillLogic, validate *validator.Validate, logger *zap.Logger) *BillHandler {
	return &BillHandler{
		billLogic: billLogic,
		validate:  validate,
		logger:    logger.Named("BillHandler"),
	}
}

func (h *BillHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteHttpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}

	details, err := h.billLogic.AddBill(r.Context(), &req)
	if err != nil {
		h.logger.Error("Failed to create bill", zap.Error(err))
		WriteLogicError(w, err)
		return
	}

	WriteHttpSuccess(w, http.StatusCreated, dto.NewBillDetailsResponse(details))
}

func (h *BillHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := helper.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}

	details, err := h.billLogic.GetBillDetails(r.Context(), id)
	if err != nil {
		WriteLogicError(w, err)
		return
	}

	WriteHttpSuccess(w, http.StatusOK, dto.NewBillDetailsResponse(details))
}

// List returns bills newest-first. ?page and ?page_size page through the list;
// without them the full list is returned.
func (h *BillHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	pageReq := &pagination.PageRequest{Page: pagination.DefaultPage}
	if query.Has("page") || query.Has("page_size") {
		page, _ := strconv.Atoi(query.Get("page"))
		pageSize, _ := strconv.Atoi(query.Get("page_size"))
		pageReq = pagination.NewPageRequest(page, pageSize)
	}

	result, err := h.billLogic.ListBills(r.Context(), pageReq)
	if err != nil {
		h.logger.Error("Failed to list bills", zap.Error(err))
		WriteLogicError(w, err)
		return
	}

	WriteHttpSuccess(w, http.StatusOK, result)
}

func (h *BillHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := helper.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.UpdateBillRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteHttpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}

	details, err := h.billLogic.UpdateBill(r.Context(), id, &req)
	if err != nil {
		WriteLogicError(w, err)
		return
	}

	WriteHttpSuccess(w, http.StatusOK, dto.NewBillDetailsResponse(details))
}

func (h *BillHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := helper.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.billLogic.DeleteBill(r.Context(), id); err != nil {
		WriteLogicError(w, err)
		return
	}

	WriteHttpSuccess(w, http.StatusOK, nil)
}
