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

// PaymentHandler exposes payment collection and reversal over HTTP.
type PaymentHandler struct {
	paymentLogic logic.PaymentLogic
	validate     *validator.Validate
	logger       *zap.Logger
}

func NewPaymentHandler(paymentLogic logic.PaymentLogic, validate *validator.Validate, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentLogic: paymentLogic,
		validate:     validate,
		logger:       logger.Named("PaymentHandler"),
	}
}

func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreatePaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteHttpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}

	payment, bill, err := h.paymentLogic.AddPayment(r.Context(), &req)
	if err != nil {
		h.logger.Error("Failed to create payment", zap.Error(err))
		WriteLogicError(w, err)
		return
	}

	WriteHttpSuccess(w, http.StatusCreated, dto.NewPaymentResponse(payment, bill))
}

func (h *PaymentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := helper.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}

	payment, bill, err := h.paymentLogic.GetPayment(r.Context(), id)
	if err != nil {
		WriteLogicError(w, err)
		return
	}

	WriteHttpSuccess(w, http.StatusOK, dto.NewPaymentResponse(payment, bill))
}

// ListByBill returns all payments recorded against one bill, newest first.
func (h *PaymentHandler) ListByBill(w http.ResponseWriter, r *http.Request) {
	billID, err := helper.ObjectIDFromHex(mux.Vars(r)["billId"])
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}

	payments, bill, err := h.paymentLogic.ListPaymentsByBill(r.Context(), billID)
	if err != nil {
		WriteLogicError(w, err)
		return
	}

	WriteHttpSuccess(w, http.StatusOK, dto.NewPaymentListResponse(payments, bill))
}

// Delete reverses a payment. The optional ?reason is recorded in the audit trail.
func (h *PaymentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := helper.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}
	reason := r.URL.Query().Get("reason")

	bill, err := h.paymentLogic.DeletePayment(r.Context(), id, reason)
	if err != nil {
		WriteLogicError(w, err)
		return
	}

	var data any
	if bill != nil {
		data = dto.NewBillSummary(bill)
	}
	WriteHttpSuccess(w, http.StatusOK, data)
}
