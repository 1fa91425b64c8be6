package service

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/logic"
)

// WriteHttpError writes a standard JSON error response to the http.ResponseWriter.
func WriteHttpError(w http.ResponseWriter, httpCode int, message string) {
	resp := map[string]interface{}{
		"status":  "error",
		"code":    httpCode,
		"message": message,
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpCode)
	json.NewEncoder(w).Encode(resp)
}

// WriteHttpSuccess writes a standard JSON success envelope around data.
func WriteHttpSuccess(w http.ResponseWriter, httpCode int, data any) {
	resp := map[string]interface{}{
		"status": "success",
		"code":   httpCode,
	}
	if data != nil {
		resp["data"] = data
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpCode)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

// WriteLogicError maps a logic-layer error onto an HTTP status code and writes it.
func WriteLogicError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, logic.ErrBookNotFound),
		errors.Is(err, logic.ErrTeacherNotFound),
		errors.Is(err, logic.ErrBillNotFound),
		errors.Is(err, logic.ErrPaymentNotFound):
		WriteHttpError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, logic.ErrDuplicateBookName),
		errors.Is(err, logic.ErrDuplicateMobile),
		errors.Is(err, logic.ErrDuplicateBillNumber),
		errors.Is(err, logic.ErrNoEntries),
		errors.Is(err, logic.ErrInvalidAmount),
		errors.Is(err, logic.ErrBillTerminal),
		errors.Is(err, logic.ErrAmountExceedsBalance):
		WriteHttpError(w, http.StatusBadRequest, err.Error())
	default:
		WriteHttpError(w, http.StatusInternalServerError, "internal server error")
	}
}
