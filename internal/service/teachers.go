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

// TeacherHandler exposes teacher management over HTTP.
type TeacherHandler struct {
	teacherLogic logic.TeacherLogic
	validate     *validator.Validate
	logger       *zap.Logger
}

func NewTeacherHandler(teacherLogic logic.TeacherLogic, validate *validator.Validate, logger *zap.Logger) *TeacherHandler {
	return &TeacherHandler{
		teacherLogic: teacherLogic,
		validate:     validate,
		logger:       logger.Named("TeacherHandler"),
	}
}

func (h *TeacherHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateTeacherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteHttpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}

	teacher, err := h.teacherLogic.AddTeacher(r.Context(), &req)
	if err != nil {
		h.logger.Error("Failed to create teacher", zap.Error(err))
		WriteLogicError(w, err)
		return
	}

	WriteHttpSuccess(w, http.StatusCreated, dto.NewTeacherResponse(teacher))
}

func (h *TeacherHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := helper.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}

	teacher, err := h.teacherLogic.GetTeacher(r.Context(), id)
	if err != nil {
		WriteLogicError(w, err)
		return
	}

	WriteHttpSuccess(w, http.StatusOK, dto.NewTeacherResponse(teacher))
}

func (h *TeacherHandler) List(w http.ResponseWriter, r *http.Request) {
	teachers, err := h.teacherLogic.ListTeachers(r.Context())
	if err != nil {
		h.logger.Error("Failed to list teachers", zap.Error(err))
		WriteLogicError(w, err)
		return
	}

	WriteHttpSuccess(w, http.StatusOK, dto.NewTeacherListResponse(teachers))
}

func (h *TeacherHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := helper.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req dto.UpdateTeacherRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteHttpError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := h.validate.Struct(&req); err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}

	teacher, err := h.teacherLogic.UpdateTeacher(r.Context(), id, &req)
	if err != nil {
		WriteLogicError(w, err)
		return
	}

	WriteHttpSuccess(w, http.StatusOK, dto.NewTeacherResponse(teacher))
}

func (h *TeacherHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := helper.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		WriteHttpError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.teacherLogic.DeleteTeacher(r.Context(), id); err != nil {
		WriteLogicError(w, err)
		return
	}

	WriteHttpSuccess(w, http.StatusOK, nil)
}
