package dto

import (
	"time"

	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/models"
)

type CreateTeacherRequest struct {
	TeacherName string `json:"teacherName" validate:"required"`
	Mobile      string `json:"mobile" validate:"required,mobile"`
	SchoolName  string `json:"schoolName" validate:"required"`
}

type UpdateTeacherRequest struct {
	TeacherName *string `json:"teacherName" validate:"omitempty,min=1"`
	Mobile      *string `json:"mobile" validate:"omitempty,mobile"`
	SchoolName  *string `json:"schoolName" validate:"omitempty,min=1"`
	Active      *bool   `json:"active"`
}

type TeacherResponse struct {
	ID          string    `json:"_id"`
	TeacherName string    `json:"teacherName"`
	Mobile      string    `json:"mobile"`
	SchoolName  string    `json:"schoolName"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TeacherSummary is the reduced teacher shape embedded in bill listings.
type TeacherSummary struct {
	ID          string `json:"_id"`
	TeacherName string `json:"teacherName"`
	Mobile      string `json:"mobile"`
	SchoolName  string `json:"schoolName"`
}

func NewTeacherResponse(teacher *models.Teacher) *TeacherResponse {
	return &TeacherResponse{
		ID:          teacher.ID.Hex(),
		TeacherName: teacher.TeacherName,
		Mobile:      teacher.Mobile,
		SchoolName:  teacher.SchoolName,
		Active:      teacher.Active,
		CreatedAt:   teacher.CreatedAt,
		UpdatedAt:   teacher.UpdatedAt,
	}
}

func NewTeacherListResponse(teachers []*models.Teacher) []*TeacherResponse {
	out := make([]*TeacherResponse, 0, len(teachers))
	for _, t := range teachers {
		out = append(out, NewTeacherResponse(t))
	}
	return out
}

func NewTeacherSummary(teacher *models.Teacher) *TeacherSummary {
	return &TeacherSummary{
		ID:          teacher.ID.Hex(),
		TeacherName: teacher.TeacherName,
		Mobile:      teacher.Mobile,
		SchoolName:  teacher.SchoolName,
	}
}
