package dto

import (
	"time"

	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/helper"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/models"
)

type CreateBookRequest struct {
	Name         string  `json:"name" validate:"required"`
	DefaultPrice float64 `json:"defaultPrice" validate:"gte=0"`
}

type UpdateBookRequest struct {
	Name         *string  `json:"name" validate:"omitempty,min=1"`
	DefaultPrice *float64 `json:"defaultPrice" validate:"omitempty,gte=0"`
	IsActive     *bool    `json:"isActive"`
}

type BookResponse struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	DefaultPrice float64   `json:"defaultPrice"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// NewBookResponse maps a stored book onto the wire shape.
func NewBookResponse(book *models.Book) *BookResponse {
	price, _ := helper.Decimal128ToFloat64(book.DefaultPrice)
	return &BookResponse{
		ID:           book.ID.Hex(),
		Name:         book.Name,
		DefaultPrice: price,
		IsActive:     book.IsActive,
		CreatedAt:    book.CreatedAt,
		UpdatedAt:    book.UpdatedAt,
	}
}

func NewBookListResponse(books []*models.Book) []*BookResponse {
	out := make([]*BookResponse, 0, len(books))
	for _, b := range books {
		out = append(out, NewBookResponse(b))
	}
	return out
}
