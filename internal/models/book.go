package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Book is a catalog item. Books are never physically removed; deletion clears
// the IsActive flag so historical bills keep resolving.
type Book struct {
	ID           primitive.ObjectID   `bson:"_id,omitempty"`
	Name         string               `bson:"name"`
	DefaultPrice primitive.Decimal128 `bson:"default_price"`
	IsActive     bool                 `bson:"is_active"`
	CreatedAt    time.Time            `bson:"created_at"`
	UpdatedAt    time.Time            `bson:"updated_at"`
}
