package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Payment is a settlement applied against a bill's remaining balance.
// Payments are immutable once created; the only mutation is deletion, which
// reverses the balance on the referenced bill.
type Payment struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Bill        primitive.ObjectID   `bson:"bill"`
	ReceiptNo   string               `bson:"receipt_no"`
	PaymentDate time.Time            `bson:"payment_date"`
	Amount      primitive.Decimal128 `bson:"amount"`
	CollectBy   string               `bson:"collect_by,omitempty"`
	CreatedAt   time.Time            `bson:"created_at"`
}
