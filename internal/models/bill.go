package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BookEntry is one line of a bill. BookName is a snapshot taken when the entry
// is written so later catalog renames do not change historical bills. FreeIssue
// is informational and excluded from the line total.
type BookEntry struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty"`
	Book      primitive.ObjectID   `bson:"book"`
	BookName  string               `bson:"book_name"`
	Price     primitive.Decimal128 `bson:"price"`
	Quantity  int64                `bson:"quantity"`
	FreeIssue int64                `bson:"free_issue"`
	Total     primitive.Decimal128 `bson:"total"`
}

// Bill is an invoice for book quantities sold to a teacher. RemainPayment
// starts at TotalAmount and is only ever mutated through guarded document
// updates on the bills collection.
type Bill struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty"`
	BillNumber    string               `bson:"bill_number"`
	Date          time.Time            `bson:"date"`
	Teacher       primitive.ObjectID   `bson:"teacher"`
	BookEntries   []BookEntry          `bson:"book_entries"`
	TotalAmount   primitive.Decimal128 `bson:"total_amount"`
	RemainPayment primitive.Decimal128 `bson:"remain_payment"`
	Status        string               `bson:"status"`
	CreatedAt     time.Time            `bson:"created_at"`
	UpdatedAt     time.Time            `bson:"updated_at"`
}
