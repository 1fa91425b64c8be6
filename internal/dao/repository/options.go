package repository

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/dao/fields"
	"github.com/HarshanaAbeyrathne/SipsayuriBackend/internal/models"
)

// UpdateOptions is an exported struct that holds the fields for a MongoDB update
// operation. It is used with the Functional Options pattern.
type UpdateOptions struct {
	SetFields bson.M
	IncFields bson.M
}

// NewUpdateOptions creates a new instance of UpdateOptions.
func NewUpdateOptions() *UpdateOptions {
	return &UpdateOptions{
		SetFields: bson.M{},
		IncFields: bson.M{},
	}
}

// UpdateOption defines a function that can modify the UpdateOptions.
type UpdateOption func(*UpdateOptions)

// WithStatus is an option to update a document's status field.
func WithStatus(status string) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldStatus] = status
	}
}

// WithBillNumber is an option to update the bill's bill_number field.
func WithBillNumber(billNumber string) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldBillNumber] = billNumber
	}
}

// WithBillDate is an option to update the bill's date field.
func WithBillDate(t time.Time) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldBillDate] = t
	}
}

// WithBillTeacher is an option to update the bill's teacher reference.
func WithBillTeacher(teacherID primitive.ObjectID) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldBillTeacher] = teacherID
	}
}

// WithBookEntries replaces the bill's book entry list.
func WithBookEntries(entries []models.BookEntry) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldBillBookEntries] = entries
	}
}

// WithTotalAmount is an option to update the bill's total_amount field.
func WithTotalAmount(total primitive.Decimal128) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldBillTotalAmount] = total
	}
}

// WithRemainPayment is an option to set the bill's remain_payment field.
func WithRemainPayment(remain primitive.Decimal128) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldBillRemainPayment] = remain
	}
}

// WithIncRemainPayment is an option to increment the bill's remain_payment
// field by a given (possibly negative) amount.
func WithIncRemainPayment(amount primitive.Decimal128) UpdateOption {
	return func(o *UpdateOptions) {
		o.IncFields[fields.FieldBillRemainPayment] = amount
	}
}

// WithBookName is an option to update the book's name field.
func WithBookName(name string) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldBookName] = name
	}
}

// WithBookPrice is an option to update the book's default_price field.
func WithBookPrice(price primitive.Decimal128) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldBookPrice] = price
	}
}

// WithBookActive is an option to flip the book's is_active flag.
func WithBookActive(active bool) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldBookIsActive] = active
	}
}

// WithTeacherName is an option to update the teacher's teacher_name field.
func WithTeacherName(name string) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldTeacherName] = name
	}
}

// WithTeacherMobile is an option to update the teacher's mobile field.
func WithTeacherMobile(mobile string) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldTeacherMobile] = mobile
	}
}

// WithTeacherSchool is an option to update the teacher's school_name field.
func WithTeacherSchool(school string) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldTeacherSchool] = school
	}
}

// WithTeacherActive is an option to flip the teacher's active flag.
func WithTeacherActive(active bool) UpdateOption {
	return func(o *UpdateOptions) {
		o.SetFields[fields.FieldTeacherActive] = active
	}
}
