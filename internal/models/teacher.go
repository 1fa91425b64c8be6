package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Teacher is a customer of the distribution business. Mobile numbers are
// unique across teachers.
type Teacher struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	TeacherName string             `bson:"teacher_name"`
	Mobile      string             `bson:"mobile"`
	SchoolName  string             `bson:"school_name"`
	Active      bool               `bson:"active"`
	CreatedAt   time.Time          `bson:"created_at"`
	UpdatedAt   time.Time          `bson:"updated_at"`
}
