package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// SystemUser represents an operator for actions performed by the system itself,
// or by a caller that did not identify itself.
var SystemUser = &User{
	UserId: primitive.NilObjectID,
	Name:   "System",
}

// User identifies the back-office operator behind a request. It is recorded in
// audit logs only; authentication itself is handled upstream.
type User struct {
	UserId primitive.ObjectID `json:"user_id" bson:"user_id"`
	Name   string             `json:"name" bson:"name"`
}
