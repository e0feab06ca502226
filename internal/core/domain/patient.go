package domain

import (
	"errors"
	"time"
)

var ErrPatientNotFound = errors.New("patient not found")
var ErrEmailExists = errors.New("email address already exists")
var ErrBillingFailure = errors.New("billing account creation failed")

// Patient is the core persisted entity. Email is globally unique across all
// patients; the Mongo repository backs this with a unique index and the
// service re-checks it on every write.
type Patient struct {
	ID             string    `json:"id" bson:"_id,omitempty"`
	Name           string    `json:"name" bson:"name"`
	Email          string    `json:"email" bson:"email"`
	Address        string    `json:"address" bson:"address"`
	DateOfBirth    time.Time `json:"date_of_birth" bson:"date_of_birth"`
	RegisteredDate time.Time `json:"registered_date" bson:"registered_date"`
}
