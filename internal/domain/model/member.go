package model

import (
	"time"
)

// Field names as they appear on the wire and in every backend's document.
const (
	FieldName        = "name"
	FieldRole        = "role"
	FieldPhoto       = "photo"
	FieldDescription = "description"
	FieldCreatedAt   = "created_at"
	FieldUpdatedAt   = "updated_at"
)

// TimestampPrecision is the resolution every backend can store losslessly.
const TimestampPrecision = time.Millisecond

type Member struct {
	ID          string    `json:"id" bson:"id"`
	Name        string    `json:"name" bson:"name"`
	Role        string    `json:"role" bson:"role"`
	Photo       *string   `json:"photo" bson:"photo"`
	Description *string   `json:"description" bson:"description"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// NewMember builds a fully populated record. created_at and updated_at are equal.
func NewMember(id, name, role string, photo, description *string, now time.Time) *Member {
	ts := Timestamp(now)
	return &Member{
		ID:          id,
		Name:        name,
		Role:        role,
		Photo:       photo,
		Description: description,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
}

// Timestamp normalizes t to UTC at storage precision.
func Timestamp(t time.Time) time.Time {
	return t.UTC().Truncate(TimestampPrecision)
}

// NextUpdatedAt returns a timestamp strictly after prev, using now when the
// clock has advanced far enough.
func NextUpdatedAt(prev, now time.Time) time.Time {
	next := Timestamp(now)
	if !next.After(prev) {
		next = Timestamp(prev).Add(TimestampPrecision)
	}
	return next
}
