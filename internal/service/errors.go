package service

import (
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidID       = errors.New("invalid_id")
	ErrReportNotFound  = errors.New("not_found")
	ErrEmptyQuestion   = errors.New("empty_question")
	ErrColumnNotFound  = errors.New("column_not_found")
	ErrAuthUnavailable = errors.New("auth is not configured")
)

// ValidateID checks that id is a 24 character hex object id
func ValidateID(id string) error {
	if !primitive.IsValidObjectID(id) {
		return ErrInvalidID
	}
	return nil
}
