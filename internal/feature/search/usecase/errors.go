package usecase

import "errors"

var (
	// ErrAttributeNotFound is returned when a criterion or bounds request names an unknown attribute.
	ErrAttributeNotFound = errors.New("attribute not found")
	// ErrInvalidArgument is returned for structurally invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
)
