// Package usecase implements attribute extraction: fetching pages, pulling
// a text fragment out of them, converting it and storing the result with
// its history.
package usecase

import "errors"

var (
	// ErrFetch wraps any downloader failure. The extraction is aborted and nothing is written.
	ErrFetch = errors.New("fetch failed")
	// ErrCompanyNotFound is returned when no company has the requested symbol.
	ErrCompanyNotFound = errors.New("company not found")
	// ErrAttributeNotFound is returned when the requested attribute does not exist.
	ErrAttributeNotFound = errors.New("attribute not found")
	// ErrInvalidArgument is returned for structurally invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
)
