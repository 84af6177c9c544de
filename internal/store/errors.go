package store

import (
	"errors"
	"fmt"

	"slidedeck/internal/document"
	"slidedeck/internal/format"
	"slidedeck/internal/paths"
)

var (
	// ErrNotFound reports a missing document or import source.
	ErrNotFound = errors.New("not found")
	// ErrNotRegularFile reports an import source that is a directory or device.
	ErrNotRegularFile = errors.New("not a regular file")
	// ErrAlreadyExists reports a Create over an existing document.
	ErrAlreadyExists = errors.New("already exists")
	// ErrUnknownFormat reports an export format with no registered provider.
	ErrUnknownFormat = errors.New("unknown format")
	// ErrUnsupportedFile reports an import source no provider recognises.
	ErrUnsupportedFile = errors.New("unsupported file")
	// ErrNoChange is returned by a Modify callback that left the item as it was.
	ErrNoChange = errors.New("no change")
)

// Error kinds reported by ErrorKind.
const (
	KindNotFound   = "not_found"
	KindConflict   = "conflict"
	KindValidation = "validation"
	KindIO         = "io"
)

// ErrorClassifier lets callers map failures to exit codes and messages
// without matching on sentinel errors.
type ErrorClassifier interface {
	ErrorKind() string
}

// Error wraps a failed adapter operation.
type Error struct {
	Op       string
	Resource string
	ID       string
	Err      error
}

func (e *Error) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Resource, e.Err)
	}
	return fmt.Sprintf("%s %s %s: %v", e.Op, e.Resource, e.ID, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrorKind classifies the wrapped error.
func (e *Error) ErrorKind() string {
	switch {
	case errors.Is(e.Err, ErrNotFound):
		return KindNotFound
	case errors.Is(e.Err, ErrAlreadyExists):
		return KindConflict
	case errors.Is(e.Err, ErrNotRegularFile),
		errors.Is(e.Err, ErrUnsupportedFile),
		errors.Is(e.Err, ErrUnknownFormat),
		errors.Is(e.Err, paths.ErrInvalidID),
		errors.Is(e.Err, format.ErrWriteUnsupported),
		errors.Is(e.Err, document.ErrUnknownType),
		errors.Is(e.Err, document.ErrNotDocument),
		errors.Is(e.Err, document.ErrUnsupportedVersion):
		return KindValidation
	default:
		return KindIO
	}
}

// Kind returns the classification of err, or "" when err does not carry one.
func Kind(err error) string {
	var classifier ErrorClassifier
	if errors.As(err, &classifier) {
		return classifier.ErrorKind()
	}
	return ""
}

// ItemError records one failed item inside a batch operation.
type ItemError struct {
	Name string
	ID   string
	Err  error
}

func (e ItemError) Error() string {
	switch {
	case e.ID != "" && e.Name != "":
		return fmt.Sprintf("%s (%s): %v", e.Name, e.ID, e.Err)
	case e.ID != "":
		return fmt.Sprintf("%s: %v", e.ID, e.Err)
	default:
		return fmt.Sprintf("%s: %v", e.Name, e.Err)
	}
}

func (e ItemError) Unwrap() error { return e.Err }
