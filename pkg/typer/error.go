package typer

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation matches every *ValidationError under errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError describes the first failure a validator found.
type ValidationError struct {
	// Path locates the failing value from the root: field names for
	// objects and records, indexes for tuples and arrays. Empty at the root.
	Path []string

	// Message describes the failure at Path.
	Message string
}

func (e *ValidationError) Error() string {
	if len(e.Path) == 0 {
		return e.Message
	}
	return strings.Join(e.Path, ".") + ": " + e.Message
}

// Is reports whether target is ErrValidation.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func failf(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// within returns err with segment prepended to its path. Errors that are
// not validation errors are wrapped into one.
func within(segment string, err error) error {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return &ValidationError{Path: []string{segment}, Message: err.Error()}
	}
	path := make([]string, 0, len(ve.Path)+1)
	path = append(path, segment)
	path = append(path, ve.Path...)
	return &ValidationError{Path: path, Message: ve.Message}
}
