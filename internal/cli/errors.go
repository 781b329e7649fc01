package cli

import (
	"errors"
	"fmt"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// errValidationFailed is returned after reporting documents that failed
// validation.
var errValidationFailed = errors.New("validation failed")

// exitError carries the process exit code for err.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func userError(err error) error {
	return &exitError{code: exitUserError, err: err}
}

// sysError marks a failure of the environment (filesystem, database).
func sysError(op string, err error) error {
	return &exitError{code: exitSysError, err: fmt.Errorf("%s: %w", op, err)}
}

// exitCode maps err to a process exit code. Errors not marked otherwise,
// including cobra's own usage errors, are user errors.
func exitCode(err error) int {
	if err == nil {
		return exitSuccess
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitUserError
}
