package see

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/kindof/pkg/typer"
)

// Pipeline errors.
var (
	// ErrIncorrectType matches every *TypeError.
	ErrIncorrectType = errors.New("incorrect type")

	// ErrAborted is stored when a step failed and the hook returned nil.
	ErrAborted = errors.New("pipeline aborted")
)

// TypeError reports a value that failed a check for a reason other than a
// validation error.
type TypeError struct {
	Value any
	Err   error // cause, nil when the predicate returned false
}

func (e *TypeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("incorrect type: %v: %v", e.Value, e.Err)
	}
	return fmt.Sprintf("incorrect type: %v", e.Value)
}

// Is reports whether target is ErrIncorrectType.
func (e *TypeError) Is(target error) bool {
	return target == ErrIncorrectType
}

func (e *TypeError) Unwrap() error {
	return e.Err
}

// ErrorHook decides what a failed step leaves in the pipeline. value is the
// value the step ran on and err the failure. Returning nil suppresses the
// error, but the pipeline still stops.
type ErrorHook func(value any, err error) error

// DefaultHook returns validation errors and type errors unchanged and wraps
// any other error in a *TypeError.
func DefaultHook(value any, err error) error {
	var te *TypeError
	if errors.Is(err, typer.ErrValidation) || errors.As(err, &te) {
		return err
	}
	return &TypeError{Value: value, Err: err}
}

// Maker holds the configuration shared by the pipelines it creates.
type Maker struct {
	hook   ErrorHook
	logger *zap.Logger
}

// Option configures a Maker.
type Option func(*Maker)

// WithErrorHook replaces DefaultHook.
func WithErrorHook(h ErrorHook) Option {
	return func(m *Maker) {
		if h != nil {
			m.hook = h
		}
	}
}

// WithLogger logs failed steps at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(m *Maker) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewMaker returns a Maker using DefaultHook and a no-op logger unless
// overridden.
func NewMaker(opts ...Option) *Maker {
	m := &Maker{hook: DefaultHook, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// fail runs the hook and returns what the pipeline stores.
func (m *Maker) fail(step string, value any, cause error) error {
	err := m.hook(value, cause)
	m.logger.Debug("see: step failed",
		zap.String("step", step),
		zap.NamedError("cause", cause),
		zap.Bool("suppressed", err == nil))
	if err == nil {
		return ErrAborted
	}
	return err
}
