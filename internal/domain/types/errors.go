package types

import (
	"errors"
)

// Sentinel error kinds shared across layers.
var (
	ErrUnknownKind    = errors.New("unknown test kind")
	ErrNotInitialized = errors.New("dependency not initialized")
	ErrTestFailed     = errors.New("connectivity test failed")
)

// TestError carries a display message for a failed connectivity test.
// Kind is ErrNotInitialized or ErrTestFailed; Err is the driver error, if any.
type TestError struct {
	Kind    error
	Message string
	Err     error
}

func (e *TestError) Error() string { return e.Message }

func (e *TestError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
