package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound marks a selection triple that matches no dataset record.
// Unreachable when the triple came from the cascade, but checked anyway.
var ErrNotFound = errors.New("no matching record")

// MissingFieldError reports a required, non-defaultable column absent from
// the anchor record. Optional columns default to zero instead.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("required field %s is missing", e.Field)
}

// OracleError wraps a failure from the model oracle (transport, shape
// mismatch, bad status). The cause is preserved for logging; callers only
// branch on the type.
type OracleError struct {
	Err error
}

func (e *OracleError) Error() string { return "oracle predict failed: " + e.Err.Error() }
func (e *OracleError) Unwrap() error { return e.Err }
