package composite

import (
	"errors"
	"fmt"
)

// ErrInvalidID is matched by every *InvalidIDError.
var ErrInvalidID = errors.New("invalid composite id")

// InvalidIDError reports a malformed or out-of-range composite id. ID is
// always the full dotted identifier the caller asked for.
type InvalidIDError struct {
	ID     string
	Reason string
}

func (e *InvalidIDError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid composite id %s", e.ID)
	}
	return fmt.Sprintf("invalid composite id %s: %s", e.ID, e.Reason)
}

func (e *InvalidIDError) Is(target error) bool { return target == ErrInvalidID }

// DecodeError wraps a failure to decode a configuration blob. Depth 0 is the
// root authenticator's own config.
type DecodeError struct {
	Depth int
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode authenticator data at depth %d: %v", e.Depth, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }
