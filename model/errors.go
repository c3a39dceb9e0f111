// File: model/errors.go
package model

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel error kinds. Typed errors below match them through errors.Is so
// callers can branch on the kind without caring about the structured context.
var (
	ErrNotFound          = errors.New("requested entry not found")
	ErrMissingParams     = errors.New("missing authenticator params")
	ErrInvalidParams     = errors.New("invalid authenticator params")
	ErrAlreadyExists     = errors.New("authenticator already exists")
	ErrStillWithinWindow = errors.New("inactivity window has not elapsed")
	ErrUnauthorized      = errors.New("unauthorized")
)

// InvalidParamsError wraps the decode or validation failure of authenticator params.
type InvalidParamsError struct {
	Err error
}

func (e *InvalidParamsError) Error() string {
	return fmt.Sprintf("invalid authenticator params: %v", e.Err)
}

func (e *InvalidParamsError) Unwrap() error { return e.Err }

func (e *InvalidParamsError) Is(target error) bool { return target == ErrInvalidParams }

// AlreadyExistsError is returned when an (account, authenticator id) pair is already tracked.
type AlreadyExistsError struct {
	Account         string
	AuthenticatorID string
}

func (e *AlreadyExistsError) Error() string {
	return fmt.Sprintf("authenticator '%s' already exists for account '%s'", e.AuthenticatorID, e.Account)
}

func (e *AlreadyExistsError) Is(target error) bool { return target == ErrAlreadyExists }

// StillWithinWindowError carries the instant after which the inactivity window is considered elapsed.
type StillWithinWindowError struct {
	ExpiresAt time.Time
}

func (e *StillWithinWindowError) Error() string {
	return fmt.Sprintf("time is yet to be out of bounds %s", e.ExpiresAt.UTC().Format(time.RFC3339Nano))
}

func (e *StillWithinWindowError) Is(target error) bool { return target == ErrStillWithinWindow }

// UnauthorizedError names the caller that was refused.
type UnauthorizedError struct {
	Sender string
}

func (e *UnauthorizedError) Error() string {
	if e.Sender == "" {
		return ErrUnauthorized.Error()
	}
	return fmt.Sprintf("unauthorized: caller '%s'", e.Sender)
}

func (e *UnauthorizedError) Is(target error) bool { return target == ErrUnauthorized }
