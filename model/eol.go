// File: model/eol.go
package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"time"
)

// EOLObjectType is the composite key object type for EOL records.
const EOLObjectType = "EOL"

// EOL tracks the inactivity window of one authenticator on one account.
type EOL struct {
	ObjectType       string        `json:"objectType"`       // Set to EOLObjectType
	Account          string        `json:"account"`          // Account the authenticator is attached to
	AuthenticatorID  string        `json:"authenticatorId"`  // Opaque id assigned by the host ledger
	InactivityPeriod time.Duration `json:"inactivityPeriod"` // Window length in nanoseconds
	LastActiveAt     time.Time     `json:"lastActiveAt"`     // Registration time or last confirmed action
}

// EOLEntry pairs an authenticator id with its record for per-account listings.
type EOLEntry struct {
	AuthenticatorID string `json:"authenticatorId"`
	EOL             EOL    `json:"eol"`
}

// NewEOL creates a record whose window starts at now.
func NewEOL(account, authenticatorID string, inactivityPeriod time.Duration, now time.Time) EOL {
	return EOL{
		ObjectType:       EOLObjectType,
		Account:          account,
		AuthenticatorID:  authenticatorID,
		InactivityPeriod: inactivityPeriod,
		LastActiveAt:     now.UTC(),
	}
}

// Touch returns a copy with LastActiveAt moved to now. LastActiveAt never moves backwards.
func (e EOL) Touch(now time.Time) EOL {
	if now.After(e.LastActiveAt) {
		e.LastActiveAt = now.UTC()
	}
	return e
}

// ExpiresAt is the last instant that still counts as inside the window.
func (e EOL) ExpiresAt() time.Time {
	return e.LastActiveAt.Add(e.InactivityPeriod)
}

// CheckElapsed succeeds only once now is strictly after ExpiresAt.
func (e EOL) CheckElapsed(now time.Time) error {
	expiresAt := e.ExpiresAt()
	if !now.After(expiresAt) {
		return &StillWithinWindowError{ExpiresAt: expiresAt}
	}
	return nil
}

// EOLParams is the authenticator params document attached by the account owner.
type EOLParams struct {
	InactivityPeriod *Nanos `json:"inactivity_period"`
}

// Period returns the validated inactivity period.
func (p EOLParams) Period() time.Duration {
	if p.InactivityPeriod == nil {
		return 0
	}
	return p.InactivityPeriod.Duration()
}

// DecodeEOLParams parses and validates raw params. Absent params yield
// ErrMissingParams; anything malformed yields *InvalidParamsError.
func DecodeEOLParams(raw []byte) (*EOLParams, error) {
	if len(raw) == 0 {
		return nil, ErrMissingParams
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	var params EOLParams
	if err := dec.Decode(&params); err != nil {
		return nil, &InvalidParamsError{Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, &InvalidParamsError{Err: errors.New("trailing data after params document")}
	}
	if params.InactivityPeriod == nil {
		return nil, &InvalidParamsError{Err: errors.New("missing field `inactivity_period`")}
	}
	if *params.InactivityPeriod == 0 {
		return nil, &InvalidParamsError{Err: errors.New("inactivity_period must be positive")}
	}
	return &params, nil
}

// Nanos is a nanosecond count encoded the way CosmWasm encodes Timestamp:
// a decimal string. Bare JSON numbers are accepted on input.
type Nanos uint64

// NanosFromDuration converts a non-negative duration.
func NanosFromDuration(d time.Duration) Nanos {
	if d < 0 {
		return 0
	}
	return Nanos(d)
}

// Duration converts to time.Duration.
func (n Nanos) Duration() time.Duration {
	return time.Duration(n)
}

func (n Nanos) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatUint(uint64(n), 10))
}

func (n *Nanos) UnmarshalJSON(data []byte) error {
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		raw = s
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid nanosecond value %q: %w", raw, err)
	}
	if v > math.MaxInt64 {
		return fmt.Errorf("nanosecond value %d overflows a duration", v)
	}
	*n = Nanos(v)
	return nil
}
