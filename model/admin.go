// File: model/admin.go
package model

import (
	"encoding/json"
	"fmt"
)

// AdminObjectType is the composite key object type of the admin singleton.
const AdminObjectType = "Admin"

// Admin is the holder of the administrative capability. It is a closed set of
// states: NoAdmin, SoleAdmin and TransferringAdmin.
type Admin interface {
	isAdmin()
	// CurrentHolder returns the holder, if any.
	CurrentHolder() (string, bool)
	// PendingCandidate returns the nominated candidate, if a transfer is pending.
	PendingCandidate() (string, bool)
}

// NoAdmin means nobody holds the capability. No transition leaves this state.
type NoAdmin struct{}

// SoleAdmin is a settled holder.
type SoleAdmin struct {
	Holder string
}

// TransferringAdmin is a holder that has nominated a candidate who has not answered yet.
type TransferringAdmin struct {
	Holder    string
	Candidate string
}

func (NoAdmin) isAdmin() {}
func (SoleAdmin) isAdmin() {}
func (TransferringAdmin) isAdmin() {}

func (NoAdmin) CurrentHolder() (string, bool) { return "", false }
func (a SoleAdmin) CurrentHolder() (string, bool) { return a.Holder, true }
func (a TransferringAdmin) CurrentHolder() (string, bool) { return a.Holder, true }

func (NoAdmin) PendingCandidate() (string, bool) { return "", false }
func (SoleAdmin) PendingCandidate() (string, bool) { return "", false }
func (a TransferringAdmin) PendingCandidate() (string, bool) { return a.Candidate, true }

// AuthorizeAdmin succeeds when sender currently holds the capability.
func AuthorizeAdmin(a Admin, sender string) error {
	switch a := a.(type) {
	case NoAdmin:
		return &UnauthorizedError{Sender: sender}
	case SoleAdmin:
		if a.Holder == sender {
			return nil
		}
	case TransferringAdmin:
		if a.Holder == sender {
			return nil
		}
	default:
		panic(fmt.Sprintf("unhandled admin state %T", a))
	}
	return &UnauthorizedError{Sender: sender}
}

// TransferAdmin nominates candidate. Calling it again during a pending transfer
// replaces the candidate.
func TransferAdmin(a Admin, sender, candidate string) (Admin, error) {
	switch a := a.(type) {
	case NoAdmin:
		return nil, &UnauthorizedError{Sender: sender}
	case SoleAdmin:
		if a.Holder == sender {
			return TransferringAdmin{Holder: a.Holder, Candidate: candidate}, nil
		}
	case TransferringAdmin:
		if a.Holder == sender {
			return TransferringAdmin{Holder: a.Holder, Candidate: candidate}, nil
		}
	default:
		panic(fmt.Sprintf("unhandled admin state %T", a))
	}
	return nil, &UnauthorizedError{Sender: sender}
}

// ClaimAdminTransfer lets the candidate take over.
func ClaimAdminTransfer(a Admin, sender string) (Admin, error) {
	switch a := a.(type) {
	case NoAdmin, SoleAdmin:
		return nil, &UnauthorizedError{Sender: sender}
	case TransferringAdmin:
		if a.Candidate == sender {
			return SoleAdmin{Holder: a.Candidate}, nil
		}
	default:
		panic(fmt.Sprintf("unhandled admin state %T", a))
	}
	return nil, &UnauthorizedError{Sender: sender}
}

// RejectAdminTransfer lets the candidate decline; the holder keeps the capability.
func RejectAdminTransfer(a Admin, sender string) (Admin, error) {
	switch a := a.(type) {
	case NoAdmin, SoleAdmin:
		return nil, &UnauthorizedError{Sender: sender}
	case TransferringAdmin:
		if a.Candidate == sender {
			return SoleAdmin{Holder: a.Holder}, nil
		}
	default:
		panic(fmt.Sprintf("unhandled admin state %T", a))
	}
	return nil, &UnauthorizedError{Sender: sender}
}

// CancelAdminTransfer lets the holder withdraw a nomination.
func CancelAdminTransfer(a Admin, sender string) (Admin, error) {
	switch a := a.(type) {
	case NoAdmin, SoleAdmin:
		return nil, &UnauthorizedError{Sender: sender}
	case TransferringAdmin:
		if a.Holder == sender {
			return SoleAdmin{Holder: a.Holder}, nil
		}
	default:
		panic(fmt.Sprintf("unhandled admin state %T", a))
	}
	return nil, &UnauthorizedError{Sender: sender}
}

// RevokeAdmin drops the capability for good.
func RevokeAdmin(a Admin, sender string) (Admin, error) {
	if err := AuthorizeAdmin(a, sender); err != nil {
		return nil, err
	}
	return NoAdmin{}, nil
}

const (
	adminStateNone         = "none"
	adminStateSole         = "sole"
	adminStateTransferring = "transferring"
)

// adminRecord is the ledger representation of Admin.
type adminRecord struct {
	ObjectType string `json:"objectType"`
	State      string `json:"state"`
	Holder     string `json:"holder,omitempty"`
	Candidate  string `json:"candidate,omitempty"`
}

// MarshalAdmin encodes an Admin state for the world state.
func MarshalAdmin(a Admin) ([]byte, error) {
	rec := adminRecord{ObjectType: AdminObjectType}
	switch a := a.(type) {
	case NoAdmin:
		rec.State = adminStateNone
	case SoleAdmin:
		rec.State = adminStateSole
		rec.Holder = a.Holder
	case TransferringAdmin:
		rec.State = adminStateTransferring
		rec.Holder = a.Holder
		rec.Candidate = a.Candidate
	default:
		return nil, fmt.Errorf("unhandled admin state %T", a)
	}
	return json.Marshal(rec)
}

// UnmarshalAdmin decodes a stored Admin state. Empty input is NoAdmin.
func UnmarshalAdmin(data []byte) (Admin, error) {
	if len(data) == 0 {
		return NoAdmin{}, nil
	}
	var rec adminRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to unmarshal admin record: %w", err)
	}
	switch rec.State {
	case adminStateNone:
		return NoAdmin{}, nil
	case adminStateSole:
		if rec.Holder == "" {
			return nil, fmt.Errorf("admin record in state '%s' has no holder", rec.State)
		}
		return SoleAdmin{Holder: rec.Holder}, nil
	case adminStateTransferring:
		if rec.Holder == "" || rec.Candidate == "" {
			return nil, fmt.Errorf("admin record in state '%s' is missing holder or candidate", rec.State)
		}
		return TransferringAdmin{Holder: rec.Holder, Candidate: rec.Candidate}, nil
	default:
		return nil, fmt.Errorf("unknown admin state '%s'", rec.State)
	}
}
