package contract

import (
	"encoding/json"
	"fmt"
	"time"

	"eolauth/model"

	"github.com/hyperledger/fabric/common/flogging"
)

var trackerLogger = flogging.MustGetLogger("eolauth.eoltracker")

// EOLTracker stores one EOL record per (account, authenticator id).
type EOLTracker struct {
	ledger Ledger
}

// NewEOLTracker creates a tracker over ledger.
func NewEOLTracker(ledger Ledger) *EOLTracker {
	return &EOLTracker{ledger: ledger}
}

// Create starts tracking an authenticator. An existing record is never overwritten.
func (t *EOLTracker) Create(account, authenticatorID string, inactivityPeriod time.Duration, now time.Time) (*model.EOL, error) {
	key, err := eolKey(t.ledger, account, authenticatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to create EOL key: %w", err)
	}
	existing, err := t.ledger.GetState(key)
	if err != nil {
		return nil, fmt.Errorf("failed to check EOL state for '%s'/'%s': %w", account, authenticatorID, err)
	}
	if existing != nil {
		return nil, &model.AlreadyExistsError{Account: account, AuthenticatorID: authenticatorID}
	}

	eol := model.NewEOL(account, authenticatorID, inactivityPeriod, now)
	if err := t.put(key, &eol); err != nil {
		return nil, err
	}
	trackerLogger.Infof("Tracking authenticator '%s' on account '%s' with inactivity period %s", authenticatorID, account, inactivityPeriod)
	return &eol, nil
}

// Get loads a record or returns model.ErrNotFound.
func (t *EOLTracker) Get(account, authenticatorID string) (*model.EOL, error) {
	key, err := eolKey(t.ledger, account, authenticatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to create EOL key: %w", err)
	}
	data, err := t.ledger.GetState(key)
	if err != nil {
		return nil, fmt.Errorf("ledger error retrieving EOL for '%s'/'%s': %w", account, authenticatorID, err)
	}
	if data == nil {
		return nil, model.ErrNotFound
	}
	var eol model.EOL
	if err := json.Unmarshal(data, &eol); err != nil {
		return nil, fmt.Errorf("failed to unmarshal EOL for '%s'/'%s': %w", account, authenticatorID, err)
	}
	return &eol, nil
}

// Touch records activity at now on an existing record.
func (t *EOLTracker) Touch(account, authenticatorID string, now time.Time) (*model.EOL, error) {
	eol, err := t.Get(account, authenticatorID)
	if err != nil {
		return nil, err
	}
	touched := eol.Touch(now)
	if err := t.Save(&touched); err != nil {
		return nil, err
	}
	trackerLogger.Debugf("Authenticator '%s' on account '%s' active at %s", authenticatorID, account, touched.LastActiveAt.Format(time.RFC3339))
	return &touched, nil
}

// Save writes eol under its own (account, authenticator id) key.
func (t *EOLTracker) Save(eol *model.EOL) error {
	key, err := eolKey(t.ledger, eol.Account, eol.AuthenticatorID)
	if err != nil {
		return fmt.Errorf("failed to create EOL key: %w", err)
	}
	eol.ObjectType = model.EOLObjectType
	return t.put(key, eol)
}

// CheckElapsed loads a record and checks that its inactivity window has elapsed at now.
func (t *EOLTracker) CheckElapsed(account, authenticatorID string, now time.Time) error {
	eol, err := t.Get(account, authenticatorID)
	if err != nil {
		return err
	}
	return eol.CheckElapsed(now)
}

// Remove deletes a record. Removing an untracked authenticator is not an error.
func (t *EOLTracker) Remove(account, authenticatorID string) error {
	key, err := eolKey(t.ledger, account, authenticatorID)
	if err != nil {
		return fmt.Errorf("failed to create EOL key: %w", err)
	}
	if err := t.ledger.DelState(key); err != nil {
		return fmt.Errorf("failed to delete EOL for '%s'/'%s': %w", account, authenticatorID, err)
	}
	trackerLogger.Infof("Stopped tracking authenticator '%s' on account '%s'", authenticatorID, account)
	return nil
}

// ListByAccount returns every record of account ordered by authenticator id.
func (t *EOLTracker) ListByAccount(account string) ([]model.EOLEntry, error) {
	if err := model.ValidateRequired(account, "account", model.MaxIdentityLength); err != nil {
		return nil, err
	}
	resultsIterator, err := t.ledger.GetStateByPartialCompositeKey(model.EOLObjectType, []string{account})
	if err != nil {
		return nil, fmt.Errorf("failed to get EOL iterator for account '%s': %w", account, err)
	}
	defer resultsIterator.Close()

	entries := []model.EOLEntry{}
	for resultsIterator.HasNext() {
		queryResponse, err := resultsIterator.Next()
		if err != nil {
			return nil, fmt.Errorf("failed to iterate EOLs for account '%s': %w", account, err)
		}
		var eol model.EOL
		if err := json.Unmarshal(queryResponse.Value, &eol); err != nil {
			return nil, fmt.Errorf("failed to unmarshal EOL at key '%s': %w", queryResponse.Key, err)
		}
		entries = append(entries, model.EOLEntry{AuthenticatorID: eol.AuthenticatorID, EOL: eol})
	}
	return entries, nil
}

func (t *EOLTracker) put(key string, eol *model.EOL) error {
	data, err := json.Marshal(eol)
	if err != nil {
		return fmt.Errorf("failed to marshal EOL for '%s'/'%s': %w", eol.Account, eol.AuthenticatorID, err)
	}
	if err := t.ledger.PutState(key, data); err != nil {
		return fmt.Errorf("failed to save EOL for '%s'/'%s': %w", eol.Account, eol.AuthenticatorID, err)
	}
	return nil
}
