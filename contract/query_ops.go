package contract

import (
	"fmt"

	"eolauth/model"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// --- Read-only Queries ---

func (s *EOLAuthenticatorContract) GetEOL(ctx contractapi.TransactionContextInterface, account string, authenticatorID string) (*model.EOL, error) {
	logger.Debugf("Chaincode Call: GetEOL for '%s' on account '%s'", authenticatorID, account)
	eol, err := NewEOLTracker(ctx.GetStub()).Get(account, authenticatorID)
	if err != nil {
		return nil, fmt.Errorf("GetEOL: %w", err)
	}
	return eol, nil
}

// ListEOLsByAccount returns every tracked authenticator of account ordered by id.
func (s *EOLAuthenticatorContract) ListEOLsByAccount(ctx contractapi.TransactionContextInterface, account string) ([]model.EOLEntry, error) {
	logger.Debugf("Chaincode Call: ListEOLsByAccount for '%s'", account)
	entries, err := NewEOLTracker(ctx.GetStub()).ListByAccount(account)
	if err != nil {
		return nil, fmt.Errorf("ListEOLsByAccount: %w", err)
	}
	logger.Debugf("ListEOLsByAccount: Returning %d records for '%s'", len(entries), account)
	return entries, nil
}

// CheckEOLElapsed fails with the window expiry unless the inactivity window
// of the authenticator has elapsed at the transaction timestamp.
func (s *EOLAuthenticatorContract) CheckEOLElapsed(ctx contractapi.TransactionContextInterface, account string, authenticatorID string) error {
	logger.Debugf("Chaincode Call: CheckEOLElapsed for '%s' on account '%s'", authenticatorID, account)
	now, err := s.getCurrentTxTimestamp(ctx)
	if err != nil {
		return fmt.Errorf("CheckEOLElapsed: %w", err)
	}
	if err := NewEOLTracker(ctx.GetStub()).CheckElapsed(account, authenticatorID, now); err != nil {
		return fmt.Errorf("CheckEOLElapsed: %w", err)
	}
	return nil
}

// GetAdmin returns the current holder, or an empty string when there is none.
func (s *EOLAuthenticatorContract) GetAdmin(ctx contractapi.TransactionContextInterface) (string, error) {
	admin, err := loadAdmin(ctx.GetStub())
	if err != nil {
		return "", fmt.Errorf("GetAdmin: %w", err)
	}
	holder, _ := admin.CurrentHolder()
	return holder, nil
}

// GetAdminCandidate returns the pending candidate, or an empty string when no transfer is pending.
func (s *EOLAuthenticatorContract) GetAdminCandidate(ctx contractapi.TransactionContextInterface) (string, error) {
	admin, err := loadAdmin(ctx.GetStub())
	if err != nil {
		return "", fmt.Errorf("GetAdminCandidate: %w", err)
	}
	candidate, _ := admin.PendingCandidate()
	return candidate, nil
}
