package contract

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"eolauth/model"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
	"github.com/hyperledger/fabric/common/flogging"
)

var logger = flogging.MustGetLogger("eolauth.contract")

const (
	contractName    = "eolauth"
	contractVersion = "0.1.0"
)

// EOLAuthenticatorContract tracks account authenticator inactivity windows and
// the administrative capability that configures them.
// @contract:EOLAuthenticatorContract
type EOLAuthenticatorContract struct {
	contractapi.Contract
}

// Instantiate records the contract version, the optional initial admin and
// the host MSP allowed to call lifecycle hooks. It runs once per ledger.
func (s *EOLAuthenticatorContract) Instantiate(ctx contractapi.TransactionContextInterface, adminID string, hostMSP string) error {
	logger.Infof("Chaincode Call: Instantiate (admin: '%s', host MSP: '%s')", adminID, hostMSP)
	stub := ctx.GetStub()

	existing, err := loadContractInfo(stub)
	if err != nil {
		return fmt.Errorf("Instantiate: %w", err)
	}
	if existing != nil {
		return fmt.Errorf("Instantiate: contract '%s' version '%s' already instantiated at %s: %w",
			existing.Name, existing.Version, existing.InstantiatedAt.Format(time.RFC3339), model.ErrAlreadyExists)
	}
	if err := s.validateOptionalString(adminID, "adminID", model.MaxIdentityLength); err != nil {
		return fmt.Errorf("Instantiate: %w", err)
	}
	if err := s.validateRequiredString(hostMSP, "hostMSP", model.MaxNameLength); err != nil {
		return fmt.Errorf("Instantiate: %w", err)
	}

	now, err := s.getCurrentTxTimestamp(ctx)
	if err != nil {
		return fmt.Errorf("Instantiate: %w", err)
	}
	info := &model.ContractInfo{
		Name:           contractName,
		Version:        contractVersion,
		HostMSP:        strings.TrimSpace(hostMSP),
		InstantiatedAt: now,
	}
	if err := saveContractInfo(stub, info); err != nil {
		return fmt.Errorf("Instantiate: %w", err)
	}

	if admin := strings.TrimSpace(adminID); admin != "" {
		if err := saveAdmin(stub, model.SoleAdmin{Holder: admin}); err != nil {
			return fmt.Errorf("Instantiate: %w", err)
		}
		logger.Infof("Instantiate: '%s' holds the admin capability", admin)
	}
	return emitAction(stub, "instantiate", map[string]string{"version": contractVersion})
}

// GetContractInfo returns the instantiation record and current settings.
func (s *EOLAuthenticatorContract) GetContractInfo(ctx contractapi.TransactionContextInterface) (*model.ContractInfo, error) {
	logger.Debug("Chaincode Call: GetContractInfo")
	info, err := loadContractInfo(ctx.GetStub())
	if err != nil {
		return nil, fmt.Errorf("GetContractInfo: %w", err)
	}
	if info == nil {
		return nil, fmt.Errorf("GetContractInfo: contract not instantiated: %w", model.ErrNotFound)
	}
	return info, nil
}

// --- Core Helper Methods (used across multiple operations) ---

// getCurrentTxTimestamp retrieves the current transaction timestamp from the stub.
func (s *EOLAuthenticatorContract) getCurrentTxTimestamp(ctx contractapi.TransactionContextInterface) (time.Time, error) {
	ts, err := ctx.GetStub().GetTxTimestamp()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get transaction timestamp: %w", err)
	}
	return ts.AsTime(), nil
}

// getCallerID returns the submitting client's identity ID.
func (s *EOLAuthenticatorContract) getCallerID(ctx contractapi.TransactionContextInterface) (string, error) {
	clientIdentity := ctx.GetClientIdentity()
	if clientIdentity == nil {
		return "", errors.New("client identity is nil from context")
	}
	id, err := clientIdentity.GetID()
	if err != nil {
		return "", fmt.Errorf("failed to get client identity ID from context: %w", err)
	}
	if id == "" {
		return "", errors.New("client identity ID from context is empty")
	}
	return id, nil
}

// requireHost refuses hook calls from outside the configured host MSP. With no
// host MSP on record (not instantiated) every caller is refused.
func (s *EOLAuthenticatorContract) requireHost(ctx contractapi.TransactionContextInterface, info *model.ContractInfo) error {
	clientIdentity := ctx.GetClientIdentity()
	if clientIdentity == nil {
		return errors.New("client identity is nil from context")
	}
	mspID, err := clientIdentity.GetMSPID()
	if err != nil {
		return fmt.Errorf("failed to get caller MSPID: %w", err)
	}
	if info == nil || info.HostMSP == "" || mspID != info.HostMSP {
		return &model.UnauthorizedError{Sender: mspID}
	}
	return nil
}

// --- Validation Helper Functions ---
func (s *EOLAuthenticatorContract) validateRequiredString(input, field string, max int) error {
	return model.ValidateRequired(input, field, max)
}

func (s *EOLAuthenticatorContract) validateOptionalString(input, field string, max int) error {
	return model.ValidateOptional(input, field, max)
}
