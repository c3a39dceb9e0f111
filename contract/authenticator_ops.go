package contract

import (
	"encoding/json"
	"fmt"

	"eolauth/model"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
)

// --- Lifecycle Hooks (called by the host ledger) ---
// Each hook takes the host's request document as a JSON string.

func (s *EOLAuthenticatorContract) OnAuthenticatorAdded(ctx contractapi.TransactionContextInterface, requestJSON string) error {
	var req model.OnAuthenticatorAddedRequest
	if err := decodeRequest(requestJSON, &req); err != nil {
		return fmt.Errorf("OnAuthenticatorAdded: %w", err)
	}
	logger.Infof("Chaincode Call: OnAuthenticatorAdded for '%s' on account '%s'", req.AuthenticatorID, req.Account)
	coordinator, err := s.newCoordinator(ctx)
	if err != nil {
		return fmt.Errorf("OnAuthenticatorAdded: %w", err)
	}
	if err := coordinator.OnAuthenticatorAdded(req); err != nil {
		return fmt.Errorf("OnAuthenticatorAdded: %w", err)
	}
	return nil
}

func (s *EOLAuthenticatorContract) OnAuthenticatorRemoved(ctx contractapi.TransactionContextInterface, requestJSON string) error {
	var req model.OnAuthenticatorRemovedRequest
	if err := decodeRequest(requestJSON, &req); err != nil {
		return fmt.Errorf("OnAuthenticatorRemoved: %w", err)
	}
	logger.Infof("Chaincode Call: OnAuthenticatorRemoved for '%s' on account '%s'", req.AuthenticatorID, req.Account)
	coordinator, err := s.newCoordinator(ctx)
	if err != nil {
		return fmt.Errorf("OnAuthenticatorRemoved: %w", err)
	}
	if err := coordinator.OnAuthenticatorRemoved(req); err != nil {
		return fmt.Errorf("OnAuthenticatorRemoved: %w", err)
	}
	return nil
}

func (s *EOLAuthenticatorContract) Authenticate(ctx contractapi.TransactionContextInterface, requestJSON string) error {
	var req model.AuthenticationRequest
	if err := decodeRequest(requestJSON, &req); err != nil {
		return fmt.Errorf("Authenticate: %w", err)
	}
	logger.Debugf("Chaincode Call: Authenticate for '%s' on account '%s' (msg %d)", req.AuthenticatorID, req.Account, req.MsgIndex)
	coordinator, err := s.newCoordinator(ctx)
	if err != nil {
		return fmt.Errorf("Authenticate: %w", err)
	}
	if err := coordinator.Authenticate(req); err != nil {
		return fmt.Errorf("Authenticate: %w", err)
	}
	return nil
}

func (s *EOLAuthenticatorContract) Track(ctx contractapi.TransactionContextInterface, requestJSON string) error {
	var req model.TrackRequest
	if err := decodeRequest(requestJSON, &req); err != nil {
		return fmt.Errorf("Track: %w", err)
	}
	logger.Debugf("Chaincode Call: Track for '%s' on account '%s' (msg %d)", req.AuthenticatorID, req.Account, req.MsgIndex)
	coordinator, err := s.newCoordinator(ctx)
	if err != nil {
		return fmt.Errorf("Track: %w", err)
	}
	if err := coordinator.Track(req); err != nil {
		return fmt.Errorf("Track: %w", err)
	}
	return nil
}

func (s *EOLAuthenticatorContract) ConfirmExecution(ctx contractapi.TransactionContextInterface, requestJSON string) error {
	var req model.ConfirmExecutionRequest
	if err := decodeRequest(requestJSON, &req); err != nil {
		return fmt.Errorf("ConfirmExecution: %w", err)
	}
	logger.Debugf("Chaincode Call: ConfirmExecution for '%s' on account '%s' (msg %d)", req.AuthenticatorID, req.Account, req.MsgIndex)
	coordinator, err := s.newCoordinator(ctx)
	if err != nil {
		return fmt.Errorf("ConfirmExecution: %w", err)
	}
	if err := coordinator.ConfirmExecution(req); err != nil {
		return fmt.Errorf("ConfirmExecution: %w", err)
	}
	return nil
}

// newCoordinator checks the caller against the host MSP and builds a
// coordinator from the ledger settings at the transaction timestamp.
func (s *EOLAuthenticatorContract) newCoordinator(ctx contractapi.TransactionContextInterface) (*AuthenticatorCoordinator, error) {
	stub := ctx.GetStub()
	info, err := loadContractInfo(stub)
	if err != nil {
		return nil, err
	}
	if err := s.requireHost(ctx, info); err != nil {
		return nil, err
	}
	now, err := s.getCurrentTxTimestamp(ctx)
	if err != nil {
		return nil, err
	}

	opts := []CoordinatorOption{WithInactivityEnforcement(info.EnforceInactivity)}
	if info.Registry != nil && info.Registry.Chaincode != "" {
		opts = append(opts, WithRegistry(newChaincodeRegistry(stub, *info.Registry)))
	}
	return NewAuthenticatorCoordinator(stub, now, opts...), nil
}

func decodeRequest(requestJSON string, req any) error {
	if err := json.Unmarshal([]byte(requestJSON), req); err != nil {
		return fmt.Errorf("invalid request: %w", err)
	}
	return nil
}
