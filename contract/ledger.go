package contract

import (
	"encoding/json"
	"fmt"

	"eolauth/model"

	"github.com/hyperledger/fabric-chaincode-go/shim"
)

// Ledger is the part of the chaincode stub this contract needs: keyed reads
// and writes, prefix scans over composite keys and event emission.
// shim.ChaincodeStubInterface satisfies it.
type Ledger interface {
	GetState(key string) ([]byte, error)
	PutState(key string, value []byte) error
	DelState(key string) error
	CreateCompositeKey(objectType string, attributes []string) (string, error)
	GetStateByPartialCompositeKey(objectType string, keys []string) (shim.StateQueryIteratorInterface, error)
	SetEvent(name string, payload []byte) error
}

// --- Key Creation Helpers (using Composite Keys) ---

func eolKey(ledger Ledger, account, authenticatorID string) (string, error) {
	if err := model.ValidateIdentity(account, authenticatorID); err != nil {
		return "", err
	}
	return ledger.CreateCompositeKey(model.EOLObjectType, []string{account, authenticatorID})
}

func adminKey(ledger Ledger) (string, error) {
	return ledger.CreateCompositeKey(model.AdminObjectType, []string{})
}

func contractInfoKey(ledger Ledger) (string, error) {
	return ledger.CreateCompositeKey(model.ContractInfoObjectType, []string{})
}

// --- Singleton State ---

func loadAdmin(ledger Ledger) (model.Admin, error) {
	key, err := adminKey(ledger)
	if err != nil {
		return nil, fmt.Errorf("failed to create admin key: %w", err)
	}
	data, err := ledger.GetState(key)
	if err != nil {
		return nil, fmt.Errorf("failed to read admin state: %w", err)
	}
	return model.UnmarshalAdmin(data)
}

func saveAdmin(ledger Ledger, admin model.Admin) error {
	key, err := adminKey(ledger)
	if err != nil {
		return fmt.Errorf("failed to create admin key: %w", err)
	}
	data, err := model.MarshalAdmin(admin)
	if err != nil {
		return err
	}
	if err := ledger.PutState(key, data); err != nil {
		return fmt.Errorf("failed to save admin state: %w", err)
	}
	return nil
}

// loadContractInfo returns nil without error before Instantiate has run.
func loadContractInfo(ledger Ledger) (*model.ContractInfo, error) {
	key, err := contractInfoKey(ledger)
	if err != nil {
		return nil, fmt.Errorf("failed to create contract info key: %w", err)
	}
	data, err := ledger.GetState(key)
	if err != nil {
		return nil, fmt.Errorf("failed to read contract info: %w", err)
	}
	if data == nil {
		return nil, nil
	}
	var info model.ContractInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to unmarshal contract info: %w", err)
	}
	return &info, nil
}

func saveContractInfo(ledger Ledger, info *model.ContractInfo) error {
	key, err := contractInfoKey(ledger)
	if err != nil {
		return fmt.Errorf("failed to create contract info key: %w", err)
	}
	info.ObjectType = model.ContractInfoObjectType
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to marshal contract info: %w", err)
	}
	if err := ledger.PutState(key, data); err != nil {
		return fmt.Errorf("failed to save contract info: %w", err)
	}
	return nil
}

// --- Events ---

// emitAction records the action tag of a successful call as a chaincode event.
// Fabric keeps one event per transaction, so the last call wins.
func emitAction(ledger Ledger, action string, attrs map[string]string) error {
	payload := map[string]string{"action": action}
	for k, v := range attrs {
		payload[k] = v
	}
	eventBytes, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal '%s' event: %w", action, err)
	}
	if err := ledger.SetEvent(actionEventName, eventBytes); err != nil {
		return fmt.Errorf("failed to set '%s' event: %w", action, err)
	}
	return nil
}

const actionEventName = "action"
