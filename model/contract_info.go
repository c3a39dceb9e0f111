// File: model/contract_info.go
package model

import "time"

// ContractInfoObjectType is the composite key object type of the settings singleton.
const ContractInfoObjectType = "ContractInfo"

// RegistryRef points at the chaincode that owns account authenticators.
type RegistryRef struct {
	Chaincode string `json:"chaincode"`
	Channel   string `json:"channel"` // Empty means the current channel
}

// ContractInfo holds the name/version written at instantiation and the
// ledger-level settings changed by the admin.
type ContractInfo struct {
	ObjectType        string       `json:"objectType"`
	Name              string       `json:"name"`
	Version           string       `json:"version"`
	HostMSP           string       `json:"hostMsp"`           // Only this MSP may call lifecycle hooks
	Registry          *RegistryRef `json:"registry"`          // Nil when params must always be supplied inline
	EnforceInactivity bool         `json:"enforceInactivity"` // Gate Authenticate on elapsed windows, touch on ConfirmExecution
	InstantiatedAt    time.Time    `json:"instantiatedAt"`
}
