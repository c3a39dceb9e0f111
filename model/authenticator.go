// File: model/authenticator.go
package model

// Wire types shared with the host ledger. Field names follow the host's
// snake_case encoding; byte slices travel as base64 strings.

// AccountAuthenticator is the host registry's record of a root authenticator.
type AccountAuthenticator struct {
	ID     uint64 `json:"id"`
	Type   string `json:"type"`
	Config []byte `json:"config"`
}

// SubAuthenticatorData is one node of a composite authenticator's configuration tree.
type SubAuthenticatorData struct {
	AuthenticatorType string `json:"authenticator_type"`
	Data              []byte `json:"data"`
}

// CosmwasmAuthenticatorData is the leaf configuration of a contract-backed authenticator.
type CosmwasmAuthenticatorData struct {
	Contract string `json:"contract"`
	Params   []byte `json:"params"`
}

// Any is a type-url tagged message.
type Any struct {
	TypeURL string `json:"type_url"`
	Value   []byte `json:"value"`
}

// Coin is an amount of a single denom.
type Coin struct {
	Denom  string `json:"denom"`
	Amount string `json:"amount"`
}

// OnAuthenticatorAddedRequest is sent when an account attaches this authenticator.
type OnAuthenticatorAddedRequest struct {
	Account             string `json:"account"`
	AuthenticatorID     string `json:"authenticator_id"`
	AuthenticatorParams []byte `json:"authenticator_params,omitempty"`
}

// OnAuthenticatorRemovedRequest is sent when an account detaches this authenticator.
type OnAuthenticatorRemovedRequest struct {
	Account             string `json:"account"`
	AuthenticatorID     string `json:"authenticator_id"`
	AuthenticatorParams []byte `json:"authenticator_params,omitempty"`
}

// AuthenticationRequest asks whether msg may proceed.
type AuthenticationRequest struct {
	AuthenticatorID     string `json:"authenticator_id"`
	Account             string `json:"account"`
	FeePayer            string `json:"fee_payer"`
	FeeGranter          string `json:"fee_granter,omitempty"`
	Fee                 []Coin `json:"fee"`
	Msg                 Any    `json:"msg"`
	MsgIndex            uint64 `json:"msg_index"`
	Signature           []byte `json:"signature"`
	Simulate            bool   `json:"simulate"`
	AuthenticatorParams []byte `json:"authenticator_params,omitempty"`
}

// TrackRequest is sent after every authenticator in the transaction approved msg.
type TrackRequest struct {
	AuthenticatorID     string `json:"authenticator_id"`
	Account             string `json:"account"`
	FeePayer            string `json:"fee_payer"`
	FeeGranter          string `json:"fee_granter,omitempty"`
	Fee                 []Coin `json:"fee"`
	Msg                 Any    `json:"msg"`
	MsgIndex            uint64 `json:"msg_index"`
	AuthenticatorParams []byte `json:"authenticator_params,omitempty"`
}

// ConfirmExecutionRequest is sent after msg executed.
type ConfirmExecutionRequest struct {
	AuthenticatorID     string `json:"authenticator_id"`
	Account             string `json:"account"`
	FeePayer            string `json:"fee_payer"`
	FeeGranter          string `json:"fee_granter,omitempty"`
	Fee                 []Coin `json:"fee"`
	Msg                 Any    `json:"msg"`
	MsgIndex            uint64 `json:"msg_index"`
	AuthenticatorParams []byte `json:"authenticator_params,omitempty"`
}
