package contract

import (
	"encoding/json"
	"fmt"
	"strconv"

	"eolauth/model"

	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric/common/flogging"
)

var registryLogger = flogging.MustGetLogger("eolauth.registry")

// getAuthenticatorFunction is the registry chaincode transaction that returns
// a model.AccountAuthenticator as JSON.
const getAuthenticatorFunction = "GetAuthenticator"

// AuthenticatorRegistry looks up the authenticators attached to an account.
type AuthenticatorRegistry interface {
	GetAuthenticator(account string, id uint64) (*model.AccountAuthenticator, error)
}

// chaincodeRegistry queries the registry chaincode in the same transaction.
type chaincodeRegistry struct {
	stub shim.ChaincodeStubInterface
	ref  model.RegistryRef
}

func newChaincodeRegistry(stub shim.ChaincodeStubInterface, ref model.RegistryRef) *chaincodeRegistry {
	return &chaincodeRegistry{stub: stub, ref: ref}
}

func (r *chaincodeRegistry) GetAuthenticator(account string, id uint64) (*model.AccountAuthenticator, error) {
	args := [][]byte{
		[]byte(getAuthenticatorFunction),
		[]byte(account),
		[]byte(strconv.FormatUint(id, 10)),
	}
	registryLogger.Debugf("Querying registry '%s' for authenticator %d of account '%s'", r.ref.Chaincode, id, account)
	response := r.stub.InvokeChaincode(r.ref.Chaincode, args, r.ref.Channel)
	if response.Status >= shim.ERRORTHRESHOLD {
		return nil, fmt.Errorf("registry '%s' failed to return authenticator %d for account '%s' (status %d): %s",
			r.ref.Chaincode, id, account, response.Status, response.Message)
	}
	if len(response.Payload) == 0 {
		return nil, fmt.Errorf("registry '%s' has no authenticator %d for account '%s': %w", r.ref.Chaincode, id, account, model.ErrNotFound)
	}
	var authenticator model.AccountAuthenticator
	if err := json.Unmarshal(response.Payload, &authenticator); err != nil {
		return nil, fmt.Errorf("failed to unmarshal authenticator %d from registry '%s': %w", id, r.ref.Chaincode, err)
	}
	if authenticator.ID != id {
		return nil, fmt.Errorf("registry '%s' returned authenticator %d, expected %d", r.ref.Chaincode, authenticator.ID, id)
	}
	return &authenticator, nil
}
