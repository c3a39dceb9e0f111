package contract

import (
	"crypto/x509"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"eolauth/model"

	"github.com/hyperledger/fabric-chaincode-go/pkg/cid"
	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-chaincode-go/shimtest"
	"github.com/hyperledger/fabric-contract-api-go/contractapi"
	pb "github.com/hyperledger/fabric-protos-go/peer"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const (
	hostMSP  = "HostMSP"
	adminID  = "x509::CN=admin,OU=client::CN=ca.host"
	bobID    = "x509::CN=bob,OU=client::CN=ca.host"
	carolID  = "x509::CN=carol,OU=client::CN=ca.host"
	hostID   = "x509::CN=host-ledger,OU=peer::CN=ca.host"
	account  = "acct1"
	period   = 100 * time.Second
	registry = "authregistry"
)

var genesis = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeIdentity is a cid.ClientIdentity with a fixed id and MSP.
type fakeIdentity struct {
	id    string
	mspID string
}

var _ cid.ClientIdentity = fakeIdentity{}

func (f fakeIdentity) GetID() (string, error)    { return f.id, nil }
func (f fakeIdentity) GetMSPID() (string, error) { return f.mspID, nil }
func (f fakeIdentity) GetAttributeValue(string) (string, bool, error) {
	return "", false, nil
}
func (f fakeIdentity) AssertAttributeValue(name, _ string) error {
	return fmt.Errorf("attribute '%s' was not found", name)
}
func (f fakeIdentity) GetX509Certificate() (*x509.Certificate, error) { return nil, nil }

// testEnv drives the contract against an in-memory world state. Every call
// to ctx starts a new transaction stamped with the env's clock.
type testEnv struct {
	t        *testing.T
	stub     *shimtest.MockStub
	contract *EOLAuthenticatorContract
	now      time.Time
	txn      int
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{
		t:        t,
		stub:     shimtest.NewMockStub("eolauth", nil),
		contract: new(EOLAuthenticatorContract),
		now:      genesis,
	}
}

func (e *testEnv) advance(d time.Duration) {
	e.now = e.now.Add(d)
}

func (e *testEnv) ctxFrom(caller, mspID string) contractapi.TransactionContextInterface {
	e.txn++
	e.stub.MockTransactionStart(fmt.Sprintf("tx%d", e.txn))
	e.stub.TxTimestamp = timestamppb.New(e.now)
	ctx := new(contractapi.TransactionContext)
	ctx.SetStub(e.stub)
	ctx.SetClientIdentity(fakeIdentity{id: caller, mspID: mspID})
	return ctx
}

// ctx is a call from a client of the host MSP.
func (e *testEnv) ctx(caller string) contractapi.TransactionContextInterface {
	return e.ctxFrom(caller, hostMSP)
}

// instantiate sets up adminID as admin with hook gating on hostMSP.
func (e *testEnv) instantiate() {
	e.t.Helper()
	require.NoError(e.t, e.contract.Instantiate(e.ctx(adminID), adminID, hostMSP))
	e.drainEvents()
}

// drainEvents returns the action events emitted since the last drain.
func (e *testEnv) drainEvents() []map[string]string {
	e.t.Helper()
	var events []map[string]string
	for {
		select {
		case ev := <-e.stub.ChaincodeEventsChannel:
			require.Equal(e.t, actionEventName, ev.EventName)
			var payload map[string]string
			require.NoError(e.t, json.Unmarshal(ev.Payload, &payload))
			events = append(events, payload)
		default:
			return events
		}
	}
}

func (e *testEnv) actions() []string {
	var out []string
	for _, ev := range e.drainEvents() {
		out = append(out, ev["action"])
	}
	return out
}

func paramsFor(d time.Duration) []byte {
	data, err := json.Marshal(model.EOLParams{InactivityPeriod: ptr(model.NanosFromDuration(d))})
	if err != nil {
		panic(err)
	}
	return data
}

func mustRequest(t *testing.T, req any) string {
	t.Helper()
	data, err := json.Marshal(req)
	require.NoError(t, err)
	return string(data)
}

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func ptr[T any](v T) *T { return &v }

func (e *testEnv) add(authenticatorID string, params []byte) error {
	return e.contract.OnAuthenticatorAdded(e.ctx(hostID), mustRequest(e.t, model.OnAuthenticatorAddedRequest{
		Account:             account,
		AuthenticatorID:     authenticatorID,
		AuthenticatorParams: params,
	}))
}

func (e *testEnv) remove(authenticatorID string, params []byte) error {
	return e.contract.OnAuthenticatorRemoved(e.ctx(hostID), mustRequest(e.t, model.OnAuthenticatorRemovedRequest{
		Account:             account,
		AuthenticatorID:     authenticatorID,
		AuthenticatorParams: params,
	}))
}

func (e *testEnv) authenticate(authenticatorID string, params []byte) error {
	return e.contract.Authenticate(e.ctx(hostID), mustRequest(e.t, model.AuthenticationRequest{
		Account:             account,
		AuthenticatorID:     authenticatorID,
		FeePayer:            account,
		Msg:                 model.Any{TypeURL: "/cosmos.bank.v1beta1.MsgSend"},
		Signature:           []byte{},
		AuthenticatorParams: params,
	}))
}

func (e *testEnv) track(authenticatorID string, params []byte) error {
	return e.contract.Track(e.ctx(hostID), mustRequest(e.t, model.TrackRequest{
		Account:             account,
		AuthenticatorID:     authenticatorID,
		FeePayer:            account,
		Msg:                 model.Any{TypeURL: "/cosmos.bank.v1beta1.MsgSend"},
		AuthenticatorParams: params,
	}))
}

func (e *testEnv) confirm(authenticatorID string, params []byte) error {
	return e.contract.ConfirmExecution(e.ctx(hostID), mustRequest(e.t, model.ConfirmExecutionRequest{
		Account:             account,
		AuthenticatorID:     authenticatorID,
		FeePayer:            account,
		Msg:                 model.Any{TypeURL: "/cosmos.bank.v1beta1.MsgSend"},
		AuthenticatorParams: params,
	}))
}

// fakeRegistry is a peer chaincode answering GetAuthenticator from memory.
type fakeRegistry struct {
	authenticators map[string]model.AccountAuthenticator
	calls          int
}

func (r *fakeRegistry) Init(shim.ChaincodeStubInterface) pb.Response {
	return shim.Success(nil)
}

func (r *fakeRegistry) Invoke(stub shim.ChaincodeStubInterface) pb.Response {
	r.calls++
	fn, args := stub.GetFunctionAndParameters()
	if fn != getAuthenticatorFunction || len(args) != 2 {
		return shim.Error(fmt.Sprintf("unexpected call %s%v", fn, args))
	}
	authenticator, ok := r.authenticators[args[0]+"/"+args[1]]
	if !ok {
		return shim.Success(nil)
	}
	data, err := json.Marshal(authenticator)
	if err != nil {
		return shim.Error(err.Error())
	}
	return shim.Success(data)
}

// withRegistry installs r as the registry chaincode of env's stub.
func (e *testEnv) withRegistry(r *fakeRegistry) {
	e.stub.MockPeerChaincode(registry, shimtest.NewMockStub(registry, r), "")
}
