package contract

import (
	"fmt"
	"time"

	"eolauth/composite"
	"eolauth/model"

	"github.com/hyperledger/fabric/common/flogging"
)

var coordinatorLogger = flogging.MustGetLogger("eolauth.coordinator")

// Action tags emitted by the lifecycle hooks.
const (
	actionOnAuthenticatorAdded   = "on_authenticator_added"
	actionOnAuthenticatorRemoved = "on_authenticator_removed"
	actionAuthenticate           = "authenticate"
	actionTrack                  = "track"
	actionConfirmExecution       = "confirm_execution"
)

// AuthenticatorCoordinator implements the authenticator lifecycle hooks for
// one transaction. All hooks validate before they write, so a failing hook
// leaves the ledger untouched.
type AuthenticatorCoordinator struct {
	ledger   Ledger
	tracker  *EOLTracker
	registry AuthenticatorRegistry
	enforce  bool
	now      time.Time
}

// CoordinatorOption customizes an AuthenticatorCoordinator.
type CoordinatorOption func(*AuthenticatorCoordinator)

// WithRegistry lets hooks without inline params resolve them from the
// authenticator registry through the composite id.
func WithRegistry(registry AuthenticatorRegistry) CoordinatorOption {
	return func(c *AuthenticatorCoordinator) {
		if registry != nil {
			c.registry = registry
		}
	}
}

// WithInactivityEnforcement makes Authenticate require an elapsed window and
// ConfirmExecution record activity.
func WithInactivityEnforcement(enabled bool) CoordinatorOption {
	return func(c *AuthenticatorCoordinator) {
		c.enforce = enabled
	}
}

// NewAuthenticatorCoordinator creates a coordinator evaluating hooks at now.
func NewAuthenticatorCoordinator(ledger Ledger, now time.Time, opts ...CoordinatorOption) *AuthenticatorCoordinator {
	c := &AuthenticatorCoordinator{
		ledger:  ledger,
		tracker: NewEOLTracker(ledger),
		now:     now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// OnAuthenticatorAdded starts tracking the authenticator. Params must be inline.
func (c *AuthenticatorCoordinator) OnAuthenticatorAdded(req model.OnAuthenticatorAddedRequest) error {
	if err := model.ValidateIdentity(req.Account, req.AuthenticatorID); err != nil {
		return err
	}
	params, err := model.DecodeEOLParams(req.AuthenticatorParams)
	if err != nil {
		return err
	}
	if _, err := c.tracker.Create(req.Account, req.AuthenticatorID, params.Period(), c.now); err != nil {
		return err
	}
	return c.emit(actionOnAuthenticatorAdded, req.Account, req.AuthenticatorID)
}

// OnAuthenticatorRemoved drops the record, whether or not it exists.
func (c *AuthenticatorCoordinator) OnAuthenticatorRemoved(req model.OnAuthenticatorRemovedRequest) error {
	if err := model.ValidateIdentity(req.Account, req.AuthenticatorID); err != nil {
		return err
	}
	if err := c.tracker.Remove(req.Account, req.AuthenticatorID); err != nil {
		return err
	}
	return c.emit(actionOnAuthenticatorRemoved, req.Account, req.AuthenticatorID)
}

// Authenticate validates params and, when enforcement is on, requires the
// inactivity window to have elapsed.
func (c *AuthenticatorCoordinator) Authenticate(req model.AuthenticationRequest) error {
	if err := model.ValidateIdentity(req.Account, req.AuthenticatorID); err != nil {
		return err
	}
	if _, err := c.params(req.Account, req.AuthenticatorID, req.AuthenticatorParams); err != nil {
		return err
	}
	if c.enforce {
		if err := c.tracker.CheckElapsed(req.Account, req.AuthenticatorID, c.now); err != nil {
			coordinatorLogger.Infof("Authentication refused for '%s' on account '%s': %v", req.AuthenticatorID, req.Account, err)
			return err
		}
	}
	return c.emit(actionAuthenticate, req.Account, req.AuthenticatorID)
}

// Track validates params.
func (c *AuthenticatorCoordinator) Track(req model.TrackRequest) error {
	if err := model.ValidateIdentity(req.Account, req.AuthenticatorID); err != nil {
		return err
	}
	if _, err := c.params(req.Account, req.AuthenticatorID, req.AuthenticatorParams); err != nil {
		return err
	}
	return c.emit(actionTrack, req.Account, req.AuthenticatorID)
}

// ConfirmExecution validates params and, when enforcement is on, records activity.
func (c *AuthenticatorCoordinator) ConfirmExecution(req model.ConfirmExecutionRequest) error {
	if err := model.ValidateIdentity(req.Account, req.AuthenticatorID); err != nil {
		return err
	}
	if _, err := c.params(req.Account, req.AuthenticatorID, req.AuthenticatorParams); err != nil {
		return err
	}
	if c.enforce {
		if _, err := c.tracker.Touch(req.Account, req.AuthenticatorID, c.now); err != nil {
			return err
		}
	}
	return c.emit(actionConfirmExecution, req.Account, req.AuthenticatorID)
}

// params returns the inline params, or resolves them from the registry when
// none were sent and a registry is configured.
func (c *AuthenticatorCoordinator) params(account, authenticatorID string, raw []byte) (*model.EOLParams, error) {
	if len(raw) > 0 || c.registry == nil {
		return model.DecodeEOLParams(raw)
	}

	id, err := composite.ParseID(authenticatorID)
	if err != nil {
		return nil, err
	}
	root, err := c.registry.GetAuthenticator(account, id.Root)
	if err != nil {
		return nil, fmt.Errorf("failed to load authenticator %d of account '%s': %w", id.Root, account, err)
	}
	leaf, err := composite.ResolveAs[model.CosmwasmAuthenticatorData](*root, id)
	if err != nil {
		return nil, err
	}
	coordinatorLogger.Debugf("Resolved params of '%s' on account '%s' from registry (contract '%s')", authenticatorID, account, leaf.Contract)
	return model.DecodeEOLParams(leaf.Params)
}

func (c *AuthenticatorCoordinator) emit(action, account, authenticatorID string) error {
	return emitAction(c.ledger, action, map[string]string{
		"account":         account,
		"authenticatorId": authenticatorID,
	})
}
