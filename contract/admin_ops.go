package contract

import (
	"fmt"
	"strings"

	"eolauth/model"

	"github.com/hyperledger/fabric-contract-api-go/contractapi"
	"github.com/hyperledger/fabric/common/flogging"
)

var adminLogger = flogging.MustGetLogger("eolauth.admin")

// --- Admin Capability Transfer ---

func (s *EOLAuthenticatorContract) TransferAdmin(ctx contractapi.TransactionContextInterface, candidateID string) error {
	if err := s.validateRequiredString(candidateID, "candidateID", model.MaxIdentityLength); err != nil {
		return fmt.Errorf("TransferAdmin: %w", err)
	}
	candidate := strings.TrimSpace(candidateID)
	return s.updateAdmin(ctx, "TransferAdmin", "transfer_admin", func(admin model.Admin, sender string) (model.Admin, error) {
		return model.TransferAdmin(admin, sender, candidate)
	})
}

func (s *EOLAuthenticatorContract) ClaimAdminTransfer(ctx contractapi.TransactionContextInterface) error {
	return s.updateAdmin(ctx, "ClaimAdminTransfer", "claim_admin", model.ClaimAdminTransfer)
}

func (s *EOLAuthenticatorContract) RejectAdminTransfer(ctx contractapi.TransactionContextInterface) error {
	return s.updateAdmin(ctx, "RejectAdminTransfer", "reject_admin", model.RejectAdminTransfer)
}

func (s *EOLAuthenticatorContract) CancelAdminTransfer(ctx contractapi.TransactionContextInterface) error {
	return s.updateAdmin(ctx, "CancelAdminTransfer", "cancel_admin", model.CancelAdminTransfer)
}

func (s *EOLAuthenticatorContract) RevokeAdmin(ctx contractapi.TransactionContextInterface) error {
	return s.updateAdmin(ctx, "RevokeAdmin", "revoke_admin", model.RevokeAdmin)
}

// updateAdmin loads the admin state (absent means NoAdmin), applies the pure
// transition for the caller and writes the result once.
func (s *EOLAuthenticatorContract) updateAdmin(
	ctx contractapi.TransactionContextInterface,
	op, action string,
	transition func(admin model.Admin, sender string) (model.Admin, error),
) error {
	sender, err := s.getCallerID(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	stub := ctx.GetStub()
	current, err := loadAdmin(stub)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	next, err := transition(current, sender)
	if err != nil {
		adminLogger.Infof("%s refused for caller '%s': %v", op, sender, err)
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := saveAdmin(stub, next); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	adminLogger.Infof("%s by '%s': admin state is now %T", op, sender, next)
	return emitAction(stub, action, map[string]string{"sender": sender})
}

// requireAdmin fails unless the caller currently holds the admin capability.
func (s *EOLAuthenticatorContract) requireAdmin(ctx contractapi.TransactionContextInterface) (string, error) {
	sender, err := s.getCallerID(ctx)
	if err != nil {
		return "", err
	}
	admin, err := loadAdmin(ctx.GetStub())
	if err != nil {
		return "", err
	}
	if err := model.AuthorizeAdmin(admin, sender); err != nil {
		return "", err
	}
	return sender, nil
}

// --- Admin-only Settings ---

// SetAuthenticatorRegistry points params resolution at a registry chaincode.
// An empty chaincode name disables registry lookups.
func (s *EOLAuthenticatorContract) SetAuthenticatorRegistry(ctx contractapi.TransactionContextInterface, chaincodeName string, channel string) error {
	if err := s.validateOptionalString(chaincodeName, "chaincodeName", model.MaxNameLength); err != nil {
		return fmt.Errorf("SetAuthenticatorRegistry: %w", err)
	}
	if err := s.validateOptionalString(channel, "channel", model.MaxNameLength); err != nil {
		return fmt.Errorf("SetAuthenticatorRegistry: %w", err)
	}
	return s.updateSettings(ctx, "SetAuthenticatorRegistry", "set_registry", func(info *model.ContractInfo) {
		name := strings.TrimSpace(chaincodeName)
		if name == "" {
			info.Registry = nil
			return
		}
		info.Registry = &model.RegistryRef{Chaincode: name, Channel: strings.TrimSpace(channel)}
	})
}

// SetInactivityEnforcement toggles inactivity gating in the lifecycle hooks.
func (s *EOLAuthenticatorContract) SetInactivityEnforcement(ctx contractapi.TransactionContextInterface, enabled bool) error {
	return s.updateSettings(ctx, "SetInactivityEnforcement", "set_enforcement", func(info *model.ContractInfo) {
		info.EnforceInactivity = enabled
	})
}

// SetHostMSP moves the lifecycle hooks to another MSP.
func (s *EOLAuthenticatorContract) SetHostMSP(ctx contractapi.TransactionContextInterface, mspID string) error {
	if err := s.validateRequiredString(mspID, "mspID", model.MaxNameLength); err != nil {
		return fmt.Errorf("SetHostMSP: %w", err)
	}
	return s.updateSettings(ctx, "SetHostMSP", "set_host_msp", func(info *model.ContractInfo) {
		info.HostMSP = strings.TrimSpace(mspID)
	})
}

func (s *EOLAuthenticatorContract) updateSettings(
	ctx contractapi.TransactionContextInterface,
	op, action string,
	apply func(info *model.ContractInfo),
) error {
	sender, err := s.requireAdmin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	stub := ctx.GetStub()
	info, err := loadContractInfo(stub)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if info == nil {
		return fmt.Errorf("%s: contract not instantiated: %w", op, model.ErrNotFound)
	}
	apply(info)
	if err := saveContractInfo(stub, info); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	adminLogger.Infof("%s by admin '%s'", op, sender)
	return emitAction(stub, action, map[string]string{"sender": sender})
}
