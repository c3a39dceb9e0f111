// File: model/validation.go
package model

import (
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"
)

// Input limits shared by the contract's transaction arguments.
const (
	MaxIdentityLength = 1024
	MaxNameLength     = 256
)

// identityRules apply to account addresses and authenticator ids.
var identityRules = []validation.Rule{
	validation.Required,
	validation.Length(1, MaxIdentityLength),
	validation.By(NotBlank),
}

// NotBlank rejects strings made only of whitespace.
func NotBlank(value interface{}) error {
	s, _ := value.(string)
	if s != "" && strings.TrimSpace(s) == "" {
		return errors.New("cannot be blank")
	}
	return nil
}

// ValidateIdentity checks the (account, authenticator id) pair carried by every hook request.
func ValidateIdentity(account, authenticatorID string) error {
	if err := validation.Validate(account, identityRules...); err != nil {
		return fmt.Errorf("account %w", err)
	}
	if err := validation.Validate(authenticatorID, identityRules...); err != nil {
		return fmt.Errorf("authenticator_id %w", err)
	}
	return nil
}

// ValidateRequired checks a mandatory transaction argument.
func ValidateRequired(input, field string, max int) error {
	err := validation.Validate(input,
		validation.Required,
		validation.Length(1, max),
		validation.By(NotBlank),
	)
	if err != nil {
		return fmt.Errorf("%s %w", field, err)
	}
	return nil
}

// ValidateOptional checks an argument that may be empty.
func ValidateOptional(input, field string, max int) error {
	if err := validation.Validate(input, validation.Length(0, max)); err != nil {
		return fmt.Errorf("%s %w", field, err)
	}
	return nil
}
