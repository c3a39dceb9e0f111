// Package config holds the chaincode process settings: how the chaincode
// reaches the peer and how it logs. Ledger-level settings live in the
// contract's world state instead.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Environment variables that override the config file.
const (
	EnvChaincodeID   = "CHAINCODE_ID"
	EnvServerAddress = "CHAINCODE_SERVER_ADDRESS"
	EnvTLSDisabled   = "CHAINCODE_TLS_DISABLED"
	EnvTLSKeyFile    = "CHAINCODE_TLS_KEY_FILE"
	EnvTLSCertFile   = "CHAINCODE_TLS_CERT_FILE"
	EnvTLSClientCA   = "CHAINCODE_TLS_CLIENT_CA_FILE"
	EnvLogSpec       = "CHAINCODE_LOG_SPEC"
)

const defaultLogSpec = "info"

// Config is the chaincode process configuration.
type Config struct {
	// ChaincodeID is the package id the peer knows this chaincode by.
	// Required when running as an external service.
	ChaincodeID string `yaml:"chaincode_id"`

	// ServerAddress makes the chaincode listen for the peer (chaincode as a
	// service) instead of dialing it. Empty means dial the peer.
	ServerAddress string `yaml:"server_address"`

	TLS TLSConfig `yaml:"tls"`

	// LogSpec is a flogging spec such as "info" or "eolauth.registry=debug:info".
	LogSpec string `yaml:"log_spec"`
}

// TLSConfig configures the chaincode server's TLS.
type TLSConfig struct {
	Disabled     bool   `yaml:"disabled"`
	KeyFile      string `yaml:"key_file"`
	CertFile     string `yaml:"cert_file"`
	ClientCAFile string `yaml:"client_ca_file"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		TLS:     TLSConfig{Disabled: true},
		LogSpec: defaultLogSpec,
	}
}

// Load reads the YAML file at path (if path is non-empty), applies
// environment overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if cfg.LogSpec == "" {
		cfg.LogSpec = defaultLogSpec
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	overrides := map[string]*string{
		EnvChaincodeID:   &c.ChaincodeID,
		EnvServerAddress: &c.ServerAddress,
		EnvTLSKeyFile:    &c.TLS.KeyFile,
		EnvTLSCertFile:   &c.TLS.CertFile,
		EnvTLSClientCA:   &c.TLS.ClientCAFile,
		EnvLogSpec:       &c.LogSpec,
	}
	for name, field := range overrides {
		if v, ok := os.LookupEnv(name); ok {
			*field = v
		}
	}
	if v, ok := os.LookupEnv(EnvTLSDisabled); ok {
		disabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", EnvTLSDisabled, err)
		}
		c.TLS.Disabled = disabled
	}
	return nil
}

// ExternalService reports whether the chaincode should run as a server.
func (c *Config) ExternalService() bool {
	return c.ServerAddress != ""
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if !c.ExternalService() {
		return nil
	}
	if c.ChaincodeID == "" {
		return fmt.Errorf("chaincode_id is required when server_address is set")
	}
	if !c.TLS.Disabled && (c.TLS.KeyFile == "" || c.TLS.CertFile == "") {
		return fmt.Errorf("tls.key_file and tls.cert_file are required unless tls.disabled is set")
	}
	return nil
}
