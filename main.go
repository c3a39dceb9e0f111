package main

import (
	"fmt"
	"os"

	"eolauth/config"
	"eolauth/contract"

	"github.com/hyperledger/fabric-chaincode-go/shim"
	"github.com/hyperledger/fabric-contract-api-go/contractapi"
	"github.com/hyperledger/fabric/common/flogging"
	"github.com/spf13/pflag"
)

var logger = flogging.MustGetLogger("eolauth")

func main() {
	configPath := pflag.String("config", "", "path to the chaincode YAML config")
	pflag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("Error loading config: " + err.Error())
	}
	if err := flogging.Global.ActivateSpec(cfg.LogSpec); err != nil {
		panic("Error activating log spec: " + err.Error())
	}

	cc, err := contractapi.NewChaincode(&contract.EOLAuthenticatorContract{})
	if err != nil {
		panic("Error creating EOLAuthenticatorContract: " + err.Error())
	}

	if !cfg.ExternalService() {
		if err := cc.Start(); err != nil {
			panic("Error starting chaincode: " + err.Error())
		}
		return
	}

	tlsProps, err := loadTLSProperties(cfg.TLS)
	if err != nil {
		panic("Error loading TLS material: " + err.Error())
	}
	server := &shim.ChaincodeServer{
		CCID:     cfg.ChaincodeID,
		Address:  cfg.ServerAddress,
		CC:       cc,
		TLSProps: tlsProps,
	}
	logger.Infof("Starting chaincode '%s' as a service on %s", cfg.ChaincodeID, cfg.ServerAddress)
	if err := server.Start(); err != nil {
		panic("Error starting chaincode server: " + err.Error())
	}
}

func loadTLSProperties(tls config.TLSConfig) (shim.TLSProperties, error) {
	props := shim.TLSProperties{Disabled: tls.Disabled}
	if tls.Disabled {
		return props, nil
	}
	var err error
	if props.Key, err = os.ReadFile(tls.KeyFile); err != nil {
		return props, fmt.Errorf("failed to read TLS key: %w", err)
	}
	if props.Cert, err = os.ReadFile(tls.CertFile); err != nil {
		return props, fmt.Errorf("failed to read TLS certificate: %w", err)
	}
	if tls.ClientCAFile != "" {
		if props.ClientCACerts, err = os.ReadFile(tls.ClientCAFile); err != nil {
			return props, fmt.Errorf("failed to read TLS client CA: %w", err)
		}
	}
	return props, nil
}
