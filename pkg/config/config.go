// Package config loads startup configuration from an optional TOML file
// merged with environment overrides. The environment always wins.
package config

import (
	"fmt"
	"os"

	"github.com/naoina/toml"

	"github.com/sigweihq/wcsign/pkg/constants"
	"github.com/sigweihq/wcsign/pkg/utils"
)

const (
	EnvProjectID = "WCSIGN_PROJECT_ID"
	EnvRelayURL  = "WCSIGN_RELAY_URL"
	EnvBridgeURL = "WCSIGN_BRIDGE_URL"
)

// Config is the startup configuration
type Config struct {
	// ProjectID is the WalletConnect cloud project id. Required.
	ProjectID string `toml:"project_id"`

	// RelayURL overrides the default WalletConnect relay
	RelayURL string `toml:"relay_url"`

	// BridgeURL points at the external sign-client bridge, when one is used
	BridgeURL string `toml:"bridge_url"`

	// RPCEndpoints overrides the query endpoints per chain reference
	RPCEndpoints map[string][]string `toml:"rpc_endpoints"`
}

// Load reads the TOML file at path (skipped when path is empty), applies
// environment overrides, fills defaults, and validates. A missing project id
// is a fatal configuration error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if cfg.RelayURL == "" {
		cfg.RelayURL = constants.DefaultRelayURL
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv(EnvProjectID); v != "" {
		c.ProjectID = v
	}
	if v := os.Getenv(EnvRelayURL); v != "" {
		c.RelayURL = v
	}
	if v := os.Getenv(EnvBridgeURL); v != "" {
		c.BridgeURL = v
	}
}

func (c *Config) validate() error {
	if c.ProjectID == "" {
		return fmt.Errorf("project id is not set: provide project_id in the config file or %s", EnvProjectID)
	}
	if err := utils.ValidateRelayURL(c.RelayURL); err != nil {
		return err
	}
	if c.BridgeURL != "" {
		if err := utils.ValidateBridgeURL(c.BridgeURL); err != nil {
			return err
		}
	}
	return nil
}
