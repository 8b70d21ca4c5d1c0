package config

import (
	"fmt"
	"os"

	"github.com/gagliardetto/solana-go/rpc"
)

// Config holds all library configuration loaded from environment variables.
// All fields are validated at load time to ensure fail-fast behavior.
type Config struct {
	// Solana configuration
	SolanaRPCURL string
	Commitment   string

	// Logging
	LogLevel string
}

// Load reads configuration from environment variables and validates it.
// Returns an error if any field is invalid.
func Load() (*Config, error) {
	cfg := &Config{
		SolanaRPCURL: getEnvOrDefault("SOLANA_RPC_URL", rpc.DevNet_RPC),
		Commitment:   getEnvOrDefault("SOLANA_COMMITMENT", string(rpc.CommitmentConfirmed)),
		LogLevel:     getEnvOrDefault("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// MustLoad is like Load but panics if configuration is invalid.
// Useful for CLI initialization where misconfiguration should halt startup.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// Validate checks if the configuration is valid. This is useful for testing
// configuration without loading from env.
func (c *Config) Validate() error {
	var errs []error

	if c.SolanaRPCURL == "" {
		errs = append(errs, fmt.Errorf("SolanaRPCURL is required"))
	}

	switch rpc.CommitmentType(c.Commitment) {
	case rpc.CommitmentProcessed, rpc.CommitmentConfirmed, rpc.CommitmentFinalized:
	default:
		errs = append(errs, fmt.Errorf("Commitment must be processed, confirmed, or finalized, got %q", c.Commitment))
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("LogLevel must be debug, info, warn, or error, got %q", c.LogLevel))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errs)
	}
	return nil
}

// CommitmentType returns the configured commitment as the RPC client's type.
func (c *Config) CommitmentType() rpc.CommitmentType {
	return rpc.CommitmentType(c.Commitment)
}

// getEnvOrDefault returns the environment variable value or a default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
