package config

import (
	"testing"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SOLANA_RPC_URL", "")
	t.Setenv("SOLANA_COMMITMENT", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, rpc.DevNet_RPC, cfg.SolanaRPCURL)
	assert.Equal(t, "confirmed", cfg.Commitment)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SOLANA_RPC_URL", "https://api.devnet.example")
	t.Setenv("SOLANA_COMMITMENT", "processed")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.devnet.example", cfg.SolanaRPCURL)
	assert.Equal(t, rpc.CommitmentProcessed, cfg.CommitmentType())
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_InvalidCommitment(t *testing.T) {
	t.Setenv("SOLANA_RPC_URL", "")
	t.Setenv("SOLANA_COMMITMENT", "eventually")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	require.Error(t, err)
	assert.Nil(t, cfg)
	assert.Contains(t, err.Error(), "Commitment")
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		SolanaRPCURL: "https://api.devnet.example",
		Commitment:   "finalized",
		LogLevel:     "warn",
	}
	assert.NoError(t, cfg.Validate())

	cfg.SolanaRPCURL = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := &Config{
		SolanaRPCURL: "https://api.devnet.example",
		Commitment:   "confirmed",
		LogLevel:     "loud",
	}
	assert.Error(t, cfg.Validate())
}
