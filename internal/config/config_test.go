package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-wallet-kit/internal/fee"
)

var envKeys = []string{
	"SOLANA_RPC_ENDPOINT", "SOLANA_WS_ENDPOINT", "WALLET_ENVIRONMENT", "CONFIRMATION_MODE",
	"CONFIRMATION_TIMEOUT", "JUPITER_BASE_URL", "PLATFORM_FEE_BPS", "FEE_ACCOUNT",
	"FEE_PERCENTAGE", "TREASURY_ADDRESS", "PRICE_BASE_URL", "PRICE_PATH", "PRICE_API_KEY",
	"USER_AGENT", "POSTGRES_DSN", "CLICKHOUSE_DSN", "METRICS_ADDR", "LOG_LEVEL", "LOG_JSON",
}

// clearEnv blanks every variable Load reads; t.Setenv restores them afterwards.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestFromEnv_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, Development, cfg.Environment)
	assert.Equal(t, DevnetRPC, cfg.Solana.RPCEndpoint)
	assert.Equal(t, ConfirmPoll, cfg.Solana.ConfirmationMode)
	assert.Equal(t, 60*time.Second, cfg.Solana.ConfirmationTimeout)
	assert.Equal(t, fee.DefaultFeePercentage, cfg.Fee.Percentage)
	assert.Equal(t, fee.DefaultTreasuryAddress, cfg.Fee.TreasuryAddress)
	assert.Zero(t, cfg.Swap.PlatformFeeBps)
	assert.Empty(t, cfg.Swap.FeeAccount)
	assert.NoError(t, Validate(cfg))

	ws, err := cfg.WSEndpoint()
	require.NoError(t, err)
	assert.Equal(t, "wss://api.devnet.solana.com", ws)
}

func TestFromEnv_Production(t *testing.T) {
	clearEnv(t)
	t.Setenv("WALLET_ENVIRONMENT", Production)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, MainnetRPC, cfg.Solana.RPCEndpoint)
}

func TestFromEnv_ZeroFeeKept(t *testing.T) {
	clearEnv(t)
	t.Setenv("FEE_PERCENTAGE", "0")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Zero(t, cfg.Fee.Percentage)
	require.NoError(t, Validate(cfg))

	c, err := fee.NewCalculator(cfg.Fee.Percentage)
	require.NoError(t, err)
	b, err := c.Default(100, "SOL")
	require.NoError(t, err)
	assert.Zero(t, b.FeeAmount)
}

func TestFromEnv_ParseErrors(t *testing.T) {
	clearEnv(t)
	t.Setenv("PLATFORM_FEE_BPS", "70000")
	t.Setenv("CONFIRMATION_TIMEOUT", "soon")
	t.Setenv("LOG_JSON", "maybe")

	_, err := FromEnv()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PLATFORM_FEE_BPS")
	assert.Contains(t, err.Error(), "CONFIRMATION_TIMEOUT")
	assert.Contains(t, err.Error(), "LOG_JSON")
}

func TestLoad_DotEnvDoesNotOverride(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "wallet.env")
	content := "SOLANA_RPC_ENDPOINT=http://127.0.0.1:8899\nPLATFORM_FEE_BPS=20\nFEE_ACCOUNT=3YAyrP4mjiLRuHZQjfskmmVBbF7urtfDLfnLtW2jzgx3\nLOG_LEVEL=debug\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8899", cfg.Solana.RPCEndpoint)
	assert.Equal(t, uint16(20), cfg.Swap.PlatformFeeBps)
	assert.Equal(t, "warn", cfg.LogLevel, "process environment wins over .env")
	assert.NoError(t, Validate(cfg))

	ws, err := cfg.WSEndpoint()
	require.NoError(t, err)
	assert.Equal(t, "ws://127.0.0.1:8900", ws)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.env"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	clearEnv(t)
	base, err := FromEnv()
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"environment", func(c *Config) { c.Environment = "staging" }},
		{"rpc scheme", func(c *Config) { c.Solana.RPCEndpoint = "ftp://example.com" }},
		{"ws scheme", func(c *Config) { c.Solana.WSEndpoint = "https://example.com" }},
		{"confirmation mode", func(c *Config) { c.Solana.ConfirmationMode = "push" }},
		{"confirmation timeout", func(c *Config) { c.Solana.ConfirmationTimeout = 0 }},
		{"fee percentage", func(c *Config) { c.Fee.Percentage = 1 }},
		{"treasury", func(c *Config) { c.Fee.TreasuryAddress = "nope" }},
		{"platform fee bps", func(c *Config) {
			c.Swap.PlatformFeeBps = 10_001
			c.Swap.FeeAccount = fee.DefaultTreasuryAddress
		}},
		{"fee account", func(c *Config) { c.Swap.FeeAccount = "not-an-address" }},
		{"platform fee without account", func(c *Config) { c.Swap.PlatformFeeBps = 20 }},
		{"log level", func(c *Config) { c.LogLevel = "loud" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := *base
			tt.mutate(&cfg)
			assert.Error(t, Validate(&cfg))
		})
	}

	assert.Error(t, Validate(nil))
}
