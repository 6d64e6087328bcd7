package config

import (
	"fmt"
	"net/url"

	"solana-wallet-kit/internal/fee"
	"solana-wallet-kit/internal/solana"
)

// MaxPlatformFeeBps bounds the aggregator platform fee.
const MaxPlatformFeeBps = 10_000

// Validate checks the config for operator mistakes.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("config is nil")
	}
	if cfg.Environment != Development && cfg.Environment != Production {
		return fmt.Errorf("WALLET_ENVIRONMENT must be %q or %q", Development, Production)
	}
	if err := validateURL("SOLANA_RPC_ENDPOINT", cfg.Solana.RPCEndpoint, "http", "https"); err != nil {
		return err
	}
	if cfg.Solana.WSEndpoint != "" {
		if err := validateURL("SOLANA_WS_ENDPOINT", cfg.Solana.WSEndpoint, "ws", "wss"); err != nil {
			return err
		}
	}
	switch cfg.Solana.ConfirmationMode {
	case ConfirmPoll, ConfirmWS:
	default:
		return fmt.Errorf("CONFIRMATION_MODE must be %q or %q", ConfirmPoll, ConfirmWS)
	}
	if cfg.Solana.ConfirmationTimeout <= 0 {
		return fmt.Errorf("CONFIRMATION_TIMEOUT must be positive")
	}

	if err := fee.ValidateFraction(cfg.Fee.Percentage); err != nil {
		return fmt.Errorf("FEE_PERCENTAGE: %w", err)
	}
	if _, err := fee.TreasuryAddress(cfg.Fee.TreasuryAddress); err != nil {
		return fmt.Errorf("TREASURY_ADDRESS: %w", err)
	}
	if cfg.Swap.PlatformFeeBps > MaxPlatformFeeBps {
		return fmt.Errorf("PLATFORM_FEE_BPS must be at most %d", MaxPlatformFeeBps)
	}
	if cfg.Swap.FeeAccount != "" && !solana.IsValidPubkey(cfg.Swap.FeeAccount) {
		return fmt.Errorf("FEE_ACCOUNT %q is not a valid address", cfg.Swap.FeeAccount)
	}
	if cfg.Swap.FeeAccount == "" && cfg.Swap.PlatformFeeBps > 0 {
		return fmt.Errorf("PLATFORM_FEE_BPS requires FEE_ACCOUNT")
	}

	switch cfg.LogLevel {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL %q is not a known level", cfg.LogLevel)
	}
	return nil
}

func validateURL(field, raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	for _, s := range schemes {
		if u.Scheme == s && u.Host != "" {
			return nil
		}
	}
	return fmt.Errorf("%s %q must be an absolute %v URL", field, raw, schemes)
}
