// Package config loads wallet settings from the environment and an optional .env file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"solana-wallet-kit/internal/fee"
	"solana-wallet-kit/internal/price"
	"solana-wallet-kit/internal/solana"
	"solana-wallet-kit/internal/swap"
)

// Environments.
const (
	Development = "development"
	Production  = "production"
)

// Confirmation modes.
const (
	ConfirmPoll = "poll"
	ConfirmWS   = "ws"
)

// Default RPC endpoints per environment.
const (
	DevnetRPC  = "https://api.devnet.solana.com"
	MainnetRPC = "https://api.mainnet-beta.solana.com"
)

// Config holds every runtime setting.
type Config struct {
	Environment string

	Solana  SolanaConfig
	Swap    SwapConfig
	Fee     FeeConfig
	Price   PriceConfig
	Storage StorageConfig

	MetricsAddr string
	LogLevel    string
	LogJSON     bool
}

type SolanaConfig struct {
	RPCEndpoint         string
	WSEndpoint          string // derived from RPCEndpoint when empty
	ConfirmationMode    string
	ConfirmationTimeout time.Duration
}

type SwapConfig struct {
	BaseURL        string
	PlatformFeeBps uint16
	FeeAccount     string
}

type FeeConfig struct {
	Percentage      float64
	TreasuryAddress string
}

type PriceConfig struct {
	BaseURL   string
	Path      string
	APIKey    string
	UserAgent string
}

type StorageConfig struct {
	PostgresDSN   string // journal disabled when empty
	ClickhouseDSN string // snapshots disabled when empty
}

// Load reads the given .env files (".env" when none), then the environment.
// Variables already set in the process are never overridden. A missing
// default .env is not an error.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load .env: %w", err)
		}
	} else if err := godotenv.Load(files...); err != nil {
		return nil, fmt.Errorf("load env files: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables alone.
func FromEnv() (*Config, error) {
	var errs []error

	env := getEnv("WALLET_ENVIRONMENT", Development)
	defaultRPC := DevnetRPC
	if env == Production {
		defaultRPC = MainnetRPC
	}

	cfg := &Config{
		Environment: env,
		Solana: SolanaConfig{
			RPCEndpoint:         getEnv("SOLANA_RPC_ENDPOINT", defaultRPC),
			WSEndpoint:          getEnv("SOLANA_WS_ENDPOINT", ""),
			ConfirmationMode:    getEnv("CONFIRMATION_MODE", ConfirmPoll),
			ConfirmationTimeout: getEnvAsDuration("CONFIRMATION_TIMEOUT", solana.DefaultConfirmTimeout, &errs),
		},
		Swap: SwapConfig{
			BaseURL:        getEnv("JUPITER_BASE_URL", swap.DefaultBaseURL),
			PlatformFeeBps: uint16(getEnvAsUint("PLATFORM_FEE_BPS", 0, 16, &errs)),
			FeeAccount:     getEnv("FEE_ACCOUNT", ""),
		},
		Fee: FeeConfig{
			Percentage:      getEnvAsFloat("FEE_PERCENTAGE", fee.DefaultFeePercentage, &errs),
			TreasuryAddress: getEnv("TREASURY_ADDRESS", fee.DefaultTreasuryAddress),
		},
		Price: PriceConfig{
			BaseURL:   getEnv("PRICE_BASE_URL", price.DefaultBaseURL),
			Path:      getEnv("PRICE_PATH", price.DefaultPath),
			APIKey:    getEnv("PRICE_API_KEY", ""),
			UserAgent: getEnv("USER_AGENT", price.DefaultUserAgent),
		},
		Storage: StorageConfig{
			PostgresDSN:   getEnv("POSTGRES_DSN", ""),
			ClickhouseDSN: getEnv("CLICKHOUSE_DSN", ""),
		},
		MetricsAddr: getEnv("METRICS_ADDR", ""),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogJSON:     getEnvAsBool("LOG_JSON", false, &errs),
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// WSEndpoint returns the configured websocket endpoint or derives it from the RPC endpoint.
func (c *Config) WSEndpoint() (string, error) {
	if c.Solana.WSEndpoint != "" {
		return c.Solana.WSEndpoint, nil
	}
	return solana.WSEndpoint(c.Solana.RPCEndpoint)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsUint(key string, defaultValue uint64, bits int, errs *[]error) uint64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseUint(valueStr, 10, bits)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64, errs *[]error) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool, errs *[]error) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return value
}
