package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"solana-wallet-kit/internal/config"
	"solana-wallet-kit/internal/logging"
	"solana-wallet-kit/internal/observability"
	"solana-wallet-kit/internal/solana"
	"solana-wallet-kit/internal/walleterr"
)

type options struct {
	mode         string
	account      string
	to           string
	asset        string
	outputAsset  string
	amount       string
	slippageBps  uint64
	maxPriority  uint64
	priority     string
	keyFile      string
	accountIndex uint
	assets       string
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	var opts options
	flag.StringVar(&opts.mode, "mode", "assets", "Mode: assets, balance, portfolio, send, fee, quote, swap, price, treasury")
	flag.StringVar(&cfg.Solana.RPCEndpoint, "rpc-endpoint", cfg.Solana.RPCEndpoint, "Solana RPC HTTP endpoint")
	flag.StringVar(&cfg.Solana.WSEndpoint, "ws-endpoint", cfg.Solana.WSEndpoint, "Solana WebSocket endpoint (derived from rpc-endpoint when empty)")
	flag.StringVar(&cfg.Solana.ConfirmationMode, "confirm", cfg.Solana.ConfirmationMode, "Confirmation mode: poll or ws")
	flag.DurationVar(&cfg.Solana.ConfirmationTimeout, "confirm-timeout", cfg.Solana.ConfirmationTimeout, "Confirmation timeout")
	flag.StringVar(&cfg.Storage.PostgresDSN, "postgres-dsn", cfg.Storage.PostgresDSN, "PostgreSQL DSN for the transfer journal (empty to disable)")
	flag.StringVar(&cfg.Storage.ClickhouseDSN, "clickhouse-dsn", cfg.Storage.ClickhouseDSN, "ClickHouse DSN for balance snapshots (empty to disable)")
	flag.StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "Prometheus metrics HTTP address (empty to disable)")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	flag.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "Log as JSON")

	flag.StringVar(&opts.account, "account", "", "Wallet address (defaults to the signer's address)")
	flag.StringVar(&opts.to, "to", "", "Recipient wallet address")
	flag.StringVar(&opts.asset, "asset", "SOL", "Asset symbol or mint address")
	flag.StringVar(&opts.outputAsset, "output-asset", "USDC", "Swap output asset symbol or mint address")
	flag.StringVar(&opts.amount, "amount", "", "Amount in human units, e.g. 0.5")
	flag.Uint64Var(&opts.slippageBps, "slippage-bps", 50, "Swap slippage in basis points")
	flag.Uint64Var(&opts.maxPriority, "max-priority-lamports", 1_000_000, "Swap prioritization fee cap")
	flag.StringVar(&opts.priority, "priority-level", "veryHigh", "Swap priority level")
	flag.StringVar(&opts.keyFile, "key-file", "", "Keypair JSON file (otherwise WALLET_PRIVATE_KEY or WALLET_MNEMONIC)")
	flag.UintVar(&opts.accountIndex, "account-index", 0, "Derivation account index for WALLET_MNEMONIC")
	flag.StringVar(&opts.assets, "assets", "", "Comma-separated asset symbols for price mode (default: all verified)")
	flag.Parse()

	logging.Init(cfg.LogLevel, cfg.LogJSON)
	logger := logging.WithComponent("wallet")

	if err := config.Validate(cfg); err != nil {
		logger.Fatal().Err(err).Msg("Invalid configuration")
	}

	if cfg.MetricsAddr != "" {
		go func() {
			mux := http.NewServeMux()
			mux.Handle("/metrics", observability.Handler())
			mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("ok"))
			})
			logger.Info().Str("addr", cfg.MetricsAddr).Msg("Starting metrics server")
			if err := http.ListenAndServe(cfg.MetricsAddr, mux); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("Metrics server error")
			}
		}()
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("Setup failed")
	}
	defer app.Close()

	start := time.Now()
	out, err := app.run(ctx, opts)
	if err != nil {
		event := logger.Error().Err(err).Str("mode", opts.mode)
		if kind := walleterr.KindOf(err); kind != nil {
			event = event.Str("kind", kind.Error()).Bool("retryable", walleterr.Retryable(err))
		}
		event.Msg("Command failed")
		app.Close()
		stop()
		os.Exit(1)
	}
	logger.Debug().Str("mode", opts.mode).Dur("elapsed", time.Since(start)).Msg("Command finished")

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		logger.Fatal().Err(err).Msg("Encode output")
	}
}

func (a *app) run(ctx context.Context, opts options) (interface{}, error) {
	switch opts.mode {
	case "assets":
		return a.assets(), nil
	case "balance":
		return a.balance(ctx, opts)
	case "portfolio":
		return a.portfolio(ctx, opts)
	case "send":
		return a.send(ctx, opts)
	case "fee":
		return a.fee(opts)
	case "quote":
		return a.quote(ctx, opts)
	case "swap":
		return a.swap(ctx, opts)
	case "price":
		return a.price(ctx, opts)
	case "treasury":
		return a.treasury(ctx)
	default:
		return nil, fmt.Errorf("unknown mode %q", opts.mode)
	}
}

// confirmer picks the confirmation strategy from config.
func confirmer(cfg *config.Config) (solana.Confirmer, error) {
	poll := solana.NewPollConfirmer()
	poll.Timeout = cfg.Solana.ConfirmationTimeout

	switch cfg.Solana.ConfirmationMode {
	case config.ConfirmPoll:
		return poll, nil
	case config.ConfirmWS:
		ws := solana.NewWSConfirmer()
		ws.Endpoint = cfg.Solana.WSEndpoint
		ws.Timeout = cfg.Solana.ConfirmationTimeout
		ws.Fallback = poll
		return ws, nil
	default:
		return nil, errors.New("unknown confirmation mode " + cfg.Solana.ConfirmationMode)
	}
}
