package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	solanago "github.com/gagliardetto/solana-go"

	"solana-wallet-kit/internal/asset"
	"solana-wallet-kit/internal/balance"
	"solana-wallet-kit/internal/config"
	"solana-wallet-kit/internal/fee"
	"solana-wallet-kit/internal/keys"
	"solana-wallet-kit/internal/logging"
	"solana-wallet-kit/internal/price"
	"solana-wallet-kit/internal/solana"
	chstore "solana-wallet-kit/internal/storage/clickhouse"
	"solana-wallet-kit/internal/storage/migrations"
	pgstore "solana-wallet-kit/internal/storage/postgres"
	"solana-wallet-kit/internal/swap"
	"solana-wallet-kit/internal/transfer"
)

// app holds the services wired from config.
type app struct {
	cfg      *config.Config
	balances *balance.Service
	builder  *transfer.Builder
	fees     *fee.Calculator
	swaps    *swap.Client
	prices   *price.Client

	closers []func()
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	clients := solana.DefaultClientFactory(solana.WithCommitment(solana.CommitmentConfirmed))

	confirm, err := confirmer(cfg)
	if err != nil {
		return nil, err
	}

	fees, err := fee.NewCalculator(cfg.Fee.Percentage)
	if err != nil {
		return nil, err
	}

	swaps := swap.NewClient(cfg.Swap.BaseURL)
	swaps.PlatformFeeBps = cfg.Swap.PlatformFeeBps
	swaps.FeeAccount = cfg.Swap.FeeAccount

	prices := price.NewClient(cfg.Price.APIKey)
	prices.BaseURL = cfg.Price.BaseURL
	prices.Path = cfg.Price.Path
	prices.UserAgent = cfg.Price.UserAgent

	a := &app{
		cfg:      cfg,
		balances: balance.NewService(clients),
		builder:  transfer.NewBuilder(clients),
		fees:     fees,
		swaps:    swaps,
		prices:   prices,
	}
	a.builder.Confirm = confirm

	if dsn := cfg.Storage.PostgresDSN; dsn != "" {
		pool, err := pgstore.NewPool(ctx, dsn)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, pool.Close)
		if err := migrations.RunPostgresMigrations(ctx, pool); err != nil {
			a.Close()
			return nil, err
		}
		a.builder.Records = pgstore.NewTransferRecordStore(pool)
	}

	if dsn := cfg.Storage.ClickhouseDSN; dsn != "" {
		if err := chstore.EnsureDatabase(ctx, dsn); err != nil {
			a.Close()
			return nil, err
		}
		conn, err := chstore.NewConn(ctx, dsn)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = conn.Close() })
		if err := migrations.RunClickhouseMigrations(ctx, conn); err != nil {
			a.Close()
			return nil, err
		}
		a.balances.Snapshots = chstore.NewBalanceSnapshotStore(conn)
	}

	return a, nil
}

// Close releases storage connections.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// resolveAsset accepts a catalog symbol or a mint address.
func resolveAsset(s string) (asset.Asset, error) {
	if a, ok := asset.BySymbol(s); ok {
		return a, nil
	}
	if a, ok := asset.Resolve(s); ok {
		return a, nil
	}
	return asset.Asset{}, fmt.Errorf("unknown asset %q", s)
}

// loadSigner reads the signing key from a keypair file, WALLET_PRIVATE_KEY or
// WALLET_MNEMONIC, in that order. The key itself is never logged.
func loadSigner(opts options) (solanago.PrivateKey, error) {
	if opts.keyFile != "" {
		data, err := os.ReadFile(opts.keyFile)
		if err != nil {
			return nil, fmt.Errorf("read key file: %w", err)
		}
		return keys.FromJSON(data)
	}
	if s := strings.TrimSpace(os.Getenv("WALLET_PRIVATE_KEY")); s != "" {
		return keys.FromBase58(s)
	}
	if m := strings.TrimSpace(os.Getenv("WALLET_MNEMONIC")); m != "" {
		return keys.FromMnemonic(m, os.Getenv("WALLET_PASSPHRASE"), uint32(opts.accountIndex))
	}
	return nil, fmt.Errorf("no signing key: set -key-file, WALLET_PRIVATE_KEY or WALLET_MNEMONIC")
}

// accountOf returns -account, or the signer's address when a key is available.
func accountOf(opts options) (string, error) {
	if opts.account != "" {
		return opts.account, nil
	}
	signer, err := loadSigner(opts)
	if err != nil {
		return "", fmt.Errorf("-account is required: %w", err)
	}
	return signer.PublicKey().String(), nil
}

func logSigner(signer solanago.PrivateKey) {
	logging.Transfer.Debug().Str("signer", signer.PublicKey().String()).Msg("Signer loaded")
}
