// Package balance queries native and token balances for a wallet.
package balance

import (
	"context"
	"fmt"
	"time"

	"solana-wallet-kit/internal/asset"
	"solana-wallet-kit/internal/domain"
	"solana-wallet-kit/internal/logging"
	"solana-wallet-kit/internal/observability"
	"solana-wallet-kit/internal/solana"
	"solana-wallet-kit/internal/storage"
	"solana-wallet-kit/internal/walleterr"
)

// Balance is the human-scaled quantity of one asset.
type Balance struct {
	UnitAddress string  `json:"mint"`
	Symbol      string  `json:"symbol"`
	Amount      float64 `json:"balance"`
}

// Service answers balance queries. It holds no per-wallet state; every call
// opens a client for the endpoint it is given.
type Service struct {
	Clients solana.ClientFactory

	// Snapshots, when set, receives one row per asset from Portfolio.
	Snapshots storage.BalanceSnapshotStore

	// Now defaults to time.Now.
	Now func() time.Time
}

// NewService creates a Service over clients. A nil factory opens HTTP clients.
func NewService(clients solana.ClientFactory) *Service {
	if clients == nil {
		clients = solana.DefaultClientFactory()
	}
	return &Service{Clients: clients, Now: time.Now}
}

// Balance returns the raw and scaled balance of a for account.
// Token balances sum every holding account of the mint; none yields zero.
func (s *Service) Balance(ctx context.Context, a asset.Asset, rpcEndpoint, account string) (uint64, float64, error) {
	const op = "balance"

	if !solana.IsValidPubkey(account) {
		return 0, 0, walleterr.InvalidAddress(op, account, nil)
	}
	if !a.IsNative() && !solana.IsValidPubkey(a.Address()) {
		return 0, 0, walleterr.InvalidAddress(op, a.Address(), nil)
	}

	client := s.Clients(rpcEndpoint)

	var raw uint64
	if a.IsNative() {
		observability.RecordBalanceQuery("native")
		lamports, err := client.GetBalance(ctx, account)
		if err != nil {
			return 0, 0, walleterr.Connection(op, fmt.Errorf("get balance of %s: %w", account, err))
		}
		raw = lamports
	} else {
		observability.RecordBalanceQuery("token")
		accounts, err := client.GetTokenAccountsByOwner(ctx, account, a.Address())
		if err != nil {
			return 0, 0, walleterr.Connection(op, fmt.Errorf("get %s accounts of %s: %w", a.Symbol(), account, err))
		}
		raw = sumHoldings(accounts, a.Address())
		logging.Balance.Trace().
			Str("account", account).
			Str("mint", a.Address()).
			Int("holding_accounts", len(accounts)).
			Msg("Token accounts fetched")
	}

	return raw, a.ToScaled(raw), nil
}

// sumHoldings totals accounts that belong to the token program and mint.
func sumHoldings(accounts []solana.TokenAccount, mint string) uint64 {
	var total uint64
	for _, ta := range accounts {
		if ta.Program != solana.TokenProgramID || ta.Mint != mint {
			continue
		}
		total += ta.Amount
	}
	return total
}

// Portfolio returns balances for assets in order. The first failure aborts.
func (s *Service) Portfolio(ctx context.Context, rpcEndpoint, account string, assets []asset.Asset) ([]Balance, error) {
	now := s.now().UnixMilli()

	balances := make([]Balance, 0, len(assets))
	snapshots := make([]*domain.BalanceSnapshot, 0, len(assets))
	for _, a := range assets {
		raw, scaled, err := s.Balance(ctx, a, rpcEndpoint, account)
		if err != nil {
			return nil, err
		}
		balances = append(balances, Balance{
			UnitAddress: a.Address(),
			Symbol:      a.Symbol(),
			Amount:      scaled,
		})
		snapshots = append(snapshots, &domain.BalanceSnapshot{
			Account:     account,
			Mint:        a.Address(),
			Symbol:      a.Symbol(),
			Decimals:    a.Decimals(),
			RawAmount:   raw,
			Amount:      scaled,
			TimestampMs: now,
		})
	}

	if s.Snapshots != nil {
		if err := s.Snapshots.InsertBulk(ctx, snapshots); err != nil {
			logging.Balance.Warn().Err(err).Str("account", account).Msg("Balance snapshot not stored")
		}
	}

	return balances, nil
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
