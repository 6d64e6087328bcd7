package memory

import (
	"context"
	"errors"
	"testing"

	"solana-wallet-kit/internal/domain"
	"solana-wallet-kit/internal/storage"
)

func TestBalanceSnapshotStore_InsertBulkAndQuery(t *testing.T) {
	store := NewBalanceSnapshotStore()
	ctx := context.Background()

	snaps := []*domain.BalanceSnapshot{
		{Account: "w", Mint: "m1", Symbol: "SOL", Decimals: 9, RawAmount: 1, TimestampMs: 1000},
		{Account: "w", Mint: "m1", Symbol: "SOL", Decimals: 9, RawAmount: 2, TimestampMs: 2000},
		{Account: "w", Mint: "m2", Symbol: "USDC", Decimals: 6, RawAmount: 3, TimestampMs: 2000},
		{Account: "other", Mint: "m1", Symbol: "SOL", Decimals: 9, RawAmount: 4, TimestampMs: 2000},
	}
	if err := store.InsertBulk(ctx, snaps); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}

	all, _ := store.GetByAccount(ctx, "w")
	if len(all) != 3 {
		t.Fatalf("expected 3 snapshots, got %d", len(all))
	}

	ranged, _ := store.GetByTimeRange(ctx, "w", "m1", 1500, 2000)
	if len(ranged) != 1 || ranged[0].RawAmount != 2 {
		t.Errorf("unexpected range result: %+v", ranged)
	}
}

func TestBalanceSnapshotStore_Duplicates(t *testing.T) {
	store := NewBalanceSnapshotStore()
	ctx := context.Background()

	snap := &domain.BalanceSnapshot{Account: "w", Mint: "m", TimestampMs: 1}
	if err := store.InsertBulk(ctx, []*domain.BalanceSnapshot{snap}); err != nil {
		t.Fatalf("InsertBulk failed: %v", err)
	}
	if err := store.InsertBulk(ctx, []*domain.BalanceSnapshot{snap}); !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}

	// Intra-batch duplicate rejects the whole batch.
	fresh := &domain.BalanceSnapshot{Account: "w", Mint: "n", TimestampMs: 5}
	err := store.InsertBulk(ctx, []*domain.BalanceSnapshot{fresh, fresh})
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
	got, _ := store.GetByTimeRange(ctx, "w", "n", 0, 10)
	if len(got) != 0 {
		t.Error("failed batch must not be partially applied")
	}
}
