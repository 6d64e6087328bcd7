package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-wallet-kit/internal/domain"
	"solana-wallet-kit/internal/storage"
)

func snapshot(mint string, ts int64, raw uint64) *domain.BalanceSnapshot {
	return &domain.BalanceSnapshot{
		Account:     "wallet-1",
		Mint:        mint,
		Symbol:      "SOL",
		Decimals:    9,
		RawAmount:   raw,
		Amount:      float64(raw) / 1e9,
		TimestampMs: ts,
	}
}

func TestBalanceSnapshotStore_InsertBulk(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewBalanceSnapshotStore(conn)
	ctx := context.Background()

	assert.NoError(t, store.InsertBulk(ctx, nil))

	err := store.InsertBulk(ctx, []*domain.BalanceSnapshot{
		snapshot("So11111111111111111111111111111111111111112", 1000, 1500000000),
		snapshot("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v", 1000, 0),
	})
	require.NoError(t, err)

	got, err := store.GetByAccount(ctx, "wallet-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(0), got[0].RawAmount) // EPj... sorts before So1...
	assert.Equal(t, uint64(1500000000), got[1].RawAmount)
	assert.Equal(t, 1.5, got[1].Amount)
	assert.Equal(t, uint8(9), got[1].Decimals)
	assert.Equal(t, int64(1000), got[1].TimestampMs)
}

func TestBalanceSnapshotStore_InsertBulk_DuplicateKey(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewBalanceSnapshotStore(conn)
	ctx := context.Background()

	snaps := []*domain.BalanceSnapshot{snapshot("mint-a", 1000, 1)}
	require.NoError(t, store.InsertBulk(ctx, snaps))
	assert.ErrorIs(t, store.InsertBulk(ctx, snaps), storage.ErrDuplicateKey)

	intra := []*domain.BalanceSnapshot{snapshot("mint-b", 1000, 1), snapshot("mint-b", 1000, 2)}
	assert.ErrorIs(t, store.InsertBulk(ctx, intra), storage.ErrDuplicateKey)
}

func TestBalanceSnapshotStore_GetByTimeRange(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewBalanceSnapshotStore(conn)
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, []*domain.BalanceSnapshot{
		snapshot("mint-a", 1000, 1),
		snapshot("mint-a", 2000, 2),
		snapshot("mint-a", 3000, 3),
		snapshot("mint-b", 2000, 9),
	}))

	got, err := store.GetByTimeRange(ctx, "wallet-1", "mint-a", 1500, 3000)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(2), got[0].RawAmount)
	assert.Equal(t, uint64(3), got[1].RawAmount)
}
