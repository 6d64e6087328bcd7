package storage

import (
	"context"

	"solana-wallet-kit/internal/domain"
)

// TransferRecordStore provides access to the append-only transfer journal.
type TransferRecordStore interface {
	// Insert adds a journal entry. Returns ErrDuplicateKey if record_id exists.
	Insert(ctx context.Context, r *domain.TransferRecord) error

	// GetBySignature retrieves all entries for a signature, ordered by timestamp ASC.
	GetBySignature(ctx context.Context, signature string) ([]*domain.TransferRecord, error)

	// GetByAccount retrieves entries sent from or to account, ordered by timestamp ASC.
	GetByAccount(ctx context.Context, account string) ([]*domain.TransferRecord, error)
}

// BalanceSnapshotStore provides access to balance_snapshots storage.
type BalanceSnapshotStore interface {
	// InsertBulk adds multiple snapshots. Fails entire batch on duplicate (account, mint, timestamp_ms).
	InsertBulk(ctx context.Context, snapshots []*domain.BalanceSnapshot) error

	// GetByAccount retrieves all snapshots for an account, ordered by timestamp ASC.
	GetByAccount(ctx context.Context, account string) ([]*domain.BalanceSnapshot, error)

	// GetByTimeRange retrieves snapshots for an account and mint within [start, end] (inclusive).
	GetByTimeRange(ctx context.Context, account, mint string, start, end int64) ([]*domain.BalanceSnapshot, error)
}
