package clickhouse

import (
	"context"
	"fmt"
	"time"

	"solana-wallet-kit/internal/domain"
	"solana-wallet-kit/internal/storage"
)

// BalanceSnapshotStore implements storage.BalanceSnapshotStore using ClickHouse.
type BalanceSnapshotStore struct {
	conn *Conn
}

// NewBalanceSnapshotStore creates a new BalanceSnapshotStore.
func NewBalanceSnapshotStore(conn *Conn) *BalanceSnapshotStore {
	return &BalanceSnapshotStore{conn: conn}
}

// Compile-time interface check.
var _ storage.BalanceSnapshotStore = (*BalanceSnapshotStore)(nil)

type snapshotKey struct {
	account     string
	mint        string
	timestampMs int64
}

// InsertBulk adds multiple snapshots. Fails entire batch on duplicate (account, mint, timestamp_ms).
// MergeTree does not enforce uniqueness, so duplicates are checked before insert.
func (s *BalanceSnapshotStore) InsertBulk(ctx context.Context, snapshots []*domain.BalanceSnapshot) (err error) {
	if len(snapshots) == 0 {
		return nil
	}
	start := time.Now()
	defer func() { observe("insert_balance_snapshots", start, err) }()

	seen := make(map[snapshotKey]struct{}, len(snapshots))
	for _, snap := range snapshots {
		if err := storage.ValidateSnapshot(snap); err != nil {
			return err
		}
		k := snapshotKey{snap.Account, snap.Mint, snap.TimestampMs}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	for _, snap := range snapshots {
		exists, err := s.exists(ctx, snap.Account, snap.Mint, snap.TimestampMs)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO balance_snapshots (
			account, mint, symbol, decimals, raw_amount, amount, timestamp_ms
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, snap := range snapshots {
		err = batch.Append(
			snap.Account, snap.Mint, snap.Symbol, snap.Decimals,
			snap.RawAmount, snap.Amount, uint64(snap.TimestampMs),
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByAccount retrieves all snapshots for an account, ordered by timestamp ASC.
func (s *BalanceSnapshotStore) GetByAccount(ctx context.Context, account string) ([]*domain.BalanceSnapshot, error) {
	query := `
		SELECT account, mint, symbol, decimals, raw_amount, amount, timestamp_ms
		FROM balance_snapshots
		WHERE account = ?
		ORDER BY timestamp_ms ASC, mint ASC
	`

	rows, err := s.conn.Query(ctx, query, account)
	if err != nil {
		return nil, fmt.Errorf("query by account: %w", err)
	}
	defer rows.Close()

	return scanBalanceSnapshots(rows)
}

// GetByTimeRange retrieves snapshots for an account and mint within [start, end] (inclusive).
func (s *BalanceSnapshotStore) GetByTimeRange(ctx context.Context, account, mint string, start, end int64) ([]*domain.BalanceSnapshot, error) {
	query := `
		SELECT account, mint, symbol, decimals, raw_amount, amount, timestamp_ms
		FROM balance_snapshots
		WHERE account = ? AND mint = ? AND timestamp_ms >= ? AND timestamp_ms <= ?
		ORDER BY timestamp_ms ASC
	`

	rows, err := s.conn.Query(ctx, query, account, mint, uint64(start), uint64(end))
	if err != nil {
		return nil, fmt.Errorf("query by time range: %w", err)
	}
	defer rows.Close()

	return scanBalanceSnapshots(rows)
}

func (s *BalanceSnapshotStore) exists(ctx context.Context, account, mint string, timestampMs int64) (bool, error) {
	query := `
		SELECT count(*) FROM balance_snapshots
		WHERE account = ? AND mint = ? AND timestamp_ms = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, account, mint, uint64(timestampMs)).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func scanBalanceSnapshots(rows chRows) ([]*domain.BalanceSnapshot, error) {
	var snapshots []*domain.BalanceSnapshot

	for rows.Next() {
		var snap domain.BalanceSnapshot
		var timestampMs uint64

		if err := rows.Scan(
			&snap.Account, &snap.Mint, &snap.Symbol, &snap.Decimals,
			&snap.RawAmount, &snap.Amount, &timestampMs,
		); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		snap.TimestampMs = int64(timestampMs)
		snapshots = append(snapshots, &snap)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return snapshots, nil
}
