package postgres

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"

	"solana-wallet-kit/internal/domain"
	"solana-wallet-kit/internal/storage"
)

// TransferRecordStore implements storage.TransferRecordStore using PostgreSQL.
type TransferRecordStore struct {
	pool *Pool
}

// NewTransferRecordStore creates a new TransferRecordStore.
func NewTransferRecordStore(pool *Pool) *TransferRecordStore {
	return &TransferRecordStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TransferRecordStore = (*TransferRecordStore)(nil)

const transferRecordColumns = `
	record_id, signature, kind, status,
	from_address, to_address, mint, symbol, amount::text,
	error, timestamp_ms
`

// Insert adds a journal entry. Returns ErrDuplicateKey if record_id exists.
// Amounts travel as text so the full u64 range fits NUMERIC(20,0).
func (s *TransferRecordStore) Insert(ctx context.Context, r *domain.TransferRecord) (err error) {
	if err := storage.ValidateRecord(r); err != nil {
		return err
	}
	start := time.Now()
	defer func() { observe("insert_transfer_record", start, err) }()

	query := `
		INSERT INTO transfer_records (
			record_id, signature, kind, status,
			from_address, to_address, mint, symbol, amount,
			error, timestamp_ms
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8, $9::text::numeric,
			$10, $11
		)
	`

	_, err = s.pool.Exec(ctx, query,
		r.RecordID, r.Signature, string(r.Kind), string(r.Status),
		r.From, r.To, r.Mint, r.Symbol, strconv.FormatUint(r.Amount, 10),
		r.Error, r.TimestampMs,
	)
	return storageErr("insert transfer record", err)
}

// GetBySignature retrieves all entries for a signature, ordered by timestamp ASC.
func (s *TransferRecordStore) GetBySignature(ctx context.Context, signature string) ([]*domain.TransferRecord, error) {
	query := `
		SELECT ` + transferRecordColumns + `
		FROM transfer_records
		WHERE signature = $1
		ORDER BY timestamp_ms ASC, record_id ASC
	`

	start := time.Now()
	rows, err := s.pool.Query(ctx, query, signature)
	observe("get_transfer_records_by_signature", start, err)
	if err != nil {
		return nil, fmt.Errorf("get transfer records by signature: %w", err)
	}
	defer rows.Close()

	return scanTransferRecords(rows)
}

// GetByAccount retrieves entries sent from or to account, ordered by timestamp ASC.
func (s *TransferRecordStore) GetByAccount(ctx context.Context, account string) ([]*domain.TransferRecord, error) {
	query := `
		SELECT ` + transferRecordColumns + `
		FROM transfer_records
		WHERE from_address = $1 OR to_address = $1
		ORDER BY timestamp_ms ASC, record_id ASC
	`

	start := time.Now()
	rows, err := s.pool.Query(ctx, query, account)
	observe("get_transfer_records_by_account", start, err)
	if err != nil {
		return nil, fmt.Errorf("get transfer records by account: %w", err)
	}
	defer rows.Close()

	return scanTransferRecords(rows)
}

// GetLatest returns the newest entry for a signature. Returns ErrNotFound if none.
func (s *TransferRecordStore) GetLatest(ctx context.Context, signature string) (*domain.TransferRecord, error) {
	query := `
		SELECT ` + transferRecordColumns + `
		FROM transfer_records
		WHERE signature = $1
		ORDER BY timestamp_ms DESC, record_id DESC
		LIMIT 1
	`

	r, err := scanTransferRecord(s.pool.QueryRow(ctx, query, signature))
	if err != nil {
		return nil, storageErr("get latest transfer record", err)
	}
	return r, nil
}

// scanTransferRecord scans a single row into a TransferRecord.
func scanTransferRecord(row pgx.Row) (*domain.TransferRecord, error) {
	var r domain.TransferRecord
	var kind, status, amount string

	err := row.Scan(
		&r.RecordID, &r.Signature, &kind, &status,
		&r.From, &r.To, &r.Mint, &r.Symbol, &amount,
		&r.Error, &r.TimestampMs,
	)
	if err != nil {
		return nil, err
	}

	r.Kind = domain.TransferKind(kind)
	r.Status = domain.TransferStatus(status)
	r.Amount, err = strconv.ParseUint(amount, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	return &r, nil
}

// scanTransferRecords scans multiple rows into a slice of TransferRecord.
func scanTransferRecords(rows pgx.Rows) ([]*domain.TransferRecord, error) {
	var records []*domain.TransferRecord

	for rows.Next() {
		r, err := scanTransferRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transfer record row: %w", err)
		}
		records = append(records, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transfer record rows: %w", err)
	}

	return records, nil
}
