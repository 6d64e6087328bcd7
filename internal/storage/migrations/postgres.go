package migrations

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"solana-wallet-kit/internal/logging"
)

// PostgresExecer is satisfied by *pgxpool.Pool and *postgres.Pool.
type PostgresExecer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// RunPostgresMigrations applies the journal schema. Files are idempotent and
// each one is sent as a single multi-statement Exec.
func RunPostgresMigrations(ctx context.Context, db PostgresExecer) error {
	migs, err := Load(Postgres)
	if err != nil {
		return err
	}

	for _, m := range migs {
		if _, err := db.Exec(ctx, m.SQL); err != nil {
			return fmt.Errorf("apply migration %s: %w", m.Name, err)
		}
		logging.Storage.Debug().Str("file", m.Name).Msg("Applied postgres migration")
	}
	return nil
}
