package migrations

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingExec struct {
	stmts []string
	fail  bool
}

func (r *recordingExec) Exec(_ context.Context, query string, _ ...any) error {
	if r.fail {
		return errors.New("exec failed")
	}
	r.stmts = append(r.stmts, query)
	return nil
}

type recordingPgExec struct {
	stmts []string
}

func (r *recordingPgExec) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	r.stmts = append(r.stmts, sql)
	return pgconn.CommandTag{}, nil
}

func TestSplitStatements(t *testing.T) {
	input := `
-- comment; with semicolon
CREATE TABLE a (x UInt8) ENGINE = Memory;

CREATE TABLE b (y String) ENGINE = Memory;
`
	stmts := splitStatements(input)
	require.Len(t, stmts, 2)
	assert.True(t, strings.HasPrefix(stmts[0], "CREATE TABLE a"))
	assert.True(t, strings.HasPrefix(stmts[1], "CREATE TABLE b"))
}

func TestValidateNoSemicolonInStrings(t *testing.T) {
	assert.NoError(t, validateNoSemicolonInStrings("SELECT 'it''s fine'"))
	assert.Error(t, validateNoSemicolonInStrings("SELECT 'a;b'"))
}

func TestRunClickhouseMigrations(t *testing.T) {
	exec := &recordingExec{}
	require.NoError(t, RunClickhouseMigrations(context.Background(), exec))
	require.NotEmpty(t, exec.stmts)
	assert.Contains(t, exec.stmts[0], "balance_snapshots")

	err := RunClickhouseMigrations(context.Background(), &recordingExec{fail: true})
	assert.Error(t, err)
}

func TestRunPostgresMigrations(t *testing.T) {
	exec := &recordingPgExec{}
	require.NoError(t, RunPostgresMigrations(context.Background(), exec))
	require.NotEmpty(t, exec.stmts)
	assert.Contains(t, exec.stmts[0], "transfer_records")
}

func TestLoad(t *testing.T) {
	migs, err := Load(Postgres)
	require.NoError(t, err)
	require.NotEmpty(t, migs)
	for i := 1; i < len(migs); i++ {
		assert.Less(t, migs[i-1].Name, migs[i].Name)
	}

	_, err = Load(Dialect("sqlite"))
	assert.Error(t, err)
}
