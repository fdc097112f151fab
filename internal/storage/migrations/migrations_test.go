package migrations

import (
	"database/sql"
	"embed"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitStatements(t *testing.T) {
	input := `
-- header comment
CREATE TABLE a (x String) ENGINE = MergeTree() ORDER BY x;

CREATE TABLE b (y String)
ENGINE = MergeTree() ORDER BY y;
`
	stmts := splitStatements(input)
	require.Len(t, stmts, 2)
	assert.Equal(t, "CREATE TABLE a (x String) ENGINE = MergeTree() ORDER BY x", stmts[0])
	assert.Contains(t, stmts[1], "CREATE TABLE b")
}

func TestValidateNoSemicolonInStrings(t *testing.T) {
	assert.NoError(t, validateNoSemicolonInStrings("SELECT 'a''b'; SELECT 1;"))
	assert.Error(t, validateNoSemicolonInStrings("SELECT 'a;b';"))
}

func TestEmbeddedMigrationsPresent(t *testing.T) {
	tests := []struct {
		dir  string
		fsys embed.FS
	}{
		{"postgres", PostgresFS},
		{"clickhouse", ClickhouseFS},
		{"sqlite", SQLiteFS},
	}

	for _, tt := range tests {
		t.Run(tt.dir, func(t *testing.T) {
			files, err := sqlFiles(tt.fsys, tt.dir)
			require.NoError(t, err)
			assert.NotEmpty(t, files)
		})
	}
}

func TestClickhouseMigrationsSplit(t *testing.T) {
	data, err := ClickhouseFS.ReadFile("clickhouse/001_series.sql")
	require.NoError(t, err)
	require.NoError(t, validateNoSemicolonInStrings(string(data)))

	stmts := splitStatements(string(data))
	require.Len(t, stmts, 1)
	assert.Contains(t, stmts[0], "CREATE TABLE IF NOT EXISTS bucket_series")
}

func TestRunSQLiteMigrations_Idempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "buckets.db")

	require.NoError(t, RunSQLiteMigrations(dbPath))
	require.NoError(t, RunSQLiteMigrations(dbPath), "second run must be a no-op")

	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"raw_samples", "bucket_series", "runs"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, "table %s missing", table)
		assert.Equal(t, table, name)
	}
}
