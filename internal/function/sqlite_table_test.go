package function

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/serverless-todo/internal/model"
)

func setupSQLiteTable(t *testing.T) *SQLiteTable {
	t.Helper()
	table, err := OpenSQLiteTable(filepath.Join(t.TempDir(), "todo-test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = table.Close() })
	return table
}

func TestSQLiteTable(t *testing.T) {
	runTableContract(t, setupSQLiteTable(t))
}

func TestSQLiteTable_QuotedTableName(t *testing.T) {
	table := setupSQLiteTable(t)
	ctx := context.Background()

	name := `Todo "Table"; DROP`
	require.NoError(t, table.Put(ctx, name, model.Task{ID: "1", Description: "safe"}))

	got := scanAll(t, table, name, 10)
	require.Len(t, got, 1)
	assert.Equal(t, "safe", got[0].Description)
}

func TestNewSQLiteTable_NilDB(t *testing.T) {
	_, err := NewSQLiteTable(nil)
	assert.Error(t, err)
}
