package function

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/serverless-todo/internal/model"
)

var contractTables = []string{
	"put_scan", "overwrite", "complete", "stub", "delete", "never_created", "paged", "iso_a", "iso_b", "TodoTable",
}

// setupTestDB uses TEST_DATABASE_URL when set and a throwaway postgres
// container otherwise.
func setupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres tests skipped in short mode")
	}
	ctx := context.Background()

	connStr := os.Getenv("TEST_DATABASE_URL")
	if connStr == "" {
		pgContainer, err := postgres.Run(ctx,
			"postgres:15-alpine",
			postgres.WithDatabase("testdb"),
			postgres.WithUsername("testuser"),
			postgres.WithPassword("testpass"),
			testcontainers.WithWaitStrategy(
				wait.ForLog("database system is ready to accept connections").
					WithOccurrence(2).
					WithStartupTimeout(30*time.Second),
			),
		)
		if err != nil {
			t.Skipf("postgres container unavailable: %v", err)
		}
		t.Cleanup(func() {
			if err := pgContainer.Terminate(ctx); err != nil {
				t.Errorf("Failed to terminate container: %v", err)
			}
		})

		connStr, err = pgContainer.ConnectionString(ctx, "sslmode=disable")
		require.NoError(t, err)
	}

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, pool.Ping(ctx))

	for _, name := range contractTables {
		_, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+pgx.Identifier{name}.Sanitize())
		require.NoError(t, err)
	}
	return pool
}

func TestPostgresTable(t *testing.T) {
	pool := setupTestDB(t)
	runTableContract(t, NewPostgresTable(pool))
}

func TestPostgresTable_HandlerScenario(t *testing.T) {
	pool := setupTestDB(t)
	h := NewHandler(NewPostgresTable(pool), Options{PageSize: 2}, zap.NewNop())
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		resp := h.Handle(ctx, newEvent(t, map[string]interface{}{
			"action": model.ActionAdd,
			"body":   map[string]interface{}{"id": id, "description": "task " + id},
		}), "")
		require.Equal(t, 200, resp.StatusCode, resp.Body)
	}

	resp := h.Handle(ctx, newEvent(t, map[string]interface{}{"action": model.ActionDelete, "id": "missing-id"}), "")
	assert.Equal(t, 200, resp.StatusCode)

	items := decodeItems(t, h.Handle(ctx, newEvent(t, map[string]interface{}{"action": model.ActionList}), ""))
	assert.Len(t, items, 3)
}
