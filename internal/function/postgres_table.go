package function

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/serverless-todo/internal/model"
)

// PostgresTable stores each table as (id TEXT PRIMARY KEY, item JSONB).
// Tables are created on first use.
type PostgresTable struct {
	pool  *pgxpool.Pool
	mu    sync.Mutex
	ready map[string]bool
}

func NewPostgresTable(pool *pgxpool.Pool) *PostgresTable {
	return &PostgresTable{
		pool:  pool,
		ready: make(map[string]bool),
	}
}

func (t *PostgresTable) Scan(ctx context.Context, table, startKey string, limit int) (Page, error) {
	ident, err := t.ensure(ctx, table)
	if err != nil {
		return Page{}, err
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}

	// One extra row tells whether another page follows.
	rows, err := t.pool.Query(ctx, `
		SELECT id, item
		FROM `+ident+`
		WHERE id > $1
		ORDER BY id
		LIMIT $2
	`, startKey, limit+1)
	if err != nil {
		return Page{}, fmt.Errorf("scan %s: %w", table, err)
	}
	defer rows.Close()

	page := Page{Items: make([]json.RawMessage, 0, limit)}
	var lastID string
	for rows.Next() {
		var id string
		var item []byte
		if err := rows.Scan(&id, &item); err != nil {
			return Page{}, fmt.Errorf("scan %s: %w", table, err)
		}
		if len(page.Items) == limit {
			page.LastKey = lastID
			break
		}
		page.Items = append(page.Items, item)
		lastID = id
	}
	return page, rows.Err()
}

func (t *PostgresTable) Put(ctx context.Context, table string, item model.Task) error {
	ident, err := t.ensure(ctx, table)
	if err != nil {
		return err
	}
	doc, err := json.Marshal(item)
	if err != nil {
		return err
	}

	_, err = t.pool.Exec(ctx, `
		INSERT INTO `+ident+` (id, item) VALUES ($1, $2::jsonb)
		ON CONFLICT (id) DO UPDATE SET item = EXCLUDED.item
	`, item.ID, string(doc))
	if err != nil {
		return fmt.Errorf("put %s: %w", table, err)
	}
	return nil
}

func (t *PostgresTable) SetCompleted(ctx context.Context, table, id string, completed bool) error {
	ident, err := t.ensure(ctx, table)
	if err != nil {
		return err
	}

	_, err = t.pool.Exec(ctx, `
		INSERT INTO `+ident+` AS t (id, item)
		VALUES ($1, jsonb_build_object('id', $1::text, 'completed', $2::boolean))
		ON CONFLICT (id) DO UPDATE SET item = jsonb_set(t.item, '{completed}', to_jsonb($2::boolean))
	`, id, completed)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	return nil
}

func (t *PostgresTable) Delete(ctx context.Context, table, id string) error {
	ident, err := t.ensure(ctx, table)
	if err != nil {
		return err
	}
	if _, err := t.pool.Exec(ctx, "DELETE FROM "+ident+" WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return nil
}

// ensure returns the quoted identifier for table, creating it if needed.
func (t *PostgresTable) ensure(ctx context.Context, table string) (string, error) {
	ident := pgx.Identifier{table}.Sanitize()

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ready[table] {
		return ident, nil
	}

	_, err := t.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+ident+` (
			id   TEXT PRIMARY KEY,
			item JSONB NOT NULL
		)
	`)
	if err != nil {
		return "", fmt.Errorf("create table %s: %w", table, err)
	}
	t.ready[table] = true
	return ident, nil
}
