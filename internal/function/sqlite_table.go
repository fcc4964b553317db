package function

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	_ "github.com/mattn/go-sqlite3"

	"github.com/BuzzLyutic/serverless-todo/internal/model"
)

// SQLiteTable stores each table as (id TEXT PRIMARY KEY, item TEXT) in a
// single database file.
type SQLiteTable struct {
	db    *sql.DB
	mu    sync.Mutex
	ready map[string]bool
}

func NewSQLiteTable(db *sql.DB) (*SQLiteTable, error) {
	if db == nil {
		return nil, errors.New("function: nil db")
	}
	return &SQLiteTable{db: db, ready: make(map[string]bool)}, nil
}

func OpenSQLiteTable(path string) (*SQLiteTable, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	table, err := NewSQLiteTable(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return table, nil
}

func (t *SQLiteTable) Close() error {
	return t.db.Close()
}

func (t *SQLiteTable) Scan(ctx context.Context, table, startKey string, limit int) (Page, error) {
	ident, err := t.ensure(ctx, table)
	if err != nil {
		return Page{}, err
	}
	if limit <= 0 {
		limit = DefaultPageSize
	}

	rows, err := t.db.QueryContext(ctx,
		`SELECT id, item FROM `+ident+` WHERE id > ? ORDER BY id LIMIT ?`, startKey, limit+1)
	if err != nil {
		return Page{}, fmt.Errorf("scan %s: %w", table, err)
	}
	defer rows.Close()

	page := Page{Items: make([]json.RawMessage, 0, limit)}
	var lastID string
	for rows.Next() {
		var id, item string
		if err := rows.Scan(&id, &item); err != nil {
			return Page{}, fmt.Errorf("scan %s: %w", table, err)
		}
		if len(page.Items) == limit {
			page.LastKey = lastID
			break
		}
		page.Items = append(page.Items, json.RawMessage(item))
		lastID = id
	}
	return page, rows.Err()
}

func (t *SQLiteTable) Put(ctx context.Context, table string, item model.Task) error {
	ident, err := t.ensure(ctx, table)
	if err != nil {
		return err
	}
	doc, err := json.Marshal(item)
	if err != nil {
		return err
	}
	_, err = t.db.ExecContext(ctx, `
		INSERT INTO `+ident+` (id, item) VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET item = excluded.item`,
		item.ID, string(doc),
	)
	if err != nil {
		return fmt.Errorf("put %s: %w", table, err)
	}
	return nil
}

func (t *SQLiteTable) SetCompleted(ctx context.Context, table, id string, completed bool) error {
	ident, err := t.ensure(ctx, table)
	if err != nil {
		return err
	}

	tx, err := t.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	defer tx.Rollback()

	var current string
	err = tx.QueryRowContext(ctx, `SELECT item FROM `+ident+` WHERE id = ?`, id).Scan(&current)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("update %s: %w", table, err)
	}
	doc, err := setCompletedDoc([]byte(current), id, completed)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO `+ident+` (id, item) VALUES (?, ?)
		ON CONFLICT (id) DO UPDATE SET item = excluded.item`,
		id, string(doc),
	)
	if err != nil {
		return fmt.Errorf("update %s: %w", table, err)
	}
	return tx.Commit()
}

func (t *SQLiteTable) Delete(ctx context.Context, table, id string) error {
	ident, err := t.ensure(ctx, table)
	if err != nil {
		return err
	}
	if _, err := t.db.ExecContext(ctx, `DELETE FROM `+ident+` WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	return nil
}

func (t *SQLiteTable) ensure(ctx context.Context, table string) (string, error) {
	ident := `"` + strings.ReplaceAll(table, `"`, `""`) + `"`

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ready[table] {
		return ident, nil
	}
	_, err := t.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+ident+` (id TEXT PRIMARY KEY, item TEXT NOT NULL)`)
	if err != nil {
		return "", fmt.Errorf("create table %s: %w", table, err)
	}
	t.ready[table] = true
	return ident, nil
}
