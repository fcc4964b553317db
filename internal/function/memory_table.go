package function

import (
	"context"
	"encoding/json"
	"sort"
	"sync"

	"github.com/BuzzLyutic/serverless-todo/internal/model"
)

// MemoryTable keeps tables in process memory. Scans walk ids in sorted order.
type MemoryTable struct {
	mu     sync.Mutex
	tables map[string]map[string][]byte
}

func NewMemoryTable() *MemoryTable {
	return &MemoryTable{tables: make(map[string]map[string][]byte)}
}

func (t *MemoryTable) Scan(ctx context.Context, table, startKey string, limit int) (Page, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	docs := t.tables[table]
	ids := make([]string, 0, len(docs))
	for id := range docs {
		if startKey == "" || id > startKey {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	var page Page
	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
		page.LastKey = ids[len(ids)-1]
	}
	page.Items = make([]json.RawMessage, 0, len(ids))
	for _, id := range ids {
		page.Items = append(page.Items, append(json.RawMessage(nil), docs[id]...))
	}
	return page, nil
}

func (t *MemoryTable) Put(ctx context.Context, table string, item model.Task) error {
	doc, err := json.Marshal(item)
	if err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.table(table)[item.ID] = doc
	return nil
}

func (t *MemoryTable) SetCompleted(ctx context.Context, table, id string, completed bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	docs := t.table(table)
	doc, err := setCompletedDoc(docs[id], id, completed)
	if err != nil {
		return err
	}
	docs[id] = doc
	return nil
}

func (t *MemoryTable) Delete(ctx context.Context, table, id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.tables[table], id)
	return nil
}

// PutRaw stores a document as is. It lets callers seed records that did not
// come through the handler.
func (t *MemoryTable) PutRaw(table, id string, doc json.RawMessage) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.table(table)[id] = append([]byte(nil), doc...)
}

func (t *MemoryTable) table(name string) map[string][]byte {
	docs, exists := t.tables[name]
	if !exists {
		docs = make(map[string][]byte)
		t.tables[name] = docs
	}
	return docs
}
