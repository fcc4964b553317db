package function

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/BuzzLyutic/serverless-todo/internal/model"
)

var ErrMissingKey = errors.New("missing key: id")

// Page is one slice of a table scan. An empty LastKey means the scan is
// exhausted; otherwise it is passed back as the next start key.
type Page struct {
	Items   []json.RawMessage
	LastKey string
}

// Table is a managed key-value table holding one document per id. Scan
// returns documents as stored, so records written by other clients pass
// through untouched.
type Table interface {
	Scan(ctx context.Context, table, startKey string, limit int) (Page, error)
	Put(ctx context.Context, table string, item model.Task) error
	// SetCompleted changes only the completed attribute. An absent id gets a
	// document holding just id and completed.
	SetCompleted(ctx context.Context, table, id string, completed bool) error
	// Delete of an absent id is not an error.
	Delete(ctx context.Context, table, id string) error
}

// setCompletedDoc applies the completed attribute to a stored document.
func setCompletedDoc(doc []byte, id string, completed bool) ([]byte, error) {
	fields := map[string]interface{}{}
	if len(doc) > 0 {
		if err := json.Unmarshal(doc, &fields); err != nil {
			return nil, err
		}
		if fields == nil {
			fields = map[string]interface{}{}
		}
	}
	fields["id"] = id
	fields["completed"] = completed
	return json.Marshal(fields)
}
