package repo

import (
	"context"
	"errors"

	"github.com/BuzzLyutic/serverless-todo/internal/model"
)

var ErrorNotFound = errors.New("not found")

// TaskStore is the contract shared by the local file store and the remote
// gateway. Errors carry a model.Kind; List may return records together with
// a KindDecode error when some elements were skipped.
type TaskStore interface {
	List(ctx context.Context) ([]model.Task, error)
	Create(ctx context.Context, t model.Task) error
	SetCompleted(ctx context.Context, id string, completed bool) error
	Delete(ctx context.Context, id string) error
}
