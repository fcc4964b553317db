package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/serverless-todo/internal/model"
)

// LocalStore keeps the whole collection as one JSON array on disk. Every
// mutation rewrites the file; the last writer wins.
type LocalStore struct {
	path   string
	logger *zap.Logger
}

func NewLocalStore(path string, logger *zap.Logger) *LocalStore {
	return &LocalStore{
		path:   path,
		logger: logger,
	}
}

func (s *LocalStore) Path() string {
	return s.path
}

// Load returns the persisted collection. A missing file is an empty
// collection; an unreadable or unparsable one is an empty collection plus an
// error the caller should surface as a notice.
func (s *LocalStore) Load(ctx context.Context) ([]model.Task, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []model.Task{}, nil
		}
		s.logger.Error("failed to read task file", zap.String("path", s.path), zap.Error(err))
		return []model.Task{}, model.E(model.KindIO, "load", err)
	}
	if len(data) == 0 {
		return []model.Task{}, nil
	}

	tasks, err := model.DecodeTasks(data)
	if err != nil {
		s.logger.Warn("task file not fully decoded", zap.String("path", s.path), zap.Int("decoded", len(tasks)), zap.Error(err))
	}
	return tasks, err
}

// Save overwrites the persisted collection. The data goes to a temporary file
// in the same directory first and is renamed into place.
func (s *LocalStore) Save(ctx context.Context, tasks []model.Task) error {
	if tasks == nil {
		tasks = []model.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return model.E(model.KindIO, "save", fmt.Errorf("marshal tasks: %w", err))
	}

	if err := s.writeAtomic(data); err != nil {
		s.logger.Error("failed to write task file", zap.String("path", s.path), zap.Error(err))
		return model.E(model.KindIO, "save", err)
	}
	return nil
}

func (s *LocalStore) writeAtomic(data []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replace task file: %w", err)
	}
	return nil
}

func (s *LocalStore) List(ctx context.Context) ([]model.Task, error) {
	return s.Load(ctx)
}

func (s *LocalStore) Create(ctx context.Context, t model.Task) error {
	tasks, err := s.loadForWrite(ctx)
	if err != nil {
		return err
	}
	return s.Save(ctx, append(tasks, t))
}

func (s *LocalStore) SetCompleted(ctx context.Context, id string, completed bool) error {
	tasks, err := s.loadForWrite(ctx)
	if err != nil {
		return err
	}
	i := model.IndexOf(tasks, id)
	if i < 0 {
		return model.E(model.KindNotFound, "set completed", fmt.Errorf("%w: %s", ErrorNotFound, id))
	}
	tasks[i].Completed = completed
	return s.Save(ctx, tasks)
}

// Delete removes the record with the given id. Deleting an absent id
// succeeds without touching the file.
func (s *LocalStore) Delete(ctx context.Context, id string) error {
	tasks, err := s.loadForWrite(ctx)
	if err != nil {
		return err
	}
	i := model.IndexOf(tasks, id)
	if i < 0 {
		return nil
	}
	return s.Save(ctx, append(tasks[:i], tasks[i+1:]...))
}

// loadForWrite refuses to rewrite a file it could not read in full, so a
// mutation never silently drops records that failed to decode.
func (s *LocalStore) loadForWrite(ctx context.Context) ([]model.Task, error) {
	tasks, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	return tasks, nil
}
