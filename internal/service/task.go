package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/serverless-todo/internal/model"
	"github.com/BuzzLyutic/serverless-todo/internal/repo"
)

var (
	ErrValidation = errors.New("validation error")
)

// TaskService is what the presentation layer talks to; it does not care
// which store sits behind it.
type TaskService struct {
	store  repo.TaskStore
	logger *zap.Logger
	now    func() time.Time
}

func NewTaskService(store repo.TaskStore, logger *zap.Logger) *TaskService {
	return &TaskService{
		store:  store,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the clock used for new tasks' timestamps.
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

func (s *TaskService) Add(ctx context.Context, description, dueTime, dueDate string) (model.Task, error) {
	t := model.NewTask(strings.TrimSpace(description), strings.TrimSpace(dueTime), strings.TrimSpace(dueDate), s.now())
	if err := s.validate(t); err != nil {
		return t, err
	}
	if err := s.store.Create(ctx, t); err != nil {
		return t, err
	}
	s.logger.Info("task added", zap.String("id", t.ID))
	return t, nil
}

// List may return tasks together with an error when part of the listing
// could not be decoded.
func (s *TaskService) List(ctx context.Context) ([]model.Task, error) {
	return s.store.List(ctx)
}

func (s *TaskService) Complete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return model.E(model.KindValidation, "complete", ErrValidation)
	}
	return s.store.SetCompleted(ctx, id, true)
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	if strings.TrimSpace(id) == "" {
		return model.E(model.KindValidation, "delete", ErrValidation)
	}
	return s.store.Delete(ctx, id)
}

func (s *TaskService) validate(t model.Task) error {
	if t.Description == "" {
		return model.E(model.KindValidation, "add", ErrValidation)
	}
	return nil
}
