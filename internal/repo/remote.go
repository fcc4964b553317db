package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/serverless-todo/internal/model"
)

var ErrorRemote = errors.New("remote function failed")

type RemoteConfig struct {
	TableName    string
	FunctionName string
}

// Envelope is the function result as seen by the caller. Body stays raw so
// that both a nested value and a JSON string can be resolved later.
type Envelope struct {
	StatusCode   int               `json:"statusCode"`
	Headers      map[string]string `json:"headers,omitempty"`
	Body         json.RawMessage   `json:"body,omitempty"`
	ErrorMessage string            `json:"errorMessage,omitempty"`
	ErrorType    string            `json:"errorType,omitempty"`
}

// RemoteStore is the gateway to the CRUD function. Each call is one
// synchronous invocation; nothing is retried.
type RemoteStore struct {
	cfg     RemoteConfig
	invoker Invoker
	logger  *zap.Logger
}

func NewRemoteStore(cfg RemoteConfig, invoker Invoker, logger *zap.Logger) *RemoteStore {
	return &RemoteStore{
		cfg:     cfg,
		invoker: invoker,
		logger:  logger,
	}
}

func (s *RemoteStore) List(ctx context.Context) ([]model.Task, error) {
	env, err := s.invoke(ctx, model.Intent{
		Action:     model.ActionList,
		HTTPMethod: http.MethodGet,
	})
	if err != nil {
		return []model.Task{}, err
	}

	tasks, err := model.DecodeTasks(env.Body)
	if err != nil {
		s.logger.Warn("listing not fully decoded",
			zap.String("table", s.cfg.TableName),
			zap.Int("decoded", len(tasks)),
			zap.Error(err),
		)
	}
	return tasks, err
}

func (s *RemoteStore) Create(ctx context.Context, t model.Task) error {
	body, err := json.Marshal(t)
	if err != nil {
		return model.E(model.KindDecode, model.ActionAdd, err)
	}
	_, err = s.invoke(ctx, model.Intent{
		Action:     model.ActionAdd,
		HTTPMethod: http.MethodPost,
		Body:       string(body),
	})
	return err
}

func (s *RemoteStore) SetCompleted(ctx context.Context, id string, completed bool) error {
	_, err := s.invoke(ctx, model.Intent{
		Action:     model.ActionUpdate,
		HTTPMethod: http.MethodPut,
		ID:         id,
		Completed:  &completed,
	})
	return err
}

func (s *RemoteStore) Delete(ctx context.Context, id string) error {
	_, err := s.invoke(ctx, model.Intent{
		Action:     model.ActionDelete,
		HTTPMethod: http.MethodDelete,
		ID:         id,
	})
	return err
}

func (s *RemoteStore) invoke(ctx context.Context, intent model.Intent) (Envelope, error) {
	intent.TableName = s.cfg.TableName
	logger := s.logger.With(
		zap.String("action", intent.Action),
		zap.String("table", s.cfg.TableName),
		zap.String("function", s.cfg.FunctionName),
	)

	payload, err := json.Marshal(intent)
	if err != nil {
		return Envelope{}, model.E(model.KindDecode, intent.Action, err)
	}

	raw, err := s.invoker.Invoke(ctx, s.cfg.FunctionName, payload)
	if err != nil {
		logger.Error("invocation failed", zap.Error(err))
		return Envelope{}, model.E(model.KindTransport, intent.Action, err)
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		logger.Error("malformed function result", zap.Error(err))
		return Envelope{}, model.E(model.KindDecode, intent.Action, fmt.Errorf("malformed function result: %w", err))
	}

	if env.StatusCode != http.StatusOK {
		msg := remoteMessage(env)
		logger.Warn("function returned an error", zap.Int("status", env.StatusCode), zap.String("message", msg))
		return env, model.E(model.KindRemote, intent.Action, fmt.Errorf("%w: status %d: %s", ErrorRemote, env.StatusCode, msg))
	}

	logger.Debug("invocation succeeded", zap.Int("status", env.StatusCode))
	return env, nil
}

// remoteMessage extracts the most specific error text available.
func remoteMessage(env Envelope) string {
	if env.ErrorMessage != "" {
		return env.ErrorMessage
	}
	if body, ok := model.DecodeBody(env.Body); ok {
		var f struct {
			Error   string `json:"error"`
			Message string `json:"message"`
		}
		if json.Unmarshal(body, &f) == nil {
			if f.Error != "" {
				return f.Error
			}
			if f.Message != "" {
				return f.Message
			}
		}
		return string(body)
	}
	return "unknown error"
}
