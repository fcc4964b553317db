package function

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/serverless-todo/internal/model"
)

const (
	DefaultTableName = "TodoTable"
	DefaultPageSize  = 100
)

type Options struct {
	// DefaultTable is used when an event names no table.
	DefaultTable string
	PageSize     int
	// LegacyFunctionNameAction routes events without an action by the name
	// the function was deployed under.
	LegacyFunctionNameAction bool
}

// Handler routes one event to one table operation and always answers with a
// Response; failures become 4xx/5xx results, never errors or panics.
type Handler struct {
	table  Table
	opts   Options
	logger *zap.Logger
}

func NewHandler(table Table, opts Options, logger *zap.Logger) *Handler {
	if opts.DefaultTable == "" {
		opts.DefaultTable = DefaultTableName
	}
	if opts.PageSize <= 0 {
		opts.PageSize = DefaultPageSize
	}
	return &Handler{
		table:  table,
		opts:   opts,
		logger: logger,
	}
}

func (h *Handler) Handle(ctx context.Context, ev Event, functionName string) (resp Response) {
	action := h.resolveAction(ev, functionName)
	table := ev.String("table_name")
	if table == "" {
		table = h.opts.DefaultTable
	}
	logger := h.logger.With(zap.String("action", action), zap.String("table", table))

	defer func() {
		if r := recover(); r != nil {
			logger.Error("table operation panicked", zap.Any("panic", r))
			resp = failure(http.StatusInternalServerError, fmt.Sprintf("%v", r))
		}
	}()

	switch action {
	case model.ActionList:
		return h.list(ctx, logger, table)
	case model.ActionAdd:
		return h.add(ctx, logger, table, ev)
	case model.ActionUpdate:
		return h.update(ctx, logger, table, ev)
	case model.ActionDelete:
		return h.delete(ctx, logger, table, ev)
	default:
		logger.Warn("unknown action")
		return failure(http.StatusBadRequest, fmt.Sprintf("Unknown action: %s", action))
	}
}

func (h *Handler) resolveAction(ev Event, functionName string) string {
	if action := ev.String("action"); action != "" {
		return action
	}
	if h.opts.LegacyFunctionNameAction && functionName != "" {
		return functionName
	}
	return model.ActionList
}

// list scans the whole table, following continuation keys until exhausted.
func (h *Handler) list(ctx context.Context, logger *zap.Logger, table string) Response {
	items := make([]json.RawMessage, 0)
	start := ""
	pages := 0
	for {
		page, err := h.table.Scan(ctx, table, start, h.opts.PageSize)
		if err != nil {
			return h.tableFailure(logger, "Error getting items", err)
		}
		pages++
		items = append(items, page.Items...)
		if page.LastKey == "" || page.LastKey == start {
			break
		}
		start = page.LastKey
	}

	logger.Debug("scanned table", zap.Int("items", len(items)), zap.Int("pages", pages))
	return newResponse(http.StatusOK, items)
}

func (h *Handler) add(ctx context.Context, logger *zap.Logger, table string, ev Event) Response {
	item := recordFromEvent(logger, ev)
	if item.ID == "" {
		return h.tableFailure(logger, "Error adding item", ErrMissingKey)
	}
	if err := h.table.Put(ctx, table, item); err != nil {
		return h.tableFailure(logger, "Error adding item", err)
	}
	return ok("Item added successfully")
}

func (h *Handler) update(ctx context.Context, logger *zap.Logger, table string, ev Event) Response {
	id := ev.String("id")
	if id == "" {
		return h.tableFailure(logger, "Error updating item", ErrMissingKey)
	}
	if err := h.table.SetCompleted(ctx, table, id, ev.Bool("completed")); err != nil {
		return h.tableFailure(logger, "Error updating item", err)
	}
	return ok("Item updated successfully")
}

func (h *Handler) delete(ctx context.Context, logger *zap.Logger, table string, ev Event) Response {
	id := ev.String("id")
	if id == "" {
		return h.tableFailure(logger, "Error deleting item", ErrMissingKey)
	}
	if err := h.table.Delete(ctx, table, id); err != nil {
		return h.tableFailure(logger, "Error deleting item", err)
	}
	return ok("Item deleted successfully")
}

func (h *Handler) tableFailure(logger *zap.Logger, msg string, err error) Response {
	logger.Error(msg, zap.Error(model.E(model.KindTable, "", err)))
	return failure(http.StatusInternalServerError, err.Error())
}

// recordFromEvent reads the record either from the body (object or JSON
// string) or, when there is no usable body, from the event's own fields.
// Every field but id defaults to empty or false.
func recordFromEvent(logger *zap.Logger, ev Event) model.Task {
	if ev.Has("body") {
		item, err := model.DecodeTask(ev["body"])
		if err == nil {
			return item
		}
		logger.Warn("error parsing body, falling back to event fields", zap.Error(err))
	}

	raw, err := json.Marshal(ev)
	if err != nil {
		return model.Task{}
	}
	item, err := model.DecodeTask(raw)
	if err != nil {
		return model.Task{}
	}
	return item
}
