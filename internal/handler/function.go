package handler

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/serverless-todo/internal/function"
	"github.com/BuzzLyutic/serverless-todo/pkg/respond"
)

// FunctionHandler serves the CRUD function over HTTP on the same route the
// Lambda Invoke API uses, so the gateway can target either one.
type FunctionHandler struct {
	function *function.Handler
	logger   *zap.Logger
}

func NewFunctionHandler(fn *function.Handler, logger *zap.Logger) *FunctionHandler {
	return &FunctionHandler{
		function: fn,
		logger:   logger,
	}
}

// Invoke answers 200 whenever the event could be read; the function's own
// status travels inside the envelope.
func (h *FunctionHandler) Invoke(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength == 0 {
		respond.Error(w, r, http.StatusBadRequest, "empty request body")
		return
	}

	var ev function.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		h.logger.Error("failed to decode event", zap.Error(err))
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return
	}

	name := chi.URLParam(r, "name")
	resp := h.function.Handle(r.Context(), ev, name)
	h.logger.Debug("function invoked",
		zap.String("function", name),
		zap.Int("status", resp.StatusCode),
		zap.String("request_id", middleware.GetReqID(r.Context())),
	)
	respond.JSON(w, r, http.StatusOK, resp)
}

func (h *FunctionHandler) Health(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// NewRouter mounts the function and health routes behind the usual chi
// middleware stack.
func NewRouter(h *FunctionHandler) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.Health)
	r.Post("/2015-03-31/functions/{name}/invocations", h.Invoke)
	return r
}
