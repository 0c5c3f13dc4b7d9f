// Package server exposes task generation over HTTP.
//
// Routes:
//
//	GET  /healthz        liveness and build info
//	POST /v1/instances   generate one puzzle instance
//	POST /v1/tasks       generate one complete task (PNG frames base64-encoded)
//
// Both POST endpoints take the same body:
//
//	{"options": {"seed": 7, "min_targets": 3, "skip_videos": true}, "index": 0}
//
// Options use the pipeline JSON names and defaults. Errors are returned as
// {"error": "...", "code": "INVALID_CONFIG"} with a matching status code.
package server

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/matzehuels/balleat/pkg/buildinfo"
	"github.com/matzehuels/balleat/pkg/errors"
	"github.com/matzehuels/balleat/pkg/observability"
	"github.com/matzehuels/balleat/pkg/pipeline"
	"github.com/matzehuels/balleat/pkg/puzzle"
)

const (
	// maxBodyBytes limits request bodies.
	maxBodyBytes = 1 << 20

	// requestTimeout bounds a single generation request.
	requestTimeout = 2 * time.Minute

	// maxIndex bounds the task index accepted from clients.
	maxIndex = pipeline.MaxNumSamples
)

// Server serves the generation API.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New creates a server backed by runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{runner: runner, logger: logger}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(requestTimeout))
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/instances", s.handleInstance)
		r.Post("/tasks", s.handleTask)
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// =============================================================================
// Handlers
// =============================================================================

// GenerateRequest is the body of both generation endpoints.
type GenerateRequest struct {
	Options pipeline.Options `json:"options"`
	Index   int              `json:"index"`
}

// InstanceResponse is returned by POST /v1/instances.
type InstanceResponse struct {
	TaskID        string          `json:"task_id"`
	Seed          uint64          `json:"seed"`
	Instance      puzzle.Instance `json:"instance"`
	FinalSize     float64         `json:"final_size"`
	SolveAttempts int             `json:"solve_attempts"`
}

// TaskResponse is returned by POST /v1/tasks. Byte fields are base64.
type TaskResponse struct {
	RequestID string `json:"request_id"`
	*pipeline.Task
	Cached bool `json:"cached"`
}

type errorResponse struct {
	Error string      `json:"error"`
	Code  errors.Code `json:"code"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string         `json:"status"`
		Build  buildinfo.Info `json:"build"`
	}{"ok", buildinfo.Get()})
}

func (s *Server) handleInstance(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	inst, stats, err := s.runner.Instance(r.Context(), req.Options, req.Index)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := req.Options
	opts.SetBatchDefaults()
	writeJSON(w, http.StatusOK, InstanceResponse{
		TaskID:        pipeline.TaskID(opts.Domain, req.Index),
		Seed:          pipeline.TaskSeed(opts.Seed, req.Index),
		Instance:      inst,
		FinalSize:     inst.FinalSize(),
		SolveAttempts: stats.SolveAttempts,
	})
}

func (s *Server) handleTask(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	task, err := s.runner.GenerateTask(r.Context(), req.Options, req.Index)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, TaskResponse{
		RequestID: uuid.NewString(),
		Task:      task,
		Cached:    task.Stats.Cached,
	})
}

// =============================================================================
// Helpers
// =============================================================================

func decodeRequest(w http.ResponseWriter, r *http.Request) (GenerateRequest, error) {
	var req GenerateRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		return req, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	if req.Index < 0 || req.Index >= maxIndex {
		return req, errors.New(errors.ErrCodeInvalidInput, "index must be in [0, %d), got %d", maxIndex, req.Index)
	}
	return req, nil
}

// statusFor maps error codes to HTTP status codes.
func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeGenerationFailed:
		return http.StatusUnprocessableEntity
	case errors.ErrCodeNotFound:
		return http.StatusNotFound
	case errors.ErrCodeEncoderUnavailable:
		return http.StatusServiceUnavailable
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	if status >= 500 {
		s.logger.Error("request failed", "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()), "error", err)
	} else {
		s.logger.Debug("request rejected", "path", r.URL.Path, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: errors.UserMessage(err), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// observe reports requests to the HTTP hooks and the debug log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		hooks := observability.HTTP()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		duration := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, duration)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", duration)
	})
}
