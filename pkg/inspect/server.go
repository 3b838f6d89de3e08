package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	obserrors "github.com/vango-dev/observer/internal/errors"
	"github.com/vango-dev/observer/pkg/loop"
)

// DefaultCallTimeout bounds how long a request waits for the loop.
const DefaultCallTimeout = 2 * time.Second

// Server exposes a Registry over HTTP. Every subject access runs on the
// Loop, so handlers never touch a subject from the request goroutine.
type Server struct {
	registry *Registry
	loop     *loop.Loop
	stream   *Stream
	router   chi.Router
	logger   *slog.Logger
	metrics  http.Handler
	timeout  time.Duration
	buffer   int
	origins  []string

	mu        sync.Mutex
	stopWatch func()
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithCallTimeout bounds how long a request waits for the loop.
func WithCallTimeout(d time.Duration) Option {
	return func(s *Server) { s.timeout = d }
}

// WithStreamBuffer sets how many change events each websocket client may
// have queued before further events are dropped.
func WithStreamBuffer(n int) Option {
	return func(s *Server) { s.buffer = n }
}

// WithAllowedOrigins lets browsers on the given origins open the change
// stream. By default only same-origin websocket requests are accepted.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) { s.origins = append([]string(nil), origins...) }
}

// ValueRequest is the body of PUT /subjects/{name}.
type ValueRequest struct {
	Value string `json:"value"`
}

// ErrorResponse is returned with every non-2xx status.
type ErrorResponse struct {
	Code   string `json:"code,omitempty"`
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// NewServer creates an inspector over reg. Call Start before serving so
// change events reach websocket clients.
func NewServer(reg *Registry, l *loop.Loop, opts ...Option) *Server {
	s := &Server{
		registry: reg,
		loop:     l,
		logger:   slog.Default(),
		timeout:  DefaultCallTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.stream = NewStream(s.buffer, s.logger)
	s.stream.AllowOrigins(s.origins...)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/subjects", s.handleList)
	r.Get("/subjects/{name}", s.handleGet)
	r.Put("/subjects/{name}", s.handlePut)
	r.Get("/ws", s.handleStream)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
	s.router = r
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Stream returns the websocket change stream.
func (s *Server) Stream() *Stream {
	return s.stream
}

// Start begins forwarding subject notifications to the change stream.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopWatch != nil {
		return nil
	}

	var stop func()
	err := s.loop.Call(ctx, func() {
		stop = s.registry.Watch(s.stream.Broadcast)
	})
	if err != nil {
		return obserrors.FromError(err, obserrors.CodeInspectorDispatch).WithOp("inspect.Start")
	}
	s.stopWatch = stop
	return nil
}

// Close stops forwarding and disconnects websocket clients.
func (s *Server) Close() {
	s.mu.Lock()
	stop := s.stopWatch
	s.stopWatch = nil
	s.mu.Unlock()

	if stop != nil {
		if err := s.loop.Call(context.Background(), stop); err != nil {
			s.logger.Warn("inspector could not detach watchers", "error", err)
		}
	}
	s.stream.Close()
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// call runs fn on the loop, bounded by the request context and timeout.
func (s *Server) call(r *http.Request, fn func()) error {
	ctx, cancel := context.WithTimeout(r.Context(), s.timeout)
	defer cancel()
	if err := s.loop.Call(ctx, fn); err != nil {
		return obserrors.New(obserrors.CodeInspectorDispatch).WithOp("inspect.call").Wrap(err)
	}
	return nil
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	var infos []SubjectInfo
	if err := s.call(r, func() { infos = s.registry.DescribeAll() }); err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	var (
		info    SubjectInfo
		descErr error
	)
	if err := s.call(r, func() { info, descErr = s.registry.Describe(name) }); err != nil {
		s.writeError(w, err)
		return
	}
	if descErr != nil {
		s.writeError(w, descErr)
		return
	}
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handlePut(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")

	var req ValueRequest
	body, err := io.ReadAll(io.LimitReader(r.Body, 64<<10))
	if err == nil {
		err = json.Unmarshal(body, &req)
	}
	if err != nil {
		s.writeError(w, obserrors.New(obserrors.CodeInvalidValue).
			WithOp("inspect.handlePut").
			WithDetail("request body must be {\"value\": \"...\"}").
			Wrap(err))
		return
	}

	var (
		info      SubjectInfo
		assignErr error
	)
	err = s.call(r, func() {
		if assignErr = s.registry.Assign(name, req.Value); assignErr != nil {
			return
		}
		info, assignErr = s.registry.Describe(name)
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	if assignErr != nil {
		s.writeError(w, assignErr)
		return
	}
	s.logger.Info("subject assigned", "subject", name, "value", info.Value, "remote", r.RemoteAddr)
	writeJSON(w, http.StatusOK, info)
}

func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	c, err := s.stream.upgrade(w, r)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	joined := false
	err = s.call(r, func() {
		joined = s.stream.join(c, s.registry.DescribeAll())
	})
	if err != nil {
		// The queued join may still run later; leave makes it a no-op.
		s.logger.Warn("inspector client rejected", "client", c.id, "error", err)
		s.stream.leave(c)
		return
	}
	if !joined {
		s.stream.leave(c)
		return
	}
	s.stream.serve(c)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	var oe *obserrors.ObserverError
	if !errors.As(err, &oe) {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	status := http.StatusInternalServerError
	switch oe.Code {
	case obserrors.CodeUnknownSubject:
		status = http.StatusNotFound
	case obserrors.CodeInvalidValue:
		status = http.StatusBadRequest
	case obserrors.CodeInspectorDispatch:
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("inspector request failed", "code", oe.Code, "error", err)
	}
	writeJSON(w, status, ErrorResponse{Code: oe.Code, Error: oe.Error(), Detail: oe.Detail})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
