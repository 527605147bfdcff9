package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"nomadpi-assistant/internal/application"
	"nomadpi-assistant/internal/domain"
	"nomadpi-assistant/internal/infra/metrics"
)

const maxBodySize = 64 * 1024

// Service is what the HTTP shell exposes for one service id.
type Service interface {
	Dispatch(ctx context.Context, name string, args application.Args) (any, error)
	Functions() []application.Function
	StateSources(ctx context.Context) ([]domain.Option, error)
	Switches(ctx context.Context) ([]domain.Option, error)
}

type Options struct {
	Addr           string
	AllowedOrigins []string
	RateLimit      int
	RateBurst      int
	// TrustProxy takes the client address from X-Forwarded-For and friends.
	// Leave it off unless a reverse proxy sets those headers.
	TrustProxy bool
}

type Server struct {
	opts    Options
	logger  *slog.Logger
	router  chi.Router
	limiter *RateLimiter

	mu       sync.RWMutex
	services map[string]Service
	server   *http.Server
	running  bool
}

func NewServer(opts Options, logger *slog.Logger) *Server {
	s := &Server{
		opts:     opts,
		logger:   logger,
		limiter:  NewRateLimiter(opts.RateLimit, opts.RateBurst),
		services: make(map[string]Service),
	}
	s.router = s.routes()
	return s
}

// Register exposes svc under /services/{id}.
func (s *Server) Register(id string, svc Service) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.services[id] = svc
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	if s.opts.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(s.corsOptions()))

	r.Get("/health", s.handleHealth)
	r.Handle("/metrics", metrics.Handler())

	r.Route("/services/{serviceID}", func(r chi.Router) {
		r.Use(s.limiter.Middleware)
		r.Get("/", s.handleDescribe)
		r.Get("/options/state_sources", s.handleOptions(Service.StateSources))
		r.Get("/options/switches", s.handleOptions(Service.Switches))
		r.Post("/{function}", s.handleFunction)
	})

	return r
}

func (s *Server) corsOptions() cors.Options {
	opts := cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS", "PUT", "PATCH", "DELETE"},
		AllowedHeaders:   []string{"X-Requested-With", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders:   []string{"X-Call-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	// An empty list would make cors allow every origin.
	if len(s.opts.AllowedOrigins) == 0 {
		opts.AllowOriginFunc = func(r *http.Request, origin string) bool {
			s.logger.Info("rejected request from origin", "origin", origin)
			return false
		}
	}
	return opts
}

func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	s.server = &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
		BaseContext:  func(_ net.Listener) context.Context { return ctx },
	}

	go func() {
		s.logger.Info("HTTP server starting", "addr", s.opts.Addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", "error", err)
		}
	}()

	s.running = true
	return nil
}

func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.server.Shutdown(ctx); err != nil {
		s.logger.Warn("graceful shutdown failed, forcing close", "error", err)
		if err := s.server.Close(); err != nil {
			return fmt.Errorf("closing server: %w", err)
		}
	}

	s.running = false
	return nil
}

func (s *Server) service(r *http.Request) (Service, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	svc, ok := s.services[chi.URLParam(r, "serviceID")]
	return svc, ok
}

type errorResponse struct {
	Error string `json:"error"`
}

type dataResponse struct {
	Data any `json:"data"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.service(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown service"})
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: map[string]any{
		"id":             chi.URLParam(r, "serviceID"),
		"functions":      svc.Functions(),
		"resource_types": domain.ResourceTypes(),
	}})
}

func (s *Server) handleOptions(build func(Service, context.Context) ([]domain.Option, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		svc, ok := s.service(r)
		if !ok {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown service"})
			return
		}

		options, err := build(svc, r.Context())
		if err != nil {
			s.logger.Error("building catalog", "path", r.URL.Path, "error", err)
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
			return
		}
		writeJSON(w, http.StatusOK, dataResponse{Data: options})
	}
}

func (s *Server) handleFunction(w http.ResponseWriter, r *http.Request) {
	svc, ok := s.service(r)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "unknown service"})
		return
	}

	name := chi.URLParam(r, "function")
	callID := uuid.NewString()
	w.Header().Set("X-Call-ID", callID)

	args, err := decodeArgs(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	result, err := svc.Dispatch(r.Context(), name, args)

	var unsupported *domain.UnsupportedFunctionError
	label := name
	if errors.As(err, &unsupported) {
		label = "unknown"
	}
	metrics.ObserveDispatch(label, err)

	if err != nil {
		s.writeDispatchError(w, callID, name, err)
		return
	}
	writeJSON(w, http.StatusOK, dataResponse{Data: result})
}

func decodeArgs(r *http.Request) (application.Args, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read body")
	}
	defer r.Body.Close()

	args := application.Args{}
	if len(body) == 0 {
		return args, nil
	}
	if err := json.Unmarshal(body, &args); err != nil {
		return nil, fmt.Errorf("body must be a JSON object")
	}
	return args, nil
}

func (s *Server) writeDispatchError(w http.ResponseWriter, callID, name string, err error) {
	var (
		validation  *domain.ValidationError
		unsupported *domain.UnsupportedFunctionError
	)
	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: validation.Error()})
	case errors.As(err, &unsupported):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: unsupported.Error()})
	default:
		s.logger.Error("function call failed", "call_id", callID, "function", name, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Internal Server Error"})
	}
}
