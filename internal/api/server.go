// Package api serves reconciliation queries over HTTP.
//
// Routes:
//
//	GET  /healthz
//	GET  /modules
//	GET  /modules/{module}/dependencies
//	GET  /modules/{module}/declared
//	GET  /modules/{module}/stats
//	GET  /modules/{module}/graph
//	GET  /modules/{module}/libraries/{coord}
//	GET  /modules/{module}/modules/*
//	POST /modules/{module}/invalidate
//	GET  /modules/{module}/reports        (when a report store is configured)
//	POST /modules/{module}/reports
//
// Module paths appear as-is in the URL, e.g. /modules/:app/declared. Every
// query goes through the engine, so a discarded store is rebuilt lazily.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/depsync/pkg/errors"
	"github.com/matzehuels/depsync/pkg/project"
	"github.com/matzehuels/depsync/pkg/reconcile"
	"github.com/matzehuels/depsync/pkg/report"
)

// ModuleLookup resolves a module path to a project module.
type ModuleLookup func(path string) (project.Module, bool)

// Config wires a Server.
type Config struct {
	Engine  *reconcile.Engine // required
	Lookup  ModuleLookup      // required
	Modules []string          // paths listed by GET /modules
	Source  string            // recorded in saved reports
	Reports report.Store      // optional
	Logger  *log.Logger       // optional
	Timeout time.Duration     // per-request timeout (default 30s)
}

// Server is an http.Handler over an Engine.
type Server struct {
	cfg    Config
	router chi.Router
}

// New builds the router.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	s := &Server{cfg: cfg}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(cfg.Timeout))
	r.Use(s.logRequests)

	r.Get("/healthz", s.health)
	r.Get("/modules", s.listModules)
	r.Route("/modules/{module}", func(r chi.Router) {
		r.Get("/dependencies", s.dependencies)
		r.Get("/declared", s.declared)
		r.Get("/stats", s.stats)
		r.Get("/graph", s.graph)
		r.Get("/libraries/{coord}", s.library)
		r.Get("/modules/*", s.moduleDependency)
		r.Post("/invalidate", s.invalidate)
		if cfg.Reports != nil {
			r.Get("/reports", s.listReports)
			r.Post("/reports", s.saveReport)
		}
	})
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.cfg.Logger.Debug("request", "method", r.Method, "path", r.URL.Path,
			"status", ww.Status(), "duration", time.Since(start).Round(time.Millisecond))
	})
}

// module resolves the {module} URL parameter or writes a 404.
func (s *Server) module(w http.ResponseWriter, r *http.Request) (project.Module, bool) {
	path, err := url.PathUnescape(chi.URLParam(r, "module"))
	if err == nil {
		err = errors.ValidateModulePath(path)
	}
	if err != nil {
		writeError(w, err)
		return nil, false
	}
	m, ok := s.cfg.Lookup(path)
	if !ok {
		writeError(w, errors.New(errors.ErrCodeModuleNotFound, "module %s not found", path))
		return nil, false
	}
	return m, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	writeJSON(w, statusFor(code), errorBody{Code: string(code), Message: errors.UserMessage(err)})
}

func statusFor(code errors.Code) int {
	switch code {
	case errors.ErrCodeNotFound, errors.ErrCodeModuleNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidPath, errors.ErrCodeMalformedCoordinate, errors.ErrCodeMalformedVersion:
		return http.StatusBadRequest
	case errors.ErrCodeAmbiguousFamily:
		return http.StatusConflict
	case errors.ErrCodeCollaborator, errors.ErrCodeNetwork:
		return http.StatusBadGateway
	case errors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
