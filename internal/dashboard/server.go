// Package dashboard serves the application as a local browser dashboard with a
// small JSON API for scripting.
package dashboard

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ludo-technologies/textscope/app"
	"github.com/ludo-technologies/textscope/domain"
	"github.com/ludo-technologies/textscope/service"
)

const shutdownTimeout = 5 * time.Second

// Options configures a Server.
type Options struct {
	Addr           string
	AllowedOrigins []string
	Logger         *slog.Logger
}

// Server wraps the HTTP server and the application it drives.
type Server struct {
	app      *app.Application
	html     *service.HTMLRenderer
	router   *chi.Mux
	logger   *slog.Logger
	addr     string
	origins  []string
	shutdown time.Duration
}

// NewServer builds and wires all routes.
func NewServer(application *app.Application, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	addr := opts.Addr
	if addr == "" {
		addr = domain.DefaultDashboardAddr
	}

	s := &Server{
		app:      application,
		html:     service.NewHTMLRenderer(),
		router:   chi.NewRouter(),
		logger:   logger,
		addr:     addr,
		origins:  append([]string{"http://" + addr}, opts.AllowedOrigins...),
		shutdown: shutdownTimeout,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(s.sameOrigin)

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handlePage)
	r.Post("/actions/{action}", s.handleAction)

	r.Route("/api", func(api chi.Router) {
		api.Get("/view", s.handleView)
		api.Get("/notices", s.handleNotices)
		api.Get("/history", s.handleHistory)
		api.With(middleware.AllowContentType("application/json")).Post("/events", s.handleEvent)
		api.Get("/export", s.handleExport)
		api.Post("/stats", s.handleStats)
		api.Get("/phrases", s.handlePhrases)
		api.Delete("/analyses/{id}", s.handleDelete)
	})
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpSrv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", "addr", s.addr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return domain.NewConfigError("dashboard server failed", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down dashboard")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdown)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return domain.NewConfigError("dashboard shutdown failed", err)
	}
	return nil
}

// sameOrigin rejects state-changing requests sent by a page on another
// origin. Requests without Origin and Referer come from non-browser clients
// and pass.
func (s *Server) sameOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
			return
		}
		origin := r.Header.Get("Origin")
		if origin == "" {
			if ref, err := url.Parse(r.Header.Get("Referer")); err == nil && ref.Host != "" {
				origin = ref.Scheme + "://" + ref.Host
			}
		}
		if origin != "" && origin != "http://"+r.Host && !slices.Contains(s.origins, origin) {
			s.logger.Warn("rejected cross-origin request", "origin", origin, "method", r.Method, "path", r.URL.Path)
			http.Error(w, "cross-origin request rejected", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}
