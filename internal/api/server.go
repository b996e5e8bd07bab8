package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"sjsage522/adscraper/internal/crawler"
	"sjsage522/adscraper/logger"
	"sjsage522/adscraper/services/session"
)

// Runner performs a scrape run for a session
type Runner interface {
	Run(ctx context.Context, sessionID, baseURL string, pages int) (*crawler.Result, error)
	MaxPages() int
}

// Options configures the HTTP shell
type Options struct {
	// TargetURL is used when a scrape request leaves the URL empty
	TargetURL      string
	AllowedOrigins []string
	// SecureCookie marks the session cookie Secure
	SecureCookie bool
}

type Server struct {
	router   *chi.Mux
	runner   Runner
	sessions session.Store
	opts     Options
	log      *logger.Logger
}

func NewServer(runner Runner, sessions session.Store, opts Options) *Server {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}

	s := &Server{
		router:   chi.NewRouter(),
		runner:   runner,
		sessions: sessions,
		opts:     opts,
		log:      logger.ForServer(),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	}))

	s.router.Get("/health", s.handleHealth)

	s.router.Group(func(r chi.Router) {
		r.Use(s.withSession)

		r.Get("/", s.handleHome)
		r.Post("/scrape", s.handleScrape)
		r.Get("/listings", s.handleListings)
		r.Delete("/listings", s.handleResetListings)
		r.Get("/export.csv", s.handleExportCSV)
		r.Get("/export.json", s.handleExportJSON)
		r.Get("/dashboard", s.handleDashboard)
	})
}

func (s *Server) Router() http.Handler {
	return s.router
}

// requestLogger logs each request through zerolog
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("request_id", middleware.GetReqID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("elapsed", time.Since(start)).
			Msg("HTTP request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(response)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
