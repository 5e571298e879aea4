package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/bookvoice/bookvoice/internal/config"
	"github.com/bookvoice/bookvoice/internal/library"
	"github.com/bookvoice/bookvoice/internal/session"
	"github.com/bookvoice/bookvoice/internal/speech"
	"github.com/bookvoice/bookvoice/internal/summarize"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

// Server is the HTTP API server for bookvoice.
type Server struct {
	router     chi.Router
	books      *library.Store
	sessions   *session.Store
	summarizer summarize.Provider
	narrator   *speech.Narrator
	log        *slog.Logger
	cfg        config.Config
}

// NewServer creates and configures the HTTP server.
func NewServer(books *library.Store, sessions *session.Store, summarizer summarize.Provider, narrator *speech.Narrator, log *slog.Logger, cfg config.Config) *Server {
	s := &Server{
		books:      books,
		sessions:   sessions,
		summarizer: summarizer,
		narrator:   narrator,
		log:        log,
		cfg:        cfg,
	}
	s.setupRoutes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupRoutes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestLogger(s.log))

	// Public endpoints.
	r.Get("/health", s.handleHealth)

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(s.cfg.RequestsPerMinute, time.Minute))
		r.Use(AuthMiddleware(s.cfg.BookvoiceAPIKey, s.log))

		r.Post("/api/books", s.handleUpload)
		r.Delete("/api/books/{bookID}", s.handleDeleteBook)

		r.Get("/api/books/{bookID}/toc", s.handleTOC)
		r.Get("/api/books/{bookID}/toc/flat", s.handleTOCFlat)
		r.Get("/api/books/{bookID}/pages/{page}", s.handlePage)

		r.Post("/api/books/{bookID}/select", s.handleSelect)
		r.Get("/api/books/{bookID}/section", s.handleSection)
		r.Post("/api/books/{bookID}/summary", s.handleSummary)
		r.Post("/api/books/{bookID}/narrate", s.handleNarrate)

		r.Get("/api/books/{bookID}/bookmarks", s.handleListBookmarks)
		r.Post("/api/books/{bookID}/bookmarks", s.handleAddBookmark)

		r.Get("/api/voices", s.handleVoices)
		r.Get("/api/stats/llm", s.handleLLMStats)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
