package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bookvoice/bookvoice/internal/api"
	"github.com/bookvoice/bookvoice/internal/config"
	"github.com/bookvoice/bookvoice/internal/library"
	"github.com/bookvoice/bookvoice/internal/session"
	"github.com/bookvoice/bookvoice/internal/speech"
	"github.com/bookvoice/bookvoice/internal/summarize"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize stores.
	books, err := library.NewStore(cfg.CacheDir, cfg.SessionTTL)
	if err != nil {
		log.Error("failed to initialize book store", "error", err)
		os.Exit(1)
	}
	sessions := session.NewStore(cfg.SessionTTL)

	// Initialize summarization provider.
	var summarizer summarize.Provider
	switch cfg.SummaryProvider {
	case "anthropic":
		summarizer = summarize.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.SummaryRPM)
	default:
		summarizer = summarize.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.SummaryRPM)
	}

	// Initialize narration. Gemini is the primary voice when a Google
	// API key is present; Edge read-aloud serves as primary otherwise
	// and as the fallback either way.
	audioCache, err := speech.NewCache(cfg.CacheDir)
	if err != nil {
		log.Error("failed to initialize audio cache", "error", err)
		os.Exit(1)
	}
	edge := speech.NewEdgeTTS()
	var primary speech.Synthesizer = edge
	if cfg.GoogleAPIKey != "" {
		gemini, err := speech.NewGeminiTTS(ctx, cfg.GoogleAPIKey, cfg.GeminiTTSModel)
		if err != nil {
			log.Error("failed to initialize gemini tts", "error", err)
			os.Exit(1)
		}
		primary = gemini
	} else {
		log.Warn("GOOGLE_API_KEY not set, narration uses edge voices only")
	}
	narrator := speech.NewNarrator(primary, edge, audioCache, cfg.ChunkCharLimit, log)

	// Initialize HTTP server.
	srv := api.NewServer(books, sessions, summarizer, narrator, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		summarizer.Close()
		primary.Close()
		edge.Close()
	}()

	log.Info("starting bookvoice", "port", cfg.Port, "summary_provider", cfg.SummaryProvider)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
