package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string

	// Auth
	BookvoiceAPIKey string

	// Summarization
	SummaryProvider string // "openai" or "anthropic"
	OpenAIAPIKey    string
	OpenAIModel     string
	AnthropicAPIKey string
	AnthropicModel  string
	SummaryRPM      int

	// Narration
	GoogleAPIKey   string
	GeminiTTSModel string
	ChunkCharLimit int
	Voices         []string

	// Storage
	CacheDir       string
	VoiceSampleDir string

	// Upload limits
	MaxUploadBytes int64

	// Session / book lifetime
	SessionTTL time.Duration

	// API rate limiting
	RequestsPerMinute int
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		BookvoiceAPIKey: os.Getenv("BOOKVOICE_API_KEY"),

		SummaryProvider: envOr("SUMMARY_PROVIDER", "openai"),
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:     envOr("OPENAI_MODEL", "gpt-4"),
		AnthropicAPIKey: os.Getenv("ANTHROPIC_API_KEY"),
		AnthropicModel:  envOr("ANTHROPIC_MODEL", "claude-sonnet-4-5-20250929"),
		SummaryRPM:      envInt("SUMMARY_RPM", 20),

		GoogleAPIKey:   os.Getenv("GOOGLE_API_KEY"),
		GeminiTTSModel: envOr("GEMINI_TTS_MODEL", "gemini-2.5-pro-preview-tts"),
		ChunkCharLimit: envInt("CHUNK_CHAR_LIMIT", 3000),
		Voices:         envList("VOICES", []string{"Zephyr", "Puck", "Leda", "Laomedeia", "Alnilam", "Sadaltager"}),

		CacheDir:       envOr("CACHE_DIR", "./cache"),
		VoiceSampleDir: envOr("VOICE_SAMPLE_DIR", "./utils/voice-samples"),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		SessionTTL: envDuration("SESSION_TTL", 1*time.Hour),

		RequestsPerMinute: envInt("REQUESTS_PER_MINUTE", 120),
	}

	if cfg.SummaryRPM <= 0 {
		cfg.SummaryRPM = 20
	}
	if cfg.ChunkCharLimit <= 0 {
		cfg.ChunkCharLimit = 3000
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = 1 * time.Hour
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 120
	}

	return cfg
}

func (c Config) Validate() error {
	if c.BookvoiceAPIKey == "" {
		return fmt.Errorf("BOOKVOICE_API_KEY is required")
	}
	switch c.SummaryProvider {
	case "openai":
		if c.OpenAIAPIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required for SUMMARY_PROVIDER=openai")
		}
	case "anthropic":
		if c.AnthropicAPIKey == "" {
			return fmt.Errorf("ANTHROPIC_API_KEY is required for SUMMARY_PROVIDER=anthropic")
		}
	default:
		return fmt.Errorf("unknown SUMMARY_PROVIDER: %s", c.SummaryProvider)
	}
	return nil
}

// IsVoice reports whether the given voice is in the configured list.
func (c Config) IsVoice(voice string) bool {
	for _, v := range c.Voices {
		if v == voice {
			return true
		}
	}
	return false
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		var out []string
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				out = append(out, part)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return fallback
}
