// Package config loads and validates environment variables at startup.
// Fail-fast: a malformed value stops the process with an error. Every
// credential is optional; a missing one disables the component that needs it.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the job-board service.
type Config struct {
	Port   string
	AppEnv string

	// Persistence. Empty DatabaseURL runs the service on in-memory stores.
	DatabaseURL string
	RedisURL    string
	NATSURL     string

	NATSConnTimeout  time.Duration
	OTELCollectorURL string

	// Listing
	HTTPTimeout    time.Duration
	PageSize       int
	MaxPageSize    int
	MatchThreshold float64
	CORSOrigins    []string

	// Sources
	TheirStackAPIKey  string
	TheirStackCountry string
	RapidAPIKey       string
	AdzunaAppID       string
	AdzunaAppKey      string
	AdzunaCountry     string

	// Ingestion
	IngestIntervalHours int
	IngestTerms         []string
	IngestRedFlags      []string
	IngestLocation      string

	// Collaborators
	ResendAPIKey        string
	EmailFrom           string
	GoogleClientID      string
	TrustGatewayHeaders bool
	UnidocLicenseKey    string

	// Interview prep
	GroqAPIKey    string
	OpenAIAPIKey  string
	GeminiAPIKey  string
	PrepCacheSize int
	PrepCacheTTL  time.Duration
}

// Development reports whether APP_ENV selects development mode.
func (c *Config) Development() bool { return c.AppEnv == "development" }

// Load reads an optional .env file, then the environment, and returns a
// validated Config.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	l := &loader{}
	cfg := &Config{
		Port:   l.str("PORT", "8080"),
		AppEnv: l.str("APP_ENV", "production"),

		DatabaseURL:      l.str("DATABASE_URL", ""),
		RedisURL:         l.str("REDIS_URL", ""),
		NATSURL:          l.str("NATS_URL", ""),
		NATSConnTimeout:  l.duration("NATS_CONN_TIMEOUT", 10*time.Second),
		OTELCollectorURL: l.str("OTEL_COLLECTOR_URL", ""),

		HTTPTimeout:    l.duration("HTTP_TIMEOUT", 15*time.Second),
		PageSize:       l.integer("PAGE_SIZE", 12),
		MaxPageSize:    l.integer("MAX_PAGE_SIZE", 50),
		MatchThreshold: l.float("MATCH_THRESHOLD", 10),
		CORSOrigins:    l.list("CORS_ORIGINS", nil),

		TheirStackAPIKey:  l.str("THEIRSTACK_API_KEY", ""),
		TheirStackCountry: l.str("THEIRSTACK_COUNTRY", "IN"),
		RapidAPIKey:       l.str("RAPIDAPI_KEY", ""),
		AdzunaAppID:       l.str("ADZUNA_APP_ID", ""),
		AdzunaAppKey:      l.str("ADZUNA_APP_KEY", ""),
		AdzunaCountry:     l.str("ADZUNA_COUNTRY", "in"),

		IngestIntervalHours: l.integer("INGEST_INTERVAL_HOURS", 6),
		IngestTerms:         l.list("INGEST_TERMS", []string{"Engineer", "Developer", "Analyst", "Manager", "Consultant"}),
		IngestRedFlags:      l.list("INGEST_RED_FLAGS", nil),
		IngestLocation:      l.str("INGEST_LOCATION", ""),

		ResendAPIKey:        l.str("RESEND_API_KEY", ""),
		EmailFrom:           l.str("EMAIL_FROM", "One-Click Jobs <onboarding@resend.dev>"),
		GoogleClientID:      l.str("GOOGLE_CLIENT_ID", ""),
		TrustGatewayHeaders: l.boolean("TRUST_GATEWAY_HEADERS", false),
		UnidocLicenseKey:    l.str("UNIDOC_LICENSE_API_KEY", ""),

		GroqAPIKey:    l.str("GROQ_API_KEY", ""),
		OpenAIAPIKey:  l.str("OPENAI_API_KEY", ""),
		GeminiAPIKey:  l.str("GEMINI_API_KEY", ""),
		PrepCacheSize: l.integer("PREP_CACHE_SIZE", 256),
		PrepCacheTTL:  l.duration("PREP_CACHE_TTL", 24*time.Hour),
	}
	if l.err != nil {
		return nil, l.err
	}

	switch {
	case cfg.PageSize <= 0:
		return nil, fmt.Errorf("PAGE_SIZE must be positive, got %d", cfg.PageSize)
	case cfg.MaxPageSize < cfg.PageSize:
		return nil, fmt.Errorf("MAX_PAGE_SIZE (%d) must be >= PAGE_SIZE (%d)", cfg.MaxPageSize, cfg.PageSize)
	case cfg.IngestIntervalHours <= 0:
		return nil, fmt.Errorf("INGEST_INTERVAL_HOURS must be positive, got %d", cfg.IngestIntervalHours)
	case cfg.PrepCacheSize <= 0:
		return nil, fmt.Errorf("PREP_CACHE_SIZE must be positive, got %d", cfg.PrepCacheSize)
	}

	return cfg, nil
}

// loader keeps the first parse error so Load can report it once.
type loader struct{ err error }

func (l *loader) fail(key, value string, err error) {
	if l.err == nil {
		l.err = fmt.Errorf("%s=%q: %w", key, value, err)
	}
}

func (l *loader) str(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && strings.TrimSpace(value) != "" {
		return strings.TrimSpace(value)
	}
	return defaultValue
}

func (l *loader) integer(key string, defaultValue int) int {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		l.fail(key, value, err)
		return defaultValue
	}
	return n
}

func (l *loader) float(key string, defaultValue float64) float64 {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		l.fail(key, value, err)
		return defaultValue
	}
	return f
}

func (l *loader) duration(key string, defaultValue time.Duration) time.Duration {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		l.fail(key, value, err)
		return defaultValue
	}
	return d
}

func (l *loader) boolean(key string, defaultValue bool) bool {
	value, exists := os.LookupEnv(key)
	if !exists || value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		l.fail(key, value, err)
		return defaultValue
	}
	return b
}

// list splits a comma-separated value, dropping blanks.
func (l *loader) list(key string, defaultValue []string) []string {
	value, exists := os.LookupEnv(key)
	if !exists || strings.TrimSpace(value) == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
