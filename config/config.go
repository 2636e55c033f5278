package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full configuration surface consumed by the core,
// read from the environment once at startup.
type Config struct {
	ListenAddr string

	// Similarity index
	StoreBackend string // "postgres" or "memory"
	PGHost       string
	PGPort       int
	PGUser       string
	PGPass       string
	PGDBName     string

	// Embeddings
	EmbedBackend string // "ollama" or "openai"
	EmbedModel   string
	EmbedURL     string
	EmbedDim     int
	EmbedAPIKey  string

	// Chunking
	ChunkSize      int
	OverlapPercent int

	// Retrieval
	TopK int

	// Generation providers; a provider joins the ladder only when its key
	// is configured
	MaxRetryRounds   int
	GroqAPIKey       string
	GroqModel        string
	GeminiAPIKey     string
	GeminiModel      string
	SarvamAPIKey     string
	SarvamModel      string
	OpenRouterAPIKey string
	OpenRouterModels []string

	// Auth: "token:owner" pairs, comma separated
	AuthTokens map[string]string

	// Ingest watcher
	SourceDir      string
	ArchiveDir     string
	BadDir         string
	IngestOwner    string
	MonitoringTime time.Duration
	CropTop        float64 // points trimmed from each PDF page, 0 disables
	CropBottom     float64
}

func Load() Config {
	return Config{
		ListenAddr: getEnv("SERVER_ADDR", ":8080"),

		StoreBackend: getEnv("STORE_BACKEND", "postgres"),
		PGHost:       getEnv("PG_HOST", "localhost"),
		PGPort:       getEnvInt("PG_PORT", 5432),
		PGUser:       getEnv("PG_USER", "postgres"),
		PGPass:       getEnv("PG_PASS", "postgres"),
		PGDBName:     getEnv("PG_DB_NAME", "docsum"),

		EmbedBackend: getEnv("EMBED_BACKEND", "ollama"),
		EmbedModel:   getEnv("EMBED_MODEL", "nomic-embed-text"),
		EmbedURL:     getEnv("EMBED_URL", "http://localhost:11434/api/embeddings"),
		EmbedDim:     getEnvInt("EMBED_DIM", 768),
		EmbedAPIKey:  os.Getenv("OPENAI_API_KEY"),

		ChunkSize:      getEnvInt("CHUNK_SIZE", 500),
		OverlapPercent: getEnvInt("CHUNK_OVERLAP", 50),

		TopK: getEnvInt("TOP_K", 5),

		MaxRetryRounds:   getEnvInt("MAX_RETRY_ROUNDS", 3),
		GroqAPIKey:       os.Getenv("GROQ_API_KEY"),
		GroqModel:        getEnv("GROQ_MODEL", "llama-3.1-8b-instant"),
		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		SarvamAPIKey:     os.Getenv("SARVAM_API_KEY"),
		SarvamModel:      getEnv("SARVAM_MODEL", "sarvam-m"),
		OpenRouterAPIKey: os.Getenv("OPENROUTER_API_KEY"),
		OpenRouterModels: splitList(os.Getenv("OPENROUTER_MODELS")),

		AuthTokens: parsePairs(os.Getenv("AUTH_TOKENS")),

		SourceDir:      getEnv("LOADER_SOURCE_DIR", "uploads"),
		ArchiveDir:     getEnv("LOADER_ARCHIVE_DIR", "archive"),
		BadDir:         getEnv("LOADER_BAD_DIR", "bad"),
		IngestOwner:    getEnv("LOADER_OWNER", "local"),
		MonitoringTime: getEnvDuration("LOADER_MONITORING_TIME", 3*time.Second),
		CropTop:        getEnvFloat("LOADER_CROP_TOP", 0),
		CropBottom:     getEnvFloat("LOADER_CROP_BOTTOM", 0),
	}
}

// PostgresDSN assembles the connection string the way the storage layer expects it.
func (c Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		c.PGHost, c.PGPort, c.PGUser, c.PGPass, c.PGDBName)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parsePairs(s string) map[string]string {
	pairs := make(map[string]string)
	for _, item := range splitList(s) {
		if k, v, ok := strings.Cut(item, ":"); ok {
			pairs[k] = v
		}
	}
	return pairs
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
