package config

import (
	"log"
	"os"
	"time"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

type Config struct {
	Mode Mode

	Port string

	// Gemini access: either an API key (local) or a Vertex project (gcp).
	GeminiAPIKey string
	GCPProjectID string
	GCPLocation  string

	// Model identifiers per concern.
	ProModel       string
	FlashModel     string
	TitleModel     string
	EmbeddingModel string

	StorageBackend string // "memory" or "sqlite"
	SQLitePath     string

	// Static bearer tokens for local mode, "token=user,token=user".
	AuthTokens string

	// Endpoint of the external vector-search RPC. Empty disables retrieval.
	VectorSearchURL string
	VectorSearchKey string

	// Published docs backing the agent tools. An empty URL disables the
	// corresponding tool.
	StatsSheetURL   string
	FAQDocURL       string
	InterviewDocURL string
	VolunteerDocURL string

	// Delay before the citation self-heal re-reads the latest assistant
	// message.
	SourcePatchDelay time.Duration

	UseMockLLM bool
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	return v == "1" || v == "true" || v == "TRUE"
}

// Load reads all env vars and builds the config.
func Load() *Config {
	var mode Mode
	switch getEnv("EDEN_MODE", "local") {
	case "gcp":
		mode = ModeGCP
	default:
		mode = ModeLocal
	}

	cfg := &Config{
		Mode: mode,

		Port: getEnv("EDEN_PORT", "8080"),

		GeminiAPIKey: getEnv("EDEN_GEMINI_API_KEY", ""),
		GCPProjectID: getEnv("EDEN_GCP_PROJECT", ""),
		GCPLocation:  getEnv("EDEN_GCP_LOCATION", "us-central1"),

		ProModel:       getEnv("EDEN_PRO_MODEL", "gemini-3-pro-preview"),
		FlashModel:     getEnv("EDEN_FLASH_MODEL", "gemini-2.5-flash"),
		TitleModel:     getEnv("EDEN_TITLE_MODEL", "gemini-2.0-flash-exp"),
		EmbeddingModel: getEnv("EDEN_EMBEDDING_MODEL", "text-embedding-004"),

		StorageBackend: getEnv("EDEN_STORAGE_BACKEND", "memory"),
		SQLitePath:     getEnv("EDEN_SQLITE_PATH", "eden.db"),

		AuthTokens: getEnv("EDEN_AUTH_TOKENS", ""),

		VectorSearchURL: getEnv("EDEN_VECTOR_SEARCH_URL", ""),
		VectorSearchKey: getEnv("EDEN_VECTOR_SEARCH_KEY", ""),

		StatsSheetURL:   getEnv("EDEN_STATS_SHEET_URL", ""),
		FAQDocURL:       getEnv("EDEN_FAQ_DOC_URL", ""),
		InterviewDocURL: getEnv("EDEN_INTERVIEW_DOC_URL", ""),
		VolunteerDocURL: getEnv("EDEN_VOLUNTEER_DOC_URL", ""),

		SourcePatchDelay: 500 * time.Millisecond,

		UseMockLLM: getBoolEnv("EDEN_USE_MOCK_LLM", mode == ModeLocal),
	}

	if cfg.Mode == ModeGCP && cfg.GCPProjectID == "" {
		log.Fatal("EDEN_GCP_PROJECT must be set in gcp mode")
	}

	return cfg
}
