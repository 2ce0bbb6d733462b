package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	CORS      CORSConfig
	Log       LogConfig
	Gemini    GeminiConfig
	Assistant AssistantConfig
	Import    ImportConfig
	Export    ExportConfig
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// GeminiConfig configures the extraction collaborator client.
type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// AssistantConfig bounds what the reconciliation endpoint accepts.
type AssistantConfig struct {
	MaxAttachmentBytes int64
	AllowedMIMEs       []string
}

// ImportConfig controls the simulated classroom import.
type ImportConfig struct {
	Enabled bool
	Delay   time.Duration
}

// ExportConfig gates the agenda export endpoints.
type ExportConfig struct {
	Enabled bool
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Gemini = GeminiConfig{
		APIKey:  v.GetString("GEMINI_API_KEY"),
		Model:   v.GetString("GEMINI_MODEL"),
		BaseURL: v.GetString("GEMINI_BASE_URL"),
		Timeout: parseDuration(v.GetString("GEMINI_TIMEOUT"), 60*time.Second),
	}

	maxAttachment := v.GetInt64("ASSISTANT_MAX_ATTACHMENT_SIZE")
	if maxAttachment <= 0 {
		maxAttachment = 10 * 1024 * 1024
	}
	cfg.Assistant = AssistantConfig{
		MaxAttachmentBytes: maxAttachment,
		AllowedMIMEs:       splitAndTrim(v.GetString("ASSISTANT_ALLOWED_MIME_TYPES")),
	}

	cfg.Import = ImportConfig{
		Enabled: v.GetBool("ENABLE_CLASSROOM_IMPORT"),
		Delay:   parseDuration(v.GetString("CLASSROOM_IMPORT_DELAY"), 1500*time.Millisecond),
	}

	cfg.Export = ExportConfig{
		Enabled: v.GetBool("ENABLE_EXPORT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("GEMINI_API_KEY", "")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("GEMINI_BASE_URL", "")
	v.SetDefault("GEMINI_TIMEOUT", "60s")

	v.SetDefault("ASSISTANT_MAX_ATTACHMENT_SIZE", 10*1024*1024)
	v.SetDefault("ASSISTANT_ALLOWED_MIME_TYPES", "image/png,image/jpeg,image/webp,application/pdf")

	v.SetDefault("ENABLE_CLASSROOM_IMPORT", true)
	v.SetDefault("CLASSROOM_IMPORT_DELAY", "1500ms")

	v.SetDefault("ENABLE_EXPORT", true)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
