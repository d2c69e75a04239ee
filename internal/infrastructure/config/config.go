package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Model    ModelConfig
	LLM      LLMConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host string
	Port int
	Mode string
}

// ModelConfig holds local classifier settings. Path points at the exported
// adapter directory; checkpoint layouts are resolved at load time.
type ModelConfig struct {
	Path      string
	MaxSeqLen int
}

// LLMConfig holds external LLM settings shared by the few-shot and
// explanation adapters. An empty APIKey means "no credential" and the
// adapters degrade without attempting a call.
type LLMConfig struct {
	Provider       string
	Model          string
	APIKey         string
	GeminiAPIKey   string
	BaseURL        string
	TimeoutSeconds int
	ExamplesFile   string
	CacheTTLSecs   int
}

// DatabaseConfig holds PostgreSQL settings for the audit history store
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis settings for the few-shot analysis cache
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with defaults
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("BIASAUDIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Well-known names the original deployment used, kept for compatibility
	_ = v.BindEnv("model.path", "BIASAUDIT_MODEL_PATH", "MODEL_PATH")
	_ = v.BindEnv("llm.apikey", "BIASAUDIT_LLM_APIKEY", "OPENAI_API_KEY")
	_ = v.BindEnv("llm.model", "BIASAUDIT_LLM_MODEL", "OPENAI_MODEL")
	_ = v.BindEnv("llm.geminiapikey", "BIASAUDIT_LLM_GEMINIAPIKEY", "GEMINI_API_KEY")
	_ = v.BindEnv("llm.examplesfile", "BIASAUDIT_LLM_EXAMPLESFILE", "EXAMPLES_FILE")

	cfg := &Config{
		Server: ServerConfig{
			Host: v.GetString("server.host"),
			Port: v.GetInt("server.port"),
			Mode: v.GetString("server.mode"),
		},
		Model: ModelConfig{
			Path:      v.GetString("model.path"),
			MaxSeqLen: v.GetInt("model.maxseqlen"),
		},
		LLM: LLMConfig{
			Provider:       v.GetString("llm.provider"),
			Model:          v.GetString("llm.model"),
			APIKey:         v.GetString("llm.apikey"),
			GeminiAPIKey:   v.GetString("llm.geminiapikey"),
			BaseURL:        v.GetString("llm.baseurl"),
			TimeoutSeconds: v.GetInt("llm.timeoutseconds"),
			ExamplesFile:   v.GetString("llm.examplesfile"),
			CacheTTLSecs:   v.GetInt("llm.cachettlsecs"),
		},
		Database: DatabaseConfig{
			Host:     v.GetString("database.host"),
			Port:     v.GetInt("database.port"),
			User:     v.GetString("database.user"),
			Password: v.GetString("database.password"),
			DBName:   v.GetString("database.dbname"),
			SSLMode:  v.GetString("database.sslmode"),
		},
		Redis: RedisConfig{
			Host:     v.GetString("redis.host"),
			Port:     v.GetInt("redis.port"),
			Password: v.GetString("redis.password"),
			DB:       v.GetInt("redis.db"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
		},
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.mode", "debug")

	// Model defaults
	v.SetDefault("model.path", "models/RoBERTa_Optimized")
	v.SetDefault("model.maxseqlen", 128)

	// LLM defaults
	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.apikey", "")
	v.SetDefault("llm.geminiapikey", "")
	v.SetDefault("llm.baseurl", "")
	v.SetDefault("llm.timeoutseconds", 60)
	v.SetDefault("llm.examplesfile", "data/few_shot_examples.json")
	v.SetDefault("llm.cachettlsecs", 3600)

	// Database defaults
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "biasaudit")
	v.SetDefault("database.password", "biasaudit")
	v.SetDefault("database.dbname", "biasaudit")
	v.SetDefault("database.sslmode", "disable")

	// Redis defaults
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}
