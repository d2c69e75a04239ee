package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("loads default configuration", func(t *testing.T) {
		cfg, err := Load()

		assert.NoError(t, err)
		assert.NotNil(t, cfg)

		// Check server defaults
		assert.Equal(t, "0.0.0.0", cfg.Server.Host)
		assert.Equal(t, 8000, cfg.Server.Port)
		assert.Equal(t, "debug", cfg.Server.Mode)

		// Check model defaults
		assert.Equal(t, "models/RoBERTa_Optimized", cfg.Model.Path)
		assert.Equal(t, 128, cfg.Model.MaxSeqLen)

		// Check LLM defaults
		assert.Equal(t, "openai", cfg.LLM.Provider)
		assert.Equal(t, "gpt-4o-mini", cfg.LLM.Model)
		assert.Equal(t, "", cfg.LLM.APIKey)
		assert.Equal(t, 60, cfg.LLM.TimeoutSeconds)
		assert.Equal(t, "data/few_shot_examples.json", cfg.LLM.ExamplesFile)

		// Check database defaults
		assert.Equal(t, "localhost", cfg.Database.Host)
		assert.Equal(t, 5432, cfg.Database.Port)
		assert.Equal(t, "biasaudit", cfg.Database.DBName)
		assert.Equal(t, "disable", cfg.Database.SSLMode)

		// Check redis defaults
		assert.Equal(t, "localhost", cfg.Redis.Host)
		assert.Equal(t, 6379, cfg.Redis.Port)

		// Check log defaults
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "json", cfg.Log.Format)
	})

	t.Run("reads from prefixed environment variables", func(t *testing.T) {
		os.Setenv("BIASAUDIT_SERVER_PORT", "9090")
		os.Setenv("BIASAUDIT_DATABASE_HOST", "db.example.com")
		os.Setenv("BIASAUDIT_LOG_LEVEL", "debug")
		defer func() {
			os.Unsetenv("BIASAUDIT_SERVER_PORT")
			os.Unsetenv("BIASAUDIT_DATABASE_HOST")
			os.Unsetenv("BIASAUDIT_LOG_LEVEL")
		}()

		cfg, err := Load()

		assert.NoError(t, err)
		assert.Equal(t, 9090, cfg.Server.Port)
		assert.Equal(t, "db.example.com", cfg.Database.Host)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("honors the legacy environment names", func(t *testing.T) {
		os.Setenv("MODEL_PATH", "/opt/models/checkpoint")
		os.Setenv("OPENAI_API_KEY", "sk-test")
		os.Setenv("OPENAI_MODEL", "gpt-4o")
		defer func() {
			os.Unsetenv("MODEL_PATH")
			os.Unsetenv("OPENAI_API_KEY")
			os.Unsetenv("OPENAI_MODEL")
		}()

		cfg, err := Load()

		assert.NoError(t, err)
		assert.Equal(t, "/opt/models/checkpoint", cfg.Model.Path)
		assert.Equal(t, "sk-test", cfg.LLM.APIKey)
		assert.Equal(t, "gpt-4o", cfg.LLM.Model)
	})
}

func TestSetDefaults(t *testing.T) {
	cfg, err := Load()
	assert.NoError(t, err)

	// Verify sensible defaults
	assert.Greater(t, cfg.Server.Port, 0)
	assert.Greater(t, cfg.Model.MaxSeqLen, 0)
	assert.Greater(t, cfg.LLM.TimeoutSeconds, 0)
	assert.Greater(t, cfg.Database.Port, 0)
	assert.Greater(t, cfg.Redis.Port, 0)
}
