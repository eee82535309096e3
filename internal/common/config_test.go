package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "development", config.Environment)
	assert.Equal(t, 8080, config.Server.Port)
	assert.Equal(t, "localhost", config.Server.Host)
	assert.False(t, config.Server.AllowClientKey)
	assert.Equal(t, int64(300*1024*1024), config.Upload.MaxRequestBytes)
	assert.Equal(t, "memory", config.Storage.Type)
	assert.Equal(t, 4, config.Workers.Concurrency)
	assert.Equal(t, "gemini-2.5-flash", config.Gemini.Model)
	assert.Equal(t, LLMProviderGemini, config.LLM.DefaultProvider)
	assert.Equal(t, "2500ms", config.Gemini.FilePollEvery)
	assert.False(t, config.Retention.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "parecer.toml")

	content := `
environment = "production"

[server]
port = 9090
host = "0.0.0.0"

[storage]
type = "badger"

[storage.badger]
path = "/var/lib/parecer"

[gemini]
model = "gemini-2.5-pro"
search_grounding = false

[logging]
level = "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "production", config.Environment)
	assert.Equal(t, 9090, config.Server.Port)
	assert.Equal(t, "0.0.0.0", config.Server.Host)
	assert.Equal(t, "badger", config.Storage.Type)
	assert.Equal(t, "/var/lib/parecer", config.Storage.Badger.Path)
	assert.Equal(t, "gemini-2.5-pro", config.Gemini.Model)
	assert.False(t, config.Gemini.SearchGrounding)
	assert.Equal(t, "debug", config.Logging.Level)

	// Unset fields keep defaults
	assert.Equal(t, "4s", config.Gemini.RateLimit)
	assert.Equal(t, 4, config.Workers.Concurrency)
}

func TestLoadFromFile_Missing(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/parecer.toml")
	assert.Error(t, err)
}

func TestLoadFromFile_Empty(t *testing.T) {
	config, err := LoadFromFile("")
	require.NoError(t, err)
	assert.Equal(t, 8080, config.Server.Port)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PARECER_SERVER_PORT", "7070")
	t.Setenv("PARECER_GEMINI_API_KEY", "test-key-env")
	t.Setenv("PARECER_LLM_PROVIDER", "claude")
	t.Setenv("PARECER_LOG_LEVEL", "warn")

	config, err := LoadFromFile("")
	require.NoError(t, err)

	assert.Equal(t, 7070, config.Server.Port)
	assert.Equal(t, "test-key-env", config.Gemini.APIKey)
	assert.Equal(t, LLMProviderClaude, config.LLM.DefaultProvider)
	assert.Equal(t, "warn", config.Logging.Level)
}

func TestEnvOverrides_FallbackKeys(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "bare-gemini-key")
	t.Setenv("ANTHROPIC_API_KEY", "bare-anthropic-key")

	config, err := LoadFromFile("")
	require.NoError(t, err)

	assert.Equal(t, "bare-gemini-key", config.Gemini.APIKey)
	assert.Equal(t, "bare-anthropic-key", config.Claude.APIKey)
}

func TestApplyFlagOverrides(t *testing.T) {
	config := NewDefaultConfig()

	ApplyFlagOverrides(config, 3000, "127.0.0.1")
	assert.Equal(t, 3000, config.Server.Port)
	assert.Equal(t, "127.0.0.1", config.Server.Host)

	// Zero values leave config untouched
	ApplyFlagOverrides(config, 0, "")
	assert.Equal(t, 3000, config.Server.Port)
	assert.Equal(t, "127.0.0.1", config.Server.Host)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid defaults", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "invalid server port"},
		{"bad storage type", func(c *Config) { c.Storage.Type = "postgres" }, "unknown storage type"},
		{"bad provider", func(c *Config) { c.LLM.DefaultProvider = "openai" }, "unknown llm provider"},
		{"bad duration", func(c *Config) { c.Gemini.Timeout = "five minutes" }, "invalid duration"},
		{"negative upload bound", func(c *Config) { c.Upload.MaxRequestBytes = -1 }, "max_request_bytes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewDefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
