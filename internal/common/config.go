package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string          `toml:"environment"` // "development" or "production"
	Server      ServerConfig    `toml:"server"`
	Upload      UploadConfig    `toml:"upload"`
	Storage     StorageConfig   `toml:"storage"`
	Workers     WorkersConfig   `toml:"workers"`
	Gemini      GeminiConfig    `toml:"gemini"`
	Claude      ClaudeConfig    `toml:"claude"`
	LLM         LLMConfig       `toml:"llm"`
	Media       MediaConfig     `toml:"media"`
	Retention   RetentionConfig `toml:"retention"`
	Logging     LoggingConfig   `toml:"logging"`
}

type ServerConfig struct {
	Port           int    `toml:"port"`
	Host           string `toml:"host"`
	AllowClientKey bool   `toml:"allow_client_key"` // Accept a per-request provider key; off by default, the server-managed secret is the trust model
}

// UploadConfig bounds multipart intake
type UploadConfig struct {
	MaxRequestBytes int64  `toml:"max_request_bytes"` // Aggregate request ceiling, rejected before the body is read
	ChunkSize       int    `toml:"chunk_size"`        // Copy block size for attachment streaming
	TempDir         string `toml:"temp_dir"`          // Directory for transient attachment files ("" = os.TempDir)
}

type StorageConfig struct {
	Type   string       `toml:"type"` // "memory" or "badger"
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig represents BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup for clean test runs
}

type WorkersConfig struct {
	Concurrency int `toml:"concurrency"` // Analysis worker pool size
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey          string  `toml:"api_key"`           // Google Gemini API key
	Model           string  `toml:"model"`             // Model for analysis (default: "gemini-2.5-flash")
	Temperature     float32 `toml:"temperature"`       // Completion temperature (default: 0.2)
	Timeout         string  `toml:"timeout"`           // Operation timeout as duration string (default: "5m")
	RateLimit       string  `toml:"rate_limit"`        // Minimum interval between calls (default: "4s" for free tier)
	SearchGrounding bool    `toml:"search_grounding"`  // Attach the GoogleSearch tool; JSON response mode is used when disabled
	FilePollEvery   string  `toml:"file_poll_every"`   // Remote file-state poll interval (default: "2500ms")
	FilePollTimeout string  `toml:"file_poll_timeout"` // Give up waiting for remote processing (default: "3m")
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key
	Model       string  `toml:"model"`       // Model for analysis (default: "claude-haiku-3-5-20241022")
	MaxTokens   int     `toml:"max_tokens"`  // Maximum tokens in response (default: 8192)
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.2)
	RateLimit   string  `toml:"rate_limit"`  // Minimum interval between calls (default: "1s")
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig selects the default provider
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider"` // "gemini" or "claude" (default: "gemini")
}

// MediaConfig controls pre-upload normalization of audio/video attachments
type MediaConfig struct {
	FFmpegPath     string `toml:"ffmpeg_path"`      // ffmpeg binary (default: "ffmpeg" on PATH)
	MaxUploadBytes int64  `toml:"max_upload_bytes"` // Attachments above this are re-encoded before provider upload
}

// RetentionConfig controls the optional terminal-job sweeper.
// Disabled by default: job records live for the process lifetime.
type RetentionConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"` // Cron schedule for the sweep
	MaxAge   string `toml:"max_age"`  // Terminal jobs older than this are removed
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// NewDefaultConfig creates a configuration with default values.
// Technical parameters are hardcoded here for production stability.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port:           8080,
			Host:           "localhost",
			AllowClientKey: false,
		},
		Upload: UploadConfig{
			MaxRequestBytes: 300 * 1024 * 1024, // 300MB aggregate ceiling
			ChunkSize:       1024 * 1024,       // 1MB copy blocks
			TempDir:         "",
		},
		Storage: StorageConfig{
			Type: "memory",
			Badger: BadgerConfig{
				Path: "./data",
			},
		},
		Workers: WorkersConfig{
			Concurrency: 4,
		},
		Gemini: GeminiConfig{
			APIKey:          "", // User must provide API key (env or config)
			Model:           "gemini-2.5-flash",
			Temperature:     0.2,
			Timeout:         "5m",
			RateLimit:       "4s", // 15 RPM free tier
			SearchGrounding: true,
			FilePollEvery:   "2500ms",
			FilePollTimeout: "3m",
		},
		Claude: ClaudeConfig{
			APIKey:      "",
			Model:       "claude-haiku-3-5-20241022",
			MaxTokens:   8192,
			Temperature: 0.2,
			RateLimit:   "1s",
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderGemini,
		},
		Media: MediaConfig{
			FFmpegPath:     "ffmpeg",
			MaxUploadBytes: 20 * 1024 * 1024, // Re-encode audio/video above 20MB
		},
		Retention: RetentionConfig{
			Enabled:  false,
			Schedule: "0 * * * *", // Hourly when enabled
			MaxAge:   "24h",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
	}
}

// LoadFromFile loads configuration with priority: defaults -> file -> env.
// An empty path loads defaults and environment overrides only.
func LoadFromFile(path string) (*Config, error) {
	if path == "" {
		return LoadFromFiles()
	}
	return LoadFromFiles(path)
}

// LoadFromFiles loads configuration from multiple files, later files
// overriding earlier ones. Priority: env > last file > ... > first file > defaults.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("PARECER_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	if port := os.Getenv("PARECER_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("PARECER_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	if max := os.Getenv("PARECER_UPLOAD_MAX_REQUEST_BYTES"); max != "" {
		if m, err := strconv.ParseInt(max, 10, 64); err == nil {
			config.Upload.MaxRequestBytes = m
		}
	}
	if dir := os.Getenv("PARECER_UPLOAD_TEMP_DIR"); dir != "" {
		config.Upload.TempDir = dir
	}

	if st := os.Getenv("PARECER_STORAGE_TYPE"); st != "" {
		config.Storage.Type = st
	}
	if path := os.Getenv("PARECER_STORAGE_BADGER_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}

	if c := os.Getenv("PARECER_WORKERS_CONCURRENCY"); c != "" {
		if n, err := strconv.Atoi(c); err == nil && n > 0 {
			config.Workers.Concurrency = n
		}
	}

	if key := os.Getenv("PARECER_GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	} else if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		config.Gemini.APIKey = key
	}
	if model := os.Getenv("PARECER_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}

	if key := os.Getenv("PARECER_CLAUDE_API_KEY"); key != "" {
		config.Claude.APIKey = key
	} else if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		config.Claude.APIKey = key
	}

	if provider := os.Getenv("PARECER_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(provider)
	}

	if level := os.Getenv("PARECER_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// ApplyFlagOverrides applies command-line flag overrides (highest priority)
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port != 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// Validate checks configuration consistency before startup
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Upload.MaxRequestBytes <= 0 {
		return fmt.Errorf("upload.max_request_bytes must be positive")
	}
	if c.Upload.ChunkSize <= 0 {
		return fmt.Errorf("upload.chunk_size must be positive")
	}
	switch c.Storage.Type {
	case "memory", "badger":
	default:
		return fmt.Errorf("unknown storage type %q (expected \"memory\" or \"badger\")", c.Storage.Type)
	}
	switch c.LLM.DefaultProvider {
	case LLMProviderGemini, LLMProviderClaude:
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.DefaultProvider)
	}
	for _, d := range []struct {
		name, val string
	}{
		{"gemini.timeout", c.Gemini.Timeout},
		{"gemini.rate_limit", c.Gemini.RateLimit},
		{"gemini.file_poll_every", c.Gemini.FilePollEvery},
		{"gemini.file_poll_timeout", c.Gemini.FilePollTimeout},
		{"claude.rate_limit", c.Claude.RateLimit},
		{"retention.max_age", c.Retention.MaxAge},
	} {
		if _, err := time.ParseDuration(d.val); err != nil {
			return fmt.Errorf("invalid duration for %s: %w", d.name, err)
		}
	}
	return nil
}
