package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// STT providers understood by the transcription factory.
const (
	STTProviderOpenAI = "openai"
	STTProviderLocal  = "local"
)

type Config struct {
	Port string `yaml:"port"`

	OpenAIKey      string `yaml:"openai_api_key"`
	OpenAIBaseURL  string `yaml:"openai_base_url"`
	NormalizeModel string `yaml:"normalize_model"`
	StructureModel string `yaml:"structure_model"`
	Locale         string `yaml:"inspection_locale"`

	MaxRetries     int           `yaml:"llm_max_retries"`
	RetryBackoff   time.Duration `yaml:"llm_retry_backoff"`
	RequestTimeout time.Duration `yaml:"request_timeout"`

	STTProvider     string `yaml:"stt_provider"`
	WhisperLocalURL string `yaml:"whisper_local_url"`
	STTLanguage     string `yaml:"stt_language"`

	DatabaseURL string `yaml:"database_url"`
	UploadDir   string `yaml:"upload_dir"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Port:            "8080",
		NormalizeModel:  "gpt-4o-mini",
		StructureModel:  "gpt-4o-mini",
		Locale:          "fr-FR",
		MaxRetries:      2,
		RetryBackoff:    500 * time.Millisecond,
		RequestTimeout:  120 * time.Second,
		STTProvider:     STTProviderOpenAI,
		WhisperLocalURL: "http://localhost:8000",
		STTLanguage:     "fr",
		UploadDir:       "uploads",
		LogLevel:        "info",
		LogFormat:       "text",
	}
}

// Load loads configuration from environment variables. When INSPECTME_CONFIG
// names a YAML file its values are applied first and the environment
// overrides them.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("INSPECTME_CONFIG"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) loadEnv() error {
	c.Port = getEnv("PORT", c.Port)
	c.OpenAIKey = getEnv("OPENAI_API_KEY", c.OpenAIKey)
	c.OpenAIBaseURL = getEnv("OPENAI_BASE_URL", c.OpenAIBaseURL)
	c.NormalizeModel = getEnv("NORMALIZE_MODEL", c.NormalizeModel)
	c.StructureModel = getEnv("STRUCTURE_MODEL", c.StructureModel)
	c.Locale = getEnv("INSPECTION_LOCALE", c.Locale)
	c.STTProvider = getEnv("STT_PROVIDER", c.STTProvider)
	c.WhisperLocalURL = getEnv("WHISPER_LOCAL_URL", c.WhisperLocalURL)
	c.STTLanguage = getEnv("STT_LANGUAGE", c.STTLanguage)
	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.UploadDir = getEnv("UPLOAD_DIR", c.UploadDir)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.LogFormat = getEnv("LOG_FORMAT", c.LogFormat)

	if v := os.Getenv("LLM_MAX_RETRIES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LLM_MAX_RETRIES must be an integer, got %q", v)
		}
		c.MaxRetries = n
	}
	var err error
	if c.RetryBackoff, err = parseDuration("LLM_RETRY_BACKOFF", os.Getenv("LLM_RETRY_BACKOFF"), c.RetryBackoff); err != nil {
		return err
	}
	if c.RequestTimeout, err = parseDuration("REQUEST_TIMEOUT", os.Getenv("REQUEST_TIMEOUT"), c.RequestTimeout); err != nil {
		return err
	}
	return nil
}

// Validate checks value ranges. The OpenAI key is not required here: the
// server still serves export and history without it.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT must not be empty")
	}
	if c.MaxRetries < 0 {
		return fmt.Errorf("LLM_MAX_RETRIES must be >= 0, got %d", c.MaxRetries)
	}
	if c.RetryBackoff < 0 {
		return fmt.Errorf("LLM_RETRY_BACKOFF must not be negative")
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	switch c.STTProvider {
	case STTProviderOpenAI, STTProviderLocal:
	default:
		return fmt.Errorf("unknown STT_PROVIDER %q (want %s or %s)", c.STTProvider, STTProviderOpenAI, STTProviderLocal)
	}
	if c.STTProvider == STTProviderLocal && c.WhisperLocalURL == "" {
		return fmt.Errorf("WHISPER_LOCAL_URL is required when STT_PROVIDER=local")
	}
	return nil
}

func parseDuration(key, raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration such as 500ms or 2m, got %q", key, raw)
	}
	return d, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
