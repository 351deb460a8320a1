package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{
	"INSPECTME_CONFIG", "PORT", "OPENAI_API_KEY", "OPENAI_BASE_URL", "NORMALIZE_MODEL",
	"STRUCTURE_MODEL", "INSPECTION_LOCALE", "LLM_MAX_RETRIES", "LLM_RETRY_BACKOFF",
	"REQUEST_TIMEOUT", "STT_PROVIDER", "WHISPER_LOCAL_URL", "STT_LANGUAGE", "DATABASE_URL",
	"UPLOAD_DIR", "LOG_LEVEL", "LOG_FORMAT",
}

func clearEnv(t *testing.T) {
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryBackoff)
	assert.Equal(t, STTProviderOpenAI, cfg.STTProvider)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "inspectme.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: "9000"
structure_model: gpt-4o
llm_retry_backoff: 2s
stt_provider: local
whisper_local_url: http://whisper:8000
`), 0o600))

	t.Setenv("INSPECTME_CONFIG", path)
	t.Setenv("PORT", "9100")
	t.Setenv("LLM_MAX_RETRIES", "0")
	t.Setenv("REQUEST_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "gpt-4o", cfg.StructureModel)
	assert.Equal(t, "gpt-4o-mini", cfg.NormalizeModel)
	assert.Equal(t, 2*time.Second, cfg.RetryBackoff)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 0, cfg.MaxRetries)
	assert.Equal(t, STTProviderLocal, cfg.STTProvider)
	assert.Equal(t, "http://whisper:8000", cfg.WhisperLocalURL)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"LLM_MAX_RETRIES":   "-1",
		"LLM_RETRY_BACKOFF": "soon",
		"REQUEST_TIMEOUT":   "0s",
		"STT_PROVIDER":      "fpt",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("INSPECTME_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	_, err := Load()
	assert.Error(t, err)
}
