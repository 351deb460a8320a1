package stt

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"inspectme/internal/config"
)

// CreateProvider creates an STT provider based on configuration
func CreateProvider(cfg *config.Config, log logrus.FieldLogger) (Provider, error) {
	log = log.WithField("component", "stt")

	switch cfg.STTProvider {
	case config.STTProviderOpenAI:
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for the %s STT provider", cfg.STTProvider)
		}
		log.Info("Creating OpenAI Whisper provider")
		return NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.STTLanguage, log), nil
	case config.STTProviderLocal:
		log.WithField("url", cfg.WhisperLocalURL).Info("Creating local Whisper provider")
		return NewLocalProvider(cfg.WhisperLocalURL, log), nil
	default:
		return nil, fmt.Errorf("unsupported STT provider: %s. Supported: openai, local", cfg.STTProvider)
	}
}
