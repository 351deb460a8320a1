// Package app wires configuration into the pipeline and its collaborators.
package app

import (
	"github.com/sirupsen/logrus"

	"inspectme/internal/ai"
	"inspectme/internal/config"
	"inspectme/internal/inspection"
)

// NewGenerator returns the OpenAI-compatible generator wrapped with retries.
func NewGenerator(cfg *config.Config, log logrus.FieldLogger) (ai.TextGenerator, error) {
	gen, err := ai.NewOpenAIGenerator(cfg.OpenAIKey, cfg.OpenAIBaseURL, cfg.NormalizeModel, log.WithField("component", "openai"))
	if err != nil {
		return nil, err
	}
	return ai.WithRetry(gen, cfg.MaxRetries, cfg.RetryBackoff, log), nil
}

// NewPipeline builds the three-stage pipeline on top of gen.
func NewPipeline(cfg *config.Config, gen ai.TextGenerator, log logrus.FieldLogger) *inspection.Pipeline {
	return &inspection.Pipeline{
		Normalizer: inspection.NewNormalizer(gen, cfg.NormalizeModel, cfg.Locale, log),
		Structurer: inspection.NewStructurer(gen, cfg.StructureModel, log),
		Tabulator:  inspection.NewTabulator(),
		Log:        log.WithField("component", "pipeline"),
	}
}
