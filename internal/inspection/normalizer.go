package inspection

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"inspectme/internal/ai"
)

// Normalizer turns a raw dictation transcript into a room-grouped narrative.
type Normalizer struct {
	gen    ai.TextGenerator
	model  string
	locale string
	log    logrus.FieldLogger
}

// NewNormalizer creates a normalizer. model and locale may be empty.
func NewNormalizer(gen ai.TextGenerator, model, locale string, log logrus.FieldLogger) *Normalizer {
	if locale == "" {
		locale = DefaultLocale
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Normalizer{gen: gen, model: model, locale: locale, log: log.WithField("stage", StageNormalize)}
}

// Normalize removes conversational noise, resolves corrections and
// cross-room references, and groups the result by room.
func (n *Normalizer) Normalize(ctx context.Context, raw string) (Narrative, error) {
	return n.NormalizeWithModel(ctx, raw, "")
}

// NormalizeWithModel is Normalize with a per-call model override.
func (n *Normalizer) NormalizeWithModel(ctx context.Context, raw, model string) (Narrative, error) {
	if strings.TrimSpace(raw) == "" {
		return "", stageErr(StageNormalize, ErrMissingInput, "", nil)
	}
	if model == "" {
		model = n.model
	}

	systemPrompt, userPrompt := NormalizePrompt(n.locale, raw)
	log := n.log.WithFields(logrus.Fields{"model": model, "chars": len(raw)})
	log.Info("Cleaning transcript")

	out, err := n.gen.Generate(ctx, ai.Prompt{
		Model:       model,
		System:      systemPrompt,
		User:        userPrompt,
		Temperature: 0.2,
	})
	if err != nil {
		log.WithError(err).Error("Transcript cleaning failed")
		return "", stageErr(StageNormalize, ErrUpstreamGeneration, "", err)
	}

	narrative := tidyNarrative(out.Text)
	if narrative == "" {
		log.Error("Model returned an empty narrative")
		return "", stageErr(StageNormalize, ErrUpstreamGeneration, out.Text, errEmptyResponse)
	}

	log.WithFields(logrus.Fields{
		"cleaned_chars": len(narrative),
		"rooms":         len(narrative.Blocks()),
	}).Info("Transcript cleaned")
	return narrative, nil
}
