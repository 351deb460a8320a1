package inspection

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"inspectme/internal/ai"
)

// Structurer parses a narrative into an inspection record.
type Structurer struct {
	gen   ai.TextGenerator
	model string
	log   logrus.FieldLogger

	// StructuredOutput sends RecordSchema with the request. The response is
	// still parsed defensively, the schema is only a hint to the backend.
	StructuredOutput bool
}

// NewStructurer creates a structurer with structured output enabled.
func NewStructurer(gen ai.TextGenerator, model string, log logrus.FieldLogger) *Structurer {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Structurer{
		gen:              gen,
		model:            model,
		log:              log.WithField("stage", StageStructure),
		StructuredOutput: true,
	}
}

// Structure asks the model for a JSON record and parses it. A global floor
// is only kept when the model reports one; it is never promoted from a room.
func (s *Structurer) Structure(ctx context.Context, narrative Narrative) (*Record, error) {
	return s.StructureWithModel(ctx, narrative, "")
}

// StructureWithModel is Structure with a per-call model override.
func (s *Structurer) StructureWithModel(ctx context.Context, narrative Narrative, model string) (*Record, error) {
	if strings.TrimSpace(string(narrative)) == "" {
		return nil, stageErr(StageStructure, ErrMissingInput, "", nil)
	}
	if model == "" {
		model = s.model
	}

	systemPrompt, userPrompt := StructurePrompt(narrative)
	p := ai.Prompt{
		Model:       model,
		System:      systemPrompt,
		User:        userPrompt,
		Temperature: 0.1,
		MaxTokens:   4096,
	}
	if s.StructuredOutput {
		p.Schema = RecordSchema()
		p.SchemaName = "inspection_record"
	}

	log := s.log.WithFields(logrus.Fields{"model": model, "chars": len(narrative)})
	log.Info("Structuring inspection data")

	out, err := s.gen.Generate(ctx, p)
	if err != nil {
		log.WithError(err).Error("Structuring request failed")
		return nil, stageErr(StageStructure, ErrUpstreamGeneration, "", err)
	}
	log.WithField("preview", truncate(out.Text, 200)).Debug("Raw structuring response")

	rec, err := ParseRecord(out.Text)
	if err != nil {
		var se *StageError
		if errors.As(err, &se) {
			log.WithField("text", se.Text).WithError(se.Err).Errorf("Could not parse structuring response: %v", se.Kind)
		}
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"rooms":    len(rec.Rooms),
		"elements": rec.ElementCount(),
		"floor":    deref(rec.Floor),
	}).Info("Inspection data structured")
	return rec, nil
}
