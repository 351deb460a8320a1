package ai

import (
	"context"

	"github.com/invopop/jsonschema"
)

// Prompt is one text-generation request. System carries the fixed
// instructions, User the stage template with its input appended.
type Prompt struct {
	Model       string
	System      string
	User        string
	Temperature float32
	MaxTokens   int

	// Schema, when set, asks the backend for a JSON object matching it.
	// Backends that cannot honour it ignore it; callers must still parse
	// the response defensively.
	Schema     *jsonschema.Schema
	SchemaName string
}

// Completion is the plain text answer plus token usage when reported.
type Completion struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}

// TextGenerator is the large-language-model completion capability used by
// the normalizer and the structurer.
type TextGenerator interface {
	Generate(ctx context.Context, p Prompt) (Completion, error)
}

// GeneratorFunc adapts a function to TextGenerator.
type GeneratorFunc func(ctx context.Context, p Prompt) (Completion, error)

func (f GeneratorFunc) Generate(ctx context.Context, p Prompt) (Completion, error) {
	return f(ctx, p)
}
