package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inspectme/internal/ai"
	"inspectme/internal/config"
	"inspectme/internal/logging"
)

func TestNewGeneratorRequiresKey(t *testing.T) {
	_, err := NewGenerator(config.Default(), logging.Discard())
	assert.Error(t, err)

	cfg := config.Default()
	cfg.OpenAIKey = "sk-test"
	gen, err := NewGenerator(cfg, logging.Discard())
	require.NoError(t, err)
	assert.IsType(t, &ai.RetryGenerator{}, gen)
}

func TestNewPipelineUsesConfiguredModels(t *testing.T) {
	cfg := config.Default()
	cfg.NormalizeModel = "norm"
	cfg.StructureModel = "struct"

	var models []string
	gen := ai.GeneratorFunc(func(ctx context.Context, p ai.Prompt) (ai.Completion, error) {
		models = append(models, p.Model)
		if p.Schema != nil {
			return ai.Completion{Text: `{"floor":"","rooms":[{"name":"Hall","floor":"","elements":[]}]}`}, nil
		}
		return ai.Completion{Text: "Hall : rien à signaler."}, nil
	})

	res, err := NewPipeline(cfg, gen, logging.Discard()).Run(context.Background(), "hall")
	require.NoError(t, err)
	assert.Equal(t, []string{"norm", "struct"}, models)
	assert.Len(t, res.Export.RoomRows, 1)
}
