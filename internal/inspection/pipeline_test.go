package inspection

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const dictation = `Bonjour, on commence. Euh, troisième étage. Cuisine, sol en carrelage... ah non pardon, c'est du parquet.
Mur A plâtre peint. Ensuite le salon, les murs c'est comme la cuisine. Plafond béton.`

const cleaned = "Cuisine : sol en parquet, mur A en plâtre avec peinture.\n\nSalon : murs en plâtre avec peinture, plafond en béton."

const structured = `{
  "floor": "3ème étage",
  "rooms": [
    {"name": "Cuisine", "floor": "", "elements": [
      {"type": "Sol", "substrate": "Parquet", "covering": ""},
      {"type": "Mur - A", "substrate": "Plâtre", "covering": "Peinture"}
    ]},
    {"name": "Salon", "floor": "", "elements": [
      {"type": "Mur", "substrate": "Plâtre", "covering": "Peinture"},
      {"type": "Plafond", "substrate": "Béton", "covering": ""}
    ]}
  ]
}`

func newTestPipeline(gen *scripted) *Pipeline {
	return &Pipeline{
		Normalizer: NewNormalizer(gen, "norm-model", "fr-FR", quiet()),
		Structurer: NewStructurer(gen, "struct-model", quiet()),
		Tabulator:  &Tabulator{Keys: &counterKeys{}},
		Log:        quiet(),
	}
}

func TestPipelineRun(t *testing.T) {
	gen := &scripted{answers: []string{cleaned, structured}}
	p := newTestPipeline(gen)

	var stages []Stage
	res, err := p.Run(context.Background(), dictation, WithProgress(func(s Stage, _ time.Duration) {
		stages = append(stages, s)
	}))
	require.NoError(t, err)

	assert.Equal(t, []Stage{StageNormalize, StageStructure, StageTabulate}, stages)
	assert.Equal(t, Narrative(cleaned), res.Narrative)
	assert.Len(t, res.Narrative.Blocks(), 2)

	require.Len(t, res.Record.Rooms, 2)
	kitchen := res.Record.Rooms[0]
	assert.Equal(t, "Parquet", kitchen.Elements[0].Substrate, "correction wins over the first statement")
	assert.Equal(t, "Plâtre", res.Record.Rooms[1].Elements[0].Substrate, "reference resolved to the kitchen walls")

	require.Len(t, res.Export.RoomRows, 2)
	for _, row := range res.Export.RoomRows {
		assert.Equal(t, "3ème étage", row.Building, "rooms inherit the record floor")
	}
	require.Len(t, res.Export.DescriptionRows, 4)
	assert.Equal(t, "3ème étage - Cuisine", res.Export.DescriptionRows[0].Location)
	assert.Equal(t, "Substrate: Parquet", res.Export.DescriptionRows[0].Information)
	assert.Equal(t, "Substrate: Plâtre - Covering: Peinture", res.Export.DescriptionRows[1].Information)
	assert.Equal(t, "00003", res.Export.DescriptionRows[3].Index)

	require.Len(t, gen.prompts, 2)
	assert.Equal(t, "norm-model", gen.prompts[0].Model)
	assert.Equal(t, "struct-model", gen.prompts[1].Model)
	assert.Contains(t, gen.prompts[1].User, cleaned, "structurer sees the normalized narrative")
}

func TestPipelineModelOverrides(t *testing.T) {
	gen := &scripted{answers: []string{cleaned, structured}}
	_, err := newTestPipeline(gen).Run(context.Background(), dictation, WithModels("a", ""))
	require.NoError(t, err)
	assert.Equal(t, "a", gen.prompts[0].Model)
	assert.Equal(t, "struct-model", gen.prompts[1].Model)
}

func TestPipelineStopsAtFirstFailure(t *testing.T) {
	gen := &scripted{answers: []string{cleaned, "Désolé, je ne peux pas."}}
	var stages []Stage
	res, err := newTestPipeline(gen).Run(context.Background(), dictation, WithProgress(func(s Stage, _ time.Duration) {
		stages = append(stages, s)
	}))

	assert.Nil(t, res)
	assert.ErrorIs(t, err, ErrNoJSONFound)
	var se *StageError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StageStructure, se.Stage)
	assert.Equal(t, []Stage{StageNormalize}, stages)
}

func TestPipelineNormalizeFailureSkipsStructure(t *testing.T) {
	gen := &scripted{errs: []error{errors.New("timeout")}}
	_, err := newTestPipeline(gen).Run(context.Background(), dictation)
	assert.ErrorIs(t, err, ErrUpstreamGeneration)
	assert.Len(t, gen.prompts, 1)
}

func TestPipelineEmptyTranscript(t *testing.T) {
	gen := &scripted{}
	_, err := newTestPipeline(gen).Run(context.Background(), "")
	assert.ErrorIs(t, err, ErrMissingInput)
	assert.Empty(t, gen.prompts)
}

func TestPipelineDefaultTabulator(t *testing.T) {
	gen := &scripted{answers: []string{cleaned, structured}}
	p := newTestPipeline(gen)
	p.Tabulator = nil
	res, err := p.Run(context.Background(), dictation)
	require.NoError(t, err)
	assert.NotEmpty(t, res.Export.RoomRows[0].ComponentKey)
}
