package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inspectme/internal/ai"
	"inspectme/internal/config"
	"inspectme/internal/export"
)

func execute(t *testing.T, gen ai.TextGenerator, args ...string) (string, error) {
	t.Helper()
	t.Setenv("STT_PROVIDER", "")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("INSPECTME_CONFIG", "")

	root := newRootCmd(func(*config.Config, logrus.FieldLogger) (ai.TextGenerator, error) { return gen, nil })
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	transcript := filepath.Join(dir, "visite.txt")
	require.NoError(t, os.WriteFile(transcript, []byte("bureau euh sol parquet"), 0o644))

	gen := ai.GeneratorFunc(func(ctx context.Context, p ai.Prompt) (ai.Completion, error) {
		if p.Schema != nil {
			return ai.Completion{Text: `{"floor":"1er étage","rooms":[{"name":"Bureau","floor":"","elements":[{"type":"Sol","substrate":"Parquet","covering":""}]}]}`}, nil
		}
		return ai.Completion{Text: "Bureau : sol en parquet."}, nil
	})

	out := filepath.Join(dir, "out")
	stdout, err := execute(t, gen, "run", transcript, "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 rooms, 1 elements")
	assert.Contains(t, stdout, "Bureau")

	for _, name := range []string{"cleaned.txt", "record.json", export.RoomFile, export.DescriptionFile} {
		_, err := os.Stat(filepath.Join(out, name))
		assert.NoError(t, err, name)
	}
	cleaned, err := os.ReadFile(filepath.Join(out, "cleaned.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Bureau : sol en parquet.\n", string(cleaned))
}

func TestRunCommandReportsStageFailure(t *testing.T) {
	dir := t.TempDir()
	transcript := filepath.Join(dir, "visite.txt")
	require.NoError(t, os.WriteFile(transcript, []byte("   "), 0o644))

	_, err := execute(t, ai.GeneratorFunc(func(ctx context.Context, p ai.Prompt) (ai.Completion, error) {
		return ai.Completion{Text: "x"}, nil
	}), "run", transcript, "--out", dir)
	assert.ErrorContains(t, err, "missing input")
}

func TestTabulateCommand(t *testing.T) {
	dir := t.TempDir()
	record := filepath.Join(dir, "record.json")
	require.NoError(t, os.WriteFile(record, []byte(`{"floor":null,"rooms":[{"name":"Cave","floor":"Sous-sol","elements":[{"type":"Sol","substrat":"Béton"}]}]}`), 0o644))

	stdout, err := execute(t, nil, "tabulate", record, "-o", dir)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Cave")
	assert.Contains(t, stdout, "Sous-sol")
	_, err = os.Stat(filepath.Join(dir, export.DescriptionFile))
	assert.NoError(t, err)

	require.NoError(t, os.WriteFile(record, []byte(`{"floor":null}`), 0o644))
	_, err = execute(t, nil, "tabulate", record, "-o", dir)
	assert.Error(t, err)
}

func TestSchemaCommand(t *testing.T) {
	stdout, err := execute(t, nil, "schema")
	require.NoError(t, err)
	var schema map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &schema))
	assert.Equal(t, "InspectionRecord", schema["title"])
}
