package inspection

import (
	"errors"
	"fmt"
)

// Stage identifies one step of the pipeline.
type Stage string

const (
	StageNormalize Stage = "normalize"
	StageStructure Stage = "structure"
	StageTabulate  Stage = "tabulate"
)

// Failure kinds. Match them with errors.Is on any error returned by a stage.
var (
	ErrMissingInput       = errors.New("missing input")
	ErrUpstreamGeneration = errors.New("upstream generation failed")
	ErrNoJSONFound        = errors.New("no JSON object found in response")
	ErrMalformedJSON      = errors.New("malformed JSON in response")

	errEmptyResponse = errors.New("empty response")
)

// StageError reports a terminal failure of one stage. Text holds the raw or
// extracted text that caused it, untruncated, so callers can surface it.
type StageError struct {
	Stage Stage
	Kind  error
	Text  string
	Err   error
}

func (e *StageError) Error() string {
	msg := fmt.Sprintf("%s: %v", e.Stage, e.Kind)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Text != "" {
		msg += fmt.Sprintf(" (text: %q)", truncate(e.Text, 500))
	}
	return msg
}

func (e *StageError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func stageErr(stage Stage, kind error, text string, cause error) *StageError {
	return &StageError{Stage: stage, Kind: kind, Text: text, Err: cause}
}

// truncate truncates s to at most maxLen bytes without splitting a rune.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	cut := maxLen
	for cut > 0 && !isRuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
