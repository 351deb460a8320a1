package inspection

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Result is everything one pipeline run produced.
type Result struct {
	Narrative Narrative `json:"cleaned_text"`
	Record    *Record   `json:"structured_data"`
	Export    Export    `json:"export"`
}

// ProgressFunc is called after each stage completes.
type ProgressFunc func(stage Stage, elapsed time.Duration)

type runOptions struct {
	progress       ProgressFunc
	normalizeModel string
	structureModel string
}

// RunOption customises a single Run.
type RunOption func(*runOptions)

// WithProgress reports stage boundaries to fn.
func WithProgress(fn ProgressFunc) RunOption {
	return func(o *runOptions) { o.progress = fn }
}

// WithModels overrides the configured models for one run. Empty values keep
// the stage default.
func WithModels(normalize, structure string) RunOption {
	return func(o *runOptions) {
		o.normalizeModel = normalize
		o.structureModel = structure
	}
}

// Pipeline chains normalize, structure and tabulate. It holds no per-run
// state and may be shared between goroutines.
type Pipeline struct {
	Normalizer *Normalizer
	Structurer *Structurer
	Tabulator  *Tabulator
	Log        logrus.FieldLogger
}

// Run executes the three stages in order. The first failure ends the run and
// is returned as a *StageError; partial results are discarded.
func (p *Pipeline) Run(ctx context.Context, raw string, opts ...RunOption) (*Result, error) {
	var o runOptions
	for _, opt := range opts {
		opt(&o)
	}
	log := p.Log
	if log == nil {
		log = logrus.StandardLogger()
	}
	done := func(stage Stage, started time.Time) {
		elapsed := time.Since(started)
		log.WithFields(logrus.Fields{"stage": stage, "elapsed": elapsed.String()}).Debug("Stage complete")
		if o.progress != nil {
			o.progress(stage, elapsed)
		}
	}

	started := time.Now()
	narrative, err := p.Normalizer.NormalizeWithModel(ctx, raw, o.normalizeModel)
	if err != nil {
		return nil, err
	}
	done(StageNormalize, started)

	started = time.Now()
	rec, err := p.Structurer.StructureWithModel(ctx, narrative, o.structureModel)
	if err != nil {
		return nil, err
	}
	done(StageStructure, started)

	started = time.Now()
	tab := p.Tabulator
	if tab == nil {
		tab = NewTabulator()
	}
	export := tab.Tabulate(rec)
	done(StageTabulate, started)

	return &Result{Narrative: narrative, Record: rec, Export: export}, nil
}
