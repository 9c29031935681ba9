package batch

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/rshade/metallca/internal/lca"
)

// ErrNoScenarios is returned for a scenario file without scenarios.
var ErrNoScenarios = errors.New("scenario file contains no scenarios")

// Scenario is one named input record in a scenario file.
type Scenario struct {
	Name            string `yaml:"name" json:"name"`
	lca.InputRecord `yaml:",inline"`
}

// File is the layout of a scenario file.
type File struct {
	Scenarios []Scenario `yaml:"scenarios" json:"scenarios"`
}

// Assessor assesses a single input record.
type Assessor interface {
	Assess(ctx context.Context, input lca.InputRecord) (*lca.Assessment, error)
}

// Result is the outcome for one scenario. Exactly one of Assessment and Err is set.
type Result struct {
	Index      int
	Name       string
	Assessment *lca.Assessment
	Err        error
}

// RunOptions tunes Run. Zero values select sequential processing with
// DefaultBatchSize.
type RunOptions struct {
	Concurrency int
	BatchSize   int
	OnProgress  ProgressCallback
}

// LoadScenarios reads a YAML or JSON scenario file. Unnamed scenarios are
// named by their 1-based position.
func LoadScenarios(path string) ([]Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file %s: %w", path, err)
	}
	return ParseScenarios(data)
}

// ParseScenarios decodes scenario file contents.
func ParseScenarios(data []byte) ([]Scenario, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing scenario file: %w", err)
	}
	if len(f.Scenarios) == 0 {
		return nil, ErrNoScenarios
	}
	for i := range f.Scenarios {
		if f.Scenarios[i].Name == "" {
			f.Scenarios[i].Name = fmt.Sprintf("scenario-%d", i+1)
		}
	}
	return f.Scenarios, nil
}

// Run assesses every scenario and returns results in input order. A failing
// scenario is recorded in its Result; only cancellation aborts the run.
func Run(ctx context.Context, assessor Assessor, scenarios []Scenario, opts RunOptions) ([]Result, error) {
	batchSize := opts.BatchSize
	if batchSize == 0 {
		batchSize = DefaultBatchSize
	}
	p, err := NewProcessor[Scenario](batchSize)
	if err != nil {
		return nil, err
	}
	p.WithProgressCallback(opts.OnProgress)

	logger := zerolog.Ctx(ctx)
	results := make([]Result, len(scenarios))

	assessBatch := func(ctx context.Context, batch []Scenario, batchIndex, offset int) error {
		for i, sc := range batch {
			if err := ctx.Err(); err != nil {
				return err
			}
			idx := offset + i
			a, assessErr := assessor.Assess(ctx, sc.InputRecord)
			results[idx] = Result{Index: idx, Name: sc.Name, Assessment: a, Err: assessErr}
			if assessErr != nil {
				logger.Debug().
					Str("component", "batch").
					Str("scenario", sc.Name).
					Int("batch", batchIndex).
					Err(assessErr).
					Msg("scenario failed")
			}
		}
		return nil
	}

	if opts.Concurrency > 1 {
		err = p.ProcessConcurrent(ctx, scenarios, assessBatch, opts.Concurrency)
	} else {
		err = p.Process(ctx, scenarios, assessBatch)
	}
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Failed counts the results that carry an error.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}
