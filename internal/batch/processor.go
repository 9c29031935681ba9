package batch

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultBatchSize is the number of items per batch.
	DefaultBatchSize = 25

	MinBatchSize = 1
	MaxBatchSize = 1000
)

// Processor errors.
var (
	ErrInvalidBatchSize = errors.New("batch size must be between 1 and 1000")
	ErrNilCallback      = errors.New("batch callback cannot be nil")
	ErrEmptyItems       = errors.New("items slice cannot be empty")
)

// Callback processes one batch. batchIndex is 0-based and offset is the
// index of batch[0] in the full slice.
type Callback[T any] func(ctx context.Context, batch []T, batchIndex, offset int) error

// ProgressCallback is invoked after each completed batch. ProcessConcurrent
// may invoke it from several goroutines at once.
type ProgressCallback func(ProgressSnapshot)

// Processor runs a callback over fixed-size batches of items.
type Processor[T any] struct {
	batchSize  int
	onProgress ProgressCallback
}

// NewProcessor returns a processor with the given batch size.
func NewProcessor[T any](batchSize int) (*Processor[T], error) {
	if batchSize < MinBatchSize || batchSize > MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, batchSize)
	}
	return &Processor[T]{batchSize: batchSize}, nil
}

// NewProcessorWithDefaults returns a processor using DefaultBatchSize.
func NewProcessorWithDefaults[T any]() *Processor[T] {
	return &Processor[T]{batchSize: DefaultBatchSize}
}

// WithProgressCallback sets the progress callback.
func (p *Processor[T]) WithProgressCallback(callback ProgressCallback) *Processor[T] {
	p.onProgress = callback
	return p
}

// BatchSize returns the configured batch size.
func (p *Processor[T]) BatchSize() int {
	return p.batchSize
}

// Process runs callback over each batch in order and stops at the first error.
func (p *Processor[T]) Process(ctx context.Context, items []T, callback Callback[T]) error {
	if err := p.check(items, callback); err != nil {
		return err
	}

	bounds := p.CalculateBatches(len(items))
	progress := newProgress(len(items), len(bounds), p.batchSize)

	for i, b := range bounds {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := callback(ctx, items[b[0]:b[1]], i, b[0]); err != nil {
			return fmt.Errorf("batch %d failed: %w", i, err)
		}
		p.report(progress.add(b[1] - b[0]))
	}
	return nil
}

// ProcessConcurrent runs at most maxConcurrency batches at a time. The first
// failing batch cancels the context passed to the others and its error is
// returned.
func (p *Processor[T]) ProcessConcurrent(
	ctx context.Context,
	items []T,
	callback Callback[T],
	maxConcurrency int,
) error {
	if err := p.check(items, callback); err != nil {
		return err
	}
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	bounds := p.CalculateBatches(len(items))
	progress := newProgress(len(items), len(bounds), p.batchSize)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrency)

	for i, b := range bounds {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := callback(gctx, items[b[0]:b[1]], i, b[0]); err != nil {
				return fmt.Errorf("batch %d failed: %w", i, err)
			}
			p.report(progress.add(b[1] - b[0]))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}

// CalculateBatches returns [start, end) bounds for totalItems items.
func (p *Processor[T]) CalculateBatches(totalItems int) [][2]int {
	total := (totalItems + p.batchSize - 1) / p.batchSize
	bounds := make([][2]int, total)
	for i := range total {
		start := i * p.batchSize
		bounds[i] = [2]int{start, min(start+p.batchSize, totalItems)}
	}
	return bounds
}

func (p *Processor[T]) check(items []T, callback Callback[T]) error {
	if len(items) == 0 {
		return ErrEmptyItems
	}
	if callback == nil {
		return ErrNilCallback
	}
	return nil
}

func (p *Processor[T]) report(snap ProgressSnapshot) {
	if p.onProgress != nil {
		p.onProgress(snap)
	}
}
