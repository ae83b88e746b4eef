package batch

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Chunk size bounds.
const (
	// DefaultChunkSize matches the engine's per-call request limit.
	DefaultChunkSize = 100

	// MinChunkSize is the smallest accepted chunk.
	MinChunkSize = 1

	// MaxChunkSize is the largest accepted chunk.
	MaxChunkSize = 1000
)

// Processor errors.
var (
	ErrInvalidChunkSize = errors.New("chunk size must be between 1 and 1000")
	ErrNilCallback      = errors.New("chunk callback cannot be nil")
	ErrEmptyItems       = errors.New("items slice cannot be empty")
)

// ChunkFunc handles one chunk. offset is the index of chunk[0] in the full
// item list, so callers can place per-item results without extra bookkeeping.
type ChunkFunc[T any] func(ctx context.Context, chunk []T, offset int) error

// ProgressFunc is called after every finished chunk.
type ProgressFunc func(snap Snapshot)

// Processor walks a slice in fixed-size chunks.
type Processor[T any] struct {
	size       int
	onProgress ProgressFunc
}

// NewProcessor returns a Processor with the given chunk size.
func NewProcessor[T any](size int) (*Processor[T], error) {
	if size < MinChunkSize || size > MaxChunkSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidChunkSize, size)
	}
	return &Processor[T]{size: size}, nil
}

// NewDefaultProcessor returns a Processor using DefaultChunkSize.
func NewDefaultProcessor[T any]() *Processor[T] {
	return &Processor[T]{size: DefaultChunkSize}
}

// OnProgress registers fn to receive a Snapshot after each chunk.
func (p *Processor[T]) OnProgress(fn ProgressFunc) *Processor[T] {
	p.onProgress = fn
	return p
}

// ChunkSize returns the configured chunk size.
func (p *Processor[T]) ChunkSize() int {
	return p.size
}

// Process runs fn over each chunk in order and stops at the first error.
func (p *Processor[T]) Process(ctx context.Context, items []T, fn ChunkFunc[T]) error {
	if err := p.check(items, fn); err != nil {
		return err
	}

	progress := NewProgress(len(items), p.size)
	for i, bounds := range p.Bounds(len(items)) {
		if err := ctx.Err(); err != nil {
			return err
		}
		chunk := items[bounds[0]:bounds[1]]
		if err := fn(ctx, chunk, bounds[0]); err != nil {
			return fmt.Errorf("chunk %d failed: %w", i, err)
		}
		p.report(progress, len(chunk))
	}
	return nil
}

// ProcessConcurrent runs fn over the chunks with at most limit chunks in
// flight. Every chunk runs even when another fails; all chunk errors are
// joined into the returned error.
func (p *Processor[T]) ProcessConcurrent(ctx context.Context, items []T, fn ChunkFunc[T], limit int) error {
	if err := p.check(items, fn); err != nil {
		return err
	}

	progress := NewProgress(len(items), p.size)
	bounds := p.Bounds(len(items))
	errs := make([]error, len(bounds))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(limit, 1))
	for i, b := range bounds {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				errs[i] = err
				return nil
			}
			chunk := items[b[0]:b[1]]
			if err := fn(gCtx, chunk, b[0]); err != nil {
				errs[i] = fmt.Errorf("chunk %d failed: %w", i, err)
				return nil
			}
			p.report(progress, len(chunk))
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return err
	}
	return errors.Join(errs...)
}

// Bounds returns the [start, end) index pair of every chunk for total items.
func (p *Processor[T]) Bounds(total int) [][2]int {
	n := (total + p.size - 1) / p.size
	out := make([][2]int, n)
	for i := range n {
		start := i * p.size
		out[i] = [2]int{start, min(start+p.size, total)}
	}
	return out
}

func (p *Processor[T]) check(items []T, fn ChunkFunc[T]) error {
	if len(items) == 0 {
		return ErrEmptyItems
	}
	if fn == nil {
		return ErrNilCallback
	}
	return nil
}

func (p *Processor[T]) report(progress *Progress, n int) {
	progress.Add(n)
	if p.onProgress != nil {
		p.onProgress(progress.Snapshot())
	}
}
