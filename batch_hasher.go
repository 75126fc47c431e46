package lmt

import (
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// minRecordsPerWorker keeps tiny batches off the worker pool; below this the
// goroutine overhead outweighs the hashing.
const minRecordsPerWorker = 256

var _ Hasher = (*ParallelHasher)(nil)

// ParallelHasher splits a batch into contiguous record ranges and hashes
// them concurrently with the wrapped Hasher. Digests are identical to the
// ones the wrapped Hasher produces for the whole batch.
type ParallelHasher struct {
	base       Hasher
	maxWorkers int
}

// NewParallelHasher wraps h. A non-positive workers value uses
// runtime.NumCPU().
func NewParallelHasher(h Hasher, workers int) *ParallelHasher {
	if p, ok := h.(*ParallelHasher); ok {
		h = p.base
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &ParallelHasher{base: h, maxWorkers: workers}
}

// Name returns the wrapped hasher's name, so schedules built from either
// fingerprint the same.
func (p *ParallelHasher) Name() string { return p.base.Name() }

func (p *ParallelHasher) InputSize() int { return p.base.InputSize() }

func (p *ParallelHasher) Size() int { return p.base.Size() }

// Unwrap returns the wrapped Hasher.
func (p *ParallelHasher) Unwrap() Hasher { return p.base }

// Hash implements Hasher.
func (p *ParallelHasher) Hash(in, out []byte) error {
	n, err := ValidateBatch(p, in, out)
	if err != nil {
		return err
	}

	workers := p.maxWorkers
	if limit := n / minRecordsPerWorker; workers > limit {
		workers = limit
	}
	// For small batches, use serial processing to avoid goroutine overhead
	if workers <= 1 {
		return p.base.Hash(in, out)
	}

	inSize, outSize := p.base.InputSize(), p.base.Size()
	per := (n + workers - 1) / workers

	var g errgroup.Group
	g.SetLimit(workers)
	for start := 0; start < n; start += per {
		end := start + per
		if end > n {
			end = n
		}
		g.Go(func() error {
			if err := p.base.Hash(in[start*inSize:end*inSize], out[start*outSize:end*outSize]); err != nil {
				return fmt.Errorf("batch hash of records [%d, %d) failed: %w", start, end, err)
			}
			return nil
		})
	}
	return g.Wait()
}
