package fuzzy

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// minChunk keeps tiny collections from being split into many goroutines.
const minChunk = 64

// SearchParallel scores items on up to workers goroutines and returns the same
// results, in the same order, as Search. workers <= 0 means runtime.NumCPU().
// It returns ctx.Err() if ctx is cancelled before scoring finishes.
func (m *Matcher[T]) SearchParallel(ctx context.Context, query string, items []T, workers int) ([]Result[T], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	start := time.Now()
	q, ok := m.prepare(query)
	if !ok {
		return passthrough(items), nil
	}

	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	chunk := (len(items) + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}

	nChunks := (len(items) + chunk - 1) / chunk
	parts := make([][]Result[T], nChunks)

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < nChunks; i++ {
		lo := i * chunk
		hi := min(lo+chunk, len(items))
		g.Go(func() error {
			parts[i] = m.scoreRange(gctx, q, items[lo:hi], lo)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Chunks are concatenated in input order, so the stable sort in finish
	// breaks ties exactly as the sequential path does.
	var results []Result[T]
	for _, p := range parts {
		results = append(results, p...)
	}
	m.finish(results)

	m.logStats(query, Stats{
		Duration: time.Since(start),
		Scanned:  len(items),
		Matched:  len(results),
		Filtered: true,
	})
	return results, nil
}

// Generation hands out increasing ids so callers can drop results of
// superseded searches (e.g. keystroke-driven search).
type Generation struct {
	n atomic.Uint64
}

// Next starts a new generation and returns its id.
func (g *Generation) Next() uint64 {
	return g.n.Add(1)
}

// Current reports whether id is still the latest generation.
func (g *Generation) Current(id uint64) bool {
	return g.n.Load() == id
}
