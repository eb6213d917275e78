package match

import (
	"context"
	"sync"
)

// Embedder is the capability the matcher needs from an embedding
// provider: a black-box text-to-vector function. Keeping it this small
// lets matching and clustering run against a deterministic fake in tests.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// CachedEmbedder memoizes embeddings per run so the same text is never
// embedded twice. Errors are not cached; a failed text is retried on the
// next request. Safe for concurrent use.
type CachedEmbedder struct {
	inner Embedder

	mu    sync.Mutex
	cache map[string][]float32
}

// NewCachedEmbedder wraps an Embedder with a per-run cache.
func NewCachedEmbedder(inner Embedder) *CachedEmbedder {
	return &CachedEmbedder{
		inner: inner,
		cache: map[string][]float32{},
	}
}

// Embed returns the cached vector for text, computing it on first use.
func (e *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	e.mu.Lock()
	if vec, ok := e.cache[text]; ok {
		e.mu.Unlock()
		return vec, nil
	}
	e.mu.Unlock()

	vec, err := e.inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.cache[text] = vec
	e.mu.Unlock()

	return vec, nil
}
