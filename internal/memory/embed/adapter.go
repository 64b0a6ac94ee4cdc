// Package embed is the Embedding Adapter component: a thin,
// dimension-checked wrapper over pkg/llm.EmbeddingProvider that turns
// transport failures into a single sentinel the orchestrator can treat as
// "no memories this turn" rather than aborting the whole reply.
package embed

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/kart-io/sentinel-x/pkg/errors"
	"github.com/kart-io/sentinel-x/pkg/llm"
)

// Adapter is the Embedding Adapter component. It delegates to whichever
// pkg/llm.EmbeddingProvider was configured (optionally the Redis-cached
// wrapper from pkg/llm/embedding_cache.go) and enforces the fixed dimension
// D that the Vector Memory Store was built with.
type Adapter struct {
	provider  llm.EmbeddingProvider
	dimension int
}

// New wraps a provider, validating every returned vector against dimension.
func New(provider llm.EmbeddingProvider, dimension int) *Adapter {
	return &Adapter{provider: provider, dimension: dimension}
}

// Embed returns a single unit-ish vector[D] for text.
func (a *Adapter) Embed(ctx context.Context, text string) ([]float32, error) {
	vec, err := a.provider.EmbedSingle(ctx, text)
	if err != nil {
		return nil, errors.ErrChatUpstreamUnavailable.WithMessage(fmt.Sprintf("embedding provider %s: %v", a.provider.Name(), err))
	}
	if len(vec) != a.dimension {
		return nil, fmt.Errorf("embedding provider %s returned dimension %d, want %d", a.provider.Name(), len(vec), a.dimension)
	}
	return vec, nil
}

// EmbedBatch returns vectors for multiple texts in one upstream call where
// the provider supports it.
func (a *Adapter) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	vecs, err := a.provider.Embed(ctx, texts)
	if err != nil {
		return nil, errors.ErrChatUpstreamUnavailable.WithMessage(fmt.Sprintf("embedding provider %s: %v", a.provider.Name(), err))
	}
	for i, vec := range vecs {
		if len(vec) != a.dimension {
			return nil, fmt.Errorf("embedding provider %s returned dimension %d at index %d, want %d", a.provider.Name(), len(vec), i, a.dimension)
		}
	}
	return vecs, nil
}

// IsUpstreamUnavailable reports whether err is the sentinel this adapter
// raises on transport failure, so callers can degrade gracefully instead of
// propagating the error.
func IsUpstreamUnavailable(err error) bool {
	return stderrors.Is(err, errors.ErrChatUpstreamUnavailable)
}
