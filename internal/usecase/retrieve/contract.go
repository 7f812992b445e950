package retrieve

import (
	"context"

	"github.com/maroco/majormentor/internal/domain"
	"github.com/maroco/majormentor/internal/domain/search/filter"
	"github.com/maroco/majormentor/internal/domain/search/hit"
)

// Searcher runs filtered vector search against the course index.
type Searcher interface {
	SearchKNN(ctx context.Context, vector []float32, filters filter.Node, topK int) ([]hit.Hit, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
