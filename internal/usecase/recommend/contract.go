package recommend

import (
	"context"

	"github.com/maroco/majormentor/internal/domain"
	"github.com/maroco/majormentor/internal/domain/search/filter"
	"github.com/maroco/majormentor/internal/domain/search/hit"
)

// Searcher runs vector search against the major document index.
type Searcher interface {
	SearchKNN(ctx context.Context, vector []float32, filters filter.Node, topK int) ([]hit.Hit, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
