package ask

import (
	"context"

	"github.com/maroco/majormentor/internal/domain/facet"
	"github.com/maroco/majormentor/internal/domain/search/filter"
	"github.com/maroco/majormentor/internal/domain/search/hit"
)

// Extractor pulls academic facets out of a question.
type Extractor interface {
	Extract(question string) facet.Set
}

// Retriever fetches course documents for the question under a filter.
type Retriever interface {
	Retrieve(ctx context.Context, question string, filters filter.Node, topK int) ([]hit.Hit, error)
}

// Composer writes the final reply from the question and the retrieved
// passages.
type Composer interface {
	Compose(ctx context.Context, question string, passages []string) (string, error)
}
