package chi

import (
	"context"

	"github.com/maroco/majormentor/internal/domain"
	"github.com/maroco/majormentor/internal/domain/facet"
	"github.com/maroco/majormentor/internal/domain/search/filter"
	"github.com/maroco/majormentor/internal/domain/search/hit"
)

type mockExtractor struct {
	facets facet.Set
}

func (m *mockExtractor) Extract(question string) facet.Set { return m.facets }

type mockRetriever struct {
	hits []hit.Hit
	err  error
}

func (m *mockRetriever) Retrieve(
	ctx context.Context, question string, filters filter.Node, topK int,
) ([]hit.Hit, error) {
	return m.hits, m.err
}

type mockComposer struct {
	reply string
	err   error
}

func (m *mockComposer) Compose(ctx context.Context, question string, passages []string) (string, error) {
	return m.reply, m.err
}

type mockVectorSearcher struct {
	hits []hit.Hit
	err  error
}

func (m *mockVectorSearcher) SearchKNN(
	ctx context.Context, vector []float32, filters filter.Node, topK int,
) ([]hit.Hit, error) {
	return m.hits, m.err
}

type mockEmbedder struct {
	vector []float32
	err    error
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vector}, nil
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(ctx context.Context) error { return m.err }
