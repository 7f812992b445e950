package catalog

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/maroco/majormentor/internal/domain"
	"github.com/maroco/majormentor/internal/domain/major"
	"github.com/maroco/majormentor/internal/domain/search/filter"
	"github.com/maroco/majormentor/internal/domain/search/hit"
)

type mockVec struct {
	hits     []hit.Hit
	err      error
	calls    int
	lastTopK int
}

func (m *mockVec) SearchKNN(_ context.Context, _ []float32, _ filter.Node, topK int) ([]hit.Hit, error) {
	m.calls++
	m.lastTopK = topK
	return m.hits, m.err
}

type mockEmbedder struct {
	err      error
	calls    int
	lastText string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls++
	m.lastText = text
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: []float32{0.1}}, nil
}

func mustRecord(t *testing.T, id, name string, aliases ...string) major.Record {
	t.Helper()
	r, err := major.New(id, name, aliases)
	if err != nil {
		t.Fatalf("major.New: %v", err)
	}
	return r
}

func testRecords(t *testing.T) []major.Record {
	t.Helper()
	return []major.Record{
		mustRecord(t, "m1", "컴퓨터공학과", "컴공"),
		mustRecord(t, "m2", "소프트웨어학부", "소프트웨어"),
		mustRecord(t, "m3", "전자공학과"),
		mustRecord(t, "m4", "인공지능학과", "AI학과"),
	}
}

func testCategories() map[string][]string {
	return map[string][]string{
		"공학계열": {"컴퓨터 / 소프트웨어", "전자(반도체)"},
	}
}

func newTestService(t *testing.T, vec *mockVec, embed *mockEmbedder) *Service {
	t.Helper()
	if vec == nil {
		vec = &mockVec{}
	}
	if embed == nil {
		embed = &mockEmbedder{}
	}
	return New(testRecords(t), testCategories(), vec, embed, zap.NewNop())
}

func majorHit(docID, majorID string, score float64) hit.Hit {
	return hit.New(docID, score, "", nil).WithMajor(majorID, "", "summary")
}
