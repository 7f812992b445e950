// Package retrieve implements filtered course retrieval with a fixed
// fallback ladder that relaxes the metadata filter until something is
// found.
package retrieve

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/maroco/majormentor/internal/domain"
	"github.com/maroco/majormentor/internal/domain/facet"
	"github.com/maroco/majormentor/internal/domain/search/filter"
	"github.com/maroco/majormentor/internal/domain/search/hit"
	"github.com/maroco/majormentor/internal/extract"
)

// Fallback stage labels, also used as the metric label values.
const (
	StageNoFilter        = "no_filter"
	StageExact           = "exact"
	StageFuzzyDepartment = "fuzzy_department"
	StageNoDepartment    = "no_department"
	StageNoCollege       = "no_college"
	StagePureSemantic    = "pure_semantic"
)

// Engine runs the staged retrieval. The question is embedded once and
// the same vector is reused across every stage.
type Engine struct {
	repo          Searcher
	embed         Embedder
	fallbackTotal *prometheus.CounterVec
	logger        *zap.Logger
}

// New creates a retrieval engine. fallbackTotal is a counter vec with
// label "stage", counting which stage finally produced results.
func New(repo Searcher, embed Embedder, fallbackTotal *prometheus.CounterVec, logger *zap.Logger) *Engine {
	return &Engine{repo: repo, embed: embed, fallbackTotal: fallbackTotal, logger: logger}
}

// Retrieve searches course documents for the question under the given
// filter. Stages run in a fixed order and the first stage with a
// non-empty result wins:
//
//	exact filter -> fuzzy department -> no department -> no college -> no filter
//
// Query errors at intermediate stages count as empty results; only the
// terminal unfiltered search propagates its error. A nil filter skips
// the ladder entirely.
func (e *Engine) Retrieve(ctx context.Context, question string, filters filter.Node, topK int) ([]hit.Hit, error) {
	emb, err := e.embed.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("vectorize question: %w", err)
	}
	domain.UsageFromContext(ctx).AddTokens(emb.TotalTokens)
	vector := emb.Embedding

	if filters == nil {
		hits, err := e.repo.SearchKNN(ctx, vector, nil, topK)
		if err != nil {
			return nil, fmt.Errorf("search knn: %w", err)
		}
		e.incStage(StageNoFilter)
		return hits, nil
	}

	if hits, ok := e.try(ctx, StageExact, vector, filters, topK); ok {
		return hits, nil
	}

	if dept, ok := filter.DepartmentValue(filters); ok {
		fuzzy := filter.ExpandDepartment(filters, extract.NormalizeDepartment(dept))
		if hits, ok := e.try(ctx, StageFuzzyDepartment, vector, fuzzy, topK); ok {
			return hits, nil
		}
	}

	noDept := filter.RemoveField(filters, facet.Department)
	if noDept != nil {
		if hits, ok := e.try(ctx, StageNoDepartment, vector, noDept, topK); ok {
			return hits, nil
		}
	}

	noCollege := filter.RemoveField(noDept, facet.College)
	if noCollege != nil {
		if hits, ok := e.try(ctx, StageNoCollege, vector, noCollege, topK); ok {
			return hits, nil
		}
	}

	e.logger.Warn("All filtered stages empty, falling back to pure semantic search",
		zap.String("question", question))
	hits, err := e.repo.SearchKNN(ctx, vector, nil, topK)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}
	e.incStage(StagePureSemantic)
	return hits, nil
}

// try runs one ladder stage. Errors are logged and reported as an empty
// stage so the ladder keeps descending.
func (e *Engine) try(ctx context.Context, stage string, vector []float32, filters filter.Node, topK int) ([]hit.Hit, bool) {
	hits, err := e.repo.SearchKNN(ctx, vector, filters, topK)
	if err != nil {
		e.logger.Warn("Retrieval stage failed", zap.String("stage", stage), zap.Error(err))
		return nil, false
	}
	if len(hits) == 0 {
		return nil, false
	}
	e.incStage(stage)
	return hits, true
}

func (e *Engine) incStage(stage string) {
	if e.fallbackTotal != nil {
		e.fallbackTotal.WithLabelValues(stage).Inc()
	}
}
