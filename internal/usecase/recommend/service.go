// Package recommend ranks majors against a student profile by
// aggregating weighted vector hits over the major document index.
package recommend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/maroco/majormentor/internal/domain"
)

// Recommendation is the outcome of one profile ranking run.
type Recommendation struct {
	ProfileText string
	Majors      []RankedMajor
	Scores      map[string]float64
}

// Service embeds a student profile and ranks majors.
type Service struct {
	repo    Searcher
	embed   Embedder
	weights map[string]float64
	topK    int
	limit   int
	logger  *zap.Logger
}

// New creates a recommendation service. topK bounds the candidate hits
// pulled from the index, limit bounds the returned ranking.
func New(repo Searcher, embed Embedder, topK, limit int, logger *zap.Logger) *Service {
	return &Service{
		repo:    repo,
		embed:   embed,
		weights: DefaultDocWeights,
		topK:    topK,
		limit:   limit,
		logger:  logger,
	}
}

// Recommend builds the profile text from onboarding answers, embeds it
// and ranks majors by weighted aggregate score. Empty answers yield an
// empty recommendation without touching the index.
func (s *Service) Recommend(ctx context.Context, answers map[string]any, fallbackQuestion string) (Recommendation, error) {
	profileText := BuildProfileText(answers, fallbackQuestion)
	if profileText == "" {
		return Recommendation{}, nil
	}

	emb, err := s.embed.Embed(ctx, profileText)
	if err != nil {
		return Recommendation{}, fmt.Errorf("vectorize profile: %w", err)
	}
	domain.UsageFromContext(ctx).AddTokens(emb.TotalTokens)

	hits, err := s.repo.SearchKNN(ctx, emb.Embedding, nil, s.topK)
	if err != nil {
		return Recommendation{}, fmt.Errorf("search majors: %w", err)
	}

	scores := Aggregate(hits, s.weights)
	majors := Summarize(hits, scores, s.limit)

	s.logger.Debug("Ranked majors for profile",
		zap.Int("hits", len(hits)),
		zap.Int("majors", len(majors)))

	return Recommendation{
		ProfileText: profileText,
		Majors:      majors,
		Scores:      scores,
	}, nil
}
