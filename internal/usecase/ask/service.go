// Package ask orchestrates the chat pipeline: facet extraction, filter
// construction, staged retrieval and answer composition.
package ask

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/maroco/majormentor/internal/domain"
	"github.com/maroco/majormentor/internal/domain/facet"
	"github.com/maroco/majormentor/internal/domain/search/filter"
	"github.com/maroco/majormentor/internal/domain/search/hit"
)

// NoContextReply is returned verbatim when retrieval finds nothing to
// ground an answer on.
const NoContextReply = "죄송합니다. 질문에 맞는 강의 정보를 찾지 못했습니다. 학교나 학과 이름을 조금 더 구체적으로 알려주시겠어요?"

// Answer is the chat pipeline result.
type Answer struct {
	Reply   string
	Facets  facet.Set
	Sources []hit.Hit
}

type Service struct {
	extractor Extractor
	retriever Retriever
	composer  Composer
	topK      int
	logger    *zap.Logger
}

func New(extractor Extractor, retriever Retriever, composer Composer, topK int, logger *zap.Logger) *Service {
	return &Service{
		extractor: extractor,
		retriever: retriever,
		composer:  composer,
		topK:      topK,
		logger:    logger,
	}
}

// Ask answers a course question. A blank question fails with
// domain.ErrEmptyQuestion. When retrieval comes back empty the composer
// is skipped and a fixed reply is returned instead of hallucinating.
func (s *Service) Ask(ctx context.Context, question string) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, domain.ErrEmptyQuestion
	}

	facets := s.extractor.Extract(question)
	filters := filter.Build(facets)

	hits, err := s.retriever.Retrieve(ctx, question, filters, s.topK)
	if err != nil {
		return Answer{}, fmt.Errorf("retrieve documents: %w", err)
	}

	if len(hits) == 0 {
		s.logger.Info("No documents retrieved for question", zap.String("question", question))
		return Answer{Reply: NoContextReply, Facets: facets}, nil
	}

	passages := make([]string, 0, len(hits))
	for _, h := range hits {
		if text := strings.TrimSpace(h.Text()); text != "" {
			passages = append(passages, text)
		}
	}

	reply, err := s.composer.Compose(ctx, question, passages)
	if err != nil {
		return Answer{}, fmt.Errorf("compose answer: %w", err)
	}

	s.logger.Debug("Answered question",
		zap.Int("facets", len(facets)),
		zap.Int("sources", len(hits)))
	return Answer{Reply: reply, Facets: facets, Sources: hits}, nil
}
