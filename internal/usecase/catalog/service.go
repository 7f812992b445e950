// Package catalog resolves major records by name, alias, category or
// similarity over the flat major-detail store.
package catalog

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/maroco/majormentor/internal/domain/major"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	// Category member values look like "컴퓨터 / 소프트웨어(응용)" and are
	// split apart into individual keywords.
	categorySplitRe = regexp.MustCompile(`[/,()]`)
	generalSplitRe  = regexp.MustCompile(`[/,]`)
)

// Service indexes the major catalog for lookup. All indices are built
// eagerly at construction, so a Service is safe for concurrent use.
type Service struct {
	records    []major.Record
	byID       map[string]major.Record
	byName     map[string]major.Record
	byAlias    map[string]major.Record
	categories map[string][]string
	vec        VectorSearcher
	embed      Embedder
	logger     *zap.Logger
}

// New builds the catalog over the loaded records and category table.
func New(
	records []major.Record,
	categories map[string][]string,
	vec VectorSearcher,
	embed Embedder,
	logger *zap.Logger,
) *Service {
	s := &Service{
		records:    records,
		byID:       make(map[string]major.Record),
		byName:     make(map[string]major.Record),
		byAlias:    make(map[string]major.Record),
		categories: categories,
		vec:        vec,
		embed:      embed,
		logger:     logger,
	}

	for _, r := range records {
		if r.ID() != "" {
			s.byID[r.ID()] = r
		}
		if key := normalizeKey(r.Name()); key != "" {
			s.byName[key] = r
			if _, ok := s.byAlias[key]; !ok {
				s.byAlias[key] = r
			}
		}
		for _, alias := range r.Aliases() {
			key := normalizeKey(alias)
			if key == "" {
				continue
			}
			if _, ok := s.byAlias[key]; !ok {
				s.byAlias[key] = r
			}
		}
	}
	return s
}

// All returns every record in load order.
func (s *Service) All() []major.Record { return s.records }

// FindByID resolves a record by its identifier.
func (s *Service) FindByID(id string) (major.Record, bool) {
	r, ok := s.byID[id]
	return r, ok
}

// FindByName resolves a record by canonical name first, alias second.
// Lookup ignores case and whitespace.
func (s *Service) FindByName(name string) (major.Record, bool) {
	if name == "" {
		return major.Record{}, false
	}
	key := normalizeKey(name)
	if r, ok := s.byName[key]; ok {
		return r, true
	}
	r, ok := s.byAlias[key]
	return r, ok
}

// Search resolves majors for a free-form query through a four-tier
// cascade: direct name match, per-token alias match (only when the
// direct match missed), vector similarity (always, to pull in related
// majors), and finally token containment over the record names when
// everything else came up empty. Results are deduplicated by id in
// discovery order and truncated to limit.
func (s *Service) Search(ctx context.Context, query string, limit int) []major.Record {
	var matches []major.Record
	seen := make(map[string]bool)

	appendRecord := func(r major.Record) {
		if r.ID() != "" {
			if seen[r.ID()] {
				return
			}
			seen[r.ID()] = true
		}
		matches = append(matches, r)
	}

	if direct, ok := s.FindByName(query); ok {
		appendRecord(direct)
	}

	tokens, embedText := s.ExpandQuery(query)

	if len(matches) == 0 {
		for _, token := range tokens {
			if r, ok := s.FindByName(token); ok {
				appendRecord(r)
			}
		}
	}

	searchText := embedText
	if searchText == "" {
		searchText = query
	}
	stopAt := limit
	if stopAt < 10 {
		stopAt = 10
	}
	for _, r := range s.searchByVector(ctx, searchText, maxInt(limit*3, 10)) {
		if len(matches) >= stopAt {
			break
		}
		appendRecord(r)
	}

	if len(matches) == 0 {
		for _, r := range s.filterByTokens(tokens, maxInt(limit, 10)) {
			if len(matches) >= limit {
				break
			}
			appendRecord(r)
		}
	}

	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// ExpandQuery widens a query using the category table. A top-level
// category fans out into all its member keywords, a known member value
// splits into its own keywords, anything else splits on separators.
// Returns the deduplicated tokens and the text to embed.
func (s *Service) ExpandQuery(query string) ([]string, string) {
	raw := strings.TrimSpace(query)
	if raw == "" {
		return nil, ""
	}

	var tokens []string
	switch {
	case len(s.categories[raw]) > 0:
		for _, item := range s.categories[raw] {
			tokens = append(tokens, splitClean(categorySplitRe, item)...)
		}
	case s.isCategoryMember(raw):
		tokens = splitClean(categorySplitRe, raw)
	default:
		tokens = splitClean(generalSplitRe, raw)
		if len(tokens) == 0 {
			tokens = []string{raw}
		}
	}

	deduped := dedupPreserveOrder(tokens)
	embedText := strings.Join(deduped, " ")
	if embedText == "" {
		embedText = raw
	}
	return deduped, embedText
}

// searchByVector embeds the text and maps index hits back to records.
// Failures are logged and reported as no matches; lookup never dies on
// a degraded index.
func (s *Service) searchByVector(ctx context.Context, text string, topK int) []major.Record {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	emb, err := s.embed.Embed(ctx, text)
	if err != nil {
		s.logger.Warn("Failed to vectorize catalog query", zap.String("query", text), zap.Error(err))
		return nil
	}

	hits, err := s.vec.SearchKNN(ctx, emb.Embedding, nil, topK)
	if err != nil {
		s.logger.Warn("Vector search over majors failed", zap.String("query", text), zap.Error(err))
		return nil
	}

	var out []major.Record
	seen := make(map[string]bool)
	for _, h := range hits {
		id := h.MajorID()
		if id == "" || seen[id] {
			continue
		}
		r, ok := s.byID[id]
		if !ok {
			continue
		}
		seen[id] = true
		out = append(out, r)
	}
	return out
}

// filterByTokens keeps records whose normalized name contains every
// token.
func (s *Service) filterByTokens(tokens []string, limit int) []major.Record {
	if len(tokens) == 0 {
		return nil
	}
	normalized := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t != "" {
			normalized = append(normalized, strings.ToLower(t))
		}
	}
	if len(normalized) == 0 {
		return nil
	}

	var out []major.Record
	seen := make(map[string]bool)
	for _, r := range s.records {
		target := normalizeKey(r.Name())
		all := true
		for _, tok := range normalized {
			if !strings.Contains(target, tok) {
				all = false
				break
			}
		}
		if !all {
			continue
		}
		if r.ID() != "" {
			if seen[r.ID()] {
				continue
			}
			seen[r.ID()] = true
		}
		out = append(out, r)
		if len(out) >= limit {
			break
		}
	}
	return out
}

func (s *Service) isCategoryMember(raw string) bool {
	for _, values := range s.categories {
		for _, v := range values {
			if strings.Contains(v, raw) {
				return true
			}
		}
	}
	return false
}

// normalizeKey lowercases and strips all whitespace for index lookups.
func normalizeKey(v string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(v), "")
}

func splitClean(re *regexp.Regexp, v string) []string {
	var out []string
	for _, part := range re.Split(v, -1) {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func dedupPreserveOrder(items []string) []string {
	seen := make(map[string]bool, len(items))
	var out []string
	for _, item := range items {
		if item == "" || seen[item] {
			continue
		}
		seen[item] = true
		out = append(out, item)
	}
	return out
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
