// Package course maps FT.SEARCH results over the document index into
// domain hits.
package course

import (
	"context"
	"fmt"
	"strings"

	"github.com/maroco/majormentor/internal/db"
	"github.com/maroco/majormentor/internal/domain"
	"github.com/maroco/majormentor/internal/domain/search/filter"
	"github.com/maroco/majormentor/internal/domain/search/hit"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

var returnFields = []string{
	"__content", "__vector_score",
	"university", "college", "department", "grade", "semester",
	"major_id", "major_name", "doc_type", "cluster", "salary",
	"relate_subject_tags", "relate_job_tags",
}

// Repo runs KNN searches against one document collection and parses
// hash fields into hits.
type Repo struct {
	store      store
	collection string
}

// New creates a search repository over the named collection.
func New(s store, collection string) *Repo {
	return &Repo{store: s, collection: collection}
}

// SearchKNN performs a KNN vector search with filter pre-filtering.
func (r *Repo) SearchKNN(
	ctx context.Context, vector []float32, filters filter.Node, topK int,
) ([]hit.Hit, error) {
	indexName := fmt.Sprintf("%s%s:idx", domain.KeyPrefix, r.collection)

	q := &db.KNNQuery{
		IndexName:    indexName,
		Filters:      filters,
		Vector:       vector,
		K:            topK,
		ReturnFields: returnFields,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn %s: %w", r.collection, err)
	}
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	prefix := fmt.Sprintf("%s%s:", domain.KeyPrefix, r.collection)
	hits := make([]hit.Hit, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		docID := strings.TrimPrefix(entry.Key, prefix)
		hits = append(hits, parseEntry(docID, entry))
	}
	return hits, nil
}

// parseEntry converts flat hash fields into a hit. Unknown fields land
// in the metadata map.
func parseEntry(docID string, entry db.SearchEntry) hit.Hit {
	var content, majorID, majorName, docType string
	var subjectTags, jobTags []string
	meta := make(map[string]string)

	for k, v := range entry.Fields {
		switch k {
		case "__content":
			content = v
		case "major_id":
			majorID = v
		case "major_name":
			majorName = v
		case "doc_type":
			docType = v
		case "relate_subject_tags":
			subjectTags = splitTags(v)
		case "relate_job_tags":
			jobTags = splitTags(v)
		default:
			meta[k] = v
		}
	}

	h := hit.New(docID, entry.Score, content, meta)
	if majorID != "" || majorName != "" || docType != "" {
		h = h.WithMajor(majorID, majorName, docType)
	}
	if len(subjectTags) > 0 || len(jobTags) > 0 {
		h = h.WithTags(subjectTags, jobTags)
	}
	return h
}

// splitTags parses a comma separated tag field.
func splitTags(v string) []string {
	if v == "" {
		return nil
	}
	var tags []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			tags = append(tags, p)
		}
	}
	return tags
}
