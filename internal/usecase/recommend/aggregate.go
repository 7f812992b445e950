package recommend

import (
	"sort"

	"github.com/maroco/majormentor/internal/domain/search/hit"
)

// DefaultDocWeights weighs major document types during aggregation.
// Interests and subjects count slightly more than the rest.
var DefaultDocWeights = map[string]float64{
	"summary":  1.0,
	"interest": 1.1,
	"property": 0.9,
	"subjects": 1.2,
	"jobs":     1.0,
}

// Aggregate sums weighted hit scores per major. Unknown doc types weigh
// 1.0 and hits without a major id are skipped. The input is never
// mutated, so aggregating the same hits twice gives the same map.
func Aggregate(hits []hit.Hit, weights map[string]float64) map[string]float64 {
	scores := make(map[string]float64)
	for _, h := range hits {
		if h.MajorID() == "" {
			continue
		}
		weight, ok := weights[h.DocType()]
		if !ok {
			weight = 1.0
		}
		scores[h.MajorID()] += h.Score() * weight
	}
	return scores
}

// DocTypeScore is the best hit score seen for one document type.
type DocTypeScore struct {
	DocType string
	Score   float64
}

// Sample is one representative document snippet for a major.
type Sample struct {
	DocType string
	Score   float64
	Text    string
}

// RankedMajor is one major in the recommendation ranking.
type RankedMajor struct {
	MajorID     string
	MajorName   string
	Cluster     string
	Salary      string
	Score       float64
	TopDocTypes []DocTypeScore
	Samples     []Sample
	Summary     string
	SubjectTags []string
	JobTags     []string
}

type accumulator struct {
	entry       RankedMajor
	docTypes    map[string]float64
	docTypeSeen []string
}

// Summarize groups hits per major, keeps at most three sample snippets
// and the best score per doc type, and returns the majors sorted by
// aggregate score. Equal scores keep first-seen accumulation order.
func Summarize(hits []hit.Hit, scores map[string]float64, limit int) []RankedMajor {
	perMajor := make(map[string]*accumulator)
	var order []string

	for _, h := range hits {
		if h.MajorID() == "" {
			continue
		}
		acc, ok := perMajor[h.MajorID()]
		if !ok {
			acc = &accumulator{
				entry: RankedMajor{
					MajorID:   h.MajorID(),
					MajorName: h.MajorName(),
					Cluster:   h.Metadata()["cluster"],
					Salary:    h.Metadata()["salary"],
					Score:     scores[h.MajorID()],
				},
				docTypes: make(map[string]float64),
			}
			perMajor[h.MajorID()] = acc
			order = append(order, h.MajorID())
		}

		if best, seen := acc.docTypes[h.DocType()]; !seen {
			acc.docTypeSeen = append(acc.docTypeSeen, h.DocType())
			acc.docTypes[h.DocType()] = h.Score()
		} else if h.Score() > best {
			acc.docTypes[h.DocType()] = h.Score()
		}

		if len(acc.entry.Samples) < 3 {
			acc.entry.Samples = append(acc.entry.Samples, Sample{
				DocType: h.DocType(),
				Score:   h.Score(),
				Text:    h.Text(),
			})
		}

		if h.DocType() == "summary" && acc.entry.Summary == "" {
			acc.entry.Summary = h.Text()
		}

		acc.entry.SubjectTags = mergeTags(acc.entry.SubjectTags, h.SubjectTags())
		acc.entry.JobTags = mergeTags(acc.entry.JobTags, h.JobTags())
	}

	ranked := make([]RankedMajor, 0, len(order))
	for _, id := range order {
		acc := perMajor[id]
		acc.entry.TopDocTypes = sortedDocTypes(acc.docTypes, acc.docTypeSeen)
		ranked = append(ranked, acc.entry)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// mergeTags unions tag lists preserving first-seen order.
func mergeTags(existing, incoming []string) []string {
	for _, v := range incoming {
		found := false
		for _, have := range existing {
			if have == v {
				found = true
				break
			}
		}
		if !found {
			existing = append(existing, v)
		}
	}
	return existing
}

// sortedDocTypes orders doc types by best score desc; ties keep
// first-seen order.
func sortedDocTypes(best map[string]float64, seen []string) []DocTypeScore {
	out := make([]DocTypeScore, 0, len(seen))
	for _, dt := range seen {
		out = append(out, DocTypeScore{DocType: dt, Score: best[dt]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
