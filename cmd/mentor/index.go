package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/maroco/majormentor/internal/domain"
	"github.com/maroco/majormentor/internal/domain/major"
	"github.com/maroco/majormentor/internal/metrics"
	catalogrepo "github.com/maroco/majormentor/internal/repository/catalog"
	courserepo "github.com/maroco/majormentor/internal/repository/course"
)

// embedBatchSize is the number of documents vectorized and stored per round.
const embedBatchSize = 128

var (
	courseTagFields = []string{"university", "college", "department", "grade", "semester"}
	majorTagFields  = []string{"major_id", "major_name", "doc_type", "relate_subject_tags", "relate_job_tags"}
)

func indexCmd() *cobra.Command {
	var rebuild bool
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Build the course and major vector indices",
		Long: `Index reads the course document store and the major catalog, embeds
every document and writes them into the RediSearch vector indices the
server searches at runtime.`,
		Run: func(_ *cobra.Command, _ []string) {
			runIndex(rebuild)
		},
	}
	cmd.Flags().BoolVar(&rebuild, "rebuild", false, "drop and recreate existing indices")
	return cmd
}

func runIndex(rebuild bool) {
	a := newApp()
	defer a.close()

	cfg := a.cfg
	logger := a.logger

	ctx := context.Background()
	a.connect(ctx)

	metrics.RegisterEmbeddingMetrics()

	budget := a.budgetChecker(ctx)
	embedder := a.buildEmbedder("", budget)

	dims := a.vectorDim()
	params := courserepo.HNSWParams{
		M:           cfg.Index.HNSWM,
		EFConstruct: cfg.Index.HNSWEFConstruct,
	}

	courseDocs, err := loadCourseDocs(cfg.Data.CourseDocsPath)
	if err != nil {
		logger.Fatal("Failed to load course documents", zap.Error(err))
	}
	ingest(ctx, a, embedder, "course", courseTagFields, courseDocs, dims, params, rebuild)

	loader := catalogrepo.NewLoader(
		cfg.Data.MajorDetailPath,
		cfg.Data.UnivMappingPath,
		cfg.Data.MajorCategoriesPath,
	)
	records, err := loader.MajorRecords()
	if err != nil {
		logger.Fatal("Failed to load major catalog", zap.Error(err))
	}
	ingest(ctx, a, embedder, "major", majorTagFields, majorDocs(records), dims, params, rebuild)

	logger.Info("Indexing complete",
		zap.Int("course_docs", len(courseDocs)),
		zap.Int("major_records", len(records)),
	)
}

// ingest ensures the collection index exists, then embeds and stores the
// documents in batches.
func ingest(
	ctx context.Context,
	a *app,
	embedder domain.Embedder,
	collection string,
	tagFields []string,
	docs []courserepo.Doc,
	dims int,
	params courserepo.HNSWParams,
	rebuild bool,
) {
	logger := a.logger

	ix := courserepo.NewIndexer(a.store, collection, tagFields)
	if err := ix.EnsureIndex(ctx, dims, params, rebuild); err != nil {
		logger.Fatal("Failed to ensure index", zap.String("collection", collection), zap.Error(err))
	}

	for start := 0; start < len(docs); start += embedBatchSize {
		end := min(start+embedBatchSize, len(docs))
		batch := docs[start:end]

		texts := make([]string, len(batch))
		for i, d := range batch {
			texts[i] = d.Text
		}

		var res domain.BatchEmbeddingResult
		var err error
		if be, ok := embedder.(domain.BatchEmbedder); ok {
			res, err = be.BatchEmbed(ctx, texts)
		} else {
			res, err = domain.BatchFallback(ctx, embedder, texts)
		}
		if err != nil {
			logger.Fatal("Failed to embed documents",
				zap.String("collection", collection), zap.Error(err))
		}
		if len(res.Embeddings) != len(batch) {
			logger.Fatal("Embedding count mismatch",
				zap.String("collection", collection),
				zap.Int("want", len(batch)), zap.Int("got", len(res.Embeddings)))
		}
		for i := range batch {
			batch[i].Vector = res.Embeddings[i]
		}

		if err := ix.Store(ctx, batch); err != nil {
			logger.Fatal("Failed to store documents",
				zap.String("collection", collection), zap.Error(err))
		}
		logger.Info("Indexed batch",
			zap.String("collection", collection),
			zap.Int("done", end),
			zap.Int("total", len(docs)),
			zap.Int("tokens", res.TotalTokens),
		)
	}
}

type courseDTO struct {
	Name           string `json:"name"`
	NameEn         string `json:"name_en"`
	GradeSemester  string `json:"grade_semester"`
	Classification string `json:"course_classification"`
	Description    string `json:"description"`
}

// loadCourseDocs flattens the nested course store
// (university -> college -> department -> courses) into documents.
func loadCourseDocs(path string) ([]courserepo.Doc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read course docs: %w", err)
	}

	var root map[string]map[string]map[string][]courseDTO
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parse course docs: %w", err)
	}

	var docs []courserepo.Doc
	n := 0
	for university, colleges := range root {
		for college, departments := range colleges {
			for department, courses := range departments {
				for _, c := range courses {
					if c.Name == "" {
						continue
					}
					grade, semester := splitGradeSemester(c.GradeSemester)
					docs = append(docs, courserepo.Doc{
						ID:   fmt.Sprintf("%06d", n),
						Text: courseText(c),
						Tags: map[string]string{
							"university": university,
							"college":    college,
							"department": department,
							"grade":      grade,
							"semester":   semester,
						},
					})
					n++
				}
			}
		}
	}
	return docs, nil
}

func courseText(c courseDTO) string {
	return fmt.Sprintf("과목명: %s\n영문명: %s\n학년/학기: %s\n분류: %s\n설명: %s",
		c.Name, c.NameEn, c.GradeSemester, c.Classification, c.Description)
}

// splitGradeSemester splits "3학년 1학기" into separate grade and
// semester tags. Either part may be missing.
func splitGradeSemester(s string) (grade, semester string) {
	for _, tok := range strings.Fields(s) {
		switch {
		case strings.Contains(tok, "학년"):
			grade = tok
		case strings.Contains(tok, "학기"):
			semester = tok
		}
	}
	return grade, semester
}

// majorDoc is one typed passage synthesized from a catalog record.
type majorDoc struct {
	docType string
	text    string
}

// majorDocs turns every catalog record into per-aspect documents so the
// recommendation search can weight aspects independently.
func majorDocs(records []major.Record) []courserepo.Doc {
	docs := make([]courserepo.Doc, 0, len(records)*5)
	for _, r := range records {
		subjectNames := make([]string, 0, len(r.Subjects()))
		subjectLines := make([]string, 0, len(r.Subjects()))
		for _, s := range r.Subjects() {
			subjectNames = append(subjectNames, s.Name)
			line := s.Name
			if s.Summary != "" {
				line += ": " + s.Summary
			}
			subjectLines = append(subjectLines, line)
		}

		parts := []majorDoc{
			{"summary", r.Summary()},
			{"interest", r.Interest()},
			{"property", r.Property()},
			{"subjects", strings.Join(subjectLines, "\n")},
			{"jobs", r.JobText()},
		}

		subjectTags := strings.Join(subjectNames, ",")
		jobTags := strings.Join(splitJobs(r.JobText()), ",")

		for _, p := range parts {
			text := strings.TrimSpace(p.text)
			if text == "" {
				continue
			}
			docs = append(docs, courserepo.Doc{
				ID:   fmt.Sprintf("%s:%s", r.ID(), p.docType),
				Text: fmt.Sprintf("전공명: %s\n%s", r.Name(), text),
				Tags: map[string]string{
					"major_id":            r.ID(),
					"major_name":          r.Name(),
					"doc_type":            p.docType,
					"relate_subject_tags": subjectTags,
					"relate_job_tags":     jobTags,
				},
			})
		}
	}
	return docs
}

// splitJobs breaks the free-form job text into individual tag values.
func splitJobs(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == '·' || r == '/'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
