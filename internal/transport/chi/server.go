// Package chi exposes the chatbot over HTTP using the chi router.
package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/maroco/majormentor/internal/domain"
	domusage "github.com/maroco/majormentor/internal/domain/usage"
	"github.com/maroco/majormentor/internal/metrics"
	askuc "github.com/maroco/majormentor/internal/usecase/ask"
	cataloguc "github.com/maroco/majormentor/internal/usecase/catalog"
	healthuc "github.com/maroco/majormentor/internal/usecase/health"
	recommenduc "github.com/maroco/majormentor/internal/usecase/recommend"
	usageuc "github.com/maroco/majormentor/internal/usecase/usage"
)

const defaultMajorLimit = 10

// Error codes returned in the error response body.
const (
	codeBadRequest       = "bad_request"
	codeEmptyQuestion    = "empty_question"
	codeMajorNotFound    = "major_not_found"
	codeRateLimited      = "rate_limited"
	codeProviderError    = "provider_error"
	codeInternalError    = "internal_error"
	codeValidationFailed = "validation_failed"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server wires the chatbot usecases into HTTP handlers.
type Server struct {
	ask           *askuc.Service
	catalog       *cataloguc.Service
	recommend     *recommenduc.Service
	usage         *usageuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	ask *askuc.Service,
	catalog *cataloguc.Service,
	recommend *recommenduc.Service,
	usage *usageuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		ask:       ask,
		catalog:   catalog,
		recommend: recommend,
		usage:     usage,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrEmptyQuestion, http.StatusBadRequest, codeEmptyQuestion),
		sentinelHandler(domain.ErrMajorNotFound, http.StatusNotFound, codeMajorNotFound),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests, codeRateLimited),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, codeProviderError),
		sentinelHandler(domain.ErrChatProviderError, http.StatusBadGateway, codeProviderError),
	}
	return s
}

// Router builds the chi router with metrics and auth middleware.
func (s *Server) Router(apiKeys []string) http.Handler {
	r := chi.NewRouter()
	r.Use(metrics.Middleware())
	r.Use(BearerAuthMiddleware(apiKeys))

	r.Get("/healthz", s.HealthCheck)
	r.Get("/metrics", s.Metrics)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/chat", s.Chat)
		r.Post("/recommend", s.Recommend)
		r.Get("/majors", s.ListMajors)
		r.Get("/majors/{name}/career", s.MajorCareer)
		r.Get("/majors/{name}/universities", s.MajorUniversities)
		r.Get("/usage", s.Usage)
	})

	return r
}

type chatRequest struct {
	Question string `json:"question"`
}

type sourceResponse struct {
	DocID    string            `json:"doc_id"`
	Score    float64           `json:"score"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

type chatResponse struct {
	Reply   string            `json:"reply"`
	Facets  map[string]string `json:"facets,omitempty"`
	Sources []sourceResponse  `json:"sources,omitempty"`
}

// Chat handles POST /api/v1/chat.
func (s *Server) Chat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	answer, err := s.ask.Ask(ctx, req.Question)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	setEmbeddingHeaders(w, usage)

	resp := chatResponse{
		Reply:  answer.Reply,
		Facets: answer.Facets,
	}
	for _, h := range answer.Sources {
		resp.Sources = append(resp.Sources, sourceResponse{
			DocID:    h.DocID(),
			Score:    h.Score(),
			Text:     h.Text(),
			Metadata: h.Metadata(),
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

type recommendRequest struct {
	Answers  map[string]any `json:"answers"`
	Question string         `json:"question"`
}

type docTypeScoreResponse struct {
	DocType string  `json:"doc_type"`
	Score   float64 `json:"score"`
}

type sampleResponse struct {
	DocType string  `json:"doc_type"`
	Score   float64 `json:"score"`
	Text    string  `json:"text"`
}

type rankedMajorResponse struct {
	MajorID     string                 `json:"major_id"`
	MajorName   string                 `json:"major_name"`
	Cluster     string                 `json:"cluster,omitempty"`
	Salary      string                 `json:"salary,omitempty"`
	Score       float64                `json:"score"`
	TopDocTypes []docTypeScoreResponse `json:"top_doc_types,omitempty"`
	Samples     []sampleResponse       `json:"samples,omitempty"`
	Summary     string                 `json:"summary,omitempty"`
	SubjectTags []string               `json:"subject_tags,omitempty"`
	JobTags     []string               `json:"job_tags,omitempty"`
}

type recommendResponse struct {
	ProfileText string                `json:"profile_text"`
	Majors      []rankedMajorResponse `json:"majors"`
}

// Recommend handles POST /api/v1/recommend.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	rec, err := s.recommend.Recommend(ctx, req.Answers, req.Question)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	setEmbeddingHeaders(w, usage)

	resp := recommendResponse{
		ProfileText: rec.ProfileText,
		Majors:      make([]rankedMajorResponse, 0, len(rec.Majors)),
	}
	for _, m := range rec.Majors {
		item := rankedMajorResponse{
			MajorID:     m.MajorID,
			MajorName:   m.MajorName,
			Cluster:     m.Cluster,
			Salary:      m.Salary,
			Score:       m.Score,
			Summary:     m.Summary,
			SubjectTags: m.SubjectTags,
			JobTags:     m.JobTags,
		}
		for _, d := range m.TopDocTypes {
			item.TopDocTypes = append(item.TopDocTypes, docTypeScoreResponse(d))
		}
		for _, sm := range m.Samples {
			item.Samples = append(item.Samples, sampleResponse(sm))
		}
		resp.Majors = append(resp.Majors, item)
	}

	writeJSON(w, http.StatusOK, resp)
}

type majorSummaryResponse struct {
	MajorID   string   `json:"major_id"`
	MajorName string   `json:"major_name"`
	Aliases   []string `json:"aliases,omitempty"`
	Summary   string   `json:"summary,omitempty"`
}

type majorListResponse struct {
	Items []majorSummaryResponse `json:"items"`
	Total int                    `json:"total"`
}

// ListMajors handles GET /api/v1/majors.
func (s *Server) ListMajors(w http.ResponseWriter, r *http.Request) {
	var query string
	if err := runtime.BindQueryParameter(
		"form", true, false, "query", r.URL.Query(), &query); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Invalid query parameter: "+err.Error())
		return
	}

	limit := defaultMajorLimit
	if err := runtime.BindQueryParameter(
		"form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "Invalid limit parameter: "+err.Error())
		return
	}
	if limit <= 0 {
		writeError(w, http.StatusBadRequest, codeValidationFailed, "limit must be positive")
		return
	}

	records := s.catalog.All()
	if query != "" {
		records = s.catalog.Search(r.Context(), query, limit)
	} else if len(records) > limit {
		records = records[:limit]
	}

	resp := majorListResponse{
		Items: make([]majorSummaryResponse, len(records)),
		Total: len(records),
	}
	for i, rec := range records {
		resp.Items[i] = majorSummaryResponse{
			MajorID:   rec.ID(),
			MajorName: rec.Name(),
			Aliases:   rec.Aliases(),
			Summary:   rec.Summary(),
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

type enterFieldResponse struct {
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
}

type activityResponse struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type subjectResponse struct {
	Name    string `json:"name"`
	Summary string `json:"summary,omitempty"`
}

type careerResponse struct {
	Major              string               `json:"major"`
	Jobs               []string             `json:"jobs"`
	JobSummary         string               `json:"job_summary,omitempty"`
	EnterFields        []enterFieldResponse `json:"enter_fields,omitempty"`
	Activities         []activityResponse   `json:"activities,omitempty"`
	Qualifications     string               `json:"qualifications,omitempty"`
	QualificationsList []string             `json:"qualifications_list,omitempty"`
	Subjects           []subjectResponse    `json:"subjects,omitempty"`
}

// MajorCareer handles GET /api/v1/majors/{name}/career.
func (s *Server) MajorCareer(w http.ResponseWriter, r *http.Request) {
	name := majorNameParam(r)

	info, err := s.catalog.CareerInfo(r.Context(), name)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := careerResponse{
		Major:              info.Major,
		Jobs:               info.Jobs,
		JobSummary:         info.JobSummary,
		Qualifications:     info.Qualifications,
		QualificationsList: info.QualificationsList,
	}
	for _, f := range info.EnterFields {
		resp.EnterFields = append(resp.EnterFields, enterFieldResponse(f))
	}
	for _, a := range info.Activities {
		resp.Activities = append(resp.Activities, activityResponse(a))
	}
	for _, sub := range info.Subjects {
		resp.Subjects = append(resp.Subjects, subjectResponse(sub))
	}

	writeJSON(w, http.StatusOK, resp)
}

type universityResponse struct {
	University        string `json:"university"`
	College           string `json:"college,omitempty"`
	Department        string `json:"department,omitempty"`
	Area              string `json:"area,omitempty"`
	Campus            string `json:"campus,omitempty"`
	URL               string `json:"url,omitempty"`
	StandardMajorName string `json:"standard_major_name,omitempty"`
}

type universityListResponse struct {
	Items []universityResponse `json:"items"`
	Total int                  `json:"total"`
}

// MajorUniversities handles GET /api/v1/majors/{name}/universities.
func (s *Server) MajorUniversities(w http.ResponseWriter, r *http.Request) {
	name := majorNameParam(r)

	entries, err := s.catalog.UniversitiesByDepartment(r.Context(), name)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	resp := universityListResponse{
		Items: make([]universityResponse, len(entries)),
		Total: len(entries),
	}
	for i, e := range entries {
		resp.Items[i] = universityResponse(e)
	}

	writeJSON(w, http.StatusOK, resp)
}

type usageResponse struct {
	Period string           `json:"period"`
	Usage  usageMetricsBody `json:"usage"`
	Budget usageBudgetBody  `json:"budget"`
	Start  *time.Time       `json:"period_start_at,omitempty"`
	End    *time.Time       `json:"period_end_at,omitempty"`
}

type usageMetricsBody struct {
	Tokens int `json:"tokens"`
}

type usageBudgetBody struct {
	TokensLimit     int        `json:"tokens_limit"`
	TokensRemaining int        `json:"tokens_remaining"`
	IsExhausted     bool       `json:"is_exhausted"`
	ResetsAt        *time.Time `json:"resets_at,omitempty"`
}

// Usage handles GET /api/v1/usage.
func (s *Server) Usage(w http.ResponseWriter, r *http.Request) {
	period := domusage.PeriodMonth
	switch r.URL.Query().Get("period") {
	case "day":
		period = domusage.PeriodDay
	case "total":
		period = domusage.PeriodTotal
	}

	report := s.usage.GetReport(r.Context(), period)

	resp := usageResponse{
		Period: string(report.Period()),
		Usage:  usageMetricsBody{Tokens: report.Metrics().Tokens()},
		Budget: usageBudgetBody{
			TokensLimit:     report.Budget().TokensLimit(),
			TokensRemaining: report.Budget().TokensRemaining(),
			IsExhausted:     report.Budget().IsExhausted(),
		},
	}
	if report.PeriodStart() > 0 {
		start := time.UnixMilli(report.PeriodStart()).UTC()
		end := time.UnixMilli(report.PeriodEnd()).UTC()
		resp.Start = &start
		resp.End = &end
	}
	if report.Budget().ResetsAt() > 0 {
		resetsAt := time.UnixMilli(report.Budget().ResetsAt()).UTC()
		resp.Budget.ResetsAt = &resetsAt
	}

	writeJSON(w, http.StatusOK, resp)
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage != nil && usage.Used {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(usage.TotalTokens))
	}
}

// HealthCheck handles GET /healthz.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// majorNameParam extracts the {name} path parameter. Korean names
// arrive percent-encoded.
func majorNameParam(r *http.Request) string {
	raw := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(raw); err == nil {
		return decoded
	}
	return raw
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrEmptyQuestion,
		domain.ErrMajorNotFound,
		domain.ErrRateLimited,
		domain.ErrEmbeddingProviderError,
		domain.ErrChatProviderError,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
