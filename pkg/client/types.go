package client

import "time"

type chatRequest struct {
	Question string `json:"question"`
}

type recommendRequest struct {
	Answers  map[string]any `json:"answers"`
	Question string         `json:"question"`
}

// Source is one retrieved passage backing a reply.
type Source struct {
	DocID    string            `json:"doc_id"`
	Score    float64           `json:"score"`
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ChatReply is the chat endpoint response.
type ChatReply struct {
	Reply   string            `json:"reply"`
	Facets  map[string]string `json:"facets,omitempty"`
	Sources []Source          `json:"sources,omitempty"`
}

// DocTypeScore is the per-aspect contribution to a major's score.
type DocTypeScore struct {
	DocType string  `json:"doc_type"`
	Score   float64 `json:"score"`
}

// Sample is a matched passage shown with a recommendation.
type Sample struct {
	DocType string  `json:"doc_type"`
	Score   float64 `json:"score"`
	Text    string  `json:"text"`
}

// RankedMajor is one recommended major.
type RankedMajor struct {
	MajorID     string         `json:"major_id"`
	MajorName   string         `json:"major_name"`
	Cluster     string         `json:"cluster,omitempty"`
	Salary      string         `json:"salary,omitempty"`
	Score       float64        `json:"score"`
	TopDocTypes []DocTypeScore `json:"top_doc_types,omitempty"`
	Samples     []Sample       `json:"samples,omitempty"`
	Summary     string         `json:"summary,omitempty"`
	SubjectTags []string       `json:"subject_tags,omitempty"`
	JobTags     []string       `json:"job_tags,omitempty"`
}

// Recommendation is the recommend endpoint response.
type Recommendation struct {
	ProfileText string        `json:"profile_text"`
	Majors      []RankedMajor `json:"majors"`
}

// MajorSummary is one catalog listing entry.
type MajorSummary struct {
	MajorID   string   `json:"major_id"`
	MajorName string   `json:"major_name"`
	Aliases   []string `json:"aliases,omitempty"`
	Summary   string   `json:"summary,omitempty"`
}

// MajorList is the majors endpoint response.
type MajorList struct {
	Items []MajorSummary `json:"items"`
	Total int            `json:"total"`
}

// EnterField is one post-graduation employment field.
type EnterField struct {
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
}

// Activity is one recommended career preparation activity.
type Activity struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Subject is one representative subject of a major.
type Subject struct {
	Name    string `json:"name"`
	Summary string `json:"summary,omitempty"`
}

// Career is the career endpoint response.
type Career struct {
	Major              string       `json:"major"`
	Jobs               []string     `json:"jobs"`
	JobSummary         string       `json:"job_summary,omitempty"`
	EnterFields        []EnterField `json:"enter_fields,omitempty"`
	Activities         []Activity   `json:"activities,omitempty"`
	Qualifications     string       `json:"qualifications,omitempty"`
	QualificationsList []string     `json:"qualifications_list,omitempty"`
	Subjects           []Subject    `json:"subjects,omitempty"`
}

// University is one institution offering a major.
type University struct {
	University        string `json:"university"`
	College           string `json:"college,omitempty"`
	Department        string `json:"department,omitempty"`
	Area              string `json:"area,omitempty"`
	Campus            string `json:"campus,omitempty"`
	URL               string `json:"url,omitempty"`
	StandardMajorName string `json:"standard_major_name,omitempty"`
}

// UniversityList is the universities endpoint response.
type UniversityList struct {
	Items []University `json:"items"`
	Total int          `json:"total"`
}

// UsageMetrics holds consumed token counts.
type UsageMetrics struct {
	Tokens int `json:"tokens"`
}

// UsageBudget holds the configured token budget state.
type UsageBudget struct {
	TokensLimit     int        `json:"tokens_limit"`
	TokensRemaining int        `json:"tokens_remaining"`
	IsExhausted     bool       `json:"is_exhausted"`
	ResetsAt        *time.Time `json:"resets_at,omitempty"`
}

// UsageReport is the usage endpoint response.
type UsageReport struct {
	Period string       `json:"period"`
	Usage  UsageMetrics `json:"usage"`
	Budget UsageBudget  `json:"budget"`
	Start  *time.Time   `json:"period_start_at,omitempty"`
	End    *time.Time   `json:"period_end_at,omitempty"`
}
