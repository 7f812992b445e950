package catalog

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/maroco/majormentor/internal/domain"
	"github.com/maroco/majormentor/internal/domain/major"
)

var (
	htmlTagRe = regexp.MustCompile(`<[^>]+>`)
	listRe    = regexp.MustCompile(`[,/\n]`)
)

// CareerInfo is the career payload for one major.
type CareerInfo struct {
	Major              string
	Jobs               []string
	JobSummary         string
	EnterFields        []major.EnterField
	Activities         []major.Activity
	Qualifications     string
	QualificationsList []string
	Subjects           []major.Subject
}

// UniversityEntry is one university offering row for a major.
type UniversityEntry struct {
	University        string
	College           string
	Department        string
	Area              string
	Campus            string
	URL               string
	StandardMajorName string
}

// CareerInfo resolves the best matching major for the query and builds
// its career payload. Returns domain.ErrMajorNotFound when nothing
// matches.
func (s *Service) CareerInfo(ctx context.Context, query string) (CareerInfo, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return CareerInfo{}, domain.ErrMajorNotFound
	}

	matches := s.Search(ctx, query, 1)
	if len(matches) == 0 {
		return CareerInfo{}, domain.ErrMajorNotFound
	}
	record := matches[0]

	jobText := strings.TrimSpace(record.JobText())
	qualText, qualList := ParseQualifications(record.Qualifications())

	return CareerInfo{
		Major:              record.Name(),
		Jobs:               SplitJobs(jobText),
		JobSummary:         jobText,
		EnterFields:        cleanEnterFields(record.EnterFields()),
		Activities:         cleanActivities(record.Activities()),
		Qualifications:     qualText,
		QualificationsList: qualList,
		Subjects:           cleanSubjects(record.Subjects()),
	}, nil
}

// UniversitiesByDepartment lists universities offering the department.
// An exact name match wins; otherwise similar majors contribute rows.
// At most 50 rows are aggregated.
func (s *Service) UniversitiesByDepartment(ctx context.Context, name string) ([]UniversityEntry, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrMajorNotFound
	}

	var matches []major.Record
	if direct, ok := s.FindByName(name); ok {
		matches = []major.Record{direct}
	} else {
		matches = s.Search(ctx, name, 5)
	}

	var aggregated []UniversityEntry
	for _, record := range matches {
		aggregated = append(aggregated, UniversityEntries(record)...)
		if len(aggregated) >= 50 {
			break
		}
	}
	if len(aggregated) == 0 {
		return nil, domain.ErrMajorNotFound
	}
	return aggregated, nil
}

// UniversityEntries flattens a record's offerings into display rows,
// deduplicated by (school, department, campus).
func UniversityEntries(record major.Record) []UniversityEntry {
	type key struct{ school, dept, campus string }
	seen := make(map[key]bool)

	var entries []UniversityEntry
	for _, o := range record.Offerings() {
		school := strings.TrimSpace(o.School)
		if school == "" {
			continue
		}
		campus := strings.TrimSpace(o.Campus)
		area := strings.TrimSpace(o.Area)

		deptLabel := strings.TrimSpace(o.MajorName)
		if deptLabel == "" {
			deptLabel = record.Name()
		}

		k := key{school: school, dept: deptLabel, campus: campus}
		if seen[k] {
			continue
		}
		seen[k] = true

		college := campus
		if college == "" {
			college = area
		}

		entry := UniversityEntry{
			University: school,
			College:    college,
			Department: deptLabel,
			Area:       area,
			Campus:     campus,
			URL:        strings.TrimSpace(o.URL),
		}
		if record.Name() != deptLabel {
			entry.StandardMajorName = record.Name()
		}
		entries = append(entries, entry)
	}
	return entries
}

// SplitJobs splits the raw employment text into individual job names.
// Single-rune fragments are noise and dropped.
func SplitJobs(jobText string) []string {
	if jobText == "" {
		return nil
	}
	var cleaned []string
	for _, part := range listRe.Split(jobText, -1) {
		p := strings.TrimSpace(part)
		if utf8.RuneCountInString(p) > 1 {
			cleaned = append(cleaned, p)
		}
	}
	return dedupPreserveOrder(cleaned)
}

// ParseQualifications normalizes the free-form qualifications text into
// a joined string and a deduplicated list.
func ParseQualifications(raw string) (string, []string) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", nil
	}
	var tokens []string
	for _, part := range listRe.Split(text, -1) {
		if p := strings.TrimSpace(part); p != "" {
			tokens = append(tokens, p)
		}
	}
	deduped := dedupPreserveOrder(tokens)
	return strings.Join(deduped, ", "), deduped
}

// StripHTML replaces markup tags with spaces.
func StripHTML(v string) string {
	return htmlTagRe.ReplaceAllString(v, " ")
}

func cleanEnterFields(fields []major.EnterField) []major.EnterField {
	var out []major.EnterField
	for _, f := range fields {
		category := strings.TrimSpace(f.Category)
		description := strings.TrimSpace(StripHTML(f.Description))
		if category == "" && description == "" {
			continue
		}
		out = append(out, major.EnterField{Category: category, Description: description})
	}
	return out
}

func cleanActivities(activities []major.Activity) []major.Activity {
	var out []major.Activity
	for _, a := range activities {
		name := strings.TrimSpace(a.Name)
		description := strings.TrimSpace(StripHTML(a.Description))
		if name == "" && description == "" {
			continue
		}
		out = append(out, major.Activity{Name: name, Description: description})
	}
	return out
}

func cleanSubjects(subjects []major.Subject) []major.Subject {
	var out []major.Subject
	for _, sub := range subjects {
		name := strings.TrimSpace(sub.Name)
		summary := strings.TrimSpace(StripHTML(sub.Summary))
		if name == "" && summary == "" {
			continue
		}
		out = append(out, major.Subject{Name: name, Summary: summary})
	}
	return out
}
