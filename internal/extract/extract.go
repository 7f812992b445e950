// Package extract pulls university, college, department, grade and
// semester facets out of free-text Korean questions with an ordered
// rule cascade.
package extract

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/maroco/majormentor/internal/domain/facet"
)

// UniversityMapping links one official university name to the aliases
// and slang forms students actually type.
type UniversityMapping struct {
	Official string
	Aliases  []string
	Slang    []string
}

var (
	// "공과대학" but not "공과대학교"; the trailing-rune check below
	// replaces the lookahead RE2 does not support.
	collegeRe    = regexp.MustCompile(`[가-힣]+대학`)
	universityRe = regexp.MustCompile(`[가-힣]+대학교|[가-힣]+대`)
	gradeRe      = regexp.MustCompile(`([1-4])학년`)
	semesterRe   = regexp.MustCompile(`([1-2])학기`)
)

// deptPatterns are tried in priority order; the first pattern whose
// candidate survives validation wins.
var deptPatterns = []struct {
	re       *regexp.Regexp
	notAfter string
}{
	{re: regexp.MustCompile(`([가-힣\s]+공학)과`)},
	{re: regexp.MustCompile(`([가-힣\s]+공학)부`)},
	{re: regexp.MustCompile(`([가-힣\s]+)학과`)},
	{re: regexp.MustCompile(`([가-힣\s]+)학부`)},
	{re: regexp.MustCompile(`[가-힣\s]+공학`), notAfter: "과부학"},
}

// deptStoplist rejects generic words the department patterns keep
// matching by accident.
var deptStoplist = map[string]bool{
	"대학": true,
	"학교": true,
	"과목": true,
	"수업": true,
}

// Extractor turns questions into facet sets using the preloaded
// university mapping table.
type Extractor struct {
	universities []UniversityMapping
}

// New creates an extractor over the given university mapping table.
func New(universities []UniversityMapping) *Extractor {
	return &Extractor{universities: universities}
}

// Extract parses a question into facets. Order matters: the college
// rule runs before the university rule so "공과대학" is never read as a
// university, and matched school names are cut out of the text before
// the department patterns run.
func (e *Extractor) Extract(question string) facet.Set {
	facets := facet.Set{}

	collegeFull, college, hasCollege := firstMatch(collegeRe, question, "교")
	if hasCollege {
		facets[facet.College] = college
	}

	var universityFull string
	if !hasCollege {
		if full, raw, ok := firstMatch(universityRe, question, ""); ok {
			universityFull = full
			name := e.NormalizeUniversity(raw)
			if !strings.HasSuffix(name, "대학교") {
				name += "학교"
			}
			facets[facet.University] = name
		}
	}

	deptText := question
	if universityFull != "" {
		deptText = strings.ReplaceAll(deptText, universityFull, "")
	}
	if hasCollege {
		deptText = strings.ReplaceAll(deptText, collegeFull, "")
	}

	for _, p := range deptPatterns {
		_, raw, ok := firstMatch(p.re, deptText, p.notAfter)
		if !ok {
			continue
		}
		name := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
		if utf8.RuneCountInString(name) < 2 {
			continue
		}
		if deptStoplist[name] {
			continue
		}
		facets[facet.Department] = name
		break
	}

	if m := gradeRe.FindStringSubmatch(question); m != nil {
		facets[facet.Grade] = m[1] + "학년"
	}
	if m := semesterRe.FindStringSubmatch(question); m != nil {
		facets[facet.Semester] = m[1] + "학기"
	}

	return facets
}

// NormalizeUniversity resolves an alias or slang form to the official
// university name. Unknown names pass through unchanged.
func (e *Extractor) NormalizeUniversity(name string) string {
	for _, u := range e.universities {
		for _, alias := range u.Aliases {
			if name == alias {
				return u.Official
			}
		}
		for _, slang := range u.Slang {
			if name == slang {
				return u.Official
			}
		}
		if name == u.Official {
			return u.Official
		}
	}
	return name
}

// NormalizeDepartment strips one trailing 과 or 부 suffix so the base
// form can be fanned out into fuzzy variants later.
func NormalizeDepartment(name string) string {
	if strings.HasSuffix(name, "과") {
		return strings.TrimSuffix(name, "과")
	}
	if strings.HasSuffix(name, "부") {
		return strings.TrimSuffix(name, "부")
	}
	return name
}

// firstMatch returns the first match of re in text whose following rune
// is not in notAfter. The second return value is capture group 1 when
// the pattern has one, the full match otherwise.
func firstMatch(re *regexp.Regexp, text, notAfter string) (full, group string, ok bool) {
	for _, loc := range re.FindAllStringSubmatchIndex(text, -1) {
		if notAfter != "" {
			if r, size := utf8.DecodeRuneInString(text[loc[1]:]); size > 0 && strings.ContainsRune(notAfter, r) {
				continue
			}
		}
		full = text[loc[0]:loc[1]]
		group = full
		if len(loc) >= 4 && loc[2] >= 0 {
			group = text[loc[2]:loc[3]]
		}
		return full, group, true
	}
	return "", "", false
}
