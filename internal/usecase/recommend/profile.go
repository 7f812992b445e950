package recommend

import (
	"fmt"
	"sort"
	"strings"
)

// profileFields maps onboarding answer keys to the Korean labels used
// in the profile text, in presentation order.
var profileFields = []struct {
	key   string
	label string
}{
	{"preferred_majors", "관심 전공"},
	{"subjects", "좋아하는 과목"},
	{"interests", "관심사/취미"},
	{"activities", "교내/대외 활동"},
	{"desired_salary", "희망 연봉"},
	{"career_goal", "진로 목표"},
	{"strengths", "강점"},
}

// BuildProfileText folds onboarding answers into one embeddable text
// block. Known fields come first with their labels, unknown fields
// follow in sorted key order, and the fallback question closes the
// block. Empty answers and question yield an empty string.
func BuildProfileText(answers map[string]any, fallbackQuestion string) string {
	if len(answers) == 0 && strings.TrimSpace(fallbackQuestion) == "" {
		return ""
	}

	var sections []string
	used := make(map[string]bool, len(profileFields))

	for _, f := range profileFields {
		used[f.key] = true
		if formatted := formatProfileValue(answers[f.key]); formatted != "" {
			sections = append(sections, f.label+": "+formatted)
		}
	}

	extras := make([]string, 0, len(answers))
	for key := range answers {
		if !used[key] {
			extras = append(extras, key)
		}
	}
	sort.Strings(extras)
	for _, key := range extras {
		if formatted := formatProfileValue(answers[key]); formatted != "" {
			sections = append(sections, key+": "+formatted)
		}
	}

	if q := strings.TrimSpace(fallbackQuestion); q != "" {
		sections = append(sections, "추가 요청: "+q)
	}

	return strings.TrimSpace(strings.Join(sections, "\n"))
}

// formatProfileValue flattens the loosely typed onboarding values
// (strings, lists, nested maps) into a single line.
func formatProfileValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(v)
	case []string:
		items := make([]string, 0, len(v))
		for _, item := range v {
			if s := strings.TrimSpace(item); s != "" {
				items = append(items, s)
			}
		}
		return strings.Join(items, ", ")
	case []any:
		items := make([]string, 0, len(v))
		for _, item := range v {
			if s := strings.TrimSpace(fmt.Sprint(item)); s != "" {
				items = append(items, s)
			}
		}
		return strings.Join(items, ", ")
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var parts []string
		for _, key := range keys {
			if sub := formatProfileValue(v[key]); sub != "" {
				parts = append(parts, key+": "+sub)
			}
		}
		return strings.Join(parts, "; ")
	default:
		return strings.TrimSpace(fmt.Sprint(v))
	}
}
