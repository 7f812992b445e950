package recommend

import (
	"strings"
	"testing"
)

func TestBuildProfileText_Empty(t *testing.T) {
	if got := BuildProfileText(nil, ""); got != "" {
		t.Errorf("expected empty text, got %q", got)
	}
	if got := BuildProfileText(map[string]any{"subjects": "  "}, "  "); got != "" {
		t.Errorf("expected empty text, got %q", got)
	}
}

func TestBuildProfileText_KnownFieldsLabeledInOrder(t *testing.T) {
	got := BuildProfileText(map[string]any{
		"career_goal":      "AI 엔지니어",
		"preferred_majors": []string{"컴퓨터공학", "산업공학"},
		"subjects":         "수학",
	}, "")

	want := "관심 전공: 컴퓨터공학, 산업공학\n좋아하는 과목: 수학\n진로 목표: AI 엔지니어"
	if got != want {
		t.Errorf("profile text = %q, want %q", got, want)
	}
}

func TestBuildProfileText_ExtraKeysSortedAfterKnown(t *testing.T) {
	got := BuildProfileText(map[string]any{
		"zeta":     "z",
		"alpha":    "a",
		"subjects": "수학",
	}, "")

	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %v", lines)
	}
	if lines[0] != "좋아하는 과목: 수학" || lines[1] != "alpha: a" || lines[2] != "zeta: z" {
		t.Errorf("unexpected lines: %v", lines)
	}
}

func TestBuildProfileText_FallbackQuestionAppended(t *testing.T) {
	got := BuildProfileText(map[string]any{"interests": "로봇"}, " 연봉 높은 전공 알려줘 ")

	want := "관심사/취미: 로봇\n추가 요청: 연봉 높은 전공 알려줘"
	if got != want {
		t.Errorf("profile text = %q, want %q", got, want)
	}
}

func TestBuildProfileText_QuestionOnly(t *testing.T) {
	got := BuildProfileText(nil, "연봉 높은 전공")
	if got != "추가 요청: 연봉 높은 전공" {
		t.Errorf("profile text = %q", got)
	}
}

func TestFormatProfileValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, ""},
		{"string", " 수학 ", "수학"},
		{"string slice", []string{"a", " ", "b"}, "a, b"},
		{"any slice", []any{1, "b"}, "1, b"},
		{"nested map", map[string]any{"b": "2", "a": "1"}, "a: 1; b: 2"},
		{"number", 42, "42"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatProfileValue(tt.in); got != tt.want {
				t.Errorf("formatProfileValue(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
