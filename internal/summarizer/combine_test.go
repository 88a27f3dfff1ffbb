package summarizer

import (
	"strings"
	"testing"
)

func TestCombine(t *testing.T) {
	t.Parallel()

	analysis := Analysis{WordCount: 12345, EstimatedMinutes: 82.3, Segments: 4, QuestionCount: 7}

	if got := Combine([]string{"only one"}, analysis); got != "only one" {
		t.Fatalf("single summary should be returned unchanged, got %q", got)
	}

	got := Combine([]string{"first", "second"}, analysis)
	for _, want := range []string{
		"# TOASTMASTERS MEETING SUMMARY",
		"Estimated Duration: ~82 minutes",
		"Total Words: 12,345",
		"Processed in: 2 sections",
		"## Section 1 Analysis:\n\nfirst",
		"## Section 2 Analysis:\n\nsecond",
		"## OVERALL MEETING SYNTHESIS:",
		"4 main segments with 7 question/answer exchanges",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("combined summary missing %q:\n%s", want, got)
		}
	}
	if strings.Index(got, "Section 1") > strings.Index(got, "Section 2") {
		t.Fatal("sections out of order")
	}
}
