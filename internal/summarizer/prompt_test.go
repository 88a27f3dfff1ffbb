package summarizer

import (
	"strings"
	"testing"
)

func TestBuildMessages(t *testing.T) {
	t.Parallel()

	analysis := Analyze(numberedWords(1500))
	msgs := BuildMessages("chunk text", 2, 3, &analysis)
	if len(msgs) != 2 || msgs[0].Role != "system" || msgs[1].Role != "user" {
		t.Fatalf("unexpected messages: %+v", msgs)
	}
	user := msgs[1].Content
	for _, want := range []string{
		"(Part 2 of 3)",
		"approximately ~10 minutes with 1500 words total",
		"**MEETING SUMMARY:**",
		"**MAIN CONTENT AREAS:**",
		"**NOTABLE DISCUSSIONS:**",
		"**PARTICIPATION & ENGAGEMENT:**",
		"**KEY TAKEAWAYS:**",
		"Raw transcript text:\nchunk text",
	} {
		if !strings.Contains(user, want) {
			t.Fatalf("user prompt missing %q", want)
		}
	}

	single := BuildMessages("only", 1, 1, nil)
	if strings.Contains(single[1].Content, "Part 1") || strings.Contains(single[1].Content, "Context:") {
		t.Fatalf("single chunk prompt should omit part and context: %q", single[1].Content)
	}
}
