package summarizer

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numbers = message.NewPrinter(language.English)

// Combine joins per-chunk summaries into one markdown document. A single
// summary is returned unchanged.
func Combine(summaries []string, analysis Analysis) string {
	if len(summaries) == 1 {
		return summaries[0]
	}

	var b strings.Builder
	b.WriteString("# TOASTMASTERS MEETING SUMMARY\n\n")
	b.WriteString("**Meeting Analysis:**\n")
	numbers.Fprintf(&b, "- Estimated Duration: %s\n", analysis.Duration())
	numbers.Fprintf(&b, "- Total Words: %d\n", analysis.WordCount)
	numbers.Fprintf(&b, "- Processed in: %d sections\n\n---\n\n", len(summaries))

	for i, summary := range summaries {
		numbers.Fprintf(&b, "\n## Section %d Analysis:\n\n%s\n\n---\n", i+1, summary)
	}

	b.WriteString("\n## OVERALL MEETING SYNTHESIS:\n\n")
	numbers.Fprintf(&b, "This %s meeting contained %d words of transcript content. ", analysis.Duration(), analysis.WordCount)
	numbers.Fprintf(&b, "The meeting appears to have involved %d main segments with %d question/answer exchanges.\n\n", analysis.Segments, analysis.QuestionCount)
	b.WriteString("The above sections provide a comprehensive breakdown of the meeting content as it progressed chronologically.\n")
	return b.String()
}
