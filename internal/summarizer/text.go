package summarizer

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	// DefaultMaxTokens is the chunk size in estimated tokens.
	DefaultMaxTokens = 4000
	// DefaultOverlapTokens is the overlap between consecutive chunks.
	DefaultOverlapTokens = 400

	wordsPerToken  = 0.75
	wordsPerMinute = 150
)

var (
	bracketed     = regexp.MustCompile(`\[.*?\]`)
	whitespace    = regexp.MustCompile(`\s+`)
	sentenceSplit = regexp.MustCompile(`[.!?]+`)

	transitionPhrases = []string{"thank you", "next speaker", "now we", "moving on", "our next"}
)

// Clean normalises raw speech-to-text output: bracketed artefacts such as
// [MUSIC] or [APPLAUSE] are dropped and whitespace runs collapse to one space.
func Clean(text string) string {
	text = whitespace.ReplaceAllString(text, " ")
	text = bracketed.ReplaceAllString(text, "")
	text = whitespace.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// Chunk splits text into overlapping word windows sized from token budgets.
// Non-final windows end after the last sentence-ending word found in their
// final tenth, when there is one.
func Chunk(text string, maxTokens, overlapTokens int) []string {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	if overlapTokens < 0 {
		overlapTokens = 0
	}

	words := strings.Fields(text)
	perChunk := int(float64(maxTokens) * wordsPerToken)
	overlap := int(float64(overlapTokens) * wordsPerToken)
	if perChunk < 1 {
		perChunk = 1
	}
	if len(words) <= perChunk {
		return []string{text}
	}

	var chunks []string
	start := 0
	for start < len(words) {
		end := min(start+perChunk, len(words))

		if end < len(words) {
			zoneStart := max(end-int(float64(perChunk)*0.1), start+1)
			for i := end - 1; i >= zoneStart; i-- {
				if endsSentence(words[i]) {
					end = i + 1
					break
				}
			}
		}

		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end >= len(words) {
			break
		}

		next := end - overlap
		if next <= start {
			next = end
		}
		start = next
	}
	return chunks
}

func endsSentence(word string) bool {
	return strings.HasSuffix(word, ".") || strings.HasSuffix(word, "!") || strings.HasSuffix(word, "?")
}

// Analysis is a rough structural profile of a transcript.
type Analysis struct {
	Characters       int
	WordCount        int
	SentenceCount    int
	QuestionCount    int
	Segments         int
	EstimatedMinutes float64
}

// Duration renders the estimated speaking time, e.g. "~12 minutes".
func (a Analysis) Duration() string {
	return fmt.Sprintf("~%.0f minutes", a.EstimatedMinutes)
}

// Analyze estimates duration at 150 words per minute and counts sentences,
// questions and speech transitions. At least one segment is always reported.
func Analyze(text string) Analysis {
	words := len(strings.Fields(text))
	lower := strings.ToLower(text)

	transitions := 0
	for _, phrase := range transitionPhrases {
		transitions += strings.Count(lower, phrase)
	}

	return Analysis{
		Characters:       len([]rune(text)),
		WordCount:        words,
		SentenceCount:    len(sentenceSplit.Split(text, -1)),
		QuestionCount:    strings.Count(text, "?"),
		Segments:         max(1, transitions),
		EstimatedMinutes: float64(words) / wordsPerMinute,
	}
}
