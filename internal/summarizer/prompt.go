package summarizer

import (
	"fmt"
	"strings"
)

// Message is one chat turn sent to a language model.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const systemPrompt = `You are an expert at analyzing and summarizing meeting transcripts. You will receive raw transcript text from a Toastmasters meeting that was converted from audio using speech recognition. The text has no speaker labels, timestamps, or formatting.

Your task is to create a clear, structured summary that identifies the key content and activities that took place during the meeting.`

const summarySections = `Please provide a structured summary with these sections:

**MEETING SUMMARY:**
- Overall meeting flow and structure
- Key activities that took place
- Approximate number of speakers/participants

**MAIN CONTENT AREAS:**
- Major topics or presentations discussed
- Key points and themes covered
- Any educational or developmental content

**NOTABLE DISCUSSIONS:**
- Significant conversations or exchanges
- Questions and answers
- Important decisions or announcements

**PARTICIPATION & ENGAGEMENT:**
- Evidence of member participation
- Interactive elements (if any)
- Overall meeting dynamics

**KEY TAKEAWAYS:**
- Main learning points
- Important information shared
- Action items or follow-ups mentioned`

// BuildMessages returns the system and user messages asking for a five
// section summary of chunk, which is part of total.
func BuildMessages(chunk string, part, total int, analysis *Analysis) []Message {
	var user strings.Builder
	user.WriteString("Please analyze and summarize this meeting transcript")
	if total > 1 {
		fmt.Fprintf(&user, " (Part %d of %d)", part, total)
	}
	user.WriteString(". Since this is raw speech-to-text output, there are no speaker labels or clear section markers.")
	if analysis != nil {
		fmt.Fprintf(&user, "\nContext: This appears to be from a meeting transcript of approximately %s with %d words total.", analysis.Duration(), analysis.WordCount)
	}
	user.WriteString("\n\n")
	user.WriteString(summarySections)
	user.WriteString("\n\nRaw transcript text:\n")
	user.WriteString(chunk)

	return []Message{
		{Role: "system", Content: systemPrompt},
		{Role: "user", Content: user.String()},
	}
}
