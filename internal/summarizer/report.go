package summarizer

import (
	"io"
	"path/filepath"
)

// WriteReport prints one line per result followed by a success count. Each
// line carries the outcome, estimated duration, word count and output file,
// or the failure reason.
func WriteReport(w io.Writer, results []Result) error {
	succeeded := 0
	for _, res := range results {
		name := filepath.Base(res.Input)
		if res.Err != nil {
			if _, err := numbers.Fprintf(w, "FAILED  %s: %v\n", name, res.Err); err != nil {
				return err
			}
			continue
		}
		succeeded++
		if _, err := numbers.Fprintf(w, "OK      %s: %s, %d words -> %s", name, res.Analysis.Duration(), res.Analysis.WordCount, res.Output); err != nil {
			return err
		}
		if res.FailedChunks > 0 {
			if _, err := numbers.Fprintf(w, " (%d of %d chunks failed)", res.FailedChunks, res.Chunks); err != nil {
				return err
			}
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	_, err := numbers.Fprintf(w, "%d of %d transcripts summarized\n", succeeded, len(results))
	return err
}
