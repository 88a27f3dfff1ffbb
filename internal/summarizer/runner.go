package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultWorkers bounds concurrent document processing when Options.Workers is unset.
const DefaultWorkers = 3

// ErrNoTranscripts is returned when the input directory holds no transcript files.
var ErrNoTranscripts = errors.New("summarizer: no transcript files found")

// TranscriptPatterns are the file globs considered transcripts.
var TranscriptPatterns = []string{"*.txt", "*.md", "*.text", "*.transcript"}

// Model completes a chat conversation.
type Model interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

// Options configures a Runner.
type Options struct {
	InputDir  string
	OutputDir string
	// Workers defaults to DefaultWorkers when zero or negative.
	Workers int
	// MaxTokens defaults to DefaultMaxTokens when zero or negative.
	MaxTokens int
	// OverlapTokens is taken as given, so zero means no overlap. Only a
	// negative value selects DefaultOverlapTokens.
	OverlapTokens int
	// ChunkDelay pauses between chunk requests of one document.
	ChunkDelay time.Duration
}

// Result describes the outcome for one transcript file.
type Result struct {
	Input        string
	Output       string
	Encoding     string
	Analysis     Analysis
	Chunks       int
	FailedChunks int
	Err          error
}

// Runner summarizes every transcript in a directory.
type Runner struct {
	model  Model
	opts   Options
	logger *slog.Logger
	sleep  func(context.Context, time.Duration) error
}

// NewRunner constructs a Runner with default chunking and worker settings.
func NewRunner(model Model, opts Options, logger *slog.Logger) *Runner {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.OverlapTokens < 0 {
		opts.OverlapTokens = DefaultOverlapTokens
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "summaries"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{model: model, opts: opts, logger: logger, sleep: sleepContext}
}

// Discover lists transcript files in dir, sorted and without duplicates.
func Discover(dir string) ([]string, error) {
	seen := make(map[string]struct{})
	var files []string
	for _, pattern := range TranscriptPatterns {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", pattern, err)
		}
		for _, match := range matches {
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = struct{}{}
			files = append(files, match)
		}
	}
	sort.Strings(files)
	return files, nil
}

// Run processes all discovered transcripts. Per-file failures are reported in
// the returned results; the error is non-nil only when nothing could start or
// ctx was cancelled.
func (r *Runner) Run(ctx context.Context) ([]Result, error) {
	files, err := Discover(r.opts.InputDir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoTranscripts, r.opts.InputDir)
	}
	if err := os.MkdirAll(r.opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	r.logger.Info("summarizing transcripts", "files", len(files), "workers", r.opts.Workers)

	results := make([]Result, len(files))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.opts.Workers)
	for i, file := range files {
		g.Go(func() error {
			results[i] = r.processFile(gctx, file)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}

	succeeded := 0
	for _, res := range results {
		if res.Err == nil {
			succeeded++
		}
	}
	r.logger.Info("summarization finished", "succeeded", succeeded, "total", len(results))
	return results, nil
}

func (r *Runner) processFile(ctx context.Context, path string) (res Result) {
	res.Input = path
	logger := r.logger.With("file", filepath.Base(path))
	start := time.Now()
	defer func() {
		if res.Err != nil {
			logger.Error("transcript failed", "error", res.Err)
			return
		}
		logger.Info("transcript summarized",
			"output", res.Output,
			"chunks", res.Chunks,
			"failed_chunks", res.FailedChunks,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}()

	raw, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("read transcript: %w", err)
		return res
	}
	text, encoding, err := decodeTranscript(raw)
	if err != nil {
		res.Err = err
		return res
	}
	res.Encoding = encoding

	if len([]rune(strings.TrimSpace(text))) < MinTranscriptLength {
		res.Err = fmt.Errorf("%w: %s", ErrTranscriptTooShort, filepath.Base(path))
		return res
	}

	summary, stats, err := r.summarize(ctx, text)
	res.Analysis = stats.analysis
	res.Chunks = stats.chunks
	res.FailedChunks = stats.failed
	if err != nil {
		res.Err = err
		return res
	}

	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	res.Output = filepath.Join(r.opts.OutputDir, base+"_summary.md")
	if err := os.WriteFile(res.Output, []byte(summary), 0o644); err != nil {
		res.Err = fmt.Errorf("write summary: %w", err)
		res.Output = ""
	}
	return res
}

type summaryStats struct {
	analysis Analysis
	chunks   int
	failed   int
}

// summarize cleans, chunks and summarizes one transcript. A failed chunk is
// recorded inline in the combined output rather than aborting the document.
func (r *Runner) summarize(ctx context.Context, text string) (string, summaryStats, error) {
	cleaned := Clean(text)
	analysis := Analyze(cleaned)
	chunks := Chunk(cleaned, r.opts.MaxTokens, r.opts.OverlapTokens)
	stats := summaryStats{analysis: analysis, chunks: len(chunks)}

	summaries := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		if i > 0 && r.opts.ChunkDelay > 0 {
			if err := r.sleep(ctx, r.opts.ChunkDelay); err != nil {
				return "", stats, err
			}
		}
		summary, err := r.model.Complete(ctx, BuildMessages(chunk, i+1, len(chunks), &analysis))
		if err != nil {
			if ctx.Err() != nil {
				return "", stats, ctx.Err()
			}
			stats.failed++
			summaries = append(summaries, fmt.Sprintf("Error processing chunk %d: %v", i+1, err))
			continue
		}
		summaries = append(summaries, summary)
	}
	return Combine(summaries, analysis), stats, nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
