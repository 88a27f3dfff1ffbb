package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/club-attendance/internal/summarizer"
)

type staticModel struct {
	reply string
	err   error
}

func (m staticModel) Complete(context.Context, []summarizer.Message) (string, error) {
	return m.reply, m.err
}

func TestRunSummaries(t *testing.T) {
	t.Parallel()

	newConfig := func(t *testing.T) Config {
		t.Helper()
		in := t.TempDir()
		text := strings.Repeat("Our next speaker talked about leadership. ", 5)
		if err := os.WriteFile(filepath.Join(in, "june.txt"), []byte(text), 0o644); err != nil {
			t.Fatalf("write transcript: %v", err)
		}
		return Config{
			InputDir:      in,
			OutputDir:     t.TempDir(),
			Workers:       1,
			MaxTokens:     summarizer.DefaultMaxTokens,
			OverlapTokens: summarizer.DefaultOverlapTokens,
			LogFormat:     "json",
			LogLevel:      "info",
		}
	}

	t.Run("writes summaries", func(t *testing.T) {
		t.Parallel()

		cfg := newConfig(t)
		var report, logs bytes.Buffer
		if err := runSummaries(context.Background(), cfg, staticModel{reply: "**MEETING SUMMARY:** fine"}, &report, &logs); err != nil {
			t.Fatalf("runSummaries() error = %v", err)
		}
		data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "june_summary.md"))
		if err != nil {
			t.Fatalf("read summary: %v", err)
		}
		if !strings.Contains(string(data), "MEETING SUMMARY") {
			t.Fatalf("summary = %q", data)
		}
		if !strings.Contains(logs.String(), "transcript summarized") {
			t.Fatalf("expected progress log, got %s", logs.String())
		}
		wantLine := "OK      june.txt: ~0 minutes, 30 words -> " + filepath.Join(cfg.OutputDir, "june_summary.md")
		if !strings.Contains(report.String(), wantLine) || !strings.Contains(report.String(), "1 of 1 transcripts summarized") {
			t.Fatalf("unexpected report:\n%s", report.String())
		}
	})

	t.Run("all documents failing is an error", func(t *testing.T) {
		t.Parallel()

		cfg := newConfig(t)
		cfg.InputDir = t.TempDir()
		if err := os.WriteFile(filepath.Join(cfg.InputDir, "tiny.txt"), []byte("hi"), 0o644); err != nil {
			t.Fatalf("write transcript: %v", err)
		}
		var report bytes.Buffer
		if err := runSummaries(context.Background(), cfg, staticModel{err: errors.New("down")}, &report, &bytes.Buffer{}); err == nil {
			t.Fatal("expected error when nothing was summarized")
		}
		if !strings.Contains(report.String(), "FAILED  tiny.txt") {
			t.Fatalf("expected failure in report, got:\n%s", report.String())
		}
	})
}

func TestRootCommand_RequiresAPIKey(t *testing.T) {
	clearEnvironment(t)

	cmd := newRootCmd()
	cmd.SetArgs([]string{"run", "--input-dir", t.TempDir()})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetOut(&bytes.Buffer{})
	err := cmd.Execute()
	if err == nil || !strings.Contains(err.Error(), "APIKey") {
		t.Fatalf("expected missing api key error, got %v", err)
	}
}
