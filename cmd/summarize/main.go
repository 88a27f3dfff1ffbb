package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/club-attendance/internal/llm"
	"github.com/example/club-attendance/internal/logging"
	"github.com/example/club-attendance/internal/summarizer"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "summarize",
		Short:         "Summarize meeting transcripts with a chat model",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	var configFile string
	root.PersistentFlags().StringVar(&configFile, "config", "", "optional YAML config file")

	run := &cobra.Command{
		Use:   "run",
		Short: "Summarize every transcript in the input directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags(), configFile)
			if err != nil {
				return err
			}
			return runSummaries(cmd.Context(), cfg, nil, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	registerFlags(run.Flags())
	root.AddCommand(run)
	return root
}

// runSummaries executes one batch and prints a per-file report to out. A nil
// model uses the configured chat API.
func runSummaries(ctx context.Context, cfg Config, model summarizer.Model, out, logOutput io.Writer) error {
	logger := logging.New(logOutput, cfg.LogFormat, cfg.LogLevel)

	if model == nil {
		model = llm.NewChatClient(llm.Config{
			BaseURL:   cfg.BaseURL,
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxOutput,
		})
	}

	runner := summarizer.NewRunner(model, summarizer.Options{
		InputDir:      cfg.InputDir,
		OutputDir:     cfg.OutputDir,
		Workers:       cfg.Workers,
		MaxTokens:     cfg.MaxTokens,
		OverlapTokens: cfg.OverlapTokens,
		ChunkDelay:    cfg.ChunkDelay,
	}, logger)

	results, err := runner.Run(ctx)
	if err != nil {
		return err
	}

	if err := summarizer.WriteReport(out, results); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
		}
	}
	if failed == len(results) {
		return errors.New("no transcripts were summarized")
	}
	return nil
}
