package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/example/club-attendance/internal/llm"
	"github.com/example/club-attendance/internal/summarizer"
)

// Config holds the summarizer settings merged from flags, SUMMARIZER_*
// environment variables and an optional YAML file, in that order of precedence.
type Config struct {
	InputDir      string        `mapstructure:"input_dir" validate:"required"`
	OutputDir     string        `mapstructure:"output_dir" validate:"required"`
	Workers       int           `mapstructure:"workers" validate:"min=1,max=32"`
	MaxTokens     int           `mapstructure:"max_tokens" validate:"min=100"`
	OverlapTokens int           `mapstructure:"overlap_tokens" validate:"min=0,ltfield=MaxTokens"`
	ChunkDelay    time.Duration `mapstructure:"chunk_delay" validate:"min=0"`

	BaseURL   string `mapstructure:"base_url" validate:"required,url"`
	APIKey    string `mapstructure:"api_key" validate:"required"`
	Model     string `mapstructure:"model" validate:"required"`
	MaxOutput int    `mapstructure:"max_output_tokens" validate:"min=1"`

	LogFormat string `mapstructure:"log_format" validate:"oneof=json text"`
	LogLevel  string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input_dir", "transcripts")
	v.SetDefault("output_dir", "summaries")
	v.SetDefault("workers", summarizer.DefaultWorkers)
	v.SetDefault("max_tokens", summarizer.DefaultMaxTokens)
	v.SetDefault("overlap_tokens", summarizer.DefaultOverlapTokens)
	v.SetDefault("chunk_delay", time.Second)
	v.SetDefault("base_url", llm.DefaultBaseURL)
	v.SetDefault("model", llm.DefaultModel)
	v.SetDefault("max_output_tokens", llm.DefaultMaxTokens)
	v.SetDefault("log_format", "text")
	v.SetDefault("log_level", "info")
}

// registerFlags declares the run flags. Flag names use dashes and map to the
// underscore keys of Config.
func registerFlags(flags *pflag.FlagSet) {
	flags.String("input-dir", "", "directory containing transcript files")
	flags.String("output-dir", "", "directory summaries are written to")
	flags.Int("workers", 0, "documents processed concurrently")
	flags.Int("max-tokens", 0, "chunk size in estimated tokens")
	flags.Int("overlap-tokens", 0, "overlap between chunks in estimated tokens")
	flags.Duration("chunk-delay", 0, "pause between chunk requests of one document")
	flags.String("base-url", "", "OpenAI-compatible API base URL")
	flags.String("model", "", "chat model name")
	flags.String("log-format", "", "log format: json or text")
	flags.String("log-level", "", "log level: debug, info, warn or error")
}

// loadConfig merges configuration sources into a validated Config.
// GROQ_API_KEY is accepted as a fallback for SUMMARIZER_API_KEY.
func loadConfig(flags *pflag.FlagSet, configFile string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SUMMARIZER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api_key", "SUMMARIZER_API_KEY", "GROQ_API_KEY"); err != nil {
		return Config{}, fmt.Errorf("bind api key: %w", err)
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	if flags != nil {
		var bindErr error
		flags.VisitAll(func(f *pflag.Flag) {
			if bindErr == nil && f.Name != "config" {
				bindErr = v.BindPFlag(strings.ReplaceAll(f.Name, "-", "_"), f)
			}
		})
		if bindErr != nil {
			return Config{}, fmt.Errorf("bind flags: %w", bindErr)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validateConfig(cfg Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
}
