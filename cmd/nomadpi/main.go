package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"nomadpi-assistant/config"
	"nomadpi-assistant/internal/application"
	"nomadpi-assistant/internal/infra/anthropic"
	"nomadpi-assistant/internal/infra/gemini"
	"nomadpi-assistant/internal/infra/nomadpi"
)

const serviceID = "nomadpi"

var configPath string

var rootCmd = &cobra.Command{
	Use:           "nomadpi",
	Short:         "Voice assistant bridge for the NomadPi camper van controller",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.yaml", "path to config file")
	rootCmd.AddCommand(serveCmd, catalogCmd, callCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads the config and wires the service every command works on.
func setup() (*config.Config, *application.Service, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Log)

	timeout, err := cfg.BackendTimeout()
	if err != nil {
		return nil, nil, nil, err
	}
	backend := nomadpi.NewClient(cfg.Backend.BaseURL, cfg.Backend.Origin, timeout)

	svc := application.NewService(backend, newSummarizer(cfg.Summarizer, logger), logger)
	return cfg, svc, logger, nil
}

func newSummarizer(cfg config.SummarizerConfig, logger *slog.Logger) application.Summarizer {
	switch cfg.Provider {
	case "anthropic":
		return anthropic.NewSummarizer(cfg.APIKey, cfg.Model)
	case "gemini":
		return gemini.NewSummarizer(cfg.APIKey, cfg.Model)
	case "none":
		return &application.PassthroughSummarizer{}
	default:
		logger.Warn("unknown summarizer provider, returning raw state", "provider", cfg.Provider)
		return &application.PassthroughSummarizer{}
	}
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	// stdout carries command output, logs go to stderr.
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}
