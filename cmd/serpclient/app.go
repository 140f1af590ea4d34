package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/nao1215/serpclient/internal/aggregate"
	"github.com/nao1215/serpclient/internal/backend"
	"github.com/nao1215/serpclient/internal/config"
	"github.com/nao1215/serpclient/internal/history"
	"github.com/nao1215/serpclient/internal/log"
	"github.com/nao1215/serpclient/internal/model"
	"github.com/nao1215/serpclient/internal/report"
	"github.com/nao1215/serpclient/internal/session"
	"github.com/nao1215/serpclient/internal/transport"
)

// app holds the components shared by the commands that talk to the backend.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	transport *transport.Transport
	client    *backend.Client
	registry  *prometheus.Registry
	metrics   *session.Metrics
	history   *history.Store
}

// addReportFlags registers the output format flags on cmd.
func addReportFlags(cmd *cobra.Command) {
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write the report to the specified file path (creates directories if needed)")
}

// buildConfig layers defaults, the configuration file and the flags that
// were set explicitly.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit path that does not exist is an error; a missing default
	// file is not.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		if err := file.ApplyTo(cfg); err != nil {
			return nil, fmt.Errorf("config file %s: %w", configPath, err)
		}
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	if cfg.Verbose, err = flags.GetBool("verbose"); err != nil {
		return nil, err
	}
	if cfg.LogJSON, err = flags.GetBool("log-json"); err != nil {
		return nil, err
	}

	if flags.Changed("backend") {
		if cfg.BackendURL, err = flags.GetString("backend"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("timeout") {
		if cfg.Timeout, err = flags.GetDuration("timeout"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("proxy") {
		if cfg.Proxy, err = flags.GetString("proxy"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("strict") {
		if cfg.StrictValidation, err = flags.GetBool("strict"); err != nil {
			return nil, err
		}
	}
	if flags.Changed("metrics-file") {
		if cfg.MetricsFile, err = flags.GetString("metrics-file"); err != nil {
			return nil, err
		}
	}
	if flags.Lookup("no-history") != nil {
		noHistory, err := flags.GetBool("no-history")
		if err != nil {
			return nil, err
		}
		if noHistory {
			cfg.History = false
		}
	}

	if flags.Lookup("json") != nil {
		if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
			return nil, err
		}
		if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
			return nil, err
		}
		if cfg.ReportFile, err = flags.GetString("output"); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return cfg, nil
}

// setupLogger creates the secure logger and makes it the default.
func setupLogger(cfg *config.Config) *slog.Logger {
	logger := log.NewLogger(os.Stderr, log.Options{
		Verbose: cfg.Verbose,
		JSON:    cfg.LogJSON,
	})
	slog.SetDefault(logger)
	return logger
}

// newApp builds the shared components from the command's flags.
// withHistory opens the history database when history is enabled.
func newApp(cmd *cobra.Command, withHistory bool) (*app, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}
	logger := setupLogger(cfg)

	opts := []transport.Option{
		transport.WithTimeout(cfg.Timeout),
		transport.WithHeaders(cfg.Headers),
	}
	if cfg.Proxy != "" {
		opts = append(opts, transport.WithProxy(cfg.Proxy))
	}
	tr, err := transport.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create transport: %w", err)
	}

	registry := prometheus.NewRegistry()
	a := &app{
		cfg:       cfg,
		logger:    logger,
		transport: tr,
		client:    backend.NewClient(cfg.BackendURL, tr.HTTPClient(), backend.WithLogger(logger)),
		registry:  registry,
		metrics:   session.NewMetrics(registry),
	}

	if withHistory && cfg.History {
		store, err := history.Open(cfg.HistoryDir, history.DefaultOptions())
		if err != nil {
			// History is optional; a broken database must not block scraping.
			logger.Warn("history disabled", "dir", cfg.HistoryDir, "error", err)
		} else {
			a.history = store
		}
	}

	logger.Debug("configuration loaded",
		"backend", cfg.BackendURL,
		"timeout", cfg.Timeout,
		"proxy", cfg.Proxy,
		"headers", cfg.Headers,
		"strict", cfg.StrictValidation,
		"history", a.history != nil,
	)
	return a, nil
}

// newSession creates a session wired to the app's components.
func (a *app) newSession() *session.Session {
	opts := []session.Option{
		session.WithLogger(a.logger),
		session.WithMetrics(a.metrics),
		session.WithAggregator(a.newAggregator()),
	}
	if a.history != nil {
		opts = append(opts, session.WithSnapshotSink(a.history))
	}
	return session.New(a.client, opts...)
}

// newAggregator creates an aggregator honoring strictValidation.
func (a *app) newAggregator() *aggregate.Aggregator {
	return aggregate.New(
		aggregate.WithStrict(a.cfg.StrictValidation),
		aggregate.WithLogger(a.logger),
	)
}

// close writes the metrics file and releases resources.
func (a *app) close() error {
	var errs []error
	if a.cfg.MetricsFile != "" {
		if dir := filepath.Dir(a.cfg.MetricsFile); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				errs = append(errs, fmt.Errorf("failed to create metrics directory: %w", err))
			}
		}
		if err := prometheus.WriteToTextfile(a.cfg.MetricsFile, a.registry); err != nil {
			errs = append(errs, fmt.Errorf("failed to write metrics file: %w", err))
		}
	}
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close history: %w", err))
		}
	}
	return errors.Join(errs...)
}

// outputReport writes state in the configured format to stdout or the
// configured file.
func outputReport(cmd *cobra.Command, cfg *config.Config, state model.SessionState, query string) error {
	var output io.Writer = cmd.OutOrStdout()
	if cfg.ReportFile != "" {
		if dir := filepath.Dir(cfg.ReportFile); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	_, err := newWriter(cfg, output, query).Write(state)
	return err
}

func newWriter(cfg *config.Config, output io.Writer, query string) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output, report.WithQuery(query))
	default:
		return report.NewSimpleWriter(output)
	}
}
