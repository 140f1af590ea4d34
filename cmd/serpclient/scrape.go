package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/serpclient/internal/catalog"
)

// errScrapeFailed is returned when the session ends in the error state.
var errScrapeFailed = errors.New("scrape failed")

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape [query|index]",
		Short: "Scrape one catalog query and show the results",
		Long: `Scrape asks the backend to search for one catalog query and shows the
returned documents and keyword frequencies.

The query is selected by its catalog number (see "serpclient catalog") or by
its exact text. Without an argument the default query is used.

Results the backend already holds are loaded first, so they stay visible if
the scrape fails.

Examples:
  # Scrape the default query
  serpclient scrape

  # Scrape the second catalog query and write Markdown to a file
  serpclient scrape 2 --markdown -o reports/rnn.md

  # Use a remote backend through a SOCKS5 proxy
  serpclient scrape 3 --backend https://serp.example.com --proxy 127.0.0.1:9050`,
		Args: cobra.MaximumNArgs(1),
		RunE: runScrapeCmd,
	}
	addReportFlags(cmd)
	cmd.Flags().Bool("no-history", false, "Do not store the result in the history database")
	return cmd
}

func runScrapeCmd(cmd *cobra.Command, args []string) (err error) {
	selector := ""
	if len(args) > 0 {
		selector = args[0]
	}
	q, err := catalog.Lookup(selector)
	if err != nil {
		return err
	}

	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	ctx, stop := signal.NotifyContext(contextOf(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess := a.newSession()
	sess.LoadExisting(ctx)

	if !a.cfg.JSONReport && !a.cfg.MarkdownReport {
		fmt.Fprintf(cmd.ErrOrStderr(), "Scraping %q...\n", q)
	}
	if err := sess.Submit(ctx, q); err != nil {
		return err
	}

	state := sess.Snapshot()
	if err := outputReport(cmd, a.cfg, state, q.String()); err != nil {
		return err
	}
	if state.HasError() {
		return fmt.Errorf("%w: %s", errScrapeFailed, state.ErrorMessage)
	}
	return nil
}

// contextOf returns the command context, or Background when the command
// runs without one.
func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
