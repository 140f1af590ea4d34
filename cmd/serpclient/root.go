package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nao1215/serpclient/internal/config"
)

// NewRootCmd creates the root command for serpclient.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serpclient",
		Short: "Client for a literature-search scraping backend",
		Long: `serpclient drives a scraping backend that searches academic literature for a
fixed catalog of research queries and analyses keyword frequencies.

Only one scrape runs at a time. Results already computed by the backend are
loaded when a session starts. Backend failures are reported with a generic
message and never discard results that are already shown.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	pf := cmd.PersistentFlags()
	pf.BoolP("verbose", "v", false, "Enable verbose logging")
	pf.Bool("log-json", false, "Write logs as JSON")
	pf.StringP("config", "c", "",
		"Configuration file path (default: .serpclient in current or home directory, then XDG config dir)")
	pf.StringP("backend", "b", config.DefaultBackendURL, "Base URL of the scraping backend")
	pf.DurationP("timeout", "t", config.DefaultTimeout, "Timeout for each backend request")
	pf.String("proxy", "", "SOCKS5 proxy address (host:port) for backend requests")
	pf.Bool("strict", false, "Reject a whole payload when any record is malformed")
	pf.String("metrics-file", "", "Write session metrics in Prometheus text format to this file on exit")

	cmd.AddCommand(NewCatalogCmd())
	cmd.AddCommand(NewResultsCmd())
	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewInteractiveCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
