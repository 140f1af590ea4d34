package main

import (
	"github.com/spf13/cobra"
)

// NewResultsCmd creates the results command.
func NewResultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Show the results the backend has already computed",
		Long: `Fetch the most recent results from the backend without starting a scrape.

If the backend cannot be reached or returns nothing usable, the empty state is
shown; run with --verbose to see why.`,
		Args: cobra.NoArgs,
		RunE: runResultsCmd,
	}
	addReportFlags(cmd)
	return cmd
}

func runResultsCmd(cmd *cobra.Command, _ []string) (err error) {
	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	sess := a.newSession()
	sess.LoadExisting(contextOf(cmd))
	return outputReport(cmd, a.cfg, sess.Snapshot(), "")
}
