package main

import (
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/nao1215/serpclient/internal/aggregate"
	"github.com/nao1215/serpclient/internal/history"
	"github.com/nao1215/serpclient/internal/model"
)

// errHistoryDisabled is returned when history is turned off in the configuration.
var errHistoryDisabled = errors.New("history is disabled in the configuration")

// defaultHistoryLimit is the number of snapshots listed by default.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List or show stored scrape snapshots",
		Long: `History lists the successful scrapes stored in the local database, newest
first. Use --show with an ID from the list, or --latest, to render one
snapshot. Stored payloads are validated again before rendering.

Examples:
  serpclient history
  serpclient history --limit 5
  serpclient history --show 12 --markdown
  serpclient history --latest --json`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}
	addReportFlags(cmd)
	cmd.Flags().IntP("limit", "n", defaultHistoryLimit, "Maximum number of snapshots to list (0 for all)")
	cmd.Flags().Int64("show", 0, "Render the snapshot with this ID")
	cmd.Flags().Bool("latest", false, "Render the most recent snapshot")
	cmd.MarkFlagsMutuallyExclusive("show", "latest")
	return cmd
}

func runHistoryCmd(cmd *cobra.Command, _ []string) (err error) {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	showID, err := cmd.Flags().GetInt64("show")
	if err != nil {
		return err
	}
	latest, err := cmd.Flags().GetBool("latest")
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

	if !a.cfg.History {
		return errHistoryDisabled
	}
	if a.history == nil {
		return fmt.Errorf("history database is not available in %s", a.cfg.HistoryDir)
	}

	ctx := contextOf(cmd)
	if showID > 0 || latest {
		var snap history.Snapshot
		if latest {
			snap, err = a.history.Latest(ctx)
		} else {
			snap, err = a.history.Get(ctx, showID)
		}
		if err != nil {
			return err
		}
		if verr := snap.Verify(); verr != nil {
			a.logger.Warn("stored snapshot changed since it was saved", "id", snap.ID, "error", verr)
		}

		state, err := replaySnapshot(a.newAggregator(), snap)
		if err != nil {
			return fmt.Errorf("snapshot %d: %w", snap.ID, err)
		}
		return outputReport(cmd, a.cfg, state, snap.Query)
	}

	snaps, err := a.history.List(ctx, limit)
	if err != nil {
		return err
	}
	printSnapshots(cmd, a.history.Path(), snaps)
	return nil
}

// replaySnapshot validates a stored payload the same way a live response is
// validated and returns it as an idle state.
func replaySnapshot(agg *aggregate.Aggregator, snap history.Snapshot) (model.SessionState, error) {
	frag, err := agg.AggregatePayload(snap.Payload)
	if err != nil {
		return model.SessionState{}, err
	}
	state := model.NewSessionState()
	state.Results = append(state.Results, frag.Results...)
	state.Analysis = append(state.Analysis, frag.Analysis...)
	return state, nil
}

func printSnapshots(cmd *cobra.Command, dbPath string, snaps []history.Snapshot) {
	if len(snaps) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No snapshots stored yet. Run \"serpclient scrape\" first.")
		return
	}

	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"ID", "Saved At", "Query", "Results", "Keywords", "Digest"})
	for _, s := range snaps {
		t.AppendRow(table.Row{
			s.ID,
			s.SavedAt.Local().Format("2006-01-02 15:04:05"),
			s.Query,
			len(s.Payload.Data),
			len(s.Payload.Analysis),
			s.Digest[:12],
		})
	}
	t.Render()
	fmt.Fprintf(cmd.OutOrStdout(), "Database: %s\n", dbPath)
}
