package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/serpclient/internal/catalog"
	"github.com/nao1215/serpclient/internal/model"
	"github.com/nao1215/serpclient/internal/report"
	"github.com/nao1215/serpclient/internal/session"
)

const interactiveHelp = `Commands:
  <number>   scrape the catalog query with that number
  <text>     scrape the catalog query with exactly that text
  list       show the catalog
  show       show the current results
  quit       exit
`

// NewInteractiveCmd creates the interactive command.
func NewInteractiveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interactive",
		Short: "Run an interactive scraping session",
		Long: `Interactive starts a session that stays open until you quit.

Existing backend results are loaded in the background while the prompt is
already usable. Each selection starts one scrape; the view is redrawn whenever
the session changes. While a scrape is running, further selections are
refused until it completes.`,
		Aliases: []string{"i"},
		Args:    cobra.NoArgs,
		RunE:    runInteractiveCmd,
	}
	cmd.Flags().Bool("no-history", false, "Do not store results in the history database")
	return cmd
}

// lockedWriter serializes writes from the prompt loop and session listeners.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

func runInteractiveCmd(cmd *cobra.Command, _ []string) (err error) {
	a, err := newApp(cmd, true)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	out := &lockedWriter{w: cmd.OutOrStdout()}
	sess := a.newSession()
	unsubscribe := sess.Subscribe(func(st model.SessionState) {
		renderTransition(out, st)
	})
	defer unsubscribe()

	fmt.Fprintln(out, "Research queries:")
	printCatalog(out)
	fmt.Fprint(out, interactiveHelp)

	// Submissions use the command context so that leaving the prompt does
	// not cancel a scrape that is still running.
	base := contextOf(cmd)
	g, gctx := errgroup.WithContext(base)
	g.Go(func() error {
		if !sess.LoadExisting(gctx) {
			a.logger.Debug("no existing results loaded")
		}
		return nil
	})
	g.Go(func() error {
		return promptLoop(base, cmd.InOrStdin(), out, sess)
	})

	err = g.Wait()
	sess.Wait()
	return err
}

// renderTransition redraws the view after a state change.
func renderTransition(out io.Writer, st model.SessionState) {
	if st.Status == model.StatusLoading {
		fmt.Fprintln(out, "Scraping in progress...")
		return
	}
	if _, err := report.NewSimpleWriter(out).Write(st); err != nil {
		fmt.Fprintf(out, "failed to render: %v\n", err)
	}
}

// promptLoop reads selections until quit or end of input.
func promptLoop(ctx context.Context, in io.Reader, out io.Writer, sess *session.Session) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "":
			continue
		case "q", "quit", "exit":
			return nil
		case "h", "help", "?":
			fmt.Fprint(out, interactiveHelp)
			continue
		case "l", "list":
			printCatalog(out)
			continue
		case "s", "show":
			renderTransition(out, sess.Snapshot())
			continue
		}

		q, err := catalog.Lookup(line)
		if err != nil {
			fmt.Fprintf(out, "%v\n", err)
			continue
		}

		switch err := sess.SubmitAsync(ctx, q); {
		case errors.Is(err, session.ErrBusy):
			fmt.Fprintln(out, "A scrape is already running; wait for it to finish.")
		case err != nil:
			fmt.Fprintf(out, "%v\n", err)
		}
	}
}
