package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/serpclient/internal/transport"
)

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the backend and proxy",
		Long: `Status checks that the configured SOCKS5 proxy (if any) accepts connections
and that the backend answers its health endpoint.`,
		Args: cobra.NoArgs,
		RunE: runStatusCmd,
	}
}

func runStatusCmd(cmd *cobra.Command, _ []string) (err error) {
	a, err := newApp(cmd, false)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	ctx := contextOf(cmd)
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Backend:  %s\n", a.cfg.BackendURL)

	proxyStatus := a.transport.CheckProxy(ctx)
	if proxyStatus == transport.ProxyStatusDirect {
		fmt.Fprintf(out, "Proxy:    %s\n", proxyStatus)
	} else {
		fmt.Fprintf(out, "Proxy:    %s (%s)\n", a.transport.ProxyAddress(), proxyStatus)
	}
	if perr := proxyStatus.Error(); perr != nil {
		return fmt.Errorf("proxy check failed: %w", perr)
	}

	health, err := a.client.Health(ctx)
	if err != nil {
		fmt.Fprintln(out, "Health:   unavailable")
		return fmt.Errorf("backend health check failed: %w", err)
	}
	fmt.Fprintf(out, "Health:   %s (%s)\n", health.Status, health.Message)
	return nil
}
