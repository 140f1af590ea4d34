package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nao1215/serpclient/internal/catalog"
)

// NewCatalogCmd creates the catalog command.
func NewCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the research queries that can be scraped",
		Long: `List the fixed catalog of research queries.

The number in front of each query can be passed to "serpclient scrape".`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			printCatalog(cmd.OutOrStdout())
		},
	}
}

func printCatalog(out io.Writer) {
	for i, q := range catalog.All() {
		marker := ""
		if q == catalog.Default() {
			marker = " (default)"
		}
		fmt.Fprintf(out, "  %d. %s%s\n", i+1, q, marker)
	}
}
