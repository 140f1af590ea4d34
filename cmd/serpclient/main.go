// Package main provides the entry point for the serpclient CLI.
//
// serpclient is the client of a literature-search scraping backend. It asks
// the backend to scrape one of a fixed set of research queries and shows the
// returned documents together with a keyword frequency chart.
//
// Usage:
//
//	serpclient catalog
//	serpclient scrape 2
//	serpclient interactive
//
// See --help for all available options.
package main

func main() {
	Execute()
}
