package model

// ScrapeResult represents one discovered document for a query.
// Values are immutable once produced by the aggregator; the owning
// SessionState hands out copies only.
type ScrapeResult struct {
	// Query is the catalog query the document was found for.
	Query string `json:"query"`

	// Title is the document title as reported by the backend.
	Title string `json:"title"`

	// Link is the document URL. The backend promises absolute URLs but
	// uses "#" as a placeholder when scraping a query failed.
	Link string `json:"link"`
}

// AnalysisEntry is one detected model or technique name together with how
// many scraped documents mentioned it.
type AnalysisEntry struct {
	// Name is unique within the analysis sequence of one snapshot.
	Name string `json:"name"`

	// Count is never negative.
	Count int `json:"count"`
}

// Payload is the body returned by both GET /results and POST /scrape.
// Additional keys such as "status" or "total_results" are ignored.
type Payload struct {
	Data     []ScrapeResult  `json:"data"`
	Analysis []AnalysisEntry `json:"analysis"`
}

// ScrapeRequest is the body sent to POST /scrape.
type ScrapeRequest struct {
	Queries []string `json:"queries"`
}
