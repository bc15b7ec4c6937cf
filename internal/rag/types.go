package rag

// QueryRequest represents one question against the indexed reports.
type QueryRequest struct {
	// Query is the user's question.
	Query string `json:"query"`
	// Company optionally restricts retrieval to one company (e.g. "TCS").
	// Auto-detected from the query text when empty.
	Company string `json:"company,omitempty"`
	// Year optionally restricts retrieval to one fiscal year (e.g.
	// "FY2024-25"). Auto-detected from the query text when empty.
	Year string `json:"year,omitempty"`
	// TopK optionally overrides the configured result count.
	TopK int `json:"top_k,omitempty"`
}

// Source is one citation card attributing part of the answer. Two chunks
// from the same company, year, and section collapse into a single Source.
type Source struct {
	Company    string `json:"company"`
	Year       string `json:"year"`
	Section    string `json:"section"`
	ChunkIndex int    `json:"chunk_index"`
}

// QueryResult is the structured answer returned to the caller. Company and
// Year report the filters that were actually applied, with "All Companies"
// and "All Years" standing in when no filter was active.
type QueryResult struct {
	Answer  string   `json:"answer"`
	Sources []Source `json:"sources"`
	Intent  string   `json:"intent"`
	Company string   `json:"company"`
	Year    string   `json:"year"`
}
