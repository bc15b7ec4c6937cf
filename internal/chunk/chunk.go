// Package chunk defines the unit of indexed text shared by both ingestion
// paths and the retrieval side.
package chunk

// DocType is a closed enumeration of the two ingestion paths. Keeping it
// typed catches drift between ingestion and retrieval filtering at compile
// time instead of at query time.
type DocType string

const (
	// DocTypeNarrative marks chunks from MD&A narrative text.
	DocTypeNarrative DocType = "MD&A"
	// DocTypeFinancial marks chunks generated from spreadsheet data.
	DocTypeFinancial DocType = "Financial Data"
)

// Year sentinels for aggregate chunks that span more than one period.
const (
	YearMultiYear = "Multi-Year"
	YearQuarterly = "Quarterly"
)

// Metadata is the provenance record attached to every chunk. All fields are
// populated at index-build time and never mutated.
type Metadata struct {
	Company    string  `json:"company"`
	Year       string  `json:"year"`
	DocType    DocType `json:"doc_type"`
	Section    string  `json:"section"`
	ChunkIndex int     `json:"chunk_index"`
}

// Chunk is an immutable unit of indexed text plus its provenance.
type Chunk struct {
	Content string   `json:"content"`
	Meta    Metadata `json:"metadata"`
}
