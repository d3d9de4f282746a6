package domain

// ListOptions carries the pagination options of a list request.
type ListOptions struct {
	Limit      int
	Skip       int
	StartKey   string
	EndKey     string
	Descending bool
}

// DocumentList is a page of redacted records. TotalRows is the collection size
// reported by the document store, not the page length.
type DocumentList struct {
	TotalRows int        `json:"total_rows"`
	Rows      []Document `json:"rows"`
}

// WriteResult identifies the revision produced by a create or update.
type WriteResult struct {
	ID      string `json:"id"`
	Rev     string `json:"rev"`
	Created bool   `json:"-"`
}
