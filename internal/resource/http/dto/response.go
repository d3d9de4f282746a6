package dto

import (
	resourceDomain "github.com/dapnet/dbgateway/internal/resource/domain"
)

// WriteResponse is returned by create and update.
type WriteResponse struct {
	ID  string `json:"id"`
	Rev string `json:"rev"`
}

// ListResponse is a page of redacted records.
type ListResponse struct {
	TotalRows int                       `json:"total_rows"`
	Rows      []resourceDomain.Document `json:"rows"`
}

// MapWriteResultToResponse converts a write result to an API response.
func MapWriteResultToResponse(result *resourceDomain.WriteResult) WriteResponse {
	return WriteResponse{
		ID:  result.ID,
		Rev: result.Rev,
	}
}

// MapDocumentListToResponse converts a document page to an API response.
// Rows is never null in the encoded response.
func MapDocumentListToResponse(list *resourceDomain.DocumentList) ListResponse {
	rows := list.Rows
	if rows == nil {
		rows = []resourceDomain.Document{}
	}
	return ListResponse{
		TotalRows: list.TotalRows,
		Rows:      rows,
	}
}
