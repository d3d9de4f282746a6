// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	resourceDomain "github.com/dapnet/dbgateway/internal/resource/domain"
)

// DecodeDocument reads a single JSON object from r. Numbers are kept as json.Number
// so they round-trip to the document store unchanged.
func DecodeDocument(r io.Reader) (resourceDomain.Document, error) {
	decoder := json.NewDecoder(r)
	decoder.UseNumber()

	var doc resourceDomain.Document
	if err := decoder.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("request body is empty")
		}
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	if doc == nil {
		return nil, fmt.Errorf("request body must be a JSON object")
	}

	// Trailing data after the object is rejected
	if _, err := decoder.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("request body must contain a single JSON object")
	}

	return doc, nil
}
