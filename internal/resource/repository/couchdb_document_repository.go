// Package repository implements record access for mediated resources on top of the
// document store client.
package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"net/url"
	"strconv"

	"github.com/dapnet/dbgateway/internal/couchdb"
	apperrors "github.com/dapnet/dbgateway/internal/errors"
	resourceDomain "github.com/dapnet/dbgateway/internal/resource/domain"
)

// DocumentStore is the subset of the document store client used by the repository.
type DocumentStore interface {
	Get(ctx context.Context, db, id string) (json.RawMessage, error)
	AllDocs(ctx context.Context, db string, params url.Values) (*couchdb.AllDocsResult, error)
	Query(ctx context.Context, db, path string, params url.Values) (json.RawMessage, error)
	Put(ctx context.Context, db, id string, doc any) (*couchdb.WriteResult, error)
	Delete(ctx context.Context, db, id, rev string) (*couchdb.WriteResult, error)
}

// CouchDBDocumentRepository reads and writes records of one collection.
type CouchDBDocumentRepository struct {
	store      DocumentStore
	collection string
}

// Get retrieves a record by id. Returns ErrDocumentNotFound if absent.
func (r *CouchDBDocumentRepository) Get(ctx context.Context, id string) (resourceDomain.Document, error) {
	raw, err := r.store.Get(ctx, r.collection, id)
	if err != nil {
		return nil, mapStoreError(err, "failed to get document")
	}

	doc, err := decodeDocument(raw)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to decode document")
	}
	return doc, nil
}

// List returns a page of records with their documents. Rows without a document and
// design documents are skipped; TotalRows is taken from the store.
func (r *CouchDBDocumentRepository) List(
	ctx context.Context,
	opts resourceDomain.ListOptions,
) (*resourceDomain.DocumentList, error) {
	params, err := allDocsParams(opts)
	if err != nil {
		return nil, err
	}

	result, err := r.store.AllDocs(ctx, r.collection, params)
	if err != nil {
		return nil, mapStoreError(err, "failed to list documents")
	}

	list := &resourceDomain.DocumentList{
		TotalRows: result.TotalRows,
		Rows:      make([]resourceDomain.Document, 0, len(result.Rows)),
	}
	for _, row := range result.Rows {
		if resourceDomain.IsDesignDocument(row.ID) || len(row.Doc) == 0 || string(row.Doc) == "null" {
			continue
		}

		doc, err := decodeDocument(row.Doc)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to decode document")
		}
		list.Rows = append(list.Rows, doc)
	}

	return list, nil
}

// Names runs a pass-through query below the collection and returns the raw body.
func (r *CouchDBDocumentRepository) Names(ctx context.Context, path string) (json.RawMessage, error) {
	raw, err := r.store.Query(ctx, r.collection, path, nil)
	if err != nil {
		return nil, mapStoreError(err, "failed to query names")
	}
	return raw, nil
}

// Put stores doc under id and returns the new revision. A doc without _rev is a
// create; an existing id or a stale _rev yields ErrRevisionConflict.
func (r *CouchDBDocumentRepository) Put(
	ctx context.Context,
	id string,
	doc resourceDomain.Document,
) (*resourceDomain.WriteResult, error) {
	result, err := r.store.Put(ctx, r.collection, id, doc)
	if err != nil {
		return nil, mapStoreError(err, "failed to put document")
	}
	return &resourceDomain.WriteResult{ID: result.ID, Rev: result.Rev}, nil
}

// Delete removes revision rev of the record id.
func (r *CouchDBDocumentRepository) Delete(ctx context.Context, id, rev string) error {
	if _, err := r.store.Delete(ctx, r.collection, id, rev); err != nil {
		return mapStoreError(err, "failed to delete document")
	}
	return nil
}

// NewCouchDBDocumentRepository creates a repository for collection.
func NewCouchDBDocumentRepository(store DocumentStore, collection string) *CouchDBDocumentRepository {
	return &CouchDBDocumentRepository{
		store:      store,
		collection: collection,
	}
}

// allDocsParams translates list options into all-docs query parameters. Keys are
// JSON-encoded as the store expects.
func allDocsParams(opts resourceDomain.ListOptions) (url.Values, error) {
	params := url.Values{}
	params.Set("include_docs", "true")

	if opts.Limit > 0 {
		params.Set("limit", strconv.Itoa(opts.Limit))
	}
	if opts.Skip > 0 {
		params.Set("skip", strconv.Itoa(opts.Skip))
	}
	if opts.Descending {
		params.Set("descending", "true")
	}
	for name, key := range map[string]string{"startkey": opts.StartKey, "endkey": opts.EndKey} {
		if key == "" {
			continue
		}
		encoded, err := json.Marshal(key)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to encode key")
		}
		params.Set(name, string(encoded))
	}

	return params, nil
}

// decodeDocument decodes a JSON object keeping numbers as json.Number so they
// round-trip without precision loss.
func decodeDocument(raw json.RawMessage) (resourceDomain.Document, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var doc resourceDomain.Document
	if err := decoder.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = resourceDomain.Document{}
	}
	return doc, nil
}

// mapStoreError translates store errors into resource domain errors.
func mapStoreError(err error, message string) error {
	switch {
	case apperrors.Is(err, apperrors.ErrNotFound):
		return resourceDomain.ErrDocumentNotFound
	case apperrors.Is(err, apperrors.ErrConflict):
		return resourceDomain.ErrRevisionConflict
	default:
		return apperrors.Wrap(err, message)
	}
}
