package repository

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dapnet/dbgateway/internal/couchdb"
	apperrors "github.com/dapnet/dbgateway/internal/errors"
	resourceDomain "github.com/dapnet/dbgateway/internal/resource/domain"
)

func newTestRepository(t *testing.T, handler http.HandlerFunc) *CouchDBDocumentRepository {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := couchdb.NewClient(
		couchdb.Config{BaseURL: server.URL, Timeout: 2 * time.Second},
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	return NewCouchDBDocumentRepository(client, "users")
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func TestCouchDBDocumentRepository_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("Success_PreservesNumbers", func(t *testing.T) {
		repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/users/alice", r.URL.Path)
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"_id":"alice","_rev":"1-a","quota":12345678901234567890}`))
		})

		doc, err := repo.Get(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", doc.ID())
		assert.Equal(t, json.Number("12345678901234567890"), doc["quota"])
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
		})

		_, err := repo.Get(ctx, "nobody")
		assert.ErrorIs(t, err, resourceDomain.ErrDocumentNotFound)
	})
}

func TestCouchDBDocumentRepository_List(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()
		assert.Equal(t, "/users/_all_docs", r.URL.Path)
		assert.Equal(t, "true", query.Get("include_docs"))
		assert.Equal(t, "10", query.Get("limit"))
		assert.Equal(t, "5", query.Get("skip"))
		assert.Equal(t, `"a"`, query.Get("startkey"))
		assert.Equal(t, `"m"`, query.Get("endkey"))
		assert.Equal(t, "true", query.Get("descending"))

		writeJSON(w, http.StatusOK, map[string]any{
			"total_rows": 42,
			"offset":     5,
			"rows": []map[string]any{
				{"id": "_design/users", "doc": map[string]any{"_id": "_design/users"}},
				{"id": "alice", "doc": map[string]any{"_id": "alice", "password": "h"}},
				{"id": "ghost"},
				{"id": "bob", "doc": map[string]any{"_id": "bob", "password": "h"}},
			},
		})
	})

	list, err := repo.List(context.Background(), resourceDomain.ListOptions{
		Limit:      10,
		Skip:       5,
		StartKey:   "a",
		EndKey:     "m",
		Descending: true,
	})

	require.NoError(t, err)
	assert.Equal(t, 42, list.TotalRows)
	require.Len(t, list.Rows, 2)
	assert.Equal(t, "alice", list.Rows[0].ID())
	assert.Equal(t, "bob", list.Rows[1].ID())
}

func TestCouchDBDocumentRepository_Names(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/_design/users/_list/usernames/_all_docs", r.URL.Path)
		writeJSON(w, http.StatusOK, []string{"alice", "bob"})
	})

	raw, err := repo.Names(context.Background(), "_design/users/_list/usernames/_all_docs")
	require.NoError(t, err)
	assert.JSONEq(t, `["alice","bob"]`, string(raw))
}

func TestCouchDBDocumentRepository_Put(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "5-b", body["_rev"])
			writeJSON(w, http.StatusCreated, map[string]any{"ok": true, "id": "bob", "rev": "6-b"})
		})

		result, err := repo.Put(ctx, "bob", resourceDomain.Document{"_id": "bob", "_rev": "5-b"})
		require.NoError(t, err)
		assert.Equal(t, &resourceDomain.WriteResult{ID: "bob", Rev: "6-b"}, result)
	})

	t.Run("Error_Conflict", func(t *testing.T) {
		repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "conflict"})
		})

		_, err := repo.Put(ctx, "bob", resourceDomain.Document{"_id": "bob"})
		assert.ErrorIs(t, err, resourceDomain.ErrRevisionConflict)
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	})
}

func TestCouchDBDocumentRepository_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			assert.Equal(t, "2-b", r.URL.Query().Get("rev"))
			writeJSON(w, http.StatusOK, map[string]any{"ok": true, "id": "bob", "rev": "3-b"})
		})

		assert.NoError(t, repo.Delete(ctx, "bob", "2-b"))
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found"})
		})

		assert.ErrorIs(t, repo.Delete(ctx, "bob", "2-b"), resourceDomain.ErrDocumentNotFound)
	})

	t.Run("Error_Conflict", func(t *testing.T) {
		repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusConflict, map[string]string{"error": "conflict"})
		})

		assert.ErrorIs(t, repo.Delete(ctx, "bob", "1-b"), resourceDomain.ErrRevisionConflict)
	})
}
