package ragservice

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fixflow-sec/fixflow/internal/findings"
	"github.com/fixflow-sec/fixflow/pkg/shared/config"
)

func newClientForServer(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := config.DefaultConfig()
	cfg.Services.Rag.BaseURL = server.URL
	return New(cfg, hclog.NewNullLogger())
}

func TestSearch(t *testing.T) {
	client := newClientForServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/rag/search", r.URL.Path)

		var query findings.RuleQuery
		require.NoError(t, json.NewDecoder(r.Body).Decode(&query))
		assert.Equal(t, []string{"SQL injection"}, query.Query)
		assert.Equal(t, 5, query.Limit)
		assert.Equal(t, findings.CombineModeOr, query.CombineMode)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"documents": []Document{
				{ID: "doc-1", Content: "use parameterized queries", Similarity: 0.92},
				{ID: "doc-2", Content: "escape user input", Similarity: 0.81},
			},
		})
	}))

	documents, err := client.Search(context.Background(), findings.RuleQuery{
		Query:       []string{"SQL injection"},
		Limit:       5,
		CombineMode: findings.CombineModeOr,
	})

	require.NoError(t, err)
	require.Len(t, documents, 2)
	assert.Equal(t, "doc-1", documents[0].ID)
	assert.Equal(t, 0.92, documents[0].Similarity)
}

func TestSearchNon200Response(t *testing.T) {
	client := newClientForServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "vector store offline", http.StatusBadGateway)
	}))

	documents, err := client.Search(context.Background(), findings.RuleQuery{Query: []string{"XSS"}})

	require.Error(t, err)
	assert.Nil(t, documents)
	assert.Contains(t, err.Error(), "502")
}

func TestPrepare(t *testing.T) {
	client := newClientForServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/rag/prepare", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "/tmp/demo", req["project_path"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(PrepareHandle{Collection: "codebase", Warmed: true})
	}))

	handle, err := client.Prepare(context.Background(), "/tmp/demo")

	require.NoError(t, err)
	assert.Equal(t, "codebase", handle.Collection)
	assert.True(t, handle.Warmed)
}

func TestPrepareNon200Response(t *testing.T) {
	client := newClientForServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unknown collection", http.StatusNotFound)
	}))

	handle, err := client.Prepare(context.Background(), "/tmp/demo")

	require.Error(t, err)
	assert.Nil(t, handle)
	assert.Contains(t, err.Error(), "404")
}

func TestHealth(t *testing.T) {
	client := newClientForServer(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/health", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))

	assert.NoError(t, client.Health(context.Background()))
}
