package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTavilySearchDecodesResults(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]interface{}{
				{"title": "Go", "url": "https://go.dev", "content": "The Go programming language.", "score": 0.91},
			},
		})
	}))
	defer server.Close()

	c := NewTavilyClient("test-key")
	c.httpClient = server.Client()

	resp, err := c.post(context.Background(), server.URL, tavilySearchRequest{Query: "golang", MaxResults: 3})
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "golang", gotBody["query"])
	assert.Equal(t, float64(3), gotBody["max_results"])
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "https://go.dev", resp.Results[0].URL)
	assert.InDelta(t, 0.91, resp.Results[0].Score, 1e-6)
}

func TestTavilyNon200IsAnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	}))
	defer server.Close()

	c := NewTavilyClient("bad-key")
	c.httpClient = server.Client()

	_, err := c.post(context.Background(), server.URL, tavilySearchRequest{Query: "q", MaxResults: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-200")
}

func TestConfigured(t *testing.T) {
	assert.False(t, NewTavilyClient("").Configured())
	assert.True(t, NewTavilyClient("key").Configured())
}
