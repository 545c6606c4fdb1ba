package tavily_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MuhammadUsmanGM/ChatUp/internal/clients/tavily"
)

func TestSearchFormatsResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/search", r.URL.Path)

		var req map[string]interface{}
		err := json.NewDecoder(r.Body).Decode(&req)
		assert.NoError(t, err)
		assert.Equal(t, "test-key", req["api_key"])
		assert.Equal(t, "golang", req["query"])
		assert.Equal(t, float64(5), req["max_results"])

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]string{
				{"title": "Go", "url": "https://go.dev", "content": "The Go programming language"},
				{"title": "Long", "url": "https://example.com", "content": strings.Repeat("x", 600)},
			},
		})
	}))
	defer server.Close()

	client := tavily.NewWithBaseURL("test-key", server.URL)
	out, err := client.Search(context.Background(), "golang")
	assert.NoError(t, err)

	assert.Contains(t, out, "Title: Go\nURL: https://go.dev\nContent: The Go programming language...")
	// Content snippets are truncated to 500 characters
	assert.Contains(t, out, strings.Repeat("x", 500)+"...")
	assert.NotContains(t, out, strings.Repeat("x", 501))
}

func TestSearchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad api key", http.StatusUnauthorized)
	}))
	defer server.Close()

	client := tavily.NewWithBaseURL("wrong-key", server.URL)
	_, err := client.Search(context.Background(), "golang")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "tavily http error (401)")
}

func TestSearchMissingAPIKey(t *testing.T) {
	client := tavily.New("")
	_, err := client.Search(context.Background(), "golang")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing tavily api key")
}

func TestSearchEmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"results": []map[string]string{}})
	}))
	defer server.Close()

	client := tavily.NewWithBaseURL("test-key", server.URL)
	out, err := client.Search(context.Background(), "nothing")
	assert.NoError(t, err)
	assert.Empty(t, out)
}
