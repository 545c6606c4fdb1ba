package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.tavily.com"

// maxResults and snippetLen bound how much search content is handed back to
// the language model.
const (
	maxResults = 5
	snippetLen = 500
)

type searchRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type searchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

type searchResponse struct {
	Results []searchResult `json:"results"`
}

// Client calls the Tavily web search API.
type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// New creates a Tavily client.
func New(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// NewWithBaseURL creates a client against a non-default endpoint (used in tests).
func NewWithBaseURL(apiKey, baseURL string) *Client {
	c := New(apiKey)
	c.baseURL = strings.TrimRight(baseURL, "/")
	return c
}

// Search runs a web search and formats the results as a plain-text block the
// agent can feed back to the model: title, URL, and a truncated content
// snippet per result.
func (c *Client) Search(ctx context.Context, query string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("missing tavily api key")
	}

	body, err := json.Marshal(searchRequest{
		APIKey:     c.apiKey,
		Query:      query,
		MaxResults: maxResults,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("tavily http error (%d): %s", resp.StatusCode, string(respBody))
	}

	var out searchResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("failed to decode tavily response: %w", err)
	}

	formatted := make([]string, 0, len(out.Results))
	for _, r := range out.Results {
		content := r.Content
		if len(content) > snippetLen {
			content = content[:snippetLen]
		}
		formatted = append(formatted, fmt.Sprintf("Title: %s\nURL: %s\nContent: %s...\n", r.Title, r.URL, content))
	}
	return strings.Join(formatted, "\n"), nil
}
