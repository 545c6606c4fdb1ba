package agent_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MuhammadUsmanGM/ChatUp/internal/agent"
)

// stubSearcher records queries and returns a fixed result block.
type stubSearcher struct {
	queries []string
	result  string
	err     error
}

func (s *stubSearcher) Search(_ context.Context, query string) (string, error) {
	s.queries = append(s.queries, query)
	return s.result, s.err
}

type completionRequest struct {
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
}

func assistantReply(content string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]interface{}{"role": "assistant", "content": content}},
		},
	}
}

func toolCallReply(query string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]interface{}{
				"role": "assistant",
				"tool_calls": []map[string]interface{}{
					{
						"id":   "call_1",
						"type": "function",
						"function": map[string]interface{}{
							"name":      "search_web",
							"arguments": `{"query":"` + query + `"}`,
						},
					},
				},
			}},
		},
	}
}

func TestReplyDirectAnswer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)

		var req completionRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		assert.NoError(t, err)
		// System instructions plus the user message
		assert.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)
		assert.Equal(t, "user", req.Messages[1].Role)
		assert.Equal(t, "What is Go?", req.Messages[1].Content)

		_ = json.NewEncoder(w).Encode(assistantReply("Go is a programming language."))
	}))
	defer server.Close()

	a := agent.New(agent.Config{APIKey: "test", BaseURL: server.URL}, nil)
	reply, err := a.Reply(context.Background(), "What is Go?")
	assert.NoError(t, err)
	assert.Equal(t, "Go is a programming language.", reply)
}

func TestReplyWithToolRound(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			_ = json.NewEncoder(w).Encode(toolCallReply("weather today"))
			return
		}

		// The second round must include the tool result
		var req completionRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		assert.NoError(t, err)
		last := req.Messages[len(req.Messages)-1]
		assert.Equal(t, "tool", last.Role)
		assert.Contains(t, last.Content, "Sunny, 20C")

		_ = json.NewEncoder(w).Encode(assistantReply("It's sunny today."))
	}))
	defer server.Close()

	searcher := &stubSearcher{result: "Title: Weather\nURL: https://example.com\nContent: Sunny, 20C...\n"}
	a := agent.New(agent.Config{APIKey: "test", BaseURL: server.URL}, searcher)

	reply, err := a.Reply(context.Background(), "What's the weather?")
	assert.NoError(t, err)
	assert.Equal(t, "It's sunny today.", reply)
	assert.Equal(t, []string{"weather today"}, searcher.queries)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestReplyWithoutSearcher(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			_ = json.NewEncoder(w).Encode(toolCallReply("anything"))
			return
		}

		var req completionRequest
		err := json.NewDecoder(r.Body).Decode(&req)
		assert.NoError(t, err)
		last := req.Messages[len(req.Messages)-1]
		assert.Equal(t, "tool", last.Role)
		assert.Contains(t, last.Content, "Web search is not available")

		_ = json.NewEncoder(w).Encode(assistantReply("I cannot search the web right now."))
	}))
	defer server.Close()

	a := agent.New(agent.Config{APIKey: "test", BaseURL: server.URL}, nil)
	reply, err := a.Reply(context.Background(), "Search for something")
	assert.NoError(t, err)
	assert.Equal(t, "I cannot search the web right now.", reply)
}

func TestReplyTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_ = json.NewEncoder(w).Encode(assistantReply("Too late."))
	}))
	defer server.Close()

	a := agent.New(agent.Config{APIKey: "test", BaseURL: server.URL, Timeout: 50 * time.Millisecond}, nil)
	_, err := a.Reply(context.Background(), "Slow question")
	assert.ErrorIs(t, err, agent.ErrTimeout)
}

func TestReplyCompletionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid api key"}}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	a := agent.New(agent.Config{APIKey: "bad", BaseURL: server.URL}, nil)
	_, err := a.Reply(context.Background(), "Anything")
	assert.Error(t, err)

	var agentErr *agent.Error
	assert.ErrorAs(t, err, &agentErr)
	assert.Equal(t, "completion", agentErr.Stage)
}

func TestReplyToolRoundLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// The model never stops asking for searches
		_ = json.NewEncoder(w).Encode(toolCallReply("again"))
	}))
	defer server.Close()

	searcher := &stubSearcher{result: "nothing useful"}
	a := agent.New(agent.Config{APIKey: "test", BaseURL: server.URL, MaxToolRounds: 2}, searcher)

	_, err := a.Reply(context.Background(), "Loop forever")
	assert.Error(t, err)

	var agentErr *agent.Error
	assert.ErrorAs(t, err, &agentErr)
	assert.Equal(t, "tool loop", agentErr.Stage)
}
