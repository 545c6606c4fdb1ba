package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

// ErrTimeout reports that the completion did not finish within the
// configured wall-clock budget.
var ErrTimeout = errors.New("agent request timed out")

// Error wraps a failure from the completion API or the tool loop with the
// stage it occurred in. Callers branch on the type instead of inspecting the
// reply text.
type Error struct {
	Stage string
	Err   error
}

func (e *Error) Error() string { return fmt.Sprintf("agent %s failed: %v", e.Stage, e.Err) }

func (e *Error) Unwrap() error { return e.Err }

// Searcher performs a web search and returns formatted results for the model.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// Config holds the agent's completion API settings.
type Config struct {
	APIKey  string
	BaseURL string // OpenAI-compatible endpoint (Gemini's by default)
	Model   string
	Timeout time.Duration
	// MaxToolRounds bounds how many times the model may call tools before
	// the agent gives up on getting a final answer.
	MaxToolRounds int
}

const (
	defaultModel         = "gemini-2.0-flash"
	defaultTimeout       = 60 * time.Second
	defaultMaxToolRounds = 4

	instructions = "A helpful assistant. You can use the search_web tool to search the web for current information when needed."
)

// Agent answers a single-turn chat message, optionally calling out to web
// search when the model requests it.
type Agent struct {
	client   *openai.Client
	searcher Searcher
	cfg      Config
}

// New creates an Agent. searcher may be nil, in which case search_web
// reports that web search is unavailable.
func New(cfg Config, searcher Searcher) *Agent {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxToolRounds <= 0 {
		cfg.MaxToolRounds = defaultMaxToolRounds
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Agent{
		client:   openai.NewClientWithConfig(clientCfg),
		searcher: searcher,
		cfg:      cfg,
	}
}

var searchWebTool = openai.Tool{
	Type: openai.ToolTypeFunction,
	Function: &openai.FunctionDefinition{
		Name:        "search_web",
		Description: "Search the web for current information.",
		Parameters: jsonschema.Definition{
			Type: jsonschema.Object,
			Properties: map[string]jsonschema.Definition{
				"query": {
					Type:        jsonschema.String,
					Description: "The search query.",
				},
			},
			Required: []string{"query"},
		},
	},
}

// Reply runs a single-turn completion for the user message and returns the
// model's final text answer. The whole exchange, tool rounds included, must
// finish within cfg.Timeout.
func (a *Agent) Reply(ctx context.Context, message string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: instructions},
		{Role: openai.ChatMessageRoleUser, Content: message},
	}

	for round := 0; round <= a.cfg.MaxToolRounds; round++ {
		resp, err := a.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    a.cfg.Model,
			Messages: messages,
			Tools:    []openai.Tool{searchWebTool},
		})
		if err != nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return "", ErrTimeout
			}
			return "", &Error{Stage: "completion", Err: err}
		}
		if len(resp.Choices) == 0 {
			return "", &Error{Stage: "completion", Err: errors.New("no choices in response")}
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			return msg.Content, nil
		}

		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: call.ID,
				Content:    a.runTool(ctx, call),
			})
		}
	}

	return "", &Error{Stage: "tool loop", Err: fmt.Errorf("no final answer after %d tool rounds", a.cfg.MaxToolRounds)}
}

// runTool executes a requested tool call. Tool failures are reported back to
// the model as text so it can still compose an answer.
func (a *Agent) runTool(ctx context.Context, call openai.ToolCall) string {
	if call.Function.Name != "search_web" {
		return fmt.Sprintf("Unknown tool: %s", call.Function.Name)
	}
	if a.searcher == nil {
		return "Web search is not available. Tavily API key is not configured."
	}

	var args struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
		return fmt.Sprintf("Web search failed: invalid arguments: %v", err)
	}

	results, err := a.searcher.Search(ctx, args.Query)
	if err != nil {
		return fmt.Sprintf("Web search failed: %v", err)
	}
	return results
}
