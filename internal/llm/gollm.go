package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/teilomillet/gollm"
)

// GollmClient adapts a gollm.LLM to ChatModel. gollm returns plain text,
// so tool calls are recovered from a JSON array embedded in the reply.
type GollmClient struct {
	llm       gollm.LLM
	maxTokens int
}

// NewGollmClient builds a gollm backend for provider (groq, openai, ...).
func NewGollmClient(provider, model, apiKey string, temperature float64, maxTokens int) (*GollmClient, error) {
	opts := []gollm.ConfigOption{
		gollm.SetProvider(provider),
		gollm.SetModel(model),
		gollm.SetMaxTokens(maxTokens),
		gollm.SetTemperature(temperature),
		gollm.SetMaxRetries(0),
		gollm.SetLogLevel(gollm.LogLevelWarn),
	}
	if apiKey != "" {
		opts = append(opts, gollm.SetAPIKey(apiKey))
	}

	l, err := gollm.NewLLM(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create gollm LLM for provider %s: %w", provider, err)
	}
	return &GollmClient{llm: l, maxTokens: maxTokens}, nil
}

func (c *GollmClient) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	if req.Temperature != nil {
		c.llm.SetOption("temperature", *req.Temperature)
	}
	text, err := c.llm.Generate(ctx, buildGollmPrompt(req, c.maxTokens))
	if err != nil {
		return nil, fmt.Errorf("gollm generate: %w", err)
	}
	return parseGollmReply(text), nil
}

func buildGollmPrompt(req ChatRequest, maxTokens int) *gollm.Prompt {
	var system []string
	var turns []string
	for _, m := range req.Messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleAssistant:
			if m.Content != "" {
				turns = append(turns, "[Assistant]: "+m.Content)
			}
		case RoleTool:
			turns = append(turns, "[Tool Result "+m.Name+"]: "+m.Content)
		default:
			turns = append(turns, m.Content)
		}
	}

	text := strings.Join(turns, "\n")
	if text == "" {
		text = "Hello"
	}

	var opts []gollm.PromptOption
	if len(system) > 0 {
		opts = append(opts, gollm.WithSystemPrompt(strings.Join(system, "\n"), gollm.CacheTypeEphemeral))
	}
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}
	if maxTokens > 0 {
		opts = append(opts, gollm.WithMaxLength(maxTokens))
	}
	if len(req.Tools) > 0 {
		tools := make([]gollm.Tool, 0, len(req.Tools))
		for _, t := range req.Tools {
			tools = append(tools, gollm.Tool{
				Type: "function",
				Function: gollm.Function{
					Name:        t.Name,
					Description: t.Description,
					Parameters:  t.Parameters,
				},
			})
		}
		opts = append(opts, gollm.WithTools(tools), gollm.WithToolChoice("auto"))
	}

	return gollm.NewPrompt(text, opts...)
}

// parseGollmReply splits the reply into free text and a trailing
// [{"name": ..., "arguments": ...}] tool call array.
func parseGollmReply(text string) *ChatResponse {
	start := strings.Index(text, `[{"name"`)
	if start == -1 {
		return &ChatResponse{Content: text}
	}

	var raw []struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.NewDecoder(strings.NewReader(text[start:])).Decode(&raw); err != nil {
		return &ChatResponse{Content: text}
	}

	resp := &ChatResponse{Content: strings.TrimSpace(text[:start])}
	for _, rc := range raw {
		resp.ToolCalls = append(resp.ToolCalls, ToolCall{
			ID:        "call_" + uuid.NewString()[:8],
			Name:      rc.Name,
			Arguments: normalizeArguments(rc.Arguments),
		})
	}
	return resp
}

// normalizeArguments accepts an object or a JSON string holding one.
func normalizeArguments(raw json.RawMessage) string {
	if len(raw) == 0 {
		return "{}"
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}
