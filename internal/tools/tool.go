// Package tools holds the external search functions the meal assistant
// can invoke on the model's behalf.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/nutriplan/backend/internal/llm"
)

// ErrEmptyInput is returned when a tool is called without an input string.
var ErrEmptyInput = errors.New("input is required")

// Tool is a named function the model can call with a single string input.
type Tool interface {
	Name() string
	Description() string
	Execute(ctx context.Context, input string) (string, error)
}

// Input is the argument object every tool accepts.
type Input struct {
	Input string `json:"input"`
}

// InputSchema is the JSON schema bound for every tool.
func InputSchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"input": map[string]interface{}{
				"type":        "string",
				"description": description,
			},
		},
		"required": []string{"input"},
	}
}

// ParseInput decodes raw tool arguments. A bare JSON string is accepted
// in place of the object form.
func ParseInput(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", ErrEmptyInput
	}

	var in Input
	if err := json.Unmarshal([]byte(raw), &in); err != nil {
		var s string
		if err2 := json.Unmarshal([]byte(raw), &s); err2 != nil {
			return "", fmt.Errorf("invalid tool arguments: %w", err)
		}
		in.Input = s
	}

	if strings.TrimSpace(in.Input) == "" {
		return "", ErrEmptyInput
	}
	return strings.TrimSpace(in.Input), nil
}

// Registry keeps tools in registration order.
type Registry struct {
	byName map[string]Tool
	order  []Tool
}

func NewRegistry(tools ...Tool) *Registry {
	r := &Registry{byName: map[string]Tool{}}
	for _, t := range tools {
		r.Register(t)
	}
	return r
}

func (r *Registry) Register(t Tool) {
	if _, exists := r.byName[t.Name()]; !exists {
		r.order = append(r.order, t)
	} else {
		for i, existing := range r.order {
			if existing.Name() == t.Name() {
				r.order[i] = t
			}
		}
	}
	r.byName[t.Name()] = t
}

func (r *Registry) Get(name string) (Tool, bool) {
	t, ok := r.byName[name]
	return t, ok
}

func (r *Registry) All() []Tool {
	out := make([]Tool, 0, len(r.order))
	return append(out, r.order...)
}

// Definitions describes every tool for binding to a chat request.
func (r *Registry) Definitions() []llm.ToolDefinition {
	defs := make([]llm.ToolDefinition, 0, len(r.order))
	for _, t := range r.order {
		defs = append(defs, llm.ToolDefinition{
			Name:        t.Name(),
			Description: t.Description(),
			Parameters:  InputSchema(inputHint(t)),
		})
	}
	return defs
}

// Call parses raw arguments and runs the named tool.
func (r *Registry) Call(ctx context.Context, name, rawArgs string) (string, error) {
	t, ok := r.Get(name)
	if !ok {
		return "", fmt.Errorf("unknown tool %q", name)
	}
	input, err := ParseInput(rawArgs)
	if err != nil {
		return "", err
	}
	return t.Execute(ctx, input)
}

type hinted interface {
	InputHint() string
}

func inputHint(t Tool) string {
	if h, ok := t.(hinted); ok {
		return h.InputHint()
	}
	return "The query for this tool"
}

// ExtractText returns the non-empty "text" field of a JSON object, the
// value of a JSON string, or output unchanged.
func ExtractText(output string) string {
	var parsed interface{}
	if err := json.Unmarshal([]byte(output), &parsed); err != nil {
		return output
	}
	switch v := parsed.(type) {
	case string:
		return v
	case map[string]interface{}:
		if text, ok := v["text"].(string); ok && text != "" {
			return text
		}
	}
	return output
}
