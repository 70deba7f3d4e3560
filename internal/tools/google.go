package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// GoogleSearch queries Google Custom Search, scoped to the configured region.
type GoogleSearch struct {
	baseURL    string
	apiKey     string
	cx         string
	region     string
	httpClient *http.Client
}

func NewGoogleSearch(baseURL, apiKey, cx, region string) *GoogleSearch {
	return &GoogleSearch{
		baseURL:    baseURL,
		apiKey:     apiKey,
		cx:         cx,
		region:     region,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (*GoogleSearch) Name() string { return "GoogleSearch" }

func (g *GoogleSearch) Description() string {
	return fmt.Sprintf("Search the web for restaurants and eateries in %s. Input should be a search query including cuisine and dietary preferences.", g.region)
}

func (*GoogleSearch) InputHint() string { return "Search query, e.g. vegetarian indian restaurants" }

// SearchResult is one web hit.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Query appends the region unless the input already names it.
func (g *GoogleSearch) Query(input string) string {
	if g.region == "" || strings.Contains(strings.ToLower(input), strings.ToLower(g.region)) {
		return input
	}
	return input + " in " + g.region
}

func (g *GoogleSearch) Execute(ctx context.Context, input string) (string, error) {
	if g.apiKey == "" || g.cx == "" {
		return "", fmt.Errorf("google search is not configured")
	}

	params := url.Values{
		"key": {g.apiKey},
		"cx":  {g.cx},
		"q":   {g.Query(input)},
		"num": {"5"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("google search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("google search returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var raw struct {
		Items []SearchResult `json:"items"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return "", fmt.Errorf("failed to decode google response: %w", err)
	}
	if len(raw.Items) == 0 {
		return "No good search result found", nil
	}
	return toJSON(raw.Items)
}
