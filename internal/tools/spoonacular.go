package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	resultLimit = 5

	// Ingredients excluded from halal searches.
	nonHalalIngredients = "pork,bacon,ham,lard,gelatin,alcohol,wine,beer"
)

// SpoonacularClient is a thin Spoonacular REST client.
type SpoonacularClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewSpoonacularClient(baseURL, apiKey string) *SpoonacularClient {
	return &SpoonacularClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *SpoonacularClient) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if c.apiKey == "" {
		return fmt.Errorf("spoonacular API key is not configured")
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("apiKey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+params.Encode(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("spoonacular request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("spoonacular returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode spoonacular response: %w", err)
	}
	return nil
}

type nutrient struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
	Unit   string  `json:"unit"`
}

type nutrition struct {
	Nutrients []nutrient `json:"nutrients"`
}

func (n *nutrition) amount(name string) float64 {
	if n == nil {
		return 0
	}
	for _, x := range n.Nutrients {
		if strings.EqualFold(x.Name, name) {
			return x.Amount
		}
	}
	return 0
}

// RecipeSummary is what search tools report back to the model.
type RecipeSummary struct {
	ID                int     `json:"id"`
	Title             string  `json:"title"`
	Calories          float64 `json:"calories,omitempty"`
	ReadyInMinutes    int     `json:"readyInMinutes,omitempty"`
	UsedIngredients   int     `json:"usedIngredientCount,omitempty"`
	MissedIngredients int     `json:"missedIngredientCount,omitempty"`
}

func toJSON(v interface{}) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// FindRecipesByIngredients looks up recipes using what the user has at hand.
type FindRecipesByIngredients struct{ client *SpoonacularClient }

func (FindRecipesByIngredients) Name() string { return "FindRecipesByIngredients" }
func (FindRecipesByIngredients) Description() string {
	return "Find recipes that use the given ingredients. Input should be a comma-separated list of ingredients."
}
func (FindRecipesByIngredients) InputHint() string { return "Comma-separated ingredients, e.g. chicken, rice, broccoli" }

func (t FindRecipesByIngredients) Execute(ctx context.Context, input string) (string, error) {
	var raw []struct {
		ID                    int    `json:"id"`
		Title                 string `json:"title"`
		UsedIngredientCount   int    `json:"usedIngredientCount"`
		MissedIngredientCount int    `json:"missedIngredientCount"`
	}
	params := url.Values{
		"ingredients": {input},
		"number":      {strconv.Itoa(resultLimit)},
		"ranking":     {"1"},
	}
	if err := t.client.get(ctx, "/recipes/findByIngredients", params, &raw); err != nil {
		return "", err
	}

	out := make([]RecipeSummary, 0, len(raw))
	for _, r := range raw {
		out = append(out, RecipeSummary{
			ID:                r.ID,
			Title:             r.Title,
			UsedIngredients:   r.UsedIngredientCount,
			MissedIngredients: r.MissedIngredientCount,
		})
	}
	return toJSON(out)
}

type complexSearchResponse struct {
	Results []struct {
		ID             int        `json:"id"`
		Title          string     `json:"title"`
		ReadyInMinutes int        `json:"readyInMinutes"`
		Nutrition      *nutrition `json:"nutrition"`
	} `json:"results"`
}

func complexSearch(ctx context.Context, c *SpoonacularClient, query string, extra url.Values) (string, error) {
	params := url.Values{
		"query":              {query},
		"number":             {strconv.Itoa(resultLimit)},
		"addRecipeNutrition": {"true"},
	}
	for k, v := range extra {
		params[k] = v
	}

	var raw complexSearchResponse
	if err := c.get(ctx, "/recipes/complexSearch", params, &raw); err != nil {
		return "", err
	}

	out := make([]RecipeSummary, 0, len(raw.Results))
	for _, r := range raw.Results {
		out = append(out, RecipeSummary{
			ID:             r.ID,
			Title:          r.Title,
			ReadyInMinutes: r.ReadyInMinutes,
			Calories:       r.Nutrition.amount("Calories"),
		})
	}
	return toJSON(out)
}

// ComplexRecipeSearch searches by cuisine, dish or free text.
type ComplexRecipeSearch struct{ client *SpoonacularClient }

func (ComplexRecipeSearch) Name() string { return "ComplexRecipeSearch" }
func (ComplexRecipeSearch) Description() string {
	return "Search for recipes by cuisine, dish name or other free-text criteria. Input should be a search query."
}
func (ComplexRecipeSearch) InputHint() string { return "Search query, e.g. low carb italian dinner" }

func (t ComplexRecipeSearch) Execute(ctx context.Context, input string) (string, error) {
	return complexSearch(ctx, t.client, input, nil)
}

// HalalRecipeSearch is ComplexRecipeSearch without non-halal ingredients.
type HalalRecipeSearch struct{ client *SpoonacularClient }

func (HalalRecipeSearch) Name() string { return "HalalRecipeSearch" }
func (HalalRecipeSearch) Description() string {
	return "Search for halal recipes. Excludes pork, alcohol and other non-halal ingredients. Input should be a search query."
}
func (HalalRecipeSearch) InputHint() string { return "Search query, e.g. chicken curry" }

func (t HalalRecipeSearch) Execute(ctx context.Context, input string) (string, error) {
	return complexSearch(ctx, t.client, input, url.Values{"excludeIngredients": {nonHalalIngredients}})
}

func parseRecipeID(input string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid recipe id %q", input)
	}
	return id, nil
}

// GetRecipeInformation reports servings, timing and macros for one recipe.
type GetRecipeInformation struct{ client *SpoonacularClient }

func (GetRecipeInformation) Name() string { return "GetRecipeInformation" }
func (GetRecipeInformation) Description() string {
	return "Get detailed information about a recipe including calories and macros per serving. Input should be the recipe ID."
}
func (GetRecipeInformation) InputHint() string { return "Numeric Spoonacular recipe ID" }

func (t GetRecipeInformation) Execute(ctx context.Context, input string) (string, error) {
	id, err := parseRecipeID(input)
	if err != nil {
		return "", err
	}

	var raw struct {
		ID             int        `json:"id"`
		Title          string     `json:"title"`
		Servings       int        `json:"servings"`
		ReadyInMinutes int        `json:"readyInMinutes"`
		SourceURL      string     `json:"sourceUrl"`
		Diets          []string   `json:"diets"`
		Nutrition      *nutrition `json:"nutrition"`
	}
	path := fmt.Sprintf("/recipes/%d/information", id)
	if err := t.client.get(ctx, path, url.Values{"includeNutrition": {"true"}}, &raw); err != nil {
		return "", err
	}

	return toJSON(map[string]interface{}{
		"id":             raw.ID,
		"title":          raw.Title,
		"servings":       raw.Servings,
		"readyInMinutes": raw.ReadyInMinutes,
		"sourceUrl":      raw.SourceURL,
		"diets":          raw.Diets,
		"calories":       raw.Nutrition.amount("Calories"),
		"protein":        raw.Nutrition.amount("Protein"),
		"fat":            raw.Nutrition.amount("Fat"),
		"carbohydrates":  raw.Nutrition.amount("Carbohydrates"),
	})
}

// GetRecipeInstructions returns numbered cooking steps.
type GetRecipeInstructions struct{ client *SpoonacularClient }

func (GetRecipeInstructions) Name() string { return "GetRecipeInstructions" }
func (GetRecipeInstructions) Description() string {
	return "Get step-by-step cooking instructions for a recipe. Input should be the recipe ID."
}
func (GetRecipeInstructions) InputHint() string { return "Numeric Spoonacular recipe ID" }

func (t GetRecipeInstructions) Execute(ctx context.Context, input string) (string, error) {
	id, err := parseRecipeID(input)
	if err != nil {
		return "", err
	}

	var raw []struct {
		Name  string `json:"name"`
		Steps []struct {
			Number int    `json:"number"`
			Step   string `json:"step"`
		} `json:"steps"`
	}
	if err := t.client.get(ctx, fmt.Sprintf("/recipes/%d/analyzedInstructions", id), nil, &raw); err != nil {
		return "", err
	}

	var b strings.Builder
	for _, section := range raw {
		if section.Name != "" {
			fmt.Fprintf(&b, "%s:\n", section.Name)
		}
		for _, s := range section.Steps {
			fmt.Fprintf(&b, "%d. %s\n", s.Number, s.Step)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		text = "No instructions available for this recipe."
	}
	return toJSON(map[string]string{"text": text})
}

// SpoonacularTools returns the recipe tools in prompt order.
func SpoonacularTools(c *SpoonacularClient) []Tool {
	return []Tool{
		FindRecipesByIngredients{client: c},
		ComplexRecipeSearch{client: c},
		HalalRecipeSearch{client: c},
		GetRecipeInformation{client: c},
		GetRecipeInstructions{client: c},
	}
}
