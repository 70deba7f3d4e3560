package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nutriplan/backend/internal/llm"
	"github.com/nutriplan/backend/internal/models"
	"github.com/nutriplan/backend/internal/tools"
)

var ErrEmptyMessage = errors.New("message must not be empty")

const (
	noResponseReply   = "I'm sorry, I couldn't generate a response. Could you please rephrase your question?"
	errorReplyPrefix  = "I'm sorry, there was an error processing your request: "
	toolResultsPrompt = "Based on these tool results, provide a summary and recommendation for the user:\n"
)

// ToolResult is the outcome of one tool invocation within a reply.
type ToolResult struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

// Reply is what one user message produced.
type Reply struct {
	Answer      string       `json:"answer"`
	ToolResults []ToolResult `json:"tool_results"`
	Session     *Session     `json:"session"`
}

// AssistantService runs the meal planning conversation: one model call with
// tools bound, the requested tools in order, then a summarising call.
type AssistantService struct {
	model    llm.ChatModel
	tools    *tools.Registry
	sessions SessionStore
	profiles IProfileService
	meals    IMealService
	region   string
}

func NewAssistantService(model llm.ChatModel, registry *tools.Registry, sessions SessionStore, profiles IProfileService, meals IMealService, region string) *AssistantService {
	if region == "" {
		region = "Singapore"
	}
	return &AssistantService{
		model:    model,
		tools:    registry,
		sessions: sessions,
		profiles: profiles,
		meals:    meals,
		region:   region,
	}
}

// Greeting opens every conversation.
func Greeting(targetCalories int) string {
	return fmt.Sprintf("Great! Your target calorie intake is %d calories per day. How can I help you with meal planning?", targetCalories)
}

// StartSession needs the user's profile for the calorie target.
func (s *AssistantService) StartSession(ctx context.Context, userID uuid.UUID) (*Session, error) {
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	session := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		History:   []Turn{{Role: llm.RoleAssistant, Content: Greeting(profile.TargetCalories)}},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// GetSession hides sessions owned by someone else.
func (s *AssistantService) GetSession(ctx context.Context, userID uuid.UUID, id string) (*Session, error) {
	session, err := s.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

// Reply answers one user message and appends both turns to the history.
// Model failures become an apology turn rather than an error.
func (s *AssistantService) Reply(ctx context.Context, userID uuid.UUID, sessionID, input string) (*Reply, error) {
	if strings.TrimSpace(input) == "" {
		return nil, ErrEmptyMessage
	}

	session, err := s.GetSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	profile, err := s.profiles.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	remaining := s.remainingCalories(ctx, userID, profile)

	messages := make([]llm.Message, 0, len(session.History)+2)
	messages = append(messages, llm.Message{Role: llm.RoleSystem, Content: s.systemPrompt(remaining)})
	for _, turn := range session.History {
		messages = append(messages, llm.Message{Role: historyRole(turn.Role), Content: turn.Content})
	}
	messages = append(messages, llm.Message{Role: llm.RoleUser, Content: input})

	answer, results := s.orchestrate(ctx, messages)

	session.History = append(session.History,
		Turn{Role: llm.RoleUser, Content: input},
		Turn{Role: llm.RoleAssistant, Content: answer},
	)
	session.UpdatedAt = time.Now()
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	return &Reply{Answer: answer, ToolResults: results, Session: session}, nil
}

func (s *AssistantService) orchestrate(ctx context.Context, messages []llm.Message) (string, []ToolResult) {
	first, err := s.model.Chat(ctx, llm.ChatRequest{
		Messages: messages,
		Tools:    s.tools.Definitions(),
	})
	if err != nil {
		log.Printf("[AssistantService] model call failed: %v", err)
		return errorReplyPrefix + err.Error(), nil
	}

	results := s.runTools(ctx, first.ToolCalls)
	if len(results) == 0 {
		if strings.TrimSpace(first.Content) != "" {
			return first.Content, nil
		}
		return noResponseReply, nil
	}

	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, r.Name+": "+r.Content)
	}
	followUp := append(append([]llm.Message{}, messages...), llm.Message{
		Role:    llm.RoleUser,
		Content: toolResultsPrompt + strings.Join(parts, "\n\n"),
	})

	second, err := s.model.Chat(ctx, llm.ChatRequest{Messages: followUp})
	if err != nil {
		log.Printf("[AssistantService] summary call failed, returning raw tool output: %v", err)
		return results[0].Content, results
	}
	if strings.TrimSpace(second.Content) == "" {
		return results[0].Content, results
	}
	return second.Content, results
}

// runTools executes calls in order. A failing tool yields an "Error:" result
// and never stops the others.
func (s *AssistantService) runTools(ctx context.Context, calls []llm.ToolCall) []ToolResult {
	var results []ToolResult
	for _, call := range calls {
		if _, ok := s.tools.Get(call.Name); !ok {
			log.Printf("[AssistantService] skipping unknown tool %q", call.Name)
			continue
		}

		out, err := s.tools.Call(ctx, call.Name, call.Arguments)
		if err != nil {
			log.Printf("[AssistantService] tool %s failed: %v", call.Name, err)
			results = append(results, ToolResult{Name: call.Name, Content: "Error: " + err.Error()})
			continue
		}
		results = append(results, ToolResult{Name: call.Name, Content: tools.ExtractText(out)})
	}
	return results
}

func (s *AssistantService) remainingCalories(ctx context.Context, userID uuid.UUID, profile *models.UserProfile) int {
	if s.meals == nil {
		return profile.TargetCalories
	}
	summary, err := s.meals.Today(ctx, userID)
	if err != nil {
		log.Printf("[AssistantService] could not load today's meals for %s: %v", userID, err)
		return profile.TargetCalories
	}
	// Over budget reads as nothing left
	return int(math.Max(0, math.Round(summary.RemainingCalories)))
}

func historyRole(role string) string {
	if role == llm.RoleUser {
		return llm.RoleUser
	}
	return llm.RoleAssistant
}

func (s *AssistantService) systemPrompt(remaining int) string {
	return fmt.Sprintf(`You are a helpful meal planning assistant. The user has %d calories left for the day.
Pay attention to any dietary preferences or restrictions the user mentions during the conversation and adjust your recommendations accordingly.

Follow these steps:
1. If not already mentioned, ask if they want to cook or eat out today.
2. If they haven't mentioned any dietary preferences yet, ask if they have any specific dietary needs or preferences.

If they want to cook:
3. Ask if they have specific ingredients, a cuisine preference, or a meal in mind.
4. Use the appropriate tool based on their response:
   - FindRecipesByIngredients for specific ingredients
   - ComplexRecipeSearch for cuisine preferences or specific meals
   - HalalRecipeSearch if they've mentioned halal dietary needs
5. Use GetRecipeInformation to check if recipes fit their calorie needs and dietary preferences.
6. If a recipe doesn't fit, suggest adjusting portions or finding alternatives.
7. Once they choose a recipe, use GetRecipeInstructions for cooking steps.
8. If any of the tools fail, answer based on what you know.

If they want to eat out:
3. Ask for their preferred cuisine or restaurant type.
4. Use GoogleSearch to find restaurants in %s, including any dietary preferences they've mentioned in the query.
5. Suggest options and ask for their choice.
6. If applicable, emphasize restaurants that cater to their dietary preferences.
7. If any of the tools fail, answer based on what you know.

Additional instructions:
- If the user asks for different options, use the appropriate tool to find new recipes or restaurants.
- Be concise and relevant.
- Ask for clarification if the request is unclear.
- Do not invent information or recipes. Only use data from the provided tools.
- If unsure about dietary compliance, recommend the user verify with the restaurant or check ingredients carefully.
- Refer back to previous suggestions and remember dietary preferences mentioned earlier in the conversation.`, remaining, s.region)
}
