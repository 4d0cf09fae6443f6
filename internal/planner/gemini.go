package planner

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/assessment"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/config"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/plan"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// geminiGenerator asks Gemini directly for the plan JSON. Used when no
// dedicated planning backend is deployed.
type geminiGenerator struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiGenerator creates a Generator backed by the Gemini API.
func NewGeminiGenerator(ctx context.Context, cfg *config.Config) (Generator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiAPIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	model := client.GenerativeModel("gemini-pro")
	model.ResponseMIMEType = "application/json"
	return &geminiGenerator{client: client, model: model}, nil
}

// Generate prompts Gemini with the serialized assessment and decodes the
// returned plan through the same tolerant codec as the remote backend.
func (g *geminiGenerator) Generate(ctx context.Context, form *assessment.Form, userID string) (*plan.Plan, error) {
	formJSON, err := json.Marshal(form)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal assessment: %w", err)
	}

	prompt := fmt.Sprintf(`
You are a nutrition coach for a Dominican meal-planning app. Based on the
user's assessment, build a one-day meal plan with exactly four meals, labeled
in Spanish: Desayuno, Almuerzo, Merienda, Cena. Meal names must be unique.

User assessment:
%s

Return the result strictly as a JSON object with this structure:
{
  "calories": 2000,
  "macros": {"protein": "150g", "carbs": "200g", "fats": "65g"},
  "insights": ["short tip 1", "short tip 2"],
  "perfectDay": [
    {"meal": "Desayuno", "name": "Dish name", "desc": "Short description", "cals": 400,
     "recipe": ["step 1", "step 2"], "ingredients": ["item 1", "item 2"]}
  ],
  "shoppingList": {"daily": ["item 1", "item 2"]}
}

Write all user-facing text in Spanish. Do not include any other text or
formatting in your response.
`, string(formJSON))

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate plan content: %w", err)
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("no plan content generated")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("generated plan content is not text")
	}

	return plan.Decode([]byte(stripCodeFences(string(text))))
}

// Close closes the underlying Gemini client.
func (g *geminiGenerator) Close() error {
	return g.client.Close()
}

// stripCodeFences removes a surrounding ```json fence if the model added one.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
