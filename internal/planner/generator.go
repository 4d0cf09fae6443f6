// Package planner acquires daily plans from the Mealfit planning service,
// synthesizes a local fallback when the service is unreachable, and
// regenerates individual meals from the local meal table.
package planner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/assessment"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/auth"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/config"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/plan"
)

// Generator produces a plan for an assessment. Implementations talk to a
// remote service and may fail; the Client wraps them with the fallback.
type Generator interface {
	Generate(ctx context.Context, form *assessment.Form, userID string) (*plan.Plan, error)
}

// remoteGenerator POSTs the assessment to the configured planning endpoint.
type remoteGenerator struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewRemoteGenerator creates a Generator backed by the HTTP planning service.
func NewRemoteGenerator(cfg *config.Config) Generator {
	return &remoteGenerator{
		endpoint: cfg.PlannerAPIURL,
		apiKey:   cfg.PlannerAPIKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Generate serializes the form plus user_id, POSTs it and decodes the
// response, which may be a plan object or a one-element array of plans.
func (g *remoteGenerator) Generate(ctx context.Context, form *assessment.Form, userID string) (*plan.Plan, error) {
	payload := struct {
		*assessment.Form
		UserID string `json:"user_id"`
	}{form, userID}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal plan request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	token, err := auth.MintToken(g.apiKey, "/plans/")
	if err != nil {
		return nil, fmt.Errorf("failed to mint request token: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send plan request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("planner api error: status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan response: %w", err)
	}

	return plan.Decode(body)
}
