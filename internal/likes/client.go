// Package likes notifies the preference-learning service about liked meals.
// Only additions are sent; removing a like stays a local operation because
// the service exposes no delete endpoint.
package likes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/auth"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/config"
)

// Notifier reports a liked meal to the remote collaborator.
type Notifier interface {
	NotifyLiked(ctx context.Context, userID, mealName, mealType string) error
}

type client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// NewClient creates a Notifier for the configured likes endpoint.
func NewClient(cfg *config.Config) Notifier {
	return &client{
		endpoint: cfg.LikesAPIURL,
		apiKey:   cfg.PlannerAPIKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// NotifyLiked POSTs the like. Any non-2xx response or transport error is an
// error so the caller can roll back its optimistic state.
func (c *client) NotifyLiked(ctx context.Context, userID, mealName, mealType string) error {
	body := map[string]string{
		"user_id":   userID,
		"meal_name": mealName,
		"meal_type": mealType,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal like notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	token, err := auth.MintToken(c.apiKey, "/likes/")
	if err != nil {
		return fmt.Errorf("failed to mint request token: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send like notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("likes api error: status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}
	return nil
}
