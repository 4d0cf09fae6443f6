// Package usage tracks plan-generation credits for the current billing
// period. The authoritative count lives in a remote service; failures there
// fail open so usage tracking never blocks the user.
package usage

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/config"
)

// Counter is the local view of plan credits.
type Counter struct {
	CountThisPeriod int  `json:"count_this_period"`
	Limit           int  `json:"limit"`
	Unlimited       bool `json:"unlimited"`
}

// Remaining returns the credits left in the period. The unlimited tier
// always reports full availability.
func (c Counter) Remaining() int {
	if c.Unlimited {
		return c.Limit
	}
	remaining := c.Limit - c.CountThisPeriod
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Querier returns the number of plans a user generated this period.
type Querier interface {
	PlansThisPeriod(ctx context.Context, userID string) (int, error)
}

type client struct {
	endpoint   string
	httpClient *http.Client
}

// NewClient creates a Querier for the configured usage endpoint.
func NewClient(cfg *config.Config) Querier {
	return &client{
		endpoint: cfg.UsageAPIURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// PlansThisPeriod queries the remote counter for a user.
func (c *client) PlansThisPeriod(ctx context.Context, userID string) (int, error) {
	reqURL, err := url.Parse(c.endpoint)
	if err != nil {
		return 0, fmt.Errorf("failed to parse usage endpoint: %w", err)
	}
	params := reqURL.Query()
	params.Set("user_id", userID)
	reqURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL.String(), nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to query usage: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("usage api error: status=%d", resp.StatusCode)
	}

	var payload struct {
		Count int `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return 0, fmt.Errorf("failed to decode usage response: %w", err)
	}
	return payload.Count, nil
}
