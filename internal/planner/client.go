package planner

import (
	"context"
	"log"
	"math/rand"
	"time"

	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/assessment"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/plan"
)

// Client acquires plans. Failures of the underlying generator are fully
// absorbed: the caller always receives a usable plan, by policy.
type Client struct {
	gen Generator
	rng *rand.Rand
}

// NewClient creates a Client around a generator backend. A nil rng gets a
// time-seeded source.
func NewClient(gen Generator, rng *rand.Rand) *Client {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Client{gen: gen, rng: rng}
}

// Acquire requests a plan for the assessment. On any failure, or when the
// service answers with a plan that has no meals, it falls back to a locally
// synthesized plan. Errors are logged, never returned.
func (c *Client) Acquire(ctx context.Context, form *assessment.Form, userID string) *plan.Plan {
	p, err := c.gen.Generate(ctx, form, userID)
	switch {
	case err != nil:
		log.Printf("Plan service unavailable, using local plan: %v", err)
	case p == nil || len(p.PerfectDay) == 0:
		log.Printf("Plan service returned a plan without meals, using local plan")
	default:
		return p
	}
	return FallbackPlan(c.rng)
}
