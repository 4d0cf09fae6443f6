package planner

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/assessment"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/plan"
)

type failingGenerator struct{}

func (f *failingGenerator) Generate(ctx context.Context, form *assessment.Form, userID string) (*plan.Plan, error) {
	return nil, errors.New("connection refused")
}

type fixedGenerator struct {
	plan *plan.Plan
}

func (f *fixedGenerator) Generate(ctx context.Context, form *assessment.Form, userID string) (*plan.Plan, error) {
	return f.plan, nil
}

func TestAcquireFallbackShape(t *testing.T) {
	client := NewClient(&failingGenerator{}, rand.New(rand.NewSource(1)))

	p := client.Acquire(context.Background(), assessment.NewForm(), "user-1")
	if p == nil {
		t.Fatal("Acquire must never return nil")
	}
	if p.Calories != 2000 {
		t.Errorf("Expected fallback calories 2000, got %d", p.Calories)
	}
	if len(p.PerfectDay) != 4 {
		t.Fatalf("Expected 4 meals in fallback plan, got %d", len(p.PerfectDay))
	}

	wantSlots := []string{"Desayuno", "Almuerzo", "Merienda", "Cena"}
	for i, m := range p.PerfectDay {
		if m.Slot != wantSlots[i] {
			t.Errorf("Expected slot %s at index %d, got %s", wantSlots[i], i, m.Slot)
		}
		if m.Name == "" || m.Cals <= 0 {
			t.Errorf("Fallback meal %d is incomplete: %+v", i, m)
		}
	}

	if len(p.Insights) != 4 {
		t.Fatalf("Expected 4 fallback insights, got %d", len(p.Insights))
	}
	if !strings.Contains(strings.ToLower(p.Insights[0]), "sin conexión") {
		t.Errorf("First insight must signal offline mode, got %q", p.Insights[0])
	}
	if len(p.ShoppingList.Daily) != 4 {
		t.Errorf("Expected 4 staple shopping items, got %d", len(p.ShoppingList.Daily))
	}
}

func TestAcquireFallbackIsSeedDeterministic(t *testing.T) {
	a := NewClient(&failingGenerator{}, rand.New(rand.NewSource(7))).Acquire(context.Background(), assessment.NewForm(), "")
	b := NewClient(&failingGenerator{}, rand.New(rand.NewSource(7))).Acquire(context.Background(), assessment.NewForm(), "")
	for i := range a.PerfectDay {
		if a.PerfectDay[i].Name != b.PerfectDay[i].Name {
			t.Fatalf("Same seed produced different meals at index %d: %q vs %q", i, a.PerfectDay[i].Name, b.PerfectDay[i].Name)
		}
	}
}

func TestAcquirePassesThroughRemotePlan(t *testing.T) {
	remote := &plan.Plan{
		Calories:   1750,
		PerfectDay: []plan.Meal{{Slot: "Desayuno", Name: "Tostadas", Cals: 400}},
	}
	client := NewClient(&fixedGenerator{plan: remote}, rand.New(rand.NewSource(1)))

	p := client.Acquire(context.Background(), assessment.NewForm(), "user-1")
	if p.Calories != 1750 {
		t.Errorf("Expected remote plan to pass through, got calories %d", p.Calories)
	}
}

func TestAcquireFallsBackOnMeallessPlan(t *testing.T) {
	client := NewClient(&fixedGenerator{plan: &plan.Plan{Calories: 1500}}, rand.New(rand.NewSource(1)))

	p := client.Acquire(context.Background(), assessment.NewForm(), "user-1")
	if len(p.PerfectDay) != 4 {
		t.Errorf("Expected fallback for a plan without meals, got %d meals", len(p.PerfectDay))
	}
	if p.Calories != 2000 {
		t.Errorf("Expected fallback calories, got %d", p.Calories)
	}
}
