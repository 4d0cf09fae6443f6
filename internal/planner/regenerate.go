package planner

import (
	"errors"
	"math/rand"

	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/assessment"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/plan"
)

var (
	// ErrMealIndexOutOfRange means the caller asked to regenerate a meal
	// slot that does not exist in the plan.
	ErrMealIndexOutOfRange = errors.New("meal index out of range")
	// ErrUnknownMealSlot means the slot label matched none of the four
	// known Spanish labels.
	ErrUnknownMealSlot = errors.New("unknown meal slot label")
)

// Regenerate swaps the dish at mealIndex for a different candidate from the
// same slot pool. The slot label and calorie target of the original entry
// are kept; only the dish (name, description, recipe, ingredients) changes.
// The input plan is not mutated: the returned plan shares everything except
// the perfectDay sequence. The new dish name is returned for user feedback.
func Regenerate(p *plan.Plan, mealIndex int, slotLabel, currentName string, diet assessment.DietType, rng *rand.Rand) (*plan.Plan, string, error) {
	if p == nil || mealIndex < 0 || mealIndex >= len(p.PerfectDay) {
		return nil, "", ErrMealIndexOutOfRange
	}

	slot, ok := SlotForLabel(slotLabel)
	if !ok {
		return nil, "", ErrUnknownMealSlot
	}

	pool := mealPools[slot]
	candidates := make([]candidate, 0, len(pool))
	for _, c := range pool {
		if c.Name != currentName && c.suits(diet) {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		// Diet filter exhausted the pool; only keep the don't-repeat rule.
		for _, c := range pool {
			if c.Name != currentName {
				candidates = append(candidates, c)
			}
		}
	}
	if len(candidates) == 0 {
		candidates = pool
	}

	pick := candidates[rng.Intn(len(candidates))]
	current := p.PerfectDay[mealIndex]

	updated := *p
	updated.PerfectDay = make([]plan.Meal, len(p.PerfectDay))
	copy(updated.PerfectDay, p.PerfectDay)
	updated.PerfectDay[mealIndex] = plan.Meal{
		Slot:        current.Slot,
		Name:        pick.Name,
		Desc:        pick.Desc,
		Cals:        current.Cals,
		Recipe:      pick.Recipe,
		Ingredients: pick.Ingredients,
	}

	return &updated, pick.Name, nil
}
