package planner

import (
	"math/rand"

	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/plan"
)

// fallbackInsights are shown instead of AI insights when the plan was built
// locally. The first entry always signals offline mode.
var fallbackInsights = []string{
	"Plan generado sin conexión: no pudimos contactar el servicio de planes.",
	"Los valores son estimados generales, no personalizados a tu evaluación.",
	"Vuelve a generar tu plan cuando tengas conexión para recomendaciones completas.",
	"Mantén tu hidratación: al menos 8 vasos de agua al día.",
}

var fallbackStaples = []string{"Huevos", "Arroz", "Pollo", "Avena"}

// FallbackPlan synthesizes a usable plan from the local meal table: one
// uniformly random dish per slot, a fixed 2000 kcal target and fixed macros.
// The rng is injected so tests can fix the seed.
func FallbackPlan(rng *rand.Rand) *plan.Plan {
	meals := make([]plan.Meal, 0, len(slotOrder))
	for _, slot := range slotOrder {
		pool := mealPools[slot]
		c := pool[rng.Intn(len(pool))]
		meals = append(meals, plan.Meal{
			Slot:        slotLabels[slot],
			Name:        c.Name,
			Desc:        c.Desc,
			Cals:        c.Cals,
			Recipe:      c.Recipe,
			Ingredients: c.Ingredients,
		})
	}

	return &plan.Plan{
		Calories:     2000,
		Macros:       plan.Macros{Protein: "150g", Carbs: "200g", Fats: "65g"},
		Insights:     append([]string{}, fallbackInsights...),
		PerfectDay:   meals,
		ShoppingList: plan.ShoppingList{Daily: append([]string{}, fallbackStaples...)},
	}
}
