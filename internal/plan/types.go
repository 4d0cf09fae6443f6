// Package plan defines the daily nutrition plan returned by the planning
// service, the tolerant wire codec for it, and its history repository.
package plan

import (
	"bytes"
	"encoding/json"
)

// Macros holds the macro targets as display strings with unit suffix,
// e.g. "150g".
type Macros struct {
	Protein string `json:"protein"`
	Carbs   string `json:"carbs"`
	Fats    string `json:"fats"`
}

// Meal is one slot of the day. Slot carries the Spanish slot label
// ("Desayuno", "Almuerzo", "Merienda", "Cena").
type Meal struct {
	Slot        string   `json:"meal"`
	Name        string   `json:"name"`
	Desc        string   `json:"desc"`
	Cals        int      `json:"cals"`
	Recipe      []string `json:"recipe,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
}

// ShoppingList accepts both wire forms of the shopping list field: a flat
// array of items, or an object with a "daily" array.
type ShoppingList struct {
	Daily []string `json:"daily"`
}

// UnmarshalJSON decodes either `["item", ...]` or `{"daily": ["item", ...]}`.
func (s *ShoppingList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &s.Daily)
	}
	type alias ShoppingList
	var a alias
	if err := json.Unmarshal(trimmed, &a); err != nil {
		return err
	}
	*s = ShoppingList(a)
	return nil
}

// Plan is the structured daily recommendation: calorie target, macros, the
// day's meals, a few insights and a shopping list.
type Plan struct {
	Calories     int          `json:"calories"`
	Macros       Macros       `json:"macros"`
	Insights     []string     `json:"insights"`
	PerfectDay   []Meal       `json:"perfectDay"`
	ShoppingList ShoppingList `json:"shoppingList"`
}

// Clone returns a deep copy of the plan.
func (p *Plan) Clone() *Plan {
	if p == nil {
		return nil
	}
	c := *p
	c.Insights = append([]string{}, p.Insights...)
	c.ShoppingList.Daily = append([]string{}, p.ShoppingList.Daily...)
	c.PerfectDay = make([]Meal, len(p.PerfectDay))
	for i, m := range p.PerfectDay {
		m.Recipe = append([]string{}, m.Recipe...)
		m.Ingredients = append([]string{}, m.Ingredients...)
		c.PerfectDay[i] = m
	}
	return &c
}
