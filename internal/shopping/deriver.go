// Package shopping derives a flat, deduplicated, Spanish-sorted shopping
// list from a plan's meals, categorizes items for display, and persists
// derived lists.
package shopping

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/plan"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Derive flattens a plan's per-meal ingredients into one list: trimmed,
// case-insensitively deduplicated (first-seen casing wins), first letter
// capitalized, sorted with Spanish collation. A meal without ingredients
// contributes its own name as a single item. Items that differ only by a
// leading quantity ("2 Huevos" vs "1 Huevo") stay separate entries.
func Derive(p *plan.Plan) []string {
	items := []string{}
	if p == nil || len(p.PerfectDay) == 0 {
		return items
	}

	seen := make(map[string]struct{})
	for _, m := range p.PerfectDay {
		raw := m.Ingredients
		if len(raw) == 0 {
			raw = []string{m.Name}
		}
		for _, it := range raw {
			trimmed := strings.TrimSpace(it)
			if trimmed == "" {
				continue
			}
			key := strings.ToLower(trimmed)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			items = append(items, capitalize(trimmed))
		}
	}

	c := collate.New(language.Spanish, collate.IgnoreCase)
	c.SortStrings(items)
	return items
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
