package shopping

import "strings"

// Category is a display grouping for shopping items.
type Category string

const (
	CategoryProduce Category = "produce"
	CategoryProtein Category = "protein"
	CategoryDairy   Category = "dairy"
	CategoryPantry  Category = "pantry"
	CategoryOther   Category = "other"
)

// categoryKeywords is checked in priority order; the keyword lists are not
// mutually exclusive, the first matching category wins.
var categoryKeywords = []struct {
	category Category
	words    []string
}{
	{CategoryProduce, []string{
		"tomate", "cebolla", "lechuga", "aguacate", "guineo", "plátano", "platano",
		"manzana", "fresa", "espinaca", "pimiento", "zanahoria", "brócoli", "brocoli",
		"calabacín", "calabacin", "pepino", "limón", "limon", "batata", "yautía", "yautia",
		"ají", "aji", "fruta", "verdura",
	}},
	{CategoryProtein, []string{
		"pollo", "pechuga", "carne", "res", "cerdo", "pavo", "pescado", "salmón", "salmon",
		"atún", "atun", "camarones", "huevo", "proteína", "proteina", "garbanzo", "habichuela",
	}},
	{CategoryDairy, []string{
		"leche", "queso", "yogur", "yogurt", "mantequilla", "crema",
	}},
	{CategoryPantry, []string{
		"arroz", "avena", "pan", "pasta", "harina", "aceite", "azúcar", "azucar", "sal",
		"café", "cafe", "canela", "miel", "nueces", "almendra", "maní", "mani", "pasas",
	}},
}

var categoryLabels = map[Category]string{
	CategoryProduce: "Frutas y verduras",
	CategoryProtein: "Proteínas",
	CategoryDairy:   "Lácteos",
	CategoryPantry:  "Despensa",
	CategoryOther:   "Otros",
}

// Categories returns every category in display order.
func Categories() []Category {
	return []Category{CategoryProduce, CategoryProtein, CategoryDairy, CategoryPantry, CategoryOther}
}

// CategoryLabel returns the display name for a category.
func CategoryLabel(c Category) string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return categoryLabels[CategoryOther]
}

// Categorize assigns an item to one of five fixed categories by keyword
// containment on the lowercased item. Unmatched items land in "other".
func Categorize(item string) Category {
	low := strings.ToLower(item)
	for _, group := range categoryKeywords {
		for _, w := range group.words {
			if strings.Contains(low, w) {
				return group.category
			}
		}
	}
	return CategoryOther
}
