package planner

import (
	"strings"

	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/assessment"
)

// Slot is one of the four fixed daily meal positions.
type Slot int

const (
	SlotBreakfast Slot = iota
	SlotLunch
	SlotSnack
	SlotDinner
)

// slotOrder is the presentation order of a day.
var slotOrder = []Slot{SlotBreakfast, SlotLunch, SlotSnack, SlotDinner}

// slotLabels are the Spanish labels used throughout the product.
var slotLabels = map[Slot]string{
	SlotBreakfast: "Desayuno",
	SlotLunch:     "Almuerzo",
	SlotSnack:     "Merienda",
	SlotDinner:    "Cena",
}

// SlotForLabel maps a Spanish slot label to its slot by keyword. Matching is
// case-insensitive and tolerant of decorated labels ("Desayuno (7am)").
func SlotForLabel(label string) (Slot, bool) {
	low := strings.ToLower(label)
	switch {
	case strings.Contains(low, "desayuno"):
		return SlotBreakfast, true
	case strings.Contains(low, "almuerzo"):
		return SlotLunch, true
	case strings.Contains(low, "merienda"):
		return SlotSnack, true
	case strings.Contains(low, "cena"):
		return SlotDinner, true
	}
	return 0, false
}

// candidate is a dish from the fixed local meal table, used both for the
// offline fallback plan and for meal regeneration. Diets lists the special
// diets a dish fits; every dish fits a balanced diet.
type candidate struct {
	Name        string
	Desc        string
	Cals        int
	Recipe      []string
	Ingredients []string
	Diets       []assessment.DietType
}

func (c candidate) suits(diet assessment.DietType) bool {
	if diet == "" || diet == assessment.DietBalanced {
		return true
	}
	for _, d := range c.Diets {
		if d == diet {
			return true
		}
	}
	return false
}

var mealPools = map[Slot][]candidate{
	SlotBreakfast: {
		{
			Name: "Avena con guineo", Desc: "Avena cremosa con guineo maduro y canela", Cals: 420,
			Recipe:      []string{"Cocina la avena en leche a fuego lento", "Agrega el guineo en rodajas y la canela"},
			Ingredients: []string{"Avena", "Guineo", "Leche", "Canela"},
			Diets:       []assessment.DietType{assessment.DietVegetarian},
		},
		{
			Name: "Huevos revueltos con aguacate", Desc: "Tres huevos revueltos con aguacate y tostada integral", Cals: 450,
			Recipe:      []string{"Bate los huevos con una pizca de sal", "Revuelve a fuego medio y sirve con aguacate"},
			Ingredients: []string{"Huevos", "Aguacate", "Pan integral"},
			Diets:       []assessment.DietType{assessment.DietLowCarb, assessment.DietKeto, assessment.DietVegetarian},
		},
		{
			Name: "Mangú con cebolla", Desc: "Plátano majado con cebollitas salteadas", Cals: 480,
			Recipe:      []string{"Hierve los plátanos hasta ablandar", "Maja con mantequilla y corona con cebolla"},
			Ingredients: []string{"Plátano verde", "Cebolla", "Mantequilla"},
			Diets:       []assessment.DietType{assessment.DietVegetarian},
		},
		{
			Name: "Batida de proteína y avena", Desc: "Batida fría de proteína, avena y fresas", Cals: 380,
			Recipe:      []string{"Licúa todos los ingredientes con hielo"},
			Ingredients: []string{"Proteína en polvo", "Avena", "Fresas", "Leche"},
		},
	},
	SlotLunch: {
		{
			Name: "Pechuga a la plancha con arroz", Desc: "Pechuga de pollo con arroz blanco y ensalada verde", Cals: 650,
			Recipe:      []string{"Sazona la pechuga y cocina a la plancha", "Sirve con arroz y ensalada"},
			Ingredients: []string{"Pechuga de pollo", "Arroz", "Lechuga", "Tomate"},
		},
		{
			Name: "Bowl de res y vegetales", Desc: "Tiras de res salteadas con brócoli y pimientos", Cals: 600,
			Recipe:      []string{"Saltea la res a fuego alto", "Agrega los vegetales y cocina 5 minutos"},
			Ingredients: []string{"Carne de res", "Brócoli", "Pimiento", "Cebolla"},
			Diets:       []assessment.DietType{assessment.DietLowCarb, assessment.DietKeto, assessment.DietPaleo},
		},
		{
			Name: "Moro de habichuelas con pollo", Desc: "Moro criollo acompañado de pollo guisado", Cals: 700,
			Recipe:      []string{"Sofríe los sazones y agrega el arroz y las habichuelas", "Guisa el pollo aparte"},
			Ingredients: []string{"Arroz", "Habichuelas", "Pollo", "Ají"},
		},
		{
			Name: "Ensalada de garbanzos", Desc: "Garbanzos con tomate, pepino y aguacate", Cals: 540,
			Recipe:      []string{"Mezcla todo con aceite de oliva y limón"},
			Ingredients: []string{"Garbanzos", "Tomate", "Pepino", "Aguacate", "Limón"},
			Diets:       []assessment.DietType{assessment.DietVegetarian, assessment.DietVegan},
		},
	},
	SlotSnack: {
		{
			Name: "Yogur con almendras", Desc: "Yogur griego con almendras y miel", Cals: 250,
			Ingredients: []string{"Yogur griego", "Almendras", "Miel"},
			Diets:       []assessment.DietType{assessment.DietVegetarian, assessment.DietLowCarb},
		},
		{
			Name: "Fruta con mantequilla de maní", Desc: "Manzana en rodajas con mantequilla de maní", Cals: 280,
			Ingredients: []string{"Manzana", "Mantequilla de maní"},
			Diets:       []assessment.DietType{assessment.DietVegetarian, assessment.DietVegan},
		},
		{
			Name: "Huevo duro y queso", Desc: "Huevo sancochado con cubos de queso de freír", Cals: 220,
			Ingredients: []string{"Huevos", "Queso"},
			Diets:       []assessment.DietType{assessment.DietLowCarb, assessment.DietKeto, assessment.DietVegetarian},
		},
		{
			Name: "Mix de nueces", Desc: "Puñado de nueces y pasas", Cals: 300,
			Ingredients: []string{"Nueces", "Pasas"},
		},
	},
	SlotDinner: {
		{
			Name: "Pescado al horno con vegetales", Desc: "Filete de pescado horneado con zanahoria y calabacín", Cals: 520,
			Recipe:      []string{"Hornea el pescado a 200°C por 18 minutos", "Asa los vegetales en la misma bandeja"},
			Ingredients: []string{"Pescado", "Zanahoria", "Calabacín", "Aceite de oliva"},
			Diets:       []assessment.DietType{assessment.DietLowCarb, assessment.DietKeto, assessment.DietPaleo},
		},
		{
			Name: "Salmón con puré de yautía", Desc: "Salmón a la sartén con puré suave de yautía", Cals: 580,
			Recipe:      []string{"Sella el salmón por ambos lados", "Maja la yautía hervida con un poco de leche"},
			Ingredients: []string{"Salmón", "Yautía", "Leche"},
		},
		{
			Name: "Pollo guisado con batata", Desc: "Pollo guisado criollo con batata hervida", Cals: 560,
			Recipe:      []string{"Guisa el pollo con los sazones", "Hierve la batata y sirve caliente"},
			Ingredients: []string{"Pollo", "Batata", "Ají", "Cebolla"},
			Diets:       []assessment.DietType{assessment.DietPaleo},
		},
		{
			Name: "Tortilla de vegetales", Desc: "Tortilla de huevos con espinaca y pimientos", Cals: 430,
			Recipe:      []string{"Bate los huevos y agrega los vegetales", "Cocina a fuego bajo hasta cuajar"},
			Ingredients: []string{"Huevos", "Espinaca", "Pimiento", "Cebolla"},
			Diets:       []assessment.DietType{assessment.DietVegetarian, assessment.DietLowCarb, assessment.DietKeto},
		},
	},
}
