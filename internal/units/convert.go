// Package units converts height and weight between metric and imperial for
// display and input. Stored values are never affected: weight is always kept
// in pounds and height in centimeters.
package units

import "math"

const lbPerKg = 2.20462

// CmToFeetInches converts a height in centimeters to whole feet and inches.
// The inch remainder is rounded; a 12-inch remainder carries into the feet.
func CmToFeetInches(cm float64) (feet, inches int) {
	if cm < 0 {
		return 0, 0
	}
	totalInches := cm / 2.54
	feet = int(totalInches / 12)
	inches = int(math.Round(math.Mod(totalInches, 12)))
	if inches == 12 {
		feet++
		inches = 0
	}
	return feet, inches
}

// FeetInchesToCm converts feet and inches to centimeters, rounded to a whole
// centimeter. Callers must treat a 0ft 0in input as "height unset", not as a
// height of zero.
func FeetInchesToCm(feet, inches int) int {
	return int(math.Round(float64(feet)*30.48 + float64(inches)*2.54))
}

// LbToKg converts pounds to kilograms at display precision (one decimal).
func LbToKg(lb float64) float64 {
	return math.Round(lb/lbPerKg*10) / 10
}

// KgToLb converts kilograms to pounds at storage precision (whole pounds).
func KgToLb(kg float64) int {
	return int(math.Round(kg * lbPerKg))
}
