package assessment

import "strings"

// Step identifies one of the five fixed wizard steps.
type Step int

const (
	StepIntro Step = iota
	StepBiometrics
	StepLifestyle
	StepPreferences
	StepGoals
)

// StepCount is the fixed number of wizard steps.
const StepCount = 5

func (s Step) String() string {
	switch s {
	case StepIntro:
		return "intro"
	case StepBiometrics:
		return "biometrics"
	case StepLifestyle:
		return "lifestyle"
	case StepPreferences:
		return "preferences"
	case StepGoals:
		return "goals"
	}
	return "unknown"
}

// Direction is the navigation direction of the last transition, consumed by
// the presenting layer for its transition animation.
type Direction int

const (
	DirBack    Direction = -1
	DirNone    Direction = 0
	DirForward Direction = 1
)

// Wizard is the multi-step intake state machine. Forward navigation is gated
// by the current step's required-field predicate over the form; backward
// navigation is unconditional and floored at the first step.
type Wizard struct {
	step          Step
	lastDirection Direction
}

// NewWizard returns a wizard positioned at the intro step.
func NewWizard() *Wizard {
	return &Wizard{step: StepIntro, lastDirection: DirNone}
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	return w.step
}

// LastDirection returns the direction of the last transition.
func (w *Wizard) LastDirection() Direction {
	return w.lastDirection
}

// AtEnd reports whether the wizard is on the final step.
func (w *Wizard) AtEnd() bool {
	return w.step == StepGoals
}

// Next advances to the following step when the current step's required
// fields are complete. It reports whether the wizard advanced.
func (w *Wizard) Next(f *Form) bool {
	if w.step >= StepGoals {
		return false
	}
	if !StepComplete(w.step, f) {
		return false
	}
	w.step++
	w.lastDirection = DirForward
	return true
}

// Prev moves back one step, floored at the intro step. The direction is set
// even when already at the first step.
func (w *Wizard) Prev() {
	if w.step > StepIntro {
		w.step--
	}
	w.lastDirection = DirBack
}

// StepComplete is the required-field predicate for a step. The intro step
// has no required fields.
func StepComplete(s Step, f *Form) bool {
	switch s {
	case StepIntro:
		return true
	case StepBiometrics:
		return f.Age > 0 && f.WeightLb > 0 && f.HeightCm > 0 && f.Gender != ""
	case StepLifestyle:
		return f.SleepHours != "" && f.StressLevel != "" && f.CookingTime != "" && f.Budget != ""
	case StepPreferences:
		return f.DietType != ""
	case StepGoals:
		return f.MainGoal != "" && strings.TrimSpace(f.Motivation) != ""
	}
	return false
}
