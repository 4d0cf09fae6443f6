package assessment

import "testing"

func completeForm() *Form {
	f := NewForm()
	f.Age = 30
	f.Gender = GenderFemale
	f.HeightCm = 165
	f.WeightLb = 150
	f.SleepHours = "7-8"
	f.StressLevel = "moderate"
	f.CookingTime = Cooking30Min
	f.Budget = BudgetMedium
	f.DietType = DietBalanced
	f.MainGoal = GoalLoseFat
	f.Motivation = "feel better this summer"
	return f
}

func TestWizardGating(t *testing.T) {
	w := NewWizard()
	f := NewForm()

	// Intro has no required fields.
	if !w.Next(f) {
		t.Fatal("Expected Next to advance from intro")
	}
	if w.Step() != StepBiometrics {
		t.Fatalf("Expected step biometrics, got %s", w.Step())
	}

	// Biometrics with age unset must not advance.
	f.Gender = GenderMale
	f.HeightCm = 180
	f.WeightLb = 190
	if w.Next(f) {
		t.Error("Expected Next to be blocked with age unset")
	}
	if w.Step() != StepBiometrics {
		t.Errorf("Expected step to stay at biometrics, got %s", w.Step())
	}

	// Completing the step advances by exactly one and sets direction +1.
	f.Age = 42
	if !w.Next(f) {
		t.Fatal("Expected Next to advance with complete biometrics")
	}
	if w.Step() != StepLifestyle {
		t.Errorf("Expected step lifestyle, got %s", w.Step())
	}
	if w.LastDirection() != DirForward {
		t.Errorf("Expected direction +1, got %d", w.LastDirection())
	}
}

func TestWizardPrevFloorsAtIntro(t *testing.T) {
	w := NewWizard()
	w.Prev()
	if w.Step() != StepIntro {
		t.Errorf("Expected step to floor at intro, got %s", w.Step())
	}
	if w.LastDirection() != DirBack {
		t.Errorf("Expected direction -1 even at floor, got %d", w.LastDirection())
	}
}

func TestWizardWalksAllSteps(t *testing.T) {
	w := NewWizard()
	f := completeForm()

	advanced := 0
	for w.Next(f) {
		advanced++
	}
	if advanced != StepCount-1 {
		t.Errorf("Expected %d transitions, got %d", StepCount-1, advanced)
	}
	if !w.AtEnd() {
		t.Errorf("Expected wizard to finish at goals, got %s", w.Step())
	}

	// Past the final step Next is a no-op.
	if w.Next(f) {
		t.Error("Expected Next past the final step to be refused")
	}
}

func TestStepCompletePredicates(t *testing.T) {
	f := completeForm()

	cases := []struct {
		name  string
		step  Step
		unset func(*Form)
	}{
		{"LifestyleNeedsBudget", StepLifestyle, func(f *Form) { f.Budget = "" }},
		{"PreferencesNeedsDiet", StepPreferences, func(f *Form) { f.DietType = "" }},
		{"GoalsNeedsMotivation", StepGoals, func(f *Form) { f.Motivation = "   " }},
		{"GoalsNeedsGoal", StepGoals, func(f *Form) { f.MainGoal = "" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := f.Clone()
			if !StepComplete(tc.step, g) {
				t.Fatalf("Expected complete form to satisfy %s", tc.step)
			}
			tc.unset(g)
			if StepComplete(tc.step, g) {
				t.Errorf("Expected predicate for %s to fail", tc.step)
			}
		})
	}
}
