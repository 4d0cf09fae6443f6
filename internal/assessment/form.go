// Package assessment holds the intake form collected by the multi-step
// wizard and the wizard's step/validation state machine.
package assessment

// Gender of the user.
type Gender string

const (
	GenderFemale Gender = "female"
	GenderMale   Gender = "male"
)

// ActivityLevel describes habitual physical activity.
type ActivityLevel string

const (
	ActivitySedentary ActivityLevel = "sedentary"
	ActivityLight     ActivityLevel = "light"
	ActivityModerate  ActivityLevel = "moderate"
	ActivityActive    ActivityLevel = "active"
	ActivityAthlete   ActivityLevel = "athlete"
)

// CookingTime is how long the user can spend cooking per day.
type CookingTime string

const (
	CookingNone   CookingTime = "none"
	Cooking30Min  CookingTime = "30min"
	Cooking1Hour  CookingTime = "1hour"
	CookingPlenty CookingTime = "plenty"
)

// Budget is the user's food budget tier.
type Budget string

const (
	BudgetLow       Budget = "low"
	BudgetMedium    Budget = "medium"
	BudgetHigh      Budget = "high"
	BudgetUnlimited Budget = "unlimited"
)

// DietType is the dietary pattern the plan should follow.
type DietType string

const (
	DietBalanced   DietType = "balanced"
	DietLowCarb    DietType = "low_carb"
	DietKeto       DietType = "keto"
	DietVegetarian DietType = "vegetarian"
	DietVegan      DietType = "vegan"
	DietPaleo      DietType = "paleo"
)

// Goal is the user's main objective.
type Goal string

const (
	GoalLoseFat     Goal = "lose_fat"
	GoalGainMuscle  Goal = "gain_muscle"
	GoalMaintenance Goal = "maintenance"
	GoalPerformance Goal = "performance"
)

// Form is the mutable intake record filled in step by step by the wizard.
// Weight is always stored in pounds and height in centimeters; unit toggles
// in the presenting layer are view-only conversions (see the units package).
type Form struct {
	Age               int           `json:"age"`
	Gender            Gender        `json:"gender"`
	HeightCm          float64       `json:"height"`
	WeightLb          float64       `json:"weight"`
	BodyFat           float64       `json:"body_fat,omitempty"`
	ActivityLevel     ActivityLevel `json:"activity_level"`
	SleepHours        string        `json:"sleep_hours"`
	StressLevel       string        `json:"stress_level"`
	CookingTime       CookingTime   `json:"cooking_time"`
	Budget            Budget        `json:"budget"`
	DietType          DietType      `json:"diet_type"`
	Allergies         []string      `json:"allergies"`
	OtherAllergies    string        `json:"other_allergies"`
	MedicalConditions []string      `json:"medical_conditions"`
	MainGoal          Goal          `json:"main_goal"`
	Motivation        string        `json:"motivation"`
	Struggles         []string      `json:"struggles"`
	SkipLunch         bool          `json:"skip_lunch"`
}

// NewForm returns a form with all-empty defaults, ready for the wizard.
func NewForm() *Form {
	return &Form{
		Allergies:         []string{},
		MedicalConditions: []string{},
		Struggles:         []string{},
	}
}

// Clone returns a deep copy of the form so callers never hold a mutable
// alias into owned state.
func (f *Form) Clone() *Form {
	c := *f
	c.Allergies = append([]string{}, f.Allergies...)
	c.MedicalConditions = append([]string{}, f.MedicalConditions...)
	c.Struggles = append([]string{}, f.Struggles...)
	return &c
}
