// Package store owns all mutable app state: the in-progress assessment, the
// wizard position, the active plan, liked meals and plan credits. Every
// other component reads snapshots and requests mutations through it; every
// mutation is committed to the blob store before the call returns.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/assessment"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/likes"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/plan"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/planner"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/storage"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/usage"
)

var (
	// ErrGenerationInFlight means a plan generation is already running;
	// the second submission is rejected, not queued.
	ErrGenerationInFlight = errors.New("plan generation already in flight")
	// ErrSignInRequired means the operation needs a signed-in user.
	ErrSignInRequired = errors.New("sign in required")
	// ErrNoActivePlan means the operation needs an active plan.
	ErrNoActivePlan = errors.New("no active plan")
)

// Acquirer produces a plan for an assessment. It never fails; see the
// planner package for the fallback policy.
type Acquirer interface {
	Acquire(ctx context.Context, form *assessment.Form, userID string) *plan.Plan
}

// Options configures a Store.
type Options struct {
	PlanLimit         int
	Unlimited         bool
	UsageRefreshDelay time.Duration
	SignOut           func() // external sign-out side effect, run on Reset
	Rand              *rand.Rand
}

// Store is the single owner of the state in this package's doc comment.
type Store struct {
	blobs    *storage.BlobStore
	acquirer Acquirer
	notifier likes.Notifier
	querier  usage.Querier
	history  *plan.Repository // optional

	signOut           func()
	usageRefreshDelay time.Duration
	rng               *rand.Rand

	mu         sync.Mutex
	form       *assessment.Form
	wizard     *assessment.Wizard
	activePlan *plan.Plan
	liked      map[string]bool
	counter    usage.Counter
	userID     string
	generating bool
	usageTimer *time.Timer
}

// New creates a Store. history may be nil when no local database is wired.
func New(blobs *storage.BlobStore, acquirer Acquirer, notifier likes.Notifier, querier usage.Querier, history *plan.Repository, opts Options) *Store {
	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Store{
		blobs:             blobs,
		acquirer:          acquirer,
		notifier:          notifier,
		querier:           querier,
		history:           history,
		signOut:           opts.SignOut,
		usageRefreshDelay: opts.UsageRefreshDelay,
		rng:               rng,
		form:              assessment.NewForm(),
		wizard:            assessment.NewWizard(),
		liked:             map[string]bool{},
		counter:           usage.Counter{Limit: opts.PlanLimit, Unlimited: opts.Unlimited},
	}
}

// Load restores persisted state from the blob store. Missing blobs leave
// the corresponding entity at its default.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	form := assessment.NewForm()
	if _, err := s.blobs.Load(storage.KeyAssessmentForm, form); err != nil {
		return fmt.Errorf("failed to restore assessment form: %w", err)
	}
	s.form = form

	var p plan.Plan
	found, err := s.blobs.Load(storage.KeyActivePlan, &p)
	if err != nil {
		return fmt.Errorf("failed to restore active plan: %w", err)
	}
	if found {
		s.activePlan = &p
	}

	liked := map[string]bool{}
	if _, err := s.blobs.Load(storage.KeyLikedMeals, &liked); err != nil {
		return fmt.Errorf("failed to restore liked meals: %w", err)
	}
	s.liked = liked

	var userID string
	if _, err := s.blobs.Load(storage.KeyUserID, &userID); err != nil {
		return fmt.Errorf("failed to restore user id: %w", err)
	}
	s.userID = userID

	return nil
}

// SetUserID stores the current user identifier.
func (s *Store) SetUserID(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = id
	return s.blobs.Save(storage.KeyUserID, id)
}

// UserID returns the current user identifier, empty when signed out.
func (s *Store) UserID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.userID
}

// UpdateForm applies a mutation to the assessment form and persists the
// result synchronously.
func (s *Store) UpdateForm(mutate func(*assessment.Form)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	mutate(s.form)
	return s.blobs.Save(storage.KeyAssessmentForm, s.form)
}

// Form returns a snapshot of the assessment form.
func (s *Store) Form() *assessment.Form {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.form.Clone()
}

// Plan returns a snapshot of the active plan, or nil when none is set.
func (s *Store) Plan() *plan.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activePlan.Clone()
}

// LikedMeals returns a snapshot of the liked-meals map.
func (s *Store) LikedMeals() map[string]bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]bool, len(s.liked))
	for k, v := range s.liked {
		out[k] = v
	}
	return out
}

// IsLiked reports whether a meal is currently liked.
func (s *Store) IsLiked(mealName string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.liked[mealName]
}

// WizardStep returns the wizard's current step.
func (s *Store) WizardStep() assessment.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wizard.Step()
}

// WizardDirection returns the direction of the wizard's last transition.
func (s *Store) WizardDirection() assessment.Direction {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wizard.LastDirection()
}

// NextStep advances the wizard when the current step is complete and
// reports whether it advanced.
func (s *Store) NextStep() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.wizard.Next(s.form)
}

// PrevStep moves the wizard back one step.
func (s *Store) PrevStep() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.wizard.Prev()
}

// GeneratePlan acquires a plan for the current assessment and commits it.
// It is single-shot guarded: while an acquisition is in flight every further
// call fails with ErrGenerationInFlight, so rapid repeated submission can
// never trigger duplicate remote calls.
func (s *Store) GeneratePlan(ctx context.Context) (*plan.Plan, error) {
	s.mu.Lock()
	if s.generating {
		s.mu.Unlock()
		return nil, ErrGenerationInFlight
	}
	s.generating = true
	form := s.form.Clone()
	userID := s.userID
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.generating = false
		s.mu.Unlock()
	}()

	p := s.acquirer.Acquire(ctx, form, userID)
	if err := s.SavePlan(p); err != nil {
		return nil, err
	}
	return p.Clone(), nil
}

// SavePlan replaces the active plan wholesale, clears liked meals, persists
// both, appends the plan to history, and schedules a usage-counter refresh
// after a short delay so the external counter can settle.
func (s *Store) SavePlan(p *plan.Plan) error {
	s.mu.Lock()
	s.activePlan = p.Clone()
	s.liked = map[string]bool{}
	userID := s.userID
	errPlan := s.blobs.Save(storage.KeyActivePlan, s.activePlan)
	errLiked := s.blobs.Save(storage.KeyLikedMeals, s.liked)
	s.mu.Unlock()

	if errPlan != nil {
		return errPlan
	}
	if errLiked != nil {
		return errLiked
	}

	if s.history != nil && userID != "" {
		name := fmt.Sprintf("Plan %s", time.Now().Format("2006-01-02"))
		if _, err := s.history.Save(context.Background(), userID, name, p); err != nil {
			log.Printf("Warning: failed to save plan to history: %v", err)
		}
	}

	s.scheduleUsageRefresh()
	return nil
}

func (s *Store) scheduleUsageRefresh() {
	if s.querier == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.usageTimer != nil {
		s.usageTimer.Stop()
	}
	s.usageTimer = time.AfterFunc(s.usageRefreshDelay, func() {
		s.RefreshUsage(context.Background())
	})
}

// RefreshUsage queries the remote usage counter. A failed query counts as
// zero: usage tracking fails open and never blocks plan generation.
func (s *Store) RefreshUsage(ctx context.Context) {
	s.mu.Lock()
	userID := s.userID
	s.mu.Unlock()

	count := 0
	if s.querier != nil && userID != "" {
		n, err := s.querier.PlansThisPeriod(ctx, userID)
		if err != nil {
			log.Printf("Usage counter unavailable, assuming zero: %v", err)
		} else {
			count = n
		}
	}

	s.mu.Lock()
	s.counter.CountThisPeriod = count
	s.mu.Unlock()
}

// Credits returns a snapshot of the usage counter.
func (s *Store) Credits() usage.Counter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.counter
}

// ToggleLike optimistically flips the liked flag for a meal. An added like
// is reported to the remote collaborator; if that fails the flip is rolled
// back, keyed by meal name, and the error is returned for a dismissible
// notice. Removing a like never calls the remote. The returned bool is the
// liked state after the call settles.
func (s *Store) ToggleLike(ctx context.Context, mealName, mealType string) (bool, error) {
	s.mu.Lock()
	if s.userID == "" {
		s.mu.Unlock()
		return false, ErrSignInRequired
	}
	userID := s.userID
	prev := s.liked[mealName]
	now := !prev
	if now {
		s.liked[mealName] = true
	} else {
		delete(s.liked, mealName)
	}
	if err := s.blobs.Save(storage.KeyLikedMeals, s.liked); err != nil {
		log.Printf("Warning: failed to persist liked meals: %v", err)
	}
	s.mu.Unlock()

	if !now {
		// Removals stay local: the collaborator has no delete endpoint.
		return false, nil
	}

	if err := s.notifier.NotifyLiked(ctx, userID, mealName, mealType); err != nil {
		s.mu.Lock()
		if prev {
			s.liked[mealName] = true
		} else {
			delete(s.liked, mealName)
		}
		if perr := s.blobs.Save(storage.KeyLikedMeals, s.liked); perr != nil {
			log.Printf("Warning: failed to persist liked meals rollback: %v", perr)
		}
		s.mu.Unlock()
		return prev, fmt.Errorf("could not register like for %q: %w", mealName, err)
	}
	return true, nil
}

// RegenerateMeal swaps the dish at mealIndex for a different candidate from
// the same slot pool and commits the updated plan. The new dish name is
// returned for user feedback.
func (s *Store) RegenerateMeal(mealIndex int, slotLabel, currentName string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activePlan == nil {
		return "", ErrNoActivePlan
	}

	updated, newName, err := planner.Regenerate(s.activePlan, mealIndex, slotLabel, currentName, s.form.DietType, s.rng)
	if err != nil {
		return "", err
	}
	s.activePlan = updated
	if err := s.blobs.Save(storage.KeyActivePlan, s.activePlan); err != nil {
		return "", err
	}
	return newName, nil
}

// Reset clears all owned state back to defaults, removes every persisted
// key and runs the external sign-out hook.
func (s *Store) Reset() error {
	s.mu.Lock()
	s.form = assessment.NewForm()
	s.wizard = assessment.NewWizard()
	s.activePlan = nil
	s.liked = map[string]bool{}
	s.counter.CountThisPeriod = 0
	s.userID = ""
	if s.usageTimer != nil {
		s.usageTimer.Stop()
		s.usageTimer = nil
	}

	var firstErr error
	for _, key := range []string{
		storage.KeyAssessmentForm,
		storage.KeyActivePlan,
		storage.KeyLikedMeals,
		storage.KeyUserID,
	} {
		if err := s.blobs.Delete(key); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	s.mu.Unlock()

	if s.signOut != nil {
		s.signOut()
	}
	return firstErr
}
