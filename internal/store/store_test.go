package store

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/assessment"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/plan"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/storage"
	"github.com/fuegoservicios-lab/MealfitRD-sub000/internal/usage"
)

type mockAcquirer struct {
	mu      sync.Mutex
	calls   int
	block   chan struct{} // when set, Acquire waits until closed
	result  *plan.Plan
}

func (m *mockAcquirer) Acquire(ctx context.Context, form *assessment.Form, userID string) *plan.Plan {
	m.mu.Lock()
	m.calls++
	block := m.block
	m.mu.Unlock()
	if block != nil {
		<-block
	}
	if m.result != nil {
		return m.result.Clone()
	}
	return &plan.Plan{
		Calories:   2000,
		PerfectDay: []plan.Meal{{Slot: "Desayuno", Name: "Avena con guineo", Cals: 420}},
	}
}

func (m *mockAcquirer) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

type mockNotifier struct {
	mu    sync.Mutex
	fail  bool
	calls int
}

func (m *mockNotifier) NotifyLiked(ctx context.Context, userID, mealName, mealType string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.fail {
		return errors.New("likes service down")
	}
	return nil
}

type mockQuerier struct {
	mu    sync.Mutex
	count int
	err   error
	calls int
}

func (m *mockQuerier) PlansThisPeriod(ctx context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	return m.count, m.err
}

func (m *mockQuerier) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func newTestStore(t *testing.T, acquirer *mockAcquirer, notifier *mockNotifier, querier usage.Querier) *Store {
	t.Helper()
	blobs, err := storage.NewBlobStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewBlobStore failed: %v", err)
	}
	return New(blobs, acquirer, notifier, querier, nil, Options{
		PlanLimit: 3,
		Rand:      rand.New(rand.NewSource(1)),
	})
}

func TestSavePlanClearsLikes(t *testing.T) {
	s := newTestStore(t, &mockAcquirer{}, &mockNotifier{}, nil)
	if err := s.SetUserID("user-1"); err != nil {
		t.Fatalf("SetUserID failed: %v", err)
	}

	if err := s.SavePlan(&plan.Plan{PerfectDay: []plan.Meal{{Slot: "Cena", Name: "Sopa", Cals: 300}}}); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}
	if _, err := s.ToggleLike(context.Background(), "Sopa", "Cena"); err != nil {
		t.Fatalf("ToggleLike failed: %v", err)
	}
	if !s.IsLiked("Sopa") {
		t.Fatal("Expected Sopa to be liked")
	}

	if err := s.SavePlan(&plan.Plan{PerfectDay: []plan.Meal{{Slot: "Cena", Name: "Pescado", Cals: 500}}}); err != nil {
		t.Fatalf("Second SavePlan failed: %v", err)
	}
	if len(s.LikedMeals()) != 0 {
		t.Errorf("Expected likes to be cleared on new plan, got %v", s.LikedMeals())
	}
}

func TestToggleLikeRollbackOnRemoteFailure(t *testing.T) {
	notifier := &mockNotifier{fail: true}
	s := newTestStore(t, &mockAcquirer{}, notifier, nil)
	if err := s.SetUserID("user-1"); err != nil {
		t.Fatalf("SetUserID failed: %v", err)
	}

	liked, err := s.ToggleLike(context.Background(), "Mangú con cebolla", "Desayuno")
	if err == nil {
		t.Fatal("Expected an error when the notification fails")
	}
	if liked {
		t.Error("Expected settled state to be un-liked")
	}
	if s.IsLiked("Mangú con cebolla") {
		t.Error("Expected optimistic like to be rolled back")
	}
}

func TestToggleLikeRemovalStaysLocal(t *testing.T) {
	notifier := &mockNotifier{}
	s := newTestStore(t, &mockAcquirer{}, notifier, nil)
	if err := s.SetUserID("user-1"); err != nil {
		t.Fatalf("SetUserID failed: %v", err)
	}

	if _, err := s.ToggleLike(context.Background(), "Sopa", "Cena"); err != nil {
		t.Fatalf("ToggleLike failed: %v", err)
	}
	liked, err := s.ToggleLike(context.Background(), "Sopa", "Cena")
	if err != nil {
		t.Fatalf("Unlike failed: %v", err)
	}
	if liked {
		t.Error("Expected meal to be un-liked")
	}
	if notifier.calls != 1 {
		t.Errorf("Expected exactly 1 remote call (the add), got %d", notifier.calls)
	}
}

func TestToggleLikeRequiresSignIn(t *testing.T) {
	s := newTestStore(t, &mockAcquirer{}, &mockNotifier{}, nil)

	_, err := s.ToggleLike(context.Background(), "Sopa", "Cena")
	if !errors.Is(err, ErrSignInRequired) {
		t.Errorf("Expected ErrSignInRequired, got %v", err)
	}
	if s.IsLiked("Sopa") {
		t.Error("Expected no like to be recorded without a user")
	}
}

func TestGeneratePlanSingleShot(t *testing.T) {
	acquirer := &mockAcquirer{block: make(chan struct{})}
	s := newTestStore(t, acquirer, &mockNotifier{}, nil)

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		_, err := s.GeneratePlan(context.Background())
		done <- err
	}()
	<-started

	// Wait for the first call to be in flight.
	deadline := time.After(2 * time.Second)
	for acquirer.callCount() == 0 {
		select {
		case <-deadline:
			t.Fatal("First acquisition never started")
		default:
			time.Sleep(time.Millisecond)
		}
	}

	if _, err := s.GeneratePlan(context.Background()); !errors.Is(err, ErrGenerationInFlight) {
		t.Errorf("Expected ErrGenerationInFlight for the second submission, got %v", err)
	}

	close(acquirer.block)
	if err := <-done; err != nil {
		t.Fatalf("First generation failed: %v", err)
	}
	if acquirer.callCount() != 1 {
		t.Errorf("Expected exactly one acquisition call, got %d", acquirer.callCount())
	}

	// After the first settles, generation is available again.
	if _, err := s.GeneratePlan(context.Background()); err != nil {
		t.Errorf("Expected generation to be available after settle, got %v", err)
	}
}

func TestRegenerateMealCommits(t *testing.T) {
	s := newTestStore(t, &mockAcquirer{}, &mockNotifier{}, nil)
	if err := s.SavePlan(&plan.Plan{
		PerfectDay: []plan.Meal{
			{Slot: "Desayuno", Name: "Avena con guineo", Cals: 420},
			{Slot: "Cena", Name: "Tortilla de vegetales", Cals: 430},
		},
	}); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	newName, err := s.RegenerateMeal(1, "Cena", "Tortilla de vegetales")
	if err != nil {
		t.Fatalf("RegenerateMeal failed: %v", err)
	}
	p := s.Plan()
	if p.PerfectDay[1].Name != newName {
		t.Errorf("Committed plan entry %q does not match returned name %q", p.PerfectDay[1].Name, newName)
	}
	if p.PerfectDay[1].Cals != 430 {
		t.Errorf("Calorie target changed to %d", p.PerfectDay[1].Cals)
	}
}

func TestRegenerateMealWithoutPlan(t *testing.T) {
	s := newTestStore(t, &mockAcquirer{}, &mockNotifier{}, nil)
	if _, err := s.RegenerateMeal(0, "Cena", "x"); !errors.Is(err, ErrNoActivePlan) {
		t.Errorf("Expected ErrNoActivePlan, got %v", err)
	}
}

func TestUsageFailsOpen(t *testing.T) {
	s := newTestStore(t, &mockAcquirer{}, &mockNotifier{}, &mockQuerier{err: errors.New("rpc down")})
	if err := s.SetUserID("user-1"); err != nil {
		t.Fatalf("SetUserID failed: %v", err)
	}

	s.RefreshUsage(context.Background())
	c := s.Credits()
	if c.CountThisPeriod != 0 {
		t.Errorf("Expected failed query to count as zero, got %d", c.CountThisPeriod)
	}
	if c.Remaining() != 3 {
		t.Errorf("Expected full credits, got %d", c.Remaining())
	}
}

func TestUsageRefresh(t *testing.T) {
	s := newTestStore(t, &mockAcquirer{}, &mockNotifier{}, &mockQuerier{count: 2})
	if err := s.SetUserID("user-1"); err != nil {
		t.Fatalf("SetUserID failed: %v", err)
	}

	s.RefreshUsage(context.Background())
	if got := s.Credits().Remaining(); got != 1 {
		t.Errorf("Expected 1 remaining credit, got %d", got)
	}
}

func TestResetClearsEverything(t *testing.T) {
	signedOut := false
	blobs, err := storage.NewBlobStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewBlobStore failed: %v", err)
	}
	s := New(blobs, &mockAcquirer{}, &mockNotifier{}, nil, nil, Options{
		PlanLimit: 3,
		SignOut:   func() { signedOut = true },
	})

	if err := s.SetUserID("user-1"); err != nil {
		t.Fatalf("SetUserID failed: %v", err)
	}
	if err := s.UpdateForm(func(f *assessment.Form) { f.Age = 30 }); err != nil {
		t.Fatalf("UpdateForm failed: %v", err)
	}
	if err := s.SavePlan(&plan.Plan{PerfectDay: []plan.Meal{{Slot: "Cena", Name: "Sopa", Cals: 300}}}); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}
	if !s.NextStep() {
		t.Fatal("Expected wizard to advance from intro")
	}

	if err := s.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}

	if !signedOut {
		t.Error("Expected sign-out hook to run")
	}
	if s.UserID() != "" {
		t.Error("Expected user id to be cleared")
	}
	if s.Plan() != nil {
		t.Error("Expected plan to be cleared")
	}
	if s.Form().Age != 0 {
		t.Error("Expected form to be cleared")
	}
	if s.WizardStep() != assessment.StepIntro {
		t.Error("Expected wizard back at intro")
	}

	// Nothing must survive a reload.
	fresh := New(blobs, &mockAcquirer{}, &mockNotifier{}, nil, nil, Options{PlanLimit: 3})
	if err := fresh.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if fresh.UserID() != "" || fresh.Plan() != nil || fresh.Form().Age != 0 {
		t.Error("Expected persisted state to be removed on reset")
	}
}

func TestResetCancelsPendingUsageRefresh(t *testing.T) {
	querier := &mockQuerier{}
	blobs, err := storage.NewBlobStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewBlobStore failed: %v", err)
	}
	s := New(blobs, &mockAcquirer{}, &mockNotifier{}, querier, nil, Options{
		PlanLimit:         3,
		UsageRefreshDelay: 30 * time.Millisecond,
	})

	if err := s.SetUserID("user-1"); err != nil {
		t.Fatalf("SetUserID failed: %v", err)
	}
	if err := s.SavePlan(&plan.Plan{PerfectDay: []plan.Meal{{Slot: "Cena", Name: "Sopa", Cals: 300}}}); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}
	if err := s.Reset(); err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	// A new sign-in must not be hit by the refresh scheduled pre-reset.
	if err := s.SetUserID("user-2"); err != nil {
		t.Fatalf("SetUserID failed: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	if got := querier.callCount(); got != 0 {
		t.Errorf("Expected no usage query after reset, got %d", got)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	blobs, err := storage.NewBlobStore(dir)
	if err != nil {
		t.Fatalf("NewBlobStore failed: %v", err)
	}
	s := New(blobs, &mockAcquirer{}, &mockNotifier{}, nil, nil, Options{PlanLimit: 3})

	if err := s.SetUserID("user-9"); err != nil {
		t.Fatalf("SetUserID failed: %v", err)
	}
	if err := s.UpdateForm(func(f *assessment.Form) {
		f.Age = 41
		f.DietType = assessment.DietKeto
	}); err != nil {
		t.Fatalf("UpdateForm failed: %v", err)
	}
	if err := s.SavePlan(&plan.Plan{Calories: 1800, PerfectDay: []plan.Meal{{Slot: "Cena", Name: "Sopa", Cals: 300}}}); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}
	if _, err := s.ToggleLike(context.Background(), "Sopa", "Cena"); err != nil {
		t.Fatalf("ToggleLike failed: %v", err)
	}

	restored := New(blobs, &mockAcquirer{}, &mockNotifier{}, nil, nil, Options{PlanLimit: 3})
	if err := restored.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if restored.UserID() != "user-9" {
		t.Errorf("Expected user id to be restored, got %q", restored.UserID())
	}
	f := restored.Form()
	if f.Age != 41 || f.DietType != assessment.DietKeto {
		t.Errorf("Form not restored: %+v", f)
	}
	p := restored.Plan()
	if p == nil || p.Calories != 1800 {
		t.Errorf("Plan not restored: %+v", p)
	}
	if !restored.IsLiked("Sopa") {
		t.Error("Liked meals not restored")
	}
}

func TestPlanSnapshotIsIsolated(t *testing.T) {
	s := newTestStore(t, &mockAcquirer{}, &mockNotifier{}, nil)
	if err := s.SavePlan(&plan.Plan{PerfectDay: []plan.Meal{{Slot: "Cena", Name: "Sopa", Cals: 300}}}); err != nil {
		t.Fatalf("SavePlan failed: %v", err)
	}

	snap := s.Plan()
	snap.PerfectDay[0].Name = "Hacked"
	if s.Plan().PerfectDay[0].Name != "Sopa" {
		t.Error("Snapshot mutation leaked into owned state")
	}
}
