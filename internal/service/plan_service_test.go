package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"nextlevel/academy-app/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newPlanFixture(t *testing.T) (*fakeProfileRepo, *fakeProvider, PlanService, primitive.ObjectID) {
	t.Helper()
	repo := newFakeProfileRepo()
	provider := &fakeProvider{}
	svc := NewPlanService(repo, provider, nil)
	return repo, provider, svc, primitive.NewObjectID()
}

func TestGetWeeklyPlanGeneratesAndReconciles(t *testing.T) {
	repo, provider, svc, userID := newPlanFixture(t)
	profile := domain.NewProfile(userID, validDraft(), validResults(), sampleReport())
	repo.put(profile)

	// Provider returns one session more than the schedule allows.
	provider.planResult = domain.PlanResult{Sessions: generatedSessions(4)}

	got, err := svc.GetWeeklyPlan(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetWeeklyPlan() error = %v", err)
	}

	if len(got.CurrentSessions) != 3 {
		t.Fatalf("sessions = %d, want 3 (schedule caps the plan)", len(got.CurrentSessions))
	}
	for i, s := range got.CurrentSessions {
		if s.Duration != 120 {
			t.Errorf("session %d duration = %d, want 120 (6h over 3 sessions)", i, s.Duration)
		}
		if s.Completed {
			t.Errorf("session %d starts completed", i)
		}
		if s.ID == "" {
			t.Errorf("session %d has no id", i)
		}
	}

	stored, _ := repo.stored(userID)
	if len(stored.CurrentSessions) != 3 {
		t.Errorf("persisted sessions = %d, want 3", len(stored.CurrentSessions))
	}
}

func TestGetWeeklyPlanShortCircuitsWhenPopulated(t *testing.T) {
	repo, provider, svc, userID := newPlanFixture(t)
	repo.put(profileWithSessions(userID, 2, false))

	got, err := svc.GetWeeklyPlan(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetWeeklyPlan() error = %v", err)
	}
	if provider.planCalls != 0 {
		t.Fatalf("planCalls = %d, a populated week must never regenerate", provider.planCalls)
	}
	if len(got.CurrentSessions) != 3 {
		t.Errorf("sessions = %d", len(got.CurrentSessions))
	}
}

func TestGetWeeklyPlanServesPlanDespitePersistFailure(t *testing.T) {
	repo, provider, svc, userID := newPlanFixture(t)
	repo.put(domain.NewProfile(userID, validDraft(), validResults(), sampleReport()))
	repo.updateErr = errors.New("write concern failed")
	provider.planResult = domain.PlanResult{Sessions: generatedSessions(3)}

	got, err := svc.GetWeeklyPlan(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetWeeklyPlan() error = %v, generated plans are served even if the write fails", err)
	}
	if len(got.CurrentSessions) != 3 {
		t.Errorf("sessions = %d, want 3", len(got.CurrentSessions))
	}
}

func TestGetWeeklyPlanProviderFailure(t *testing.T) {
	repo, provider, svc, userID := newPlanFixture(t)
	repo.put(domain.NewProfile(userID, validDraft(), validResults(), sampleReport()))
	provider.planErr = errors.New("model overloaded")

	if _, err := svc.GetWeeklyPlan(context.Background(), userID); err == nil {
		t.Fatal("error = nil, want provider failure")
	}
	stored, _ := repo.stored(userID)
	if len(stored.CurrentSessions) != 0 {
		t.Error("failed generation must not write sessions")
	}
}

func TestToggleSessionPersistsFlip(t *testing.T) {
	repo, _, svc, userID := newPlanFixture(t)
	repo.put(profileWithSessions(userID, 2, false))

	got, err := svc.ToggleSession(context.Background(), userID, "b")
	if err != nil {
		t.Fatalf("ToggleSession() error = %v", err)
	}
	if !got.SessionByID("b").Completed {
		t.Error("session b not completed after toggle")
	}

	stored, _ := repo.stored(userID)
	if !stored.SessionByID("b").Completed {
		t.Error("toggle was not persisted")
	}

	// Toggling again clears the mark.
	got, err = svc.ToggleSession(context.Background(), userID, "b")
	if err != nil {
		t.Fatalf("ToggleSession() second error = %v", err)
	}
	if got.SessionByID("b").Completed {
		t.Error("second toggle did not clear the mark")
	}
}

func TestToggleSessionUnknownID(t *testing.T) {
	repo, _, svc, userID := newPlanFixture(t)
	repo.put(profileWithSessions(userID, 2, false))

	if _, err := svc.ToggleSession(context.Background(), userID, "nope"); !errors.Is(err, ErrSessionNotFound) {
		t.Fatalf("error = %v, want ErrSessionNotFound", err)
	}
}

func TestFinishWeekAdvancesProfileAtomically(t *testing.T) {
	repo, provider, svc, userID := newPlanFixture(t)
	profile := profileWithSessions(userID, 4, true)
	profile.Stats.Technical = 60
	repo.put(profile)

	// Provider reports technical below the stored value; the merge must
	// keep the higher one.
	provider.planResult = domain.PlanResult{
		Sessions:     generatedSessions(3),
		UpdatedStats: domain.UserStats{Technical: 55, Physical: 62, Tactical: 46, Mental: 50, Speed: 58, Stamina: 53},
		Evaluation:   "Good week, push the left foot more.",
	}

	got, err := svc.FinishWeek(context.Background(), userID, "sessions felt easy")
	if err != nil {
		t.Fatalf("FinishWeek() error = %v", err)
	}

	if got.CurrentWeek != 5 || got.Streak != 3 {
		t.Errorf("week = %d, streak = %d, want 5 and 3", got.CurrentWeek, got.Streak)
	}
	if got.Stats.Technical != 60 {
		t.Errorf("Technical = %d, merged stats must never decrease", got.Stats.Technical)
	}
	if got.Stats.Physical != 62 {
		t.Errorf("Physical = %d, want 62", got.Stats.Physical)
	}
	last := got.StatsHistory[len(got.StatsHistory)-1]
	if last.Date != "W4" {
		t.Errorf("history tag = %q, want W4", last.Date)
	}
	for i, s := range got.CurrentSessions {
		if s.Completed {
			t.Errorf("new session %d starts completed", i)
		}
		if s.Duration != 120 {
			t.Errorf("new session %d duration = %d, want 120", i, s.Duration)
		}
	}
	if provider.lastFeedback != "sessions felt easy" {
		t.Errorf("feedback = %q", provider.lastFeedback)
	}

	stored, _ := repo.stored(userID)
	if stored.CurrentWeek != 5 {
		t.Errorf("stored week = %d, want 5", stored.CurrentWeek)
	}
}

func TestFinishWeekRequiresCompleteWeek(t *testing.T) {
	repo, provider, svc, userID := newPlanFixture(t)
	repo.put(profileWithSessions(userID, 4, false))

	if _, err := svc.FinishWeek(context.Background(), userID, ""); !errors.Is(err, ErrWeekIncomplete) {
		t.Fatalf("error = %v, want ErrWeekIncomplete", err)
	}
	if provider.planCalls != 0 {
		t.Errorf("planCalls = %d, incomplete weeks must not generate", provider.planCalls)
	}
}

func TestFinishWeekFailureLeavesProfileUntouched(t *testing.T) {
	repo, provider, svc, userID := newPlanFixture(t)
	before := profileWithSessions(userID, 4, true)
	repo.put(before)
	provider.planErr = errors.New("model overloaded")

	if _, err := svc.FinishWeek(context.Background(), userID, ""); err == nil {
		t.Fatal("error = nil, want provider failure")
	}

	after, _ := repo.stored(userID)
	if !reflect.DeepEqual(before, after) {
		t.Error("stored profile changed despite failed review")
	}
}

func TestFinishWeekSupersededByNewerPlan(t *testing.T) {
	repo, provider, svc, userID := newPlanFixture(t)
	repo.put(profileWithSessions(userID, 4, true))
	provider.planResult = domain.PlanResult{Sessions: generatedSessions(3)}

	// Another device finishes the week while generation runs.
	provider.onGeneratePlan = func() {
		p, _ := repo.stored(userID)
		p.CurrentWeek = 5
		repo.put(p)
	}

	if _, err := svc.FinishWeek(context.Background(), userID, ""); !errors.Is(err, ErrReviewSuperseded) {
		t.Fatalf("error = %v, want ErrReviewSuperseded", err)
	}

	after, _ := repo.stored(userID)
	if after.CurrentWeek != 5 {
		t.Errorf("stored week = %d, the newer plan must win", after.CurrentWeek)
	}
}

func TestFinishWeekGateRejectsConcurrentRun(t *testing.T) {
	repo := newFakeProfileRepo()
	gate := NewGenerationGate()
	svc := NewPlanService(repo, &fakeProvider{}, gate)
	userID := primitive.NewObjectID()
	repo.put(profileWithSessions(userID, 4, true))

	gate.tryAcquire(userID.Hex())
	defer gate.release(userID.Hex())

	if _, err := svc.FinishWeek(context.Background(), userID, ""); !errors.Is(err, ErrGenerationInFlight) {
		t.Fatalf("error = %v, want ErrGenerationInFlight", err)
	}
}

// --- Exercise checklist ---

func TestOpenSessionStartsAtFirstExercise(t *testing.T) {
	repo, _, svc, userID := newPlanFixture(t)
	repo.put(profileWithSessions(userID, 2, false))

	view, err := svc.OpenSession(context.Background(), userID, "a")
	if err != nil {
		t.Fatalf("OpenSession() error = %v", err)
	}
	if view.Active != 0 || view.CompletedCount != 0 || view.Percent != 0 {
		t.Errorf("fresh view = active %d, done %d, percent %d", view.Active, view.CompletedCount, view.Percent)
	}
	if view.FinishAllowed {
		t.Error("finish allowed with nothing done")
	}
	if len(view.Groups) != 3 {
		t.Fatalf("groups = %d, want 3 (warm-up, main, conditioning)", len(view.Groups))
	}
	if view.Groups[0].Phase != domain.PhaseWarmUp || view.Groups[2].Phase != domain.PhaseConditioning {
		t.Errorf("group order = %v, %v, %v", view.Groups[0].Phase, view.Groups[1].Phase, view.Groups[2].Phase)
	}
}

func TestToggleExerciseUpdatesProgress(t *testing.T) {
	repo, _, svc, userID := newPlanFixture(t)
	repo.put(profileWithSessions(userID, 2, false))
	ctx := context.Background()

	if _, err := svc.OpenSession(ctx, userID, "a"); err != nil {
		t.Fatalf("OpenSession() error = %v", err)
	}

	view, err := svc.ToggleExercise(ctx, userID, "a", 0)
	if err != nil {
		t.Fatalf("ToggleExercise() error = %v", err)
	}
	if view.CompletedCount != 1 || view.Percent != 33 {
		t.Errorf("after one of three: done %d, percent %d", view.CompletedCount, view.Percent)
	}
	if !view.FinishAllowed {
		t.Error("finish not allowed after one exercise")
	}

	view, err = svc.ToggleExercise(ctx, userID, "a", 1)
	if err != nil {
		t.Fatalf("ToggleExercise() error = %v", err)
	}
	if view.Percent != 67 {
		t.Errorf("percent = %d, want 67", view.Percent)
	}
}

func TestToggleExerciseRequiresOpenView(t *testing.T) {
	repo, _, svc, userID := newPlanFixture(t)
	repo.put(profileWithSessions(userID, 2, false))

	if _, err := svc.ToggleExercise(context.Background(), userID, "a", 0); !errors.Is(err, ErrNoOpenSession) {
		t.Fatalf("error = %v, want ErrNoOpenSession", err)
	}
}

func TestFinishSessionRequiresProgress(t *testing.T) {
	repo, _, svc, userID := newPlanFixture(t)
	repo.put(profileWithSessions(userID, 2, false))
	ctx := context.Background()

	if _, err := svc.OpenSession(ctx, userID, "a"); err != nil {
		t.Fatalf("OpenSession() error = %v", err)
	}
	if _, err := svc.FinishSession(ctx, userID, "a"); !errors.Is(err, ErrFinishNotAllowed) {
		t.Fatalf("error = %v, want ErrFinishNotAllowed", err)
	}
}

func TestFinishSessionMarksCompleteAndClosesView(t *testing.T) {
	repo, _, svc, userID := newPlanFixture(t)
	repo.put(profileWithSessions(userID, 2, false))
	ctx := context.Background()

	if _, err := svc.OpenSession(ctx, userID, "a"); err != nil {
		t.Fatalf("OpenSession() error = %v", err)
	}
	if _, err := svc.ToggleExercise(ctx, userID, "a", 0); err != nil {
		t.Fatalf("ToggleExercise() error = %v", err)
	}

	got, err := svc.FinishSession(ctx, userID, "a")
	if err != nil {
		t.Fatalf("FinishSession() error = %v", err)
	}
	if !got.SessionByID("a").Completed {
		t.Error("session not completed")
	}
	stored, _ := repo.stored(userID)
	if !stored.SessionByID("a").Completed {
		t.Error("completion not persisted")
	}
	// Exercise marks stay out of the stored document.
	for _, ex := range stored.SessionByID("a").Exercises {
		if ex.Completed {
			t.Error("exercise completion leaked into the store")
		}
	}

	if _, err := svc.ToggleExercise(ctx, userID, "a", 1); !errors.Is(err, ErrNoOpenSession) {
		t.Fatalf("view still open after finish: error = %v", err)
	}
}

func TestLogoutDiscardsOpenViews(t *testing.T) {
	repo, _, svc, userID := newPlanFixture(t)
	repo.put(profileWithSessions(userID, 2, false))
	ctx := context.Background()

	if _, err := svc.OpenSession(ctx, userID, "a"); err != nil {
		t.Fatalf("OpenSession() error = %v", err)
	}
	svc.Logout(userID)

	if _, err := svc.ToggleExercise(ctx, userID, "a", 0); !errors.Is(err, ErrNoOpenSession) {
		t.Fatalf("error = %v, want ErrNoOpenSession after logout", err)
	}
}

func TestChatUsesProfileContext(t *testing.T) {
	repo, provider, svc, userID := newPlanFixture(t)
	repo.put(profileWithSessions(userID, 2, false))
	provider.chatReply = "Short passes, both feet."

	reply, err := svc.Chat(context.Background(), userID, nil, "What should I work on?")
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	if reply != "Short passes, both feet." {
		t.Errorf("reply = %q", reply)
	}
}

func TestChatWithoutProfile(t *testing.T) {
	_, _, svc, userID := newPlanFixture(t)
	if _, err := svc.Chat(context.Background(), userID, nil, "hi"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("error = %v, want ErrProfileNotFound", err)
	}
}
