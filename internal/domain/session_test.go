package domain

import "testing"

func TestSessionMinutes(t *testing.T) {
	tests := []struct {
		hours, sessions, want int
	}{
		{6, 3, 120},
		{5, 3, 100},
		{7, 3, 140},
		{4, 3, 80},
		{1, 7, 9}, // 8.57 rounds up
		{6, 0, 0},
	}
	for _, tt := range tests {
		if got := SessionMinutes(tt.hours, tt.sessions); got != tt.want {
			t.Fatalf("SessionMinutes(%d,%d) = %d, want %d", tt.hours, tt.sessions, got, tt.want)
		}
	}
}

func makeSessions(n int) []TrainingSession {
	out := make([]TrainingSession, n)
	for i := range out {
		out[i] = TrainingSession{
			Title:     "Session",
			Type:      SessionTechnical,
			Duration:  45,
			Completed: true,
			Exercises: []Exercise{
				{Phase: PhaseWarmUp, Name: "Jog", Completed: true},
				{Phase: PhaseMain, Name: "Passing"},
			},
		}
	}
	return out
}

func TestReconcileSessions_TruncatesToSessionsPerWeek(t *testing.T) {
	sessions := makeSessions(4)
	sessions[0].Title = "first"
	sessions[3].Title = "last"

	got := ReconcileSessions(sessions, 3, 120)
	if len(got) != 3 {
		t.Fatalf("expected 3 sessions, got %d", len(got))
	}
	if got[0].Title != "first" {
		t.Fatalf("provider order not preserved: %q", got[0].Title)
	}
}

func TestReconcileSessions_AcceptsShorterListUnpadded(t *testing.T) {
	got := ReconcileSessions(makeSessions(2), 5, 60)
	if len(got) != 2 {
		t.Fatalf("expected 2 sessions, got %d", len(got))
	}
}

func TestReconcileSessions_ForcesInvariants(t *testing.T) {
	got := ReconcileSessions(makeSessions(3), 3, 120)
	for i, s := range got {
		if s.Completed {
			t.Fatalf("session %d still completed", i)
		}
		if s.Duration != 120 {
			t.Fatalf("session %d duration = %d, want 120", i, s.Duration)
		}
		if s.ID == "" {
			t.Fatalf("session %d missing generated id", i)
		}
		for j, ex := range s.Exercises {
			if ex.Completed {
				t.Fatalf("session %d exercise %d still completed", i, j)
			}
		}
	}
}

func TestReconcileSessions_KeepsProviderID(t *testing.T) {
	sessions := makeSessions(1)
	sessions[0].ID = "w1-s1"
	got := ReconcileSessions(sessions, 3, 90)
	if got[0].ID != "w1-s1" {
		t.Fatalf("provider id replaced: %q", got[0].ID)
	}
}

func TestWeekComplete(t *testing.T) {
	if WeekComplete(nil) {
		t.Fatal("empty plan must not be complete")
	}

	sessions := []TrainingSession{
		{ID: "a", Completed: true},
		{ID: "b", Completed: true},
	}
	if !WeekComplete(sessions) {
		t.Fatal("all-complete plan should be complete")
	}

	sessions = append(sessions, TrainingSession{ID: "c"})
	if WeekComplete(sessions) {
		t.Fatal("adding an incomplete session must flip the predicate")
	}

	sessions[2].Completed = true
	if !WeekComplete(sessions) {
		t.Fatal("completing the last session must flip the predicate back")
	}
}
