package domain

import "testing"

func sessionFixture() TrainingSession {
	return TrainingSession{
		ID:    "s1",
		Title: "Technique circuit",
		Exercises: []Exercise{
			{Phase: PhaseWarmUp, Name: "Jog"},
			{Phase: PhaseMain, Name: "Passing"},
			{Phase: PhaseMain, Name: "First touch"},
			{Phase: PhaseConditioning, Name: "Shuttle runs"},
		},
	}
}

func TestNewSessionProgress_StartsAtFirstIncomplete(t *testing.T) {
	s := sessionFixture()
	p := NewSessionProgress(s)
	if p.Active() != 0 {
		t.Fatalf("fresh session active = %d, want 0", p.Active())
	}

	s.Exercises[0].Completed = true
	s.Exercises[1].Completed = true
	p = NewSessionProgress(s)
	if p.Active() != 2 {
		t.Fatalf("reopened session active = %d, want 2", p.Active())
	}
	if p.CompletedCount() != 2 {
		t.Fatalf("completed count = %d, want 2", p.CompletedCount())
	}
}

func TestSessionProgress_ToggleAndPercent(t *testing.T) {
	p := NewSessionProgress(sessionFixture())
	if p.Percent() != 0 {
		t.Fatalf("initial percent = %d", p.Percent())
	}

	p.Toggle(0)
	if p.Percent() != 25 {
		t.Fatalf("percent after one of four = %d, want 25", p.Percent())
	}

	p.Toggle(1)
	p.Toggle(2)
	if p.Percent() != 75 {
		t.Fatalf("percent = %d, want 75", p.Percent())
	}

	p.Toggle(1) // untoggle
	if p.Percent() != 50 {
		t.Fatalf("percent after untoggle = %d, want 50", p.Percent())
	}

	p.Toggle(99) // ignored
	if p.CompletedCount() != 2 {
		t.Fatalf("out-of-range toggle changed state: %d", p.CompletedCount())
	}
}

func TestSessionProgress_PercentRounds(t *testing.T) {
	s := TrainingSession{Exercises: []Exercise{
		{Phase: PhaseMain}, {Phase: PhaseMain}, {Phase: PhaseMain},
	}}
	p := NewSessionProgress(s)
	p.Toggle(0)
	// 1/3 = 33.33 rounds to 33
	if p.Percent() != 33 {
		t.Fatalf("percent = %d, want 33", p.Percent())
	}
	p.Toggle(1)
	// 2/3 = 66.67 rounds to 67
	if p.Percent() != 67 {
		t.Fatalf("percent = %d, want 67", p.Percent())
	}
}

func TestSessionProgress_FinishAllowed(t *testing.T) {
	p := NewSessionProgress(sessionFixture())
	if p.FinishAllowed() {
		t.Fatal("finish must require at least one completed exercise")
	}
	p.Toggle(2)
	if !p.FinishAllowed() {
		t.Fatal("one completed exercise should allow finishing")
	}
}

func TestSessionProgress_PhaseGroups(t *testing.T) {
	p := NewSessionProgress(sessionFixture())
	p.Toggle(2)

	groups := p.PhaseGroups(sessionFixture())
	if len(groups) != 3 {
		t.Fatalf("expected 3 non-empty phases, got %d", len(groups))
	}
	if groups[0].Phase != PhaseWarmUp || groups[1].Phase != PhaseMain || groups[2].Phase != PhaseConditioning {
		t.Fatalf("phase order wrong: %v %v %v", groups[0].Phase, groups[1].Phase, groups[2].Phase)
	}
	// Supplementary has no exercises and must be omitted.
	for _, g := range groups {
		if g.Phase == PhaseSupplementary {
			t.Fatal("empty phase should be omitted")
		}
	}
	if groups[1].Exercises[1].Index != 2 || !groups[1].Exercises[1].Done {
		t.Fatalf("original index or done flag lost: %+v", groups[1].Exercises[1])
	}
}

func TestSessionProgress_Focus(t *testing.T) {
	p := NewSessionProgress(sessionFixture())
	p.Focus(3)
	if p.Active() != 3 {
		t.Fatalf("active = %d, want 3", p.Active())
	}
	p.Focus(-1)
	p.Focus(17)
	if p.Active() != 3 {
		t.Fatalf("out-of-range focus changed active: %d", p.Active())
	}
}
