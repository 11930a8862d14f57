package tennis

import (
	"errors"
	"testing"
)

type stats struct{ wins, losses, won, lost int }

func statsOf(c *Competitor) stats {
	return stats{c.Wins(), c.Losses(), c.GamesWon(), c.GamesLost()}
}

func TestFixturePlayRecordsStats(t *testing.T) {
	rule, _ := RuleFor(FormatSingleSet)
	a := NewCompetitor("Ann", 1, 4)
	b := NewCompetitor("Bea", 2, 3.5)
	f := NewFixture(a, b)

	if f.Played() || f.Winner() != nil || f.Loser() != nil {
		t.Fatal("new fixture should be unplayed")
	}
	if err := f.Play(rule, Score{6, 3}); err != nil {
		t.Fatalf("play: %v", err)
	}
	if f.Winner() != a || f.Loser() != b {
		t.Errorf("winner = %v, loser = %v", f.Winner(), f.Loser())
	}
	if got := statsOf(a); got != (stats{1, 0, 6, 3}) {
		t.Errorf("Ann stats = %+v", got)
	}
	if got := statsOf(b); got != (stats{0, 1, 3, 6}) {
		t.Errorf("Bea stats = %+v", got)
	}
	if f.String() != "Ann 6-3 Bea" {
		t.Errorf("String() = %q", f.String())
	}
}

func TestFixtureEditEqualsFreshPlay(t *testing.T) {
	rule, _ := RuleFor(FormatSingleSet)
	scores := []Score{{6, 0}, {4, 6}, {7, 6}, {5, 7}, {6, 4}}

	for _, first := range scores {
		for _, second := range scores {
			a := NewCompetitor("Ann", 1, 0)
			b := NewCompetitor("Bea", 2, 0)
			edited := NewFixture(a, b)
			if err := edited.Play(rule, first); err != nil {
				t.Fatal(err)
			}
			if err := edited.Play(rule, second); err != nil {
				t.Fatal(err)
			}

			fa := NewCompetitor("Ann", 1, 0)
			fb := NewCompetitor("Bea", 2, 0)
			if err := NewFixture(fa, fb).Play(rule, second); err != nil {
				t.Fatal(err)
			}

			if statsOf(a) != statsOf(fa) || statsOf(b) != statsOf(fb) {
				t.Errorf("%v then %v: got %+v/%+v, want %+v/%+v",
					first, second, statsOf(a), statsOf(b), statsOf(fa), statsOf(fb))
			}
		}
	}
}

func TestFixtureInvalidScoreLeavesStateUntouched(t *testing.T) {
	rule, _ := RuleFor(FormatTwoSets)
	a := NewCompetitor("Ann", 1, 0)
	b := NewCompetitor("Bea", 2, 0)
	f := NewFixture(a, b)
	if err := f.Play(rule, Score{2, 1}); err != nil {
		t.Fatal(err)
	}

	err := f.Play(rule, Score{3, 0})
	if !errors.Is(err, ErrScore) {
		t.Fatalf("err = %v, want ErrScore", err)
	}
	if s, _ := f.Score(); s != (Score{2, 1}) {
		t.Errorf("score = %v, want 2-1", s)
	}
	if got := statsOf(a); got != (stats{1, 0, 2, 1}) {
		t.Errorf("Ann stats = %+v", got)
	}
}

func TestKnockoutFixtureLeavesStatsAlone(t *testing.T) {
	rule, _ := RuleFor(FormatTwoSets)
	a := NewCompetitor("Ann", 1, 0)
	b := NewCompetitor("Bea", 2, 0)
	sf := &ScheduledFixture{Fixture: NewFixture(a, b), Kind: StageFinal, Label: "Final"}

	if err := sf.Play(rule, Score{1, 2}); err != nil {
		t.Fatal(err)
	}
	if sf.Winner() != b {
		t.Errorf("winner = %v, want Bea", sf.Winner())
	}
	if statsOf(a) != (stats{}) || statsOf(b) != (stats{}) {
		t.Errorf("knockout play changed stats: %+v %+v", statsOf(a), statsOf(b))
	}
}

func TestFixtureMatches(t *testing.T) {
	f := NewFixture(NewCompetitor("Ann", 1, 0), NewCompetitor("Bea", 2, 0))

	tests := []struct {
		p1, p2       string
		ok, reversed bool
	}{
		{"Ann", "Bea", true, false},
		{"Bea", "Ann", true, true},
		{"Ann", "Cat", false, false},
		{"ann", "Bea", false, false},
	}
	for _, tt := range tests {
		ok, reversed := f.matches(tt.p1, tt.p2)
		if ok != tt.ok || reversed != tt.reversed {
			t.Errorf("matches(%q, %q) = %v, %v", tt.p1, tt.p2, ok, reversed)
		}
	}
}
