package tennis

import (
	"fmt"
	"testing"
)

func newScheduledGroup(t *testing.T, size int) *GroupStage {
	t.Helper()
	var cs []*Competitor
	for i := range size {
		cs = append(cs, NewCompetitor(fmt.Sprintf("P%d", i), i+1, 0))
	}
	g := NewGroupStage("A", cs)
	for r := range g.rounds() {
		g.scheduleRound(r, r, DefaultGrid())
	}
	return g
}

func playGroup(t *testing.T, g *GroupStage, rule ScoreRule, p1, p2 string, s Score) {
	t.Helper()
	sf, reversed, ok := g.find(p1, p2)
	if !ok {
		t.Fatalf("no fixture %s vs %s", p1, p2)
	}
	if reversed {
		s = s.Swap()
	}
	if err := sf.Play(rule, s); err != nil {
		t.Fatalf("play %s vs %s: %v", p1, p2, err)
	}
}

func TestGroupFixtures(t *testing.T) {
	g := newScheduledGroup(t, 4)

	if len(g.Fixtures) != 6 || len(g.Scheduled) != 6 {
		t.Fatalf("fixtures = %d, scheduled = %d", len(g.Fixtures), len(g.Scheduled))
	}
	for i, sf := range g.Scheduled {
		if sf.Fixture != g.Fixtures[i] {
			t.Errorf("scheduled %d does not share its fixture", i)
		}
		if sf.Kind != StageGroup || sf.Label != "Group A" {
			t.Errorf("scheduled %d: kind %v label %q", i, sf.Kind, sf.Label)
		}
	}
	first := g.Scheduled[0]
	if first.Time != "8:00-9:00" || first.Court != 1 || first.Round != 1 {
		t.Errorf("first fixture at %s court %d round %d", first.Time, first.Court, first.Round)
	}
	if last := g.Scheduled[5]; last.Round != 3 || last.Court != 2 {
		t.Errorf("last fixture round %d court %d", last.Round, last.Court)
	}
}

func TestGroupStandingsUnbeatenFirst(t *testing.T) {
	rule, _ := RuleFor(FormatSingleSet)
	g := newScheduledGroup(t, 4)

	playGroup(t, g, rule, "P0", "P1", Score{6, 0})
	playGroup(t, g, rule, "P2", "P0", Score{0, 6})
	playGroup(t, g, rule, "P0", "P3", Score{6, 0})
	playGroup(t, g, rule, "P1", "P2", Score{6, 3})
	playGroup(t, g, rule, "P1", "P3", Score{6, 4})
	playGroup(t, g, rule, "P2", "P3", Score{6, 2})

	if !g.Complete() {
		t.Fatal("group should be complete")
	}
	got := g.Standings()
	for i, want := range []string{"P0", "P1", "P2", "P3"} {
		if got[i].Name != want {
			t.Errorf("rank %d = %s, want %s", i+1, got[i].Name, want)
		}
	}
	if p0 := got[0]; p0.Wins() != 3 || p0.GamesWon() != 18 || p0.GamesLost() != 0 {
		t.Errorf("P0 = %d wins %d-%d", p0.Wins(), p0.GamesWon(), p0.GamesLost())
	}
}

func TestGroupStandingsTiebreaks(t *testing.T) {
	a := &Competitor{Name: "a", wins: 2, gamesWon: 12, gamesLost: 8}
	b := &Competitor{Name: "b", wins: 2, gamesWon: 14, gamesLost: 8}
	c := &Competitor{Name: "c", wins: 2, gamesWon: 16, gamesLost: 10}
	d := &Competitor{Name: "d", wins: 3, gamesWon: 6, gamesLost: 12}
	e := &Competitor{Name: "e", wins: 2, gamesWon: 12, gamesLost: 8}
	g := &GroupStage{Name: "B", Competitors: []*Competitor{a, b, c, d, e}}

	got := g.Standings()
	want := []string{"d", "c", "b", "a", "e"}
	for i := range want {
		if got[i].Name != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
	if g.Competitors[0] != a {
		t.Error("Standings reordered the group")
	}
}

func TestGroupOfFiveRests(t *testing.T) {
	g := newScheduledGroup(t, 5)
	if len(g.Fixtures) != 10 || g.rounds() != 5 {
		t.Fatalf("fixtures = %d, rounds = %d", len(g.Fixtures), g.rounds())
	}
	if _, _, ok := g.find("P0", "P9"); ok {
		t.Error("found a fixture for an unknown player")
	}
}
