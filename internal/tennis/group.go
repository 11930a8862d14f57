package tennis

import (
	"cmp"
	"slices"
)

// GroupStage is a round-robin pool of competitors.
type GroupStage struct {
	Name        string
	Competitors []*Competitor
	Fixtures    []*Fixture
	Scheduled   []*ScheduledFixture

	plan RoundRobinPlan
}

// NewGroupStage creates the group and its fixtures in pairing order.
func NewGroupStage(name string, competitors []*Competitor) *GroupStage {
	g := &GroupStage{
		Name:        name,
		Competitors: competitors,
	}
	g.generatePairings()
	return g
}

func (g *GroupStage) generatePairings() {
	g.plan = PlanRoundRobin(len(g.Competitors))
	g.Fixtures = make([]*Fixture, 0, len(g.plan.Pairs))
	for _, p := range g.plan.Pairs {
		g.Fixtures = append(g.Fixtures, NewFixture(g.Competitors[p.Home], g.Competitors[p.Away]))
	}
}

// Label is the stage text shown on the group's fixtures.
func (g *GroupStage) Label() string {
	return "Group " + g.Name
}

func (g *GroupStage) rounds() int {
	per := g.plan.PerRound()
	return (len(g.Fixtures) + per - 1) / per
}

// scheduleRound puts round r of the group into the given time slot, one
// fixture per court.
func (g *GroupStage) scheduleRound(r, slot int, grid Grid) {
	per := g.plan.PerRound()
	start := r * per
	end := min(start+per, len(g.Fixtures))
	for i := start; i < end; i++ {
		g.Scheduled = append(g.Scheduled, &ScheduledFixture{
			Fixture: g.Fixtures[i],
			Kind:    StageGroup,
			Label:   g.Label(),
			Time:    grid.Label(slot),
			Slot:    slot,
			Court:   i - start + 1,
			Round:   r + 1,
		})
	}
}

// Complete reports whether every group fixture carries a score.
func (g *GroupStage) Complete() bool {
	for _, f := range g.Fixtures {
		if !f.Played() {
			return false
		}
	}
	return true
}

// find returns the scheduled fixture between p1 and p2 in either order.
func (g *GroupStage) find(p1, p2 string) (*ScheduledFixture, bool, bool) {
	for _, sf := range g.Scheduled {
		if ok, reversed := sf.matches(p1, p2); ok {
			return sf, reversed, true
		}
	}
	return nil, false, false
}

// Standings orders competitors by wins, game difference and games won, all
// descending. Remaining ties keep entry order. It is computed on every call.
func (g *GroupStage) Standings() []*Competitor {
	out := slices.Clone(g.Competitors)
	slices.SortStableFunc(out, compareStanding)
	return out
}

func compareStanding(a, b *Competitor) int {
	if c := cmp.Compare(b.Wins(), a.Wins()); c != 0 {
		return c
	}
	if c := cmp.Compare(b.GameDifference(), a.GameDifference()); c != 0 {
		return c
	}
	return cmp.Compare(b.GamesWon(), a.GamesWon())
}
