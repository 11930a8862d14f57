package tennis

import (
	"fmt"
	"slices"
	"strings"
)

const (
	MinGroupSize = 4
	MaxGroupSize = 5
)

// Entry is a competitor as submitted at creation time. A zero Seed is
// replaced by the 1-based entry position.
type Entry struct {
	Name  string
	Seed  int
	Level float64
}

// Phase is the playoff state derived from the current results.
type Phase string

const (
	PhaseGroupsInProgress    Phase = "groups_in_progress"
	PhaseGroupsComplete      Phase = "groups_complete"
	PhaseSemifinalsScheduled Phase = "semifinals_scheduled"
	PhaseSemifinalsComplete  Phase = "semifinals_complete"
	PhaseFinalsScheduled     Phase = "finals_scheduled"
	PhaseComplete            Phase = "complete"
)

// PlayoffStage addresses a knockout fixture. AnySemifinal picks whichever
// semifinal is between the named players.
type PlayoffStage string

const (
	Semifinal1   PlayoffStage = "semifinal1"
	Semifinal2   PlayoffStage = "semifinal2"
	AnySemifinal PlayoffStage = "semifinal"
	ThirdPlace   PlayoffStage = "third_place"
	Final        PlayoffStage = "final"
)

func ParsePlayoffStage(s string) (PlayoffStage, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "semifinal1", "semifinal_1", "semifinal 1":
		return Semifinal1, nil
	case "semifinal2", "semifinal_2", "semifinal 2":
		return Semifinal2, nil
	case "semifinal":
		return AnySemifinal, nil
	case "third_place", "third", "3rd place match":
		return ThirdPlace, nil
	case "final":
		return Final, nil
	}
	return "", &NotFoundError{Stage: fmt.Sprintf("playoff stage %q", s)}
}

// OutcomeSink receives match outcomes for a long-lived rating store. Calls
// are fire-and-forget; an edited result is reverted before the new one is
// recorded.
type OutcomeSink interface {
	Record(winner, loser string)
	Revert(winner, loser string)
}

type Option func(*Tournament)

func WithGrid(g Grid) Option {
	return func(t *Tournament) { t.grid = g }
}

func WithSink(s OutcomeSink) Option {
	return func(t *Tournament) { t.sink = s }
}

// Tournament runs two round-robin groups followed by a four-player knockout.
// It is not safe for concurrent use: writes must be serialized by the caller
// and must not overlap reads.
type Tournament struct {
	rule     ScoreRule
	grid     Grid
	sink     OutcomeSink
	entrants []*Competitor
	groups   []*GroupStage

	playoffSlot int
	semifinals  []*ScheduledFixture
	thirdPlace  *ScheduledFixture
	final       *ScheduledFixture
}

// New splits entries in order into Group A (the larger half) and Group B and
// schedules every group fixture.
func New(rule ScoreRule, entries []Entry, opts ...Option) (*Tournament, error) {
	if rule == nil {
		return nil, &PreconditionError{Op: "create tournament", Reason: "no score rule"}
	}
	n := len(entries)
	if n < 2*MinGroupSize || n > 2*MaxGroupSize {
		return nil, &PreconditionError{
			Op:     "create tournament",
			Reason: fmt.Sprintf("need %d to %d competitors, got %d", 2*MinGroupSize, 2*MaxGroupSize, n),
		}
	}

	t := &Tournament{rule: rule, grid: DefaultGrid()}
	for _, opt := range opts {
		opt(t)
	}

	seen := make(map[string]bool, n)
	for i, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, &PreconditionError{Op: "create tournament", Reason: fmt.Sprintf("entry %d has no name", i+1)}
		}
		if seen[name] {
			return nil, &PreconditionError{Op: "create tournament", Reason: fmt.Sprintf("duplicate competitor %q", name)}
		}
		seen[name] = true
		seed := e.Seed
		if seed == 0 {
			seed = i + 1
		}
		t.entrants = append(t.entrants, NewCompetitor(name, seed, e.Level))
	}

	half := (n + 1) / 2
	t.groups = []*GroupStage{
		NewGroupStage("A", slices.Clone(t.entrants[:half])),
		NewGroupStage("B", slices.Clone(t.entrants[half:])),
	}
	t.playoffSlot = t.scheduleGroups()
	return t, nil
}

// scheduleGroups interleaves the groups round by round and returns the first
// free slot.
func (t *Tournament) scheduleGroups() int {
	rounds := 0
	for _, g := range t.groups {
		rounds = max(rounds, g.rounds())
	}
	slot := 0
	for r := range rounds {
		for _, g := range t.groups {
			if r >= g.rounds() {
				continue
			}
			g.scheduleRound(r, slot, t.grid)
			slot++
		}
	}
	return slot
}

// SetSink replaces the outcome sink. A nil sink disables notifications.
func (t *Tournament) SetSink(s OutcomeSink) {
	t.sink = s
}

func (t *Tournament) Rule() ScoreRule { return t.rule }

func (t *Tournament) Groups() []*GroupStage { return t.groups }

func (t *Tournament) Entrants() []*Competitor { return t.entrants }

// Entries returns the creation input with seeds filled in.
func (t *Tournament) Entries() []Entry {
	out := make([]Entry, 0, len(t.entrants))
	for _, c := range t.entrants {
		out = append(out, Entry{Name: c.Name, Seed: c.Seed, Level: c.Level})
	}
	return out
}

func (t *Tournament) Semifinals() []*ScheduledFixture { return t.semifinals }

func (t *Tournament) ThirdPlaceMatch() *ScheduledFixture { return t.thirdPlace }

func (t *Tournament) FinalMatch() *ScheduledFixture { return t.final }

// Group looks a group up by name, with or without the "Group " prefix. Case
// is ignored.
func (t *Tournament) Group(name string) (*GroupStage, error) {
	key := strings.TrimSpace(name)
	const prefix = "group "
	if len(key) > len(prefix) && strings.EqualFold(key[:len(prefix)], prefix) {
		key = strings.TrimSpace(key[len(prefix):])
	}
	for _, g := range t.groups {
		if strings.EqualFold(g.Name, key) {
			return g, nil
		}
	}
	return nil, &NotFoundError{Stage: fmt.Sprintf("group %q", name)}
}

func (t *Tournament) groupsComplete() bool {
	for _, g := range t.groups {
		if !g.Complete() {
			return false
		}
	}
	return true
}

func (t *Tournament) Phase() Phase {
	switch {
	case t.final != nil && t.final.Played():
		return PhaseComplete
	case t.final != nil:
		return PhaseFinalsScheduled
	case t.semifinals != nil && t.semifinals[0].Played() && t.semifinals[1].Played():
		return PhaseSemifinalsComplete
	case t.semifinals != nil:
		return PhaseSemifinalsScheduled
	case t.groupsComplete():
		return PhaseGroupsComplete
	}
	return PhaseGroupsInProgress
}

// RecordGroupResult scores the group fixture between p1 and p2. Names in
// reverse order address the same fixture with the score read from p1's side.
func (t *Tournament) RecordGroupResult(group, p1, p2, raw string) error {
	g, err := t.Group(group)
	if err != nil {
		return err
	}
	s, err := ParseScore(t.rule, raw)
	if err != nil {
		return err
	}
	sf, reversed, ok := g.find(p1, p2)
	if !ok {
		return &NotFoundError{Stage: g.Label(), Player1: p1, Player2: p2}
	}
	if reversed {
		s = s.Swap()
	}
	return t.play(sf, s)
}

func (t *Tournament) play(sf *ScheduledFixture, s Score) error {
	prevWinner, prevLoser := sf.Winner(), sf.Loser()
	if err := sf.Play(t.rule, s); err != nil {
		return err
	}
	if t.sink != nil {
		if prevWinner != nil {
			t.sink.Revert(prevWinner.Name, prevLoser.Name)
		}
		t.sink.Record(sf.Winner().Name, sf.Loser().Name)
	}
	return nil
}

// discard drops fixtures from the bracket, reverting the outcomes of any
// that were played.
func (t *Tournament) discard(fixtures ...*ScheduledFixture) {
	if t.sink == nil {
		return
	}
	for _, sf := range fixtures {
		if sf != nil && sf.Played() {
			t.sink.Revert(sf.Winner().Name, sf.Loser().Name)
		}
	}
}

// BeginPlayoffs seeds the semifinals from the group standings: A1 vs B2 and
// B1 vs A2. Calling it again keeps the bracket when the seeding is unchanged
// and rebuilds it otherwise.
func (t *Tournament) BeginPlayoffs() error {
	unplayed := 0
	for _, g := range t.groups {
		for _, f := range g.Fixtures {
			if !f.Played() {
				unplayed++
			}
		}
	}
	if unplayed > 0 {
		return &PreconditionError{
			Op:     "begin playoffs",
			Reason: fmt.Sprintf("%d group matches have not been played", unplayed),
		}
	}

	a := t.groups[0].Standings()
	b := t.groups[1].Standings()
	pairs := [2][2]*Competitor{{a[0], b[1]}, {b[0], a[1]}}

	if t.semifinals != nil &&
		sameEntrants(t.semifinals[0], pairs[0][0], pairs[0][1]) &&
		sameEntrants(t.semifinals[1], pairs[1][0], pairs[1][1]) {
		return nil
	}

	t.discard(t.semifinals...)
	t.discard(t.final, t.thirdPlace)
	t.final, t.thirdPlace = nil, nil

	t.semifinals = make([]*ScheduledFixture, 0, 2)
	for i, p := range pairs {
		t.semifinals = append(t.semifinals, &ScheduledFixture{
			Fixture: NewFixture(p[0], p[1]),
			Kind:    StageSemifinal,
			Label:   fmt.Sprintf("Semifinal %d", i+1),
			Time:    t.grid.Label(t.playoffSlot),
			Slot:    t.playoffSlot,
			Court:   i + 1,
		})
	}
	return nil
}

func sameEntrants(sf *ScheduledFixture, p1, p2 *Competitor) bool {
	return sf != nil && sf.Player1 == p1 && sf.Player2 == p2
}

// RecordPlayoffResult scores a knockout fixture. Once both semifinals carry a
// score the final and third-place match are (re)built from their winners and
// losers.
func (t *Tournament) RecordPlayoffResult(stage PlayoffStage, p1, p2, raw string) error {
	var candidates []*ScheduledFixture
	switch stage {
	case Semifinal1, Semifinal2, AnySemifinal:
		if t.semifinals == nil {
			return &StateError{Stage: string(stage), Reason: "playoffs have not started"}
		}
		switch stage {
		case Semifinal1:
			candidates = t.semifinals[:1]
		case Semifinal2:
			candidates = t.semifinals[1:]
		default:
			candidates = t.semifinals
		}
	case ThirdPlace, Final:
		sf := t.final
		if stage == ThirdPlace {
			sf = t.thirdPlace
		}
		if sf == nil {
			return &StateError{Stage: string(stage), Reason: "both semifinals must be played first"}
		}
		candidates = []*ScheduledFixture{sf}
	default:
		return &NotFoundError{Stage: fmt.Sprintf("playoff stage %q", stage)}
	}

	s, err := ParseScore(t.rule, raw)
	if err != nil {
		return err
	}

	for _, sf := range candidates {
		ok, reversed := sf.matches(p1, p2)
		if !ok {
			continue
		}
		if reversed {
			s = s.Swap()
		}
		if err := t.play(sf, s); err != nil {
			return err
		}
		if sf.Kind == StageSemifinal {
			t.scheduleFinals()
		}
		return nil
	}
	return &NotFoundError{Stage: string(stage), Player1: p1, Player2: p2}
}

// scheduleFinals replaces the final and third-place fixtures once both
// semifinals are played. Every semifinal submission rebuilds them unplayed,
// even when the same players go through.
func (t *Tournament) scheduleFinals() {
	sf1, sf2 := t.semifinals[0], t.semifinals[1]
	if !sf1.Played() || !sf2.Played() {
		return
	}
	w1, w2 := sf1.Winner(), sf2.Winner()
	l1, l2 := sf1.Loser(), sf2.Loser()

	t.discard(t.final, t.thirdPlace)
	slot := t.playoffSlot + 1
	t.final = &ScheduledFixture{
		Fixture: NewFixture(w1, w2),
		Kind:    StageFinal,
		Label:   "Final",
		Time:    t.grid.Label(slot),
		Slot:    slot,
		Court:   1,
	}
	t.thirdPlace = &ScheduledFixture{
		Fixture: NewFixture(l1, l2),
		Kind:    StageThirdPlace,
		Label:   "3rd Place Match",
		Time:    t.grid.Label(slot),
		Slot:    slot,
		Court:   2,
	}
}

// Standing is one row of a group table.
type Standing struct {
	Rank           int
	Name           string
	Seed           int
	Level          float64
	Wins           int
	Losses         int
	GamesWon       int
	GamesLost      int
	GameDifference int
}

func (t *Tournament) Standings(group string) ([]Standing, error) {
	g, err := t.Group(group)
	if err != nil {
		return nil, err
	}
	ranked := g.Standings()
	out := make([]Standing, 0, len(ranked))
	for i, c := range ranked {
		out = append(out, Standing{
			Rank:           i + 1,
			Name:           c.Name,
			Seed:           c.Seed,
			Level:          c.Level,
			Wins:           c.Wins(),
			Losses:         c.Losses(),
			GamesWon:       c.GamesWon(),
			GamesLost:      c.GamesLost(),
			GameDifference: c.GameDifference(),
		})
	}
	return out, nil
}

// ScheduleEntry is one fixture of the schedule view.
type ScheduleEntry struct {
	Time    string
	Slot    int
	Court   int
	Round   int
	Kind    StageKind
	Stage   string
	Player1 string
	Player2 string
	Score   *Score
	Winner  string
	Played  bool
}

// Schedule lists group and playoff fixtures by time slot and court.
func (t *Tournament) Schedule() []ScheduleEntry {
	var all []*ScheduledFixture
	for _, g := range t.groups {
		all = append(all, g.Scheduled...)
	}
	all = append(all, t.semifinals...)
	if t.final != nil {
		all = append(all, t.final, t.thirdPlace)
	}
	slices.SortStableFunc(all, func(a, b *ScheduledFixture) int {
		if a.Slot != b.Slot {
			return a.Slot - b.Slot
		}
		return a.Court - b.Court
	})

	out := make([]ScheduleEntry, 0, len(all))
	for _, sf := range all {
		e := ScheduleEntry{
			Time:    sf.Time,
			Slot:    sf.Slot,
			Court:   sf.Court,
			Round:   sf.Round,
			Kind:    sf.Kind,
			Stage:   sf.Label,
			Player1: sf.Player1.Name,
			Player2: sf.Player2.Name,
		}
		if s, ok := sf.Score(); ok {
			e.Score = &s
			e.Played = true
			e.Winner = sf.Winner().Name
		}
		out = append(out, e)
	}
	return out
}

// Podium is the final ranking. Third and fourth place stay empty until the
// third-place match is played.
type Podium struct {
	Champion    string
	RunnerUp    string
	ThirdPlace  string
	FourthPlace string
}

func (t *Tournament) FinalResults() (Podium, error) {
	if t.final == nil || !t.final.Played() {
		return Podium{}, &PreconditionError{Op: "final results", Reason: "the final has not been decided"}
	}
	p := Podium{
		Champion: t.final.Winner().Name,
		RunnerUp: t.final.Loser().Name,
	}
	if t.thirdPlace != nil && t.thirdPlace.Played() {
		p.ThirdPlace = t.thirdPlace.Winner().Name
		p.FourthPlace = t.thirdPlace.Loser().Name
	}
	return p, nil
}
