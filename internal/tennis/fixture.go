package tennis

import "fmt"

// Fixture is one contest between two competitors with an optional result.
type Fixture struct {
	Player1 *Competitor
	Player2 *Competitor

	score  *Score
	winner *Competitor
}

func NewFixture(p1, p2 *Competitor) *Fixture {
	return &Fixture{Player1: p1, Player2: p2}
}

// Play validates s and records it, replacing any previous result. The
// previous result is undone on both competitors before the new one is applied,
// so their statistics always reflect only the latest score.
func (f *Fixture) Play(rule ScoreRule, s Score) error {
	return f.apply(rule, s, true)
}

func (f *Fixture) apply(rule ScoreRule, s Score, updateStats bool) error {
	if err := checkScore(rule, s); err != nil {
		return err
	}

	if updateStats && f.score != nil {
		old := *f.score
		p1Won := f.winner == f.Player1
		f.Player1.undoResult(p1Won, old.P1, old.P2)
		f.Player2.undoResult(!p1Won, old.P2, old.P1)
	}

	f.score = &s
	if rule.Winner(s.P1, s.P2) == 1 {
		f.winner = f.Player1
	} else {
		f.winner = f.Player2
	}

	if updateStats {
		p1Won := f.winner == f.Player1
		f.Player1.recordResult(p1Won, s.P1, s.P2)
		f.Player2.recordResult(!p1Won, s.P2, s.P1)
	}
	return nil
}

// Score returns the recorded score and whether one exists.
func (f *Fixture) Score() (Score, bool) {
	if f.score == nil {
		return Score{}, false
	}
	return *f.score, true
}

func (f *Fixture) Played() bool {
	return f.score != nil
}

// Winner is nil until the fixture is played.
func (f *Fixture) Winner() *Competitor {
	return f.winner
}

// Loser is nil until the fixture is played.
func (f *Fixture) Loser() *Competitor {
	switch f.winner {
	case nil:
		return nil
	case f.Player1:
		return f.Player2
	}
	return f.Player1
}

// matches reports whether the fixture is between the two named players and
// whether the names were given in reverse order.
func (f *Fixture) matches(p1, p2 string) (ok, reversed bool) {
	if f.Player1.Name == p1 && f.Player2.Name == p2 {
		return true, false
	}
	if f.Player1.Name == p2 && f.Player2.Name == p1 {
		return true, true
	}
	return false, false
}

func (f *Fixture) String() string {
	if f.score != nil {
		return fmt.Sprintf("%s %s %s", f.Player1.Name, f.score, f.Player2.Name)
	}
	return fmt.Sprintf("%s vs %s", f.Player1.Name, f.Player2.Name)
}

// StageKind classifies a scheduled fixture. Only group fixtures touch
// competitor statistics.
type StageKind int

const (
	StageGroup StageKind = iota
	StageSemifinal
	StageThirdPlace
	StageFinal
)

func (k StageKind) String() string {
	switch k {
	case StageGroup:
		return "group"
	case StageSemifinal:
		return "semifinal"
	case StageThirdPlace:
		return "third_place"
	case StageFinal:
		return "final"
	}
	return fmt.Sprintf("StageKind(%d)", int(k))
}

// ScheduledFixture is a fixture bound to a time slot, court, round and stage.
type ScheduledFixture struct {
	*Fixture

	Kind  StageKind
	Label string
	Time  string
	Slot  int
	Court int
	Round int
}

// Play records s. Knockout fixtures keep score and winner only.
func (sf *ScheduledFixture) Play(rule ScoreRule, s Score) error {
	return sf.apply(rule, s, sf.Kind == StageGroup)
}
