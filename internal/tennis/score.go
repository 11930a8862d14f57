package tennis

import (
	"fmt"
	"strconv"
	"strings"
)

// Format selects how match results are counted.
type Format string

const (
	// FormatSingleSet is one set to 6 games with a tiebreak at 6-6.
	FormatSingleSet Format = "single-set"
	// FormatTwoSets is best of two 4-game sets with a deciding third set
	// recorded as a set win, so results are counted in sets.
	FormatTwoSets Format = "best-of-two-sets"
)

// Score is a recorded result as units won by player 1 and player 2.
// Units are games under FormatSingleSet and sets under FormatTwoSets.
type Score struct {
	P1, P2 int
}

func (s Score) String() string {
	return fmt.Sprintf("%d-%d", s.P1, s.P2)
}

// Swap returns the score seen from player 2's side.
func (s Score) Swap() Score {
	return Score{P1: s.P2, P2: s.P1}
}

// ScoreRule tells legal terminal scores apart from illegal ones.
// Callers must check Valid before trusting Winner.
type ScoreRule interface {
	Format() Format
	Valid(a, b int) bool
	// Winner returns 1 or 2.
	Winner(a, b int) int
	// Hint lists the accepted scores for error messages.
	Hint() string
}

// RuleFor returns the ScoreRule for f.
func RuleFor(f Format) (ScoreRule, error) {
	switch f {
	case FormatSingleSet:
		return singleSet{}, nil
	case FormatTwoSets:
		return twoSets{}, nil
	}
	return nil, fmt.Errorf("unknown match format %q", f)
}

type singleSet struct{}

func (singleSet) Format() Format { return FormatSingleSet }

func (singleSet) Valid(a, b int) bool {
	if a < 0 || b < 0 {
		return false
	}
	hi, lo := max(a, b), min(a, b)
	switch hi {
	case 6:
		return lo <= 4
	case 7:
		return lo == 5 || lo == 6
	}
	return false
}

func (singleSet) Winner(a, b int) int { return winnerOf(a, b) }

func (singleSet) Hint() string { return "6-0, 6-1, 6-2, 6-3, 6-4, 7-5, 7-6 (or reversed)" }

type twoSets struct{}

func (twoSets) Format() Format { return FormatTwoSets }

func (twoSets) Valid(a, b int) bool {
	return (a == 2 && (b == 0 || b == 1)) || (b == 2 && (a == 0 || a == 1))
}

func (twoSets) Winner(a, b int) int { return winnerOf(a, b) }

func (twoSets) Hint() string { return "2-0, 2-1, 0-2, 1-2" }

func winnerOf(a, b int) int {
	if a > b {
		return 1
	}
	return 2
}

// ParseScore reads "X-Y" and checks it against rule.
func ParseScore(rule ScoreRule, raw string) (Score, error) {
	left, right, ok := strings.Cut(strings.TrimSpace(raw), "-")
	if !ok {
		return Score{}, &ScoreError{Raw: raw, Format: rule.Format(), Reason: "expected format X-Y"}
	}
	a, errA := strconv.Atoi(strings.TrimSpace(left))
	b, errB := strconv.Atoi(strings.TrimSpace(right))
	if errA != nil || errB != nil {
		return Score{}, &ScoreError{Raw: raw, Format: rule.Format(), Reason: "expected format X-Y"}
	}
	s := Score{P1: a, P2: b}
	if err := checkScore(rule, s); err != nil {
		return Score{}, err
	}
	return s, nil
}

func checkScore(rule ScoreRule, s Score) error {
	if !rule.Valid(s.P1, s.P2) {
		return &ScoreError{Raw: s.String(), Format: rule.Format(), Reason: "valid: " + rule.Hint()}
	}
	return nil
}
