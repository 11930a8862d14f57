package tennis

// Pairing names two competitors by their position in a group.
type Pairing struct {
	Home, Away int
}

// RoundRobinPlan is the pairing order for one group. Rounds is nil when the
// group size has no round structure and every pairing is played on its own.
type RoundRobinPlan struct {
	Rounds [][]Pairing
	Pairs  []Pairing
}

// PerRound reports how many pairings share a time slot.
func (p RoundRobinPlan) PerRound() int {
	if len(p.Rounds) == 0 {
		return 1
	}
	return len(p.Rounds[0])
}

// Every round lists each position at most once. For five players the
// position missing from a round rests, and each position rests exactly once.
var roundRobinTables = map[int][][]Pairing{
	4: {
		{{0, 2}, {1, 3}},
		{{0, 3}, {1, 2}},
		{{0, 1}, {2, 3}},
	},
	5: {
		{{0, 3}, {1, 2}},
		{{0, 1}, {2, 4}},
		{{0, 4}, {1, 3}},
		{{0, 2}, {3, 4}},
		{{1, 4}, {2, 3}},
	},
}

// PlanRoundRobin returns the pairing order for a group of size players. It
// depends on positions only, never on who the competitors are.
func PlanRoundRobin(size int) RoundRobinPlan {
	if table, ok := roundRobinTables[size]; ok {
		plan := RoundRobinPlan{Rounds: table}
		for _, round := range table {
			plan.Pairs = append(plan.Pairs, round...)
		}
		return plan
	}

	var plan RoundRobinPlan
	for i := 0; i < size; i++ {
		for j := i + 1; j < size; j++ {
			plan.Pairs = append(plan.Pairs, Pairing{Home: i, Away: j})
		}
	}
	return plan
}
