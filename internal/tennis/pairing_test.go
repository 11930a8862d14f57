package tennis

import "testing"

func TestPlanRoundRobin(t *testing.T) {
	for _, size := range []int{3, 4, 5, 6} {
		plan := PlanRoundRobin(size)

		want := size * (size - 1) / 2
		if len(plan.Pairs) != want {
			t.Fatalf("size %d: %d pairs, want %d", size, len(plan.Pairs), want)
		}

		seen := map[[2]int]bool{}
		for _, p := range plan.Pairs {
			if p.Home == p.Away || p.Home < 0 || p.Away >= size || p.Away < 0 || p.Home >= size {
				t.Fatalf("size %d: bad pairing %+v", size, p)
			}
			key := [2]int{min(p.Home, p.Away), max(p.Home, p.Away)}
			if seen[key] {
				t.Fatalf("size %d: pair %v repeated", size, key)
			}
			seen[key] = true
		}
	}
}

func TestRoundRobinRoundsAreDisjoint(t *testing.T) {
	for _, size := range []int{4, 5} {
		plan := PlanRoundRobin(size)
		if len(plan.Rounds) != size-1+size%2 {
			t.Errorf("size %d: %d rounds", size, len(plan.Rounds))
		}

		rests := make([]int, size)
		for r, round := range plan.Rounds {
			busy := map[int]bool{}
			for _, p := range round {
				if busy[p.Home] || busy[p.Away] {
					t.Errorf("size %d round %d: position double-booked", size, r+1)
				}
				busy[p.Home], busy[p.Away] = true, true
			}
			for i := range size {
				if !busy[i] {
					rests[i]++
				}
			}
		}

		want := size % 2
		for i, n := range rests {
			if n != want {
				t.Errorf("size %d: position %d rests %d times, want %d", size, i, n, want)
			}
		}
	}
}

func TestPerRound(t *testing.T) {
	if got := PlanRoundRobin(4).PerRound(); got != 2 {
		t.Errorf("size 4 PerRound = %d", got)
	}
	if got := PlanRoundRobin(6).PerRound(); got != 1 {
		t.Errorf("size 6 PerRound = %d", got)
	}
}
