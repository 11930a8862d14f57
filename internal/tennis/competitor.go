package tennis

// Competitor is a tournament participant and their running statistics.
// Statistics change only through fixture results.
type Competitor struct {
	Name  string
	Seed  int
	Level float64

	wins      int
	losses    int
	gamesWon  int
	gamesLost int
}

func NewCompetitor(name string, seed int, level float64) *Competitor {
	return &Competitor{Name: name, Seed: seed, Level: level}
}

func (c *Competitor) Wins() int      { return c.wins }
func (c *Competitor) Losses() int    { return c.losses }
func (c *Competitor) GamesWon() int  { return c.gamesWon }
func (c *Competitor) GamesLost() int { return c.gamesLost }

func (c *Competitor) GameDifference() int {
	return c.gamesWon - c.gamesLost
}

func (c *Competitor) recordResult(won bool, unitsFor, unitsAgainst int) {
	if won {
		c.wins++
	} else {
		c.losses++
	}
	c.gamesWon += unitsFor
	c.gamesLost += unitsAgainst
}

// undoResult is the exact inverse of recordResult.
func (c *Competitor) undoResult(won bool, unitsFor, unitsAgainst int) {
	if won {
		c.wins--
	} else {
		c.losses--
	}
	c.gamesWon -= unitsFor
	c.gamesLost -= unitsAgainst
}

func (c *Competitor) String() string {
	return c.Name
}
