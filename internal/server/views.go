package server

import (
	"github.com/stadtaev/tennisfinals/internal/tennis"
)

// StandingItem is one row of a group table.
type StandingItem struct {
	Rank           int     `json:"rank"`
	Name           string  `json:"name"`
	Seed           int     `json:"seed"`
	Level          float64 `json:"level"`
	Wins           int     `json:"wins"`
	Losses         int     `json:"losses"`
	GamesWon       int     `json:"gamesWon"`
	GamesLost      int     `json:"gamesLost"`
	GameDifference int     `json:"gameDifference"`
}

// FixtureItem is a scheduled fixture with its result, if any.
type FixtureItem struct {
	Stage   string `json:"stage"`
	Kind    string `json:"kind"`
	Time    string `json:"time"`
	Court   int    `json:"court"`
	Round   int    `json:"round,omitempty"`
	Player1 string `json:"player1"`
	Player2 string `json:"player2"`
	Score   string `json:"score,omitempty"`
	Winner  string `json:"winner,omitempty"`
	Played  bool   `json:"played"`
}

// GroupResponse is a group with its current standings.
type GroupResponse struct {
	Name      string         `json:"name"`
	Label     string         `json:"label"`
	Standings []StandingItem `json:"standings"`
}

// TournamentResponse is the response for GET /api/tournament.
type TournamentResponse struct {
	ID         string          `json:"id"`
	Format     string          `json:"format"`
	Phase      string          `json:"phase"`
	Groups     []GroupResponse `json:"groups"`
	Semifinals []FixtureItem   `json:"semifinals"`
	Final      *FixtureItem    `json:"final,omitempty"`
	ThirdPlace *FixtureItem    `json:"thirdPlace,omitempty"`
}

// ScheduleResponse is the response for GET /api/tournament/schedule.
type ScheduleResponse struct {
	ID       string        `json:"id"`
	Fixtures []FixtureItem `json:"fixtures"`
}

// StandingsResponse is the response for GET /api/tournament/standings/{group}.
type StandingsResponse struct {
	Group     string         `json:"group"`
	Standings []StandingItem `json:"standings"`
}

// PodiumResponse is the response for GET /api/tournament/results.
type PodiumResponse struct {
	ID          string `json:"id"`
	Champion    string `json:"champion"`
	RunnerUp    string `json:"runnerUp"`
	ThirdPlace  string `json:"thirdPlace,omitempty"`
	FourthPlace string `json:"fourthPlace,omitempty"`
}

// ArchiveRecord is what gets written to the archive bucket once the final
// is decided.
type ArchiveRecord struct {
	ID         string                    `json:"id"`
	Format     string                    `json:"format"`
	Podium     PodiumResponse            `json:"podium"`
	Standings  map[string][]StandingItem `json:"standings"`
	Schedule   []FixtureItem             `json:"schedule"`
	ArchivedAt string                    `json:"archivedAt"`
}

func standingItems(rows []tennis.Standing) []StandingItem {
	out := make([]StandingItem, 0, len(rows))
	for _, s := range rows {
		out = append(out, StandingItem{
			Rank:           s.Rank,
			Name:           s.Name,
			Seed:           s.Seed,
			Level:          s.Level,
			Wins:           s.Wins,
			Losses:         s.Losses,
			GamesWon:       s.GamesWon,
			GamesLost:      s.GamesLost,
			GameDifference: s.GameDifference,
		})
	}
	return out
}

func fixtureItem(sf *tennis.ScheduledFixture) FixtureItem {
	item := FixtureItem{
		Stage:   sf.Label,
		Kind:    sf.Kind.String(),
		Time:    sf.Time,
		Court:   sf.Court,
		Round:   sf.Round,
		Player1: sf.Player1.Name,
		Player2: sf.Player2.Name,
	}
	if s, ok := sf.Score(); ok {
		item.Score = s.String()
		item.Winner = sf.Winner().Name
		item.Played = true
	}
	return item
}

func scheduleItems(entries []tennis.ScheduleEntry) []FixtureItem {
	out := make([]FixtureItem, 0, len(entries))
	for _, e := range entries {
		item := FixtureItem{
			Stage:   e.Stage,
			Kind:    e.Kind.String(),
			Time:    e.Time,
			Court:   e.Court,
			Round:   e.Round,
			Player1: e.Player1,
			Player2: e.Player2,
			Winner:  e.Winner,
			Played:  e.Played,
		}
		if e.Score != nil {
			item.Score = e.Score.String()
		}
		out = append(out, item)
	}
	return out
}

func tournamentView(id string, t *tennis.Tournament) (TournamentResponse, error) {
	resp := TournamentResponse{
		ID:         id,
		Format:     string(t.Rule().Format()),
		Phase:      string(t.Phase()),
		Groups:     []GroupResponse{},
		Semifinals: []FixtureItem{},
	}
	for _, g := range t.Groups() {
		rows, err := t.Standings(g.Name)
		if err != nil {
			return TournamentResponse{}, err
		}
		resp.Groups = append(resp.Groups, GroupResponse{
			Name:      g.Name,
			Label:     g.Label(),
			Standings: standingItems(rows),
		})
	}
	for _, sf := range t.Semifinals() {
		resp.Semifinals = append(resp.Semifinals, fixtureItem(sf))
	}
	if f := t.FinalMatch(); f != nil {
		item := fixtureItem(f)
		resp.Final = &item
	}
	if tp := t.ThirdPlaceMatch(); tp != nil {
		item := fixtureItem(tp)
		resp.ThirdPlace = &item
	}
	return resp, nil
}

func podiumView(id string, t *tennis.Tournament) (PodiumResponse, error) {
	p, err := t.FinalResults()
	if err != nil {
		return PodiumResponse{}, err
	}
	return PodiumResponse{
		ID:          id,
		Champion:    p.Champion,
		RunnerUp:    p.RunnerUp,
		ThirdPlace:  p.ThirdPlace,
		FourthPlace: p.FourthPlace,
	}, nil
}

func archiveRecord(id string, t *tennis.Tournament) (ArchiveRecord, error) {
	podium, err := podiumView(id, t)
	if err != nil {
		return ArchiveRecord{}, err
	}
	rec := ArchiveRecord{
		ID:         id,
		Format:     string(t.Rule().Format()),
		Podium:     podium,
		Standings:  make(map[string][]StandingItem, len(t.Groups())),
		Schedule:   scheduleItems(t.Schedule()),
		ArchivedAt: nowUTC(),
	}
	for _, g := range t.Groups() {
		rows, err := t.Standings(g.Name)
		if err != nil {
			return ArchiveRecord{}, err
		}
		rec.Standings[g.Label()] = standingItems(rows)
	}
	return rec, nil
}
