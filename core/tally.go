package core

// A PointsMap assigns match points per outcome. Forfeit wins score
// as wins and forfeit losses as losses.
type PointsMap struct {
	Win  float64 `json:"win" yaml:"win"`
	Draw float64 `json:"draw" yaml:"draw"`
	Loss float64 `json:"loss" yaml:"loss"`
	Bye  float64 `json:"bye" yaml:"bye"`
}

// DefaultPoints is the 3/1/0 scheme with full-win byes.
func DefaultPoints() PointsMap {
	return PointsMap{Win: 3, Draw: 1, Loss: 0, Bye: 3}
}

func (p PointsMap) isZero() bool {
	return p == PointsMap{}
}

func (p PointsMap) of(o Outcome) float64 {
	switch {
	case o.IsWin():
		return p.Win
	case o.IsLoss():
		return p.Loss
	case o == OutcomeDraw:
		return p.Draw
	case o == OutcomeBye:
		return p.Bye
	}
	panic("points for unknown outcome")
}

// byeGameWins is the number of game wins a bye is worth when game
// percentages are computed. A bye counts like a 2-0 match.
const byeGameWins = 2

// A tally accumulates one competitor's results over a history.
type tally struct {
	points float64

	wins   int
	losses int
	draws  int
	byes   int

	gameWins   int
	gameLosses int
	gameDraws  int

	penalties int

	// Opponents faced in real matches, in round order, one entry
	// per match. A rematch appears once per encounter.
	opponents []string
}

func (t *tally) add(r MatchRecord, points PointsMap) {
	t.points += points.of(r.Outcome)
	t.penalties += r.Penalties

	if r.IsBye() {
		t.byes += 1
		t.gameWins += byeGameWins
		return
	}

	switch {
	case r.Outcome.IsWin():
		t.wins += 1
	case r.Outcome.IsLoss():
		t.losses += 1
	default:
		t.draws += 1
	}

	t.gameWins += r.GameWins
	t.gameLosses += r.GameLosses
	t.gameDraws += r.GameDraws

	t.opponents = append(t.opponents, r.Opponent)
}

// realMatches is the number of matches played against an opponent.
func (t *tally) realMatches() int {
	return t.wins + t.losses + t.draws
}

// roundsPlayed includes byes.
func (t *tally) roundsPlayed() int {
	return t.realMatches() + t.byes
}

func (t *tally) games() int {
	return t.gameWins + t.gameLosses + t.gameDraws
}

// buildTallies accumulates a tally per record owner. Competitors
// without records get no tally; an empty index yields an empty map.
func buildTallies(index matchIndex, points PointsMap) map[string]*tally {
	tallies := make(map[string]*tally, len(index))
	for id, records := range index {
		t := &tally{}
		for _, r := range records {
			t.add(r, points)
		}
		tallies[id] = t
	}
	return tallies
}
