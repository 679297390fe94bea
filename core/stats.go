package core

// The tie-break percentages below follow the usual conventions of
// Swiss tournament play: a competitor's own match-win percentage is
// reported raw, while everything that enters an opponent average is
// floored so that facing early drop-outs cannot sink a tie-break
// below the floor.

// matchWinPct is wins plus half the draws over real matches played.
// A competitor with only byes has no real matches and scores 0.
func (t *tally) matchWinPct() float64 {
	real := t.realMatches()
	if real == 0 {
		return 0
	}
	return (float64(t.wins) + 0.5*float64(t.draws)) / float64(real)
}

// gameWinPct is game wins plus half the game draws over all games,
// floored. The tally's game wins already carry the synthetic 2-0 per
// bye, so byes lift this percentage the same way a swept match does.
func (t *tally) gameWinPct(floor float64) float64 {
	games := t.games()
	if games == 0 {
		return floor
	}
	pct := (float64(t.gameWins) + 0.5*float64(t.gameDraws)) / float64(games)
	return max(floor, pct)
}

// exclusionStats recomputes an opponent's percentages for use in
// another competitor's average: every match against the subject and
// every bye of the opponent is left out, and byes contribute no
// synthetic game wins. Both values are floored; an opponent with
// nothing left contributes the floor.
func exclusionStats(opponent, subject string, index matchIndex, floor float64) (mwp, gwp float64) {
	var wins, losses, draws int
	var gameWins, gameLosses, gameDraws int

	for _, r := range index[opponent] {
		if r.IsBye() || r.Opponent == subject {
			continue
		}

		switch {
		case r.Outcome.IsWin():
			wins += 1
		case r.Outcome.IsLoss():
			losses += 1
		default:
			draws += 1
		}

		gameWins += r.GameWins
		gameLosses += r.GameLosses
		gameDraws += r.GameDraws
	}

	mwp = floor
	if real := wins + losses + draws; real > 0 {
		mwp = max(floor, (float64(wins)+0.5*float64(draws))/float64(real))
	}

	gwp = floor
	if games := gameWins + gameLosses + gameDraws; games > 0 {
		gwp = max(floor, (float64(gameWins)+0.5*float64(gameDraws))/float64(games))
	}

	return mwp, gwp
}

// opponentAverages returns the unweighted means of the subject's
// opponents' exclusion stats, one contribution per match played.
// When virtual byes are on, each bye of the subject contributes a
// floored fixed percentage instead of a real opponent. With no
// contributions at all both averages are the floor.
func opponentAverages(subject *tally, subjectID string, index matchIndex, floor float64, virtual VirtualByeOptions) (omwp, ogwp float64) {
	n := len(subject.opponents)
	if virtual.Enabled {
		n += subject.byes
	}
	if n == 0 {
		return floor, floor
	}

	var mwpSum, gwpSum float64
	for _, opponent := range subject.opponents {
		mwp, gwp := exclusionStats(opponent, subjectID, index, floor)
		mwpSum += mwp
		gwpSum += gwp
	}

	if virtual.Enabled {
		contribution := max(floor, virtual.Percentage)
		mwpSum += contribution * float64(subject.byes)
		gwpSum += contribution * float64(subject.byes)
	}

	return mwpSum / float64(n), gwpSum / float64(n)
}

// sonnebornBerger sums the final match points of every defeated
// opponent and half the points of every drawn opponent. It needs the
// whole field tallied first, so standings assembly runs it as a
// second pass.
func sonnebornBerger(records []MatchRecord, tallies map[string]*tally) float64 {
	var sum float64
	for _, r := range records {
		if r.IsBye() {
			continue
		}
		opponent, ok := tallies[r.Opponent]
		if !ok {
			continue
		}
		switch {
		case r.Outcome.IsWin():
			sum += opponent.points
		case r.Outcome == OutcomeDraw:
			sum += 0.5 * opponent.points
		}
	}
	return sum
}
