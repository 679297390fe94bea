package core

import (
	"cmp"
	"slices"
)

// rankElimination orders rows the way a knockout bracket empties out:
// whoever was never beaten comes first, then the competitors beaten
// in the last round, and so on back to the first round. The tie-break
// cascade does not apply; competitors beaten in the same round order
// by id.
func rankElimination(rows []StandingRow, index matchIndex) {
	exitRound := make(map[string]int, len(rows))
	for id, records := range index {
		exit := 0
		for _, r := range records {
			if r.Outcome.IsLoss() && r.Round > exit {
				exit = r.Round
			}
		}
		exitRound[id] = exit
	}

	slices.SortFunc(rows, func(a, b StandingRow) int {
		exitA := exitRound[a.Competitor]
		exitB := exitRound[b.Competitor]
		switch {
		case exitA == 0 && exitB > 0:
			return -1
		case exitB == 0 && exitA > 0:
			return 1
		case exitA != exitB:
			return cmp.Compare(exitB, exitA)
		}
		return cmp.Compare(a.Competitor, b.Competitor)
	})

	for i := range rows {
		rows[i].Rank = i + 1
	}
}
