package core

import (
	"cmp"
	"slices"

	"github.com/RogueTabletopGaming/rankings-core/internal"
)

// keyEpsilon guards the float comparisons of the sort cascade.
// Differences below it are treated as ties.
const keyEpsilon = 1e-12

// Order key roles. Rankings produced for different purposes must not
// correlate in how they order otherwise equal competitors.
const (
	roleStandings = "standings"
	rolePairing   = "pairing"
)

// A sortKey holds the tie-break cascade of a standing row, strongest
// criterion first.
type sortKey struct {
	fields [5]float64
}

func rowKey(r StandingRow) sortKey {
	return sortKey{[5]float64{
		r.MatchPoints,
		r.OppMatchWinPct,
		r.GameWinPct,
		r.OppGameWinPct,
		r.SonnebornBerger,
	}}
}

// compare orders descending through the cascade, returning 0 when
// every criterion ties within keyEpsilon.
func (k sortKey) compare(other sortKey) int {
	for i := range k.fields {
		if k.fields[i] > other.fields[i]+keyEpsilon {
			return -1
		}
		if other.fields[i] > k.fields[i]+keyEpsilon {
			return 1
		}
	}
	return 0
}

type sortContext struct {
	eventID    string
	role       string
	headToHead bool
	index      matchIndex
}

// rankRows sorts the rows into their final order and assigns ranks.
// The rows are first brought into competitor id order so that the
// caller's input permutation cannot leak through the stable sort.
func rankRows(rows []StandingRow, ctx sortContext) {
	slices.SortFunc(rows, func(a, b StandingRow) int {
		return cmp.Compare(a.Competitor, b.Competitor)
	})
	slices.SortStableFunc(rows, func(a, b StandingRow) int {
		return rowKey(a).compare(rowKey(b))
	})

	for start := 0; start < len(rows); {
		end := start + 1
		for end < len(rows) && rowKey(rows[start]).compare(rowKey(rows[end])) == 0 {
			end += 1
		}
		if end-start > 1 {
			breakTie(rows[start:end], ctx)
		}
		start = end
	}

	for i := range rows {
		rows[i].Rank = i + 1
	}
}

// breakTie orders a block of rows whose cascades are fully tied.
//
// The tie-break operates in this order:
//   - The results of the direct encounters between the tied
//     competitors, when enabled. They only apply when they order the
//     whole block strictly; a partial order would privilege some
//     members over others.
//   - Fewest penalties.
//   - The deterministic order key.
func breakTie(block []StandingRow, ctx sortContext) {
	if ctx.headToHead && sortByEncounters(block, ctx.index) {
		return
	}

	slices.SortFunc(block, func(a, b StandingRow) int {
		if c := cmp.Compare(a.Penalties, b.Penalties); c != 0 {
			return c
		}
		ka := internal.OrderKey(ctx.eventID, ctx.role, a.Competitor)
		kb := internal.OrderKey(ctx.eventID, ctx.role, b.Competitor)
		if c := cmp.Compare(ka, kb); c != 0 {
			return c
		}
		return cmp.Compare(a.Competitor, b.Competitor)
	})
}

// sortByEncounters scores every block member over the matches played
// among the block and sorts by that score. Returns false without
// touching the block unless the scores form a strict total order.
func sortByEncounters(block []StandingRow, index matchIndex) bool {
	members := make(map[string]bool, len(block))
	for _, row := range block {
		members[row.Competitor] = true
	}

	scores := make(map[string]float64, len(block))
	for _, row := range block {
		var score float64
		for _, r := range index[row.Competitor] {
			if r.IsBye() || !members[r.Opponent] {
				continue
			}
			switch {
			case r.Outcome.IsWin():
				score += 1
			case r.Outcome == OutcomeDraw:
				score += 0.5
			}
		}
		scores[row.Competitor] = score
	}

	sorted := make([]float64, 0, len(block))
	for _, s := range scores {
		sorted = append(sorted, s)
	}
	slices.Sort(sorted)
	for i := 1; i < len(sorted); i += 1 {
		if sorted[i]-sorted[i-1] <= keyEpsilon {
			return false
		}
	}

	slices.SortFunc(block, func(a, b StandingRow) int {
		return cmp.Compare(scores[b.Competitor], scores[a.Competitor])
	})

	return true
}
