package core

import (
	"errors"
	"slices"

	"github.com/rotisserie/eris"

	"github.com/RogueTabletopGaming/rankings-core/internal"
)

var (
	ErrTooFewEntries   = errors.New("too few entries")
	ErrDuplicateEntry  = errors.New("duplicate competitor id")
	ErrRoundOutOfRange = errors.New("round out of range")
)

// ghost fills the empty seat of an odd field. Whoever is drawn
// against it sits the round out.
const ghost = ""

// ScheduleOptions configure the round robin schedulers. The zero
// value plays a single pass in the given competitor order and lists
// byes on odd fields.
type ScheduleOptions struct {
	// Play every matchup twice with colors reversed
	Double bool

	// Shuffle the competitor order before scheduling; the same seed
	// produces the same schedule
	Shuffle     bool
	ShuffleSeed int64

	// Drop the bye entries on odd fields instead of listing the
	// sitting competitor
	OmitByes bool
}

// A ScheduledMatch is one planned matchup. A has the first-named
// share; the scheduler balances it across rounds and passes.
type ScheduledMatch struct {
	A string `json:"a"`
	B string `json:"b"`
}

// A ScheduleRound is one round of a round robin plan.
type ScheduleRound struct {
	Round   int              `json:"round"`
	Matches []ScheduledMatch `json:"matches"`
	Bye     string           `json:"bye,omitempty"`
}

// BuildRoundRobinSchedule plans every round of a round robin over the
// given field. An even field of n plays n-1 rounds per pass with
// every pair meeting exactly once; an odd field plays n rounds per
// pass with every competitor sitting out exactly once.
func BuildRoundRobinSchedule(competitors []string, opts ScheduleOptions) ([]ScheduleRound, error) {
	ids, err := scheduleEntries(competitors, opts)
	if err != nil {
		return nil, err
	}

	passes := 1
	if opts.Double {
		passes = 2
	}
	numRounds := len(ids) - 1

	rounds := make([]ScheduleRound, 0, passes*numRounds)
	for passI := 0; passI < passes; passI += 1 {
		for roundI := 0; roundI < numRounds; roundI += 1 {
			round := createScheduleRound(ids, passI, roundI, opts)
			round.Round = len(rounds) + 1
			rounds = append(rounds, round)
		}
	}

	return rounds, nil
}

// RoundRobinRound plans a single 1-based round of the schedule that
// BuildRoundRobinSchedule would produce for the same inputs.
func RoundRobinRound(competitors []string, round int, opts ScheduleOptions) (ScheduleRound, error) {
	ids, err := scheduleEntries(competitors, opts)
	if err != nil {
		return ScheduleRound{}, err
	}

	passes := 1
	if opts.Double {
		passes = 2
	}
	numRounds := passes * (len(ids) - 1)

	if round < 1 || round > numRounds {
		return ScheduleRound{}, eris.Wrapf(
			ErrRoundOutOfRange,
			"round %d of %d",
			round, numRounds,
		)
	}

	roundI := (round - 1) % (len(ids) - 1)
	passI := (round - 1) / (len(ids) - 1)

	scheduled := createScheduleRound(ids, passI, roundI, opts)
	scheduled.Round = round
	return scheduled, nil
}

// scheduleEntries validates the field and returns the evened, ordered
// entry list the circle method runs on.
func scheduleEntries(competitors []string, opts ScheduleOptions) ([]string, error) {
	if len(competitors) < 1 {
		return nil, ErrTooFewEntries
	}

	seen := make(map[string]bool, len(competitors))
	for _, id := range competitors {
		if id == ghost {
			return nil, ErrNoCompetitor
		}
		if seen[id] {
			return nil, eris.Wrap(ErrDuplicateEntry, id)
		}
		seen[id] = true
	}

	ids := slices.Clone(competitors)
	if opts.Shuffle {
		internal.Shuffle(ids, opts.ShuffleSeed)
	}

	if len(ids)%2 != 0 {
		ids = append(ids, ghost)
	}

	return ids, nil
}

func createScheduleRound(ids []string, passI, roundI int, opts ScheduleOptions) ScheduleRound {
	numMatches := len(ids) / 2
	round := ScheduleRound{
		Matches: make([]ScheduledMatch, 0, numMatches),
	}

	for matchI := 0; matchI < numMatches; matchI += 1 {
		a, b := pickOpponents(ids, passI, roundI, matchI)

		switch {
		case a == ghost:
			if !opts.OmitByes {
				round.Bye = b
			}
		case b == ghost:
			if !opts.OmitByes {
				round.Bye = a
			}
		default:
			round.Matches = append(round.Matches, ScheduledMatch{A: a, B: b})
		}
	}

	return round
}

// Returns the opponents of the specified match by its three indices
// while making sure the share of first-named matches is evenly
// distributed among the competitors
func pickOpponents(ids []string, passI, roundI, matchI int) (string, string) {
	i1 := matchI
	i2 := len(ids) - 1 - matchI

	i1 = roundRobinCircleIndex(i1, len(ids), roundI)
	i2 = roundRobinCircleIndex(i2, len(ids), roundI)

	a := ids[i1]
	b := ids[i2]

	if matchI == 0 && roundI%2 != 0 {
		a, b = b, a
	}
	if passI%2 != 0 {
		a, b = b, a
	}

	return a, b
}

// Rotates the given index according to https://en.wikipedia.org/wiki/Round-robin_tournament#Circle_method
func roundRobinCircleIndex(index, length, round int) int {
	if index == 0 {
		return 0
	}
	index -= 1
	index -= round
	index += length - 1
	index %= length - 1
	index += 1
	return index
}
