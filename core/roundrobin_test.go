package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/require"
)

func pairSet(rounds []ScheduleRound) map[[2]string]int {
	pairs := make(map[[2]string]int)
	for _, round := range rounds {
		for _, m := range round.Matches {
			key := [2]string{m.A, m.B}
			if key[0] > key[1] {
				key[0], key[1] = key[1], key[0]
			}
			pairs[key] += 1
		}
	}
	return pairs
}

func TestBuildRoundRobinScheduleFour(t *testing.T) {
	rounds, err := BuildRoundRobinSchedule([]string{"Ada", "Ben", "Cleo", "Dan"}, ScheduleOptions{})
	require.NoError(t, err)

	expected := []ScheduleRound{
		{Round: 1, Matches: []ScheduledMatch{{A: "Ada", B: "Dan"}, {A: "Ben", B: "Cleo"}}},
		{Round: 2, Matches: []ScheduledMatch{{A: "Cleo", B: "Ada"}, {A: "Dan", B: "Ben"}}},
		{Round: 3, Matches: []ScheduledMatch{{A: "Ada", B: "Ben"}, {A: "Cleo", B: "Dan"}}},
	}
	require.Empty(t, cmp.Diff(expected, rounds))

	for pair, count := range pairSet(rounds) {
		require.Equal(t, 1, count, "pair %v must meet exactly once", pair)
	}
	require.Len(t, pairSet(rounds), 6)
}

func TestBuildRoundRobinScheduleOdd(t *testing.T) {
	field := []string{"Ada", "Ben", "Cleo", "Dan", "Eve"}
	rounds, err := BuildRoundRobinSchedule(field, ScheduleOptions{})
	require.NoError(t, err)
	require.Len(t, rounds, 5)

	byes := make(map[string]int)
	for _, round := range rounds {
		require.Len(t, round.Matches, 2)
		require.NotEmpty(t, round.Bye)
		byes[round.Bye] += 1

		// Nobody plays twice in a round.
		seen := map[string]bool{round.Bye: true}
		for _, m := range round.Matches {
			require.False(t, seen[m.A])
			require.False(t, seen[m.B])
			seen[m.A] = true
			seen[m.B] = true
		}
		require.Len(t, seen, 5)
	}

	for _, id := range field {
		require.Equal(t, 1, byes[id], "%s must sit out exactly once", id)
	}
	require.Len(t, pairSet(rounds), 10)
}

func TestBuildRoundRobinScheduleDouble(t *testing.T) {
	field := []string{"Ada", "Ben", "Cleo", "Dan"}
	rounds, err := BuildRoundRobinSchedule(field, ScheduleOptions{Double: true})
	require.NoError(t, err)
	require.Len(t, rounds, 6)

	for i := 0; i < 3; i += 1 {
		first := rounds[i].Matches
		second := rounds[i+3].Matches
		require.Equal(t, len(first), len(second))
		for j, m := range first {
			require.Equal(t, ScheduledMatch{A: m.B, B: m.A}, second[j],
				"the second pass swaps the first-named side")
		}
	}

	for pair, count := range pairSet(rounds) {
		require.Equal(t, 2, count, "pair %v must meet twice", pair)
	}
}

func TestBuildRoundRobinScheduleShuffle(t *testing.T) {
	field := []string{"Ada", "Ben", "Cleo", "Dan", "Eve"}

	first, err := BuildRoundRobinSchedule(field, ScheduleOptions{Shuffle: true, ShuffleSeed: 7})
	require.NoError(t, err)
	second, err := BuildRoundRobinSchedule(field, ScheduleOptions{Shuffle: true, ShuffleSeed: 7})
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(first, second), "the seed pins the schedule")

	plain, err := BuildRoundRobinSchedule(field, ScheduleOptions{})
	require.NoError(t, err)
	require.Equal(t, pairSet(plain), pairSet(first),
		"shuffling moves pairs between rounds but never changes the set")
}

func TestBuildRoundRobinScheduleOmitByes(t *testing.T) {
	field := []string{"Ada", "Ben", "Cleo"}

	listed, err := BuildRoundRobinSchedule(field, ScheduleOptions{})
	require.NoError(t, err)
	omitted, err := BuildRoundRobinSchedule(field, ScheduleOptions{OmitByes: true})
	require.NoError(t, err)

	for i := range listed {
		require.NotEmpty(t, listed[i].Bye)
		require.Empty(t, omitted[i].Bye)
		require.Equal(t, listed[i].Matches, omitted[i].Matches)
	}
}

func TestBuildRoundRobinScheduleSingleCompetitor(t *testing.T) {
	rounds, err := BuildRoundRobinSchedule([]string{"Solo"}, ScheduleOptions{})
	require.NoError(t, err)
	require.Len(t, rounds, 1)
	require.Empty(t, rounds[0].Matches)
	require.Equal(t, "Solo", rounds[0].Bye)
}

func TestRoundRobinRoundMatchesSchedule(t *testing.T) {
	field := []string{"Ada", "Ben", "Cleo", "Dan", "Eve"}
	opts := ScheduleOptions{Double: true, Shuffle: true, ShuffleSeed: 42}

	full, err := BuildRoundRobinSchedule(field, opts)
	require.NoError(t, err)

	for _, want := range full {
		got, err := RoundRobinRound(field, want.Round, opts)
		require.NoError(t, err)
		require.Empty(t, cmp.Diff(want, got), "round %d", want.Round)
	}
}

func TestRoundRobinRoundOutOfRange(t *testing.T) {
	field := []string{"Ada", "Ben", "Cleo", "Dan"}

	_, err := RoundRobinRound(field, 0, ScheduleOptions{})
	require.Error(t, err)
	require.ErrorIs(t, eris.Cause(err), ErrRoundOutOfRange)

	_, err = RoundRobinRound(field, 7, ScheduleOptions{Double: true})
	require.Error(t, err)
	require.ErrorIs(t, eris.Cause(err), ErrRoundOutOfRange)
	require.Contains(t, err.Error(), "round 7 of 6")

	_, err = RoundRobinRound(field, 4, ScheduleOptions{})
	require.Error(t, err, "a single pass of four ends after round 3")
}

func TestScheduleEntriesValidation(t *testing.T) {
	_, err := BuildRoundRobinSchedule(nil, ScheduleOptions{})
	require.ErrorIs(t, err, ErrTooFewEntries)

	_, err = BuildRoundRobinSchedule([]string{"Ada", "Ben", "Ada"}, ScheduleOptions{})
	require.Error(t, err)
	require.ErrorIs(t, eris.Cause(err), ErrDuplicateEntry)
	require.Contains(t, err.Error(), "Ada")

	_, err = BuildRoundRobinSchedule([]string{"Ada", ""}, ScheduleOptions{})
	require.ErrorIs(t, err, ErrNoCompetitor)
}

func TestRoundRobinCircleIndex(t *testing.T) {
	// Index 0 is the fixed seat; everyone else rotates by one position
	// per round and wraps around.
	require.Equal(t, 0, roundRobinCircleIndex(0, 6, 3))
	require.Equal(t, 1, roundRobinCircleIndex(1, 6, 0))
	require.Equal(t, 5, roundRobinCircleIndex(1, 6, 1))
	require.Equal(t, 4, roundRobinCircleIndex(1, 6, 2))
	require.Equal(t, 1, roundRobinCircleIndex(1, 6, 5))
	require.Equal(t, 3, roundRobinCircleIndex(4, 6, 1))
}
