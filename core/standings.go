package core

import (
	"errors"
	"slices"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
)

var (
	ErrUnsupportedMode = errors.New("unsupported tournament mode")
	ErrOneSidedResult  = errors.New("match reported by only one side")
)

// The Mode a history was played under. It selects how standings are
// ordered; the row statistics are computed the same way everywhere.
type Mode string

const (
	ModeSwiss             Mode = "swiss"
	ModeRoundRobin        Mode = "roundRobin"
	ModeSingleElimination Mode = "singleElimination"
)

const (
	defaultTieBreakFloor = 0.33
	defaultVirtualByePct = 0.5
)

// VirtualByeOptions control whether byes contribute a fixed stand-in
// opponent to the opponent percentage averages. Without them a bye
// leaves the averages untouched.
type VirtualByeOptions struct {
	Enabled    bool    `json:"enabled" yaml:"enabled"`
	Percentage float64 `json:"percentage" yaml:"percentage"`
}

// StandingsOptions configure ComputeStandings. The zero value uses
// the documented defaults.
type StandingsOptions struct {
	// Match points per outcome, DefaultPoints when zero
	Points PointsMap

	// Lower bound for game and opponent percentages, 0.33 when zero
	TieBreakFloor float64

	// Break fully tied blocks by their direct encounters first
	HeadToHead bool

	// Reconstruct missing mirror records instead of requiring both
	// sides of every match to be reported
	AcceptSingleEntry bool

	VirtualBye VirtualByeOptions

	// Seed of the deterministic order key, typically the event id
	EventID string

	// Accepted for single elimination histories that include a
	// third-place match. The ranking reduction already places the
	// bronze match by its round, so the flag changes nothing.
	BronzeMatch bool

	// Diagnostics sink; nil disables logging
	Logger *zerolog.Logger
}

func (o StandingsOptions) withDefaults() StandingsOptions {
	if o.Points.isZero() {
		o.Points = DefaultPoints()
	}
	if o.TieBreakFloor <= 0 {
		o.TieBreakFloor = defaultTieBreakFloor
	}
	if o.VirtualBye.Percentage <= 0 {
		o.VirtualBye.Percentage = defaultVirtualByePct
	}
	return o
}

func (o StandingsOptions) logger() zerolog.Logger {
	if o.Logger == nil {
		return zerolog.Nop()
	}
	return *o.Logger
}

// A StandingRow is one competitor's line in the computed standings.
// Game counts include the synthetic 2-0 that each bye is worth.
type StandingRow struct {
	Rank       int    `json:"rank"`
	Competitor string `json:"competitor"`

	MatchPoints     float64 `json:"matchPoints"`
	MatchWinPct     float64 `json:"matchWinPct"`
	GameWinPct      float64 `json:"gameWinPct"`
	OppMatchWinPct  float64 `json:"oppMatchWinPct"`
	OppGameWinPct   float64 `json:"oppGameWinPct"`
	SonnebornBerger float64 `json:"sonnebornBerger"`

	Wins         int `json:"wins"`
	Losses       int `json:"losses"`
	Draws        int `json:"draws"`
	Byes         int `json:"byes"`
	RoundsPlayed int `json:"roundsPlayed"`

	GameWins   int `json:"gameWins"`
	GameLosses int `json:"gameLosses"`
	GameDraws  int `json:"gameDraws"`

	Penalties int `json:"penalties"`

	// Opponents faced in round order, one entry per real match
	Opponents []string `json:"opponents,omitempty"`
}

// ComputeStandings ranks every record owner in the history. The
// result is fully derived from the inputs: equal histories produce
// equal rows no matter how the records were ordered, and no state is
// kept between calls.
func ComputeStandings(history []MatchRecord, mode Mode, opts StandingsOptions) ([]StandingRow, error) {
	switch mode {
	case ModeSwiss, ModeRoundRobin, ModeSingleElimination:
	default:
		return nil, eris.Wrap(ErrUnsupportedMode, string(mode))
	}

	opts = opts.withDefaults()
	log := opts.logger()

	index, err := indexRecords(history)
	if err != nil {
		return nil, err
	}

	if opts.AcceptSingleEntry {
		index.completeMirrors()
	} else if mode == ModeRoundRobin {
		if r, oneSided := index.oneSided(); oneSided {
			return nil, eris.Wrapf(
				ErrOneSidedResult,
				"%s vs %s in round %d",
				r.Competitor, r.Opponent, r.Round,
			)
		}
	}

	tallies := buildTallies(index, opts.Points)
	rows := assembleRows(index, tallies, opts)

	if mode == ModeSingleElimination {
		rankElimination(rows, index)
	} else {
		rankRows(rows, sortContext{
			eventID:    opts.EventID,
			role:       roleStandings,
			headToHead: opts.HeadToHead,
			index:      index,
		})
	}

	log.Debug().
		Str("mode", string(mode)).
		Int("competitors", len(rows)).
		Msg("standings computed")

	return rows, nil
}

func assembleRows(index matchIndex, tallies map[string]*tally, opts StandingsOptions) []StandingRow {
	rows := make([]StandingRow, 0, len(tallies))
	for _, id := range index.competitors() {
		t := tallies[id]
		omwp, ogwp := opponentAverages(t, id, index, opts.TieBreakFloor, opts.VirtualBye)

		rows = append(rows, StandingRow{
			Competitor:      id,
			MatchPoints:     t.points,
			MatchWinPct:     t.matchWinPct(),
			GameWinPct:      t.gameWinPct(opts.TieBreakFloor),
			OppMatchWinPct:  omwp,
			OppGameWinPct:   ogwp,
			SonnebornBerger: sonnebornBerger(index[id], tallies),
			Wins:            t.wins,
			Losses:          t.losses,
			Draws:           t.draws,
			Byes:            t.byes,
			RoundsPlayed:    t.roundsPlayed(),
			GameWins:        t.gameWins,
			GameLosses:      t.gameLosses,
			GameDraws:       t.gameDraws,
			Penalties:       t.penalties,
			Opponents:       slices.Clone(t.opponents),
		})
	}
	return rows
}
