package core

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rotisserie/eris"
)

var (
	ErrUnknownOutcome  = errors.New("unknown outcome")
	ErrBadRound        = errors.New("round is zero or negative")
	ErrSelfOpponent    = errors.New("competitor is their own opponent")
	ErrNegativeCount   = errors.New("negative game or penalty count")
	ErrByeWithOpponent = errors.New("bye outcome with a named opponent")
	ErrMissingOpponent = errors.New("non-bye outcome without an opponent")
	ErrNoCompetitor    = errors.New("empty competitor id")
)

// The Outcome of a match from the perspective of the competitor
// who reported it.
type Outcome string

const (
	OutcomeWin         Outcome = "win"
	OutcomeLoss        Outcome = "loss"
	OutcomeDraw        Outcome = "draw"
	OutcomeBye         Outcome = "bye"
	OutcomeForfeitWin  Outcome = "forfeit-win"
	OutcomeForfeitLoss Outcome = "forfeit-loss"
)

// IsWin reports whether the outcome scores as a win.
// Forfeits by the opponent count the same as played wins.
func (o Outcome) IsWin() bool {
	return o == OutcomeWin || o == OutcomeForfeitWin
}

// IsLoss reports whether the outcome scores as a loss.
func (o Outcome) IsLoss() bool {
	return o == OutcomeLoss || o == OutcomeForfeitLoss
}

// Inverted returns the outcome as seen from the other side of the
// match. Draws and byes are their own inverse.
func (o Outcome) Inverted() Outcome {
	switch o {
	case OutcomeWin:
		return OutcomeLoss
	case OutcomeLoss:
		return OutcomeWin
	case OutcomeForfeitWin:
		return OutcomeForfeitLoss
	case OutcomeForfeitLoss:
		return OutcomeForfeitWin
	default:
		return o
	}
}

func (o Outcome) isKnown() bool {
	switch o {
	case OutcomeWin, OutcomeLoss, OutcomeDraw, OutcomeBye,
		OutcomeForfeitWin, OutcomeForfeitLoss:
		return true
	}
	return false
}

// A MatchRecord is one competitor's report of one match. A played
// match normally appears twice in a history, once from each side;
// byes appear once with an empty opponent.
type MatchRecord struct {
	// Id of the competitor this record belongs to
	Competitor string `json:"competitor"`

	// The 1-based round the match was played in
	Round int `json:"round"`

	// Id of the opponent, empty for a bye
	Opponent string `json:"opponent,omitempty"`

	Outcome Outcome `json:"outcome"`

	// Per-game results within the match, from the
	// record owner's perspective
	GameWins   int `json:"gameWins"`
	GameLosses int `json:"gameLosses"`
	GameDraws  int `json:"gameDraws"`

	// Penalty points assessed against the record owner
	Penalties int `json:"penalties"`
}

// IsBye reports whether the record is a bye entry.
func (r MatchRecord) IsBye() bool {
	return r.Outcome == OutcomeBye
}

// Mirror returns the same match as the opponent would have reported
// it. Penalties are personal and do not carry over. Mirroring a bye
// is meaningless and never done by the engine.
func (r MatchRecord) Mirror() MatchRecord {
	return MatchRecord{
		Competitor: r.Opponent,
		Round:      r.Round,
		Opponent:   r.Competitor,
		Outcome:    r.Outcome.Inverted(),
		GameWins:   r.GameLosses,
		GameLosses: r.GameWins,
		GameDraws:  r.GameDraws,
	}
}

func (r MatchRecord) validate() error {
	switch {
	case r.Competitor == "":
		return ErrNoCompetitor
	case !r.Outcome.isKnown():
		return eris.Wrapf(ErrUnknownOutcome, "%q of %s", r.Outcome, r.Competitor)
	case r.Round < 1:
		return eris.Wrapf(ErrBadRound, "%d of %s", r.Round, r.Competitor)
	case r.Opponent == r.Competitor:
		return eris.Wrap(ErrSelfOpponent, r.Competitor)
	case r.GameWins < 0 || r.GameLosses < 0 || r.GameDraws < 0 || r.Penalties < 0:
		return eris.Wrapf(ErrNegativeCount, "record of %s round %d", r.Competitor, r.Round)
	case r.IsBye() && r.Opponent != "":
		return eris.Wrapf(ErrByeWithOpponent, "record of %s round %d", r.Competitor, r.Round)
	case !r.IsBye() && r.Opponent == "":
		return eris.Wrapf(ErrMissingOpponent, "record of %s round %d", r.Competitor, r.Round)
	}
	return nil
}

func (r MatchRecord) String() string {
	var sb strings.Builder
	sb.WriteString(r.Competitor)
	if r.IsBye() {
		sb.WriteString(" bye")
	} else {
		sb.WriteString(" vs. ")
		sb.WriteString(r.Opponent)
		sb.WriteString(fmt.Sprintf(" %s %v-%v", r.Outcome, r.GameWins, r.GameLosses))
		if r.GameDraws > 0 {
			sb.WriteString(fmt.Sprintf("-%v", r.GameDraws))
		}
	}
	sb.WriteString(fmt.Sprintf(" (round %v)", r.Round))
	return sb.String()
}

// A matchIndex groups a history by record owner. Each competitor's
// records are ordered by round, preserving the input order of records
// within the same round.
type matchIndex map[string][]MatchRecord

func indexRecords(history []MatchRecord) (matchIndex, error) {
	index := make(matchIndex, len(history)/2+1)
	for _, r := range history {
		if err := r.validate(); err != nil {
			return nil, err
		}
		index[r.Competitor] = append(index[r.Competitor], r)
	}

	for _, records := range index {
		slices.SortStableFunc(records, func(a, b MatchRecord) int {
			return cmp.Compare(a.Round, b.Round)
		})
	}

	return index, nil
}

// competitors returns the record owners in id order.
func (x matchIndex) competitors() []string {
	ids := make([]string, 0, len(x))
	for id := range x {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// hasMirror reports whether the opponent of the given real record
// reported the same match from their side.
func (x matchIndex) hasMirror(r MatchRecord) bool {
	for _, other := range x[r.Opponent] {
		if other.Round == r.Round && other.Opponent == r.Competitor {
			return true
		}
	}
	return false
}

// oneSided returns the first real record without a mirror, scanning
// competitors in id order. The second return is false when the index
// is fully mirrored.
func (x matchIndex) oneSided() (MatchRecord, bool) {
	for _, id := range x.competitors() {
		for _, r := range x[id] {
			if r.IsBye() {
				continue
			}
			if !x.hasMirror(r) {
				return r, true
			}
		}
	}
	return MatchRecord{}, false
}

// completeMirrors reconstructs the missing side of every one-sided
// real record. Byes stay single entries.
func (x matchIndex) completeMirrors() {
	mirrors := make([]MatchRecord, 0)
	for _, id := range x.competitors() {
		for _, r := range x[id] {
			if r.IsBye() {
				continue
			}
			if !x.hasMirror(r) {
				mirrors = append(mirrors, r.Mirror())
			}
		}
	}

	for _, m := range mirrors {
		records := append(x[m.Competitor], m)
		slices.SortStableFunc(records, func(a, b MatchRecord) int {
			return cmp.Compare(a.Round, b.Round)
		})
		x[m.Competitor] = records
	}
}

// byeRecipients returns the set of competitors with at least one bye
// in the indexed history.
func (x matchIndex) byeRecipients() map[string]bool {
	recipients := make(map[string]bool)
	for id, records := range x {
		for _, r := range records {
			if r.IsBye() {
				recipients[id] = true
				break
			}
		}
	}
	return recipients
}
