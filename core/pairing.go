package core

import (
	"cmp"
	"errors"
	"maps"
	"slices"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"

	"github.com/RogueTabletopGaming/rankings-core/internal"
)

var (
	ErrNoCompetitors = errors.New("no competitors to pair")
	ErrByeDisallowed = errors.New("odd competitor count with byes disallowed")
	ErrNoPairing     = errors.New("no legal pairing exists")
)

const defaultMaxAttempts = 100000

// Constraint stages of the pairing search. Every stage is searched
// to exhaustion before the next, weaker one is tried.
const (
	stageStrict = iota
	stageAllowRematches
	stageAllowAll
)

// A Pairing is one table of the next round. A is the better-ranked
// member.
type Pairing struct {
	A string `json:"a"`
	B string `json:"b"`
}

// A PairingResult is the complete pairing of one round.
type PairingResult struct {
	// Pairings in rank order of their better member
	Pairings []Pairing `json:"pairings"`

	// Recipient of the bye, empty on even fields
	Bye string `json:"bye,omitempty"`

	// Downfloats incurred this round, keyed by competitor. Callers
	// carry these forward into the PriorDownfloats of later rounds.
	Downfloats map[string]int `json:"downfloats,omitempty"`

	// Pairs that met before, present when rematches were allowed or
	// forced by relaxation
	Rematches []Pairing `json:"rematches,omitempty"`
}

// PairingOptions configure GeneratePairings. The zero value avoids
// rematches, protects nobody and allows a bye on odd fields.
type PairingOptions struct {
	// Seed of the deterministic order key, typically the event id
	EventID string

	// Pair previous opponents freely instead of avoiding them
	AllowRematches bool

	// Keep the top N ranks from being pulled across score groups
	// until no pairing exists otherwise
	ProtectedTopN int

	// Candidate trials before a constraint stage is abandoned,
	// 100000 when zero
	MaxAttempts int

	// Fail on odd fields instead of assigning a bye
	DisallowBye bool

	// Downfloat counts carried in from earlier rounds; fairness
	// prefers floating competitors with fewer entries here
	PriorDownfloats map[string]int

	// Diagnostics sink; nil disables logging
	Logger *zerolog.Logger
}

func (o PairingOptions) withDefaults() PairingOptions {
	if o.MaxAttempts <= 0 {
		o.MaxAttempts = defaultMaxAttempts
	}
	return o
}

func (o PairingOptions) logger() zerolog.Logger {
	if o.Logger == nil {
		return zerolog.Nop()
	}
	return *o.Logger
}

// GeneratePairings matches the field for the next round. The rows are
// re-ranked internally so that the order of equally ranked rows never
// depends on how the caller sorted them, then paired best-first:
// within the own score group at the nearest rank, then outward across
// groups preferring competitors who floated least.
//
// Identical standings, history and options produce the identical
// result.
func GeneratePairings(standings []StandingRow, history []MatchRecord, opts PairingOptions) (*PairingResult, error) {
	opts = opts.withDefaults()
	log := opts.logger()

	if len(standings) == 0 {
		return nil, ErrNoCompetitors
	}

	index, err := indexRecords(history)
	if err != nil {
		return nil, err
	}

	rows := slices.Clone(standings)
	rankRows(rows, sortContext{
		eventID: opts.EventID,
		role:    rolePairing,
		index:   index,
	})

	var bye string
	if len(rows)%2 == 1 {
		if opts.DisallowBye {
			return nil, eris.Wrapf(ErrByeDisallowed, "%d competitors", len(rows))
		}
		byeIndex := pickBye(rows, index)
		bye = rows[byeIndex].Competitor
		rows = slices.Delete(rows, byeIndex, byeIndex+1)
		log.Debug().Str("competitor", bye).Msg("bye assigned")
	}

	encounters := newEncounterGraph(index)

	for _, stage := range []int{stageStrict, stageAllowRematches, stageAllowAll} {
		if stage == stageAllowRematches && opts.AllowRematches {
			continue
		}

		m := newMatcher(rows, encounters, opts, stage)
		if m.search() {
			log.Debug().
				Int("stage", stage).
				Int("attempts", m.attempts).
				Int("pairings", len(m.trail)).
				Msg("pairing found")
			return m.result(bye), nil
		}

		log.Debug().
			Int("stage", stage).
			Int("attempts", m.attempts).
			Msg("pairing constraints relaxed")
	}

	return nil, eris.Wrapf(ErrNoPairing, "%d competitors", len(rows))
}

// pickBye returns the index of the lowest-ranked competitor without a
// previous bye, or the lowest-ranked overall when everyone had one.
func pickBye(rows []StandingRow, index matchIndex) int {
	recipients := index.byeRecipients()
	for i := len(rows) - 1; i >= 0; i -= 1 {
		if !recipients[rows[i].Competitor] {
			return i
		}
	}
	return len(rows) - 1
}

// A decision is one level of the pairing search: a competitor, the
// candidates that were admissible when the level was entered, and
// which of them is currently chosen.
type decision struct {
	current    string
	candidates []string
	next       int

	chosen  string
	crossed bool
	rematch bool
}

type matcher struct {
	rows       []StandingRow
	pos        map[string]int
	group      map[string]int
	encounters *encounterGraph
	opts       PairingOptions
	stage      int

	partner map[string]string
	floated map[string]int
	floats  map[string]int
	trail   []decision

	attempts int
}

func newMatcher(rows []StandingRow, encounters *encounterGraph, opts PairingOptions, stage int) *matcher {
	pos := make(map[string]int, len(rows))
	group := make(map[string]int, len(rows))
	for i, g := range ScoreGroups(rows) {
		for _, row := range g {
			group[row.Competitor] = i
		}
	}
	for i, row := range rows {
		pos[row.Competitor] = i
	}

	return &matcher{
		rows:       rows,
		pos:        pos,
		group:      group,
		encounters: encounters,
		opts:       opts,
		stage:      stage,
		partner:    make(map[string]string, len(rows)),
		floated:    make(map[string]int),
		floats:     make(map[string]int),
		trail:      make([]decision, 0, len(rows)/2),
	}
}

// search runs the depth-first pairing. It returns true with the full
// trail of decisions on success and false when the stage is
// exhausted, either by backtracking past the first decision or by
// running out of attempts.
func (m *matcher) search() bool {
	for {
		current, ok := m.nextUnpaired()
		if !ok {
			return true
		}

		d := decision{current: current, candidates: m.candidatesFor(current)}
		for {
			if d.next < len(d.candidates) && m.attempts < m.opts.MaxAttempts {
				candidate := d.candidates[d.next]
				d.next += 1
				m.attempts += 1
				m.pair(&d, candidate)
				m.trail = append(m.trail, d)
				break
			}

			if m.attempts >= m.opts.MaxAttempts || len(m.trail) == 0 {
				return false
			}

			d = m.trail[len(m.trail)-1]
			m.trail = m.trail[:len(m.trail)-1]
			m.unpair(&d)
		}
	}
}

func (m *matcher) nextUnpaired() (string, bool) {
	for _, row := range m.rows {
		if _, paired := m.partner[row.Competitor]; !paired {
			return row.Competitor, true
		}
	}
	return "", false
}

func (m *matcher) effectiveGroup(id string) int {
	if g, ok := m.floated[id]; ok {
		return g
	}
	return m.group[id]
}

// candidatesFor lists the admissible partners of the current
// competitor in trial order: own score group nearest rank first, then
// outward by group distance, fewest downfloats, rank and order key.
func (m *matcher) candidatesFor(current string) []string {
	currentGroup := m.effectiveGroup(current)

	type candidate struct {
		id       string
		distance int
		floats   int
		rank     int
		key      uint64
	}

	candidates := make([]candidate, 0, len(m.rows))
	for i, row := range m.rows {
		id := row.Competitor
		if id == current {
			continue
		}
		if _, paired := m.partner[id]; paired {
			continue
		}
		if !m.admissible(current, id, currentGroup) {
			continue
		}

		candidates = append(candidates, candidate{
			id:       id,
			distance: abs(m.effectiveGroup(id) - currentGroup),
			floats:   m.opts.PriorDownfloats[id] + m.floats[id],
			rank:     i,
			key:      internal.OrderKey(m.opts.EventID, rolePairing, id),
		})
	}

	slices.SortFunc(candidates, func(a, b candidate) int {
		if c := cmp.Compare(a.distance, b.distance); c != 0 {
			return c
		}
		if a.distance > 0 {
			if c := cmp.Compare(a.floats, b.floats); c != 0 {
				return c
			}
		}
		if c := cmp.Compare(a.rank, b.rank); c != 0 {
			return c
		}
		return cmp.Compare(a.key, b.key)
	})

	ids := make([]string, len(candidates))
	for i, c := range candidates {
		ids[i] = c.id
	}
	return ids
}

func (m *matcher) admissible(current, candidate string, currentGroup int) bool {
	rematch := m.encounters.HavePlayed(current, candidate)
	if rematch && !m.opts.AllowRematches && m.stage < stageAllowRematches {
		return false
	}

	cross := m.effectiveGroup(candidate) != currentGroup
	if cross && m.stage < stageAllowAll && m.isProtected(candidate) {
		return false
	}

	return true
}

func (m *matcher) isProtected(id string) bool {
	return m.opts.ProtectedTopN > 0 && m.pos[id] < m.opts.ProtectedTopN
}

// pair commits the candidate. Pulling a candidate across score groups
// tags them into the current group and counts their downfloat; unpair
// rolls both back.
func (m *matcher) pair(d *decision, candidate string) {
	d.chosen = candidate
	d.rematch = m.encounters.HavePlayed(d.current, candidate)
	d.crossed = m.effectiveGroup(candidate) != m.effectiveGroup(d.current)

	m.partner[d.current] = candidate
	m.partner[candidate] = d.current

	if d.crossed {
		m.floated[candidate] = m.effectiveGroup(d.current)
		m.floats[candidate] += 1
	}
}

func (m *matcher) unpair(d *decision) {
	candidate := d.chosen

	delete(m.partner, d.current)
	delete(m.partner, candidate)

	if d.crossed {
		delete(m.floated, candidate)
		m.floats[candidate] -= 1
		if m.floats[candidate] == 0 {
			delete(m.floats, candidate)
		}
	}

	d.chosen = ""
	d.crossed = false
	d.rematch = false
}

func (m *matcher) result(bye string) *PairingResult {
	result := &PairingResult{
		Pairings: make([]Pairing, 0, len(m.trail)),
		Bye:      bye,
	}

	for _, d := range m.trail {
		p := Pairing{A: d.current, B: d.chosen}
		result.Pairings = append(result.Pairings, p)
		if d.rematch {
			result.Rematches = append(result.Rematches, p)
		}
	}

	if len(m.floats) > 0 {
		result.Downfloats = maps.Clone(m.floats)
	}

	return result
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
