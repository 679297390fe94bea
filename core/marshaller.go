package core

import (
	"github.com/goccy/go-json"
	"github.com/rotisserie/eris"
)

// The exported result types marshal through struct tags, so their
// encodings are byte-stable: field order follows the declarations and
// map keys are sorted. The helpers below are the canonical entry
// points for callers that hand results to storage or transport.

// MarshalStandings encodes ranked rows as a JSON array.
func MarshalStandings(rows []StandingRow) ([]byte, error) {
	data, err := json.Marshal(rows)
	if err != nil {
		return nil, eris.Wrap(err, "marshal standings")
	}
	return data, nil
}

// MarshalPairings encodes a pairing result as a JSON object.
func MarshalPairings(result *PairingResult) ([]byte, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, eris.Wrap(err, "marshal pairings")
	}
	return data, nil
}

// MarshalSchedule encodes a round robin plan as a JSON array.
func MarshalSchedule(rounds []ScheduleRound) ([]byte, error) {
	data, err := json.Marshal(rounds)
	if err != nil {
		return nil, eris.Wrap(err, "marshal schedule")
	}
	return data, nil
}
