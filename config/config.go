// Package config loads engine settings from a YAML file and converts
// them into the option structs of the core and elo packages.
package config

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/RogueTabletopGaming/rankings-core/core"
	"github.com/RogueTabletopGaming/rankings-core/elo"
)

// Settings mirror the option surface of the engine. Omitted keys keep
// their zero value and fall back to the defaults the option structs
// document.
type Settings struct {
	Event     EventSettings     `yaml:"event"`
	Standings StandingsSettings `yaml:"standings"`
	Pairing   PairingSettings   `yaml:"pairing"`
	Schedule  ScheduleSettings  `yaml:"schedule"`
	Rating    RatingSettings    `yaml:"rating"`
}

// EventSettings identify the event the histories belong to.
type EventSettings struct {
	ID   string `yaml:"id"`
	Mode string `yaml:"mode"`
}

// StandingsSettings hold the ComputeStandings knobs.
type StandingsSettings struct {
	Points            core.PointsMap         `yaml:"points"`
	TieBreakFloor     float64                `yaml:"tie_break_floor"`
	HeadToHead        bool                   `yaml:"head_to_head"`
	AcceptSingleEntry bool                   `yaml:"accept_single_entry"`
	VirtualBye        core.VirtualByeOptions `yaml:"virtual_bye"`
	BronzeMatch       bool                   `yaml:"bronze_match"`
}

// PairingSettings hold the GeneratePairings knobs.
type PairingSettings struct {
	AllowRematches bool `yaml:"allow_rematches"`
	ProtectedTopN  int  `yaml:"protected_top_n"`
	MaxAttempts    int  `yaml:"max_attempts"`
	DisallowBye    bool `yaml:"disallow_bye"`
}

// ScheduleSettings hold the round robin scheduler knobs.
type ScheduleSettings struct {
	Double      bool  `yaml:"double"`
	Shuffle     bool  `yaml:"shuffle"`
	ShuffleSeed int64 `yaml:"shuffle_seed"`
	OmitByes    bool  `yaml:"omit_byes"`
}

// RatingSettings hold the Elo update knobs.
type RatingSettings struct {
	KFactor       float64 `yaml:"k_factor"`
	InitialRating float64 `yaml:"initial_rating"`
	MinRating     float64 `yaml:"min_rating"`
	MaxRating     float64 `yaml:"max_rating"`
}

// Load reads settings from a YAML file.
func Load(filename string) (*Settings, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, eris.Wrap(err, "read settings file")
	}

	var settings Settings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, eris.Wrap(err, "unmarshal settings")
	}

	return &settings, nil
}

// Mode returns the configured tournament mode, swiss when unset.
func (s *Settings) Mode() core.Mode {
	if s.Event.Mode == "" {
		return core.ModeSwiss
	}
	return core.Mode(s.Event.Mode)
}

func (s *Settings) StandingsOptions() core.StandingsOptions {
	return core.StandingsOptions{
		Points:            s.Standings.Points,
		TieBreakFloor:     s.Standings.TieBreakFloor,
		HeadToHead:        s.Standings.HeadToHead,
		AcceptSingleEntry: s.Standings.AcceptSingleEntry,
		VirtualBye:        s.Standings.VirtualBye,
		EventID:           s.Event.ID,
		BronzeMatch:       s.Standings.BronzeMatch,
	}
}

func (s *Settings) PairingOptions() core.PairingOptions {
	return core.PairingOptions{
		EventID:        s.Event.ID,
		AllowRematches: s.Pairing.AllowRematches,
		ProtectedTopN:  s.Pairing.ProtectedTopN,
		MaxAttempts:    s.Pairing.MaxAttempts,
		DisallowBye:    s.Pairing.DisallowBye,
	}
}

func (s *Settings) ScheduleOptions() core.ScheduleOptions {
	return core.ScheduleOptions{
		Double:      s.Schedule.Double,
		Shuffle:     s.Schedule.Shuffle,
		ShuffleSeed: s.Schedule.ShuffleSeed,
		OmitByes:    s.Schedule.OmitByes,
	}
}

func (s *Settings) RatingOptions() elo.Options {
	return elo.Options{
		KFactor:       s.Rating.KFactor,
		InitialRating: s.Rating.InitialRating,
		MinRating:     s.Rating.MinRating,
		MaxRating:     s.Rating.MaxRating,
	}
}
