// Package elo applies standard Elo rating updates to match results.
package elo

import (
	"errors"
	"maps"
	"math"

	"github.com/rotisserie/eris"
)

var (
	ErrKFactorNegative = errors.New("k-factor is negative")
	ErrBoundsInvalid   = errors.New("min rating is not less than max rating")
	ErrRatingInvalid   = errors.New("rating value is invalid")
	ErrScoreInvalid    = errors.New("actual score is outside [0, 1]")
	ErrEmptyID         = errors.New("empty competitor id")
	ErrSameCompetitor  = errors.New("result pairs a competitor with themselves")
)

// Actual scores of a result from the first competitor's perspective.
const (
	ScoreWin  = 1.0
	ScoreDraw = 0.5
	ScoreLoss = 0.0
)

const (
	defaultKFactor       = 32
	defaultInitialRating = 1500
)

// An ExpectedScoreFunc predicts the score of the first competitor
// against the second, as a value in (0, 1). Plugging one in lets an
// accelerated or experimental predictor replace the reference
// formula; whenever it errors or returns a useless value the
// reference formula silently takes over.
type ExpectedScoreFunc func(ratingA, ratingB float64) (float64, error)

// ExpectedScore is the reference prediction: the classic logistic
// curve with a 400-point scale.
func ExpectedScore(ratingA, ratingB float64) float64 {
	return 1.0 / (1.0 + math.Pow(10.0, (ratingB-ratingA)/400.0))
}

// Options configure UpdateRatings. The zero value uses K-factor 32,
// initial rating 1500, no rating bounds and the reference predictor.
type Options struct {
	KFactor       float64
	InitialRating float64

	// Ratings are clamped into [MinRating, MaxRating] when the two
	// differ; both zero leaves ratings unbounded
	MinRating float64
	MaxRating float64

	ExpectedScore ExpectedScoreFunc
}

func (o Options) withDefaults() Options {
	if o.KFactor == 0 {
		o.KFactor = defaultKFactor
	}
	if o.InitialRating == 0 {
		o.InitialRating = defaultInitialRating
	}
	return o
}

func (o Options) validate() error {
	if o.KFactor < 0 {
		return ErrKFactorNegative
	}
	if o.bounded() && o.MinRating >= o.MaxRating {
		return ErrBoundsInvalid
	}
	if math.IsNaN(o.InitialRating) || math.IsInf(o.InitialRating, 0) {
		return eris.Wrap(ErrRatingInvalid, "initial rating")
	}
	return nil
}

func (o Options) bounded() bool {
	return o.MinRating != 0 || o.MaxRating != 0
}

func (o Options) clamp(rating float64) float64 {
	if !o.bounded() {
		return rating
	}
	if rating < o.MinRating {
		return o.MinRating
	}
	if rating > o.MaxRating {
		return o.MaxRating
	}
	return rating
}

// A Result is one decided match. ScoreA is the actual score of A:
// 1 for a win, 0.5 for a draw, 0 for a loss.
type Result struct {
	A      string  `json:"a"`
	B      string  `json:"b"`
	ScoreA float64 `json:"scoreA"`
}

func (r Result) validate() error {
	switch {
	case r.A == "" || r.B == "":
		return ErrEmptyID
	case r.A == r.B:
		return eris.Wrap(ErrSameCompetitor, r.A)
	case math.IsNaN(r.ScoreA) || r.ScoreA < 0 || r.ScoreA > 1:
		return eris.Wrapf(ErrScoreInvalid, "%v for %s vs %s", r.ScoreA, r.A, r.B)
	}
	return nil
}

// A RatingUpdate records one competitor's rating change.
type RatingUpdate struct {
	Competitor string  `json:"competitor"`
	OldRating  float64 `json:"oldRating"`
	NewRating  float64 `json:"newRating"`
	Delta      float64 `json:"delta"`
}

// UpdateRatings plays the results through the rating map in the given
// order and returns the new ratings along with a change record per
// competitor per result. The input map is not modified; competitors
// without an entry start at the initial rating.
func UpdateRatings(ratings map[string]float64, results []Result, opts Options) (map[string]float64, []RatingUpdate, error) {
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, nil, err
	}

	updated := make(map[string]float64, len(ratings))
	maps.Copy(updated, ratings)

	updates := make([]RatingUpdate, 0, 2*len(results))

	for _, result := range results {
		if err := result.validate(); err != nil {
			return nil, nil, err
		}

		ratingA, err := currentRating(updated, result.A, opts)
		if err != nil {
			return nil, nil, err
		}
		ratingB, err := currentRating(updated, result.B, opts)
		if err != nil {
			return nil, nil, err
		}

		expectedA := expected(opts, ratingA, ratingB)
		expectedB := expected(opts, ratingB, ratingA)

		newA := opts.clamp(ratingA + opts.KFactor*(result.ScoreA-expectedA))
		newB := opts.clamp(ratingB + opts.KFactor*((1-result.ScoreA)-expectedB))

		updated[result.A] = newA
		updated[result.B] = newB

		updates = append(updates,
			RatingUpdate{
				Competitor: result.A,
				OldRating:  ratingA,
				NewRating:  newA,
				Delta:      newA - ratingA,
			},
			RatingUpdate{
				Competitor: result.B,
				OldRating:  ratingB,
				NewRating:  newB,
				Delta:      newB - ratingB,
			},
		)
	}

	return updated, updates, nil
}

func currentRating(ratings map[string]float64, id string, opts Options) (float64, error) {
	rating, ok := ratings[id]
	if !ok {
		return opts.InitialRating, nil
	}
	if math.IsNaN(rating) || math.IsInf(rating, 0) {
		return 0, eris.Wrap(ErrRatingInvalid, id)
	}
	return rating, nil
}

// expected consults the plugged-in predictor and falls back to the
// reference formula whenever it errors or returns a value outside the
// meaningful range.
func expected(opts Options, ratingA, ratingB float64) float64 {
	if opts.ExpectedScore == nil {
		return ExpectedScore(ratingA, ratingB)
	}

	prediction, err := opts.ExpectedScore(ratingA, ratingB)
	if err != nil || math.IsNaN(prediction) || math.IsInf(prediction, 0) ||
		prediction < 0 || prediction > 1 {
		return ExpectedScore(ratingA, ratingB)
	}

	return prediction
}
