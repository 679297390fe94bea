package elo

import (
	"math"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/require"
)

func TestExpectedScore(t *testing.T) {
	require.InDelta(t, 0.5, ExpectedScore(1500, 1500), 1e-9)
	require.InDelta(t, 0.240253, ExpectedScore(1400, 1600), 1e-6)
	require.InDelta(t, 1.0, ExpectedScore(1400, 1600)+ExpectedScore(1600, 1400), 1e-9,
		"the two perspectives are complementary")
	require.Greater(t, ExpectedScore(2000, 1000), 0.99)
}

func TestUpdateRatingsEvenWin(t *testing.T) {
	ratings := map[string]float64{"Ada": 1500, "Ben": 1500}

	updated, updates, err := UpdateRatings(ratings, []Result{
		{A: "Ada", B: "Ben", ScoreA: ScoreWin},
	}, Options{})
	require.NoError(t, err)

	require.InDelta(t, 1516, updated["Ada"], 1e-9)
	require.InDelta(t, 1484, updated["Ben"], 1e-9)

	require.Len(t, updates, 2)
	require.Equal(t, "Ada", updates[0].Competitor)
	require.InDelta(t, 1500, updates[0].OldRating, 1e-9)
	require.InDelta(t, 1516, updates[0].NewRating, 1e-9)
	require.InDelta(t, 16, updates[0].Delta, 1e-9)
	require.Equal(t, "Ben", updates[1].Competitor)
	require.InDelta(t, -16, updates[1].Delta, 1e-9)

	require.InDelta(t, 1500, ratings["Ada"], 1e-9, "the input map is untouched")
}

func TestUpdateRatingsDraw(t *testing.T) {
	updated, updates, err := UpdateRatings(map[string]float64{"Ada": 1500, "Ben": 1500}, []Result{
		{A: "Ada", B: "Ben", ScoreA: ScoreDraw},
	}, Options{})
	require.NoError(t, err)

	require.InDelta(t, 1500, updated["Ada"], 1e-9)
	require.InDelta(t, 1500, updated["Ben"], 1e-9)
	require.InDelta(t, 0, updates[0].Delta, 1e-9)
}

func TestUpdateRatingsUnratedStart(t *testing.T) {
	updated, _, err := UpdateRatings(nil, []Result{
		{A: "Ada", B: "Ben", ScoreA: ScoreLoss},
	}, Options{})
	require.NoError(t, err)

	require.InDelta(t, 1484, updated["Ada"], 1e-9, "both started at the default 1500")
	require.InDelta(t, 1516, updated["Ben"], 1e-9)

	updated, _, err = UpdateRatings(nil, []Result{
		{A: "Ada", B: "Ben", ScoreA: ScoreWin},
	}, Options{InitialRating: 1000, KFactor: 20})
	require.NoError(t, err)
	require.InDelta(t, 1010, updated["Ada"], 1e-9)
	require.InDelta(t, 990, updated["Ben"], 1e-9)
}

func TestUpdateRatingsSequential(t *testing.T) {
	results := []Result{
		{A: "Ada", B: "Ben", ScoreA: ScoreWin},
		{A: "Ada", B: "Ben", ScoreA: ScoreWin},
	}

	updated, updates, err := UpdateRatings(map[string]float64{"Ada": 1500, "Ben": 1500}, results, Options{})
	require.NoError(t, err)
	require.Len(t, updates, 4)

	// The second win is less surprising, so it moves less.
	require.InDelta(t, 16, updates[0].Delta, 1e-9)
	require.Greater(t, updates[2].Delta, 0.0)
	require.Less(t, updates[2].Delta, updates[0].Delta)

	require.InDelta(t, 1516, updates[2].OldRating, 1e-9, "the second result sees the updated rating")
	require.Greater(t, updated["Ada"], 1516.0)
	require.Less(t, updated["Ben"], 1484.0)
}

func TestUpdateRatingsCustomPredictor(t *testing.T) {
	flat := func(ratingA, ratingB float64) (float64, error) { return 0.75, nil }

	updated, _, err := UpdateRatings(map[string]float64{"Ada": 1500, "Ben": 1500}, []Result{
		{A: "Ada", B: "Ben", ScoreA: ScoreWin},
	}, Options{ExpectedScore: flat})
	require.NoError(t, err)

	require.InDelta(t, 1508, updated["Ada"], 1e-9, "32 * (1 - 0.75)")
	require.InDelta(t, 1476, updated["Ben"], 1e-9, "32 * (0 - 0.75)")
}

func TestUpdateRatingsPredictorFallback(t *testing.T) {
	predictors := map[string]ExpectedScoreFunc{
		"errors":    func(a, b float64) (float64, error) { return 0, eris.New("predictor offline") },
		"nan":       func(a, b float64) (float64, error) { return math.NaN(), nil },
		"above one": func(a, b float64) (float64, error) { return 1.5, nil },
		"negative":  func(a, b float64) (float64, error) { return -0.1, nil },
	}

	for name, predictor := range predictors {
		t.Run(name, func(t *testing.T) {
			updated, _, err := UpdateRatings(map[string]float64{"Ada": 1500, "Ben": 1500}, []Result{
				{A: "Ada", B: "Ben", ScoreA: ScoreWin},
			}, Options{ExpectedScore: predictor})
			require.NoError(t, err)
			require.InDelta(t, 1516, updated["Ada"], 1e-9, "the reference formula must take over")
		})
	}
}

func TestUpdateRatingsClamped(t *testing.T) {
	opts := Options{MinRating: 1400, MaxRating: 1550}

	updated, _, err := UpdateRatings(map[string]float64{"Ada": 1545, "Ben": 1400}, []Result{
		{A: "Ada", B: "Ben", ScoreA: ScoreWin},
	}, opts)
	require.NoError(t, err)

	require.InDelta(t, 1550, updated["Ada"], 1e-9, "capped at the ceiling")
	require.InDelta(t, 1400, updated["Ben"], 1e-9, "held at the floor")
}

func TestUpdateRatingsOptionValidation(t *testing.T) {
	_, _, err := UpdateRatings(nil, nil, Options{KFactor: -1})
	require.ErrorIs(t, err, ErrKFactorNegative)

	_, _, err = UpdateRatings(nil, nil, Options{MinRating: 1500, MaxRating: 1500})
	require.ErrorIs(t, err, ErrBoundsInvalid)

	_, _, err = UpdateRatings(nil, nil, Options{InitialRating: math.NaN()})
	require.Error(t, err)
	require.ErrorIs(t, eris.Cause(err), ErrRatingInvalid)
}

func TestUpdateRatingsResultValidation(t *testing.T) {
	tests := []struct {
		name    string
		result  Result
		wantErr error
	}{
		{"empty a", Result{B: "Ben", ScoreA: 1}, ErrEmptyID},
		{"empty b", Result{A: "Ada", ScoreA: 1}, ErrEmptyID},
		{"self match", Result{A: "Ada", B: "Ada", ScoreA: 1}, ErrSameCompetitor},
		{"score above one", Result{A: "Ada", B: "Ben", ScoreA: 1.5}, ErrScoreInvalid},
		{"negative score", Result{A: "Ada", B: "Ben", ScoreA: -0.5}, ErrScoreInvalid},
		{"nan score", Result{A: "Ada", B: "Ben", ScoreA: math.NaN()}, ErrScoreInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := UpdateRatings(nil, []Result{tt.result}, Options{})
			require.Error(t, err)
			require.ErrorIs(t, eris.Cause(err), tt.wantErr)
		})
	}
}

func TestUpdateRatingsRejectsBrokenRating(t *testing.T) {
	_, _, err := UpdateRatings(map[string]float64{"Ada": math.Inf(1)}, []Result{
		{A: "Ada", B: "Ben", ScoreA: ScoreWin},
	}, Options{})
	require.Error(t, err)
	require.ErrorIs(t, eris.Cause(err), ErrRatingInvalid)
	require.Contains(t, err.Error(), "Ada")
}

func TestUpdateRatingsNoResults(t *testing.T) {
	ratings := map[string]float64{"Ada": 1612}

	updated, updates, err := UpdateRatings(ratings, nil, Options{})
	require.NoError(t, err)
	require.Empty(t, updates)
	require.InDelta(t, 1612, updated["Ada"], 1e-9)

	updated["Ada"] = 0
	require.InDelta(t, 1612, ratings["Ada"], 1e-9, "the result is an independent copy")
}
