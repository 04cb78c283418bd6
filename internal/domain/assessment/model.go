package assessment

import (
	"errors"
	"time"
)

// Lift identifiers.
const (
	LiftSquat    = "squat"
	LiftBench    = "bench"
	LiftDeadlift = "deadlift"
	LiftPress    = "press"
)

// Sex identifiers for table lookup.
const (
	SexMale   = "male"
	SexFemale = "female"
)

// Tier names, weakest to strongest.
const (
	TierBeginner     = "beginner"
	TierNovice       = "novice"
	TierIntermediate = "intermediate"
	TierAdvanced     = "advanced"
	TierElite        = "elite"
)

// Lifts lists the scored lifts in display order.
var Lifts = []string{LiftSquat, LiftBench, LiftDeadlift, LiftPress}

// Domain errors
var (
	ErrInvalidSex        = errors.New("sex must be 'male' or 'female'")
	ErrInvalidBodyweight = errors.New("bodyweight must be positive")
	ErrInvalidLift       = errors.New("all lifts must be positive")
)

// Input is one strength assessment submission. Weights are in kilograms.
type Input struct {
	Sex          string
	BodyweightKg float64
	SquatKg      float64
	BenchKg      float64
	DeadliftKg   float64
	PressKg      float64
}

// LiftScore is the scored outcome for a single lift.
type LiftScore struct {
	Lift       string  `json:"lift"`
	Ratio      float64 `json:"ratio"` // lift / bodyweight
	Percentile int     `json:"percentile"`
	Tier       string  `json:"tier"`
}

// Result is a complete scored assessment.
type Result struct {
	Lifts          []LiftScore `json:"lifts"`
	OverallScore   int         `json:"overall_score"` // mean of lift percentiles
	OverallTier    string      `json:"overall_tier"`
	WeakestLift    string      `json:"weakest_lift"`
	Recommendation string      `json:"recommendation"`
}

// Record is a stored assessment for an authenticated client.
type Record struct {
	ID        string
	ClientID  string
	Input     Input
	Result    Result
	CreatedAt time.Time
}

// Validate checks assessment input bounds.
// PRE: Input struct is populated
// POST: Returns error if validation fails, nil otherwise
func (in *Input) Validate() error {
	if in.Sex != SexMale && in.Sex != SexFemale {
		return ErrInvalidSex
	}
	if in.BodyweightKg <= 0 {
		return ErrInvalidBodyweight
	}
	if in.SquatKg <= 0 || in.BenchKg <= 0 || in.DeadliftKg <= 0 || in.PressKg <= 0 {
		return ErrInvalidLift
	}
	return nil
}

// Score evaluates the input against the static percentile tables.
// PRE: Input has been validated
// POST: Returns per-lift percentiles, overall score, and a recommendation
// INVARIANT: Percentiles are clamped to [1, 99]
func Score(in Input) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}

	weights := map[string]float64{
		LiftSquat:    in.SquatKg,
		LiftBench:    in.BenchKg,
		LiftDeadlift: in.DeadliftKg,
		LiftPress:    in.PressKg,
	}

	var res Result
	total := 0
	weakest := ""
	weakestPct := 101
	for _, lift := range Lifts {
		ratio := weights[lift] / in.BodyweightKg
		pct := percentileFor(in.Sex, lift, ratio)
		res.Lifts = append(res.Lifts, LiftScore{
			Lift:       lift,
			Ratio:      ratio,
			Percentile: pct,
			Tier:       tierFor(pct),
		})
		total += pct
		if pct < weakestPct {
			weakestPct = pct
			weakest = lift
		}
	}

	res.OverallScore = total / len(Lifts)
	res.OverallTier = tierFor(res.OverallScore)
	res.WeakestLift = weakest
	res.Recommendation = recommendations[weakest]
	return res, nil
}

// tierFor maps a percentile to a named tier.
func tierFor(pct int) string {
	switch {
	case pct < 20:
		return TierBeginner
	case pct < 40:
		return TierNovice
	case pct < 70:
		return TierIntermediate
	case pct < 90:
		return TierAdvanced
	default:
		return TierElite
	}
}

// recommendations keyed by weakest lift.
var recommendations = map[string]string{
	LiftSquat:    "Your squat is lagging behind your other lifts. Add a second weekly squat session and prioritise depth and bracing before adding load.",
	LiftBench:    "Your bench press is your weakest ratio. Work pressing volume at 70-80% and add close-grip variations to build lockout strength.",
	LiftDeadlift: "Your deadlift has the most room to grow. Practise pulling from a dead stop with a rigid brace, and add Romanian deadlifts for posterior chain volume.",
	LiftPress:    "Your overhead press trails the rest. Press early in sessions while fresh, and add strict pressing volume before any push-press work.",
}
