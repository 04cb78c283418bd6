package assessment

// breakpoint is a bodyweight-ratio threshold pinned to a percentile.
type breakpoint struct {
	Ratio      float64
	Percentile int
}

// Ratio tables per sex per lift. Breakpoints are ascending; percentiles
// between breakpoints are linearly interpolated. Below the first breakpoint
// clamps to 1, above the last clamps to 99.
var tables = map[string]map[string][]breakpoint{
	SexMale: {
		LiftSquat: {
			{0.75, 5}, {1.00, 20}, {1.25, 40}, {1.50, 60}, {1.75, 80}, {2.25, 95},
		},
		LiftBench: {
			{0.50, 5}, {0.75, 20}, {1.00, 40}, {1.25, 60}, {1.50, 80}, {1.75, 95},
		},
		LiftDeadlift: {
			{1.00, 5}, {1.25, 20}, {1.50, 40}, {1.75, 60}, {2.25, 80}, {2.75, 95},
		},
		LiftPress: {
			{0.35, 5}, {0.50, 20}, {0.65, 40}, {0.80, 60}, {0.95, 80}, {1.10, 95},
		},
	},
	SexFemale: {
		LiftSquat: {
			{0.50, 5}, {0.75, 20}, {1.00, 40}, {1.25, 60}, {1.50, 80}, {1.85, 95},
		},
		LiftBench: {
			{0.25, 5}, {0.40, 20}, {0.55, 40}, {0.70, 60}, {0.85, 80}, {1.00, 95},
		},
		LiftDeadlift: {
			{0.75, 5}, {1.00, 20}, {1.25, 40}, {1.50, 60}, {1.75, 80}, {2.10, 95},
		},
		LiftPress: {
			{0.25, 5}, {0.35, 20}, {0.45, 40}, {0.55, 60}, {0.65, 80}, {0.80, 95},
		},
	},
}

// percentileFor looks up a lift ratio in the static tables.
// PRE: sex and lift are valid identifiers, ratio > 0
// POST: Returns a percentile in [1, 99]
func percentileFor(sex, lift string, ratio float64) int {
	bps := tables[sex][lift]
	if ratio < bps[0].Ratio {
		return 1
	}
	last := bps[len(bps)-1]
	if ratio >= last.Ratio {
		return 99
	}
	for i := 1; i < len(bps); i++ {
		if ratio < bps[i].Ratio {
			lo, hi := bps[i-1], bps[i]
			frac := (ratio - lo.Ratio) / (hi.Ratio - lo.Ratio)
			return lo.Percentile + int(frac*float64(hi.Percentile-lo.Percentile))
		}
	}
	return 99
}
