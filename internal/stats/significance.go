package stats

import "math"

// SignificanceResult is the outcome of comparing a variant against control
// with a two-proportion z-test.
type SignificanceResult struct {
	PValue          float64
	ConfidenceLevel float64
	IsSignificant   bool
	ZScore          *float64 // nil when either group has no exposures
	RelativeUplift  *float64 // nil when the control rate is zero
}

// significanceThreshold is the fixed two-tailed p-value cutoff (95% confidence).
const significanceThreshold = 0.05

// TwoProportionTest decides whether the difference in conversion rate between
// a control group and a variant group is unlikely to be due to chance.
//
// Inputs are raw counts: (successes, exposures) per group. Callers must
// guarantee successes <= total and non-negative counts; the test does not
// validate that precondition.
//
// Edge cases resolve to values, never errors: a zero total in either group
// yields pValue=1 with a nil z-score (insufficient data), and a zero pooled
// standard error yields pValue=1 with z=0 (no detectable difference).
func TwoProportionTest(controlSuccesses, controlTotal, variantSuccesses, variantTotal int) SignificanceResult {
	if controlTotal == 0 || variantTotal == 0 {
		return SignificanceResult{PValue: 1, ConfidenceLevel: 0}
	}

	p1 := float64(controlSuccesses) / float64(controlTotal)
	p2 := float64(variantSuccesses) / float64(variantTotal)

	var uplift *float64
	if p1 > 0 {
		u := (p2 - p1) / p1
		uplift = &u
	}

	// Pooled proportion under the null hypothesis (p1 = p2)
	pooled := float64(controlSuccesses+variantSuccesses) / float64(controlTotal+variantTotal)

	// Standard error of the difference
	se := math.Sqrt(pooled * (1 - pooled) * (1/float64(controlTotal) + 1/float64(variantTotal)))

	if se == 0 {
		z := 0.0
		return SignificanceResult{
			PValue:         1,
			ZScore:         &z,
			RelativeUplift: uplift,
		}
	}

	z := (p2 - p1) / se

	// Two-tailed p-value from the standard normal CDF
	p := 2 * (1 - normalCDF(math.Abs(z)))
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}

	return SignificanceResult{
		PValue:          p,
		ConfidenceLevel: 1 - p,
		IsSignificant:   p < significanceThreshold,
		ZScore:          &z,
		RelativeUplift:  uplift,
	}
}

// normalCDF approximates the cumulative distribution function
// of the standard normal distribution.
//
// Uses the approximation from Abramowitz and Stegun, Handbook of
// Mathematical Functions, formula 7.1.26. Maximum absolute error 1.5e-7.
func normalCDF(x float64) float64 {
	a1 := 0.254829592
	a2 := -0.284496736
	a3 := 1.421413741
	a4 := -1.453152027
	a5 := 1.061405429
	p := 0.3275911

	sign := 1.0
	if x < 0 {
		sign = -1.0
	}
	x = math.Abs(x) / math.Sqrt2

	t := 1.0 / (1.0 + p*x)
	y := 1.0 - (((((a5*t+a4)*t)+a3)*t+a2)*t+a1)*t*math.Exp(-x*x)

	return 0.5 * (1.0 + sign*y)
}
