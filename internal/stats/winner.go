package stats

import "fmt"

// Metric identifies which conversion counter an experiment is judged on.
type Metric string

const (
	// MetricTrial compares trial signups against page views.
	MetricTrial Metric = "trial"
	// MetricCTA compares CTA clicks against page views.
	MetricCTA Metric = "cta"
)

// ParseMetric validates a metric name from user input (query param or flag).
func ParseMetric(s string) (Metric, error) {
	switch Metric(s) {
	case MetricTrial, MetricCTA:
		return Metric(s), nil
	}
	return "", fmt.Errorf("unknown metric %q (want %q or %q)", s, MetricTrial, MetricCTA)
}

// VariantSummary holds the aggregated counters for one experiment arm.
type VariantSummary struct {
	Variant      string
	Views        int
	TrialSignups int
	CTAClicks    int
}

// Counts returns the (successes, exposures) pair for the given metric.
func (v VariantSummary) Counts(m Metric) (successes, total int) {
	switch m {
	case MetricCTA:
		return v.CTAClicks, v.Views
	default:
		return v.TrialSignups, v.Views
	}
}

// Rate returns the conversion rate for the given metric, 0 when there are
// no exposures.
func (v VariantSummary) Rate(m Metric) float64 {
	succ, total := v.Counts(m)
	if total == 0 {
		return 0
	}
	return float64(succ) / float64(total)
}

// WinnerDecision names the best-performing arm of an experiment. An empty
// Variant means no winner was determined: either there was nothing to compare
// or no challenger beat control.
type WinnerDecision struct {
	Variant        string
	ConversionRate float64
	IsSignificant  bool
}

// DetermineWinner picks the arm with the strictly highest conversion rate for
// the given metric. results[0] is treated as control; the decision for a
// winning challenger carries the verdict of its significance test against
// control, so callers can distinguish a confirmed winner from a leading one.
//
// Ties break toward the larger sample, then toward input order, which keeps
// the decision deterministic and favors control over an equal challenger.
func DetermineWinner(results []VariantSummary, metric Metric) WinnerDecision {
	if len(results) == 0 {
		return WinnerDecision{}
	}

	if len(results) == 1 {
		// Nothing to compare against
		return WinnerDecision{
			Variant:        results[0].Variant,
			ConversionRate: results[0].Rate(metric),
		}
	}

	best := 0
	for i := 1; i < len(results); i++ {
		ri, rb := results[i].Rate(metric), results[best].Rate(metric)
		if ri > rb {
			best = i
			continue
		}
		if ri == rb {
			_, ti := results[i].Counts(metric)
			_, tb := results[best].Counts(metric)
			if ti > tb {
				best = i
			}
		}
	}

	if best == 0 {
		// Control itself is on top: no challenger beat it
		return WinnerDecision{ConversionRate: results[0].Rate(metric)}
	}

	cSucc, cTotal := results[0].Counts(metric)
	vSucc, vTotal := results[best].Counts(metric)
	sig := TwoProportionTest(cSucc, cTotal, vSucc, vTotal)

	return WinnerDecision{
		Variant:        results[best].Variant,
		ConversionRate: results[best].Rate(metric),
		IsSignificant:  sig.IsSignificant,
	}
}
