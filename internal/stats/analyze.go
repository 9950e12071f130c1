package stats

import (
	"github.com/pranaysuyash/aiglossarypro-sub009/internal/store"
)

// Report is the full statistical picture of one experiment for one metric.
type Report struct {
	Metric   Metric
	Variants []VariantReport
	Winner   WinnerDecision
}

// VariantReport contains statistics for a single arm.
type VariantReport struct {
	Index       int
	Name        string
	Views       int
	Conversions int
	Rate        float64
	CILower     float64
	CIUpper     float64
	// Significance of this arm against control (variant 0); nil for control
	// itself.
	Significance *SignificanceResult
}

// AnalyzeExperiment builds a Report from stored per-variant aggregates.
// Variants missing from metrics (no events yet) appear with zero counts, so
// the report always covers every configured arm.
func AnalyzeExperiment(exp *store.Experiment, metrics []store.VariantMetrics, metric Metric) *Report {
	metricsMap := make(map[int]store.VariantMetrics)
	for _, m := range metrics {
		metricsMap[m.Variant] = m
	}

	summaries := make([]VariantSummary, len(exp.Variants))
	variants := make([]VariantReport, len(exp.Variants))

	for i, name := range exp.Variants {
		m := metricsMap[i] // zero-valued if not present

		summaries[i] = VariantSummary{
			Variant:      name,
			Views:        m.Views,
			TrialSignups: m.TrialSignups,
			CTAClicks:    m.CTAClicks,
		}

		succ, total := summaries[i].Counts(metric)
		ciLower, ciUpper := WilsonInterval(succ, total, 0.95)

		variants[i] = VariantReport{
			Index:       i,
			Name:        name,
			Views:       total,
			Conversions: succ,
			Rate:        summaries[i].Rate(metric),
			CILower:     ciLower,
			CIUpper:     ciUpper,
		}
	}

	if len(summaries) == 0 {
		return &Report{Metric: metric}
	}

	cSucc, cTotal := summaries[0].Counts(metric)
	for i := 1; i < len(variants); i++ {
		vSucc, vTotal := summaries[i].Counts(metric)
		sig := TwoProportionTest(cSucc, cTotal, vSucc, vTotal)
		variants[i].Significance = &sig
	}

	return &Report{
		Metric:   metric,
		Variants: variants,
		Winner:   DetermineWinner(summaries, metric),
	}
}
