package stats_test

import (
	"testing"

	"github.com/pranaysuyash/aiglossarypro-sub009/internal/stats"
)

func TestDetermineWinner_SignificantChallenger(t *testing.T) {
	// Scenario from the clear-winner significance test: B converts at 8%
	// against control's 5% over 1000 views each.
	results := []stats.VariantSummary{
		{Variant: "control", Views: 1000, TrialSignups: 50},
		{Variant: "B", Views: 1000, TrialSignups: 80},
	}

	decision := stats.DetermineWinner(results, stats.MetricTrial)

	if decision.Variant != "B" {
		t.Errorf("winner %q, expected B", decision.Variant)
	}
	if !decision.IsSignificant {
		t.Error("expected significant winner")
	}
	if decision.ConversionRate != 0.08 {
		t.Errorf("conversion rate %f, expected 0.08", decision.ConversionRate)
	}
}

func TestDetermineWinner_LeadingButNotSignificant(t *testing.T) {
	results := []stats.VariantSummary{
		{Variant: "control", Views: 1000, TrialSignups: 10},
		{Variant: "B", Views: 1000, TrialSignups: 12},
	}

	decision := stats.DetermineWinner(results, stats.MetricTrial)

	if decision.Variant != "B" {
		t.Errorf("winner %q, expected B as leading variant", decision.Variant)
	}
	if decision.IsSignificant {
		t.Error("expected non-significant leader")
	}
}

func TestDetermineWinner_SingleEntry(t *testing.T) {
	results := []stats.VariantSummary{
		{Variant: "control", Views: 500, TrialSignups: 25},
	}

	decision := stats.DetermineWinner(results, stats.MetricTrial)

	if decision.Variant != "control" {
		t.Errorf("winner %q, expected the only entry", decision.Variant)
	}
	if decision.IsSignificant {
		t.Error("single entry has nothing to compare against")
	}
	if decision.ConversionRate != 0.05 {
		t.Errorf("conversion rate %f, expected 0.05", decision.ConversionRate)
	}
}

func TestDetermineWinner_ControlLeading(t *testing.T) {
	results := []stats.VariantSummary{
		{Variant: "control", Views: 1000, TrialSignups: 100},
		{Variant: "B", Views: 1000, TrialSignups: 50},
	}

	decision := stats.DetermineWinner(results, stats.MetricTrial)

	if decision.Variant != "" {
		t.Errorf("winner %q, expected none when control leads", decision.Variant)
	}
	if decision.IsSignificant {
		t.Error("no winner means no significance claim")
	}
	if decision.ConversionRate != 0.1 {
		t.Errorf("conversion rate %f, expected control's 0.1", decision.ConversionRate)
	}
}

func TestDetermineWinner_TieBreaks(t *testing.T) {
	// Identical rates: the larger sample wins
	results := []stats.VariantSummary{
		{Variant: "control", Views: 100, TrialSignups: 10},
		{Variant: "B", Views: 100, TrialSignups: 10},
		{Variant: "C", Views: 200, TrialSignups: 20},
	}

	decision := stats.DetermineWinner(results, stats.MetricTrial)
	if decision.Variant != "C" {
		t.Errorf("winner %q, expected C via larger sample", decision.Variant)
	}
	if decision.IsSignificant {
		t.Error("identical rates can't be significant")
	}

	// Fully tied: input order wins, which keeps control on top
	results = []stats.VariantSummary{
		{Variant: "control", Views: 100, TrialSignups: 10},
		{Variant: "B", Views: 100, TrialSignups: 10},
	}

	decision = stats.DetermineWinner(results, stats.MetricTrial)
	if decision.Variant != "" {
		t.Errorf("winner %q, expected none on a full tie with control", decision.Variant)
	}
}

func TestDetermineWinner_Empty(t *testing.T) {
	decision := stats.DetermineWinner(nil, stats.MetricTrial)

	if decision.Variant != "" || decision.IsSignificant || decision.ConversionRate != 0 {
		t.Errorf("expected zero decision for empty input, got %+v", decision)
	}
}

func TestDetermineWinner_CTAMetric(t *testing.T) {
	// B wins on CTA clicks even though it loses on trials
	results := []stats.VariantSummary{
		{Variant: "control", Views: 1000, TrialSignups: 80, CTAClicks: 50},
		{Variant: "B", Views: 1000, TrialSignups: 50, CTAClicks: 80},
	}

	decision := stats.DetermineWinner(results, stats.MetricCTA)
	if decision.Variant != "B" {
		t.Errorf("CTA winner %q, expected B", decision.Variant)
	}

	decision = stats.DetermineWinner(results, stats.MetricTrial)
	if decision.Variant != "" {
		t.Errorf("trial winner %q, expected none", decision.Variant)
	}
}

func TestVariantSummary_CountsAndRate(t *testing.T) {
	v := stats.VariantSummary{Variant: "B", Views: 200, TrialSignups: 20, CTAClicks: 50}

	if succ, total := v.Counts(stats.MetricTrial); succ != 20 || total != 200 {
		t.Errorf("trial counts (%d, %d), expected (20, 200)", succ, total)
	}
	if succ, total := v.Counts(stats.MetricCTA); succ != 50 || total != 200 {
		t.Errorf("cta counts (%d, %d), expected (50, 200)", succ, total)
	}
	if rate := v.Rate(stats.MetricCTA); rate != 0.25 {
		t.Errorf("cta rate %f, expected 0.25", rate)
	}

	empty := stats.VariantSummary{Variant: "C"}
	if rate := empty.Rate(stats.MetricTrial); rate != 0 {
		t.Errorf("rate %f for zero views, expected 0", rate)
	}
}

func TestParseMetric(t *testing.T) {
	if m, err := stats.ParseMetric("trial"); err != nil || m != stats.MetricTrial {
		t.Errorf("ParseMetric(trial) = %v, %v", m, err)
	}
	if m, err := stats.ParseMetric("cta"); err != nil || m != stats.MetricCTA {
		t.Errorf("ParseMetric(cta) = %v, %v", m, err)
	}
	if _, err := stats.ParseMetric("bounce"); err == nil {
		t.Error("expected error for unknown metric")
	}
}
