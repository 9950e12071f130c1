package stats_test

import (
	"testing"

	"github.com/pranaysuyash/aiglossarypro-sub009/internal/stats"
	"github.com/pranaysuyash/aiglossarypro-sub009/internal/store"
)

func TestAnalyzeExperiment_BasicReport(t *testing.T) {
	exp := &store.Experiment{
		Name:     "landing-hero",
		Variants: []string{"control", "B"},
		State:    store.StateRunning,
	}

	metrics := []store.VariantMetrics{
		{Variant: 0, Views: 1000, TrialSignups: 50},
		{Variant: 1, Views: 1000, TrialSignups: 80},
	}

	report := stats.AnalyzeExperiment(exp, metrics, stats.MetricTrial)

	if len(report.Variants) != 2 {
		t.Fatalf("expected 2 variants, got %d", len(report.Variants))
	}

	if report.Variants[0].Rate != 0.05 {
		t.Errorf("control rate %f, expected 0.05", report.Variants[0].Rate)
	}
	if report.Variants[1].Rate != 0.08 {
		t.Errorf("variant rate %f, expected 0.08", report.Variants[1].Rate)
	}

	if report.Variants[0].Significance != nil {
		t.Error("control should carry no significance result")
	}
	if report.Variants[1].Significance == nil {
		t.Fatal("challenger should carry a significance result")
	}
	if !report.Variants[1].Significance.IsSignificant {
		t.Error("expected challenger to be significant at this scale")
	}

	if report.Winner.Variant != "B" {
		t.Errorf("winner %q, expected B", report.Winner.Variant)
	}
	if !report.Winner.IsSignificant {
		t.Error("expected significant winner")
	}
}

func TestAnalyzeExperiment_ConfidenceIntervals(t *testing.T) {
	exp := &store.Experiment{
		Name:     "landing-hero",
		Variants: []string{"control", "B"},
		State:    store.StateRunning,
	}

	metrics := []store.VariantMetrics{
		{Variant: 0, Views: 1000, TrialSignups: 100},
		{Variant: 1, Views: 1000, TrialSignups: 150},
	}

	report := stats.AnalyzeExperiment(exp, metrics, stats.MetricTrial)

	for i, v := range report.Variants {
		if v.CILower >= v.Rate {
			t.Errorf("variant %d: CI lower %f should be < rate %f", i, v.CILower, v.Rate)
		}
		if v.CIUpper <= v.Rate {
			t.Errorf("variant %d: CI upper %f should be > rate %f", i, v.CIUpper, v.Rate)
		}
		if v.CILower < 0 || v.CIUpper > 1 {
			t.Errorf("variant %d: CI [%f, %f] out of bounds", i, v.CILower, v.CIUpper)
		}
	}
}

func TestAnalyzeExperiment_EmptyMetrics(t *testing.T) {
	exp := &store.Experiment{
		Name:     "landing-hero",
		Variants: []string{"control", "B"},
		State:    store.StateRunning,
	}

	report := stats.AnalyzeExperiment(exp, nil, stats.MetricTrial)

	if len(report.Variants) != 2 {
		t.Fatalf("expected 2 variants even with no events, got %d", len(report.Variants))
	}

	for _, v := range report.Variants {
		if v.Views != 0 || v.Conversions != 0 {
			t.Error("expected zero views/conversions with no events")
		}
	}

	// No data on either side: no winner claim beyond the tie toward control
	if report.Winner.Variant != "" {
		t.Errorf("winner %q, expected none without data", report.Winner.Variant)
	}

	if sig := report.Variants[1].Significance; sig == nil {
		t.Fatal("challenger should still carry a significance result")
	} else if sig.PValue != 1 || sig.IsSignificant {
		t.Errorf("expected insufficient-data result, got %+v", sig)
	}
}

func TestAnalyzeExperiment_MetricSelection(t *testing.T) {
	exp := &store.Experiment{
		Name:     "pricing-cta",
		Variants: []string{"control", "B"},
		State:    store.StateRunning,
	}

	metrics := []store.VariantMetrics{
		{Variant: 0, Views: 400, TrialSignups: 10, CTAClicks: 40},
		{Variant: 1, Views: 400, TrialSignups: 30, CTAClicks: 20},
	}

	trial := stats.AnalyzeExperiment(exp, metrics, stats.MetricTrial)
	if trial.Variants[1].Conversions != 30 {
		t.Errorf("trial conversions %d, expected 30", trial.Variants[1].Conversions)
	}
	if trial.Winner.Variant != "B" {
		t.Errorf("trial winner %q, expected B", trial.Winner.Variant)
	}

	cta := stats.AnalyzeExperiment(exp, metrics, stats.MetricCTA)
	if cta.Variants[1].Conversions != 20 {
		t.Errorf("cta conversions %d, expected 20", cta.Variants[1].Conversions)
	}
	if cta.Winner.Variant != "" {
		t.Errorf("cta winner %q, expected none (control leads)", cta.Winner.Variant)
	}
}

func TestAnalyzeExperiment_VariantNames(t *testing.T) {
	exp := &store.Experiment{
		Name:     "landing-hero",
		Variants: []string{"Ship Faster", "Build Better"},
		State:    store.StateRunning,
	}

	metrics := []store.VariantMetrics{
		{Variant: 0, Views: 100, TrialSignups: 10},
		{Variant: 1, Views: 100, TrialSignups: 20},
	}

	report := stats.AnalyzeExperiment(exp, metrics, stats.MetricTrial)

	if report.Variants[0].Name != "Ship Faster" {
		t.Errorf("variant 0 name %q", report.Variants[0].Name)
	}
	if report.Variants[1].Name != "Build Better" {
		t.Errorf("variant 1 name %q", report.Variants[1].Name)
	}
}
