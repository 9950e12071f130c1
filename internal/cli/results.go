package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pranaysuyash/aiglossarypro-sub009/internal/stats"
	"github.com/pranaysuyash/aiglossarypro-sub009/internal/store"
)

var resultsMetric string

var resultsCmd = &cobra.Command{
	Use:   "results <name>",
	Short: "Show detailed results for an experiment",
	Long: `Show detailed results including conversion rates, confidence intervals,
z-scores, p-values, and the winner verdict for the chosen metric.`,
	Args: cobra.ExactArgs(1),
	RunE: runResults,
}

func init() {
	resultsCmd.Flags().StringVarP(&resultsMetric, "metric", "m", string(stats.MetricTrial), "conversion metric to analyze (trial or cta)")
	rootCmd.AddCommand(resultsCmd)
}

func runResults(cmd *cobra.Command, args []string) error {
	name := args[0]

	metric, err := stats.ParseMetric(resultsMetric)
	if err != nil {
		return err
	}

	return withStore(func(s *store.SQLiteStore) error {
		ctx := context.Background()

		exp, err := s.GetExperiment(ctx, name)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fmt.Errorf("experiment '%s' not found", name)
			}
			return fmt.Errorf("failed to get experiment: %w", err)
		}

		metrics, err := s.GetVariantMetrics(ctx, name)
		if err != nil {
			return fmt.Errorf("failed to get metrics: %w", err)
		}

		report := stats.AnalyzeExperiment(exp, metrics, metric)

		fmt.Printf("EXPERIMENT: %s\n", exp.Name)
		fmt.Printf("STATE: %s\n", exp.State)
		if exp.Description != "" {
			fmt.Printf("GOAL: %s\n", exp.Description)
		}
		fmt.Printf("METRIC: %s\n", report.Metric)
		fmt.Printf("CREATED: %s\n", exp.CreatedAt.Format("2006-01-02"))
		fmt.Println()

		fmt.Println("VARIANT           VIEWS    CONVERSIONS  RATE     95% CI              VS CONTROL")
		fmt.Println(strings.Repeat("─", 86))

		for _, v := range report.Variants {
			ciStr := fmt.Sprintf("[%.1f%%, %.1f%%]", v.CILower*100, v.CIUpper*100)
			if v.Views == 0 {
				ciStr = "N/A"
			}

			vsControl := "—"
			if v.Significance != nil {
				vsControl = describeSignificance(v.Significance)
			}

			name := v.Name
			if len(name) > 16 {
				name = name[:13] + "..."
			}

			fmt.Printf("%-16s  %-7d  %-11d  %-7s  %-18s  %s\n",
				name,
				v.Views,
				v.Conversions,
				formatPercent(v.Rate),
				ciStr,
				vsControl,
			)
		}

		fmt.Println()
		fmt.Println(describeWinner(report.Winner))

		return nil
	})
}

func describeSignificance(sig *stats.SignificanceResult) string {
	if sig.ZScore == nil {
		return "insufficient data"
	}

	desc := fmt.Sprintf("p=%.4f", sig.PValue)
	if sig.RelativeUplift != nil {
		desc += fmt.Sprintf(", %+.1f%% lift", *sig.RelativeUplift*100)
	}
	if sig.IsSignificant {
		desc += " *"
	}
	return desc
}

func describeWinner(w stats.WinnerDecision) string {
	if w.Variant == "" {
		return "Winner: none — control is leading"
	}
	if w.IsSignificant {
		return fmt.Sprintf("Winner: \"%s\" at %s (statistically significant, p < 0.05)", w.Variant, formatPercent(w.ConversionRate))
	}
	return fmt.Sprintf("Leading: \"%s\" at %s (not yet significant)", w.Variant, formatPercent(w.ConversionRate))
}

func formatPercent(rate float64) string {
	if rate == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.2f%%", rate*100)
}
