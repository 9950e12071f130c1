package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pranaysuyash/aiglossarypro-sub009/internal/stats"
	"github.com/pranaysuyash/aiglossarypro-sub009/internal/store"
)

func init() {
	rootCmd.AddCommand(newWinnerCmd())
}

func newWinnerCmd() *cobra.Command {
	var (
		variantIndex int
		auto         bool
		force        bool
		metricName   string
	)

	cmd := &cobra.Command{
		Use:   "winner <name>",
		Short: "Declare a winner for an experiment",
		Long: `Declare a winning variant for an A/B experiment and complete it.

With --auto the winner is determined from the data: the variant with the
highest conversion rate wins, but only if it beats control with statistical
significance (use --force to override).

Examples:
  abtest winner landing-hero --variant 1
  abtest winner landing-hero --auto --metric trial`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			if !auto && variantIndex < 0 {
				return fmt.Errorf("either --variant or --auto is required")
			}

			metric, err := stats.ParseMetric(metricName)
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

				if exp.State != store.StateRunning {
					return fmt.Errorf("experiment is not running (current state: %s)", exp.State)
				}

				if auto {
					variantIndex, err = pickWinner(ctx, s, exp, metric, force)
					if err != nil {
						return err
					}
				}

				if variantIndex < 0 || variantIndex >= len(exp.Variants) {
					return fmt.Errorf("invalid variant index: %d (experiment has %d variants: 0-%d)",
						variantIndex, len(exp.Variants), len(exp.Variants)-1)
				}

				if err := s.SetWinner(ctx, name, variantIndex); err != nil {
					return fmt.Errorf("failed to set winner: %w", err)
				}

				fmt.Printf("Declared winner for experiment '%s': variant %d (\"%s\")\n",
					name, variantIndex, exp.Variants[variantIndex])
				fmt.Println("Experiment has been marked as completed.")

				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&variantIndex, "variant", "v", -1, "winning variant index")
	cmd.Flags().BoolVar(&auto, "auto", false, "pick the winner from the data")
	cmd.Flags().BoolVar(&force, "force", false, "with --auto, accept a winner that is not statistically significant")
	cmd.Flags().StringVarP(&metricName, "metric", "m", string(stats.MetricTrial), "conversion metric for --auto (trial or cta)")

	return cmd
}

func pickWinner(ctx context.Context, s *store.SQLiteStore, exp *store.Experiment, metric stats.Metric, force bool) (int, error) {
	metrics, err := s.GetVariantMetrics(ctx, exp.Name)
	if err != nil {
		return 0, fmt.Errorf("failed to get metrics: %w", err)
	}

	report := stats.AnalyzeExperiment(exp, metrics, metric)
	decision := report.Winner

	if decision.Variant == "" {
		return 0, fmt.Errorf("no variant beats control on metric %q; declare manually with --variant if intended", metric)
	}

	if !decision.IsSignificant && !force {
		return 0, fmt.Errorf("\"%s\" is leading at %.2f%% but not statistically significant; use --force to declare anyway",
			decision.Variant, decision.ConversionRate*100)
	}

	for i, name := range exp.Variants {
		if name == decision.Variant {
			return i, nil
		}
	}

	return 0, fmt.Errorf("winner %q not found among experiment variants", decision.Variant)
}
