package cli

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pranaysuyash/aiglossarypro-sub009/internal/store"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all experiments",
	Long:  `List all A/B experiments with their status and traffic totals.`,
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	return withStore(func(s *store.SQLiteStore) error {
		ctx := context.Background()

		experiments, err := s.ListExperiments(ctx)
		if err != nil {
			return fmt.Errorf("failed to list experiments: %w", err)
		}

		if len(experiments) == 0 {
			fmt.Println("No experiments yet.")
			fmt.Println()
			fmt.Println("Create one with: abtest create <name> --variants \"control,B\"")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tSTATE\tVARIANTS\tVIEWS\tTRIALS\tCTA CLICKS\tCREATED")

		for _, exp := range experiments {
			metrics, err := s.GetVariantMetrics(ctx, exp.Name)
			if err != nil {
				return fmt.Errorf("failed to get metrics for experiment %s: %w", exp.Name, err)
			}

			var views, trials, clicks int
			for _, m := range metrics {
				views += m.Views
				trials += m.TrialSignups
				clicks += m.CTAClicks
			}

			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\t%d\t%s\n",
				exp.Name,
				strings.ToUpper(string(exp.State)),
				len(exp.Variants),
				views,
				trials,
				clicks,
				exp.CreatedAt.Format("2006-01-02"),
			)
		}

		return w.Flush()
	})
}
