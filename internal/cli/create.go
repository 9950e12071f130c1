package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/pranaysuyash/aiglossarypro-sub009/internal/store"
)

func init() {
	rootCmd.AddCommand(newCreateCmd())
}

func newCreateCmd() *cobra.Command {
	var (
		variants    string
		weights     string
		description string
	)

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new A/B experiment",
		Long: `Create a new A/B experiment with the specified name and variants.
The first variant is the control arm.

Without --variants the command prompts interactively.

Examples:
  abtest create landing-hero --variants "control,benefit-led"
  abtest create pricing-cta --variants "control,B,C" --weights "0.5,0.25,0.25"
  abtest create landing-hero`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			if variants == "" {
				var err error
				variants, description, err = promptExperiment()
				if err != nil {
					return err
				}
			}

			variantList := splitTrimmed(variants)
			if len(variantList) < 2 {
				return fmt.Errorf("need at least 2 variants. Example: --variants \"control,B\"")
			}

			weightList, err := parseWeights(weights, len(variantList))
			if err != nil {
				return err
			}

			return withStore(func(s *store.SQLiteStore) error {
				exp, err := s.CreateExperiment(context.Background(), name, description, variantList, weightList)
				if err != nil {
					return fmt.Errorf("failed to create experiment: %w", err)
				}

				fmt.Printf("Created experiment '%s' with %d variants:\n", exp.Name, len(exp.Variants))
				for i, v := range exp.Variants {
					label := ""
					if i == 0 {
						label = " (control)"
					}
					fmt.Printf("  %d: %s%s\n", i, v, label)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&variants, "variants", "v", "", "comma-separated variant names, control first")
	cmd.Flags().StringVarP(&weights, "weights", "w", "", "comma-separated traffic weights (optional)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "what this experiment tests (optional)")

	return cmd
}

func promptExperiment() (variants, description string, err error) {
	variantPrompt := promptui.Prompt{
		Label: "Variants (comma-separated, control first)",
		Validate: func(input string) error {
			if len(splitTrimmed(input)) < 2 {
				return fmt.Errorf("need at least 2 variants")
			}
			return nil
		},
	}
	variants, err = variantPrompt.Run()
	if err != nil {
		return "", "", err
	}

	descPrompt := promptui.Prompt{Label: "Description (optional)"}
	description, err = descPrompt.Run()
	if err != nil {
		return "", "", err
	}

	return variants, description, nil
}

func splitTrimmed(s string) []string {
	parts := strings.Split(s, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseWeights(s string, variantCount int) ([]float64, error) {
	if s == "" {
		return nil, nil
	}

	parts := splitTrimmed(s)
	if len(parts) != variantCount {
		return nil, fmt.Errorf("got %d weights for %d variants", len(parts), variantCount)
	}

	weights := make([]float64, len(parts))
	for i, p := range parts {
		w, err := strconv.ParseFloat(p, 64)
		if err != nil || w < 0 {
			return nil, fmt.Errorf("invalid weight %q", p)
		}
		weights[i] = w
	}
	return weights, nil
}
