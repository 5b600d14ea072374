package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"strategy-builder/internal/errors"
	"strategy-builder/internal/models"
	"strategy-builder/internal/strike"
)

func addStrikeCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "strike",
		Short: "Convert strike selections between display and numeric form",
		Long: `Convert strike selections between the display form ("ATM", "OTM2",
"ATM+1.5%") and the numeric value the backend stores.`,
	}

	var method string
	cmd.PersistentFlags().StringVarP(&method, "method", "m", string(models.SelectionATMPoints),
		"selection method: ATM_POINTS, ATM_PERCENT, PREMIUM, PERCENTAGE_OF_STRADDLE_PREMIUM")

	cmd.AddCommand(&cobra.Command{
		Use:     "parse <display>",
		Short:   "Convert a display strike into its numeric value",
		Example: "  strategyctl strike parse OTM2\n  strategyctl strike parse ATM-1.5% -m ATM_PERCENT",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			m := selectionMethod(method)
			value := app.Transformer.Codec().Parse(args[0], m)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"display": args[0],
					"method":  m,
					"value":   value,
				})
			}
			output.Println(value.String())
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "format <value>",
		Short:   "Convert a numeric strike value into its display form",
		Example: "  strategyctl strike format -- -3\n  strategyctl strike format 2.5 -m ATM_PERCENT",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			m := selectionMethod(method)

			value := models.SentinelValue(args[0])
			if n, err := strconv.ParseFloat(args[0], 64); err == nil {
				value = models.NumberValue(n)
			}
			display := app.Transformer.Codec().Format(value, m)

			if output.IsJSON() {
				return output.JSON(map[string]interface{}{
					"value":   value,
					"method":  m,
					"display": display,
				})
			}
			output.Println(display)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "check <display>",
		Short: "Check that a display strike is well formed for a method",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			m := selectionMethod(method)
			valid := strike.ValidFormat(args[0], m)
			description := strike.Describe(args[0], m)

			if output.IsJSON() {
				if err := output.JSON(map[string]interface{}{
					"display":     args[0],
					"method":      m,
					"valid":       valid,
					"description": description,
				}); err != nil {
					return err
				}
			} else if valid {
				output.Success("✓ %s: %s", args[0], description)
			} else {
				output.Error("✗ %q is not a valid %s strike", args[0], m)
			}

			if !valid {
				return errors.NewValidationError("strike", args[0], "invalid format for "+string(m))
			}
			return nil
		},
	})

	rootCmd.AddCommand(cmd)
}

func selectionMethod(s string) models.SelectionMethod {
	return models.SelectionMethod(strings.ToUpper(strings.TrimSpace(s)))
}
