package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"strategy-builder/internal/errors"
	"strategy-builder/internal/models"
	"strategy-builder/internal/strategy"
)

func addStrategyCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newValidateCmd(app))
	rootCmd.AddCommand(newTransformCmd(app))
	rootCmd.AddCommand(newLoadCmd(app))
}

func newValidateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <strategy.json>",
		Short: "Validate a strategy",
		Long: `Validate a strategy in form shape and list every error and warning.

Exits with a non-zero status when the strategy has errors. Warnings never
fail validation.`,
		Example: `  strategyctl validate short-straddle.json
  cat strategy.json | strategyctl validate - --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			data, err := readForm(cmd, args[0])
			if err != nil {
				return err
			}

			res, err := app.Validator.ValidateContext(cmd.Context(), data)
			if err != nil {
				return err
			}

			if output.IsJSON() {
				if err := output.JSON(struct {
					strategy.ValidationResult
					Pattern strategy.Pattern `json:"pattern"`
				}{res, strategy.DetectPattern(data.Legs)}); err != nil {
					return err
				}
			} else {
				printStrategy(output, data)
				output.Println()
				printResult(output, res)
			}

			if !res.IsValid {
				return errors.NewStrategyValidationError(res.Errors, res.Warnings)
			}
			return nil
		},
	}
}

func newTransformCmd(app *App) *cobra.Command {
	var (
		index      string
		expiry     string
		basketID   string
		noValidate bool
	)

	cmd := &cobra.Command{
		Use:   "transform <strategy.json>",
		Short: "Convert a strategy into the backend schema",
		Long: `Convert a strategy in form shape into the JSON the backend stores.

The strategy is validated first unless --no-validate is given. The product
type check always applies.`,
		Example: `  strategyctl transform strategy.json --index BANKNIFTY --expiry monthly`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			data, err := readForm(cmd, args[0])
			if err != nil {
				return err
			}
			index, expiryType := app.target(data, index, expiry)

			var payload *models.BackendStrategy
			if noValidate {
				if basketID != "" {
					data.BasketID = basketID
				}
				payload, err = app.Transformer.ToBackend(data, index, expiryType)
			} else {
				payload, err = app.Transformer.CreateAPIPayload(basketID, data, index, expiryType)
			}
			if err != nil {
				return err
			}
			return output.JSON(payload)
		},
	}

	cmd.Flags().StringVar(&index, "index", "", "underlying (default: the strategy's index, then [defaults] index)")
	cmd.Flags().StringVar(&expiry, "expiry", "", "expiry type: weekly or monthly")
	cmd.Flags().StringVar(&basketID, "basket", "", "basket ID to store the strategy under")
	cmd.Flags().BoolVar(&noValidate, "no-validate", false, "skip validation")

	return cmd
}

func newLoadCmd(app *App) *cobra.Command {
	var basketID string

	cmd := &cobra.Command{
		Use:   "load <backend.json>",
		Short: "Convert a stored strategy back into form shape",
		Long: `Convert a strategy in backend schema into the form shape the editor uses.

Missing or malformed values fall back to defaults, so the result can always
be opened for editing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			raw, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			var b models.BackendStrategy
			if err := json.Unmarshal(raw, &b); err != nil {
				return errors.Wrapf(errors.ErrInputValidation, "decoding %s: %v", args[0], err)
			}

			return output.JSON(app.Transformer.ToFrontend(&b, basketID))
		},
	}

	cmd.Flags().StringVar(&basketID, "basket", "", "basket ID for the loaded strategy")

	return cmd
}

// target resolves the index and expiry a strategy is sent with: flag first,
// then the strategy itself, then the configured default.
func (a *App) target(data *models.StrategyFormData, index, expiry string) (string, models.ExpiryType) {
	if index == "" {
		index = data.Index
	}
	if index == "" {
		index = a.Config.Defaults.Index
	}
	expiryType := models.ExpiryType(expiry)
	if expiryType == "" {
		expiryType = data.Config.ExpiryType
	}
	if expiryType == "" {
		expiryType = models.ExpiryType(a.Config.Defaults.ExpiryType)
	}
	return index, expiryType
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading strategy: %w", err)
	}
	return raw, nil
}

func readForm(cmd *cobra.Command, path string) (*models.StrategyFormData, error) {
	raw, err := readInput(cmd, path)
	if err != nil {
		return nil, err
	}
	var data models.StrategyFormData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, errors.Wrapf(errors.ErrInputValidation, "decoding %s: %v", path, err)
	}
	return &data, nil
}

func printStrategy(output *Output, data *models.StrategyFormData) {
	cfg := data.Config

	output.Bold("%s", displayName(data.StrategyName))
	output.Printf("  Index:    %s (%s expiry)\n", orDash(data.Index), orDash(string(cfg.ExpiryType)))
	output.Printf("  Pattern:  %s\n", strategy.DetectPattern(data.Legs))
	output.Printf("  Window:   %s:%s - %s:%s\n", cfg.EntryTimeHour, cfg.EntryTimeMinute, cfg.ExitTimeHour, cfg.ExitTimeMinute)

	switch cfg.TradingType {
	case models.TradingPositional:
		output.Printf("  Trading:  %s (enter %d, exit %d days before expiry), %s\n",
			cfg.TradingType, cfg.EntryTradingDaysBeforeExpiry, cfg.ExitTradingDaysBeforeExpiry, cfg.ProductType)
	default:
		output.Printf("  Trading:  %s %s, %s\n", cfg.TradingType, cfg.IntradayExitMode, cfg.ProductType)
	}
	output.Printf("  MTM:      target %s, stop %s\n", FormatMTM(cfg.TargetProfit), FormatMTM(cfg.MTMStopLoss))
	output.Println()

	table := NewTable(output, "#", "Option", "Action", "Lots", "Strike", "Risk")
	for i, leg := range data.Legs {
		table.AddRow(
			fmt.Sprintf("%d", i+1),
			string(leg.OptionType),
			output.Action(string(leg.ActionType)),
			FormatQuantity(leg.TotalLots),
			FormatSelection(leg.Selection),
			FormatLegRisk(leg),
		)
	}
	table.Render()
}

func printResult(output *Output, res strategy.ValidationResult) {
	for _, e := range res.Errors {
		output.Error("✗ %s", e)
	}
	for _, w := range res.Warnings {
		output.Warning("! %s", w)
	}
	if res.IsValid {
		output.Success("✓ Strategy is valid (%d warnings)", len(res.Warnings))
	} else {
		output.Error("Strategy has %d errors and %d warnings", len(res.Errors), len(res.Warnings))
	}
}

func displayName(name string) string {
	if name == "" {
		return "(unnamed strategy)"
	}
	return TruncateString(name, 60)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
