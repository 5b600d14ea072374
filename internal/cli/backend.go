package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"strategy-builder/internal/errors"
	"strategy-builder/internal/models"
	"strategy-builder/internal/strategy"
)

func addBackendCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newPushCmd(app))
	rootCmd.AddCommand(newFetchCmd(app))
	rootCmd.AddCommand(newDeleteCmd(app))
}

func newPushCmd(app *App) *cobra.Command {
	var (
		index    string
		expiry   string
		basketID string
		id       string
	)

	cmd := &cobra.Command{
		Use:   "push <strategy.json>",
		Short: "Validate a strategy and store it on the backend",
		Long: `Validate a strategy, convert it into the backend schema and store it.

Without --id a new strategy is created. With --id the stored strategy is
replaced. Nothing is sent when validation fails.`,
		Example: `  strategyctl push iron-condor.json --basket b-42
  strategyctl push iron-condor.json --basket b-42 --id 1f0c9e`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			data, err := readForm(cmd, args[0])
			if err != nil {
				return err
			}
			if basketID == "" {
				basketID = data.BasketID
			}
			if basketID == "" {
				return errors.NewValidationError("basket", basketID, "--basket is required")
			}
			index, expiryType := app.target(data, index, expiry)

			var saved *models.BackendStrategy
			if id != "" {
				saved, err = app.Client().UpdateStrategy(cmd.Context(), id, basketID, data, index, expiryType)
			} else {
				saved, err = app.Client().CreateStrategy(cmd.Context(), basketID, data, index, expiryType)
			}
			if err != nil {
				var verr *errors.StrategyValidationError
				if errors.As(err, &verr) && !output.IsJSON() {
					printResult(output, strategy.ValidationResult{
						IsValid:  false,
						Errors:   verr.Errors,
						Warnings: verr.Warnings,
					})
				}
				return err
			}

			if output.IsJSON() {
				return output.JSON(saved)
			}
			verb := "Created"
			if id != "" {
				verb = "Updated"
			}
			output.Success("✓ %s strategy %s in basket %s", verb, orDash(saved.ID), basketID)
			return nil
		},
	}

	cmd.Flags().StringVar(&index, "index", "", "underlying (default: the strategy's index, then [defaults] index)")
	cmd.Flags().StringVar(&expiry, "expiry", "", "expiry type: weekly or monthly")
	cmd.Flags().StringVar(&basketID, "basket", "", "basket ID (default: the strategy's basket_id)")
	cmd.Flags().StringVar(&id, "id", "", "replace the stored strategy with this ID")

	return cmd
}

func newFetchCmd(app *App) *cobra.Command {
	var basketID string

	cmd := &cobra.Command{
		Use:   "fetch [id]",
		Short: "Fetch stored strategies in form shape",
		Long: `Fetch one strategy by ID, or every strategy of a basket with --basket and
no ID. Results are converted into the form shape the editor uses.`,
		Example: `  strategyctl fetch 1f0c9e
  strategyctl fetch --basket b-42`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			if len(args) == 1 {
				data, err := app.Client().GetStrategy(cmd.Context(), args[0], basketID)
				if err != nil {
					return err
				}
				if output.IsJSON() {
					return output.JSON(data)
				}
				printStrategy(output, data)
				return nil
			}

			if basketID == "" {
				return fmt.Errorf("give a strategy ID or --basket")
			}
			list, err := app.Client().ListStrategies(cmd.Context(), basketID)
			if err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(list)
			}

			if len(list) == 0 {
				output.Dim("No strategies in basket %s", basketID)
				return nil
			}
			table := NewTable(output, "Name", "Index", "Legs", "Pattern", "Trading")
			for _, data := range list {
				table.AddRow(
					displayName(data.StrategyName),
					orDash(data.Index),
					fmt.Sprintf("%d", len(data.Legs)),
					string(strategy.DetectPattern(data.Legs)),
					string(data.Config.TradingType),
				)
			}
			table.Render()
			return nil
		},
	}

	cmd.Flags().StringVar(&basketID, "basket", "", "basket ID")

	return cmd
}

func newDeleteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a stored strategy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Client().DeleteStrategy(cmd.Context(), args[0]); err != nil {
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]string{"deleted": args[0]})
			}
			output.Success("✓ Deleted strategy %s", args[0])
			return nil
		},
	}
}
