// Package cli provides the command-line interface for the strategy builder.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"strategy-builder/internal/api"
	"strategy-builder/internal/config"
	"strategy-builder/internal/logging"
	"strategy-builder/internal/strategy"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-10-01"
)

// App holds the application dependencies. They are built from the
// configuration once flags are parsed.
type App struct {
	Config      *config.Config
	Logger      zerolog.Logger
	Validator   *strategy.Validator
	Transformer *strategy.Transformer

	client *api.Client
}

// NewRootCmd creates the root command for the CLI. logger is used until the
// configuration has been loaded.
func NewRootCmd(logger zerolog.Logger) *cobra.Command {
	app := &App{Logger: logger}

	rootCmd := &cobra.Command{
		Use:   "strategyctl",
		Short: "Options strategy validation and conversion",
		Long: `strategyctl validates multi-leg index option strategies and converts them
between the editor's form shape and the backend's storage schema.

Strategies are read as JSON files ("-" reads stdin). Commands that talk to
the backend use the [backend] section of the configuration.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd)
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config file (default: ~/.config/strategy-builder/config.toml)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addStrategyCommands(rootCmd, app)
	addStrikeCommands(rootCmd, app)
	addBackendCommands(rootCmd, app)

	return rootCmd
}

func (a *App) init(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("config")

	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load("")
	}
	if err != nil {
		return err
	}
	a.Config = cfg

	lc := cfg.LogConfig()
	lc.Out = cmd.ErrOrStderr()
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		lc.Level = "debug"
	}
	if jsonMode, _ := cmd.Flags().GetBool("json"); jsonMode {
		lc.JSON = true
	}
	a.Logger = logging.NewLoggerWithConfig(lc)
	a.Logger.Debug().Str("config", cfg.Source).Msg("Configuration loaded")

	a.Validator = strategy.NewValidator(cfg.Rules(), a.Logger)
	a.Transformer = strategy.NewTransformer(a.Validator, a.Logger,
		strategy.WithTimeDefaults(cfg.TimeDefaults()))
	return nil
}

// Client returns the backend client, creating it on first use.
func (a *App) Client() *api.Client {
	if a.client == nil {
		b := a.Config.Backend
		a.client = api.NewClient(api.ClientConfig{
			BaseURL:  b.BaseURL,
			Token:    b.Token,
			Timeout:  b.Timeout,
			Retries:  b.Retries,
			CacheTTL: b.CacheTTL,
		}, a.Transformer, a.Logger)
	}
	return a.client
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			}
			output.Printf("strategyctl v%s\n", Version)
			output.Dim("Build date: %s", BuildDate)
			return nil
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and check the strategyctl configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				shown := *app.Config
				shown.Backend.Token = maskToken(shown.Backend.Token)
				return output.JSON(shown)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			path := app.Config.Source
			if path == "" {
				path = config.DefaultConfigPath()
			}
			if output.IsJSON() {
				return output.JSON(map[string]string{"path": path})
			}
			output.Println(path)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]bool{"valid": true})
			}
			output.Success("✓ Configuration is valid")
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	rules := cfg.Rules()

	output.Bold("Validation")
	output.Printf("  Market Hours:    %s - %s\n", rules.MarketOpen, rules.MarketClose)
	output.Printf("  Min Duration:    %d min\n", rules.MinDurationMinutes)
	output.Printf("  Max Legs:        %d\n", rules.MaxLegsWarning)
	output.Printf("  Max Lots/Leg:    %d\n", rules.MaxLotsWarning)
	output.Printf("  Max Premium:     %s\n", FormatIndianCurrency(rules.MaxPremiumWarning))
	output.Println()

	table := NewTable(output, "Index", "Lot Size", "Freeze Qty")
	for _, name := range rules.IndexNames() {
		spec := rules.Indices[name]
		table.AddRow(name, FormatQuantity(spec.LotSize), FormatQuantity(spec.FreezeQuantity))
	}
	table.Render()
	output.Println()

	output.Bold("Defaults")
	output.Printf("  Entry Time:      %s\n", cfg.Defaults.EntryTime)
	output.Printf("  Exit Time:       %s\n", cfg.Defaults.ExitTime)
	output.Printf("  Range Breakout:  %s\n", cfg.Defaults.RangeBreakoutTime)
	output.Printf("  Index:           %s\n", cfg.Defaults.Index)
	output.Printf("  Expiry:          %s\n", cfg.Defaults.ExpiryType)
	output.Println()

	output.Bold("Backend")
	output.Printf("  URL:             %s\n", cfg.Backend.BaseURL)
	output.Printf("  Token:           %s\n", maskToken(cfg.Backend.Token))
	output.Printf("  Timeout:         %s\n", cfg.Backend.Timeout)
	output.Printf("  Retries:         %d\n", cfg.Backend.Retries)
	output.Printf("  Cache TTL:       %s\n", cfg.Backend.CacheTTL)
	output.Println()

	output.Bold("Logging")
	output.Printf("  Level:           %s\n", cfg.Logging.Level)
	output.Printf("  File:            %v\n", cfg.Logging.File)
}

func maskToken(token string) string {
	if token == "" {
		return "(not set)"
	}
	if len(token) <= 4 {
		return "****"
	}
	return "****" + token[len(token)-4:]
}
