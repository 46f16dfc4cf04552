package cli

import (
	"fmt"

	"github.com/finboard/finboard/internal/app"
	"github.com/finboard/finboard/internal/cli/formatter"
	"github.com/finboard/finboard/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// App carries what every command needs. Dependencies are built after flag parsing because
// --config and --api change how they are wired.
type App struct {
	LoadConfig    func(path string) (config.Application, error)
	Build         func(cfg config.Application) (*app.Dependencies, error)
	IsInteractive func() bool

	configPath string
	apiURL     string
	output     string

	format formatter.Format
	deps   *app.Dependencies
}

func NewApp() *App {
	return &App{
		LoadConfig:    config.Load,
		Build:         app.Build,
		IsInteractive: func() bool { return false },
	}
}

// NewRootCmd creates the top-level "finboard" command and registers all subcommands.
func NewRootCmd(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "finboard",
		Short:         "Personal finance dashboard client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	addGlobalFlags(root.PersistentFlags(), a)

	root.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newWalletCmd(a),
		newCategoryCmd(a),
		newReceiptCmd(a),
		newExpenditureCmd(a),
		newTransferCmd(a),
		newBudgetCmd(a),
		newAutoPaymentCmd(a),
		newProjectCmd(a),
		newReportCmd(a),
		newSnapshotCmd(a),
		newServeCmd(a),
	)

	return root
}

func addGlobalFlags(flags *pflag.FlagSet, a *App) {
	flags.StringVar(&a.configPath, "config", config.DefaultPath, "Path to the YAML configuration file")
	flags.StringVarP(&a.output, "output", "o", string(formatter.FormatTable), "Output format: table, json, yaml or csv")
	flags.StringVar(&a.apiURL, "api", "", "Override the API base URL")
}

func (a *App) setup() error {
	format, err := formatter.ParseFormat(a.output)
	if err != nil {
		return err
	}
	a.format = format

	if a.deps != nil {
		return nil
	}

	cfg, err := a.LoadConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if a.apiURL != "" {
		cfg.API.BaseURL = a.apiURL
	}

	deps, err := a.Build(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	a.deps = deps
	return nil
}

// Close releases the dependencies built for the command, if any.
func (a *App) Close() error {
	if a.deps == nil {
		return nil
	}
	err := a.deps.Close()
	a.deps = nil
	return err
}

func (a *App) print(cmd *cobra.Command, result formatter.Result) error {
	return formatter.Write(cmd.OutOrStdout(), a.format, result)
}

func (a *App) println(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format+"\n", args...)
}
