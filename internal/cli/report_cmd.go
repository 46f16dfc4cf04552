package cli

import (
	"fmt"

	"github.com/finboard/finboard/internal/cli/formatter"
	"github.com/finboard/finboard/pkg/report"
	"github.com/spf13/cobra"
)

type reportFlags struct {
	from  string
	to    string
	save  bool
	sheet string
}

func newReportCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate reports over the API data",
	}

	cmd.AddCommand(
		newReportKindCmd(a, "budget", report.KindBudgetExecution, "Budget against actual income and expense"),
		newReportKindCmd(a, "income-expense", report.KindIncomeExpense, "Income and expense per day and month"),
		newReportKindCmd(a, "wallets", report.KindWalletBalances, "Current balance of every wallet"),
		newReportKindCmd(a, "categories", report.KindCategories, "Expense per category"),
	)

	return cmd
}

func newReportKindCmd(a *App, use string, kind report.Kind, short string) *cobra.Command {
	var flags reportFlags

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			var rng report.Range
			if kind != report.KindWalletBalances {
				parsed, err := report.ParseRange(flags.from, flags.to)
				if err != nil {
					return err
				}
				rng = parsed
			}

			generated, err := a.deps.ReportService.Generate(cmd.Context(), report.Request{Kind: kind, Range: rng, Save: flags.save})
			if err != nil {
				return err
			}

			table := generated.Table()
			if flags.sheet != "" {
				publisher, err := a.deps.SheetsPublisher(cmd.Context())
				if err != nil {
					return err
				}
				rows := append([][]string{table.Header}, table.Rows...)
				if err := publisher.Publish(cmd.Context(), flags.sheet, rows); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Published %d rows to sheet %q\n", len(table.Rows), flags.sheet)
			}

			return a.print(cmd, formatter.Result{
				Header: table.Header,
				Rows:   table.Rows,
				Value:  generated,
				Empty:  "Nothing to report for this period.",
			})
		},
	}

	if kind != report.KindWalletBalances {
		cmd.Flags().StringVar(&flags.from, "from", "", "Start of the period, YYYY-MM-DD or RFC3339")
		cmd.Flags().StringVar(&flags.to, "to", "", "End of the period, inclusive")
		_ = cmd.MarkFlagRequired("from")
		_ = cmd.MarkFlagRequired("to")
	}
	cmd.Flags().BoolVar(&flags.save, "save", false, "Keep the report as a snapshot")
	cmd.Flags().StringVar(&flags.sheet, "sheet", "", "Also publish the rows to this spreadsheet tab")

	return cmd
}
