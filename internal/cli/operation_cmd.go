package cli

import (
	"context"
	"strconv"
	"time"

	"github.com/finboard/finboard/internal/cli/formatter"
	"github.com/finboard/finboard/pkg/autopayment"
	"github.com/finboard/finboard/pkg/budget"
	"github.com/finboard/finboard/pkg/cashflow"
	"github.com/finboard/finboard/pkg/expenditure"
	"github.com/finboard/finboard/pkg/project"
	"github.com/finboard/finboard/pkg/receipt"
	"github.com/finboard/finboard/pkg/transfer"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// names resolves wallet and category ids for display. Lookup failures leave the ids as they are.
type names struct {
	wallets    map[string]string
	categories map[string]string
}

func (a *App) lookupNames(ctx context.Context) names {
	n := names{wallets: map[string]string{}, categories: map[string]string{}}
	if wallets, err := a.deps.WalletService.List(ctx); err != nil {
		log.Debugf("unable to resolve wallet names: %v", err)
	} else {
		for _, w := range wallets {
			n.wallets[w.Id] = w.Name
		}
	}
	if items, err := a.deps.CashflowService.List(ctx); err != nil {
		log.Debugf("unable to resolve category names: %v", err)
	} else {
		n.categories = cashflow.Names(items)
	}
	return n
}

func (n names) wallet(id string) string {
	return nameOr(n.wallets, id)
}

func (n names) category(id string) string {
	return nameOr(n.categories, id)
}

func nameOr(lookup map[string]string, id string) string {
	if name, ok := lookup[id]; ok && name != "" {
		return name
	}
	return id
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func newReceiptCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{Use: "receipts", Short: "Income operations"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List receipts",
		RunE: func(cmd *cobra.Command, args []string) error {
			receipts, err := a.deps.ReceiptService.List(cmd.Context())
			if err != nil {
				return err
			}
			n := a.lookupNames(cmd.Context())
			dtos := make([]receipt.ReceiptDTO, 0, len(receipts))
			rows := make([][]string, 0, len(receipts))
			for _, r := range receipts {
				dtos = append(dtos, receipt.ReceiptToDTO(r))
				rows = append(rows, []string{r.Id, formatDate(r.Date), r.Number, formatter.Amount(r.Amount), n.wallet(r.Wallet), n.category(r.CashFlowItem), r.Comment})
			}
			return a.print(cmd, formatter.Result{
				Header: []string{"Id", "Date", "Number", "Amount", "Wallet", "Category", "Comment"},
				Rows:   rows,
				Value:  dtos,
				Empty:  "No receipts found.",
			})
		},
	})
	return cmd
}

func newExpenditureCmd(a *App) *cobra.Command {
	var budgetOnly bool

	list := &cobra.Command{
		Use:   "list",
		Short: "List expenditures",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter expenditure.Filter
			if budgetOnly {
				filter.IncludeInBudget = &budgetOnly
			}
			expenditures, err := a.deps.ExpenditureService.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			n := a.lookupNames(cmd.Context())
			dtos := make([]expenditure.ExpenditureDTO, 0, len(expenditures))
			rows := make([][]string, 0, len(expenditures))
			for _, e := range expenditures {
				dtos = append(dtos, expenditure.ExpenditureToDTO(e))
				rows = append(rows, []string{e.Id, formatDate(e.Date), e.Number, formatter.Amount(e.Amount), n.wallet(e.Wallet), n.category(e.CashFlowItem), strconv.FormatBool(e.IncludeInBudget), e.Comment})
			}
			return a.print(cmd, formatter.Result{
				Header: []string{"Id", "Date", "Number", "Amount", "Wallet", "Category", "In budget", "Comment"},
				Rows:   rows,
				Value:  dtos,
				Empty:  "No expenditures found.",
			})
		},
	}
	list.Flags().BoolVar(&budgetOnly, "budget-only", false, "Only expenditures counted in budgets")

	cmd := &cobra.Command{Use: "expenditures", Short: "Expense operations"}
	cmd.AddCommand(list)
	return cmd
}

func newTransferCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{Use: "transfers", Short: "Transfers between wallets"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List transfers",
		RunE: func(cmd *cobra.Command, args []string) error {
			transfers, err := a.deps.TransferService.List(cmd.Context())
			if err != nil {
				return err
			}
			n := a.lookupNames(cmd.Context())
			dtos := make([]transfer.TransferDTO, 0, len(transfers))
			rows := make([][]string, 0, len(transfers))
			for _, t := range transfers {
				dtos = append(dtos, transfer.TransferToDTO(t))
				rows = append(rows, []string{t.Id, formatDate(t.Date), t.Number, formatter.Amount(t.Amount), n.wallet(t.WalletFrom), n.wallet(t.WalletTo), t.Comment})
			}
			return a.print(cmd, formatter.Result{
				Header: []string{"Id", "Date", "Number", "Amount", "From", "To", "Comment"},
				Rows:   rows,
				Value:  dtos,
				Empty:  "No transfers found.",
			})
		},
	})
	return cmd
}

func newBudgetCmd(a *App) *cobra.Command {
	var budgetType string

	list := &cobra.Command{
		Use:   "list",
		Short: "List budgets",
		RunE: func(cmd *cobra.Command, args []string) error {
			var t budget.BudgetType
			if budgetType != "" {
				parsed, err := budget.ParseBudgetType(budgetType)
				if err != nil {
					return err
				}
				t = parsed
			}
			budgets, err := a.deps.BudgetService.GetAll(cmd.Context(), t)
			if err != nil {
				return err
			}
			n := a.lookupNames(cmd.Context())
			dtos := make([]budget.BudgetDTO, 0, len(budgets))
			rows := make([][]string, 0, len(budgets))
			for _, b := range budgets {
				dtos = append(dtos, budget.BudgetToDTO(b))
				rows = append(rows, []string{b.Id, formatDate(b.Date), string(b.Type), formatter.Amount(b.Amount), n.category(b.CashFlowItem), b.Comment})
			}
			return a.print(cmd, formatter.Result{
				Header: []string{"Id", "Date", "Type", "Amount", "Category", "Comment"},
				Rows:   rows,
				Value:  dtos,
				Empty:  "No budgets found.",
			})
		},
	}
	list.Flags().StringVar(&budgetType, "type", "", "Only budgets of this type: income or expense")

	cmd := &cobra.Command{Use: "budgets", Short: "Planned income and expense"}
	cmd.AddCommand(list)
	return cmd
}

func newAutoPaymentCmd(a *App) *cobra.Command {
	var transfers bool

	list := &cobra.Command{
		Use:   "list",
		Short: "List scheduled payments",
		RunE: func(cmd *cobra.Command, args []string) error {
			var filter autopayment.Filter
			if cmd.Flags().Changed("transfers") {
				filter.IsTransfer = &transfers
			}
			payments, err := a.deps.AutoPaymentService.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			n := a.lookupNames(cmd.Context())
			dtos := make([]autopayment.AutoPaymentDTO, 0, len(payments))
			rows := make([][]string, 0, len(payments))
			for _, p := range payments {
				dtos = append(dtos, autopayment.AutoPaymentToDTO(p))
				rows = append(rows, []string{
					p.Id, formatDate(p.NextDate), strconv.Itoa(p.PeriodDays), formatter.Amount(p.Amount),
					n.wallet(p.WalletFrom), n.wallet(p.WalletTo), n.category(p.CashFlowItem), strconv.FormatBool(p.IsTransfer),
				})
			}
			return a.print(cmd, formatter.Result{
				Header: []string{"Id", "Next date", "Every (days)", "Amount", "From", "To", "Category", "Transfer"},
				Rows:   rows,
				Value:  dtos,
				Empty:  "No auto-payments found.",
			})
		},
	}
	list.Flags().BoolVar(&transfers, "transfers", false, "Only transfers (or, with =false, only payments)")

	cmd := &cobra.Command{Use: "autopayments", Short: "Scheduled payments and transfers"}
	cmd.AddCommand(list)
	return cmd
}

func newProjectCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{Use: "projects", Short: "Projects operations can be attached to"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			projects, err := a.deps.ProjectService.List(cmd.Context())
			if err != nil {
				return err
			}
			dtos := make([]project.ProjectDTO, 0, len(projects))
			rows := make([][]string, 0, len(projects))
			for _, p := range projects {
				dtos = append(dtos, project.ProjectToDTO(p))
				rows = append(rows, []string{p.Id, p.Name, deref(p.Code)})
			}
			return a.print(cmd, formatter.Result{
				Header: []string{"Id", "Name", "Code"},
				Rows:   rows,
				Value:  dtos,
				Empty:  "No projects found.",
			})
		},
	})
	return cmd
}
