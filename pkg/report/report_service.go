package report

import (
	"context"
	"fmt"
	"sync"

	"github.com/finboard/finboard/internal/event_bus"
	"github.com/finboard/finboard/pkg/budget"
	"github.com/finboard/finboard/pkg/cashflow"
	"github.com/finboard/finboard/pkg/expenditure"
	"github.com/finboard/finboard/pkg/receipt"
	"github.com/finboard/finboard/pkg/wallet"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type BudgetReader interface {
	GetAll(ctx context.Context, budgetType budget.BudgetType) ([]budget.Budget, error)
}

type ReceiptReader interface {
	List(ctx context.Context) ([]receipt.Receipt, error)
}

type ExpenditureReader interface {
	List(ctx context.Context, filter expenditure.Filter) ([]expenditure.Expenditure, error)
}

type CategoryReader interface {
	List(ctx context.Context) ([]cashflow.Item, error)
}

type WalletReader interface {
	List(ctx context.Context) ([]wallet.Wallet, error)
	Balance(ctx context.Context, id string) (wallet.Balance, error)
}

type Request struct {
	Kind  Kind
	Range Range
	// Save asks for the generated report to be kept as a snapshot.
	Save bool
}

type ReportService interface {
	Generate(ctx context.Context, request Request) (Report, error)
}

type ReportServiceImpl struct {
	budgets      BudgetReader
	receipts     ReceiptReader
	expenditures ExpenditureReader
	categories   CategoryReader
	wallets      WalletReader
	bus          *event_bus.EventBus
	concurrency  int
}

func NewReportServiceImpl(
	budgets BudgetReader,
	receipts ReceiptReader,
	expenditures ExpenditureReader,
	categories CategoryReader,
	wallets WalletReader,
	bus *event_bus.EventBus,
	concurrency int,
) *ReportServiceImpl {
	if concurrency < 1 {
		concurrency = 1
	}
	return &ReportServiceImpl{
		budgets:      budgets,
		receipts:     receipts,
		expenditures: expenditures,
		categories:   categories,
		wallets:      wallets,
		bus:          bus,
		concurrency:  concurrency,
	}
}

func (s *ReportServiceImpl) Generate(ctx context.Context, request Request) (Report, error) {
	var (
		report Report
		err    error
	)
	switch request.Kind {
	case KindBudgetExecution:
		report, err = s.budgetExecution(ctx, request.Range)
	case KindIncomeExpense:
		report, err = s.incomeExpense(ctx, request.Range)
	case KindWalletBalances:
		report, err = s.walletBalances(ctx)
	case KindCategories:
		report, err = s.categoryReport(ctx, request.Range)
	default:
		_, err = ParseKind(string(request.Kind))
	}
	if err != nil {
		log.Errorf("failed to generate %s report: %v", request.Kind, err)
		return nil, err
	}

	s.publish(ctx, report, request.Save)
	return report, nil
}

func (s *ReportServiceImpl) budgetExecution(ctx context.Context, rng Range) (Report, error) {
	var (
		budgets      []budget.Budget
		receipts     []receipt.Receipt
		expenditures []expenditure.Expenditure
		items        []cashflow.Item
	)
	g, gctx := s.group(ctx)
	g.Go(func() (err error) {
		budgets, err = s.budgets.GetAll(gctx, "")
		return wrapFetch("budgets", err)
	})
	g.Go(func() (err error) {
		receipts, err = s.receipts.List(gctx)
		return wrapFetch("receipts", err)
	})
	g.Go(func() (err error) {
		includeInBudget := true
		expenditures, err = s.expenditures.List(gctx, expenditure.Filter{IncludeInBudget: &includeInBudget})
		return wrapFetch("expenditures", err)
	})
	g.Go(func() (err error) {
		items, err = s.categories.List(gctx)
		return wrapFetch("categories", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return BudgetExecution(budgets, receipts, expenditures, cashflow.Names(items), rng), nil
}

func (s *ReportServiceImpl) incomeExpense(ctx context.Context, rng Range) (Report, error) {
	var (
		receipts     []receipt.Receipt
		expenditures []expenditure.Expenditure
	)
	g, gctx := s.group(ctx)
	g.Go(func() (err error) {
		receipts, err = s.receipts.List(gctx)
		return wrapFetch("receipts", err)
	})
	g.Go(func() (err error) {
		expenditures, err = s.expenditures.List(gctx, expenditure.Filter{})
		return wrapFetch("expenditures", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return IncomeExpense(receipts, expenditures, rng), nil
}

func (s *ReportServiceImpl) categoryReport(ctx context.Context, rng Range) (Report, error) {
	var (
		items        []cashflow.Item
		expenditures []expenditure.Expenditure
	)
	g, gctx := s.group(ctx)
	g.Go(func() (err error) {
		items, err = s.categories.List(gctx)
		return wrapFetch("categories", err)
	})
	g.Go(func() (err error) {
		expenditures, err = s.expenditures.List(gctx, expenditure.Filter{})
		return wrapFetch("expenditures", err)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return Categories(items, expenditures, rng), nil
}

// walletBalances fails only when the wallet list cannot be read. A wallet whose balance
// cannot be fetched is left out of the report.
func (s *ReportServiceImpl) walletBalances(ctx context.Context) (Report, error) {
	wallets, err := s.wallets.List(ctx)
	if err != nil {
		return nil, wrapFetch("wallets", err)
	}

	var mu sync.Mutex
	balances := make(map[string]float64, len(wallets))
	g, gctx := s.group(ctx)
	for _, w := range wallets {
		g.Go(func() error {
			balance, err := s.wallets.Balance(gctx, w.Id)
			if err != nil {
				log.Warnf("skipping wallet %s (%s): %v", w.Id, w.Name, err)
				return nil
			}
			mu.Lock()
			balances[w.Id] = balance.Balance
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return WalletBalances(wallets, balances), nil
}

func (s *ReportServiceImpl) group(ctx context.Context) (*errgroup.Group, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	return g, gctx
}

func (s *ReportServiceImpl) publish(ctx context.Context, report Report, save bool) {
	if s.bus == nil {
		return
	}
	period := report.Period()
	err := s.bus.Publish(event_bus.NewEvent(ctx, event_bus.ReportGeneratedType, event_bus.ReportGenerated{
		Kind:    string(report.Kind()),
		From:    period.From,
		To:      period.To,
		Totals:  report.Totals(),
		Payload: report,
		Save:    save,
	}))
	if err != nil {
		log.Warnf("failed to publish %s report event: %v", report.Kind(), err)
	}
}

func wrapFetch(what string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("failed to fetch %s: %w", what, err)
}
