package report

import (
	"context"
	"sync"

	"github.com/finboard/finboard/pkg/budget"
	"github.com/finboard/finboard/pkg/cashflow"
	"github.com/finboard/finboard/pkg/expenditure"
	"github.com/finboard/finboard/pkg/receipt"
	"github.com/finboard/finboard/pkg/wallet"
)

type budgetReaderStub struct {
	budgets []budget.Budget
	err     error
}

func (s *budgetReaderStub) GetAll(ctx context.Context, budgetType budget.BudgetType) ([]budget.Budget, error) {
	return s.budgets, s.err
}

func (s *budgetReaderStub) reset() {
	s.budgets = nil
	s.err = nil
}

type receiptReaderStub struct {
	receipts []receipt.Receipt
	err      error
}

func (s *receiptReaderStub) List(ctx context.Context) ([]receipt.Receipt, error) {
	return s.receipts, s.err
}

func (s *receiptReaderStub) reset() {
	s.receipts = nil
	s.err = nil
}

type expenditureReaderStub struct {
	mu           sync.Mutex
	expenditures []expenditure.Expenditure
	filters      []expenditure.Filter
	err          error
}

// List applies the include_in_budget filter the way the API does.
func (s *expenditureReaderStub) List(ctx context.Context, filter expenditure.Filter) ([]expenditure.Expenditure, error) {
	s.mu.Lock()
	s.filters = append(s.filters, filter)
	s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	if filter.IncludeInBudget == nil {
		return s.expenditures, nil
	}
	var result []expenditure.Expenditure
	for _, e := range s.expenditures {
		if e.IncludeInBudget == *filter.IncludeInBudget {
			result = append(result, e)
		}
	}
	return result, nil
}

func (s *expenditureReaderStub) reset() {
	s.expenditures = nil
	s.filters = nil
	s.err = nil
}

type categoryReaderStub struct {
	items []cashflow.Item
	err   error
}

func (s *categoryReaderStub) List(ctx context.Context) ([]cashflow.Item, error) {
	return s.items, s.err
}

func (s *categoryReaderStub) reset() {
	s.items = nil
	s.err = nil
}

type walletReaderStub struct {
	wallets     []wallet.Wallet
	balances    map[string]float64
	balanceErrs map[string]error
	err         error
}

func (s *walletReaderStub) List(ctx context.Context) ([]wallet.Wallet, error) {
	return s.wallets, s.err
}

func (s *walletReaderStub) Balance(ctx context.Context, id string) (wallet.Balance, error) {
	if err := s.balanceErrs[id]; err != nil {
		return wallet.Balance{}, err
	}
	return wallet.Balance{WalletId: id, Balance: s.balances[id]}, nil
}

func (s *walletReaderStub) reset() {
	s.wallets = nil
	s.balances = map[string]float64{}
	s.balanceErrs = map[string]error{}
	s.err = nil
}
