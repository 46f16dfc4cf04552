package report

import (
	"testing"
	"time"

	"github.com/finboard/finboard/pkg/api"
	"github.com/finboard/finboard/pkg/budget"
	"github.com/finboard/finboard/pkg/expenditure"
	"github.com/finboard/finboard/pkg/receipt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := api.ParseDateTime(s)
	require.NoError(t, err)
	return parsed
}

func january(t *testing.T) Range {
	t.Helper()
	rng, err := ParseRange("2024-01-01", "2024-01-31")
	require.NoError(t, err)
	return rng
}

func budgetOf(t *testing.T, budgetType budget.BudgetType, category string, amount float64, on string) budget.Budget {
	return budget.Budget{
		Document:     api.Document{Id: category + "-" + on, Date: date(t, on)},
		Type:         budgetType,
		Amount:       amount,
		CashFlowItem: category,
	}
}

func receiptOf(t *testing.T, category string, amount float64, on string) receipt.Receipt {
	return receipt.Receipt{
		Document:     api.Document{Date: date(t, on)},
		Amount:       amount,
		CashFlowItem: category,
	}
}

func expenditureOf(t *testing.T, category string, amount float64, inBudget bool, on string) expenditure.Expenditure {
	return expenditure.Expenditure{
		Document:        api.Document{Date: date(t, on)},
		Amount:          amount,
		IncludeInBudget: inBudget,
		CashFlowItem:    category,
	}
}

func TestBudgetExecution(t *testing.T) {
	names := map[string]string{"C1": "Groceries", "C2": "Salary", "C3": "Rent"}

	t.Run("should reach 100 percent when actual receipts match the budget", func(t *testing.T) {
		// given
		budgets := []budget.Budget{budgetOf(t, budget.BudgetTypeIncome, "C2", 1000, "2024-01-05")}
		receipts := []receipt.Receipt{
			receiptOf(t, "C2", 600, "2024-01-10"),
			receiptOf(t, "C2", 400, "2024-01-20"),
		}

		// when
		result := BudgetExecution(budgets, receipts, nil, names, january(t))

		// then
		require.Len(t, result.Items, 1)
		item := result.Items[0]
		assert.Equal(t, "Salary", item.Name)
		assert.Equal(t, budget.BudgetTypeIncome, item.Type)
		assert.InDelta(t, 100, item.ExecutionPercent, 1e-9)
		assert.InDelta(t, 0, item.Difference, 1e-9)
		assert.InDelta(t, 1000, result.IncomeTotal, 1e-9)
		assert.InDelta(t, 1000, result.IncomeActualTotal, 1e-9)
	})

	t.Run("should report 100 percent for receipts without a budget", func(t *testing.T) {
		// given
		receipts := []receipt.Receipt{receiptOf(t, "C2", 250, "2024-01-10")}

		// when
		result := BudgetExecution(nil, receipts, nil, names, january(t))

		// then
		require.Len(t, result.Items, 1)
		assert.Equal(t, 0.0, result.Items[0].BudgetAmount)
		assert.Equal(t, 100.0, result.Items[0].ExecutionPercent)
		assert.Equal(t, 250.0, result.Items[0].Difference)
	})

	t.Run("should fold budget relevant expenditures into the expense bucket", func(t *testing.T) {
		// given
		budgets := []budget.Budget{budgetOf(t, budget.BudgetTypeExpense, "C1", 500, "2024-01-10")}
		expenditures := []expenditure.Expenditure{expenditureOf(t, "C1", 300, true, "2024-01-15")}

		// when
		result := BudgetExecution(budgets, nil, expenditures, names, january(t))

		// then
		require.Len(t, result.Items, 1)
		assert.Equal(t, BudgetItem{
			Id:               "C1",
			Name:             "Groceries",
			Type:             budget.BudgetTypeExpense,
			BudgetAmount:     500,
			ActualAmount:     300,
			Difference:       200,
			ExecutionPercent: 60,
		}, result.Items[0])
		assert.Equal(t, 500.0, result.ExpenseTotal)
		assert.Equal(t, 300.0, result.ExpenseActualTotal)
	})

	t.Run("should ignore expenditures outside the range", func(t *testing.T) {
		// given
		budgets := []budget.Budget{budgetOf(t, budget.BudgetTypeExpense, "C1", 500, "2024-01-10")}
		expenditures := []expenditure.Expenditure{expenditureOf(t, "C1", 300, true, "2024-02-01")}

		// when
		result := BudgetExecution(budgets, nil, expenditures, names, january(t))

		// then
		require.Len(t, result.Items, 1)
		assert.Equal(t, 500.0, result.Items[0].BudgetAmount)
		assert.Equal(t, 0.0, result.Items[0].ActualAmount)
		assert.Equal(t, 0.0, result.Items[0].ExecutionPercent)
		assert.Equal(t, 0.0, result.ExpenseActualTotal)
	})

	t.Run("should ignore expenditures not marked as budget relevant", func(t *testing.T) {
		expenditures := []expenditure.Expenditure{expenditureOf(t, "C1", 300, false, "2024-01-15")}

		result := BudgetExecution(nil, nil, expenditures, names, january(t))

		assert.Empty(t, result.Items)
	})

	t.Run("should include records on both range bounds", func(t *testing.T) {
		// given
		receipts := []receipt.Receipt{
			receiptOf(t, "C2", 10, "2024-01-01T00:00:00Z"),
			receiptOf(t, "C2", 20, "2024-01-31T23:59:59Z"),
		}

		// when
		result := BudgetExecution(nil, receipts, nil, names, january(t))

		// then
		assert.Equal(t, 30.0, result.IncomeActualTotal)
	})

	t.Run("should list income before expense, sorted by execution then name", func(t *testing.T) {
		// given
		budgets := []budget.Budget{
			budgetOf(t, budget.BudgetTypeExpense, "C3", 100, "2024-01-02"),
			budgetOf(t, budget.BudgetTypeExpense, "C1", 100, "2024-01-02"),
			budgetOf(t, budget.BudgetTypeIncome, "C2", 100, "2024-01-02"),
		}
		expenditures := []expenditure.Expenditure{
			expenditureOf(t, "C3", 50, true, "2024-01-03"),
			expenditureOf(t, "C1", 50, true, "2024-01-03"),
		}
		receipts := []receipt.Receipt{receiptOf(t, "C2", 10, "2024-01-03")}

		// when
		result := BudgetExecution(budgets, receipts, expenditures, names, january(t))

		// then
		var order []string
		for _, item := range result.Items {
			order = append(order, string(item.Type)+":"+item.Name)
		}
		assert.Equal(t, []string{"income:Salary", "expense:Groceries", "expense:Rent"}, order)
	})

	t.Run("should use a placeholder for unknown categories", func(t *testing.T) {
		receipts := []receipt.Receipt{receiptOf(t, "missing", 10, "2024-01-03")}

		result := BudgetExecution(nil, receipts, nil, names, january(t))

		require.Len(t, result.Items, 1)
		assert.Equal(t, UnknownCategory, result.Items[0].Name)
	})

	t.Run("should sum duplicate budgets of one category into a single bucket", func(t *testing.T) {
		// given
		budgets := []budget.Budget{
			budgetOf(t, budget.BudgetTypeExpense, "C1", 200, "2024-01-02"),
			budgetOf(t, budget.BudgetTypeExpense, "C1", 300, "2024-01-20"),
		}
		expenditures := []expenditure.Expenditure{expenditureOf(t, "C1", 250, true, "2024-01-15")}

		// when
		result := BudgetExecution(budgets, nil, expenditures, names, january(t))

		// then
		require.Len(t, result.Items, 1)
		item := result.Items[0]
		assert.Equal(t, "C1", item.Id)
		assert.InDelta(t, 500, item.BudgetAmount, 1e-9)
		assert.InDelta(t, 250, item.Difference, 1e-9)
		assert.InDelta(t, 50, item.ExecutionPercent, 1e-9)
		assert.InDelta(t, result.ExpenseTotal, item.BudgetAmount, 1e-9)
	})

	t.Run("should skip budgets with an unknown type", func(t *testing.T) {
		budgets := []budget.Budget{budgetOf(t, "transfer", "C1", 100, "2024-01-02")}

		result := BudgetExecution(budgets, nil, nil, names, january(t))

		assert.Empty(t, result.Items)
		assert.Equal(t, 0.0, result.ExpenseTotal)
	})

	t.Run("should not modify its inputs", func(t *testing.T) {
		// given
		budgets := []budget.Budget{
			budgetOf(t, budget.BudgetTypeExpense, "C3", 100, "2024-01-02"),
			budgetOf(t, budget.BudgetTypeExpense, "C1", 200, "2024-01-02"),
		}
		snapshot := append([]budget.Budget(nil), budgets...)

		// when
		first := BudgetExecution(budgets, nil, nil, names, january(t))
		second := BudgetExecution(budgets, nil, nil, names, january(t))

		// then
		assert.Equal(t, snapshot, budgets)
		assert.Equal(t, first, second)
	})

	t.Run("should produce empty items for empty inputs", func(t *testing.T) {
		result := BudgetExecution(nil, nil, nil, nil, january(t))

		assert.NotNil(t, result.Items)
		assert.Empty(t, result.Items)
	})
}
