package report

import (
	"sort"

	"github.com/finboard/finboard/pkg/budget"
	"github.com/finboard/finboard/pkg/expenditure"
	"github.com/finboard/finboard/pkg/receipt"
	log "github.com/sirupsen/logrus"
)

// BudgetItem is the execution of one category budget over the report range.
type BudgetItem struct {
	Id               string            `json:"id"`
	Name             string            `json:"name"`
	Type             budget.BudgetType `json:"type"`
	BudgetAmount     float64           `json:"budgetAmount"`
	ActualAmount     float64           `json:"actualAmount"`
	Difference       float64           `json:"difference"`
	ExecutionPercent float64           `json:"executionPercent"`
}

type BudgetExecutionReport struct {
	Range              Range        `json:"range"`
	Items              []BudgetItem `json:"items"`
	IncomeTotal        float64      `json:"incomeTotal"`
	ExpenseTotal       float64      `json:"expenseTotal"`
	IncomeActualTotal  float64      `json:"incomeActualTotal"`
	ExpenseActualTotal float64      `json:"expenseActualTotal"`
}

// BudgetExecution folds budgets, receipts and budget-relevant expenditures within rng into one
// bucket per type and category. Income buckets come first, each group sorted by execution
// percent descending and then by name. Inputs are not modified.
func BudgetExecution(
	budgets []budget.Budget,
	receipts []receipt.Receipt,
	expenditures []expenditure.Expenditure,
	names map[string]string,
	rng Range,
) BudgetExecutionReport {
	result := BudgetExecutionReport{Range: rng}
	buckets := make(map[string]*BudgetItem)
	var order []string

	bucket := func(t budget.BudgetType, categoryId string) *BudgetItem {
		key := string(t) + "-" + categoryId
		if item, ok := buckets[key]; ok {
			return item
		}
		name, ok := names[categoryId]
		if !ok || name == "" {
			name = UnknownCategory
		}
		item := &BudgetItem{Id: categoryId, Name: name, Type: t}
		buckets[key] = item
		order = append(order, key)
		return item
	}

	for _, b := range budgets {
		if !rng.Contains(b.Date) {
			continue
		}
		switch b.Type {
		case budget.BudgetTypeIncome:
			result.IncomeTotal += b.Amount
		case budget.BudgetTypeExpense:
			result.ExpenseTotal += b.Amount
		default:
			log.Debugf("budget %s has unknown type %q, skipping", b.Id, b.Type)
			continue
		}
		bucket(b.Type, b.CashFlowItem).BudgetAmount += b.Amount
	}

	for _, r := range receipts {
		if !rng.Contains(r.Date) {
			continue
		}
		bucket(budget.BudgetTypeIncome, r.CashFlowItem).ActualAmount += r.Amount
		result.IncomeActualTotal += r.Amount
	}

	for _, e := range expenditures {
		if !e.IncludeInBudget || !rng.Contains(e.Date) {
			continue
		}
		bucket(budget.BudgetTypeExpense, e.CashFlowItem).ActualAmount += e.Amount
		result.ExpenseActualTotal += e.Amount
	}

	var income, expense []BudgetItem
	for _, key := range order {
		item := *buckets[key]
		if item.Type == budget.BudgetTypeIncome {
			item.Difference = item.ActualAmount - item.BudgetAmount
			item.ExecutionPercent = executionPercent(item)
			income = append(income, item)
		} else {
			item.Difference = item.BudgetAmount - item.ActualAmount
			item.ExecutionPercent = executionPercent(item)
			expense = append(expense, item)
		}
	}
	sortByExecution(income)
	sortByExecution(expense)

	result.Items = make([]BudgetItem, 0, len(income)+len(expense))
	result.Items = append(result.Items, income...)
	result.Items = append(result.Items, expense...)
	return result
}

func executionPercent(item BudgetItem) float64 {
	switch {
	case item.BudgetAmount > 0:
		return item.ActualAmount / item.BudgetAmount * 100
	case item.ActualAmount > 0:
		return 100
	default:
		return 0
	}
}

func sortByExecution(items []BudgetItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].ExecutionPercent != items[j].ExecutionPercent {
			return items[i].ExecutionPercent > items[j].ExecutionPercent
		}
		return items[i].Name < items[j].Name
	})
}

func (r BudgetExecutionReport) Kind() Kind    { return KindBudgetExecution }
func (r BudgetExecutionReport) Period() Range { return r.Range }

func (r BudgetExecutionReport) Totals() map[string]float64 {
	return map[string]float64{
		"incomeTotal":        r.IncomeTotal,
		"expenseTotal":       r.ExpenseTotal,
		"incomeActualTotal":  r.IncomeActualTotal,
		"expenseActualTotal": r.ExpenseActualTotal,
	}
}

func (r BudgetExecutionReport) Table() Table {
	table := Table{Header: []string{"Type", "Category", "Budget", "Actual", "Difference", "Execution %"}}
	for _, item := range r.Items {
		table.Rows = append(table.Rows, []string{
			string(item.Type),
			item.Name,
			formatAmount(item.BudgetAmount),
			formatAmount(item.ActualAmount),
			formatAmount(item.Difference),
			formatPercent(item.ExecutionPercent),
		})
	}
	table.Rows = append(table.Rows,
		[]string{"income", "Total", formatAmount(r.IncomeTotal), formatAmount(r.IncomeActualTotal), formatAmount(r.IncomeActualTotal - r.IncomeTotal), ""},
		[]string{"expense", "Total", formatAmount(r.ExpenseTotal), formatAmount(r.ExpenseActualTotal), formatAmount(r.ExpenseTotal - r.ExpenseActualTotal), ""},
	)
	return table
}
