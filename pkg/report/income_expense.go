package report

import (
	"sort"
	"time"

	"github.com/finboard/finboard/pkg/expenditure"
	"github.com/finboard/finboard/pkg/receipt"
)

type Bucket struct {
	Key     string  `json:"key"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
}

type IncomeExpenseReport struct {
	Range        Range    `json:"range"`
	TotalIncome  float64  `json:"totalIncome"`
	TotalExpense float64  `json:"totalExpense"`
	Balance      float64  `json:"balance"`
	Daily        []Bucket `json:"daily"`
	Monthly      []Bucket `json:"monthly"`
}

// IncomeExpense totals receipts against all expenditures in rng, bucketed by UTC day and month.
func IncomeExpense(receipts []receipt.Receipt, expenditures []expenditure.Expenditure, rng Range) IncomeExpenseReport {
	result := IncomeExpenseReport{Range: rng}
	daily := make(map[string]*Bucket)
	monthly := make(map[string]*Bucket)

	add := func(date time.Time, income, expense float64) {
		utc := date.UTC()
		for _, b := range []*Bucket{
			bucketFor(daily, utc.Format("2006-01-02")),
			bucketFor(monthly, utc.Format("2006-01")),
		} {
			b.Income += income
			b.Expense += expense
			b.Balance += income - expense
		}
	}

	for _, r := range receipts {
		if !rng.Contains(r.Date) {
			continue
		}
		result.TotalIncome += r.Amount
		add(r.Date, r.Amount, 0)
	}
	for _, e := range expenditures {
		if !rng.Contains(e.Date) {
			continue
		}
		result.TotalExpense += e.Amount
		add(e.Date, 0, e.Amount)
	}

	result.Balance = result.TotalIncome - result.TotalExpense
	result.Daily = sortedBuckets(daily)
	result.Monthly = sortedBuckets(monthly)
	return result
}

func bucketFor(buckets map[string]*Bucket, key string) *Bucket {
	b, ok := buckets[key]
	if !ok {
		b = &Bucket{Key: key}
		buckets[key] = b
	}
	return b
}

func sortedBuckets(buckets map[string]*Bucket) []Bucket {
	result := make([]Bucket, 0, len(buckets))
	for _, b := range buckets {
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Key < result[j].Key })
	return result
}

func (r IncomeExpenseReport) Kind() Kind    { return KindIncomeExpense }
func (r IncomeExpenseReport) Period() Range { return r.Range }

func (r IncomeExpenseReport) Totals() map[string]float64 {
	return map[string]float64{
		"totalIncome":  r.TotalIncome,
		"totalExpense": r.TotalExpense,
		"balance":      r.Balance,
	}
}

// Table lists the daily buckets followed by the period total.
func (r IncomeExpenseReport) Table() Table {
	table := Table{Header: []string{"Date", "Income", "Expense", "Balance"}}
	for _, b := range r.Daily {
		table.Rows = append(table.Rows, []string{b.Key, formatAmount(b.Income), formatAmount(b.Expense), formatAmount(b.Balance)})
	}
	table.Rows = append(table.Rows, []string{"Total", formatAmount(r.TotalIncome), formatAmount(r.TotalExpense), formatAmount(r.Balance)})
	return table
}
