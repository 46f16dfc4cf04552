package report

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/finboard/finboard/internal/utils"
	"github.com/finboard/finboard/pkg/api"
)

type Kind string

const (
	KindBudgetExecution Kind = "budget-execution"
	KindIncomeExpense   Kind = "income-expense"
	KindWalletBalances  Kind = "wallet-balances"
	KindCategories      Kind = "categories"
)

var Kinds = []Kind{KindBudgetExecution, KindIncomeExpense, KindWalletBalances, KindCategories}

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", api.Invalid("kind", fmt.Sprintf("unknown report %q", s))
}

const UnknownCategory = "Unknown category"

// Range is a period with both ends included.
type Range struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

func (r Range) Contains(t time.Time) bool {
	return !t.Before(r.From) && !t.After(r.To)
}

// ParseRange reads YYYY-MM-DD or RFC3339 bounds. A date-only upper bound covers the whole day.
func ParseRange(from, to string) (Range, error) {
	if strings.TrimSpace(from) == "" {
		return Range{}, api.Invalid("from", "is required")
	}
	if strings.TrimSpace(to) == "" {
		return Range{}, api.Invalid("to", "is required")
	}
	start, err := api.ParseDateTime(from)
	if err != nil {
		return Range{}, api.Invalid("from", err.Error())
	}
	end, err := api.ParseDateTime(to)
	if err != nil {
		return Range{}, api.Invalid("to", err.Error())
	}
	if isDateOnly(to) {
		end = utils.EndOfDay(end)
	}
	if start.After(end) {
		return Range{}, api.Invalid("from", "must not be after to")
	}
	return Range{From: start, To: end}, nil
}

func isDateOnly(s string) bool {
	return len(strings.TrimSpace(s)) == len("2006-01-02")
}

// Table is the tabular form of a report, shared by CSV export, spreadsheet publishing and terminal output.
type Table struct {
	Header []string
	Rows   [][]string
}

// Report is implemented by every report value.
type Report interface {
	Kind() Kind
	Period() Range
	Totals() map[string]float64
	Table() Table
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
