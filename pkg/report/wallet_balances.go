package report

import (
	"math"
	"sort"

	"github.com/finboard/finboard/pkg/wallet"
)

type WalletBalance struct {
	Id         string  `json:"id"`
	Name       string  `json:"name"`
	Balance    float64 `json:"balance"`
	Percentage float64 `json:"percentage"`
}

type WalletBalanceReport struct {
	Wallets       []WalletBalance `json:"wallets"`
	Total         float64         `json:"total"`
	PositiveTotal float64         `json:"positiveTotal"`
	NegativeTotal float64         `json:"negativeTotal"`
}

// WalletBalances combines wallets with their balances. Wallets without a balance entry are left out.
func WalletBalances(wallets []wallet.Wallet, balances map[string]float64) WalletBalanceReport {
	var result WalletBalanceReport
	for _, w := range wallets {
		balance, ok := balances[w.Id]
		if !ok {
			continue
		}
		result.Wallets = append(result.Wallets, WalletBalance{Id: w.Id, Name: w.Name, Balance: balance})
		result.Total += balance
		if balance > 0 {
			result.PositiveTotal += balance
		} else if balance < 0 {
			result.NegativeTotal += math.Abs(balance)
		}
	}
	if result.Total != 0 {
		for i := range result.Wallets {
			result.Wallets[i].Percentage = result.Wallets[i].Balance / math.Abs(result.Total) * 100
		}
	}
	sort.SliceStable(result.Wallets, func(i, j int) bool {
		return result.Wallets[i].Balance > result.Wallets[j].Balance
	})
	if result.Wallets == nil {
		result.Wallets = []WalletBalance{}
	}
	return result
}

func (r WalletBalanceReport) Kind() Kind { return KindWalletBalances }

// Period is empty: balances are as of now.
func (r WalletBalanceReport) Period() Range { return Range{} }

func (r WalletBalanceReport) Totals() map[string]float64 {
	return map[string]float64{
		"total":         r.Total,
		"positiveTotal": r.PositiveTotal,
		"negativeTotal": r.NegativeTotal,
	}
}

func (r WalletBalanceReport) Table() Table {
	table := Table{Header: []string{"Wallet", "Balance", "Share %"}}
	for _, w := range r.Wallets {
		table.Rows = append(table.Rows, []string{w.Name, formatAmount(w.Balance), formatPercent(w.Percentage)})
	}
	table.Rows = append(table.Rows, []string{"Total", formatAmount(r.Total), ""})
	return table
}
