package budget

import (
	"fmt"
	"time"

	"github.com/finboard/finboard/pkg/api"
)

type BudgetType string

const (
	BudgetTypeIncome  BudgetType = "income"
	BudgetTypeExpense BudgetType = "expense"
)

func ParseBudgetType(s string) (BudgetType, error) {
	switch BudgetType(s) {
	case BudgetTypeIncome, BudgetTypeExpense:
		return BudgetType(s), nil
	}
	return "", api.Invalid("type", fmt.Sprintf("must be %q or %q, got %q", BudgetTypeIncome, BudgetTypeExpense, s))
}

// Budget is a planned amount of income or expense for one category on a date.
type Budget struct {
	api.Document
	Type         BudgetType
	Amount       float64
	CashFlowItem string
	Project      string
}

// IsWithin reports whether the budget date lies in [from, to], both ends included.
func (b Budget) IsWithin(from, to time.Time) bool {
	return !b.Date.Before(from) && !b.Date.After(to)
}

type BudgetDTO struct {
	api.DocumentDTO
	Type         BudgetType `json:"type"`
	Amount       api.Amount `json:"amount"`
	CashFlowItem api.Ref    `json:"cash_flow_item"`
	Project      api.Ref    `json:"project,omitempty"`
}

type budgetPayload struct {
	api.DocumentPayload
	Type         BudgetType `json:"type"`
	Amount       api.Amount `json:"amount"`
	CashFlowItem api.Ref    `json:"cash_flow_item"`
	Project      api.Ref    `json:"project,omitempty"`
}

func BudgetToDTO(budget Budget) BudgetDTO {
	return BudgetDTO{
		DocumentDTO:  api.DocumentToDTO(budget.Document),
		Type:         budget.Type,
		Amount:       api.Amount(budget.Amount),
		CashFlowItem: api.Ref(budget.CashFlowItem),
		Project:      api.Ref(budget.Project),
	}
}

func DTOToBudget(budgetDTO BudgetDTO) Budget {
	return Budget{
		Document:     budgetDTO.ToDocument(),
		Type:         budgetDTO.Type,
		Amount:       budgetDTO.Amount.Float(),
		CashFlowItem: string(budgetDTO.CashFlowItem),
		Project:      string(budgetDTO.Project),
	}
}

func toPayload(budget Budget) budgetPayload {
	return budgetPayload{
		DocumentPayload: budget.Payload(),
		Type:            budget.Type,
		Amount:          api.Amount(budget.Amount),
		CashFlowItem:    api.Ref(budget.CashFlowItem),
		Project:         api.Ref(budget.Project),
	}
}

func validate(budget Budget) error {
	if _, err := ParseBudgetType(string(budget.Type)); err != nil {
		return err
	}
	return api.FirstInvalid(
		api.ValidateDocument(budget.Document, budget.Amount),
		api.Required("cash_flow_item", budget.CashFlowItem),
	)
}
