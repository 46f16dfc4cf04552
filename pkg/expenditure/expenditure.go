package expenditure

import (
	"github.com/finboard/finboard/pkg/api"
)

// Expenditure is an expense record. Only those with IncludeInBudget count towards budget execution.
type Expenditure struct {
	api.Document
	Amount          float64
	IncludeInBudget bool
	Wallet          string
	CashFlowItem    string
	Project         string
}

type Filter struct {
	IncludeInBudget *bool
}

type ExpenditureDTO struct {
	api.DocumentDTO
	Amount          api.Amount `json:"amount"`
	IncludeInBudget bool       `json:"include_in_budget"`
	Wallet          api.Ref    `json:"wallet"`
	CashFlowItem    api.Ref    `json:"cash_flow_item"`
	Project         api.Ref    `json:"project,omitempty"`
}

type expenditurePayload struct {
	api.DocumentPayload
	Amount          api.Amount `json:"amount"`
	IncludeInBudget bool       `json:"include_in_budget"`
	Wallet          api.Ref    `json:"wallet"`
	CashFlowItem    api.Ref    `json:"cash_flow_item"`
	Project         api.Ref    `json:"project,omitempty"`
}

func ExpenditureToDTO(e Expenditure) ExpenditureDTO {
	return ExpenditureDTO{
		DocumentDTO:     api.DocumentToDTO(e.Document),
		Amount:          api.Amount(e.Amount),
		IncludeInBudget: e.IncludeInBudget,
		Wallet:          api.Ref(e.Wallet),
		CashFlowItem:    api.Ref(e.CashFlowItem),
		Project:         api.Ref(e.Project),
	}
}

func DTOToExpenditure(dto ExpenditureDTO) Expenditure {
	return Expenditure{
		Document:        dto.ToDocument(),
		Amount:          dto.Amount.Float(),
		IncludeInBudget: dto.IncludeInBudget,
		Wallet:          string(dto.Wallet),
		CashFlowItem:    string(dto.CashFlowItem),
		Project:         string(dto.Project),
	}
}

func toPayload(e Expenditure) expenditurePayload {
	return expenditurePayload{
		DocumentPayload: e.Payload(),
		Amount:          api.Amount(e.Amount),
		IncludeInBudget: e.IncludeInBudget,
		Wallet:          api.Ref(e.Wallet),
		CashFlowItem:    api.Ref(e.CashFlowItem),
		Project:         api.Ref(e.Project),
	}
}

func validate(e Expenditure) error {
	return api.FirstInvalid(
		api.ValidateDocument(e.Document, e.Amount),
		api.Required("wallet", e.Wallet),
		api.Required("cash_flow_item", e.CashFlowItem),
	)
}
