package receipt

import (
	"github.com/finboard/finboard/pkg/api"
)

// Receipt is an income record.
type Receipt struct {
	api.Document
	Amount       float64
	Wallet       string
	CashFlowItem string
	Project      string
}

type ReceiptDTO struct {
	api.DocumentDTO
	Amount       api.Amount `json:"amount"`
	Wallet       api.Ref    `json:"wallet"`
	CashFlowItem api.Ref    `json:"cash_flow_item"`
	Project      api.Ref    `json:"project,omitempty"`
}

type receiptPayload struct {
	api.DocumentPayload
	Amount       api.Amount `json:"amount"`
	Wallet       api.Ref    `json:"wallet"`
	CashFlowItem api.Ref    `json:"cash_flow_item"`
	Project      api.Ref    `json:"project,omitempty"`
}

func ReceiptToDTO(r Receipt) ReceiptDTO {
	return ReceiptDTO{
		DocumentDTO:  api.DocumentToDTO(r.Document),
		Amount:       api.Amount(r.Amount),
		Wallet:       api.Ref(r.Wallet),
		CashFlowItem: api.Ref(r.CashFlowItem),
		Project:      api.Ref(r.Project),
	}
}

func DTOToReceipt(dto ReceiptDTO) Receipt {
	return Receipt{
		Document:     dto.ToDocument(),
		Amount:       dto.Amount.Float(),
		Wallet:       string(dto.Wallet),
		CashFlowItem: string(dto.CashFlowItem),
		Project:      string(dto.Project),
	}
}

func toPayload(r Receipt) receiptPayload {
	return receiptPayload{
		DocumentPayload: r.Payload(),
		Amount:          api.Amount(r.Amount),
		Wallet:          api.Ref(r.Wallet),
		CashFlowItem:    api.Ref(r.CashFlowItem),
		Project:         api.Ref(r.Project),
	}
}

func validate(r Receipt) error {
	return api.FirstInvalid(
		api.ValidateDocument(r.Document, r.Amount),
		api.Required("wallet", r.Wallet),
		api.Required("cash_flow_item", r.CashFlowItem),
	)
}
