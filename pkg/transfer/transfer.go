package transfer

import (
	"github.com/finboard/finboard/pkg/api"
)

// Transfer moves money between two wallets.
type Transfer struct {
	api.Document
	Amount          float64
	WalletFrom      string
	WalletTo        string
	IncludeInBudget bool
	CashFlowItem    string
}

// TransferDTO uses the API names: wallet_out is the source, wallet_in the destination.
type TransferDTO struct {
	api.DocumentDTO
	Amount          api.Amount `json:"amount"`
	WalletOut       api.Ref    `json:"wallet_out"`
	WalletIn        api.Ref    `json:"wallet_in"`
	IncludeInBudget bool       `json:"include_in_budget"`
	CashFlowItem    api.Ref    `json:"cash_flow_item"`
}

type transferPayload struct {
	api.DocumentPayload
	Amount          api.Amount `json:"amount"`
	WalletOut       api.Ref    `json:"wallet_out"`
	WalletIn        api.Ref    `json:"wallet_in"`
	IncludeInBudget bool       `json:"include_in_budget"`
	CashFlowItem    api.Ref    `json:"cash_flow_item,omitempty"`
}

func TransferToDTO(t Transfer) TransferDTO {
	return TransferDTO{
		DocumentDTO:     api.DocumentToDTO(t.Document),
		Amount:          api.Amount(t.Amount),
		WalletOut:       api.Ref(t.WalletFrom),
		WalletIn:        api.Ref(t.WalletTo),
		IncludeInBudget: t.IncludeInBudget,
		CashFlowItem:    api.Ref(t.CashFlowItem),
	}
}

func DTOToTransfer(dto TransferDTO) Transfer {
	return Transfer{
		Document:        dto.ToDocument(),
		Amount:          dto.Amount.Float(),
		WalletFrom:      string(dto.WalletOut),
		WalletTo:        string(dto.WalletIn),
		IncludeInBudget: dto.IncludeInBudget,
		CashFlowItem:    string(dto.CashFlowItem),
	}
}

func toPayload(t Transfer) transferPayload {
	return transferPayload{
		DocumentPayload: t.Payload(),
		Amount:          api.Amount(t.Amount),
		WalletOut:       api.Ref(t.WalletFrom),
		WalletIn:        api.Ref(t.WalletTo),
		IncludeInBudget: t.IncludeInBudget,
		CashFlowItem:    api.Ref(t.CashFlowItem),
	}
}

func validate(t Transfer) error {
	err := api.FirstInvalid(
		api.ValidateDocument(t.Document, t.Amount),
		api.Required("wallet_from", t.WalletFrom),
		api.Required("wallet_to", t.WalletTo),
	)
	if err != nil {
		return err
	}
	if t.WalletFrom == t.WalletTo {
		return api.Invalid("wallet_to", "must differ from the source wallet")
	}
	return nil
}
