package autopayment

import (
	"time"

	"github.com/finboard/finboard/pkg/api"
)

// AutoPayment is a template for a recurring expense or transfer.
type AutoPayment struct {
	api.Document
	IsTransfer   bool
	WalletFrom   string
	WalletTo     string
	CashFlowItem string
	PeriodDays   int
	NextDate     time.Time
	Amount       float64
}

type Filter struct {
	IsTransfer *bool
}

type AutoPaymentDTO struct {
	api.DocumentDTO
	IsTransfer   bool         `json:"is_transfer"`
	WalletFrom   api.Ref      `json:"wallet_from"`
	WalletTo     api.Ref      `json:"wallet_to"`
	CashFlowItem api.Ref      `json:"cash_flow_item"`
	PeriodDays   int          `json:"period_days"`
	NextDate     api.DateTime `json:"next_date"`
	Amount       api.Amount   `json:"amount"`
}

type autoPaymentPayload struct {
	Number       string       `json:"number,omitempty"`
	Comment      string       `json:"comment,omitempty"`
	IsTransfer   bool         `json:"is_transfer"`
	WalletFrom   api.Ref      `json:"wallet_from"`
	WalletTo     api.Ref      `json:"wallet_to,omitempty"`
	CashFlowItem api.Ref      `json:"cash_flow_item,omitempty"`
	PeriodDays   int          `json:"period_days"`
	NextDate     api.DateTime `json:"next_date"`
	Amount       api.Amount   `json:"amount"`
}

func AutoPaymentToDTO(ap AutoPayment) AutoPaymentDTO {
	return AutoPaymentDTO{
		DocumentDTO:  api.DocumentToDTO(ap.Document),
		IsTransfer:   ap.IsTransfer,
		WalletFrom:   api.Ref(ap.WalletFrom),
		WalletTo:     api.Ref(ap.WalletTo),
		CashFlowItem: api.Ref(ap.CashFlowItem),
		PeriodDays:   ap.PeriodDays,
		NextDate:     api.NewDateTime(ap.NextDate),
		Amount:       api.Amount(ap.Amount),
	}
}

func DTOToAutoPayment(dto AutoPaymentDTO) AutoPayment {
	return AutoPayment{
		Document:     dto.ToDocument(),
		IsTransfer:   dto.IsTransfer,
		WalletFrom:   string(dto.WalletFrom),
		WalletTo:     string(dto.WalletTo),
		CashFlowItem: string(dto.CashFlowItem),
		PeriodDays:   dto.PeriodDays,
		NextDate:     dto.NextDate.Time,
		Amount:       dto.Amount.Float(),
	}
}

// toPayload drops the fields that do not apply to the auto-payment kind.
func toPayload(ap AutoPayment) autoPaymentPayload {
	payload := autoPaymentPayload{
		Number:     ap.Number,
		Comment:    ap.Comment,
		IsTransfer: ap.IsTransfer,
		WalletFrom: api.Ref(ap.WalletFrom),
		PeriodDays: ap.PeriodDays,
		NextDate:   api.NewDateTime(ap.NextDate),
		Amount:     api.Amount(ap.Amount),
	}
	if ap.IsTransfer {
		payload.WalletTo = api.Ref(ap.WalletTo)
	} else {
		payload.CashFlowItem = api.Ref(ap.CashFlowItem)
	}
	return payload
}

func Validate(ap AutoPayment) error {
	err := api.FirstInvalid(
		api.PositiveAmount("amount", ap.Amount),
		api.RequiredDate("next_date", ap.NextDate),
		api.Required("wallet_from", ap.WalletFrom),
	)
	if err != nil {
		return err
	}
	if ap.PeriodDays <= 0 {
		return api.Invalid("period_days", "must be greater than zero")
	}
	if ap.IsTransfer {
		if err := api.Required("wallet_to", ap.WalletTo); err != nil {
			return err
		}
		if ap.WalletTo == ap.WalletFrom {
			return api.Invalid("wallet_to", "must differ from the source wallet")
		}
		return nil
	}
	return api.Required("cash_flow_item", ap.CashFlowItem)
}

// NextOccurrences returns the next n due dates, starting at NextDate and stepping by PeriodDays.
func NextOccurrences(ap AutoPayment, n int) []time.Time {
	if n <= 0 || ap.PeriodDays <= 0 || ap.NextDate.IsZero() {
		return nil
	}
	dates := make([]time.Time, n)
	for i := range dates {
		dates[i] = ap.NextDate.AddDate(0, 0, i*ap.PeriodDays)
	}
	return dates
}
