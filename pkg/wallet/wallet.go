package wallet

import (
	"time"

	"github.com/finboard/finboard/pkg/api"
)

// Wallet is a named money holding account. Its balance is computed by the API.
type Wallet struct {
	Id        string
	Name      string
	Code      *string
	Hidden    bool
	CreatedAt time.Time
	UpdatedAt time.Time
	Deleted   bool
}

type Balance struct {
	WalletId string
	Balance  float64
}

type WalletDTO struct {
	Id        api.Ref      `json:"id,omitempty"`
	Name      string       `json:"name"`
	Code      *string      `json:"code"`
	Hidden    bool         `json:"hidden"`
	CreatedAt api.DateTime `json:"created_at"`
	UpdatedAt api.DateTime `json:"updated_at"`
	Deleted   bool         `json:"deleted"`
}

type walletPayload struct {
	Code   *string `json:"code"`
	Name   string  `json:"name"`
	Hidden bool    `json:"hidden"`
}

type balanceDTO struct {
	Balance *api.Amount `json:"balance"`
}

type BalanceDTO struct {
	Wallet  string     `json:"wallet"`
	Balance api.Amount `json:"balance"`
}

func WalletToDTO(w Wallet) WalletDTO {
	return WalletDTO{
		Id:        api.Ref(w.Id),
		Name:      w.Name,
		Code:      w.Code,
		Hidden:    w.Hidden,
		CreatedAt: api.NewDateTime(w.CreatedAt),
		UpdatedAt: api.NewDateTime(w.UpdatedAt),
		Deleted:   w.Deleted,
	}
}

func DTOToWallet(dto WalletDTO) Wallet {
	return Wallet{
		Id:        string(dto.Id),
		Name:      dto.Name,
		Code:      dto.Code,
		Hidden:    dto.Hidden,
		CreatedAt: dto.CreatedAt.Time,
		UpdatedAt: dto.UpdatedAt.Time,
		Deleted:   dto.Deleted,
	}
}

func BalanceToDTO(b Balance) BalanceDTO {
	return BalanceDTO{Wallet: b.WalletId, Balance: api.Amount(b.Balance)}
}
