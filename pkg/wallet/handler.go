package wallet

import (
	"net/http"

	"github.com/finboard/finboard/internal/rest"
	"github.com/gorilla/mux"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	wallets, err := h.service.List(r.Context())
	if err != nil {
		rest.WriteServiceError(w, err)
		return
	}
	dtos := make([]WalletDTO, 0, len(wallets))
	for _, wallet := range wallets {
		dtos = append(dtos, WalletToDTO(wallet))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) Balance(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	balance, err := h.service.Balance(r.Context(), id)
	if err != nil {
		rest.WriteServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, BalanceToDTO(balance))
}
