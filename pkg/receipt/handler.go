package receipt

import (
	"net/http"

	"github.com/finboard/finboard/internal/rest"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	receipts, err := h.service.List(r.Context())
	if err != nil {
		rest.WriteServiceError(w, err)
		return
	}
	dtos := make([]ReceiptDTO, 0, len(receipts))
	for _, receipt := range receipts {
		dtos = append(dtos, ReceiptToDTO(receipt))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}
