package autopayment

import (
	"net/http"
	"strconv"

	"github.com/finboard/finboard/internal/rest"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var filter Filter
	if raw := r.URL.Query().Get("is_transfer"); raw != "" {
		isTransfer, err := strconv.ParseBool(raw)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "invalid is_transfer", err.Error())
			return
		}
		filter.IsTransfer = &isTransfer
	}
	payments, err := h.service.List(r.Context(), filter)
	if err != nil {
		rest.WriteServiceError(w, err)
		return
	}
	dtos := make([]AutoPaymentDTO, 0, len(payments))
	for _, ap := range payments {
		dtos = append(dtos, AutoPaymentToDTO(ap))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}
