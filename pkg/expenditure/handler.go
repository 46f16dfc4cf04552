package expenditure

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

// List accepts an optional include_in_budget=true|false query.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	var filter Filter
	if raw := r.URL.Query().Get("include_in_budget"); raw != "" {
		include, err := strconv.ParseBool(raw)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "invalid include_in_budget", err.Error())
			return
		}
		filter.IncludeInBudget = &include
	}
	expenditures, err := h.service.List(r.Context(), filter)
	if err != nil {
		rest.WriteServiceError(w, err)
		return
	}
	dtos := make([]ExpenditureDTO, 0, len(expenditures))
	for _, e := range expenditures {
		dtos = append(dtos, ExpenditureToDTO(e))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}
