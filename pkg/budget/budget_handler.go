package budget

import (
	"errors"
	"net/http"

	"github.com/finboard/finboard/internal/rest"
	"github.com/finboard/finboard/pkg/api"
	log "github.com/sirupsen/logrus"
)

type BudgetHandler struct {
	budgetService BudgetService
}

func NewBudgetHandler(budgetService BudgetService) *BudgetHandler {
	return &BudgetHandler{budgetService}
}

func (handler *BudgetHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	budgetType := BudgetType(r.URL.Query().Get("type"))

	budgets, err := handler.budgetService.GetAll(r.Context(), budgetType)
	if err != nil {
		if errors.Is(err, api.ErrInvalid) {
			log.Debugf("rejected budget filter %q", budgetType)
		}
		rest.WriteServiceError(w, err)
		return
	}

	budgetsDTO := make([]BudgetDTO, 0, len(budgets))
	for _, budget := range budgets {
		budgetsDTO = append(budgetsDTO, BudgetToDTO(budget))
	}
	rest.WriteJSON(w, http.StatusOK, budgetsDTO)
}
