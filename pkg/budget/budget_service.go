package budget

import (
	"context"
	"fmt"
	"net/url"

	"github.com/finboard/finboard/internal/event_bus"
	"github.com/finboard/finboard/pkg/api"
	log "github.com/sirupsen/logrus"
)

const (
	Resource = "budget"
	basePath = "/budgets/"
)

type BudgetService interface {
	// GetAll lists budgets, restricted to one type when budgetType is not empty.
	GetAll(ctx context.Context, budgetType BudgetType) ([]Budget, error)
	Get(ctx context.Context, id string) (Budget, error)
	Create(ctx context.Context, budget Budget) (Budget, error)
	Update(ctx context.Context, budget Budget) (Budget, error)
	Delete(ctx context.Context, id string) error
}

type BudgetServiceImpl struct {
	client api.Client
	bus    *event_bus.EventBus
}

func NewBudgetServiceImpl(client api.Client, bus *event_bus.EventBus) *BudgetServiceImpl {
	return &BudgetServiceImpl{client: client, bus: bus}
}

func (s *BudgetServiceImpl) GetAll(ctx context.Context, budgetType BudgetType) ([]Budget, error) {
	var query url.Values
	if budgetType != "" {
		if _, err := ParseBudgetType(string(budgetType)); err != nil {
			return nil, err
		}
		query = url.Values{"type": {string(budgetType)}}
	}
	var dtos api.Collection[BudgetDTO]
	if err := s.client.Get(ctx, basePath, query, &dtos); err != nil {
		return nil, fmt.Errorf("failed to list budgets: %w", err)
	}
	budgets := make([]Budget, 0, len(dtos))
	for _, dto := range dtos {
		budgets = append(budgets, DTOToBudget(dto))
	}
	return budgets, nil
}

func (s *BudgetServiceImpl) Get(ctx context.Context, id string) (Budget, error) {
	var dto BudgetDTO
	if err := s.client.Get(ctx, api.ItemPath(basePath, id), nil, &dto); err != nil {
		return Budget{}, fmt.Errorf("failed to get budget %s: %w", id, err)
	}
	return DTOToBudget(dto), nil
}

func (s *BudgetServiceImpl) Create(ctx context.Context, budget Budget) (Budget, error) {
	if err := validate(budget); err != nil {
		return Budget{}, err
	}
	var created BudgetDTO
	if err := s.client.Post(ctx, basePath, toPayload(budget), &created); err != nil {
		log.Errorf("failed to create %s budget for %s: %v", budget.Type, budget.CashFlowItem, err)
		return Budget{}, fmt.Errorf("failed to create budget: %w", err)
	}
	result := DTOToBudget(created)
	s.bus.PublishChanged(ctx, Resource, event_bus.ActionCreated, result.Id)
	return result, nil
}

func (s *BudgetServiceImpl) Update(ctx context.Context, budget Budget) (Budget, error) {
	if err := api.FirstInvalid(api.Required("id", budget.Id), validate(budget)); err != nil {
		return Budget{}, err
	}
	var updated BudgetDTO
	if err := s.client.Put(ctx, api.ItemPath(basePath, budget.Id), toPayload(budget), &updated); err != nil {
		log.Warnf("budget %s not updated: %v", budget.Id, err)
		return Budget{}, fmt.Errorf("failed to update budget: %w", err)
	}
	s.bus.PublishChanged(ctx, Resource, event_bus.ActionUpdated, budget.Id)
	if updated.Id == "" {
		return budget, nil
	}
	return DTOToBudget(updated), nil
}

func (s *BudgetServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, api.ItemPath(basePath, id)); err != nil {
		log.Warnf("budget %s not deleted: %v", id, err)
		return fmt.Errorf("failed to delete budget: %w", err)
	}
	s.bus.PublishChanged(ctx, Resource, event_bus.ActionDeleted, id)
	return nil
}
