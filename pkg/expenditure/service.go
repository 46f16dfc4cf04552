package expenditure

import (
	"context"
	"fmt"

	"github.com/finboard/finboard/internal/event_bus"
	"github.com/finboard/finboard/pkg/api"
	log "github.com/sirupsen/logrus"
)

const (
	Resource = "expenditure"
	basePath = "/expenditures/"
)

type Service interface {
	List(ctx context.Context, filter Filter) ([]Expenditure, error)
	Get(ctx context.Context, id string) (Expenditure, error)
	Create(ctx context.Context, expenditure Expenditure) (Expenditure, error)
	Update(ctx context.Context, expenditure Expenditure) (Expenditure, error)
	Delete(ctx context.Context, id string) error
}

type ServiceImpl struct {
	client api.Client
	bus    *event_bus.EventBus
}

func NewService(client api.Client, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{client: client, bus: bus}
}

func (s *ServiceImpl) List(ctx context.Context, filter Filter) ([]Expenditure, error) {
	var dtos api.Collection[ExpenditureDTO]
	if err := s.client.Get(ctx, basePath, api.BoolQuery("include_in_budget", filter.IncludeInBudget), &dtos); err != nil {
		return nil, fmt.Errorf("failed to list expenditures: %w", err)
	}
	expenditures := make([]Expenditure, 0, len(dtos))
	for _, dto := range dtos {
		expenditures = append(expenditures, DTOToExpenditure(dto))
	}
	return expenditures, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Expenditure, error) {
	var dto ExpenditureDTO
	if err := s.client.Get(ctx, api.ItemPath(basePath, id), nil, &dto); err != nil {
		return Expenditure{}, fmt.Errorf("failed to get expenditure %s: %w", id, err)
	}
	return DTOToExpenditure(dto), nil
}

func (s *ServiceImpl) Create(ctx context.Context, expenditure Expenditure) (Expenditure, error) {
	if err := validate(expenditure); err != nil {
		return Expenditure{}, err
	}
	var created ExpenditureDTO
	if err := s.client.Post(ctx, basePath, toPayload(expenditure), &created); err != nil {
		log.Errorf("failed to create expenditure: %v", err)
		return Expenditure{}, fmt.Errorf("failed to create expenditure: %w", err)
	}
	result := DTOToExpenditure(created)
	s.bus.PublishChanged(ctx, Resource, event_bus.ActionCreated, result.Id)
	return result, nil
}

func (s *ServiceImpl) Update(ctx context.Context, expenditure Expenditure) (Expenditure, error) {
	if err := api.FirstInvalid(api.Required("id", expenditure.Id), validate(expenditure)); err != nil {
		return Expenditure{}, err
	}
	var updated ExpenditureDTO
	if err := s.client.Put(ctx, api.ItemPath(basePath, expenditure.Id), toPayload(expenditure), &updated); err != nil {
		log.Errorf("failed to update expenditure %s: %v", expenditure.Id, err)
		return Expenditure{}, fmt.Errorf("failed to update expenditure: %w", err)
	}
	s.bus.PublishChanged(ctx, Resource, event_bus.ActionUpdated, expenditure.Id)
	if updated.Id == "" {
		return expenditure, nil
	}
	return DTOToExpenditure(updated), nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, api.ItemPath(basePath, id)); err != nil {
		return fmt.Errorf("failed to delete expenditure: %w", err)
	}
	s.bus.PublishChanged(ctx, Resource, event_bus.ActionDeleted, id)
	return nil
}
