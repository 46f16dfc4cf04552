package autopayment

import (
	"context"
	"fmt"

	"github.com/finboard/finboard/internal/event_bus"
	"github.com/finboard/finboard/pkg/api"
	log "github.com/sirupsen/logrus"
)

const (
	Resource = "auto_payment"
	basePath = "/auto-payments/"
)

type Service interface {
	List(ctx context.Context, filter Filter) ([]AutoPayment, error)
	Get(ctx context.Context, id string) (AutoPayment, error)
	Create(ctx context.Context, ap AutoPayment) (AutoPayment, error)
	Update(ctx context.Context, ap AutoPayment) (AutoPayment, error)
	Delete(ctx context.Context, id string) error
}

type ServiceImpl struct {
	client api.Client
	bus    *event_bus.EventBus
}

func NewService(client api.Client, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{client: client, bus: bus}
}

func (s *ServiceImpl) List(ctx context.Context, filter Filter) ([]AutoPayment, error) {
	var dtos api.Collection[AutoPaymentDTO]
	if err := s.client.Get(ctx, basePath, api.BoolQuery("is_transfer", filter.IsTransfer), &dtos); err != nil {
		return nil, fmt.Errorf("failed to list auto-payments: %w", err)
	}
	result := make([]AutoPayment, 0, len(dtos))
	for _, dto := range dtos {
		result = append(result, DTOToAutoPayment(dto))
	}
	return result, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (AutoPayment, error) {
	var dto AutoPaymentDTO
	if err := s.client.Get(ctx, api.ItemPath(basePath, id), nil, &dto); err != nil {
		return AutoPayment{}, fmt.Errorf("failed to get auto-payment %s: %w", id, err)
	}
	return DTOToAutoPayment(dto), nil
}

func (s *ServiceImpl) Create(ctx context.Context, ap AutoPayment) (AutoPayment, error) {
	if err := Validate(ap); err != nil {
		return AutoPayment{}, err
	}
	var created AutoPaymentDTO
	if err := s.client.Post(ctx, basePath, toPayload(ap), &created); err != nil {
		log.Errorf("failed to create auto-payment: %v", err)
		return AutoPayment{}, fmt.Errorf("failed to create auto-payment: %w", err)
	}
	result := DTOToAutoPayment(created)
	s.bus.PublishChanged(ctx, Resource, event_bus.ActionCreated, result.Id)
	return result, nil
}

func (s *ServiceImpl) Update(ctx context.Context, ap AutoPayment) (AutoPayment, error) {
	if err := api.FirstInvalid(api.Required("id", ap.Id), Validate(ap)); err != nil {
		return AutoPayment{}, err
	}
	var updated AutoPaymentDTO
	if err := s.client.Put(ctx, api.ItemPath(basePath, ap.Id), toPayload(ap), &updated); err != nil {
		log.Errorf("failed to update auto-payment %s: %v", ap.Id, err)
		return AutoPayment{}, fmt.Errorf("failed to update auto-payment: %w", err)
	}
	s.bus.PublishChanged(ctx, Resource, event_bus.ActionUpdated, ap.Id)
	if updated.Id == "" {
		return ap, nil
	}
	return DTOToAutoPayment(updated), nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, api.ItemPath(basePath, id)); err != nil {
		return fmt.Errorf("failed to delete auto-payment: %w", err)
	}
	s.bus.PublishChanged(ctx, Resource, event_bus.ActionDeleted, id)
	return nil
}
