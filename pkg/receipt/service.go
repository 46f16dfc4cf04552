package receipt

import (
	"context"
	"fmt"

	"github.com/finboard/finboard/internal/event_bus"
	"github.com/finboard/finboard/pkg/api"
	log "github.com/sirupsen/logrus"
)

const (
	Resource = "receipt"
	basePath = "/receipts/"
)

type Service interface {
	List(ctx context.Context) ([]Receipt, error)
	Get(ctx context.Context, id string) (Receipt, error)
	Create(ctx context.Context, receipt Receipt) (Receipt, error)
	Update(ctx context.Context, receipt Receipt) (Receipt, error)
	Delete(ctx context.Context, id string) error
}

type ServiceImpl struct {
	client api.Client
	bus    *event_bus.EventBus
}

func NewService(client api.Client, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{client: client, bus: bus}
}

func (s *ServiceImpl) List(ctx context.Context) ([]Receipt, error) {
	var dtos api.Collection[ReceiptDTO]
	if err := s.client.Get(ctx, basePath, nil, &dtos); err != nil {
		return nil, fmt.Errorf("failed to list receipts: %w", err)
	}
	receipts := make([]Receipt, 0, len(dtos))
	for _, dto := range dtos {
		receipts = append(receipts, DTOToReceipt(dto))
	}
	return receipts, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Receipt, error) {
	var dto ReceiptDTO
	if err := s.client.Get(ctx, api.ItemPath(basePath, id), nil, &dto); err != nil {
		return Receipt{}, fmt.Errorf("failed to get receipt %s: %w", id, err)
	}
	return DTOToReceipt(dto), nil
}

func (s *ServiceImpl) Create(ctx context.Context, receipt Receipt) (Receipt, error) {
	if err := validate(receipt); err != nil {
		return Receipt{}, err
	}
	var created ReceiptDTO
	if err := s.client.Post(ctx, basePath, toPayload(receipt), &created); err != nil {
		log.Errorf("failed to create receipt: %v", err)
		return Receipt{}, fmt.Errorf("failed to create receipt: %w", err)
	}
	result := DTOToReceipt(created)
	s.bus.PublishChanged(ctx, Resource, event_bus.ActionCreated, result.Id)
	return result, nil
}

func (s *ServiceImpl) Update(ctx context.Context, receipt Receipt) (Receipt, error) {
	if err := api.FirstInvalid(api.Required("id", receipt.Id), validate(receipt)); err != nil {
		return Receipt{}, err
	}
	var updated ReceiptDTO
	if err := s.client.Put(ctx, api.ItemPath(basePath, receipt.Id), toPayload(receipt), &updated); err != nil {
		log.Errorf("failed to update receipt %s: %v", receipt.Id, err)
		return Receipt{}, fmt.Errorf("failed to update receipt: %w", err)
	}
	s.bus.PublishChanged(ctx, Resource, event_bus.ActionUpdated, receipt.Id)
	if updated.Id == "" {
		return receipt, nil
	}
	return DTOToReceipt(updated), nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, api.ItemPath(basePath, id)); err != nil {
		return fmt.Errorf("failed to delete receipt: %w", err)
	}
	s.bus.PublishChanged(ctx, Resource, event_bus.ActionDeleted, id)
	return nil
}
