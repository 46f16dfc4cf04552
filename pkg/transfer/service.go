package transfer

import (
	"context"
	"fmt"

	"github.com/finboard/finboard/internal/event_bus"
	"github.com/finboard/finboard/pkg/api"
	log "github.com/sirupsen/logrus"
)

const (
	Resource = "transfer"
	basePath = "/transfers/"
)

type Service interface {
	List(ctx context.Context) ([]Transfer, error)
	Get(ctx context.Context, id string) (Transfer, error)
	Create(ctx context.Context, transfer Transfer) (Transfer, error)
	Update(ctx context.Context, transfer Transfer) (Transfer, error)
	Delete(ctx context.Context, id string) error
}

type ServiceImpl struct {
	client api.Client
	bus    *event_bus.EventBus
}

func NewService(client api.Client, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{client: client, bus: bus}
}

func (s *ServiceImpl) List(ctx context.Context) ([]Transfer, error) {
	var dtos api.Collection[TransferDTO]
	if err := s.client.Get(ctx, basePath, nil, &dtos); err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	transfers := make([]Transfer, 0, len(dtos))
	for _, dto := range dtos {
		transfers = append(transfers, DTOToTransfer(dto))
	}
	return transfers, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Transfer, error) {
	var dto TransferDTO
	if err := s.client.Get(ctx, api.ItemPath(basePath, id), nil, &dto); err != nil {
		return Transfer{}, fmt.Errorf("failed to get transfer %s: %w", id, err)
	}
	return DTOToTransfer(dto), nil
}

func (s *ServiceImpl) Create(ctx context.Context, transfer Transfer) (Transfer, error) {
	if err := validate(transfer); err != nil {
		return Transfer{}, err
	}
	var created TransferDTO
	if err := s.client.Post(ctx, basePath, toPayload(transfer), &created); err != nil {
		log.Errorf("failed to create transfer %s -> %s: %v", transfer.WalletFrom, transfer.WalletTo, err)
		return Transfer{}, fmt.Errorf("failed to create transfer: %w", err)
	}
	result := DTOToTransfer(created)
	s.bus.PublishChanged(ctx, Resource, event_bus.ActionCreated, result.Id)
	return result, nil
}

func (s *ServiceImpl) Update(ctx context.Context, transfer Transfer) (Transfer, error) {
	if err := api.FirstInvalid(api.Required("id", transfer.Id), validate(transfer)); err != nil {
		return Transfer{}, err
	}
	var updated TransferDTO
	if err := s.client.Put(ctx, api.ItemPath(basePath, transfer.Id), toPayload(transfer), &updated); err != nil {
		log.Errorf("failed to update transfer %s: %v", transfer.Id, err)
		return Transfer{}, fmt.Errorf("failed to update transfer: %w", err)
	}
	s.bus.PublishChanged(ctx, Resource, event_bus.ActionUpdated, transfer.Id)
	if updated.Id == "" {
		return transfer, nil
	}
	return DTOToTransfer(updated), nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, api.ItemPath(basePath, id)); err != nil {
		return fmt.Errorf("failed to delete transfer: %w", err)
	}
	s.bus.PublishChanged(ctx, Resource, event_bus.ActionDeleted, id)
	return nil
}
