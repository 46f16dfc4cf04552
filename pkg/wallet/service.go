package wallet

import (
	"context"
	"fmt"

	"github.com/finboard/finboard/internal/event_bus"
	"github.com/finboard/finboard/pkg/api"
	log "github.com/sirupsen/logrus"
)

const (
	Resource = "wallet"
	basePath = "/wallets/"
)

type Service interface {
	List(ctx context.Context) ([]Wallet, error)
	Get(ctx context.Context, id string) (Wallet, error)
	Create(ctx context.Context, wallet Wallet) (Wallet, error)
	Update(ctx context.Context, wallet Wallet) (Wallet, error)
	Delete(ctx context.Context, id string) error
	Balance(ctx context.Context, id string) (Balance, error)
}

type ServiceImpl struct {
	client api.Client
	bus    *event_bus.EventBus
}

func NewService(client api.Client, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{client: client, bus: bus}
}

func (s *ServiceImpl) List(ctx context.Context) ([]Wallet, error) {
	var dtos api.Collection[WalletDTO]
	if err := s.client.Get(ctx, basePath, nil, &dtos); err != nil {
		return nil, fmt.Errorf("failed to list wallets: %w", err)
	}
	wallets := make([]Wallet, 0, len(dtos))
	for _, dto := range dtos {
		wallets = append(wallets, DTOToWallet(dto))
	}
	return wallets, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Wallet, error) {
	var dto WalletDTO
	if err := s.client.Get(ctx, api.ItemPath(basePath, id), nil, &dto); err != nil {
		return Wallet{}, fmt.Errorf("failed to get wallet %s: %w", id, err)
	}
	return DTOToWallet(dto), nil
}

// Create sends only the editable fields and reads the stored wallet back.
func (s *ServiceImpl) Create(ctx context.Context, wallet Wallet) (Wallet, error) {
	if err := api.Required("name", wallet.Name); err != nil {
		return Wallet{}, err
	}
	var created WalletDTO
	if err := s.client.Post(ctx, basePath, payload(wallet), &created); err != nil {
		log.Errorf("failed to create wallet %q: %v", wallet.Name, err)
		return Wallet{}, fmt.Errorf("failed to create wallet: %w", err)
	}
	if created.Id == "" {
		return Wallet{}, fmt.Errorf("failed to create wallet: response carried no id")
	}
	s.bus.PublishChanged(ctx, Resource, event_bus.ActionCreated, string(created.Id))
	return s.Get(ctx, string(created.Id))
}

func (s *ServiceImpl) Update(ctx context.Context, wallet Wallet) (Wallet, error) {
	if err := api.FirstInvalid(api.Required("id", wallet.Id), api.Required("name", wallet.Name)); err != nil {
		return Wallet{}, err
	}
	if err := s.client.Put(ctx, api.ItemPath(basePath, wallet.Id), payload(wallet), nil); err != nil {
		log.Errorf("failed to update wallet %s: %v", wallet.Id, err)
		return Wallet{}, fmt.Errorf("failed to update wallet: %w", err)
	}
	s.bus.PublishChanged(ctx, Resource, event_bus.ActionUpdated, wallet.Id)
	return s.Get(ctx, wallet.Id)
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, api.ItemPath(basePath, id)); err != nil {
		return fmt.Errorf("failed to delete wallet: %w", err)
	}
	s.bus.PublishChanged(ctx, Resource, event_bus.ActionDeleted, id)
	return nil
}

// Balance reads the server-computed balance. A response without a balance field counts as zero.
func (s *ServiceImpl) Balance(ctx context.Context, id string) (Balance, error) {
	var dto balanceDTO
	if err := s.client.Get(ctx, api.ItemPath(basePath, id)+"balance/", nil, &dto); err != nil {
		return Balance{}, fmt.Errorf("failed to get balance of wallet %s: %w", id, err)
	}
	result := Balance{WalletId: id}
	if dto.Balance != nil {
		result.Balance = dto.Balance.Float()
	} else {
		log.Debugf("balance of wallet %s missing in response, using 0", id)
	}
	return result, nil
}

func payload(w Wallet) walletPayload {
	return walletPayload{Code: w.Code, Name: w.Name, Hidden: w.Hidden}
}
