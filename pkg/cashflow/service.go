package cashflow

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/finboard/finboard/internal/event_bus"
	"github.com/finboard/finboard/pkg/api"
	log "github.com/sirupsen/logrus"
)

const (
	Resource      = "cash_flow_item"
	basePath      = "/cash-flow-items/"
	hierarchyPath = "/cash-flow-items/hierarchy/"
)

type Service interface {
	List(ctx context.Context) ([]Item, error)
	Get(ctx context.Context, id string) (Item, error)
	Create(ctx context.Context, item Item) (Item, error)
	Update(ctx context.Context, item Item) (Item, error)
	// Delete is refused by the API while operations reference the category; the refusal is returned unchanged.
	Delete(ctx context.Context, id string) error
	Hierarchy(ctx context.Context) ([]Node, error)
}

type ServiceImpl struct {
	client api.Client
	bus    *event_bus.EventBus
}

func NewService(client api.Client, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{client: client, bus: bus}
}

func (s *ServiceImpl) List(ctx context.Context) ([]Item, error) {
	var dtos api.Collection[ItemDTO]
	if err := s.client.Get(ctx, basePath, nil, &dtos); err != nil {
		return nil, fmt.Errorf("failed to list cash flow items: %w", err)
	}
	items := make([]Item, 0, len(dtos))
	for _, dto := range dtos {
		items = append(items, DTOToItem(dto))
	}
	return items, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Item, error) {
	var dto ItemDTO
	if err := s.client.Get(ctx, api.ItemPath(basePath, id), nil, &dto); err != nil {
		return Item{}, fmt.Errorf("failed to get cash flow item %s: %w", id, err)
	}
	return DTOToItem(dto), nil
}

func (s *ServiceImpl) Create(ctx context.Context, item Item) (Item, error) {
	if err := validate(item); err != nil {
		return Item{}, err
	}
	var created ItemDTO
	if err := s.client.Post(ctx, basePath, toPayload(item), &created); err != nil {
		log.Errorf("failed to create cash flow item %q: %v", item.Name, err)
		return Item{}, fmt.Errorf("failed to create cash flow item: %w", err)
	}
	result := DTOToItem(created)
	s.bus.PublishChanged(ctx, Resource, event_bus.ActionCreated, result.Id)
	return result, nil
}

func (s *ServiceImpl) Update(ctx context.Context, item Item) (Item, error) {
	if item.Id == "" {
		return Item{}, api.Invalid("id", "is required")
	}
	if err := validate(item); err != nil {
		return Item{}, err
	}
	if item.Parent == item.Id {
		return Item{}, api.Invalid("parent", "cannot be the category itself")
	}
	var updated ItemDTO
	if err := s.client.Put(ctx, api.ItemPath(basePath, item.Id), toPayload(item), &updated); err != nil {
		log.Errorf("failed to update cash flow item %s: %v", item.Id, err)
		return Item{}, fmt.Errorf("failed to update cash flow item: %w", err)
	}
	if updated.Id == "" {
		updated = ItemToDTO(item)
	}
	s.bus.PublishChanged(ctx, Resource, event_bus.ActionUpdated, item.Id)
	return DTOToItem(updated), nil
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, api.ItemPath(basePath, id)); err != nil {
		log.Warnf("failed to delete cash flow item %s: %v", id, err)
		return fmt.Errorf("failed to delete cash flow item: %w", err)
	}
	s.bus.PublishChanged(ctx, Resource, event_bus.ActionDeleted, id)
	return nil
}

func (s *ServiceImpl) Hierarchy(ctx context.Context) ([]Node, error) {
	var body json.RawMessage
	if err := s.client.Get(ctx, hierarchyPath, nil, &body); err != nil {
		return nil, fmt.Errorf("failed to get cash flow item hierarchy: %w", err)
	}
	raw := DecodeHierarchy(body)
	log.Tracef("hierarchy: %d top level records decoded", len(raw))
	return BuildHierarchy(raw), nil
}

func validate(item Item) error {
	if strings.TrimSpace(item.Name) == "" {
		return api.Invalid("name", "is required")
	}
	return nil
}
