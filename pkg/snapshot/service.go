package snapshot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/finboard/finboard/internal/event_bus"
	"github.com/finboard/finboard/internal/utils"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type Service interface {
	List(ctx context.Context, kind string, limit int) ([]Snapshot, error)
	Get(ctx context.Context, id string) (Snapshot, error)
	Delete(ctx context.Context, id string) error
}

type ServiceImpl struct {
	repo  Repository
	clock utils.Clock
}

func NewService(repo Repository) *ServiceImpl {
	return &ServiceImpl{repo: repo, clock: utils.SystemClock{}}
}

// Subscribe records every report generated with the save flag set.
func (s *ServiceImpl) Subscribe(bus *event_bus.EventBus) (unsubscribe func()) {
	return event_bus.SubscribeTyped[event_bus.ReportGenerated](bus, event_bus.ReportGeneratedType,
		func(e event_bus.EventT[event_bus.ReportGenerated]) error {
			if !e.Data.Save {
				return nil
			}
			_, err := s.record(e.Context(), e.Data)
			return err
		})
}

func (s *ServiceImpl) record(ctx context.Context, generated event_bus.ReportGenerated) (uuid.UUID, error) {
	payload, err := json.Marshal(generated.Payload)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to encode %s report: %w", generated.Kind, err)
	}
	id, err := s.repo.Store(ctx, Snapshot{
		Id:          uuid.New(),
		Kind:        generated.Kind,
		From:        generated.From,
		To:          generated.To,
		GeneratedAt: s.clock.Now(),
		Payload:     payload,
	})
	if err != nil {
		return uuid.Nil, err
	}
	log.Infof("saved %s report snapshot %s", generated.Kind, id)
	return id, nil
}

func (s *ServiceImpl) List(ctx context.Context, kind string, limit int) ([]Snapshot, error) {
	return s.repo.List(ctx, kind, limit)
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Snapshot, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return Snapshot{}, fmt.Errorf("%w: invalid id %q", ErrSnapshotNotFound, id)
	}
	return s.repo.Get(ctx, uid)
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("%w: invalid id %q", ErrSnapshotNotFound, id)
	}
	return s.repo.Delete(ctx, uid)
}
