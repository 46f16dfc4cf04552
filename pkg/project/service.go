package project

import (
	"context"
	"fmt"

	"github.com/finboard/finboard/internal/event_bus"
	"github.com/finboard/finboard/pkg/api"
	log "github.com/sirupsen/logrus"
)

const (
	Resource = "project"
	basePath = "/projects/"
)

type Service interface {
	List(ctx context.Context) ([]Project, error)
	Get(ctx context.Context, id string) (Project, error)
	Create(ctx context.Context, project Project) (Project, error)
	Update(ctx context.Context, project Project) (Project, error)
	Delete(ctx context.Context, id string) error
}

type ServiceImpl struct {
	client api.Client
	bus    *event_bus.EventBus
}

func NewService(client api.Client, bus *event_bus.EventBus) *ServiceImpl {
	return &ServiceImpl{client: client, bus: bus}
}

func (s *ServiceImpl) List(ctx context.Context) ([]Project, error) {
	var dtos api.Collection[ProjectDTO]
	if err := s.client.Get(ctx, basePath, nil, &dtos); err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	projects := make([]Project, 0, len(dtos))
	for _, dto := range dtos {
		projects = append(projects, DTOToProject(dto))
	}
	return projects, nil
}

func (s *ServiceImpl) Get(ctx context.Context, id string) (Project, error) {
	var dto ProjectDTO
	if err := s.client.Get(ctx, api.ItemPath(basePath, id), nil, &dto); err != nil {
		return Project{}, fmt.Errorf("failed to get project %s: %w", id, err)
	}
	return DTOToProject(dto), nil
}

func (s *ServiceImpl) Create(ctx context.Context, project Project) (Project, error) {
	if err := api.Required("name", project.Name); err != nil {
		return Project{}, err
	}
	var created ProjectDTO
	err := s.client.Post(ctx, basePath, projectPayload{Name: project.Name, Code: project.Code}, &created)
	if err != nil {
		log.Errorf("failed to create project %q: %v", project.Name, err)
		return Project{}, fmt.Errorf("failed to create project: %w", err)
	}
	if created.Id == "" {
		return Project{}, fmt.Errorf("failed to create project: response carried no id")
	}
	s.bus.PublishChanged(ctx, Resource, event_bus.ActionCreated, string(created.Id))
	return s.Get(ctx, string(created.Id))
}

func (s *ServiceImpl) Update(ctx context.Context, project Project) (Project, error) {
	if err := api.FirstInvalid(api.Required("id", project.Id), api.Required("name", project.Name)); err != nil {
		return Project{}, err
	}
	err := s.client.Put(ctx, api.ItemPath(basePath, project.Id), projectPayload{Name: project.Name, Code: project.Code}, nil)
	if err != nil {
		log.Errorf("failed to update project %s: %v", project.Id, err)
		return Project{}, fmt.Errorf("failed to update project: %w", err)
	}
	s.bus.PublishChanged(ctx, Resource, event_bus.ActionUpdated, project.Id)
	return s.Get(ctx, project.Id)
}

func (s *ServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.client.Delete(ctx, api.ItemPath(basePath, id)); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	s.bus.PublishChanged(ctx, Resource, event_bus.ActionDeleted, id)
	return nil
}
