package project

import (
	"time"

	"github.com/finboard/finboard/pkg/api"
)

type Project struct {
	Id        string
	Name      string
	Code      *string
	CreatedAt time.Time
	UpdatedAt time.Time
	Deleted   bool
}

type ProjectDTO struct {
	Id        api.Ref      `json:"id,omitempty"`
	Name      string       `json:"name"`
	Code      *string      `json:"code"`
	CreatedAt api.DateTime `json:"created_at"`
	UpdatedAt api.DateTime `json:"updated_at"`
	Deleted   bool         `json:"deleted"`
}

type projectPayload struct {
	Name string  `json:"name"`
	Code *string `json:"code"`
}

func ProjectToDTO(p Project) ProjectDTO {
	return ProjectDTO{
		Id:        api.Ref(p.Id),
		Name:      p.Name,
		Code:      p.Code,
		CreatedAt: api.NewDateTime(p.CreatedAt),
		UpdatedAt: api.NewDateTime(p.UpdatedAt),
		Deleted:   p.Deleted,
	}
}

func DTOToProject(dto ProjectDTO) Project {
	return Project{
		Id:        string(dto.Id),
		Name:      dto.Name,
		Code:      dto.Code,
		CreatedAt: dto.CreatedAt.Time,
		UpdatedAt: dto.UpdatedAt.Time,
		Deleted:   dto.Deleted,
	}
}
