package cashflow

import (
	"time"

	"github.com/finboard/finboard/pkg/api"
)

// Item is a user-defined category classifying income and expense records.
type Item struct {
	Id              string
	Name            string
	Code            *string
	Parent          string
	Description     string
	IncludeInBudget *bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
	Deleted         bool
}

type ItemDTO struct {
	Id              api.Ref      `json:"id,omitempty"`
	Name            string       `json:"name"`
	Code            *string      `json:"code"`
	Parent          api.Ref      `json:"parent"`
	Description     string       `json:"description,omitempty"`
	IncludeInBudget *bool        `json:"include_in_budget"`
	CreatedAt       api.DateTime `json:"created_at"`
	UpdatedAt       api.DateTime `json:"updated_at"`
	Deleted         bool         `json:"deleted"`
}

// itemPayload is what create and update send; server managed fields stay out.
type itemPayload struct {
	Name            string  `json:"name"`
	Code            *string `json:"code,omitempty"`
	Parent          api.Ref `json:"parent"`
	Description     string  `json:"description,omitempty"`
	IncludeInBudget *bool   `json:"include_in_budget,omitempty"`
}

func ItemToDTO(item Item) ItemDTO {
	return ItemDTO{
		Id:              api.Ref(item.Id),
		Name:            item.Name,
		Code:            item.Code,
		Parent:          api.Ref(item.Parent),
		Description:     item.Description,
		IncludeInBudget: item.IncludeInBudget,
		CreatedAt:       api.NewDateTime(item.CreatedAt),
		UpdatedAt:       api.NewDateTime(item.UpdatedAt),
		Deleted:         item.Deleted,
	}
}

func DTOToItem(dto ItemDTO) Item {
	return Item{
		Id:              string(dto.Id),
		Name:            dto.Name,
		Code:            dto.Code,
		Parent:          string(dto.Parent),
		Description:     dto.Description,
		IncludeInBudget: dto.IncludeInBudget,
		CreatedAt:       dto.CreatedAt.Time,
		UpdatedAt:       dto.UpdatedAt.Time,
		Deleted:         dto.Deleted,
	}
}

func toPayload(item Item) itemPayload {
	return itemPayload{
		Name:            item.Name,
		Code:            item.Code,
		Parent:          api.Ref(item.Parent),
		Description:     item.Description,
		IncludeInBudget: item.IncludeInBudget,
	}
}

// Names builds the id to name lookup used by the reports.
func Names(items []Item) map[string]string {
	names := make(map[string]string, len(items))
	for _, item := range items {
		names[item.Id] = item.Name
	}
	return names
}
