package api

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Document is the domain side of DocumentDTO, embedded by every financial document.
type Document struct {
	Id        string
	Number    string
	Date      time.Time
	Comment   string
	Deleted   bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DocumentDTO holds the fields shared by every financial document (receipts, expenditures, transfers,
// budgets and auto-payments).
type DocumentDTO struct {
	Id        Ref      `json:"id,omitempty"`
	Number    string   `json:"number,omitempty"`
	Date      DateTime `json:"date"`
	Deleted   bool     `json:"deleted"`
	Comment   string   `json:"comment,omitempty"`
	CreatedAt DateTime `json:"created_at"`
	UpdatedAt DateTime `json:"updated_at"`
}

// DocumentPayload is the writable part of a document.
type DocumentPayload struct {
	Number  string   `json:"number,omitempty"`
	Date    DateTime `json:"date"`
	Comment string   `json:"comment,omitempty"`
}

func (dto DocumentDTO) ToDocument() Document {
	return Document{
		Id:        string(dto.Id),
		Number:    dto.Number,
		Date:      dto.Date.Time,
		Comment:   dto.Comment,
		Deleted:   dto.Deleted,
		CreatedAt: dto.CreatedAt.Time,
		UpdatedAt: dto.UpdatedAt.Time,
	}
}

func DocumentToDTO(d Document) DocumentDTO {
	return DocumentDTO{
		Id:        Ref(d.Id),
		Number:    d.Number,
		Date:      NewDateTime(d.Date),
		Deleted:   d.Deleted,
		Comment:   d.Comment,
		CreatedAt: NewDateTime(d.CreatedAt),
		UpdatedAt: NewDateTime(d.UpdatedAt),
	}
}

func (d Document) Payload() DocumentPayload {
	return DocumentPayload{Number: d.Number, Date: NewDateTime(d.Date), Comment: d.Comment}
}

// ValidateDocument checks the fields every document form requires: a positive amount and a date.
func ValidateDocument(d Document, amount float64) error {
	return FirstInvalid(PositiveAmount("amount", amount), RequiredDate("date", d.Date))
}

// ItemPath joins a collection path such as "/wallets/" with an escaped id, keeping the trailing slash.
func ItemPath(collection, id string) string {
	return fmt.Sprintf("%s/%s/", strings.TrimRight(collection, "/"), url.PathEscape(id))
}

// BoolQuery returns a query with key set to "true" or "false", or nil when value is nil.
func BoolQuery(key string, value *bool) url.Values {
	if value == nil {
		return nil
	}
	return url.Values{key: {fmt.Sprint(*value)}}
}
