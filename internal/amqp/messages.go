package amqp

import (
	"encoding/json"
	"time"

	"github.com/finboard/finboard/internal/event_bus"
)

// ResourceChangedMessage announces a mutation made through finboard.
type ResourceChangedMessage struct {
	Resource  string    `json:"resource"`
	Action    string    `json:"action"`
	Id        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewResourceChangedMessage(e event_bus.ResourceChanged, at time.Time) *ResourceChangedMessage {
	return &ResourceChangedMessage{
		Resource:  e.Resource,
		Action:    string(e.Action),
		Id:        e.Id,
		Timestamp: at,
	}
}

func (m *ResourceChangedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ResourceChangedMessageFromJSON(data []byte) (*ResourceChangedMessage, error) {
	var msg ResourceChangedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ReportGeneratedMessage carries the report summary only, never the full payload.
type ReportGeneratedMessage struct {
	Kind      string             `json:"kind"`
	From      time.Time          `json:"from"`
	To        time.Time          `json:"to"`
	Totals    map[string]float64 `json:"totals"`
	Timestamp time.Time          `json:"timestamp"`
}

func NewReportGeneratedMessage(e event_bus.ReportGenerated, at time.Time) *ReportGeneratedMessage {
	return &ReportGeneratedMessage{
		Kind:      e.Kind,
		From:      e.From,
		To:        e.To,
		Totals:    e.Totals,
		Timestamp: at,
	}
}

func (m *ReportGeneratedMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func ReportGeneratedMessageFromJSON(data []byte) (*ReportGeneratedMessage, error) {
	var msg ReportGeneratedMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
