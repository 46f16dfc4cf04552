package snapshot

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrSnapshotNotFound = errors.New("snapshot not found")

// Snapshot is a generated report kept for later comparison.
type Snapshot struct {
	Id          uuid.UUID
	Kind        string
	From        time.Time
	To          time.Time
	GeneratedAt time.Time
	Payload     json.RawMessage
}

type SnapshotDTO struct {
	Id          string          `json:"id" yaml:"id"`
	Kind        string          `json:"kind" yaml:"kind"`
	From        time.Time       `json:"from" yaml:"from"`
	To          time.Time       `json:"to" yaml:"to"`
	GeneratedAt time.Time       `json:"generatedAt" yaml:"generatedAt"`
	Payload     json.RawMessage `json:"payload,omitempty" yaml:"-"`
}

func SnapshotToDTO(s Snapshot) SnapshotDTO {
	return SnapshotDTO{
		Id:          s.Id.String(),
		Kind:        s.Kind,
		From:        s.From,
		To:          s.To,
		GeneratedAt: s.GeneratedAt,
		Payload:     s.Payload,
	}
}

// SummaryDTO leaves the payload out, for listings.
func SummaryDTO(s Snapshot) SnapshotDTO {
	dto := SnapshotToDTO(s)
	dto.Payload = nil
	return dto
}
