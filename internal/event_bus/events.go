package event_bus

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	ResourceChangedType EventType = "resource.changed"
	ReportGeneratedType EventType = "report.generated"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// ResourceChanged is published after a successful mutation against the remote API.
type ResourceChanged struct {
	Resource string
	Action   Action
	Id       string
}

type ReportGenerated struct {
	Kind   string
	From   time.Time
	To     time.Time
	Totals map[string]float64
	// Payload is the full report value, serialised by subscribers that persist it.
	Payload any
	// Save asks the snapshot recorder to persist this report.
	Save bool
}

// PublishChanged announces a successful mutation. A nil bus is a no-op; handler failures are logged, never returned,
// because the remote change already happened.
func (eb *EventBus) PublishChanged(ctx context.Context, resource string, action Action, id string) {
	if eb == nil {
		return
	}
	err := eb.Publish(NewEvent(ctx, ResourceChangedType, ResourceChanged{Resource: resource, Action: action, Id: id}))
	if err != nil {
		log.Warnf("failed to publish %s %s event for %s: %v", resource, action, id, err)
	}
}
