package project

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/finboard/finboard/internal/event_bus"
	"github.com/finboard/finboard/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceImpl(t *testing.T) {
	client := api.NewClientStub()
	bus := event_bus.NewEventBus()
	var changes []event_bus.ResourceChanged
	event_bus.SubscribeTyped(bus, event_bus.ResourceChangedType, func(e event_bus.EventT[event_bus.ResourceChanged]) error {
		changes = append(changes, e.Data)
		return nil
	})
	service := NewService(client, bus)
	ctx := context.Background()

	t.Run("should create with name and code only", func(t *testing.T) {
		// given
		client.SetResponse(http.MethodPost, "/projects/", `{"id":"p1","name":"Renovation"}`)
		client.SetResponse(http.MethodGet, "/projects/p1/", `{"id":"p1","name":"Renovation","code":"RN","deleted":false}`)
		code := "RN"

		// when
		created, err := service.Create(ctx, Project{Name: "Renovation", Code: &code})

		// then
		require.NoError(t, err)
		assert.Equal(t, "RN", *created.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(client.CallsTo(http.MethodPost, "/projects/")[0].Body, &body))
		assert.Equal(t, map[string]any{"name": "Renovation", "code": "RN"}, body)
	})

	t.Run("should update and re-read", func(t *testing.T) {
		client.SetResponse(http.MethodGet, "/projects/p1/", `{"id":"p1","name":"Kitchen"}`)

		updated, err := service.Update(ctx, Project{Id: "p1", Name: "Kitchen"})

		require.NoError(t, err)
		assert.Equal(t, "Kitchen", updated.Name)
		assert.Nil(t, updated.Code)
	})

	t.Run("should reject empty name", func(t *testing.T) {
		_, err := service.Update(ctx, Project{Id: "p1"})

		assert.ErrorIs(t, err, api.ErrInvalid)
	})

	t.Run("should list paginated response", func(t *testing.T) {
		client.SetResponse(http.MethodGet, "/projects/", `{"count":2,"results":[{"id":"p1","name":"A"},{"id":"p2","name":"B"}]}`)

		projects, err := service.List(ctx)

		require.NoError(t, err)
		assert.Len(t, projects, 2)
	})

	assert.Equal(t, []event_bus.Action{event_bus.ActionCreated, event_bus.ActionUpdated}, []event_bus.Action{changes[0].Action, changes[1].Action})
}
