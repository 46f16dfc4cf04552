package cashflow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/finboard/finboard/internal/event_bus"
	"github.com/finboard/finboard/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*ServiceImpl, *api.ClientStub, *[]event_bus.ResourceChanged) {
	client := api.NewClientStub()
	bus := event_bus.NewEventBus()
	var events []event_bus.ResourceChanged
	event_bus.SubscribeTyped(bus, event_bus.ResourceChangedType, func(e event_bus.EventT[event_bus.ResourceChanged]) error {
		events = append(events, e.Data)
		return nil
	})
	t.Cleanup(client.Reset)
	return NewService(client, bus), client, &events
}

func TestServiceImpl_List(t *testing.T) {
	service, client, _ := setup(t)
	client.SetResponse(http.MethodGet, "/cash-flow-items/", `[
		{"id":"c1","name":"Food","parent":null,"include_in_budget":true,"created_at":"2024-01-01T10:00:00Z"},
		{"id":"c2","name":"Groceries","parent":"c1","code":"GRC"}
	]`)

	items, err := service.List(context.Background())

	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "", items[0].Parent)
	assert.True(t, *items[0].IncludeInBudget)
	assert.Equal(t, "c1", items[1].Parent)
	assert.Equal(t, "GRC", *items[1].Code)
	assert.Equal(t, map[string]string{"c1": "Food", "c2": "Groceries"}, Names(items))
}

func TestServiceImpl_Hierarchy(t *testing.T) {
	t.Run("should build tree from wrapped flat listing", func(t *testing.T) {
		service, client, _ := setup(t)
		client.SetResponse(http.MethodGet, "/cash-flow-items/hierarchy/", `{"results":[
			{"id":"c2","name":"Groceries","parent":"c1"},
			{"id":"c1","name":"Food"}
		]}`)

		forest, err := service.Hierarchy(context.Background())

		require.NoError(t, err)
		require.Len(t, forest, 1)
		assert.Equal(t, "Food", forest[0].Name)
		assert.Equal(t, "Groceries", forest[0].Children[0].Name)
	})

	t.Run("should surface fetch failure", func(t *testing.T) {
		service, client, _ := setup(t)
		client.SetError(http.MethodGet, "/cash-flow-items/hierarchy/", &api.StatusError{Status: http.StatusBadGateway})

		_, err := service.Hierarchy(context.Background())

		assert.Error(t, err)
	})
}

func TestServiceImpl_Create(t *testing.T) {
	t.Run("should send payload and publish event", func(t *testing.T) {
		// given
		service, client, events := setup(t)
		client.SetResponse(http.MethodPost, "/cash-flow-items/", `{"id":"new","name":"Travel","parent":"c1"}`)

		// when
		created, err := service.Create(context.Background(), Item{Name: "Travel", Parent: "c1"})

		// then
		require.NoError(t, err)
		assert.Equal(t, "new", created.Id)
		var body map[string]any
		require.NoError(t, json.Unmarshal(client.CallsTo(http.MethodPost, "/cash-flow-items/")[0].Body, &body))
		assert.Equal(t, map[string]any{"name": "Travel", "parent": "c1"}, body)
		assert.Equal(t, []event_bus.ResourceChanged{{Resource: Resource, Action: event_bus.ActionCreated, Id: "new"}}, *events)
	})

	t.Run("should require name before calling the API", func(t *testing.T) {
		service, client, events := setup(t)

		_, err := service.Create(context.Background(), Item{Name: "  "})

		assert.ErrorIs(t, err, api.ErrInvalid)
		assert.Contains(t, err.Error(), "name")
		assert.Empty(t, client.Calls())
		assert.Empty(t, *events)
	})
}

func TestServiceImpl_Update(t *testing.T) {
	service, client, _ := setup(t)

	_, err := service.Update(context.Background(), Item{Id: "c1", Name: "Food", Parent: "c1"})

	assert.ErrorIs(t, err, api.ErrInvalid)
	assert.Empty(t, client.Calls())
}

func TestServiceImpl_Delete(t *testing.T) {
	t.Run("should return backend refusal unchanged", func(t *testing.T) {
		// given
		service, client, events := setup(t)
		client.SetError(http.MethodDelete, "/cash-flow-items/c1/", &api.StatusError{
			Method: http.MethodDelete,
			Path:   "/cash-flow-items/c1/",
			Status: http.StatusBadRequest,
			Body:   `{"detail":"Cannot delete a category used by operations"}`,
		})

		// when
		err := service.Delete(context.Background(), "c1")

		// then
		var statusErr *api.StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, "Cannot delete a category used by operations", statusErr.Message())
		assert.Empty(t, *events)
	})

	t.Run("should publish deletion", func(t *testing.T) {
		service, _, events := setup(t)

		require.NoError(t, service.Delete(context.Background(), "c9"))

		assert.Equal(t, event_bus.ActionDeleted, (*events)[0].Action)
	})
}

func TestHandler_Hierarchy(t *testing.T) {
	service, client, _ := setup(t)
	client.SetResponse(http.MethodGet, "/cash-flow-items/hierarchy/", `[{"id":"a"},{"id":"b","parent":"a"}]`)
	handler := NewHandler(service)

	rr := httptest.NewRecorder()
	handler.Hierarchy(rr, httptest.NewRequest(http.MethodGet, "/api/categories/hierarchy", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
	var forest []Node
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &forest))
	require.Len(t, forest, 1)
	assert.Equal(t, UntitledName, forest[0].Name)
	assert.Equal(t, "b", forest[0].Children[0].Id)
}

func TestHandler_List_Unauthenticated(t *testing.T) {
	service, client, _ := setup(t)
	client.SetError(http.MethodGet, "/cash-flow-items/", api.ErrUnauthenticated)

	rr := httptest.NewRecorder()
	NewHandler(service).List(rr, httptest.NewRequest(http.MethodGet, "/api/categories", nil))

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
