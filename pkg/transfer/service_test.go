package transfer

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/finboard/finboard/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceImpl_List(t *testing.T) {
	client := api.NewClientStub()
	client.SetResponse(http.MethodGet, "/transfers/", `[{"id":"t1","amount":"50.00","wallet_out":"w1","wallet_in":"w2","date":"2024-03-01T09:30:00Z"}]`)

	transfers, err := NewService(client, nil).List(context.Background())

	require.NoError(t, err)
	require.Len(t, transfers, 1)
	assert.Equal(t, "w1", transfers[0].WalletFrom)
	assert.Equal(t, "w2", transfers[0].WalletTo)
}

func TestServiceImpl_Create(t *testing.T) {
	date := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("should map wallets to wire names", func(t *testing.T) {
		// given
		client := api.NewClientStub()
		client.SetResponse(http.MethodPost, "/transfers/", `{"id":"t2","wallet_out":"w1","wallet_in":"w2","amount":"10.00"}`)

		// when
		created, err := NewService(client, nil).Create(context.Background(), Transfer{
			Document:   api.Document{Date: date},
			Amount:     10,
			WalletFrom: "w1",
			WalletTo:   "w2",
		})

		// then
		require.NoError(t, err)
		assert.Equal(t, "t2", created.Id)
		var body map[string]any
		require.NoError(t, json.Unmarshal(client.Calls()[0].Body, &body))
		assert.Equal(t, "w1", body["wallet_out"])
		assert.Equal(t, "w2", body["wallet_in"])
		assert.NotContains(t, body, "wallet_from")
		assert.NotContains(t, body, "cash_flow_item")
	})

	t.Run("should reject transfer to the same wallet", func(t *testing.T) {
		client := api.NewClientStub()

		_, err := NewService(client, nil).Create(context.Background(), Transfer{
			Document:   api.Document{Date: date},
			Amount:     10,
			WalletFrom: "w1",
			WalletTo:   "w1",
		})

		assert.ErrorIs(t, err, api.ErrInvalid)
		assert.Empty(t, client.Calls())
	})
}
