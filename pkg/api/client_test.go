package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/finboard/finboard/pkg/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type refresherFunc func(ctx context.Context, refreshToken string) (string, error)

func (f refresherFunc) Refresh(ctx context.Context, refreshToken string) (string, error) {
	return f(ctx, refreshToken)
}

type walletDTO struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

func setup(t *testing.T, handler http.HandlerFunc, token *oauth2.Token) (*ClientImpl, *session.MemoryStore) {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	store := session.NewMemoryStore(token)
	return NewClient(server.URL+"/api/v1", server.Client(), store), store
}

func TestClientImpl_Get(t *testing.T) {
	t.Run("should send bearer token and decode response", func(t *testing.T) {
		// given
		var gotAuth, gotPath, gotQuery string
		client, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			gotPath = r.URL.Path
			gotQuery = r.URL.RawQuery
			_, _ = w.Write([]byte(`[{"id":"w1","name":"Cash"}]`))
		}, &oauth2.Token{AccessToken: "access-1", RefreshToken: "refresh-1"})

		// when
		var wallets []walletDTO
		err := client.Get(context.Background(), "/expenditures/", url.Values{"include_in_budget": {"true"}}, &wallets)

		// then
		require.NoError(t, err)
		assert.Equal(t, "Bearer access-1", gotAuth)
		assert.Equal(t, "/api/v1/expenditures/", gotPath)
		assert.Equal(t, "include_in_budget=true", gotQuery)
		assert.Equal(t, []walletDTO{{Id: "w1", Name: "Cash"}}, wallets)
	})

	t.Run("should refresh once on 401 and retry with the new token", func(t *testing.T) {
		// given
		var calls atomic.Int32
		client, store := setup(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			if r.Header.Get("Authorization") != "Bearer access-2" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"id":"w1","name":"Cash"}`))
		}, &oauth2.Token{AccessToken: "access-1", RefreshToken: "refresh-1"})
		var refreshedWith []string
		client.SetRefresher(refresherFunc(func(ctx context.Context, refreshToken string) (string, error) {
			refreshedWith = append(refreshedWith, refreshToken)
			return "access-2", nil
		}))

		// when
		var wallet walletDTO
		err := client.Get(context.Background(), "/wallets/w1/", nil, &wallet)

		// then
		require.NoError(t, err)
		assert.Equal(t, "Cash", wallet.Name)
		assert.Equal(t, int32(2), calls.Load())
		assert.Equal(t, []string{"refresh-1"}, refreshedWith)
		stored, _ := store.Load(context.Background())
		assert.Equal(t, "access-2", stored.AccessToken)
		assert.Equal(t, "refresh-1", stored.RefreshToken)
	})

	t.Run("should clear tokens when refresh fails", func(t *testing.T) {
		// given
		client, store := setup(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}, &oauth2.Token{AccessToken: "expired", RefreshToken: "revoked"})
		client.SetRefresher(refresherFunc(func(ctx context.Context, refreshToken string) (string, error) {
			return "", errors.New("refresh rejected")
		}))

		// when
		err := client.Get(context.Background(), "/wallets/", nil, nil)

		// then
		assert.ErrorIs(t, err, ErrUnauthenticated)
		stored, _ := store.Load(context.Background())
		assert.Nil(t, stored)
	})

	t.Run("should be terminal without refresh token", func(t *testing.T) {
		client, store := setup(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}, &oauth2.Token{AccessToken: "expired"})
		refreshed := false
		client.SetRefresher(refresherFunc(func(ctx context.Context, refreshToken string) (string, error) {
			refreshed = true
			return "new", nil
		}))

		err := client.Get(context.Background(), "/wallets/", nil, nil)

		assert.ErrorIs(t, err, ErrUnauthenticated)
		assert.False(t, refreshed)
		stored, _ := store.Load(context.Background())
		assert.Nil(t, stored)
	})

	t.Run("should not refresh twice when retry is unauthorized too", func(t *testing.T) {
		// given
		var calls atomic.Int32
		client, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
			calls.Add(1)
			w.WriteHeader(http.StatusUnauthorized)
		}, &oauth2.Token{AccessToken: "a", RefreshToken: "r"})
		var refreshes atomic.Int32
		client.SetRefresher(refresherFunc(func(ctx context.Context, refreshToken string) (string, error) {
			refreshes.Add(1)
			return "b", nil
		}))

		// when
		err := client.Get(context.Background(), "/wallets/", nil, nil)

		// then
		assert.ErrorIs(t, err, ErrUnauthenticated)
		assert.Equal(t, int32(1), refreshes.Load())
		assert.Equal(t, int32(2), calls.Load())
	})

	t.Run("should map 404 to ErrNotFound and keep server message", func(t *testing.T) {
		client, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte(`{"detail":"Not found."}`))
		}, nil)

		err := client.Get(context.Background(), "/wallets/missing/", nil, nil)

		assert.ErrorIs(t, err, ErrNotFound)
		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, "Not found.", statusErr.Message())
	})
}

func TestClientImpl_Mutations(t *testing.T) {
	t.Run("should send JSON body and accept empty responses", func(t *testing.T) {
		// given
		var gotMethod, gotContentType string
		var gotBody map[string]any
		client, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotContentType = r.Header.Get("Content-Type")
			_ = json.NewDecoder(r.Body).Decode(&gotBody)
			w.WriteHeader(http.StatusNoContent)
		}, &oauth2.Token{AccessToken: "a"})

		// when
		var out walletDTO
		err := client.Put(context.Background(), "/wallets/w1/", map[string]any{"name": "Card", "amount": Amount(12.5)}, &out)

		// then
		require.NoError(t, err)
		assert.Equal(t, http.MethodPut, gotMethod)
		assert.Equal(t, "application/json", gotContentType)
		assert.Equal(t, "Card", gotBody["name"])
		assert.Equal(t, "12.50", gotBody["amount"])
	})

	t.Run("should surface backend refusal on delete", func(t *testing.T) {
		client, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"detail":"Cannot delete a category used by operations"}`))
		}, &oauth2.Token{AccessToken: "a"})

		err := client.Delete(context.Background(), "/cash-flow-items/c1/")

		require.Error(t, err)
		assert.True(t, IsClientError(err))
		assert.Contains(t, err.Error(), "Cannot delete a category used by operations")
	})

	t.Run("should not send credentials on public requests", func(t *testing.T) {
		var gotAuth string
		client, _ := setup(t, func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			w.WriteHeader(http.StatusUnauthorized)
		}, &oauth2.Token{AccessToken: "a", RefreshToken: "r"})
		client.SetRefresher(refresherFunc(func(ctx context.Context, refreshToken string) (string, error) {
			t.Fatal("public requests must not refresh")
			return "", nil
		}))

		err := client.PostPublic(context.Background(), "/auth/token/", map[string]string{"username": "u"}, nil)

		assert.ErrorIs(t, err, ErrUnauthenticated)
		assert.Empty(t, gotAuth)
	})
}

func TestClientImpl_ConcurrentUnauthorized(t *testing.T) {
	t.Run("should clear a shared context session from parallel requests without racing", func(t *testing.T) {
		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		t.Cleanup(server.Close)
		fallback := session.NewMemoryStore(&oauth2.Token{AccessToken: "stored"})
		client := NewClient(server.URL, server.Client(), session.ContextStore{Fallback: fallback})
		ctx := session.WithSession(context.Background(), session.FromToken("expired", ""))

		// when
		var wg sync.WaitGroup
		errs := make([]error, 8)
		for i := range errs {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				errs[i] = client.Get(ctx, "/wallets/", nil, nil)
			}(i)
		}
		wg.Wait()

		// then
		for _, err := range errs {
			assert.ErrorIs(t, err, ErrUnauthenticated)
		}
		current, err := session.Current(ctx)
		require.NoError(t, err)
		assert.False(t, current.Authenticated())
		stored, _ := fallback.Load(context.Background())
		require.NotNil(t, stored)
		assert.Equal(t, "stored", stored.AccessToken)
	})
}
