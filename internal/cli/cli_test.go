package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/finboard/finboard/internal/app"
	"github.com/finboard/finboard/internal/config"
	"github.com/finboard/finboard/internal/test_utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type response struct {
	status int
	body   string
}

// fakeAPI answers canned responses and rejects authenticated routes without a bearer token.
type fakeAPI struct {
	mu        sync.Mutex
	responses map[string]response
	requests  []string
}

func (f *fakeAPI) set(method, path string, status int, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.responses[method+" "+path] = response{status: status, body: body}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	key := r.Method + " " + r.URL.Path
	f.requests = append(f.requests, key)
	resp, ok := f.responses[key]
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if r.URL.Path != "/auth/token/" && r.Header.Get("Authorization") == "" {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"Authentication credentials were not provided."}`))
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Not found."}`))
		return
	}
	w.WriteHeader(resp.status)
	_, _ = w.Write([]byte(resp.body))
}

func setup(t *testing.T) (*App, *fakeAPI, func()) {
	api := &fakeAPI{responses: map[string]response{}}
	server := httptest.NewServer(api)
	db := test_utils.SetupTestDB(t)

	a := NewApp()
	a.LoadConfig = func(path string) (config.Application, error) {
		return config.Application{
			API:     config.API{BaseURL: server.URL, Timeout: 5 * time.Second},
			Reports: config.Reports{Concurrency: 2},
		}, nil
	}
	a.Build = func(cfg config.Application) (*app.Dependencies, error) {
		return app.BuildDependencies(db, cfg), nil
	}

	return a, api, func() {
		t.Log("Teardown after test")
		_ = a.Close()
		server.Close()
	}
}

func execute(a *App, args ...string) (string, error) {
	root := NewRootCmd(a)
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

func login(t *testing.T, a *App, api *fakeAPI) {
	t.Helper()
	api.set(http.MethodPost, "/auth/token/", http.StatusOK, `{"access":"a1","refresh":"r1"}`)
	api.set(http.MethodGet, "/profile/", http.StatusOK, `{"id":1,"username":"ada","first_name":"Ada","last_name":"Lovelace"}`)
	_, err := execute(a, "login", "--username", "ada", "--password", "secret")
	require.NoError(t, err)
}

func TestLoginCmd(t *testing.T) {
	t.Run("should log in with flags and keep the session for later commands", func(t *testing.T) {
		a, api, teardown := setup(t)
		defer teardown()

		// given
		api.set(http.MethodPost, "/auth/token/", http.StatusOK, `{"access":"a1","refresh":"r1"}`)
		api.set(http.MethodGet, "/profile/", http.StatusOK, `{"id":1,"username":"ada","first_name":"Ada"}`)

		// when
		out, err := execute(a, "login", "-u", "ada", "-p", "secret")

		// then
		require.NoError(t, err)
		assert.Contains(t, out, "Logged in as")

		out, err = execute(a, "whoami", "-o", "json")
		require.NoError(t, err)
		var profile map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &profile))
		assert.Equal(t, "ada", profile["username"])
	})

	t.Run("should fail without credentials when not interactive", func(t *testing.T) {
		a, api, teardown := setup(t)
		defer teardown()

		_, err := execute(a, "login")

		assert.Error(t, err)
		assert.Empty(t, api.requests)
	})

	t.Run("should require a login for whoami", func(t *testing.T) {
		a, _, teardown := setup(t)
		defer teardown()

		_, err := execute(a, "whoami")

		assert.Error(t, err)
	})
}

func TestWalletCmd(t *testing.T) {
	t.Run("should list wallets as a table", func(t *testing.T) {
		a, api, teardown := setup(t)
		defer teardown()
		login(t, a, api)

		// given
		api.set(http.MethodGet, "/wallets/", http.StatusOK, `[{"id":1,"name":"Cash","hidden":false},{"id":2,"name":"Bank","code":"B"}]`)

		// when
		out, err := execute(a, "wallets", "list")

		// then
		require.NoError(t, err)
		assert.Contains(t, out, "Cash")
		assert.Contains(t, out, "Bank")
	})

	t.Run("should list wallets as csv", func(t *testing.T) {
		a, api, teardown := setup(t)
		defer teardown()
		login(t, a, api)
		api.set(http.MethodGet, "/wallets/", http.StatusOK, `[{"id":1,"name":"Cash"}]`)

		out, err := execute(a, "wallets", "list", "--output", "csv")

		require.NoError(t, err)
		assert.Equal(t, "Id,Name,Code,Hidden\n1,Cash,,false\n", out)
	})

	t.Run("should reject an unknown output format", func(t *testing.T) {
		a, _, teardown := setup(t)
		defer teardown()

		_, err := execute(a, "wallets", "list", "-o", "xml")

		assert.ErrorContains(t, err, "unknown output format")
	})
}

func TestCategoryCmd(t *testing.T) {
	t.Run("should surface the backend refusal when deleting a used category", func(t *testing.T) {
		a, api, teardown := setup(t)
		defer teardown()
		login(t, a, api)

		// given
		api.set(http.MethodDelete, "/cash-flow-items/7/", http.StatusBadRequest, `{"detail":"Cannot delete a category used by operations"}`)

		// when
		_, err := execute(a, "categories", "delete", "7")

		// then
		assert.ErrorContains(t, err, "Cannot delete a category used by operations")
	})

	t.Run("should draw the category tree", func(t *testing.T) {
		a, api, teardown := setup(t)
		defer teardown()
		login(t, a, api)
		api.set(http.MethodGet, "/cash-flow-items/hierarchy/", http.StatusOK,
			`[{"id":"1","name":"Food"},{"id":"2","name":"Groceries","parent":"1"}]`)

		out, err := execute(a, "categories", "tree")

		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(out), "\n")
		require.Len(t, lines, 2)
		assert.True(t, strings.HasPrefix(lines[0], "Food"))
		assert.Contains(t, lines[1], "└─ Groceries")
	})
}

func TestReportCmd(t *testing.T) {
	t.Run("should require a period for the budget report", func(t *testing.T) {
		a, api, teardown := setup(t)
		defer teardown()
		login(t, a, api)

		_, err := execute(a, "report", "budget", "--from", "2024-01-01")

		assert.ErrorContains(t, err, "to")
	})

	t.Run("should save a wallets report and list it as a snapshot", func(t *testing.T) {
		a, api, teardown := setup(t)
		defer teardown()
		login(t, a, api)

		// given
		api.set(http.MethodGet, "/wallets/", http.StatusOK, `[{"id":1,"name":"Cash"},{"id":2,"name":"Bank"}]`)
		api.set(http.MethodGet, "/wallets/1/balance/", http.StatusOK, `{"wallet":"1","balance":"150.00"}`)
		api.set(http.MethodGet, "/wallets/2/balance/", http.StatusOK, `{"wallet":"2","balance":"-50.00"}`)

		// when
		out, err := execute(a, "report", "wallets", "--save", "-o", "csv")

		// then
		require.NoError(t, err)
		assert.Contains(t, out, "Cash,150.00")

		out, err = execute(a, "snapshots", "list", "-o", "json")
		require.NoError(t, err)
		var snapshots []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &snapshots))
		require.Len(t, snapshots, 1)
		assert.Equal(t, "wallet-balances", snapshots[0]["kind"])

		id := snapshots[0]["id"].(string)
		out, err = execute(a, "snapshots", "show", id, "-o", "json")
		require.NoError(t, err)
		assert.Contains(t, out, `"payload"`)

		_, err = execute(a, "snapshots", "delete", id)
		require.NoError(t, err)
		_, err = execute(a, "snapshots", "show", id)
		assert.Error(t, err)
	})

	t.Run("should refuse publishing to sheets when disabled", func(t *testing.T) {
		a, api, teardown := setup(t)
		defer teardown()
		login(t, a, api)
		api.set(http.MethodGet, "/wallets/", http.StatusOK, `[]`)

		_, err := execute(a, "report", "wallets", "--sheet", "Balances")

		assert.ErrorContains(t, err, "sheets publishing is disabled")
	})
}

func TestBudgetCmd(t *testing.T) {
	t.Run("should reject an unknown budget type", func(t *testing.T) {
		a, api, teardown := setup(t)
		defer teardown()
		login(t, a, api)

		_, err := execute(a, "budgets", "list", "--type", "savings")

		assert.Error(t, err)
	})
}
