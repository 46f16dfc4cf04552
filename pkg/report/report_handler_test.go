package report

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/finboard/finboard/pkg/api"
	"github.com/finboard/finboard/pkg/wallet"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reportServiceStub struct {
	requests []Request
	report   Report
	err      error
}

func (s *reportServiceStub) Generate(ctx context.Context, request Request) (Report, error) {
	s.requests = append(s.requests, request)
	return s.report, s.err
}

func serve(handler *ReportHandler, req *http.Request) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc("/api/reports/{kind}", handler.GetReport).Methods("GET")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestReportHandler_GetReport(t *testing.T) {
	balances := WalletBalances([]wallet.Wallet{{Id: "w1", Name: "Cash"}}, map[string]float64{"w1": 10})

	t.Run("should answer with json and pass the save header", func(t *testing.T) {
		// given
		service := &reportServiceStub{report: IncomeExpense(nil, nil, Range{})}
		handler := NewReportHandler(service, NewCsvReportRenderer())
		req := httptest.NewRequest("GET", "/api/reports/income-expense?from=2024-01-01&to=2024-01-31", nil)
		req.Header.Set(SaveSnapshotHeader, "true")

		// when
		rr := serve(handler, req)

		// then
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
		require.Len(t, service.requests, 1)
		assert.Equal(t, KindIncomeExpense, service.requests[0].Kind)
		assert.True(t, service.requests[0].Save)
		assert.Equal(t, 31, service.requests[0].Range.To.Day())
		var body map[string]any
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
		assert.Contains(t, body, "daily")
	})

	t.Run("should render csv when asked", func(t *testing.T) {
		handler := NewReportHandler(&reportServiceStub{report: balances}, NewCsvReportRenderer())
		req := httptest.NewRequest("GET", "/api/reports/wallet-balances", nil)
		req.Header.Set("Accept", "text/csv")

		rr := serve(handler, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "text/csv; charset=utf-8", rr.Header().Get("Content-Type"))
		assert.True(t, strings.HasPrefix(rr.Body.String(), "\ufeffWallet,Balance,Share %"))
	})

	tests := []struct {
		name   string
		url    string
		header string
		status int
	}{
		{name: "should reject an unknown report", url: "/api/reports/forecast", status: http.StatusNotFound},
		{name: "should reject a missing range", url: "/api/reports/categories", status: http.StatusBadRequest},
		{name: "should reject a reversed range", url: "/api/reports/categories?from=2024-02-01&to=2024-01-01", status: http.StatusBadRequest},
		{name: "should reject a malformed save header", url: "/api/reports/wallet-balances", header: "maybe", status: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &reportServiceStub{report: balances}
			handler := NewReportHandler(service, NewCsvReportRenderer())
			req := httptest.NewRequest("GET", tt.url, nil)
			if tt.header != "" {
				req.Header.Set(SaveSnapshotHeader, tt.header)
			}

			rr := serve(handler, req)

			assert.Equal(t, tt.status, rr.Code)
			assert.Empty(t, service.requests)
		})
	}

	t.Run("should map service errors", func(t *testing.T) {
		// given
		service := &reportServiceStub{err: errors.Join(errors.New("failed to fetch budgets"), api.ErrUnauthenticated)}
		handler := NewReportHandler(service, NewCsvReportRenderer())
		req := httptest.NewRequest("GET", "/api/reports/budget-execution?from=2024-01-01&to=2024-01-31", nil)

		// when
		rr := serve(handler, req)

		// then
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}
