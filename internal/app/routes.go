package app

import (
	"net/http"

	"github.com/finboard/finboard/internal/rest"
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Wallets
	r.HandleFunc("/api/wallets", deps.WalletHandler.List).Methods("GET")
	r.HandleFunc("/api/wallets/{id}/balance", deps.WalletHandler.Balance).Methods("GET")

	// Categories
	r.HandleFunc("/api/categories", deps.CashflowHandler.List).Methods("GET")
	r.HandleFunc("/api/categories/hierarchy", deps.CashflowHandler.Hierarchy).Methods("GET")

	// Operations
	r.HandleFunc("/api/receipts", deps.ReceiptHandler.List).Methods("GET")
	r.HandleFunc("/api/expenditures", deps.ExpenditureHandler.List).Methods("GET")
	r.HandleFunc("/api/transfers", deps.TransferHandler.List).Methods("GET")
	r.HandleFunc("/api/budgets", deps.BudgetHandler.GetAll).Methods("GET")
	r.HandleFunc("/api/autopayments", deps.AutoPaymentHandler.List).Methods("GET")
	r.HandleFunc("/api/projects", deps.ProjectHandler.List).Methods("GET")

	// Reports
	r.HandleFunc("/api/reports/{kind}", deps.ReportHandler.GetReport).Methods("GET")
	r.HandleFunc("/api/snapshots", deps.SnapshotHandler.List).Methods("GET")
	r.HandleFunc("/api/snapshots/{id}", deps.SnapshotHandler.Get).Methods("GET")

	// Profile
	r.HandleFunc("/api/profile", deps.AuthHandler.Profile).Methods("GET")

	r.HandleFunc("/healthz", healthHandler(deps)).Methods("GET")
}

func healthHandler(deps *Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if deps.DB != nil {
			if err := deps.DB.PingContext(r.Context()); err != nil {
				rest.WriteError(w, http.StatusServiceUnavailable, "Database unavailable", err.Error())
				return
			}
		}
		rest.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
