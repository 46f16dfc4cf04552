package report

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/finboard/finboard/internal/rest"
	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
)

const SaveSnapshotHeader = "X-Save-Snapshot"

type ReportHandler struct {
	reportService ReportService
	csvRenderer   ReportRenderer
}

func NewReportHandler(reportService ReportService, csvRenderer ReportRenderer) *ReportHandler {
	return &ReportHandler{reportService, csvRenderer}
}

// GetReport serves /api/reports/{kind}?from=&to=. Wallet balances are current and ignore the range.
func (handler *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	kind, err := ParseKind(mux.Vars(r)["kind"])
	if err != nil {
		rest.WriteError(w, http.StatusNotFound, "Unknown report", err.Error())
		return
	}

	var rng Range
	if kind != KindWalletBalances {
		rng, err = ParseRange(r.URL.Query().Get("from"), r.URL.Query().Get("to"))
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid date range", err.Error())
			return
		}
	}

	save := false
	if header := r.Header.Get(SaveSnapshotHeader); header != "" {
		save, err = strconv.ParseBool(header)
		if err != nil {
			rest.WriteError(w, http.StatusBadRequest, "Invalid "+SaveSnapshotHeader+" header", err.Error())
			return
		}
	}

	report, err := handler.reportService.Generate(r.Context(), Request{Kind: kind, Range: rng, Save: save})
	if err != nil {
		rest.WriteServiceError(w, err)
		return
	}

	if strings.Contains(r.Header.Get("Accept"), "text/csv") {
		csv, err := handler.csvRenderer.RenderReport(report)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename=\""+string(kind)+".csv\"")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(csv)); err != nil {
			log.Errorf("failed to write csv response: %v", err)
		}
		return
	}
	rest.WriteJSON(w, http.StatusOK, report)
}
