package snapshot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/finboard/finboard/internal/rest"
	"github.com/gorilla/mux"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			rest.WriteError(w, http.StatusBadRequest, "Invalid limit", "limit must be a non-negative number")
			return
		}
		limit = parsed
	}

	snapshots, err := h.service.List(r.Context(), r.URL.Query().Get("kind"), limit)
	if err != nil {
		rest.WriteServiceError(w, err)
		return
	}
	dtos := make([]SnapshotDTO, 0, len(snapshots))
	for _, s := range snapshots {
		dtos = append(dtos, SummaryDTO(s))
	}
	rest.WriteJSON(w, http.StatusOK, dtos)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.Get(r.Context(), mux.Vars(r)["id"])
	if errors.Is(err, ErrSnapshotNotFound) {
		rest.WriteError(w, http.StatusNotFound, "Snapshot not found", err.Error())
		return
	}
	if err != nil {
		rest.WriteServiceError(w, err)
		return
	}
	rest.WriteJSON(w, http.StatusOK, SnapshotToDTO(snapshot))
}
