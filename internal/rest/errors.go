package rest

import (
	"errors"
	"net/http"

	"github.com/finboard/finboard/pkg/api"
	"github.com/finboard/finboard/pkg/session"
	log "github.com/sirupsen/logrus"
)

// StatusFor maps a service error to the status the dashboard answers with.
func StatusFor(err error) int {
	var statusErr *api.StatusError
	switch {
	case errors.Is(err, api.ErrUnauthenticated), errors.Is(err, session.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, api.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, api.ErrInvalid):
		return http.StatusBadRequest
	case errors.As(err, &statusErr):
		if statusErr.Status >= 400 && statusErr.Status < 500 {
			return statusErr.Status
		}
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteServiceError answers with the mapped status. Backend messages are passed through verbatim.
func WriteServiceError(w http.ResponseWriter, err error) {
	status := StatusFor(err)
	if status >= 500 {
		log.Errorf("request failed: %v", err)
	}
	details := ""
	var statusErr *api.StatusError
	if errors.As(err, &statusErr) {
		details = statusErr.Message()
	}
	WriteError(w, status, http.StatusText(status), detailsOr(details, err))
}

func detailsOr(details string, err error) string {
	if details != "" {
		return details
	}
	return err.Error()
}
