package handler

import (
	"errors"
	"net/http"

	"csvinsights/internal/chart"
	"csvinsights/internal/ingest"
	"csvinsights/internal/logging"
	"csvinsights/internal/service"
)

type errorBody struct {
	Error   string         `json:"error"`
	Details []ingest.Issue `json:"details,omitempty"`
}

// writeServiceError maps service and ingest errors onto status codes and
// stable error codes
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var parseErr *ingest.ParseError
	var maxBytes *http.MaxBytesError

	switch {
	case errors.As(err, &parseErr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "parse_failed", Details: parseErr.Issues})
	case errors.Is(err, ingest.ErrTooLarge), errors.As(err, &maxBytes):
		writeError(w, http.StatusRequestEntityTooLarge, ingest.ErrTooLarge.Error())
	case errors.Is(err, ingest.ErrNotCSV),
		errors.Is(err, ingest.ErrEmptyCSV),
		errors.Is(err, ingest.ErrNoData),
		errors.Is(err, service.ErrInvalidID),
		errors.Is(err, service.ErrEmptyQuestion):
		writeError(w, http.StatusBadRequest, rootCode(err))
	case errors.Is(err, service.ErrReportNotFound),
		errors.Is(err, service.ErrColumnNotFound),
		errors.Is(err, chart.ErrNoValues):
		writeError(w, http.StatusNotFound, rootCode(err))
	default:
		logging.For("http").WithError(err).WithField("path", r.URL.Path).Error("request failed")
		writeError(w, http.StatusInternalServerError, "internal_error")
	}
}

var codes = []error{
	ingest.ErrNotCSV, ingest.ErrEmptyCSV, ingest.ErrNoData,
	service.ErrInvalidID, service.ErrEmptyQuestion,
	service.ErrReportNotFound, service.ErrColumnNotFound, chart.ErrNoValues,
}

// rootCode returns the sentinel code wrapped in err
func rootCode(err error) string {
	for _, c := range codes {
		if errors.Is(err, c) {
			return c.Error()
		}
	}
	return err.Error()
}
