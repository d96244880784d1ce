package handler

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"csvinsights/internal/service"

	"github.com/gorilla/mux"
	"github.com/mozillazg/go-unidecode"
)

// multipartOverhead is the allowance for multipart framing on top of the file
const multipartOverhead = 1 << 20

// ReportHandler handles report endpoints
type ReportHandler struct {
	reportSvc      *service.ReportService
	maxUploadBytes int64
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportSvc *service.ReportService, maxUploadBytes int64) *ReportHandler {
	return &ReportHandler{
		reportSvc:      reportSvc,
		maxUploadBytes: maxUploadBytes,
	}
}

// List handles GET /api/reports
func (h *ReportHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	reports, err := h.reportSvc.List(r.Context(), limit)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"reports": reports})
}

// Get handles GET /api/reports/{id}
func (h *ReportHandler) Get(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"report": report})
}

// Create handles POST /api/reports (multipart field "file")
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h.maxUploadBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			writeServiceError(w, r, err)
			return
		}
		writeError(w, http.StatusBadRequest, "no_file")
		return
	}
	defer file.Close()

	id, err := h.reportSvc.Create(r.Context(), header.Filename, file)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"id": id})
}

// Insights handles GET /api/reports/{id}/insights.md
func (h *ReportHandler) Insights(w http.ResponseWriter, r *http.Request) {
	report, err := h.reportSvc.Get(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, insightsFileName(report.FileName)))
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(report.InsightsMd))
}

// ColumnChart handles GET /api/reports/{id}/columns/{column}/chart.png
func (h *ReportHandler) ColumnChart(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	data, err := h.reportSvc.ColumnChart(r.Context(), vars["id"], vars["column"])
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

var unsafeFileChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// insightsFileName derives an ASCII download name from the uploaded file name
func insightsFileName(fileName string) string {
	base := fileName
	lower := strings.ToLower(base)
	for _, ext := range []string{".csv.gzip", ".csv.gz", ".csv.lz4", ".csv"} {
		if strings.HasSuffix(lower, ext) {
			base = base[:len(base)-len(ext)]
			break
		}
	}
	base = unsafeFileChars.ReplaceAllString(unidecode.Unidecode(base), "_")
	base = strings.Trim(base, "_.")
	if base == "" {
		base = "report"
	}
	return base + "-insights.md"
}
