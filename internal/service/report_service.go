package service

import (
	"context"
	"io"

	"csvinsights/internal/cache"
	"csvinsights/internal/chart"
	"csvinsights/internal/ingest"
	"csvinsights/internal/insights"
	"csvinsights/internal/logging"
	"csvinsights/internal/model"
	"csvinsights/internal/profile"
	"csvinsights/internal/repository"

	"github.com/sirupsen/logrus"
)

// Report list bounds
const (
	DefaultListLimit = 5
	MaxListLimit     = 5
)

// ReportLimits bound how much of an upload is read and kept
type ReportLimits struct {
	MaxUploadBytes int64
	ProfileRowCap  int
	SampleRowCap   int
}

// ReportService handles report creation and retrieval
type ReportService struct {
	reportRepo  repository.ReportRepo
	reportCache cache.ReportCache
	limits      ReportLimits
	log         *logrus.Entry
}

// NewReportService creates a new report service. reportCache may be nil.
func NewReportService(reportRepo repository.ReportRepo, reportCache cache.ReportCache, limits ReportLimits) *ReportService {
	return &ReportService{
		reportRepo:  reportRepo,
		reportCache: reportCache,
		limits:      limits,
		log:         logging.For("ReportService"),
	}
}

// Create parses an uploaded CSV, profiles it and stores the report
func (s *ReportService) Create(ctx context.Context, fileName string, r io.Reader) (string, error) {
	if fileName == "" {
		fileName = "upload.csv"
	}
	table, err := ingest.Parse(fileName, r, s.limits.MaxUploadBytes)
	if err != nil {
		return "", err
	}

	report := BuildReport(fileName, table, s.limits)
	id, err := s.reportRepo.Create(ctx, report)
	if err != nil {
		return "", err
	}

	s.log.WithFields(logrus.Fields{
		"reportId": id,
		"rows":     report.RowCount,
		"columns":  report.ColumnCount,
	}).Info("report created")
	return id, nil
}

// BuildReport profiles the first ProfileRowCap rows and keeps the first
// SampleRowCap rows as a preview
func BuildReport(fileName string, table *ingest.Table, limits ReportLimits) *model.Report {
	profileRows := headRows(table.Rows, limits.ProfileRowCap)
	sampleRows := headRows(table.Rows, limits.SampleRowCap)

	p := profile.Profile(table.Headers, profileRows)
	md := insights.Heuristic(p, insights.Totals{
		RowCount:    len(table.Rows),
		ColumnCount: len(table.Headers),
	})

	return &model.Report{
		FileName:    fileName,
		RowCount:    len(table.Rows),
		ColumnCount: len(table.Headers),
		Columns:     table.Headers,
		SampleRows:  sampleRows,
		Profile:     p,
		InsightsMd:  md,
		Followups:   []model.Followup{},
	}
}

func headRows(rows []profile.Row, n int) []profile.Row {
	if n < 0 {
		n = 0
	}
	if len(rows) > n {
		return rows[:n]
	}
	return rows
}

// ClampLimit maps a requested list size onto [1, MaxListLimit]. Zero means
// the default.
func ClampLimit(limit int) int {
	switch {
	case limit == 0:
		return DefaultListLimit
	case limit < 1:
		return 1
	case limit > MaxListLimit:
		return MaxListLimit
	}
	return limit
}

// List returns the newest report summaries
func (s *ReportService) List(ctx context.Context, limit int) ([]model.ReportSummary, error) {
	return s.reportRepo.ListRecent(ctx, ClampLimit(limit))
}

// Get returns one report, reading through the cache
func (s *ReportService) Get(ctx context.Context, id string) (*model.Report, error) {
	if err := ValidateID(id); err != nil {
		return nil, err
	}

	if s.reportCache != nil {
		cached, err := s.reportCache.Get(ctx, id)
		if err != nil {
			s.log.WithError(err).Warn("cache read failed")
		} else if cached != nil {
			return cached, nil
		}
	}

	report, err := s.reportRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrReportNotFound
	}

	if s.reportCache != nil {
		if err := s.reportCache.Fill(ctx, report); err != nil {
			s.log.WithError(err).Warn("cache write failed")
		}
	}
	return report, nil
}

// ColumnChart renders the top values of one column as a PNG
func (s *ReportService) ColumnChart(ctx context.Context, id, column string) ([]byte, error) {
	report, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	col, ok := report.Profile.Column(column)
	if !ok {
		return nil, ErrColumnNotFound
	}
	return chart.TopValues(*col)
}
