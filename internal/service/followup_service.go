package service

import (
	"context"
	"strings"
	"time"

	"csvinsights/internal/cache"
	"csvinsights/internal/logging"
	"csvinsights/internal/model"
	"csvinsights/internal/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Answerer produces an answer for a question about a dataset profile. It
// reports failures inside the answer text.
type Answerer interface {
	Answer(ctx context.Context, question string, profile any) string
}

// FollowupService answers questions about stored reports
type FollowupService struct {
	reportRepo   repository.ReportRepo
	reportCache  cache.ReportCache
	answerer     Answerer
	broadcaster  Broadcaster
	maxFollowups int
	now          func() time.Time
	log          *logrus.Entry
}

// NewFollowupService creates a new follow-up service. reportCache and
// broadcaster may be nil.
func NewFollowupService(reportRepo repository.ReportRepo, reportCache cache.ReportCache, answerer Answerer, broadcaster Broadcaster, maxFollowups int) *FollowupService {
	if broadcaster == nil {
		broadcaster = noopBroadcaster{}
	}
	if maxFollowups <= 0 {
		maxFollowups = 10
	}
	return &FollowupService{
		reportRepo:   reportRepo,
		reportCache:  reportCache,
		answerer:     answerer,
		broadcaster:  broadcaster,
		maxFollowups: maxFollowups,
		now:          func() time.Time { return time.Now().UTC() },
		log:          logging.For("FollowupService"),
	}
}

// Ask answers question against the report's profile and stores the pair
// as the newest follow-up
func (s *FollowupService) Ask(ctx context.Context, reportID, question string) (*model.Followup, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, ErrEmptyQuestion
	}
	if err := ValidateID(reportID); err != nil {
		return nil, err
	}

	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if report == nil {
		return nil, ErrReportNotFound
	}

	followup := model.Followup{
		ID:        uuid.New().String(),
		Question:  question,
		Answer:    s.answerer.Answer(ctx, question, report.Profile),
		CreatedAt: s.now(),
	}

	found, err := s.reportRepo.AddFollowup(ctx, reportID, followup, s.maxFollowups)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrReportNotFound
	}

	s.refreshCache(ctx, reportID)
	s.broadcaster.BroadcastToReport(reportID, MsgFollowupAdded, followup)

	s.log.WithField("reportId", reportID).Info("follow-up answered")
	return &followup, nil
}

// refreshCache overwrites the cached report with the stored one. Readers
// only fill an absent key, so an older copy cannot come back afterwards.
func (s *FollowupService) refreshCache(ctx context.Context, reportID string) {
	if s.reportCache == nil {
		return
	}
	fresh, err := s.reportRepo.GetByID(ctx, reportID)
	if err == nil && fresh != nil {
		if err = s.reportCache.Set(ctx, fresh); err == nil {
			return
		}
	}
	if err != nil {
		s.log.WithError(err).Warn("cache refresh failed")
	}
	if err := s.reportCache.Invalidate(ctx, reportID); err != nil {
		s.log.WithError(err).Warn("cache invalidate failed")
	}
}
