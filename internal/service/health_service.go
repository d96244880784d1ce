package service

import (
	"context"
	"time"

	"csvinsights/internal/cache"
	"csvinsights/internal/config"
	"csvinsights/internal/model"
	"csvinsights/internal/repository"
)

const healthTimeout = 2 * time.Second

// HealthService reports the state of the server's dependencies. It never
// calls the LLM provider.
type HealthService struct {
	reportRepo  repository.ReportRepo
	reportCache cache.ReportCache
	ai          *config.AIConfig
	now         func() time.Time
}

// NewHealthService creates a new health service. reportCache may be nil.
func NewHealthService(reportRepo repository.ReportRepo, reportCache cache.ReportCache, ai *config.AIConfig) *HealthService {
	return &HealthService{
		reportRepo:  reportRepo,
		reportCache: reportCache,
		ai:          ai,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Check pings the database and the cache
func (s *HealthService) Check(ctx context.Context) model.Health {
	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	h := model.Health{Backend: model.ComponentHealth{OK: true}}

	if err := s.reportRepo.Ping(ctx); err != nil {
		h.DB = model.DBHealth{OK: false, State: model.DBDisconnected, Error: err.Error()}
	} else {
		h.DB = model.DBHealth{OK: true, State: model.DBConnected}
	}

	switch {
	case s.reportCache == nil:
		h.Cache = model.ComponentHealth{OK: false, Error: "disabled"}
	default:
		if err := s.reportCache.Ping(ctx); err != nil {
			h.Cache = model.ComponentHealth{OK: false, Error: err.Error()}
		} else {
			h.Cache = model.ComponentHealth{OK: true}
		}
	}

	configured := s.ai != nil && s.ai.IsConfigured()
	h.LLM = model.LLMHealth{
		OK:         configured,
		Configured: configured,
		Timestamp:  s.now(),
	}
	if s.ai != nil {
		h.LLM.Provider = s.ai.Provider
		if s.ai.Provider == config.ProviderGemini {
			h.LLM.Model = s.ai.Model
		}
	}
	return h
}
