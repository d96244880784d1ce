package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"csvinsights/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeRepo struct {
	mu       sync.Mutex
	reports  map[string]*model.Report
	order    []string
	gets     int
	pingErr  error
	failNext error
	clock    int
	// afterGet runs once a read has taken its snapshot
	afterGet func()
}

// tick hands out strictly increasing update times
func (r *fakeRepo) tick() time.Time {
	r.clock++
	return time.Date(2024, 1, 1, 0, 0, r.clock, 0, time.UTC)
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{reports: map[string]*model.Report{}}
}

func (r *fakeRepo) Create(ctx context.Context, report *model.Report) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failNext != nil {
		err := r.failNext
		r.failNext = nil
		return "", err
	}
	report.ID = primitive.NewObjectID().Hex()
	report.CreatedAt = r.tick()
	report.UpdatedAt = report.CreatedAt
	cp := *report
	r.reports[report.ID] = &cp
	r.order = append(r.order, report.ID)
	return report.ID, nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*model.Report, error) {
	r.mu.Lock()
	r.gets++
	report, ok := r.reports[id]
	var cp *model.Report
	if ok {
		c := *report
		c.Followups = append([]model.Followup{}, report.Followups...)
		cp = &c
	}
	hook := r.afterGet
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	return cp, nil
}

func (r *fakeRepo) ListRecent(ctx context.Context, limit int) ([]model.ReportSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ReportSummary
	for i := len(r.order) - 1; i >= 0 && len(out) < limit; i-- {
		rep := r.reports[r.order[i]]
		out = append(out, model.ReportSummary{ID: rep.ID, FileName: rep.FileName, RowCount: rep.RowCount, ColumnCount: rep.ColumnCount, CreatedAt: rep.CreatedAt})
	}
	return out, nil
}

func (r *fakeRepo) AddFollowup(ctx context.Context, id string, f model.Followup, keep int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[id]
	if !ok {
		return false, nil
	}
	report.Followups = append([]model.Followup{f}, report.Followups...)
	if len(report.Followups) > keep {
		report.Followups = report.Followups[:keep]
	}
	report.UpdatedAt = r.tick()
	return true, nil
}

func (r *fakeRepo) Ping(ctx context.Context) error { return r.pingErr }

type fakeCache struct {
	mu          sync.Mutex
	items       map[string]*model.Report
	err         error
	sets        int
	fills       int
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{items: map[string]*model.Report{}}
}

func (c *fakeCache) Get(ctx context.Context, id string) (*model.Report, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	return c.items[id], nil
}

func (c *fakeCache) Fill(ctx context.Context, report *model.Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.fills++
	if _, ok := c.items[report.ID]; !ok {
		c.items[report.ID] = report
	}
	return nil
}

func (c *fakeCache) Set(ctx context.Context, report *model.Report) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.sets++
	if cur, ok := c.items[report.ID]; ok && cur.UpdatedAt.After(report.UpdatedAt) {
		return nil
	}
	c.items[report.ID] = report
	return nil
}

func (c *fakeCache) Invalidate(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, id)
	delete(c.items, id)
	return c.err
}

func (c *fakeCache) Ping(ctx context.Context) error { return c.err }

type fakeAnswerer struct {
	questions []string
}

func (a *fakeAnswerer) Answer(ctx context.Context, question string, profile any) string {
	a.questions = append(a.questions, question)
	return fmt.Sprintf("answer %d: %s", len(a.questions), question)
}

type broadcast struct {
	reportID string
	msgType  string
	payload  interface{}
}

type fakeBroadcaster struct {
	sent []broadcast
}

func (b *fakeBroadcaster) BroadcastToReport(reportID string, msgType string, payload interface{}) {
	b.sent = append(b.sent, broadcast{reportID, msgType, payload})
}

var errBoom = errors.New("boom")
