package service

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedReport(t *testing.T, repo *fakeRepo) string {
	t.Helper()
	id, err := NewReportService(repo, nil, testLimits).Create(context.Background(), "a.csv", strings.NewReader("a,b\n1,x\n2,y\n"))
	require.NoError(t, err)
	return id
}

func TestAskStoresFollowup(t *testing.T) {
	repo := newFakeRepo()
	c := newFakeCache()
	ans := &fakeAnswerer{}
	b := &fakeBroadcaster{}
	svc := NewFollowupService(repo, c, ans, b, 10)
	id := seedReport(t, repo)

	f, err := svc.Ask(context.Background(), id, "  Which column has gaps?  ")
	require.NoError(t, err)

	assert.Equal(t, "Which column has gaps?", f.Question)
	assert.Equal(t, "answer 1: Which column has gaps?", f.Answer)
	assert.NotEmpty(t, f.ID)
	assert.False(t, f.CreatedAt.IsZero())

	stored := repo.reports[id]
	require.Len(t, stored.Followups, 1)
	assert.Equal(t, *f, stored.Followups[0])

	assert.Empty(t, c.invalidated)
	require.Contains(t, c.items, id)
	assert.Equal(t, stored.Followups, c.items[id].Followups)
	require.Len(t, b.sent, 1)
	assert.Equal(t, id, b.sent[0].reportID)
	assert.Equal(t, MsgFollowupAdded, b.sent[0].msgType)
}

func TestAskKeepsNewestFirstAndCaps(t *testing.T) {
	repo := newFakeRepo()
	svc := NewFollowupService(repo, nil, &fakeAnswerer{}, nil, 3)
	id := seedReport(t, repo)

	for i := 1; i <= 5; i++ {
		_, err := svc.Ask(context.Background(), id, fmt.Sprintf("q%d", i))
		require.NoError(t, err)
	}

	var got []string
	for _, f := range repo.reports[id].Followups {
		got = append(got, f.Question)
	}
	assert.Equal(t, []string{"q5", "q4", "q3"}, got)
}

func TestAskValidation(t *testing.T) {
	repo := newFakeRepo()
	ans := &fakeAnswerer{}
	svc := NewFollowupService(repo, nil, ans, nil, 10)

	_, err := svc.Ask(context.Background(), "bad", "   ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)

	_, err = svc.Ask(context.Background(), "bad", "why?")
	assert.ErrorIs(t, err, ErrInvalidID)

	_, err = svc.Ask(context.Background(), "0123456789abcdef01234567", "why?")
	assert.ErrorIs(t, err, ErrReportNotFound)

	assert.Empty(t, ans.questions)
	assert.Equal(t, 1, repo.gets)
}

func TestAskUsesStoredProfile(t *testing.T) {
	repo := newFakeRepo()
	var seen any
	svc := NewFollowupService(repo, nil, answerFunc(func(q string, p any) string {
		seen = p
		return "ok"
	}), nil, 10)
	id := seedReport(t, repo)

	_, err := svc.Ask(context.Background(), id, "rows?")
	require.NoError(t, err)

	assert.Equal(t, repo.reports[id].Profile, seen)
}

type answerFunc func(q string, p any) string

func (f answerFunc) Answer(ctx context.Context, q string, p any) string { return f(q, p) }

var _ Answerer = answerFunc(nil)

func TestAskWinsOverConcurrentCacheFill(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	c := newFakeCache()
	reports := NewReportService(repo, c, testLimits)
	followups := NewFollowupService(repo, c, &fakeAnswerer{}, nil, 10)
	id := seedReport(t, repo)

	// The reader loads the report, then the follow-up lands before it
	// fills the cache.
	repo.afterGet = func() {
		repo.afterGet = nil
		_, err := followups.Ask(ctx, id, "late question")
		require.NoError(t, err)
	}
	stale, err := reports.Get(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, stale.Followups)

	cached, err := reports.Get(ctx, id)
	require.NoError(t, err)
	require.Len(t, cached.Followups, 1)
	assert.Equal(t, "late question", cached.Followups[0].Question)
}

func TestAskInvalidatesWhenRefreshFails(t *testing.T) {
	repo := newFakeRepo()
	c := newFakeCache()
	svc := NewFollowupService(repo, c, &fakeAnswerer{}, nil, 10)
	id := seedReport(t, repo)
	c.err = errBoom

	_, err := svc.Ask(context.Background(), id, "why?")
	require.NoError(t, err)
	assert.Equal(t, []string{id}, c.invalidated)
}
