package llm

import (
	"context"
	"time"

	"csvinsights/internal/logging"

	"github.com/sirupsen/logrus"
)

// RateLimitedAnswer is returned when every attempt hit a transient error
const RateLimitedAnswer = "LLM error: rate_limited_after_retries"

// Answerer turns questions into answers with retries. It never fails:
// provider problems come back as an "LLM error: ..." answer.
type Answerer struct {
	gen    Generator
	delays []time.Duration
	log    *logrus.Entry
	sleep  func(ctx context.Context, d time.Duration) error
}

// NewAnswerer makes one attempt per delay
func NewAnswerer(gen Generator, delays []time.Duration) *Answerer {
	if len(delays) == 0 {
		delays = []time.Duration{0}
	}
	return &Answerer{
		gen:    gen,
		delays: delays,
		log:    logging.For("llm"),
		sleep:  sleepCtx,
	}
}

// Answer asks the generator about the profile
func (a *Answerer) Answer(ctx context.Context, question string, profile any) string {
	prompt := BuildPrompt(question, profile)

	for attempt, delay := range a.delays {
		text, err := a.gen.Generate(ctx, prompt)
		if err == nil {
			return text
		}
		a.log.WithError(err).Warnf("attempt %d failed", attempt+1)

		if !IsRetryable(err) {
			return "LLM error: " + err.Error()
		}
		if attempt == len(a.delays)-1 {
			break
		}
		if err := a.sleep(ctx, delay); err != nil {
			return "LLM error: " + err.Error()
		}
	}
	return RateLimitedAnswer
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
