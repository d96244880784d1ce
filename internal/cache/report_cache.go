package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"csvinsights/internal/model"

	"github.com/redis/go-redis/v9"
)

// ReportCache keeps full report documents in Redis
type ReportCache interface {
	Get(ctx context.Context, id string) (*model.Report, error)
	// Fill stores report only when the key is absent. Readers use it so a
	// slow read never replaces a fresher entry.
	Fill(ctx context.Context, report *model.Report) error
	// Set stores report unless the cached copy has a later UpdatedAt
	Set(ctx context.Context, report *model.Report) error
	Invalidate(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// maxSetAttempts bounds the optimistic WATCH/MULTI loop in Set
const maxSetAttempts = 3

type reportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache creates a new report cache
func NewReportCache(client *redis.Client, ttl time.Duration) ReportCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &reportCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *reportCache) key(id string) string {
	return fmt.Sprintf("report:%s", id)
}

func (c *reportCache) Get(ctx context.Context, id string) (*model.Report, error) {
	data, err := c.client.Get(ctx, c.key(id)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var report model.Report
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *reportCache) Fill(ctx context.Context, report *model.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.client.SetNX(ctx, c.key(report.ID), data, c.ttl).Err()
}

func (c *reportCache) Set(ctx context.Context, report *model.Report) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	key := c.key(report.ID)

	txf := func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, key).Bytes()
		if err != nil && err != redis.Nil {
			return err
		}
		if err == nil {
			var cached model.Report
			if json.Unmarshal(current, &cached) == nil && cached.UpdatedAt.After(report.UpdatedAt) {
				return nil
			}
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, c.ttl)
			return nil
		})
		return err
	}

	for i := 0; i < maxSetAttempts; i++ {
		err := c.client.Watch(ctx, txf, key)
		if err != redis.TxFailedErr {
			return err
		}
	}
	return redis.TxFailedErr
}

func (c *reportCache) Invalidate(ctx context.Context, id string) error {
	return c.client.Del(ctx, c.key(id)).Err()
}

func (c *reportCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
