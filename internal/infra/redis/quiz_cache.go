package redis

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"tubecert-service/internal/app"
	"tubecert-service/internal/domain"
)

// QuizCache is a read-through cache in front of the authoritative quiz
// store. Records are cached as JSON under quiz:cache:{key} with a
// jittered TTL. Purely a latency optimization: every miss and every
// write goes to the inner store, and a cold cache changes nothing
// observable.
type QuizCache struct {
	client *redis.Client
	inner  app.QuizStore
	ttl    time.Duration
	sf     singleflight.Group
	rnd    *rand.Rand
}

func NewQuizCache(client *redis.Client, inner app.QuizStore, ttl time.Duration) *QuizCache {
	return &QuizCache{
		client: client,
		inner:  inner,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (c *QuizCache) Get(ctx context.Context, key string) (domain.QuizRecord, error) {
	cacheKey := c.cacheKey(key)

	if raw, err := c.client.Get(ctx, cacheKey).Bytes(); err == nil {
		var record domain.QuizRecord
		if err := json.Unmarshal(raw, &record); err == nil {
			return record, nil
		}
		// Corrupt entry; fall through to the store.
	}

	result, err, _ := c.sf.Do(key, func() (interface{}, error) {
		// Re-check in case another goroutine filled it.
		if raw, err := c.client.Get(ctx, cacheKey).Bytes(); err == nil {
			var record domain.QuizRecord
			if err := json.Unmarshal(raw, &record); err == nil {
				return record, nil
			}
		}

		record, err := c.inner.Get(ctx, key)
		if err != nil {
			return domain.QuizRecord{}, err
		}
		c.fill(ctx, cacheKey, record)
		return record, nil
	})
	if err != nil {
		return domain.QuizRecord{}, err
	}
	return result.(domain.QuizRecord), nil
}

func (c *QuizCache) Put(ctx context.Context, key string, record domain.QuizRecord) error {
	if err := c.inner.Put(ctx, key, record); err != nil {
		return err
	}
	c.fill(ctx, c.cacheKey(key), record)
	return nil
}

// fill is best effort; the store already holds the record.
func (c *QuizCache) fill(ctx context.Context, cacheKey string, record domain.QuizRecord) {
	raw, err := json.Marshal(record)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, cacheKey, raw, c.ttlWithJitter()).Err()
}

func (c *QuizCache) cacheKey(key string) string {
	return "quiz:cache:" + key
}

func (c *QuizCache) ttlWithJitter() time.Duration {
	if c.ttl <= 0 {
		return 0
	}
	// up to 10% jitter to spread expirations
	jitterMax := int64(c.ttl) / 10
	return c.ttl + time.Duration(c.rnd.Int63n(jitterMax+1))
}
