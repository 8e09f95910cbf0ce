package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/valvedesk/quoting-backoffice/models"
)

func unreachableRedis(t *testing.T) *redis.Client {
	t.Helper()
	rc := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = rc.Close() })
	return rc
}

func TestMenuCacheLogsRedisFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	c := NewMenuCache(unreachableRedis(t), "test:", time.Minute, zap.New(core))
	ctx := context.Background()

	_, ok := c.Get(ctx, 7)
	assert.False(t, ok)
	c.Set(ctx, 7, []models.Menu{{Code: "quote:price"}})
	c.Invalidate(ctx, 7)

	require.Equal(t, 3, logs.Len())
	assert.Equal(t, 1, logs.FilterMessage("menu cache read failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("menu cache write failed").Len())
	assert.Equal(t, 1, logs.FilterMessage("menu cache invalidation failed").Len())
	assert.Equal(t, uint64(7), logs.FilterMessage("menu cache read failed").All()[0].ContextMap()["role_id"])
}

func TestMenuCacheWithoutRedisNeverHits(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	c := NewMenuCache(nil, "test:", time.Minute, zap.New(core))
	ctx := context.Background()

	c.Set(ctx, 1, []models.Menu{{Code: "quote:price"}})
	_, ok := c.Get(ctx, 1)
	assert.False(t, ok)
	assert.Zero(t, logs.Len())
}

func TestCaptchaChallengeIsConsumedOnce(t *testing.T) {
	svc, err := NewCaptchaServiceRotate(time.Minute, 10, 120)
	require.NoError(t, err)
	impl := svc.(*captchaServiceImpl)
	impl.store.Set("challenge-1", 90, cache.DefaultExpiration)

	var accepted atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if svc.VerifyRotate(context.Background(), "challenge-1", 90) {
				accepted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), accepted.Load())
	assert.False(t, svc.VerifyRotate(context.Background(), "challenge-1", 90))
}
