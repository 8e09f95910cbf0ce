package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/valvedesk/quoting-backoffice/models"
)

// MenuCache stores the menus granted to each role
type MenuCache interface {
	Get(ctx context.Context, roleID uint) ([]models.Menu, bool)
	Set(ctx context.Context, roleID uint, menus []models.Menu)
	Invalidate(ctx context.Context, roleIDs ...uint)
}

type redisMenuCache struct {
	rc     *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// NewMenuCache returns a redis backed cache, or a cache that never hits when rc is nil
func NewMenuCache(rc *redis.Client, prefix string, ttl time.Duration, logger *zap.Logger) MenuCache {
	if rc == nil {
		return noopMenuCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &redisMenuCache{rc: rc, prefix: prefix, ttl: ttl, logger: logger}
}

func (c *redisMenuCache) key(roleID uint) string {
	return fmt.Sprintf("%srole_menus:%d", c.prefix, roleID)
}

func (c *redisMenuCache) Get(ctx context.Context, roleID uint) ([]models.Menu, bool) {
	bs, err := c.rc.Get(ctx, c.key(roleID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("menu cache read failed", zap.Uint("role_id", roleID), zap.Error(err))
		}
		return nil, false
	}

	var menus []models.Menu
	if err := json.Unmarshal(bs, &menus); err != nil {
		c.logger.Warn("menu cache entry unreadable", zap.Uint("role_id", roleID), zap.Error(err))
		return nil, false
	}
	return menus, true
}

func (c *redisMenuCache) Set(ctx context.Context, roleID uint, menus []models.Menu) {
	bs, err := json.Marshal(menus)
	if err != nil {
		return
	}
	if err := c.rc.Set(ctx, c.key(roleID), bs, c.ttl).Err(); err != nil {
		c.logger.Warn("menu cache write failed", zap.Uint("role_id", roleID), zap.Error(err))
	}
}

func (c *redisMenuCache) Invalidate(ctx context.Context, roleIDs ...uint) {
	if len(roleIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(roleIDs))
	for _, id := range roleIDs {
		keys = append(keys, c.key(id))
	}
	if err := c.rc.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("menu cache invalidation failed", zap.Uints("role_ids", roleIDs), zap.Error(err))
	}
}

type noopMenuCache struct{}

func (noopMenuCache) Get(context.Context, uint) ([]models.Menu, bool) { return nil, false }
func (noopMenuCache) Set(context.Context, uint, []models.Menu)        {}
func (noopMenuCache) Invalidate(context.Context, ...uint)              {}
