package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/valvedesk/quoting-backoffice/models"
)

func TestSettingCache(t *testing.T) {
	c := NewSettingCache(time.Minute)

	_, ok := c.Get("price.default_validity_days")
	assert.False(t, ok)

	c.Set("price.default_validity_days", "45")
	v, ok := c.Get("price.default_validity_days")
	assert.True(t, ok)
	assert.Equal(t, "45", v)

	c.Delete("price.default_validity_days")
	_, ok = c.Get("price.default_validity_days")
	assert.False(t, ok)
}

func TestNilRedisMenuCacheNeverHits(t *testing.T) {
	c := NewMenuCache(nil, "test:", time.Minute, nil)
	ctx := context.Background()

	c.Set(ctx, 1, []models.Menu{{Code: "quote:price"}})
	_, ok := c.Get(ctx, 1)
	assert.False(t, ok)
	c.Invalidate(ctx, 1)
}

func TestCaptchaVerifyUnknownChallenge(t *testing.T) {
	svc, err := NewCaptchaServiceRotate(time.Minute, 10, 120)
	if err != nil {
		t.Fatalf("captcha init: %v", err)
	}
	assert.False(t, svc.VerifyRotate(context.Background(), "missing", 42))
}
