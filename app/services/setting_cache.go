package services

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// SettingCache keeps recently read system settings in memory
type SettingCache interface {
	Get(key string) (string, bool)
	Set(key, value string)
	Delete(key string)
}

type settingCache struct {
	c *cache.Cache
}

// NewSettingCache creates a settings cache whose entries live for ttl
func NewSettingCache(ttl time.Duration) SettingCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &settingCache{c: cache.New(ttl, 2*ttl)}
}

func (s *settingCache) Get(key string) (string, bool) {
	v, found := s.c.Get(key)
	if !found {
		return "", false
	}
	str, ok := v.(string)
	return str, ok
}

func (s *settingCache) Set(key, value string) {
	s.c.Set(key, value, cache.DefaultExpiration)
}

func (s *settingCache) Delete(key string) {
	s.c.Delete(key)
}
