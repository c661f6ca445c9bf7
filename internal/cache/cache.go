package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/derdine/forum-service/internal/storage"
	"github.com/derdine/forum-service/internal/types/settings"
)

// Cache key patterns
const (
	ThemeKey     = "forum:settings:theme"
	LabelsKey    = "forum:settings:labels"
	UIConfigKey  = "forum:settings:config:%s" // forum:settings:config:screen
	UIConfigsKey = "forum:settings:configs"
)

// Settings change rarely and every client screen reads them.
const SettingsCacheDuration = 5 * time.Minute

// SettingsCache wraps a settings store with a Redis read-through cache.
// Writes go to the store first and then drop the affected keys.
type SettingsCache struct {
	storage.SettingsStore
	redis redis.Cmdable
	ttl   time.Duration
}

var _ storage.SettingsStore = (*SettingsCache)(nil)

// NewSettingsCache creates a new settings cache
func NewSettingsCache(store storage.SettingsStore, redisClient redis.Cmdable) *SettingsCache {
	return &SettingsCache{
		SettingsStore: store,
		redis:         redisClient,
		ttl:           SettingsCacheDuration,
	}
}

// lookup fills dest from key. Redis failures count as a miss.
func (c *SettingsCache) lookup(ctx context.Context, key string, dest interface{}) bool {
	cached, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			slog.Warn("Settings cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		}
		return false
	}
	return json.Unmarshal(cached, dest) == nil
}

func (c *SettingsCache) store(ctx context.Context, key string, v interface{}) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.ttl).Err(); err != nil {
		slog.Warn("Settings cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

func (c *SettingsCache) invalidate(ctx context.Context, keys ...string) {
	if err := c.redis.Del(ctx, keys...).Err(); err != nil {
		slog.Warn("Settings cache invalidation failed", slog.Any("keys", keys), slog.String("error", err.Error()))
	}
}

func (c *SettingsCache) GetTheme(ctx context.Context) (*settings.Theme, error) {
	var t settings.Theme
	if c.lookup(ctx, ThemeKey, &t) {
		return &t, nil
	}

	theme, err := c.SettingsStore.GetTheme(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, ThemeKey, theme)
	return theme, nil
}

func (c *SettingsCache) SaveTheme(ctx context.Context, t *settings.Theme) error {
	if err := c.SettingsStore.SaveTheme(ctx, t); err != nil {
		return err
	}
	c.invalidate(ctx, ThemeKey)
	return nil
}

func (c *SettingsCache) GetLabels(ctx context.Context) (*settings.Labels, error) {
	var l settings.Labels
	if c.lookup(ctx, LabelsKey, &l) {
		return &l, nil
	}

	labels, err := c.SettingsStore.GetLabels(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, LabelsKey, labels)
	return labels, nil
}

func (c *SettingsCache) SaveLabels(ctx context.Context, l *settings.Labels) error {
	if err := c.SettingsStore.SaveLabels(ctx, l); err != nil {
		return err
	}
	c.invalidate(ctx, LabelsKey)
	return nil
}

func (c *SettingsCache) GetUIConfig(ctx context.Context, screen string) (*settings.UIConfig, error) {
	key := fmt.Sprintf(UIConfigKey, screen)

	var cfg settings.UIConfig
	if c.lookup(ctx, key, &cfg) {
		return &cfg, nil
	}

	uiConfig, err := c.SettingsStore.GetUIConfig(ctx, screen)
	if err != nil {
		return nil, err
	}
	c.store(ctx, key, uiConfig)
	return uiConfig, nil
}

func (c *SettingsCache) ListUIConfigs(ctx context.Context) ([]settings.UIConfig, error) {
	var list []settings.UIConfig
	if c.lookup(ctx, UIConfigsKey, &list) {
		return list, nil
	}

	list, err := c.SettingsStore.ListUIConfigs(ctx)
	if err != nil {
		return nil, err
	}
	c.store(ctx, UIConfigsKey, list)
	return list, nil
}

func (c *SettingsCache) SaveUIConfig(ctx context.Context, cfg *settings.UIConfig) error {
	if err := c.SettingsStore.SaveUIConfig(ctx, cfg); err != nil {
		return err
	}
	c.invalidate(ctx, fmt.Sprintf(UIConfigKey, cfg.Screen), UIConfigsKey)
	return nil
}
