package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"league_stats/pkg/logger"
	"league_stats/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// CacheStore 缓存后端，ttl 为 0 表示不过期
type CacheStore interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
	Ping(ctx context.Context) error
}

type memoryItem struct {
	value   []byte
	expires time.Time
}

// MemoryStore 进程内缓存
type MemoryStore struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]memoryItem), now: time.Now}
}

func (m *MemoryStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[key]
	if !ok {
		return nil, false, nil
	}
	if !item.expires.IsZero() && !m.now().Before(item.expires) {
		delete(m.items, key)
		return nil, false, nil
	}
	return item.value, true, nil
}

func (m *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item := memoryItem{value: value}
	if ttl > 0 {
		item.expires = m.now().Add(ttl)
	}
	m.items[key] = item
	return nil
}

func (m *MemoryStore) DeletePrefix(ctx context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.items {
		if strings.HasPrefix(key, prefix) {
			delete(m.items, key)
		}
	}
	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error { return nil }

// RedisStore 多实例部署时共享缓存
type RedisStore struct {
	Client *redis.Client
}

func (r *RedisStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := r.Client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return r.Client.Set(ctx, key, value, ttl).Err()
}

// escapeGlob 转义 SCAN MATCH 的通配符，key 中常见导出 URL 的 ? 和 [
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch r {
		case '*', '?', '[', ']', '^', '-', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (r *RedisStore) DeletePrefix(ctx context.Context, prefix string) error {
	iter := r.Client.Scan(ctx, 0, escapeGlob(prefix)+"*", 200).Iterator()
	var keys []string
	for iter.Next(ctx) {
		if !strings.HasPrefix(iter.Val(), prefix) {
			continue
		}
		keys = append(keys, iter.Val())
		if len(keys) >= 500 {
			if err := r.Client.Del(ctx, keys...).Err(); err != nil {
				return err
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) > 0 {
		return r.Client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *RedisStore) Ping(ctx context.Context) error {
	return r.Client.Ping(ctx).Err()
}

// CacheService 在 CacheStore 之上加统一前缀、JSON 编解码和命中率指标
// 缓存故障只记录日志，不影响请求
type CacheService struct {
	Store  CacheStore
	Prefix string
}

func NewCacheService(store CacheStore, prefix string) *CacheService {
	return &CacheService{Store: store, Prefix: prefix}
}

func (c *CacheService) GetBytes(ctx context.Context, key string) ([]byte, bool) {
	val, ok, err := c.Store.Get(ctx, c.Prefix+key)
	if err != nil {
		logger.Log.Warn("Cache get failed", zap.String("key", key), zap.Error(err))
		monitoring.CacheRequests.WithLabelValues("error").Inc()
		return nil, false
	}
	if !ok {
		monitoring.CacheRequests.WithLabelValues("miss").Inc()
		return nil, false
	}
	monitoring.CacheRequests.WithLabelValues("hit").Inc()
	return val, true
}

func (c *CacheService) SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if err := c.Store.Set(ctx, c.Prefix+key, value, ttl); err != nil {
		logger.Log.Warn("Cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (c *CacheService) GetJSON(ctx context.Context, key string, dst interface{}) bool {
	val, ok := c.GetBytes(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(val, dst); err != nil {
		logger.Log.Warn("Cache entry is corrupt", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *CacheService) SetJSON(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		logger.Log.Warn("Cache encode failed", zap.String("key", key), zap.Error(err))
		return
	}
	c.SetBytes(ctx, key, data, ttl)
}

// Invalidate 删除 prefix 开头的所有条目
func (c *CacheService) Invalidate(ctx context.Context, prefix string) error {
	return c.Store.DeletePrefix(ctx, c.Prefix+prefix)
}

func (c *CacheService) Ping(ctx context.Context) error {
	return c.Store.Ping(ctx)
}
