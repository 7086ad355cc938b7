package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/barrymichaeldoyle/rightfront/internal/app/applink/probe"
	"github.com/barrymichaeldoyle/rightfront/internal/platform/metrics"
	"github.com/redis/go-redis/v9"
)

// Entry 是一次完成的可用性扫描的缓存体。
type Entry struct {
	FetchedAt time.Time          `json:"fetched_at"`
	Available []string           `json:"available"`
	App       *probe.AppMetadata `json:"app,omitempty"`
}

// AvailabilityCache 按作用域键缓存扫描结果，避免新鲜期内重复扇出探测。
//
// L1 是本地 ristretto，L2 是可选的 Redis（多实例共享）。两层都可以缺席：
// local 为 nil 时只剩 Redis，client 为 nil 时是纯本地缓存。
// 新鲜度以 Entry.FetchedAt 对比注入的时钟判断，而不是依赖底层过期——
// 这样测试可以用假时钟精确控制。
//
// 同一个键并发重算时后写覆盖先写。扫描结果只是参考数据，不值得为它上锁。
type AvailabilityCache struct {
	client *redis.Client // L2，可为 nil
	local  *LocalCache   // L1，可为 nil
	ttl    time.Duration
	now    func() time.Time
}

func NewAvailabilityCache(client *redis.Client, local *LocalCache, ttl time.Duration, now func() time.Time) *AvailabilityCache {
	if now == nil {
		now = time.Now
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &AvailabilityCache{
		client: client,
		local:  local,
		ttl:    ttl,
		now:    now,
	}
}

// GetOrCompute 返回键对应的条目，以及它是否命中缓存。
//
// 新鲜期内且未要求强刷时直接返回缓存；否则调 compute 重算并回写两层。
// compute 的结果会盖上当前时间戳。
func (c *AvailabilityCache) GetOrCompute(ctx context.Context, key string, refresh bool, compute func(ctx context.Context) Entry) (Entry, bool) {
	if !refresh {
		if e, ok := c.getFresh(ctx, key); ok {
			return e, true
		}
	} else {
		metrics.CacheOperations.WithLabelValues("l1", "refresh").Inc()
	}

	e := compute(ctx)
	e.FetchedAt = c.now()
	c.store(ctx, key, e)
	return e, false
}

func (c *AvailabilityCache) getFresh(ctx context.Context, key string) (Entry, bool) {
	// L1: 本地缓存
	if c.local != nil {
		if e, ok := c.local.Get(key); ok && c.fresh(e) {
			metrics.CacheOperations.WithLabelValues("l1", "hit").Inc()
			return e, true
		}
		metrics.CacheOperations.WithLabelValues("l1", "miss").Inc()
	}

	// L2: Redis
	if c.client != nil {
		res, err := c.client.Get(ctx, "av:"+key).Result()
		if err != nil {
			if err != redis.Nil {
				slog.Error("availability cache: redis get failed", "err", err)
			}
			metrics.CacheOperations.WithLabelValues("l2", "miss").Inc()
			return Entry{}, false
		}

		var e Entry
		if err := json.Unmarshal([]byte(res), &e); err != nil {
			slog.Error("availability cache: bad entry", "key", key, "err", err)
			return Entry{}, false
		}
		if !c.fresh(e) {
			metrics.CacheOperations.WithLabelValues("l2", "miss").Inc()
			return Entry{}, false
		}

		metrics.CacheOperations.WithLabelValues("l2", "hit").Inc()
		// 回填本地缓存
		if c.local != nil {
			c.local.Set(key, e)
		}
		return e, true
	}

	return Entry{}, false
}

func (c *AvailabilityCache) store(ctx context.Context, key string, e Entry) {
	if c.local != nil {
		c.local.Set(key, e)
	}
	if c.client != nil {
		data, err := json.Marshal(e)
		if err != nil {
			return
		}
		if err := c.client.Set(ctx, "av:"+key, data, c.ttl).Err(); err != nil {
			// 缓存写失败不影响本次响应
			slog.Error("availability cache: redis set failed", "err", err)
		}
	}
}

func (c *AvailabilityCache) fresh(e Entry) bool {
	return c.now().Sub(e.FetchedAt) < c.ttl
}

// Close 关闭本地缓存
func (c *AvailabilityCache) Close() {
	if c.local != nil {
		c.local.Close()
	}
}
