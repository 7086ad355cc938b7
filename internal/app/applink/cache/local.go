package cache

import (
	"time"

	"github.com/dgraph-io/ristretto"
)

// LocalCache 基于 ristretto 的本地内存缓存，存放完整的扫描结果。
// ristretto 自带容量上限和淘汰，扫描结果再多也不会把进程内存吃爆。
type LocalCache struct {
	cache *ristretto.Cache
	ttl   time.Duration
}

// NewLocalCache 创建本地缓存
// maxItems: 最大缓存条目数
// maxCost: 最大内存占用（字节）
func NewLocalCache(maxItems int64, maxCost int64, ttl time.Duration) (*LocalCache, error) {
	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: maxItems * 10, // 计数器数量，建议为 maxItems 的 10 倍
		MaxCost:     maxCost,
		BufferItems: 64, // 每个 Get 缓冲区大小
	})
	if err != nil {
		return nil, err
	}
	return &LocalCache{
		cache: cache,
		ttl:   ttl,
	}, nil
}

func (l *LocalCache) Get(key string) (Entry, bool) {
	if v, ok := l.cache.Get(key); ok {
		if e, ok := v.(Entry); ok {
			return e, true
		}
	}
	return Entry{}, false
}

func (l *LocalCache) Set(key string, e Entry) {
	// 条目数量级很小，按条目数计费即可
	l.cache.SetWithTTL(key, e, 1, l.ttl)
}

// Wait 阻塞到所有挂起的写入对 Get 可见。ristretto 的写入是异步的。
func (l *LocalCache) Wait() {
	l.cache.Wait()
}

func (l *LocalCache) Close() {
	l.cache.Close()
}
