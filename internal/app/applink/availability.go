package applink

import (
	"context"

	"github.com/barrymichaeldoyle/rightfront/internal/app/applink/cache"
	"github.com/barrymichaeldoyle/rightfront/internal/app/applink/probe"
)

// AvailabilityService 把扫描器和缓存拼成回退页需要的“这个应用在哪些
// 国家能下”查询。主跳转路径不依赖它——缓存里的数据只是参考信息。
type AvailabilityService struct {
	scanner *probe.Scanner
	cache   *cache.AvailabilityCache

	defaultLanguage string
}

func NewAvailabilityService(scanner *probe.Scanner, c *cache.AvailabilityCache, defaultLanguage string) *AvailabilityService {
	return &AvailabilityService{
		scanner:         scanner,
		cache:           c,
		defaultLanguage: defaultLanguage,
	}
}

// Availability 返回扫描结果、实际使用的作用域名称，以及是否命中缓存。
//
// hint 是请求方的国家（决定大洲作用域），refresh 强制绕过新鲜缓存。
// 从不失败：所有探测都失败时就是一个空的可用列表。
func (s *AvailabilityService) Availability(ctx context.Context, id string, platform Platform, hint string, scope Scope, refresh bool) (cache.Entry, string, bool) {
	countries, scopeName := ProbeCountries(scope, hint)
	key := ScopeKey(id, scopeName)

	entry, cached := s.cache.GetOrCompute(ctx, key, refresh, func(ctx context.Context) cache.Entry {
		res := s.scanner.Scan(ctx, id, string(platform), countries, s.defaultLanguage)
		return cache.Entry{Available: res.Available, App: res.App}
	})
	return entry, scopeName, cached
}
