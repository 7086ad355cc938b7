package httpapi

import (
	"net/http"
	"time"

	"github.com/barrymichaeldoyle/rightfront/internal/app/applink"
	"github.com/barrymichaeldoyle/rightfront/internal/app/applink/geo"
	"github.com/barrymichaeldoyle/rightfront/internal/app/applink/repo"
	"github.com/barrymichaeldoyle/rightfront/internal/app/applink/stats"
	"github.com/barrymichaeldoyle/rightfront/internal/platform/httpmiddleware"
	"github.com/barrymichaeldoyle/rightfront/internal/platform/ratelimit"
	"github.com/barrymichaeldoyle/rightfront/web"
)

// 约定：本包只做传输层工作；领域逻辑放在 internal/app/applink。
// cmd/api 只负责组装和挂载，各业务模块自己提供 Register*Routes，
// 避免路由散落在 main.go。

// RegisterPublicRoutes 在根路由上挂载跳转入口和回退页。
//
// 跳转入口刻意不放在 /api 下：用户拿到的链接是 /link?id=... 或
// /p/{slug}，要能直接在浏览器/扫码打开。
func RegisterPublicRoutes(engine *web.Engine, resolver *applink.Resolver, links *repo.AppLinksRepo, collector stats.Collector, limiter *ratelimit.Limiter) {
	//跳转 120次/分钟：消息群里刷屏也够用
	redirect := NewRedirectHandler(resolver, collector)
	engine.GET("/link", httpmiddleware.RateLimit(limiter, "redirect", 120, time.Minute), redirect)
	engine.HEAD("/link", redirect)
	engine.GET("/p/:slug", httpmiddleware.RateLimit(limiter, "slug", 120, time.Minute), NewSlugRedirectHandler(links))

	engine.GET("/fallback", NewFallbackHandler())
	engine.GET("/healthz", func(ctx *web.Context) {
		ctx.String(http.StatusOK, "ok")
	})
	engine.GET("/favicon.ico", func(ctx *web.Context) {
		ctx.Status(http.StatusNoContent)
	})
}

// RegisterAPIRoutes 在给定分组（例如 /api）下挂载 JSON 接口。
func RegisterAPIRoutes(api *web.RouterGroup, svc *applink.AvailabilityService, geoResolver *geo.Resolver, links *repo.AppLinksRepo, limiter *ratelimit.Limiter) {
	//扫描比单次探测贵一个数量级，限紧一点 20次/分钟
	api.GET("/availability", httpmiddleware.RateLimit(limiter, "availability", 20, time.Minute), NewAvailabilityHandler(svc, geoResolver))
	api.GET("/geo", NewGeoHandler(geoResolver))
	//建短语义链 10次/分钟
	api.POST("/links", httpmiddleware.RateLimit(limiter, "create", 10, time.Minute), NewCreateLinkHandler(links))
	api.GET("/links/:slug", NewFindLinkHandler(links))
}
