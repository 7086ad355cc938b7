package httpapi

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/barrymichaeldoyle/rightfront/internal/app/applink"
	"github.com/barrymichaeldoyle/rightfront/internal/app/applink/repo"
	"github.com/barrymichaeldoyle/rightfront/internal/app/applink/stats"
	"github.com/barrymichaeldoyle/rightfront/internal/platform/httpmiddleware"
	"github.com/barrymichaeldoyle/rightfront/web"
)

// NewRedirectHandler 处理 GET /link?id=...[&slug=...]。
//
// 分类失败是唯一的 400；探测失败不报错，302 到回退页。
// 响应一律不缓存、不收录：同一个链接对不同国家的用户去向不同。
func NewRedirectHandler(resolver *applink.Resolver, collector stats.Collector) web.HandlerFunc {
	return func(ctx *web.Context) {
		appID := strings.TrimSpace(ctx.Query("id"))
		if appID == "" {
			ctx.String(http.StatusBadRequest, "Missing app id")
			ctx.Abort()
			return
		}

		ctx.SetHeader("Cache-Control", "no-store")
		ctx.SetHeader("X-Robots-Tag", "noindex")

		res, err := resolver.Resolve(ctx.Req.Context(), appID, ctx.Req)
		if err != nil {
			// 只有 ErrInvalidIdentifier 会走到这里
			ctx.String(http.StatusBadRequest, "Invalid app ID format")
			ctx.Abort()
			return
		}

		//异步记录点击，绝不阻塞跳转
		if collector != nil {
			collector.Collect(stats.ClickEvent{
				AppID:     appID,
				Platform:  string(res.Platform),
				Country:   res.Country,
				Outcome:   string(res.Status),
				Slug:      strings.TrimSpace(ctx.Query("slug")),
				ClickedAt: time.Now(),
				IP:        httpmiddleware.ClientIP(ctx.Req),
				UserAgent: ctx.Req.UserAgent(),
				Referer:   ctx.Req.Referer(),
			})
		}

		ctx.Redirect(http.StatusFound, res.URL)
	}
}

// NewSlugRedirectHandler 处理 GET /p/:slug：查出 app_id 后转交 /link。
// 点击计数在 /link 那边统一记录（事件带 slug），这里不重复写。
func NewSlugRedirectHandler(links *repo.AppLinksRepo) web.HandlerFunc {
	return func(ctx *web.Context) {
		slug := strings.ToLower(strings.TrimSpace(ctx.Param("slug")))
		if slug == "" {
			ctx.String(http.StatusBadRequest, "Missing slug")
			ctx.Abort()
			return
		}

		appID, err := links.ResolveSlug(ctx.Req.Context(), slug)
		if err != nil {
			if errors.Is(err, repo.ErrLinkNotFound) {
				ctx.String(http.StatusNotFound, "Not found")
				ctx.Abort()
				return
			}
			ctx.AbortWithError(http.StatusInternalServerError, "internal error")
			return
		}

		ctx.SetHeader("Cache-Control", "no-store")
		ctx.Redirect(http.StatusFound, "/link?id="+url.QueryEscape(appID)+"&slug="+url.QueryEscape(slug))
	}
}
