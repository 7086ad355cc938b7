package httpapi

import (
	"net/http"
	"strings"

	"github.com/barrymichaeldoyle/rightfront/internal/app/applink"
	"github.com/barrymichaeldoyle/rightfront/internal/app/applink/geo"
	"github.com/barrymichaeldoyle/rightfront/internal/app/applink/probe"
	"github.com/barrymichaeldoyle/rightfront/web"
)

// availabilityResponse 是 GET /api/availability 的响应体。
// available 永远是数组，哪怕是空的——这对前端省一次判空。
type availabilityResponse struct {
	ID        string             `json:"id"`
	Platform  string             `json:"platform"`
	Available []string           `json:"available"`
	App       *probe.AppMetadata `json:"app,omitempty"`
	Scope     string             `json:"scope"`
	Country   string             `json:"country"`
	Cached    bool               `json:"cached"`
}

// NewAvailabilityHandler 处理 GET /api/availability?id=...[&country=][&scope=][&refresh=]。
//
// country 覆盖地理探测结果；scope 只认 all，其它值视作 continent；
// refresh=true 绕过新鲜缓存强制重扫。
func NewAvailabilityHandler(svc *applink.AvailabilityService, geoResolver *geo.Resolver) web.HandlerFunc {
	return func(ctx *web.Context) {
		appID := strings.TrimSpace(ctx.Query("id"))
		if appID == "" {
			ctx.AbortWithStatusJSON(http.StatusBadRequest, web.NewErrorResponse(ctx, http.StatusBadRequest, "missing app id"))
			return
		}
		platform := applink.Detect(appID)
		if platform == applink.PlatformUnknown {
			ctx.AbortWithStatusJSON(http.StatusBadRequest, web.NewErrorResponse(ctx, http.StatusBadRequest, "invalid app id format"))
			return
		}

		country := strings.TrimSpace(ctx.Query("country"))
		if country == "" {
			country, _ = geoResolver.Country(ctx.Req)
		}
		country = applink.NormalizeCountry(country)

		scope := applink.ScopeContinent
		if ctx.Query("scope") == string(applink.ScopeAll) {
			scope = applink.ScopeAll
		}
		refresh := ctx.Query("refresh") == "true"

		entry, scopeName, cached := svc.Availability(ctx.Req.Context(), appID, platform, country, scope, refresh)

		available := entry.Available
		if available == nil {
			available = []string{}
		}
		ctx.JSON(http.StatusOK, availabilityResponse{
			ID:        appID,
			Platform:  string(platform),
			Available: available,
			App:       entry.App,
			Scope:     scopeName,
			Country:   country,
			Cached:    cached,
		})
	}
}

// NewGeoHandler 处理 GET /api/geo：回显请求方被解析成的国家和来源。
// 回退页用它给“你所在的国家”文案兜底。
func NewGeoHandler(geoResolver *geo.Resolver) web.HandlerFunc {
	return func(ctx *web.Context) {
		country, source := geoResolver.Country(ctx.Req)
		ctx.JSON(http.StatusOK, map[string]string{
			"country": applink.NormalizeCountry(country),
			"source":  source,
		})
	}
}
