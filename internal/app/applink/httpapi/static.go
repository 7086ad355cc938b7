package httpapi

import (
	"embed"
	"net/http"

	"github.com/barrymichaeldoyle/rightfront/web"
)

//go:embed static/fallback.html
var staticFS embed.FS

// NewFallbackHandler 处理 GET /fallback：静态回退页。
// 页面自己通过 /api/availability 拉数据，这里只吐 HTML。
func NewFallbackHandler() web.HandlerFunc {
	page, err := staticFS.ReadFile("static/fallback.html")
	if err != nil {
		panic("httpapi: embedded fallback page missing: " + err.Error())
	}
	return func(ctx *web.Context) {
		ctx.SetHeader("Content-Type", "text/html; charset=utf-8")
		ctx.SetHeader("Cache-Control", "public, max-age=300")
		ctx.Data(http.StatusOK, page)
	}
}
