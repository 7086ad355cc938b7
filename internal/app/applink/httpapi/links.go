package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"github.com/barrymichaeldoyle/rightfront/internal/app/applink"
	"github.com/barrymichaeldoyle/rightfront/internal/app/applink/repo"
	"github.com/barrymichaeldoyle/rightfront/web"
)

type CreateLinkRequest struct {
	Slug  string `json:"slug"`
	AppID string `json:"app_id"`
}

type CreateLinkResponse struct {
	Slug  string `json:"slug"`
	URL   string `json:"url"`
	AppID string `json:"app_id"`
}

// NewCreateLinkHandler 处理 POST /api/links：注册一条 /p/:slug 短链。
func NewCreateLinkHandler(links *repo.AppLinksRepo) web.HandlerFunc {
	return func(ctx *web.Context) {
		var req CreateLinkRequest
		if err := ctx.BindJSON(&req); err != nil {
			return
		}

		slug := strings.ToLower(strings.TrimSpace(req.Slug))
		appID := strings.TrimSpace(req.AppID)
		err := links.Create(ctx.Req.Context(), slug, appID)
		if err != nil {
			switch {
			case errors.Is(err, applink.ErrInvalidSlug):
				ctx.AbortWithError(http.StatusBadRequest, err.Error())
			case errors.Is(err, applink.ErrInvalidIdentifier):
				ctx.AbortWithError(http.StatusBadRequest, "invalid app id format")
			case errors.Is(err, repo.ErrSlugAlreadyExists):
				ctx.AbortWithError(http.StatusConflict, err.Error())
			default:
				ctx.AbortWithError(http.StatusInternalServerError, "link create failed")
			}
			return
		}

		path := "/p/" + slug
		scheme := ctx.Req.Header.Get("X-Forwarded-Proto")
		if scheme == "" {
			scheme = "http"
		}
		shortURL := path
		if host := ctx.Req.Host; host != "" {
			shortURL = scheme + "://" + host + path
		}

		ctx.JSON(http.StatusOK, CreateLinkResponse{
			Slug:  slug,
			URL:   shortURL,
			AppID: appID,
		})
	}
}

// NewFindLinkHandler 处理 GET /api/links/:slug：短链明细（含点击计数）。
func NewFindLinkHandler(links *repo.AppLinksRepo) web.HandlerFunc {
	return func(ctx *web.Context) {
		link, err := links.FindBySlug(ctx.Req.Context(), strings.ToLower(ctx.Param("slug")))
		if err != nil {
			if errors.Is(err, repo.ErrLinkNotFound) {
				ctx.AbortWithError(http.StatusNotFound, "link not found")
				return
			}
			ctx.AbortWithError(http.StatusInternalServerError, "internal error")
			return
		}
		ctx.JSON(http.StatusOK, link)
	}
}
