package applink

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/barrymichaeldoyle/rightfront/internal/app/applink/geo"
	"github.com/barrymichaeldoyle/rightfront/internal/app/applink/probe"
	"github.com/barrymichaeldoyle/rightfront/internal/platform/metrics"
)

// ErrInvalidIdentifier 表示标识符不属于任何已知平台。
// 这是整条解析链上唯一允许到达 HTTP 边界的失败（映射成 400），
// 其余异常一律降级成 fallback。
var ErrInvalidIdentifier = errors.New("invalid app identifier")

type Status string

const (
	StatusResolved Status = "resolved"
	StatusFallback Status = "fallback"
)

// Resolution 是一次解析的最终去向。
type Resolution struct {
	Status   Status
	URL      string //Status 为 resolved 时是商店地址，fallback 时是回退页地址
	Platform Platform
	Country  string
	Language string //仅 android
}

// Resolver 是请求级的决策函数：分类 → 定位 → 单国家探测 → 出结果。
//
// 状态机：START → CLASSIFIED → LOCALIZED → PROBED → {RESOLVED | FALLBACK}。
// 热路径上只有一次出站网络调用（单国家探测），没有共享可变状态，
// 并发请求天然安全。
type Resolver struct {
	geo    *geo.Resolver
	prober probe.Prober

	appStoreURL  string
	playStoreURL string
	siteURL      string

	defaultLanguage string
	probeTimeout    time.Duration
}

func NewResolver(g *geo.Resolver, p probe.Prober, appStoreURL, playStoreURL, siteURL, defaultLanguage string, probeTimeout time.Duration) *Resolver {
	if probeTimeout <= 0 {
		probeTimeout = 5 * time.Second
	}
	return &Resolver{
		geo:             g,
		prober:          p,
		appStoreURL:     appStoreURL,
		playStoreURL:    playStoreURL,
		siteURL:         siteURL,
		defaultLanguage: defaultLanguage,
		probeTimeout:    probeTimeout,
	}
}

// Resolve 为一个标识符决定最终跳转地址。
//
// 只有 ErrInvalidIdentifier 会以错误返回；探测失败、地理查询失败
// 都降级成 fallback 结果而不是错误。
func (r *Resolver) Resolve(ctx context.Context, id string, req *http.Request) (Resolution, error) {
	// START → CLASSIFIED
	platform := Detect(id)
	if platform == PlatformUnknown {
		return Resolution{}, ErrInvalidIdentifier
	}

	// CLASSIFIED → LOCALIZED
	country, _ := r.geo.Country(req)
	country = NormalizeCountry(country)
	language := r.defaultLanguage
	if platform == PlatformAndroid {
		language = r.geo.Language(req.Header.Get("Accept-Language"))
	}

	// LOCALIZED → PROBED：单国家探测，故意保持廉价，不走扫描器
	pctx, cancel := context.WithTimeout(ctx, r.probeTimeout)
	defer cancel()
	res, err := r.prober.Probe(pctx, id, string(platform), country, language)

	out := Resolution{Platform: platform, Country: country, Language: language}

	// PROBED → RESOLVED
	if err == nil && res.Exists {
		out.Status = StatusResolved
		switch platform {
		case PlatformIOS:
			out.URL = probe.AppStoreURL(r.appStoreURL, country, id)
		case PlatformAndroid:
			out.URL = probe.PlayStoreURL(r.playStoreURL, id, language, country)
		}
		metrics.RedirectsTotal.WithLabelValues(string(platform), "resolved").Inc()
		return out, nil
	}

	// PROBED → FALLBACK
	out.Status = StatusFallback
	out.URL = r.FallbackURL(id, country)
	metrics.RedirectsTotal.WithLabelValues(string(platform), "fallback").Inc()
	return out, nil
}

// FallbackURL 拼出回退页地址，带上原始标识符和已解析国家。
func (r *Resolver) FallbackURL(id, country string) string {
	q := url.Values{}
	q.Set("id", id)
	q.Set("country", country)
	return r.siteURL + "/fallback?" + q.Encode()
}
