package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/barrymichaeldoyle/rightfront/internal/platform/metrics"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
)

// AppMetadata 是从第一次成功探测里提取的应用信息，
// 字段名与回退页前端消费的 JSON 保持一致。
type AppMetadata struct {
	TrackID            int64   `json:"trackId,omitempty"`
	Name               string  `json:"name"`
	Developer          string  `json:"developer,omitempty"`
	IconURL            string  `json:"iconUrl,omitempty"`
	Genre              string  `json:"genre,omitempty"`
	Price              string  `json:"price,omitempty"`
	Rating             float64 `json:"rating,omitempty"`
	RatingCount        int64   `json:"ratingCount,omitempty"`
	StoreURL           string  `json:"storeUrl,omitempty"`
	FetchedFromCountry string  `json:"fetchedFromCountry"`
}

// Result 是一次 (标识符, 国家) 探测的结果。临时数据，从不落库。
type Result struct {
	Exists bool
	App    *AppMetadata
}

// ErrUnsupportedStore 表示探测器不认识这个平台。正常流程里不会出现：
// 上游已经用分类器过滤过。
var ErrUnsupportedStore = errors.New("unsupported store platform")

// Prober 对一个 (标识符, 平台, 国家) 执行轻量存在性检查。
// 网络错误会原样返回；调用方一律把错误当 "不存在" 处理，探测是尽力而为的。
type Prober interface {
	Probe(ctx context.Context, id, store, country, language string) (Result, error)
}

// ProberFunc 让普通函数实现 Prober，测试时注入假探测器用。
type ProberFunc func(ctx context.Context, id, store, country, language string) (Result, error)

func (f ProberFunc) Probe(ctx context.Context, id, store, country, language string) (Result, error) {
	return f(ctx, id, store, country, language)
}

// StoreProber 是面向真实商店接口的 Prober 实现。
//
// iOS 走 iTunes lookup JSON 接口：一次请求同时拿到存在性和元数据，
// 比抓商店页面 HEAD 可靠得多。Android 的商店详情页对不存在的包
// 返回 404，用 HEAD 验证；HTML 正文不可信，不解析。
type StoreProber struct {
	client       *http.Client
	itunesAPIURL string
	playStoreURL string
	userAgent    string
}

func NewStoreProber(itunesAPIURL, playStoreURL string, timeout time.Duration) *StoreProber {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 1
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = time.Second
	rc.Logger = nil
	rc.HTTPClient.Timeout = timeout

	return &StoreProber{
		client:       rc.StandardClient(),
		itunesAPIURL: strings.TrimRight(itunesAPIURL, "/"),
		playStoreURL: strings.TrimRight(playStoreURL, "/"),
		userAgent:    "rightfront-probe/1.0",
	}
}

func (p *StoreProber) Probe(ctx context.Context, id, store, country, language string) (Result, error) {
	start := time.Now()
	var res Result
	var err error

	switch store {
	case "ios":
		res, err = p.lookupITunes(ctx, id, country)
	case "android":
		res, err = p.headPlayStore(ctx, id, country, language)
	default:
		return Result{}, ErrUnsupportedStore
	}

	metrics.StoreProbeDurationSeconds.WithLabelValues(store).Observe(time.Since(start).Seconds())
	switch {
	case err != nil:
		metrics.StoreProbesTotal.WithLabelValues(store, "error").Inc()
	case res.Exists:
		metrics.StoreProbesTotal.WithLabelValues(store, "exists").Inc()
	default:
		metrics.StoreProbesTotal.WithLabelValues(store, "missing").Inc()
	}
	return res, err
}

// lookupITunes 查询 itunes lookup 接口。resultCount > 0 即认为该国家
// 的商店里存在这个应用，并顺手提取元数据。
func (p *StoreProber) lookupITunes(ctx context.Context, id, country string) (Result, error) {
	numeric := id
	if len(id) > 2 && strings.EqualFold(id[:2], "id") {
		numeric = id[2:]
	}

	q := url.Values{}
	q.Set("id", numeric)
	q.Set("country", country)
	lookupURL := p.itunesAPIURL + "/lookup?" + q.Encode()

	body, status, err := p.get(ctx, lookupURL)
	if err != nil {
		return Result{}, err
	}
	if status != http.StatusOK {
		return Result{Exists: false}, nil
	}

	if gjson.GetBytes(body, "resultCount").Int() <= 0 {
		return Result{Exists: false}, nil
	}

	first := gjson.GetBytes(body, "results.0")
	app := &AppMetadata{
		TrackID:            first.Get("trackId").Int(),
		Name:               first.Get("trackName").String(),
		Developer:          first.Get("artistName").String(),
		IconURL:            first.Get("artworkUrl100").String(),
		Genre:              first.Get("primaryGenreName").String(),
		Price:              first.Get("formattedPrice").String(),
		Rating:             first.Get("averageUserRating").Float(),
		RatingCount:        first.Get("userRatingCount").Int(),
		StoreURL:           first.Get("trackViewUrl").String(),
		FetchedFromCountry: country,
	}
	return Result{Exists: true, App: app}, nil
}

// headPlayStore 对 Play 商店详情 URL 做 HEAD 验证。
// 2xx 即存在；Play 没有公开的轻量元数据接口，所以 Android 的
// 元数据字段保持为空。
func (p *StoreProber) headPlayStore(ctx context.Context, id, country, language string) (Result, error) {
	detailsURL := PlayStoreURL(p.playStoreURL, id, language, country)

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, detailsURL, nil)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return Result{}, err
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	return Result{Exists: resp.StatusCode >= 200 && resp.StatusCode < 300}, nil
}

func (p *StoreProber) get(ctx context.Context, rawURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}

// AppStoreURL 拼出 App Store 的国家前台地址。
func AppStoreURL(base, country, id string) string {
	return fmt.Sprintf("%s/%s/app/%s", strings.TrimRight(base, "/"), country, id)
}

// PlayStoreURL 拼出 Play 商店详情地址，hl 用语言、gl 用大写国家码。
func PlayStoreURL(base, id, language, country string) string {
	q := url.Values{}
	q.Set("id", id)
	q.Set("hl", language)
	q.Set("gl", strings.ToUpper(country))
	return strings.TrimRight(base, "/") + "/store/apps/details?" + q.Encode()
}
