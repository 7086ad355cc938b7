package geo

import (
	"context"
	"io"
	"net"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/barrymichaeldoyle/rightfront/internal/platform/httpmiddleware"
)

// 边缘/CDN 注入的国家头，按优先级排列。
var geoHeaders = []string{"X-Vercel-IP-Country", "CF-IPCountry"}

var countryRe = regexp.MustCompile(`^[A-Za-z]{2}$`)

// Resolver 从请求信号推断访问者的国家和语言。
//
// Country 永远不失败：外部 IP 库再怎么抽风，最差也会落到配置的默认国家。
type Resolver struct {
	client          *http.Client
	baseURL         string // ipapi.co 风格：GET {base}/{ip}/country/ 返回两字母国家码
	defaultCountry  string
	defaultLanguage string
}

func New(client *http.Client, baseURL, defaultCountry, defaultLanguage string) *Resolver {
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Second}
	}
	return &Resolver{
		client:          client,
		baseURL:         strings.TrimRight(baseURL, "/"),
		defaultCountry:  strings.ToLower(defaultCountry),
		defaultLanguage: strings.ToLower(defaultLanguage),
	}
}

// Country 按优先级解析国家码（恒小写），并返回来源标记：
//
//  1. 边缘注入的地理头 → "header"
//  2. 客户端 IP 的外部查询 → "lookup"；IP 为空/回环/"localhost" 直接跳过
//  3. 配置默认值 → "default"
//
// 外部查询的任何失败都在这里吞掉，绝不向调用方抛错。
func (r *Resolver) Country(req *http.Request) (string, string) {
	for _, h := range geoHeaders {
		if v := strings.TrimSpace(req.Header.Get(h)); v != "" && countryRe.MatchString(v) {
			return strings.ToLower(v), "header"
		}
	}

	ip := httpmiddleware.ClientIP(req)
	if cc, ok := r.lookupByIP(req.Context(), ip); ok {
		return cc, "lookup"
	}

	return r.defaultCountry, "default"
}

func (r *Resolver) lookupByIP(ctx context.Context, ip string) (string, bool) {
	if ip == "" || ip == "localhost" || strings.HasPrefix(ip, "127.") {
		return "", false
	}
	if parsed := net.ParseIP(ip); parsed == nil || parsed.IsLoopback() {
		return "", false
	}

	lctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(lctx, http.MethodGet, r.baseURL+"/"+ip+"/country/", nil)
	if err != nil {
		return "", false
	}
	resp, err := r.client.Do(httpReq)
	if err != nil {
		return "", false
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", false
	}

	// 限流/报错时这类接口会返回 JSON 而不是裸国家码，直接当失败处理。
	body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return "", false
	}
	cc := strings.TrimSpace(string(body))
	if !countryRe.MatchString(cc) {
		return "", false
	}
	return strings.ToLower(cc), true
}
