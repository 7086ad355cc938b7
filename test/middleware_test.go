package test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/barrymichaeldoyle/rightfront/internal/platform/httpmiddleware"
	"github.com/barrymichaeldoyle/rightfront/web"
	"github.com/barrymichaeldoyle/rightfront/web/middleware"
)

func TestRequestID_PreservesIncoming(t *testing.T) {
	r := web.New()
	r.Use(middleware.ReqID())
	r.GET("/id", func(ctx *web.Context) {
		ctx.String(http.StatusOK, "%s", ctx.Req.Header.Get("X-Request-ID"))
	})

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "abc" {
		t.Fatalf("response X-Request-ID: got %q, want %q", got, "abc")
	}
	if got := strings.TrimSpace(rec.Body.String()); got != "abc" {
		t.Fatalf("body: got %q, want %q", got, "abc")
	}
}

func TestRequestID_GeneratesWhenMissing(t *testing.T) {
	r := web.New()
	r.Use(middleware.ReqID())
	r.GET("/id", func(ctx *web.Context) {
		ctx.String(http.StatusOK, "ok")
	})

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got == "" {
		t.Fatal("response X-Request-ID is empty")
	}
}

func TestAccessLog_EmitsJSONFields(t *testing.T) {
	var buf bytes.Buffer
	old := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(old) })

	r := web.New()
	r.Use(web.Recovery(), middleware.ReqID(), middleware.AccessLog())
	r.GET("/link", func(ctx *web.Context) {
		ctx.Redirect(http.StatusFound, "https://apps.apple.com/us/app/id324684580")
	})

	req := httptest.NewRequest(http.MethodGet, "/link", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	dec := json.NewDecoder(&buf)
	for {
		var m map[string]any
		if err := dec.Decode(&m); err != nil {
			break
		}
		if m["msg"] != "access" {
			continue
		}
		if m["request_id"] != "abc" {
			t.Fatalf("request_id: got %v, want %q", m["request_id"], "abc")
		}
		if m["method"] != http.MethodGet {
			t.Fatalf("method: got %v, want %q", m["method"], http.MethodGet)
		}
		if m["path"] != "/link" {
			t.Fatalf("path: got %v, want %q", m["path"], "/link")
		}
		if m["status"] != float64(http.StatusFound) {
			t.Fatalf("status: got %v, want %d", m["status"], http.StatusFound)
		}
		return
	}
	t.Fatalf("did not find access log entry\nraw=%q", buf.String())
}

func TestClientIP_UntrustedRemoteIgnoresHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/link", nil)
	req.RemoteAddr = "203.0.113.7:4000" // 公网地址，不是可信代理
	req.Header.Set("X-Forwarded-For", "198.51.100.9")

	if got := httpmiddleware.ClientIP(req); got != "203.0.113.7" {
		t.Fatalf("got %q, want remote addr host", got)
	}
}

func TestClientIP_TrustedProxyUsesForwardedFor(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/link", nil)
	req.RemoteAddr = "127.0.0.1:4000"
	req.Header.Set("X-Forwarded-For", "198.51.100.9, 10.0.0.1")

	if got := httpmiddleware.ClientIP(req); got != "198.51.100.9" {
		t.Fatalf("got %q, want first X-Forwarded-For entry", got)
	}
}

func TestClientIP_CloudflareHeaderWins(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/link", nil)
	req.RemoteAddr = "192.168.1.5:4000"
	req.Header.Set("CF-Connecting-IP", "198.51.100.9")
	req.Header.Set("X-Forwarded-For", "203.0.113.99")

	if got := httpmiddleware.ClientIP(req); got != "198.51.100.9" {
		t.Fatalf("got %q, want CF-Connecting-IP", got)
	}
}
