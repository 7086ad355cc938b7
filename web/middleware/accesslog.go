package middleware

import (
	"log/slog"
	"time"

	"github.com/barrymichaeldoyle/rightfront/web"
)

func AccessLog() web.HandlerFunc {
	return func(ctx *web.Context) {
		start := time.Now()

		ctx.Next()

		slog.Info("access",
			"request_id", ctx.Req.Header.Get("X-Request-ID"),
			"method", ctx.Method,
			"path", ctx.Path,
			"status", ctx.Writer.Status(),
			"bytes", ctx.Writer.Size(),
			"latency_ms", time.Since(start).Milliseconds())
	}
}
