package httpmiddleware

import (
	"github.com/barrymichaeldoyle/rightfront/web"
	"go.opentelemetry.io/otel/trace"
)

func TraceName() web.HandlerFunc {
	return func(ctx *web.Context) {
		span := trace.SpanFromContext(ctx.Req.Context())
		span.SetName(ctx.Method + " " + ctx.RoutePattern)
		ctx.Next()
	}
}
