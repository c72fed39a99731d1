package httpadapter

import (
	"context"
	"slices"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const (
	corsAllowMethods = "GET,POST,OPTIONS"
	corsAllowHeaders = "Content-Type"
)

// allowOrigin returns the Access-Control-Allow-Origin value for origin, or
// "" when the origin is not allowed. An empty allow list admits any origin.
func allowOrigin(allowed []string, origin string) string {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return "*"
	}
	if origin != "" && slices.Contains(allowed, origin) {
		return origin
	}
	return ""
}

// corsMiddleware lets a browser host UI on another origin drive the
// simulation. Preflight requests end here.
func corsMiddleware(allowed []string) app.HandlerFunc {
	return func(c context.Context, ctx *app.RequestContext) {
		if v := allowOrigin(allowed, string(ctx.Request.Header.Peek("Origin"))); v != "" {
			h := &ctx.Response.Header
			h.Set("Access-Control-Allow-Origin", v)
			h.Set("Access-Control-Allow-Methods", corsAllowMethods)
			h.Set("Access-Control-Allow-Headers", corsAllowHeaders)
			h.Set("Access-Control-Max-Age", "600")
			if v != "*" {
				h.Add("Vary", "Origin")
			}
		}
		if string(ctx.Method()) == consts.MethodOptions {
			ctx.AbortWithStatus(consts.StatusNoContent)
			return
		}
		ctx.Next(c)
	}
}
