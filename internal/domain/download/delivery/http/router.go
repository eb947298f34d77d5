package http

import (
	"github.com/fasthttp/router"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/magicxor/ytdl-inline-bot/pkg/httputil"
)

// Router registers operational HTTP routes
type Router struct {
	handler *HealthHandler
	logger  zerolog.Logger
}

// NewRouter creates a new router
func NewRouter(handler *HealthHandler, logger zerolog.Logger) *Router {
	return &Router{
		handler: handler,
		logger:  logger,
	}
}

// RegisterRoutes registers routes on the router
func (r *Router) RegisterRoutes(rt *router.Router) {
	rt.GET("/health", r.handler.Handle)
	rt.NotFound = notFound
	rt.MethodNotAllowed = methodNotAllowed
	r.logger.Debug().Msg("Health route registered")
}

func notFound(ctx *fasthttp.RequestCtx) {
	httputil.WriteErrorResponse(ctx, "route not found", fasthttp.StatusNotFound)
}

func methodNotAllowed(ctx *fasthttp.RequestCtx) {
	httputil.WriteErrorResponse(ctx, "method not allowed", fasthttp.StatusMethodNotAllowed)
}
