package http

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/fasthttp/router"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

type mockChecker struct {
	healthy bool
}

func (m mockChecker) HealthCheck(context.Context) bool {
	return m.healthy
}

func serve(t *testing.T, components []Component) (int, HealthResponse) {
	t.Helper()

	handler := NewHealthHandler(components, zerolog.Nop())
	var ctx fasthttp.RequestCtx
	handler.Handle(&ctx)

	var response HealthResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &response))
	return ctx.Response.StatusCode(), response
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		telegram   bool
		ytdlp      bool
		wantStatus HealthStatus
		wantCode   int
	}{
		{name: "all healthy", telegram: true, ytdlp: true, wantStatus: HealthStatusHealthy, wantCode: fasthttp.StatusOK},
		{name: "engine missing", telegram: true, ytdlp: false, wantStatus: HealthStatusDegraded, wantCode: fasthttp.StatusOK},
		{name: "nothing works", telegram: false, ytdlp: false, wantStatus: HealthStatusUnhealthy, wantCode: fasthttp.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := serve(t, []Component{
				{Name: "telegram", Checker: mockChecker{healthy: tt.telegram}, Message: "Bot API is not reachable"},
				{Name: "ytdlp", Checker: mockChecker{healthy: tt.ytdlp}, Message: "yt-dlp is not available"},
			})

			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantStatus, resp.Status)
			require.Len(t, resp.Components, 2)
			assert.Equal(t, "telegram", resp.Components[0].Name)
			if !tt.ytdlp {
				assert.Equal(t, "yt-dlp is not available", resp.Components[1].Message)
			} else {
				assert.Empty(t, resp.Components[1].Message)
			}
		})
	}
}

func TestHealthHandler_NilCheckerIsUnhealthy(t *testing.T) {
	code, resp := serve(t, []Component{{Name: "ytdlp", Message: "not configured"}})

	assert.Equal(t, fasthttp.StatusServiceUnavailable, code)
	assert.False(t, resp.Components[0].Healthy)
}

func TestRouter_RegistersHealth(t *testing.T) {
	rt := router.New()
	NewRouter(NewHealthHandler(nil, zerolog.Nop()), zerolog.Nop()).RegisterRoutes(rt)

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(fasthttp.MethodGet)
	ctx.Request.SetRequestURI("/health")
	rt.Handler(&ctx)

	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
}

func TestRouter_UnknownRoutesGetJSONErrors(t *testing.T) {
	rt := router.New()
	NewRouter(NewHealthHandler(nil, zerolog.Nop()), zerolog.Nop()).RegisterRoutes(rt)

	tests := []struct {
		name   string
		method string
		uri    string
		status int
		errMsg string
	}{
		{"unknown path", fasthttp.MethodGet, "/nope", fasthttp.StatusNotFound, "route not found"},
		{"wrong method", fasthttp.MethodPost, "/health", fasthttp.StatusMethodNotAllowed, "method not allowed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ctx fasthttp.RequestCtx
			ctx.Request.Header.SetMethod(tt.method)
			ctx.Request.SetRequestURI(tt.uri)
			rt.Handler(&ctx)

			assert.Equal(t, tt.status, ctx.Response.StatusCode())

			var body struct {
				Success bool   `json:"success"`
				Error   string `json:"error"`
			}
			require.NoError(t, json.Unmarshal(ctx.Response.Body(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, tt.errMsg, body.Error)
		})
	}
}
