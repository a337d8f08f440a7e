package http

import (
	"fmt"
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/chatline/chatline-server/internal/auth"
	"github.com/chatline/chatline-server/internal/config"
	"github.com/chatline/chatline-server/internal/core"
	"github.com/chatline/chatline-server/internal/metrics"
)

// NewServer builds the HTTP server with all routes.
//
// Public routes (anonymous entry point, its script, the API and the
// operational endpoints) are dispatched before any authorization
// check; everything else goes through the cookie gate or, for the
// websocket endpoint, handshake admission.
func NewServer(hub *core.Hub, authService *auth.Service, cfg config.Config, m *metrics.Metrics, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), LoggerMiddleware(logger), MetricsMiddleware(m))

	static := NewStaticHandlers(cfg.StaticDir)
	api := NewAPIHandlers(authService, logger)
	ws := NewWSHandler(hub, authService, cfg.MessagesPerMinute, m, logger)
	gate := RequireAuth(authService, m, logger)

	engine.GET("/auth", static.AuthPage)
	engine.GET("/auth.js", static.AuthScript)
	engine.GET("/healthz", healthHandler)
	if m != nil {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Reg, promhttp.HandlerOpts{})))
	}

	engine.POST("/api/login", api.Login)
	engine.POST("/api/register", api.Register)

	engine.GET("/", gate, static.Index)
	engine.GET("/style.css", gate, static.Style)
	engine.GET("/script.js", gate, static.Script)

	engine.NoRoute(NotFoundOrRedirect(authService))

	// The websocket upgrade hijacks the connection, which gin's
	// response writer refuses once headers are written. Dispatch /ws
	// ahead of the router so the handler gets the raw ResponseWriter.
	mux := stdhttp.NewServeMux()
	mux.Handle("/ws", ws)
	mux.Handle("/", engine)

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	_, _ = fmt.Fprint(c.Writer, "ok")
}
