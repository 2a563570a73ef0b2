package httpserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/PratikDhanave/ga-hit-relay/internal/auth"
	"github.com/PratikDhanave/ga-hit-relay/internal/handlers"
)

// Pinger reports dependency readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the collaborators wired into the router. DB may be nil when the
// delivery log is disabled.
type Deps struct {
	APIKeys  map[string]string
	Hits     handlers.HitRoutes
	Counter  handlers.DeliveryCounter
	DB       Pinger
	Gatherer prometheus.Gatherer
}

// NewRouter wires public endpoints and authenticated APIs.
// Public: /health, /ready, /metrics
// Authenticated: /hits, /hits/stats
func NewRouter(deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())

	// Liveness: confirms the process is running.
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Readiness: confirms the delivery log, if any, is reachable.
	r.GET("/ready", func(c *gin.Context) {
		if deps.DB == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ready"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), time.Second)
		defer cancel()

		if err := deps.DB.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "not_ready", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	// Auth group enforces source context via X-API-Key.
	authGroup := r.Group("/")
	authGroup.Use(auth.APIKeyMiddleware(deps.APIKeys))

	handlers.RegisterHitRoutes(authGroup, deps.Hits)
	handlers.RegisterStatsRoutes(authGroup, deps.Counter)

	return r
}
