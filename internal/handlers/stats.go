package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/PratikDhanave/ga-hit-relay/internal/auth"
	"github.com/PratikDhanave/ga-hit-relay/internal/collector"
	"github.com/PratikDhanave/ga-hit-relay/internal/hit"
)

// DeliveryCounter counts logged deliveries. *store.PostgresStore implements it.
type DeliveryCounter interface {
	CountDeliveries(ctx context.Context, source, hitType, outcome string, from, to time.Time) (int64, error)
}

// RegisterStatsRoutes registers the delivery-log query endpoint.
//
// GET /hits/stats?hit_type=...&outcome=...&from=...&to=...
// - Requires X-API-Key (source context)
// - outcome defaults to "sent"
// - Returns count for the window [from,to); 503 when no delivery log is configured
func RegisterStatsRoutes(r gin.IRoutes, counter DeliveryCounter) {
	r.GET("/hits/stats", func(c *gin.Context) {
		source := auth.Source(c)
		if source == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if counter == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "delivery log not configured"})
			return
		}

		hitType := hit.Type(c.Query("hit_type"))
		outcome := collector.Outcome(c.DefaultQuery("outcome", string(collector.OutcomeSent)))
		fromStr := c.Query("from")
		toStr := c.Query("to")

		if hitType == "" || fromStr == "" || toStr == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "hit_type, from, to are required"})
			return
		}
		if !hitType.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "hit_type must be pageview, event or timing"})
			return
		}
		if !outcome.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "unknown outcome"})
			return
		}

		from, err := time.Parse(time.RFC3339, fromStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be RFC3339"})
			return
		}
		to, err := time.Parse(time.RFC3339, toStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "to must be RFC3339"})
			return
		}

		from = from.UTC()
		to = to.UTC()

		if !from.Before(to) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "from must be < to"})
			return
		}

		count, err := counter.CountDeliveries(c.Request.Context(), source, string(hitType), string(outcome), from, to)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db query failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"hit_type": hitType,
			"outcome":  outcome,
			"count":    count,
		})
	})
}
