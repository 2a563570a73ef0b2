package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/PratikDhanave/ga-hit-relay/internal/auth"
	"github.com/PratikDhanave/ga-hit-relay/internal/collector"
	"github.com/PratikDhanave/ga-hit-relay/internal/hit"
	"github.com/PratikDhanave/ga-hit-relay/internal/models"
	"github.com/PratikDhanave/ga-hit-relay/internal/store"
)

// Sender delivers one hit. *collector.Client implements it.
type Sender interface {
	Send(ctx context.Context, h *hit.Hit, ip hit.IPSource) collector.Result
}

// DeliveryRecorder appends to the delivery log. *store.PostgresStore implements it.
type DeliveryRecorder interface {
	RecordDelivery(ctx context.Context, d store.Delivery) error
}

// HitRoutes holds the dependencies of POST /hits.
type HitRoutes struct {
	Sender Sender
	// Deliveries may be nil, in which case nothing is logged.
	Deliveries DeliveryRecorder
	Log        *zap.Logger
	// ExposeDiagnostics returns collector response bodies to the caller.
	ExposeDiagnostics bool
}

// RegisterHitRoutes registers the relay endpoint.
//
// POST /hits
// - Requires X-API-Key (source context)
// - Builds one hit from the payload, the caller's IP, user agent and _ga cookie
// - Sends it once; no retries
func RegisterHitRoutes(r gin.IRoutes, deps HitRoutes) {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}

	r.POST("/hits", func(c *gin.Context) {
		source := auth.Source(c)
		if source == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req models.HitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}

		h := buildHit(c, req)
		res := deps.Sender.Send(c.Request.Context(), h, c)

		deliveryID := uuid.New()
		if deps.Deliveries != nil {
			err := deps.Deliveries.RecordDelivery(c.Request.Context(), store.Delivery{
				ID:         deliveryID,
				Source:     source,
				HitType:    string(h.Type()),
				TrackingID: h.TrackingID(),
				Outcome:    string(res.Outcome),
				StatusCode: res.StatusCode,
				CreatedAt:  time.Now().UTC(),
			})
			if err != nil {
				log.Warn("record delivery failed",
					zap.String("delivery_id", deliveryID.String()),
					zap.Error(err),
				)
			}
		}

		resp := models.HitResponse{
			DeliveryID: deliveryID.String(),
			Outcome:    string(res.Outcome),
			StatusCode: res.StatusCode,
		}
		if res.Err != nil {
			resp.Error = res.Err.Error()
		}
		if deps.ExposeDiagnostics {
			resp.Diagnostics = res.Body
		}

		c.JSON(statusFor(res), resp)
	})
}

// buildHit applies the payload to a fresh hit. The gin context supplies the
// identity cookie and, when the payload has none, the user agent.
func buildHit(c *gin.Context, req models.HitRequest) *hit.Hit {
	h := hit.New()
	h.SetClientID(req.UseCookie, req.ClientID, c)
	h.SetHitType(hit.Type(req.HitType))

	ua := req.UserAgent
	if ua == "" {
		ua = c.Request.UserAgent()
	}
	h.SetUserAgent(ua)

	if req.DocumentLocationURL != "" {
		h.SetDocumentLocationURL(req.DocumentLocationURL, req.DocumentTitle)
	}
	if p := req.Pageview; p != nil {
		h.SetPageviewParameters(p.Host, p.Path, p.Title)
	}
	if e := req.Event; e != nil {
		h.SetEventParameters(e.Category, e.Action, e.Label, e.Value)
	}
	if tm := req.Timing; tm != nil {
		h.SetTimingParameters(tm.Category, tm.Variable, tm.Time, tm.Extra)
	}
	if req.NonInteraction {
		h.SetNonInteractionHit()
	}
	h.AddParameters(req.Parameters)

	return h
}

func statusFor(res collector.Result) int {
	switch {
	case errors.Is(res.Err, collector.ErrValidationFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(res.Err, collector.ErrTransport):
		return http.StatusBadGateway
	default:
		// Upstream 4xx/5xx is still an attempted delivery.
		return http.StatusAccepted
	}
}
