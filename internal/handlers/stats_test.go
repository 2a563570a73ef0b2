package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/ga-hit-relay/internal/auth"
	"github.com/PratikDhanave/ga-hit-relay/internal/handlers"
)

type countCall struct {
	source, hitType, outcome string
	from, to                 time.Time
}

type fakeCounter struct {
	count int64
	err   error
	calls []countCall
}

func (f *fakeCounter) CountDeliveries(_ context.Context, source, hitType, outcome string, from, to time.Time) (int64, error) {
	f.calls = append(f.calls, countCall{source, hitType, outcome, from, to})
	return f.count, f.err
}

func setupStatsRouter(t *testing.T, counter handlers.DeliveryCounter) *gin.Engine {
	t.Helper()

	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/")
	g.Use(auth.APIKeyMiddleware(map[string]string{testKey: "web"}))
	handlers.RegisterStatsRoutes(g, counter)
	return r
}

func getStats(t *testing.T, r http.Handler, q url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/hits/stats?"+q.Encode(), http.NoBody)
	req.Header.Set(auth.HeaderAPIKey, testKey)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func windowQuery(hitType string) url.Values {
	q := url.Values{}
	q.Set("hit_type", hitType)
	q.Set("from", "2026-01-01T00:00:00Z")
	q.Set("to", "2026-01-02T00:00:00+02:00")
	return q
}

func TestStats_ReturnsCount(t *testing.T) {
	counter := &fakeCounter{count: 7}
	r := setupStatsRouter(t, counter)

	w := getStats(t, r, windowQuery("event"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var body struct {
		HitType string `json:"hit_type"`
		Outcome string `json:"outcome"`
		Count   int64  `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "event", body.HitType)
	assert.Equal(t, "sent", body.Outcome)
	assert.Equal(t, int64(7), body.Count)

	require.Len(t, counter.calls, 1)
	call := counter.calls[0]
	assert.Equal(t, "web", call.source)
	assert.Equal(t, "sent", call.outcome)
	assert.Equal(t, time.Date(2026, 1, 1, 22, 0, 0, 0, time.UTC), call.to)
}

func TestStats_OutcomeFilter(t *testing.T) {
	counter := &fakeCounter{}
	r := setupStatsRouter(t, counter)

	q := windowQuery("pageview")
	q.Set("outcome", "validation_failed")

	w := getStats(t, r, q)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "validation_failed", counter.calls[0].outcome)
}

func TestStats_BadRequests(t *testing.T) {
	r := setupStatsRouter(t, &fakeCounter{})

	missing := windowQuery("event")
	missing.Del("from")

	badType := windowQuery("screenview")

	badOutcome := windowQuery("event")
	badOutcome.Set("outcome", "lost")

	badTime := windowQuery("event")
	badTime.Set("to", "yesterday")

	inverted := windowQuery("event")
	inverted.Set("from", "2026-01-03T00:00:00Z")

	for name, q := range map[string]url.Values{
		"missing from": missing,
		"bad type":     badType,
		"bad outcome":  badOutcome,
		"bad time":     badTime,
		"inverted":     inverted,
	} {
		w := getStats(t, r, q)
		assert.Equal(t, http.StatusBadRequest, w.Code, name)
	}
}

func TestStats_NoDeliveryLog(t *testing.T) {
	r := setupStatsRouter(t, nil)

	w := getStats(t, r, windowQuery("event"))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestStats_QueryFailure(t *testing.T) {
	r := setupStatsRouter(t, &fakeCounter{err: errors.New("timeout")})

	w := getStats(t, r, windowQuery("event"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
