package hit

import (
	"math/rand/v2"
	"strconv"
	"time"
)

// CookieName is the identity cookie that carries the client ID between hits.
const CookieName = "_ga"

// Bounds of the random component used for client IDs and cache busters.
const (
	randomMin int64 = 1000
	randomMax int64 = 9999999999
)

// Environment types understood by ResolveTrackingID.
const (
	EnvDev  = "dev"
	EnvTest = "test"
	EnvLive = "live"
)

// RandomSource draws integers in [0, n). *rand.Rand from math/rand/v2
// satisfies it.
type RandomSource interface {
	Int64N(n int64) int64
}

// CookieReader reads a named cookie from the inbound request.
// *gin.Context satisfies it.
type CookieReader interface {
	Cookie(name string) (string, error)
}

// globalRand uses the concurrency-safe top-level math/rand/v2 source.
type globalRand struct{}

func (globalRand) Int64N(n int64) int64 { return rand.Int64N(n) }

// DefaultRandom is the process-wide source used when callers pass nil.
var DefaultRandom RandomSource = globalRand{}

// RandomNumber returns an integer in [1000, 9999999999].
func RandomNumber(r RandomSource) int64 {
	if r == nil {
		r = DefaultRandom
	}
	return randomMin + r.Int64N(randomMax-randomMin+1)
}

// Property selects the destination analytics property for an environment.
type Property struct {
	EnvironmentType string
	UseProduction   bool
	ProductionID    string
	StagingID       string
}

// TrackingID returns the tracking ID this property resolves to.
func (p Property) TrackingID() string {
	return ResolveTrackingID(p.EnvironmentType, p.UseProduction, p.ProductionID, p.StagingID)
}

// ResolveTrackingID returns productionID only for a live environment with the
// production flag set. Every other combination, including unknown
// environment types, resolves to stagingID.
func ResolveTrackingID(envType string, useProduction bool, productionID, stagingID string) string {
	switch envType {
	case EnvDev, EnvTest:
		return stagingID
	case EnvLive:
		if useProduction {
			return productionID
		}
	}
	return stagingID
}

// GenerateClientID builds "<random>.<unix timestamp>".
func GenerateClientID(r RandomSource, now time.Time) string {
	return strconv.FormatInt(RandomNumber(r), 10) + "." + strconv.FormatInt(now.Unix(), 10)
}

// ResolveClientID picks the client ID for a hit. A non-empty override always
// wins. Otherwise the identity cookie is read when useCookie is set, which may
// yield "" if the cookie is absent. Failing both, a fresh ID is generated.
func ResolveClientID(useCookie bool, override string, cookies CookieReader) string {
	if override != "" {
		return override
	}
	if useCookie {
		if cookies == nil {
			return ""
		}
		v, err := cookies.Cookie(CookieName)
		if err != nil {
			return ""
		}
		return v
	}
	return GenerateClientID(DefaultRandom, time.Now())
}
