package hit_test

import (
	"errors"
	"math/rand/v2"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PratikDhanave/ga-hit-relay/internal/hit"
)

type fakeCookies map[string]string

func (f fakeCookies) Cookie(name string) (string, error) {
	v, ok := f[name]
	if !ok {
		return "", http.ErrNoCookie
	}
	return v, nil
}

type failingCookies struct{}

func (failingCookies) Cookie(string) (string, error) {
	return "", errors.New("boom")
}

func TestResolveTrackingID(t *testing.T) {
	const prod, staging = "UA-PROD-1", "UA-STAGE-1"

	envs := []string{hit.EnvDev, hit.EnvTest, hit.EnvLive, "", "uat", "LIVE"}
	for _, env := range envs {
		for _, flag := range []bool{false, true} {
			want := staging
			if env == hit.EnvLive && flag {
				want = prod
			}
			got := hit.ResolveTrackingID(env, flag, prod, staging)
			assert.Equal(t, want, got, "env=%q production=%v", env, flag)
		}
	}
}

func TestProperty_TrackingID(t *testing.T) {
	p := hit.Property{EnvironmentType: hit.EnvLive, UseProduction: true, ProductionID: "UA-P", StagingID: "UA-S"}
	assert.Equal(t, "UA-P", p.TrackingID())

	p.EnvironmentType = hit.EnvTest
	assert.Equal(t, "UA-S", p.TrackingID())
}

func TestResolveClientID_OverrideWins(t *testing.T) {
	cookies := fakeCookies{hit.CookieName: "GA1.2.111.222"}

	assert.Equal(t, "override", hit.ResolveClientID(true, "override", cookies))
	assert.Equal(t, "override", hit.ResolveClientID(false, "override", cookies))
}

func TestResolveClientID_Cookie(t *testing.T) {
	cookies := fakeCookies{hit.CookieName: "GA1.2.111.222"}
	assert.Equal(t, "GA1.2.111.222", hit.ResolveClientID(true, "", cookies))

	// Absent or unreadable cookies are surfaced as empty, not generated.
	assert.Equal(t, "", hit.ResolveClientID(true, "", fakeCookies{}))
	assert.Equal(t, "", hit.ResolveClientID(true, "", failingCookies{}))
	assert.Equal(t, "", hit.ResolveClientID(true, "", nil))
}

func TestResolveClientID_Generated(t *testing.T) {
	id := hit.ResolveClientID(false, "", nil)
	assertClientIDFormat(t, id)

	other := hit.ResolveClientID(false, "", nil)
	assert.NotEqual(t, id, other)
}

func TestGenerateClientID_Deterministic(t *testing.T) {
	now := time.Unix(1700000000, 0)

	a := hit.GenerateClientID(rand.New(rand.NewPCG(1, 2)), now)
	b := hit.GenerateClientID(rand.New(rand.NewPCG(1, 2)), now)

	assert.Equal(t, a, b)
	assert.True(t, strings.HasSuffix(a, ".1700000000"), a)
	assertClientIDFormat(t, a)
}

func TestRandomNumber_Bounds(t *testing.T) {
	r := rand.New(rand.NewPCG(7, 7))
	for range 10000 {
		n := hit.RandomNumber(r)
		require.GreaterOrEqual(t, n, int64(1000))
		require.LessOrEqual(t, n, int64(9999999999))
	}
}

type edgeRand struct{ pick func(n int64) int64 }

func (e edgeRand) Int64N(n int64) int64 { return e.pick(n) }

func TestRandomNumber_Edges(t *testing.T) {
	low := edgeRand{pick: func(int64) int64 { return 0 }}
	high := edgeRand{pick: func(n int64) int64 { return n - 1 }}

	assert.Equal(t, int64(1000), hit.RandomNumber(low))
	assert.Equal(t, int64(9999999999), hit.RandomNumber(high))
}

func assertClientIDFormat(t *testing.T, id string) {
	t.Helper()

	parts := strings.Split(id, ".")
	require.Len(t, parts, 2, "client id %q", id)

	n, err := strconv.ParseInt(parts[0], 10, 64)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, int64(1000))
	assert.LessOrEqual(t, n, int64(9999999999))

	_, err = strconv.ParseInt(parts[1], 10, 64)
	require.NoError(t, err)
}
