package hit

import (
	"sort"
	"strconv"
	"strings"
)

// DefaultBaseURL is the Measurement Protocol collection host.
const DefaultBaseURL = "https://www.google-analytics.com"

// Endpoint returns the collect endpoint under base. The debug endpoint
// validates hits and answers with a JSON report instead of ingesting them.
func Endpoint(base string, testing bool) string {
	base = strings.TrimRight(base, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	if testing {
		return base + "/debug/collect"
	}
	return base + "/collect"
}

// IPSource supplies the IP address of the originating request.
// *gin.Context satisfies it.
type IPSource interface {
	ClientIP() string
}

// BuildURL injects the protocol fields and returns endpoint + "?" + query.
//
// v, t, tid, cid, dl (when set), z and uip are written on every call,
// overwriting earlier values; z is redrawn each time. Keys keep their first
// insertion position.
func (h *Hit) BuildURL(endpoint string, r RandomSource, ip IPSource) string {
	h.params.set("v", strconv.Itoa(ProtocolVersion))
	h.params.set("t", string(h.hitType))
	h.params.set("tid", h.trackingID)
	h.params.set("cid", h.clientID)
	if h.documentLocationURL != "" {
		h.params.set("dl", h.documentLocationURL)
	}
	h.params.set("z", strconv.FormatInt(CacheBuster(r), 10))

	uip := ""
	if ip != nil {
		uip = ip.ClientIP()
	}
	h.params.set("uip", uip)

	return endpoint + "?" + h.params.encode()
}

// CacheBuster returns a fresh random value for "z".
func CacheBuster(r RandomSource) int64 {
	return RandomNumber(r)
}

// StaticIP is an IPSource for a fixed address.
type StaticIP string

// ClientIP returns the address.
func (s StaticIP) ClientIP() string { return string(s) }

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
