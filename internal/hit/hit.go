// Package hit models a single Measurement Protocol hit: its identity, its
// type-specific parameters, validation, and serialization to a collect URL.
package hit

import (
	"strconv"
)

// ProtocolVersion is the Measurement Protocol version sent as "v".
const ProtocolVersion = 1

// Type is the kind of hit being sent.
type Type string

// Supported hit types. The zero value means "unset" and never validates.
const (
	Pageview Type = "pageview"
	Event    Type = "event"
	Timing   Type = "timing"
)

// Valid reports whether t is one of the supported hit types.
func (t Type) Valid() bool {
	switch t {
	case Pageview, Event, Timing:
		return true
	default:
		return false
	}
}

// Hit accumulates the parameters of one measurement event.
// A Hit is single-use and not safe for concurrent mutation.
type Hit struct {
	trackingID          string
	clientID            string
	hitType             Type
	documentLocationURL string
	params              params
}

// New returns an empty, unconfigured hit.
func New() *Hit {
	return &Hit{params: newParams()}
}

// TrackingID returns the resolved tracking ID, or "" if not yet resolved.
func (h *Hit) TrackingID() string { return h.trackingID }

// ClientID returns the client ID, or "" if not yet set.
func (h *Hit) ClientID() string { return h.clientID }

// Type returns the current hit type; "" when unset.
func (h *Hit) Type() Type { return h.hitType }

// DocumentLocationURL returns the page URL attached to the hit.
func (h *Hit) DocumentLocationURL() string { return h.documentLocationURL }

// Param returns the value stored under key.
func (h *Hit) Param(key string) (string, bool) {
	return h.params.get(key)
}

// Params returns a copy of all parameters.
func (h *Hit) Params() map[string]string {
	out := make(map[string]string, len(h.params.values))
	for k, v := range h.params.values {
		out[k] = v
	}
	return out
}

// UseProperty resolves and stores the tracking ID for p.
func (h *Hit) UseProperty(p Property) {
	h.trackingID = p.TrackingID()
}

// SetClientID sets the client ID. See ResolveClientID for precedence.
func (h *Hit) SetClientID(useCookie bool, override string, cookies CookieReader) {
	h.clientID = ResolveClientID(useCookie, override, cookies)
}

// SetHitType sets the hit type. Unrecognized values are ignored and the
// previous type is kept.
func (h *Hit) SetHitType(t Type) {
	if t.Valid() {
		h.hitType = t
	}
}

// SetUserAgent sets "ua". Hits without a user agent are commonly classified
// as bot traffic by the collector.
func (h *Hit) SetUserAgent(ua string) {
	if ua != "" {
		h.params.set("ua", ua)
	}
}

// SetDocumentLocationURL sets the page URL sent as "dl", and "dt" when a title
// is given.
func (h *Hit) SetDocumentLocationURL(u, title string) {
	h.documentLocationURL = u
	if title != "" {
		h.params.set("dt", title)
	}
}

// SetPageviewParameters sets "dh", "dp" and "dt", skipping empty arguments.
// A pageview needs either a document location or both host and path.
func (h *Hit) SetPageviewParameters(hostName, path, title string) {
	if hostName != "" {
		h.params.set("dh", hostName)
	}
	if path != "" {
		h.params.set("dp", path)
	}
	if title != "" {
		h.params.set("dt", title)
	}
}

// SetEventParameters sets "ec" and "ea", and "el" when label is non-empty.
//
// When value is present and non-negative, "ev" receives the label, not the
// value. This mirrors long-standing behavior that downstream reports rely
// on; see DESIGN.md before changing it.
func (h *Hit) SetEventParameters(category, action, label string, value *int64) {
	h.params.set("ec", category)
	h.params.set("ea", action)

	if label != "" {
		h.params.set("el", label)
	}
	if value != nil && *value >= 0 && label != "" {
		h.params.set("ev", label)
	}
}

// SetTimingParameters sets "utc", "utv" and "utt" and merges extra.
func (h *Hit) SetTimingParameters(category, variable string, timingValue int64, extra map[string]any) {
	h.params.set("utc", category)
	h.params.set("utv", variable)
	h.params.set("utt", strconv.FormatInt(timingValue, 10))

	h.AddParameters(extra)
}

// SetNonInteractionHit marks the hit as non-interactive ("ni=1").
func (h *Hit) SetNonInteractionHit() {
	h.params.set("ni", "1")
}

// AddParameters merges arbitrary parameters such as custom dimensions
// ("cd1") or metrics ("cm1"). Later writes win. Reserved protocol keys are
// dropped; BuildURL owns them.
func (h *Hit) AddParameters(m map[string]any) {
	for _, k := range sortedKeys(m) {
		if k == "" || IsReserved(k) {
			continue
		}
		h.params.set(k, formatValue(m[k]))
	}
}
