package hit

// IsValid reports whether the hit carries the minimum fields for its type.
// It has no side effects.
func (h *Hit) IsValid() bool {
	if h.trackingID == "" || h.clientID == "" {
		return false
	}

	switch h.hitType {
	case Pageview:
		return h.hasDocumentLocation() || h.params.has("dh", "dp")
	case Event:
		return h.params.has("ec", "ea")
	case Timing:
		return h.params.has("utc", "utv", "utt")
	default:
		return false
	}
}

// hasDocumentLocation accepts either the pending URL or an already
// serialized "dl".
func (h *Hit) hasDocumentLocation() bool {
	return h.documentLocationURL != "" || h.params.has("dl")
}
