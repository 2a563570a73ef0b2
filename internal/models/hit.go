package models

// HitRequest is the POST /hits payload. Only the block matching hit_type is
// required; the others are ignored.
type HitRequest struct {
	HitType   string `json:"hit_type"`
	ClientID  string `json:"client_id,omitempty"`
	UseCookie bool   `json:"use_cookie,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`

	DocumentLocationURL string `json:"document_location_url,omitempty"`
	DocumentTitle       string `json:"document_title,omitempty"`

	Pageview *PageviewFields `json:"pageview,omitempty"`
	Event    *EventFields    `json:"event,omitempty"`
	Timing   *TimingFields   `json:"timing,omitempty"`

	NonInteraction bool           `json:"non_interaction,omitempty"`
	Parameters     map[string]any `json:"parameters,omitempty"`
}

// PageviewFields map to dh, dp and dt.
type PageviewFields struct {
	Host  string `json:"host,omitempty"`
	Path  string `json:"path,omitempty"`
	Title string `json:"title,omitempty"`
}

// EventFields map to ec, ea, el and ev.
type EventFields struct {
	Category string `json:"category"`
	Action   string `json:"action"`
	Label    string `json:"label,omitempty"`
	Value    *int64 `json:"value,omitempty"`
}

// TimingFields map to utc, utv, utt plus any extra timing parameters.
type TimingFields struct {
	Category string         `json:"category"`
	Variable string         `json:"variable"`
	Time     int64          `json:"time"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// HitResponse is returned by POST /hits.
// Diagnostics carries the collector's body when the debug endpoint is used.
type HitResponse struct {
	DeliveryID  string `json:"delivery_id"`
	Outcome     string `json:"outcome"`
	StatusCode  int    `json:"status_code,omitempty"`
	Diagnostics string `json:"diagnostics,omitempty"`
	Error       string `json:"error,omitempty"`
}
