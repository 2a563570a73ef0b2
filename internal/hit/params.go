package hit

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// reservedKeys are injected by BuildURL and cannot be set by callers.
var reservedKeys = map[string]struct{}{
	"v":   {},
	"t":   {},
	"tid": {},
	"cid": {},
	"dl":  {},
	"z":   {},
	"uip": {},
}

// IsReserved reports whether key is a protocol field owned by BuildURL.
func IsReserved(key string) bool {
	_, ok := reservedKeys[key]
	return ok
}

// params is an insertion-ordered string map. Overwriting a key keeps its
// original position so the encoded query is stable across rebuilds.
type params struct {
	keys   []string
	values map[string]string
}

func newParams() params {
	return params{values: map[string]string{}}
}

func (p *params) set(key, value string) {
	if _, ok := p.values[key]; !ok {
		p.keys = append(p.keys, key)
	}
	p.values[key] = value
}

func (p *params) get(key string) (string, bool) {
	v, ok := p.values[key]
	return v, ok
}

func (p *params) has(keys ...string) bool {
	for _, k := range keys {
		if _, ok := p.values[k]; !ok {
			return false
		}
	}
	return true
}

// encode renders the parameters as an RFC 3986 query string.
func (p *params) encode() string {
	var sb strings.Builder
	for i, k := range p.keys {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(escape(k))
		sb.WriteByte('=')
		sb.WriteString(escape(p.values[k]))
	}
	return sb.String()
}

// escape is url.QueryEscape with spaces as %20 instead of '+'.
// Literal '+' is already escaped as %2B, so the replacement is unambiguous.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// formatValue converts a caller-supplied parameter value to its wire form.
func formatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		if x {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		// JSON numbers decode as float64; keep integers integral.
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
