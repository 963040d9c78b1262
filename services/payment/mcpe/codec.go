package mcpe

import (
	"net/url"
	"strings"
)

// Encode renders params as an application/x-www-form-urlencoded body,
// preserving insertion order.
func Encode(p *Params) string {
	var b strings.Builder
	for i, k := range p.keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(p.values[k]))
	}
	return b.String()
}

// Decode parses a k=v&k=v response body. Values are not escaped against '='
// by the gateway, so each pair is split on its first '='. Pairs without '='
// are skipped; a missing value decodes to "".
func Decode(body string) map[string]string {
	out := make(map[string]string)
	body = strings.TrimSpace(body)
	if body == "" {
		return out
	}
	for _, pair := range strings.Split(body, "&") {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		out[unescape(key)] = unescape(value)
	}
	return out
}

// unescape falls back to the raw text when it holds a broken escape.
func unescape(s string) string {
	v, err := url.QueryUnescape(s)
	if err != nil {
		return s
	}
	return v
}
