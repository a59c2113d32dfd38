package compile

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/vedsharma/apicli/internal/model"
)

// DefaultScheme is prepended to URLs typed without one. Requests default to
// HTTPS; plain HTTP has to be asked for explicitly.
const DefaultScheme = "https://"

var schemePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9+.-]*://`)

// NormalizeURL trims raw and injects DefaultScheme when it has no scheme
func NormalizeURL(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" || schemePattern.MatchString(trimmed) {
		return trimmed
	}
	return DefaultScheme + trimmed
}

// BuildQueryString form-encodes the effective params joined with "&". It
// returns "" when nothing is effective, never a bare "?".
func BuildQueryString(params model.KeyValueList) string {
	var parts []string
	for _, p := range params.Effective() {
		parts = append(parts, encodePair(p.Key, p.Value))
	}
	return strings.Join(parts, "&")
}

// BuildFullURL normalizes rawURL and appends the query string built from
// params, merging with any query already present in the URL.
func BuildFullURL(rawURL string, params model.KeyValueList) string {
	return appendQuery(NormalizeURL(rawURL), BuildQueryString(params))
}

func encodePair(key, value string) string {
	return url.QueryEscape(key) + "=" + url.QueryEscape(value)
}

// appendQuery joins query onto u with "?" or "&", keeping any fragment last
func appendQuery(u, query string) string {
	if query == "" {
		return u
	}

	fragment := ""
	if i := strings.Index(u, "#"); i >= 0 {
		u, fragment = u[:i], u[i:]
	}

	switch {
	case !strings.Contains(u, "?"):
		u += "?" + query
	case strings.HasSuffix(u, "?"), strings.HasSuffix(u, "&"):
		u += query
	default:
		u += "&" + query
	}
	return u + fragment
}
