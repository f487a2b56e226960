package overlay

import (
	"net/url"
	"strconv"
	"strings"
)

// Values serializes the configuration back into overlay query parameters.
func (c Config) Values(opts URLOptions) url.Values {
	q := url.Values{}

	for _, f := range BoolFields {
		if f.QueryOnly || f.Query == "debug" {
			continue
		}
		q.Set(f.Query, boolParam(f.Get(c)))
	}
	for _, f := range IntFields {
		q.Set(f.Query, strconv.Itoa(f.Get(c)))
	}
	q.Set(prefsQuery, strings.Join(c.QuakePrefs, ","))
	for _, f := range stringFields {
		if s := *f.ref(&c); strings.TrimSpace(s) != "" {
			q.Set(f.Query, s)
		}
	}

	if c.ShowStatus {
		q.Set("debug", "1")
	}
	if opts.Sandbox {
		q.Set("quake_sandbox", "1")
	}
	if opts.Test {
		q.Set("test", "1")
	}
	return q
}

// OverlayURL appends the serialized configuration to base, replacing any
// query base already carries.
func (c Config) OverlayURL(base string, opts URLOptions) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + "?" + c.Values(opts).Encode()
	}
	u.RawQuery = c.Values(opts).Encode()
	u.Fragment = ""
	return u.String()
}

func boolParam(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// ApplyProxy routes target through a CORS style proxy template. A template
// with a {url} or %URL% placeholder gets the escaped target substituted, one
// with a query (or ending in "=") gets it appended escaped, anything else is
// used as a literal prefix. An empty template returns target unchanged.
func ApplyProxy(target, proxy string) string {
	p := strings.TrimSpace(proxy)
	if p == "" {
		return target
	}

	escaped := EscapeComponent(target)
	switch {
	case strings.Contains(p, "{url}"):
		return strings.ReplaceAll(p, "{url}", escaped)
	case strings.Contains(p, "%URL%"):
		return strings.ReplaceAll(p, "%URL%", escaped)
	case strings.Contains(p, "?") || strings.HasSuffix(p, "="):
		return p + escaped
	default:
		return p + target
	}
}

// componentUnescape undoes the escapes url.QueryEscape applies beyond the
// set a browser's encodeURIComponent leaves alone.
var componentUnescape = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EscapeComponent escapes s for use as a single query value, matching the
// browser's encodeURIComponent byte for byte.
func EscapeComponent(s string) string {
	return componentUnescape.Replace(url.QueryEscape(s))
}
