package httpadapter

import (
	"net/http"
	"net/url"
	"strings"
)

// PatternRoute maps a glob-style URL pattern to the resource name flow
// and circuit-breaker rules are keyed on, decoupled from the limit
// itself: the limit lives on a flow.Rule keyed by Resource, not on this
// route.
type PatternRoute struct {
	Pattern  string
	Resource string
}

// PatternResourceNamer builds a ResourceNamer that matches a request's
// host+path against routes in order and returns the first match's
// Resource, falling back to DefaultResourceNamer when nothing matches.
func PatternResourceNamer(routes []PatternRoute) ResourceNamer {
	return func(r *http.Request) string {
		hostPath := strings.TrimRight(r.URL.Host+r.URL.Path, "/")
		if hostPath == "" {
			hostPath = strings.TrimRight(r.Host+r.URL.Path, "/")
		}
		for _, route := range routes {
			if globMatch(strings.TrimRight(route.Pattern, "/"), hostPath) {
				return route.Resource
			}
		}
		return DefaultResourceNamer(r)
	}
}

// MatchURL reports whether rawURL's host+path matches a glob-style
// pattern, where "*" matches any sequence of characters and a trailing
// "/*" matches everything under that prefix.
func MatchURL(rawURL, pattern string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	hostPath := strings.TrimRight(parsed.Host+parsed.Path, "/")
	return globMatch(strings.TrimRight(pattern, "/"), hostPath)
}

// globMatch performs simple glob matching where "*" matches any
// sequence of characters and a trailing "/*" matches everything under
// that prefix.
func globMatch(pattern, value string) bool {
	if pattern == value {
		return true
	}
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if value == prefix || strings.HasPrefix(value, prefix+"/") {
			return true
		}
	}
	return wildcardMatch(pattern, value)
}

func wildcardMatch(pattern, str string) bool {
	if pattern == "*" {
		return true
	}
	for len(pattern) > 0 {
		if pattern[0] == '*' {
			pattern = pattern[1:]
			if len(pattern) == 0 {
				return true
			}
			for i := 0; i <= len(str); i++ {
				if wildcardMatch(pattern, str[i:]) {
					return true
				}
			}
			return false
		}
		if len(str) == 0 || pattern[0] != str[0] {
			return false
		}
		pattern = pattern[1:]
		str = str[1:]
	}
	return len(str) == 0
}
