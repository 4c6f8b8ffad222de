package ratelimit

import "strings"

// unlimited is returned for endpoints that are never rate limited
var unlimited = EndpointConfig{}

// MatchEndpoint matches a request path and method to an endpoint configuration.
// Exact paths win over prefixes; nil means the default limit applies.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		rule := unlimited
		return &rule
	}

	var prefix *EndpointConfig
	for i := range configs {
		rule := &configs[i]
		if rule.Method != method {
			continue
		}
		if rule.Path == path {
			return rule
		}
		if prefix == nil && strings.HasSuffix(rule.Path, "/") && strings.HasPrefix(path, rule.Path) {
			prefix = rule
		}
	}
	return prefix
}
