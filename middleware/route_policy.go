package middleware

import (
	"fmt"
	"path"
	"strings"
)

// Disposition is the access class assigned to a request path
type Disposition int

const (
	// Unclassified marks a request the guard has not seen yet
	Unclassified Disposition = iota
	// Public paths are served without verification
	Public
	// Authenticated paths require a verified bearer credential
	Authenticated
	// DefaultPermit paths matched no explicit rule and are served without verification
	DefaultPermit
)

// String returns the disposition name
func (d Disposition) String() string {
	switch d {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case DefaultPermit:
		return "default-permit"
	default:
		return "unclassified"
	}
}

// RouteRule maps a path pattern to a disposition.
//
// Patterns are either exact paths, "prefix/**" which matches prefix and
// everything below it, or paths containing single-segment wildcards in
// path.Match syntax.
type RouteRule struct {
	Pattern     string
	Disposition Disposition
}

// RoutePolicy is an ordered, read-only rule table. The first matching rule
// wins; paths that match nothing are DefaultPermit.
type RoutePolicy struct {
	rules []RouteRule
}

// NewRoutePolicy validates the patterns and returns a policy evaluating them in order
func NewRoutePolicy(rules ...RouteRule) (*RoutePolicy, error) {
	for _, rule := range rules {
		if !strings.HasPrefix(rule.Pattern, "/") {
			return nil, fmt.Errorf("route pattern %q must start with /", rule.Pattern)
		}
		if rule.Disposition == Unclassified {
			return nil, fmt.Errorf("route pattern %q has no disposition", rule.Pattern)
		}
		base := strings.TrimSuffix(rule.Pattern, "/**")
		if strings.Contains(base, "**") {
			return nil, fmt.Errorf("route pattern %q: ** is only allowed as the final segment", rule.Pattern)
		}
		if _, err := path.Match(base, "/"); err != nil {
			return nil, fmt.Errorf("route pattern %q: %w", rule.Pattern, err)
		}
	}

	copied := make([]RouteRule, len(rules))
	copy(copied, rules)
	return &RoutePolicy{rules: copied}, nil
}

// DefaultRoutePolicy returns the resource server's classification table
func DefaultRoutePolicy() *RoutePolicy {
	policy, err := NewRoutePolicy(
		RouteRule{Pattern: "/actuator/**", Disposition: Public},
		RouteRule{Pattern: "/api/health", Disposition: Public},
		RouteRule{Pattern: "/api/**", Disposition: Authenticated},
		RouteRule{Pattern: "/**", Disposition: DefaultPermit},
	)
	if err != nil {
		panic(err)
	}
	return policy
}

// Classify returns the disposition of the first rule matching requestPath
func (p *RoutePolicy) Classify(requestPath string) Disposition {
	if requestPath == "" {
		requestPath = "/"
	}
	for _, rule := range p.rules {
		if matchPattern(rule.Pattern, requestPath) {
			return rule.Disposition
		}
	}
	return DefaultPermit
}

// Rules returns a copy of the rule table
func (p *RoutePolicy) Rules() []RouteRule {
	rules := make([]RouteRule, len(p.rules))
	copy(rules, p.rules)
	return rules
}

func matchPattern(pattern, requestPath string) bool {
	if base, ok := strings.CutSuffix(pattern, "/**"); ok {
		if base == "" {
			return true
		}
		if matchSegments(base, requestPath) {
			return true
		}
		// compare the base against the same number of leading segments
		depth := strings.Count(base, "/")
		segments := strings.SplitAfterN(requestPath, "/", depth+2)
		if len(segments) <= depth+1 {
			return false
		}
		prefix := strings.TrimSuffix(strings.Join(segments[:depth+1], ""), "/")
		return matchSegments(base, prefix)
	}
	return matchSegments(pattern, requestPath)
}

func matchSegments(pattern, requestPath string) bool {
	if !strings.ContainsAny(pattern, "*?[\\") {
		return pattern == requestPath
	}
	ok, err := path.Match(pattern, requestPath)
	return err == nil && ok
}
