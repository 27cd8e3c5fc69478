package security

import (
	"path"
	"slices"
	"strings"

	"github.com/poseidon-capital/console/types"
)

// Access is the requirement a [Rule] places on a request.
type Access int

const (
	// PermitAll lets every request through, authenticated or not.
	PermitAll Access = iota
	// Authenticated requires a session with any role.
	Authenticated
	// HasRole requires a session whose principal holds the rule's role.
	HasRole
)

func (a Access) String() string {
	switch a {
	case PermitAll:
		return "permitAll"
	case Authenticated:
		return "authenticated"
	case HasRole:
		return "hasRole"
	default:
		return "unknown"
	}
}

// Decision is the outcome of evaluating a request against a [Policy].
type Decision int

const (
	// Allow hands the request to its handler.
	Allow Decision = iota
	// Challenge sends an unauthenticated caller to the login page.
	Challenge
	// Deny sends an authenticated caller to the access denied page.
	Deny
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case Challenge:
		return "challenge"
	case Deny:
		return "deny"
	default:
		return "unknown"
	}
}

// Rule pairs a path pattern with its access requirement. Patterns are either
// exact paths ("/login") or prefixes ending in "/**" ("/user/**"), which match
// the prefix itself and anything below it. "/**" matches every path.
type Rule struct {
	Pattern string
	Access  Access
	Role    types.Role
}

// Policy is an ordered rule table; the first matching rule decides.
type Policy struct {
	rules []Rule
}

// NewPolicy returns a policy evaluating rules in order.
func NewPolicy(rules ...Rule) Policy {
	return Policy{rules: slices.Clone(rules)}
}

// DefaultPolicy is the console's route table: static assets and the login
// flow are public, user administration is ADMIN only, everything else needs
// a session.
func DefaultPolicy() Policy {
	return NewPolicy(
		Rule{Pattern: "/css/**", Access: PermitAll},
		Rule{Pattern: "/js/**", Access: PermitAll},
		Rule{Pattern: "/images/**", Access: PermitAll},
		Rule{Pattern: "/favicon.ico", Access: PermitAll},
		Rule{Pattern: "/healthz", Access: PermitAll},
		Rule{Pattern: "/login", Access: PermitAll},
		Rule{Pattern: "/logout", Access: PermitAll},
		Rule{Pattern: "/error", Access: PermitAll},
		Rule{Pattern: "/403", Access: PermitAll},
		Rule{Pattern: "/user/**", Access: HasRole, Role: types.RoleAdmin},
		Rule{Pattern: "/**", Access: Authenticated},
	)
}

// Rules returns a copy of the policy's rule table.
func (p Policy) Rules() []Rule {
	return slices.Clone(p.rules)
}

// Match returns the first rule matching urlPath.
func (p Policy) Match(urlPath string) (Rule, bool) {
	cleaned := cleanPath(urlPath)
	for _, rule := range p.rules {
		if matchPattern(rule.Pattern, cleaned) {
			return rule, true
		}
	}
	return Rule{}, false
}

// Evaluate decides what happens to a request for urlPath made by principal,
// which is nil for unauthenticated requests. Paths matching no rule are
// refused.
func (p Policy) Evaluate(urlPath string, principal *Principal) Decision {
	rule, ok := p.Match(urlPath)
	if !ok {
		if principal == nil {
			return Challenge
		}
		return Deny
	}

	switch rule.Access {
	case PermitAll:
		return Allow
	case Authenticated:
		if principal == nil {
			return Challenge
		}
		return Allow
	case HasRole:
		if principal == nil {
			return Challenge
		}
		if principal.HasAuthority(Authority(rule.Role)) {
			return Allow
		}
		return Deny
	default:
		if principal == nil {
			return Challenge
		}
		return Deny
	}
}

func matchPattern(pattern, urlPath string) bool {
	if prefix, ok := strings.CutSuffix(pattern, "/**"); ok {
		if prefix == "" {
			return true
		}
		return urlPath == prefix || strings.HasPrefix(urlPath, prefix+"/")
	}
	return urlPath == pattern
}

func cleanPath(urlPath string) string {
	if urlPath == "" {
		return "/"
	}
	if !strings.HasPrefix(urlPath, "/") {
		urlPath = "/" + urlPath
	}
	return path.Clean(urlPath)
}
