// Package security holds the authentication and authorization primitives of
// the console.
//
// # Components
//
//   - [Hasher], [BCryptHasher]: one-way password digests
//   - [Authenticator]: resolves usernames to credentials and checks passwords
//   - [Registry]: live sessions, at most one per username, newest login wins
//   - [CookieCodec]: signed session cookies referencing registry tokens
//   - [Policy]: ordered (pattern, requirement) table evaluated per request
//   - [Throttle]: per-client login attempt limiter
package security

import (
	"context"
	"slices"

	"github.com/poseidon-capital/console/types"
)

// AuthorityPrefix namespaces roles into granted authorities.
const AuthorityPrefix = "ROLE_"

// Principal is the identity attached to an authenticated request.
type Principal struct {
	Username    string
	Role        types.Role
	Authorities []string
}

// NewPrincipal builds a principal whose single authority derives from role.
func NewPrincipal(username string, role types.Role) *Principal {
	return &Principal{
		Username:    username,
		Role:        role,
		Authorities: []string{Authority(role)},
	}
}

// Authority maps a role to its authority name, e.g. ADMIN to ROLE_ADMIN.
func Authority(role types.Role) string {
	return AuthorityPrefix + string(role)
}

// HasAuthority reports whether the principal was granted authority.
func (p *Principal) HasAuthority(authority string) bool {
	if p == nil {
		return false
	}
	return slices.Contains(p.Authorities, authority)
}

// IsAdmin reports whether the principal holds ROLE_ADMIN.
func (p *Principal) IsAdmin() bool {
	return p.HasAuthority(Authority(types.RoleAdmin))
}

type principalKey struct{}

// WithPrincipal returns a copy of ctx carrying p.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFrom returns the principal stored in ctx, or nil.
func PrincipalFrom(ctx context.Context) *Principal {
	p, _ := ctx.Value(principalKey{}).(*Principal)
	return p
}

// ActorFrom returns the username of the principal in ctx, or "system" when
// the call did not originate from an authenticated request.
func ActorFrom(ctx context.Context) string {
	if p := PrincipalFrom(ctx); p != nil {
		return p.Username
	}
	return "system"
}
