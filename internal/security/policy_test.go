package security

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poseidon-capital/console/types"
)

func TestDefaultPolicy_Evaluate(t *testing.T) {
	t.Parallel()

	admin := NewPrincipal("admin", types.RoleAdmin)
	user := NewPrincipal("user", types.RoleUser)
	policy := DefaultPolicy()

	tests := []struct {
		name      string
		path      string
		principal *Principal
		want      Decision
	}{
		{"login page anonymous", "/login", nil, Allow},
		{"stylesheet anonymous", "/css/poseidon.css", nil, Allow},
		{"error page anonymous", "/error", nil, Allow},
		{"health anonymous", "/healthz", nil, Allow},
		{"home anonymous", "/home", nil, Challenge},
		{"root anonymous", "/", nil, Challenge},
		{"bid list anonymous", "/bidList/list", nil, Challenge},
		{"bid list user", "/bidList/list", user, Allow},
		{"bid list admin", "/bidList/list", admin, Allow},
		{"user admin anonymous", "/user/list", nil, Challenge},
		{"user admin as user", "/user/list", user, Deny},
		{"user admin as admin", "/user/list", admin, Allow},
		{"user prefix itself", "/user", user, Deny},
		{"user lookalike prefix", "/username", user, Allow},
		{"dot segments are cleaned", "/css/../user/list", user, Deny},
		{"trailing slash", "/user/", user, Deny},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.want, policy.Evaluate(tc.path, tc.principal))
		})
	}
}

func TestPolicy_FirstMatchWins(t *testing.T) {
	t.Parallel()

	policy := NewPolicy(
		Rule{Pattern: "/reports/public", Access: PermitAll},
		Rule{Pattern: "/reports/**", Access: HasRole, Role: types.RoleAdmin},
	)

	assert.Equal(t, Allow, policy.Evaluate("/reports/public", nil))
	assert.Equal(t, Challenge, policy.Evaluate("/reports/daily", nil))
	assert.Equal(t, Deny, policy.Evaluate("/reports/daily", NewPrincipal("u", types.RoleUser)))

	rule, ok := policy.Match("/reports/daily")
	assert.True(t, ok)
	assert.Equal(t, HasRole, rule.Access)
}

func TestPolicy_UnmatchedPathsAreRefused(t *testing.T) {
	t.Parallel()

	policy := NewPolicy(Rule{Pattern: "/login", Access: PermitAll})

	assert.Equal(t, Challenge, policy.Evaluate("/anything", nil))
	assert.Equal(t, Deny, policy.Evaluate("/anything", NewPrincipal("u", types.RoleUser)))
}

func TestPolicy_RulesIsACopy(t *testing.T) {
	t.Parallel()

	policy := DefaultPolicy()
	rules := policy.Rules()
	rules[0].Pattern = "/mutated"

	assert.Equal(t, "/css/**", policy.Rules()[0].Pattern)
}

func TestAuthority(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "ROLE_ADMIN", Authority(types.RoleAdmin))
	assert.True(t, NewPrincipal("a", types.RoleAdmin).IsAdmin())
	assert.False(t, NewPrincipal("u", types.RoleUser).IsAdmin())

	var nobody *Principal
	assert.False(t, nobody.IsAdmin())
}
