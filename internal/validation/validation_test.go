package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poseidon-capital/console/types"
)

func ptr[T any](v T) *T { return &v }

func TestStruct_BidList(t *testing.T) {
	t.Parallel()
	v := New()

	errs := v.Struct(types.BidList{Account: "acct", Type: "t", BidQuantity: ptr(10.0)})
	assert.Nil(t, errs)

	errs = v.Struct(types.BidList{Account: "acct", Type: "t", BidQuantity: ptr(-1.0)})
	require.NotNil(t, errs)
	assert.Equal(t, "Bid quantity must be a positive number", errs["bidQuantity"])

	errs = v.Struct(types.BidList{})
	assert.Equal(t, "Account is required", errs["account"])
	assert.Equal(t, "Type is required", errs["type"])
	assert.Equal(t, "Bid quantity is required", errs["bidQuantity"])
}

func TestStruct_LengthLimits(t *testing.T) {
	t.Parallel()
	v := New()

	long := make([]byte, 31)
	for i := range long {
		long[i] = 'a'
	}
	errs := v.Struct(types.Trade{Account: string(long), Type: "t"})
	assert.Equal(t, "Account cannot exceed 30 characters", errs["account"])
	assert.NotContains(t, errs, "type")
}

func TestStruct_OptionalPositiveNumbers(t *testing.T) {
	t.Parallel()
	v := New()

	assert.Nil(t, v.Struct(types.CurvePoint{CurveID: ptr(1)}))

	errs := v.Struct(types.CurvePoint{CurveID: ptr(1), Term: ptr(0.0), Value: ptr(-2.0)})
	assert.Equal(t, "Curve term must be a positive number", errs["term"])
	assert.Equal(t, "Curve value must be a positive number", errs["value"])
}

func TestStruct_User(t *testing.T) {
	t.Parallel()
	v := New()

	errs := v.Struct(types.User{Username: "ab", FullName: "", Role: "ROOT"})
	assert.Equal(t, "Username must contain at least 3 characters", errs["username"])
	assert.Equal(t, "Full name is required", errs["fullname"])
	assert.Equal(t, "Role must be ADMIN or USER", errs["role"])

	assert.Nil(t, v.Struct(types.User{Username: "alice", FullName: "Alice", Role: types.RoleAdmin}))
}

func TestPassword(t *testing.T) {
	t.Parallel()
	v := New()

	cases := []struct {
		password string
		wantErr  string
	}{
		{"Password123!", ""},
		{"Xy1!abcd", ""},
		{"", "Password is required"},
		{"Ab1!", "Password must contain at least 8 characters"},
		{"password123!", "Password must contain at least one uppercase letter, one digit and one special character"},
		{"Password!!!", "Password must contain at least one uppercase letter, one digit and one special character"},
		{"Password123", "Password must contain at least one uppercase letter, one digit and one special character"},
		{"A1!" + strings.Repeat("é", 60), "Password cannot exceed 72 bytes"},
		{"A1!" + strings.Repeat("é", 34), ""},
	}
	for _, tc := range cases {
		t.Run(tc.password, func(t *testing.T) {
			errs := v.Password(tc.password)
			if tc.wantErr == "" {
				assert.Nil(t, errs)
				return
			}
			assert.Equal(t, tc.wantErr, errs[PasswordField])
		})
	}
}

func TestFieldErrors(t *testing.T) {
	t.Parallel()
	fe := FieldErrors{}
	fe.Add("b", "second")
	fe.Add("a", "first")
	fe.Add("a", "ignored")
	fe.Merge(FieldErrors{"b": "ignored", "c": "third"})

	assert.Equal(t, "first", fe["a"])
	assert.Equal(t, "a: first; b: second; c: third", fe.Error())
}
