package security

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/poseidon-capital/console/internal/store"
	"github.com/poseidon-capital/console/types"
)

var (
	// ErrNotFound is returned by Resolve when no account has the username.
	ErrNotFound = errors.New("user not found")
	// ErrBadCredentials is the only failure callers of Authenticate see for
	// a rejected login, whether the username or the password was wrong.
	ErrBadCredentials = errors.New("invalid username or password")
)

// UserLookup fetches an account by username. It returns store.ErrNotFound
// when the username does not exist.
type UserLookup interface {
	GetByUsername(ctx context.Context, username string) (types.User, error)
}

// Credentials are what the session layer needs to check a login.
type Credentials struct {
	Username string
	Digest   string
	Role     types.Role
}

// Authenticator resolves usernames and verifies passwords.
type Authenticator struct {
	users  UserLookup
	hasher Hasher

	decoyOnce sync.Once
	decoy     string
}

// NewAuthenticator constructs an Authenticator.
func NewAuthenticator(users UserLookup, hasher Hasher) *Authenticator {
	return &Authenticator{users: users, hasher: hasher}
}

// Resolve returns the credentials of username, or ErrNotFound.
func (a *Authenticator) Resolve(ctx context.Context, username string) (Credentials, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return Credentials{}, ErrNotFound
	}
	user, err := a.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Credentials{}, ErrNotFound
		}
		return Credentials{}, fmt.Errorf("resolve user: %w", err)
	}
	return Credentials{
		Username: user.Username,
		Digest:   user.PasswordHash,
		Role:     user.Role,
	}, nil
}

// Authenticate checks password against the account of username. Unknown
// usernames and wrong passwords both yield ErrBadCredentials; unknown
// usernames still pay for one digest comparison.
func (a *Authenticator) Authenticate(ctx context.Context, username, password string) (*Principal, error) {
	creds, err := a.Resolve(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			a.hasher.Verify(password, a.decoyDigest())
			return nil, ErrBadCredentials
		}
		return nil, err
	}
	if password == "" || !a.hasher.Verify(password, creds.Digest) {
		return nil, ErrBadCredentials
	}
	return NewPrincipal(creds.Username, creds.Role), nil
}

func (a *Authenticator) decoyDigest() string {
	a.decoyOnce.Do(func() {
		a.decoy, _ = a.hasher.Encode("decoy-password-for-unknown-users")
	})
	return a.decoy
}
