package security

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionCookieName is the cookie carrying the signed session reference.
const SessionCookieName = "POSEIDON_SESSION"

const defaultCookieTTL = 24 * time.Hour

// CookieCodec writes and reads session cookies. The cookie value is an
// HS256 JWT whose ID is the registry token and whose subject is the
// username; the registry stays authoritative for liveness.
type CookieCodec struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewCookieCodec constructs a codec signing with secret. ttl bounds the
// absolute lifetime of a cookie regardless of activity.
func NewCookieCodec(secret string, ttl time.Duration, secure bool) *CookieCodec {
	if ttl <= 0 {
		ttl = defaultCookieTTL
	}
	return &CookieCodec{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
	}
}

// Issue sets the session cookie for s on w.
func (c *CookieCodec) Issue(w http.ResponseWriter, s Session) error {
	now := c.now()
	claims := jwt.RegisteredClaims{
		ID:        s.Token,
		Subject:   s.Username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    signed,
		Path:     "/",
		Expires:  now.Add(c.ttl),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Read extracts the registry token and username from the request cookie.
// present is false when the request carries no session cookie at all.
func (c *CookieCodec) Read(r *http.Request) (token, username string, present bool, err error) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || strings.TrimSpace(cookie.Value) == "" {
		return "", "", false, nil
	}

	claims := jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(cookie.Value, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return c.secret, nil
	}, jwt.WithTimeFunc(c.now))
	if err != nil {
		return "", "", true, err
	}
	if !parsed.Valid {
		return "", "", true, errors.New("invalid session cookie")
	}
	if strings.TrimSpace(claims.ID) == "" || strings.TrimSpace(claims.Subject) == "" {
		return "", "", true, errors.New("incomplete session cookie")
	}
	return claims.ID, claims.Subject, true, nil
}

// Clear expires the session cookie on w.
func (c *CookieCodec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
