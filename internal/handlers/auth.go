package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/poseidon-capital/console/internal/security"
)

// Gate evaluates the access policy before any handler runs. It resolves the
// session cookie to a principal and redirects requests the policy refuses.
type Gate struct {
	policy   security.Policy
	sessions *security.Registry
	cookies  *security.CookieCodec
	logger   *slog.Logger
}

func NewGate(policy security.Policy, sessions *security.Registry, cookies *security.CookieCodec, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{policy: policy, sessions: sessions, cookies: cookies, logger: logger}
}

// Middleware enforces the policy.
func (g *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, stale := g.identify(r)
		if stale {
			g.cookies.Clear(w)
		}

		switch g.policy.Evaluate(r.URL.Path, principal) {
		case security.Allow:
			ctx := r.Context()
			if principal != nil {
				ctx = security.WithPrincipal(ctx, principal)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		case security.Deny:
			g.logger.InfoContext(r.Context(), "access denied",
				"path", r.URL.Path,
				"username", principal.Username,
			)
			http.Redirect(w, r, "/403", http.StatusFound)
		default:
			target := "/login"
			if stale {
				target = "/login?expired"
			}
			http.Redirect(w, r, target, http.StatusFound)
		}
	})
}

// identify returns the principal of the request's live session. stale is
// true when a session cookie was presented but no longer names one.
func (g *Gate) identify(r *http.Request) (principal *security.Principal, stale bool) {
	token, username, present, err := g.cookies.Read(r)
	if !present {
		return nil, false
	}
	if err != nil {
		g.logger.DebugContext(r.Context(), "reject session cookie", "error", err)
		return nil, true
	}
	session, ok := g.sessions.Lookup(token)
	if !ok || session.Username != username {
		return nil, true
	}
	return security.NewPrincipal(session.Username, session.Role), false
}

// AuthHandler serves the login, logout, landing and fixed message pages.
type AuthHandler struct {
	auth     *security.Authenticator
	sessions *security.Registry
	cookies  *security.CookieCodec
	throttle *security.Throttle
	views    *Views
	health   func(ctx context.Context) error
	logger   *slog.Logger
}

// AuthConfig groups the collaborators of AuthHandler.
type AuthConfig struct {
	Authenticator *security.Authenticator
	Sessions      *security.Registry
	Cookies       *security.CookieCodec
	Throttle      *security.Throttle
	Views         *Views
	Health        func(ctx context.Context) error
	Logger        *slog.Logger
}

func NewAuthHandler(cfg AuthConfig) *AuthHandler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthHandler{
		auth:     cfg.Authenticator,
		sessions: cfg.Sessions,
		cookies:  cfg.Cookies,
		throttle: cfg.Throttle,
		views:    cfg.Views,
		health:   cfg.Health,
		logger:   logger,
	}
}

// AuthRouter registers the authentication and landing routes on r.
func AuthRouter(r chi.Router, h *AuthHandler) {
	r.Get("/", h.Home)
	r.Get("/home", h.Home)
	r.Get("/login", h.LoginPage)
	r.Post("/login", h.Login)
	r.Get("/logout", h.Logout)
	r.Post("/logout", h.Logout)
	r.Get("/403", h.Forbidden)
	r.Get("/error", h.Error)
	r.Get("/healthz", h.Healthz)
}

// LoginPage renders the sign-in form with the indicator carried in the query.
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	page := Page{Title: "Login", User: nil}
	q := r.URL.Query()
	switch {
	case q.Has("error"):
		page.Error = "Invalid username or password."
	case q.Has("expired"):
		page.Error = "Your session has expired. Please sign in again."
	case q.Has("logout"):
		page.Flash = "You have been logged out."
	}
	h.views.Render(w, r, http.StatusOK, "login", page)
}

// Login checks the submitted credentials and opens a session. Any failure
// redirects to /login?error without saying which credential was wrong.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	failed := func() { http.Redirect(w, r, "/login?error", http.StatusSeeOther) }

	if !h.throttle.Allow(clientIP(r)) {
		h.logger.WarnContext(r.Context(), "login throttled", "client", clientIP(r))
		failed()
		return
	}
	if err := r.ParseForm(); err != nil {
		failed()
		return
	}

	username := strings.TrimSpace(r.PostForm.Get("username"))
	principal, err := h.auth.Authenticate(r.Context(), username, r.PostForm.Get("password"))
	if err != nil {
		if !errors.Is(err, security.ErrBadCredentials) {
			h.logger.ErrorContext(r.Context(), "authenticate", "error", err)
		} else {
			h.logger.InfoContext(r.Context(), "login failed", "username", username)
		}
		failed()
		return
	}

	// A browser switching accounts must not keep the old session alive.
	if token, _, present, err := h.cookies.Read(r); present && err == nil {
		h.sessions.Invalidate(token)
	}

	session := h.sessions.Register(principal.Username, principal.Role)
	if err := h.cookies.Issue(w, session); err != nil {
		h.sessions.Invalidate(session.Token)
		h.logger.ErrorContext(r.Context(), "issue session cookie", "error", err)
		failed()
		return
	}

	h.logger.InfoContext(r.Context(), "login", "username", principal.Username, "role", principal.Role)
	http.Redirect(w, r, "/home", http.StatusSeeOther)
}

// Logout ends the current session, if any.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, username, present, err := h.cookies.Read(r); present && err == nil {
		h.sessions.Invalidate(token)
		h.logger.InfoContext(r.Context(), "logout", "username", username)
	}
	h.cookies.Clear(w)
	redirect(w, r, "/login?logout")
}

func (h *AuthHandler) Home(w http.ResponseWriter, r *http.Request) {
	h.views.Render(w, r, http.StatusOK, "home", Page{Title: "Home"})
}

func (h *AuthHandler) Forbidden(w http.ResponseWriter, r *http.Request) {
	h.views.Message(w, r, http.StatusForbidden, "Access denied", deniedMessage)
}

func (h *AuthHandler) Error(w http.ResponseWriter, r *http.Request) {
	h.views.Message(w, r, http.StatusOK, "Error", deniedMessage)
}

func (h *AuthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	if h.health != nil {
		if err := h.health(r.Context()); err != nil {
			h.logger.ErrorContext(r.Context(), "health check", "error", err)
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// clientIP keys the login throttle. RemoteAddr has already been rewritten
// by middleware.RealIP when the server sits behind a proxy.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
