package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poseidon-capital/console/internal/forms"
	"github.com/poseidon-capital/console/internal/security"
	"github.com/poseidon-capital/console/internal/store"
	"github.com/poseidon-capital/console/internal/validation"
	"github.com/poseidon-capital/console/types"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newViews(t *testing.T) *Views {
	t.Helper()
	views, err := NewViews(discardLogger())
	require.NoError(t, err)
	return views
}

func postForm(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

type ratingService struct {
	mu      sync.Mutex
	nextID  int
	records map[int]types.Rating
	failing error
}

func newRatingService() *ratingService {
	return &ratingService{nextID: 1, records: map[int]types.Rating{}}
}

func (s *ratingService) List(ctx context.Context) ([]types.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing != nil {
		return nil, s.failing
	}
	out := make([]types.Rating, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b types.Rating) int { return a.ID - b.ID })
	return out, nil
}

func (s *ratingService) Get(ctx context.Context, id int) (types.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.records[id]
	if !ok {
		return types.Rating{}, store.ErrNotFound
	}
	return r, nil
}

func (s *ratingService) Create(ctx context.Context, r types.Rating) (types.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing != nil {
		return types.Rating{}, s.failing
	}
	r.ID = s.nextID
	s.nextID++
	s.records[r.ID] = r
	return r, nil
}

func (s *ratingService) Update(ctx context.Context, id int, r types.Rating) (types.Rating, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return types.Rating{}, store.ErrNotFound
	}
	r.ID = id
	s.records[id] = r
	return r, nil
}

func (s *ratingService) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.records, id)
	return nil
}

func newRatingRouter(t *testing.T, svc *ratingService) http.Handler {
	t.Helper()
	r := chi.NewRouter()
	RecordRouter(r, NewRecordHandler(forms.Ratings, svc, validation.New(), newViews(t), discardLogger()))
	return r
}

func validRating() url.Values {
	return url.Values{
		"moodysRating": {"Aaa"},
		"sandPRating":  {"AAA"},
		"fitchRating":  {"AAA"},
		"orderNumber":  {"3"},
	}
}

func TestRecordHandlerCreate(t *testing.T) {
	t.Parallel()
	svc := newRatingService()
	router := newRatingRouter(t, svc)

	rec := serve(router, postForm("/rating/validate", validRating()))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/rating/list", rec.Header().Get("Location"))
	require.Len(t, svc.records, 1)
	assert.Equal(t, "Aaa", svc.records[1].MoodysRating)
	require.NotNil(t, svc.records[1].OrderNumber)
	assert.Equal(t, 3, *svc.records[1].OrderNumber)

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/rating/list", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Aaa")
	assert.Contains(t, rec.Body.String(), "/rating/update/1")
	assert.Contains(t, rec.Body.String(), "/rating/delete/1")
}

func TestRecordHandlerRejectsInvalidForm(t *testing.T) {
	t.Parallel()
	svc := newRatingService()
	router := newRatingRouter(t, svc)

	form := validRating()
	form.Set("moodysRating", "")
	form.Set("orderNumber", "three")
	rec := serve(router, postForm("/rating/validate", form))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Moody&#39;s rating is required")
	assert.Contains(t, body, "Order number must be a whole number")
	assert.Contains(t, body, `value="three"`)
	assert.Empty(t, svc.records)
}

func TestRecordHandlerMissingRecord(t *testing.T) {
	t.Parallel()
	router := newRatingRouter(t, newRatingService())

	tests := []struct {
		name   string
		req    *http.Request
		status int
	}{
		{"edit", httptest.NewRequest(http.MethodGet, "/rating/update/42", nil), http.StatusFound},
		{"edit bad id", httptest.NewRequest(http.MethodGet, "/rating/update/x", nil), http.StatusFound},
		{"update", postForm("/rating/update/42", validRating()), http.StatusSeeOther},
		{"delete", httptest.NewRequest(http.MethodGet, "/rating/delete/42", nil), http.StatusFound},
		{"delete zero", httptest.NewRequest(http.MethodGet, "/rating/delete/0", nil), http.StatusFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(router, tt.req)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "/rating/list?notfound", rec.Header().Get("Location"))
		})
	}

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/rating/list?notfound", nil))
	assert.Contains(t, rec.Body.String(), "Rating not found.")
}

func TestRecordHandlerEditAndUpdate(t *testing.T) {
	t.Parallel()
	svc := newRatingService()
	router := newRatingRouter(t, svc)
	serve(router, postForm("/rating/validate", validRating()))

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/rating/update/1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/rating/update/1"`)
	assert.Contains(t, rec.Body.String(), `value="Aaa"`)

	form := validRating()
	form.Set("fitchRating", "BB-")
	rec = serve(router, postForm("/rating/update/1", form))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "BB-", svc.records[1].FitchRating)

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/rating/delete/1", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/rating/list", rec.Header().Get("Location"))
	assert.Empty(t, svc.records)
}

func TestRecordHandlerServiceFailure(t *testing.T) {
	t.Parallel()
	svc := newRatingService()
	svc.failing = errors.New("connection reset")
	router := newRatingRouter(t, svc)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/rating/list", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Something went wrong")
	assert.NotContains(t, rec.Body.String(), "connection reset")
}

type userCall struct {
	user     types.User
	password string
}

type userService struct {
	users   map[int]types.User
	creates []userCall
	updates []userCall
}

func (s *userService) List(ctx context.Context) ([]types.User, error) {
	out := make([]types.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return out, nil
}

func (s *userService) Get(ctx context.Context, id int) (types.User, error) {
	u, ok := s.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return u, nil
}

func (s *userService) Create(ctx context.Context, user types.User, password string) (types.User, error) {
	for _, u := range s.users {
		if u.Username == user.Username {
			return types.User{}, store.ErrAlreadyExists
		}
	}
	s.creates = append(s.creates, userCall{user, password})
	user.ID = len(s.users) + 1
	s.users[user.ID] = user
	return user, nil
}

func (s *userService) Update(ctx context.Context, id int, user types.User, password string) (types.User, error) {
	if _, ok := s.users[id]; !ok {
		return types.User{}, store.ErrNotFound
	}
	s.updates = append(s.updates, userCall{user, password})
	user.ID = id
	s.users[id] = user
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id int) error {
	if _, ok := s.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

const storedDigest = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z8WTsGbH1aZqTBZxd2dR2kWi"

func newUserRouter(t *testing.T) (http.Handler, *userService) {
	t.Helper()
	svc := &userService{users: map[int]types.User{
		1: {ID: 1, Username: "admin", FullName: "Administrator", Role: types.RoleAdmin, PasswordHash: storedDigest},
	}}
	r := chi.NewRouter()
	UserRouter(r, NewUserHandler(svc, validation.New(), newViews(t), discardLogger()))
	return r, svc
}

func TestUserHandlerCreate(t *testing.T) {
	t.Parallel()
	router, svc := newUserRouter(t)

	rec := serve(router, postForm("/user/validate", url.Values{
		"username": {"bob"}, "fullname": {"Bob"}, "password": {"Secret123!"}, "role": {"USER"},
	}))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	require.Len(t, svc.creates, 1)
	assert.Equal(t, "Secret123!", svc.creates[0].password)
	assert.Equal(t, types.RoleUser, svc.creates[0].user.Role)
}

func TestUserHandlerCreateRequiresPassword(t *testing.T) {
	t.Parallel()
	router, svc := newUserRouter(t)

	rec := serve(router, postForm("/user/validate", url.Values{
		"username": {"bob"}, "fullname": {"Bob"}, "role": {"USER"},
	}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Password is required")
	assert.Empty(t, svc.creates)
}

func TestUserHandlerRejectsUnknownRole(t *testing.T) {
	t.Parallel()
	router, svc := newUserRouter(t)

	rec := serve(router, postForm("/user/validate", url.Values{
		"username": {"bob"}, "fullname": {"Bob"}, "password": {"Secret123!"}, "role": {"ROOT"},
	}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Role must be ADMIN or USER")
	assert.Empty(t, svc.creates)
}

func TestUserHandlerDuplicateUsername(t *testing.T) {
	t.Parallel()
	router, svc := newUserRouter(t)

	rec := serve(router, postForm("/user/validate", url.Values{
		"username": {"admin"}, "fullname": {"Other"}, "password": {"Secret123!"}, "role": {"USER"},
	}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), duplicateUsernameMessage)
	assert.Equal(t, "Administrator", svc.users[1].FullName)
}

func TestUserHandlerEditHidesDigest(t *testing.T) {
	t.Parallel()
	router, _ := newUserRouter(t)

	rec := serve(router, httptest.NewRequest(http.MethodGet, "/user/update/1", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), storedDigest)
	assert.Contains(t, rec.Body.String(), `value="Administrator"`)

	rec = serve(router, httptest.NewRequest(http.MethodGet, "/user/list", nil))
	assert.NotContains(t, rec.Body.String(), storedDigest)
}

func TestUserHandlerUpdateWithBlankPassword(t *testing.T) {
	t.Parallel()
	router, svc := newUserRouter(t)

	rec := serve(router, postForm("/user/update/1", url.Values{
		"username": {"admin"}, "fullname": {"Chief"}, "password": {""}, "role": {"ADMIN"},
	}))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	require.Len(t, svc.updates, 1)
	assert.Empty(t, svc.updates[0].password)
	assert.Equal(t, "Chief", svc.updates[0].user.FullName)

	rec = serve(router, postForm("/user/update/1", url.Values{
		"username": {"admin"}, "fullname": {"Chief"}, "password": {"short"}, "role": {"ADMIN"},
	}))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, svc.updates, 1)

	rec = serve(router, postForm("/user/update/7", url.Values{
		"username": {"ghost"}, "fullname": {"Ghost"}, "role": {"USER"},
	}))
	assert.Equal(t, "/user/list?notfound", rec.Header().Get("Location"))
}

type gateFixture struct {
	handler  http.Handler
	sessions *security.Registry
	cookies  *security.CookieCodec
}

func newGateFixture(t *testing.T) *gateFixture {
	t.Helper()
	sessions := security.NewRegistry(0)
	cookies := security.NewCookieCodec("gate-secret", 0, false)
	gate := NewGate(security.DefaultPolicy(), sessions, cookies, discardLogger())
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if p := security.PrincipalFrom(r.Context()); p != nil {
			_, _ = io.WriteString(w, p.Username)
			return
		}
		_, _ = io.WriteString(w, "anonymous")
	})
	return &gateFixture{handler: gate.Middleware(next), sessions: sessions, cookies: cookies}
}

func (f *gateFixture) cookieFor(t *testing.T, username string, role types.Role) *http.Cookie {
	t.Helper()
	rec := httptest.NewRecorder()
	require.NoError(t, f.cookies.Issue(rec, f.sessions.Register(username, role)))
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	return cookies[0]
}

func TestGateAnonymous(t *testing.T) {
	t.Parallel()
	f := newGateFixture(t)

	rec := serve(f.handler, httptest.NewRequest(http.MethodGet, "/bidList/list", nil))
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	rec = serve(f.handler, httptest.NewRequest(http.MethodGet, "/login", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())

	rec = serve(f.handler, httptest.NewRequest(http.MethodGet, "/css/poseidon.css", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGateRoles(t *testing.T) {
	t.Parallel()
	f := newGateFixture(t)
	userCookie := f.cookieFor(t, "user", types.RoleUser)
	adminCookie := f.cookieFor(t, "admin", types.RoleAdmin)

	req := httptest.NewRequest(http.MethodGet, "/trade/list", nil)
	req.AddCookie(userCookie)
	rec := serve(f.handler, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "user", rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/user/list", nil)
	req.AddCookie(userCookie)
	rec = serve(f.handler, req)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/403", rec.Header().Get("Location"))

	req = httptest.NewRequest(http.MethodGet, "/user/list", nil)
	req.AddCookie(adminCookie)
	rec = serve(f.handler, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "admin", rec.Body.String())
}

func TestGateEvictedSession(t *testing.T) {
	t.Parallel()
	f := newGateFixture(t)
	old := f.cookieFor(t, "user", types.RoleUser)
	f.cookieFor(t, "user", types.RoleUser)

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.AddCookie(old)
	rec := serve(f.handler, req)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login?expired", rec.Header().Get("Location"))

	cleared := rec.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, security.SessionCookieName, cleared[0].Name)
	assert.Negative(t, cleared[0].MaxAge)

	// A stale cookie does not block the public login page.
	req = httptest.NewRequest(http.MethodGet, "/login", nil)
	req.AddCookie(old)
	rec = serve(f.handler, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestGateTamperedCookie(t *testing.T) {
	t.Parallel()
	f := newGateFixture(t)
	cookie := f.cookieFor(t, "user", types.RoleUser)
	cookie.Value += "x"

	req := httptest.NewRequest(http.MethodGet, "/home", nil)
	req.AddCookie(cookie)
	rec := serve(f.handler, req)
	assert.Equal(t, "/login?expired", rec.Header().Get("Location"))
}
