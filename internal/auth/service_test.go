package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsetrack/pulsetrack/internal/store/storetest"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	return NewService(storetest.NewMemStore(), time.Hour)
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	name := "Ada"
	u, err := svc.Register(ctx, "a@b.com", "hunter22", &name)
	require.NoError(t, err)
	assert.NotEmpty(t, u.UserID)
	assert.NotEqual(t, "hunter22", u.PasswordHash)

	sess, err := svc.Login(ctx, "a@b.com", "hunter22")
	require.NoError(t, err)
	assert.Equal(t, u.UserID, sess.User.UserID)
	assert.NotEmpty(t, sess.Session.Token)
	assert.True(t, sess.Session.ExpiresAt.After(time.Now()))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Register(ctx, "a@b.com", "pw", nil)
	require.NoError(t, err)
	_, err = svc.Register(ctx, "a@b.com", "pw2", nil)
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestLoginBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Register(ctx, "a@b.com", "right", nil)
	require.NoError(t, err)

	_, err = svc.Login(ctx, "a@b.com", "wrong")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody@b.com", "right")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Register(ctx, "a@b.com", "pw", nil)
	require.NoError(t, err)
	sess, err := svc.Login(ctx, "a@b.com", "pw")
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, sess.Session.Token)
	require.NoError(t, err)
	assert.Equal(t, sess.Session.SessionID, got.Session.SessionID)
	assert.Equal(t, "a@b.com", got.User.Email)

	_, err = svc.Authenticate(ctx, "bogus-token")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestAuthenticateExpiredSession(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Register(ctx, "a@b.com", "pw", nil)
	require.NoError(t, err)
	sess, err := svc.Login(ctx, "a@b.com", "pw")
	require.NoError(t, err)

	svc.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = svc.Authenticate(ctx, sess.Session.Token)
	require.ErrorIs(t, err, ErrSessionExpired)
}

func TestLogoutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Register(ctx, "a@b.com", "pw", nil)
	require.NoError(t, err)
	sess, err := svc.Login(ctx, "a@b.com", "pw")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, sess.Session.Token))
	_, err = svc.Authenticate(ctx, sess.Session.Token)
	require.ErrorIs(t, err, ErrSessionNotFound)

	require.NoError(t, svc.Logout(ctx, sess.Session.Token))
}

func TestSessionDocument(t *testing.T) {
	name := "Ada"
	expires := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	sess := &Session{}
	sess.User.UserID = "u1"
	sess.User.Email = "a@b.com"
	sess.User.DisplayName = &name
	sess.Session.SessionID = "s1"
	sess.Session.ExpiresAt = expires

	doc := sess.Document()
	user := doc["user"].(map[string]any)
	assert.Equal(t, "u1", user["id"])
	assert.Equal(t, "a@b.com", user["email"])
	assert.Equal(t, "Ada", user["name"])
	session := doc["session"].(map[string]any)
	assert.Equal(t, "s1", session["id"])
	assert.Equal(t, "2025-06-01T12:00:00Z", session["expiresAt"])
}

func TestMiddleware(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	_, err := svc.Register(ctx, "a@b.com", "pw", nil)
	require.NoError(t, err)
	sess, err := svc.Login(ctx, "a@b.com", "pw")
	require.NoError(t, err)

	var seen *Session
	h := svc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = SessionFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	// No Authorization header: bare 401, no body.
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest("GET", "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Empty(t, rr.Body.String())

	// Valid bearer token passes and exposes the session.
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+sess.Session.Token)
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "a@b.com", seen.User.Email)
}
