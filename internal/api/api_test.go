package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pulsetrack/pulsetrack/internal/auth"
	"github.com/pulsetrack/pulsetrack/internal/grid"
	"github.com/pulsetrack/pulsetrack/internal/model"
	"github.com/pulsetrack/pulsetrack/internal/services"
	"github.com/pulsetrack/pulsetrack/internal/store/storetest"
	"github.com/pulsetrack/pulsetrack/internal/token"
)

var apiSecret = []byte("api-test-secret")

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	st := storetest.NewMemStore()
	authSvc := auth.NewService(st, time.Hour)
	activitySvc := services.NewActivityService(st, time.UTC)
	issuer, err := token.NewIssuer(token.IssuerConfig{
		Secret:  apiSecret,
		BaseURL: "http://localhost:8080",
		Claims:  token.Template{"email": "{{user.email}}"},
	})
	require.NoError(t, err)

	srv := httptest.NewServer(NewRouter(RouterDeps{
		Auth:       authSvc,
		Activities: activitySvc,
		Issuer:     issuer,
	}))
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, bearer string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	var out T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func loginTestUser(t *testing.T, srv *httptest.Server) string {
	t.Helper()
	resp := doJSON(t, "POST", srv.URL+"/api/auth/register", "", map[string]string{
		"email": "a@b.com", "password": "hunter22!",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, "POST", srv.URL+"/api/auth/login", "", map[string]string{
		"email": "a@b.com", "password": "hunter22!",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[struct {
		Token string `json:"token"`
	}](t, resp)
	require.NotEmpty(t, out.Token)
	return out.Token
}

func TestRegisterValidation(t *testing.T) {
	srv := newTestServer(t)

	resp := doJSON(t, "POST", srv.URL+"/api/auth/register", "", map[string]string{
		"email": "not-an-email", "password": "hunter22!",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, "POST", srv.URL+"/api/auth/register", "", map[string]string{
		"email": "a@b.com", "password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	srv := newTestServer(t)
	_ = loginTestUser(t, srv)

	resp := doJSON(t, "POST", srv.URL+"/api/auth/register", "", map[string]string{
		"email": "a@b.com", "password": "hunter22!",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestTokenEndpointRequiresSession(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/auth/token")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(resp.Body)
	assert.Zero(t, buf.Len(), "401 must carry no body")
}

func TestTokenEndpointIssuesSignedToken(t *testing.T) {
	srv := newTestServer(t)
	bearer := loginTestUser(t, srv)

	resp := doJSON(t, "GET", srv.URL+"/api/auth/token", bearer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	out := decode[map[string]string](t, resp)
	require.NotEmpty(t, out["token"])

	tok, err := jwt.Parse([]byte(out["token"]),
		jwt.WithKey(jwa.HS256, apiSecret),
		jwt.WithValidate(false),
	)
	require.NoError(t, err)

	assert.NotEmpty(t, tok.Subject())
	email, _ := tok.Get("email")
	assert.Equal(t, "a@b.com", email)
	sid, ok := tok.Get("sid")
	require.True(t, ok)
	assert.NotEmpty(t, sid)
}

func TestActivityLifecycleAndGrid(t *testing.T) {
	srv := newTestServer(t)
	bearer := loginTestUser(t, srv)

	// 2025-06-01 is a Sunday.
	sunday := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	for _, a := range []struct {
		name string
		ts   time.Time
	}{
		{"Run", sunday.Add(5 * time.Minute)},
		{"Run", sunday.Add(40 * time.Minute)},
		{"Swim", sunday.Add(10 * time.Minute)},
	} {
		resp := doJSON(t, "POST", srv.URL+"/api/activities", bearer, map[string]any{
			"name": a.name, "timestamp": a.ts,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		_ = resp.Body.Close()
	}

	resp := doJSON(t, "GET", srv.URL+"/api/activities", bearer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	listed := decode[struct {
		Activities []*model.Activity `json:"activities"`
		Count      int               `json:"count"`
	}](t, resp)
	require.Equal(t, 3, listed.Count)

	// Unfiltered grid: Sunday 08:00 holds all three.
	resp = doJSON(t, "GET", srv.URL+"/api/grid", bearer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	g := decode[grid.Grid](t, resp)
	assert.Equal(t, 3, g.Cells[0][8].Count)
	assert.Equal(t, 3, g.Cells[0][8].Level)

	// Filtered grid.
	resp = doJSON(t, "GET", srv.URL+"/api/grid?activity=Swim", bearer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	g = decode[grid.Grid](t, resp)
	assert.Equal(t, 1, g.Cells[0][8].Count)
	assert.Equal(t, 1, g.Cells[0][8].Level)
	assert.Equal(t, 1, g.Total)

	// Summary ranking.
	resp = doJSON(t, "GET", srv.URL+"/api/activities/summary", bearer, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	summary := decode[struct {
		Activities []grid.FrequencyEntry `json:"activities"`
	}](t, resp)
	require.Len(t, summary.Activities, 2)
	assert.Equal(t, grid.FrequencyEntry{Name: "Run", Count: 2}, summary.Activities[0])

	// Update then delete one activity.
	target := listed.Activities[2]
	resp = doJSON(t, "PATCH", fmt.Sprintf("%s/api/activities/%s", srv.URL, target.ActivityID), bearer, map[string]string{
		"name": "Open water swim",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[model.Activity](t, resp)
	assert.Equal(t, "Open water swim", updated.Name)

	resp = doJSON(t, "DELETE", fmt.Sprintf("%s/api/activities/%s", srv.URL, target.ActivityID), bearer, nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	_ = resp.Body.Close()

	resp = doJSON(t, "DELETE", fmt.Sprintf("%s/api/activities/%s", srv.URL, target.ActivityID), bearer, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestActivitiesRequireSession(t *testing.T) {
	srv := newTestServer(t)

	for _, tc := range []struct{ method, path string }{
		{"GET", "/api/activities"},
		{"POST", "/api/activities"},
		{"GET", "/api/grid"},
		{"GET", "/api/activities/summary"},
	} {
		req, err := http.NewRequest(tc.method, srv.URL+tc.path, nil)
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, "%s %s", tc.method, tc.path)
		_ = resp.Body.Close()
	}
}

func TestCreateActivityValidation(t *testing.T) {
	srv := newTestServer(t)
	bearer := loginTestUser(t, srv)

	resp := doJSON(t, "POST", srv.URL+"/api/activities", bearer, map[string]any{
		"name": "", "timestamp": time.Now(),
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	_ = resp.Body.Close()
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/health")
	require.NoError(t, err)
	out := decode[map[string]string](t, resp)
	assert.Equal(t, "ok", out["status"])
}
