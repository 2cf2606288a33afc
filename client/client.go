// Package client is a Go client for the pulse service REST API. It mirrors
// the query layer the web UI uses: a list cache that is explicitly
// invalidated after every successful mutation, and a submission guard that
// keeps a form from double-submitting while a request is in flight.
package client

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/pulsetrack/pulsetrack/internal/cache"
	"github.com/pulsetrack/pulsetrack/internal/grid"
	"github.com/pulsetrack/pulsetrack/internal/model"
)

const activitiesKey = "activities"

// Client talks to one pulse service as at most one logged-in user.
// Safe for concurrent use.
type Client struct {
	http  *resty.Client
	cache *cache.Cache[[]*model.Activity]
	sub   submissionGuard
}

// New returns a client for the service at baseURL.
func New(baseURL string) *Client {
	return &Client{
		http:  resty.New().SetBaseURL(baseURL).SetTimeout(15 * time.Second),
		cache: cache.New[[]*model.Activity](),
	}
}

// SetSessionToken sets the bearer token used on authenticated calls.
func (c *Client) SetSessionToken(token string) {
	c.http.SetAuthToken(token)
}

// SessionToken returns the bearer token from the last Login or
// SetSessionToken, or "" when no session is active.
func (c *Client) SessionToken() string {
	return c.http.Token
}

func apiErr(resp *resty.Response) error {
	return fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String())
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, email, password string, displayName *string) (*model.User, error) {
	var out model.User
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"email": email, "password": password, "displayName": displayName}).
		SetResult(&out).
		Post("/api/auth/register")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiErr(resp)
	}
	return &out, nil
}

// Login opens a session and remembers its bearer token for later calls.
func (c *Client) Login(ctx context.Context, email, password string) (*model.User, error) {
	var out struct {
		Token string     `json:"token"`
		User  model.User `json:"user"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"email": email, "password": password}).
		SetResult(&out).
		Post("/api/auth/login")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiErr(resp)
	}
	c.SetSessionToken(out.Token)
	return &out.User, nil
}

// Logout closes the session.
func (c *Client) Logout(ctx context.Context) error {
	resp, err := c.http.R().SetContext(ctx).Post("/api/auth/logout")
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiErr(resp)
	}
	c.http.SetAuthToken("")
	c.cache.Invalidate(activitiesKey)
	return nil
}

// FetchToken requests a fresh integration token for the active session.
func (c *Client) FetchToken(ctx context.Context) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get("/api/auth/token")
	if err != nil {
		return "", err
	}
	if resp.IsError() {
		return "", apiErr(resp)
	}
	if out.Token == "" {
		return "", fmt.Errorf("no token in response")
	}
	return out.Token, nil
}

// ListActivities returns the activity list, served from the cache when a
// snapshot exists. Mutations invalidate the snapshot, so a list after a
// successful write always refetches.
func (c *Client) ListActivities(ctx context.Context) ([]*model.Activity, error) {
	if cached, ok := c.cache.Get(activitiesKey); ok {
		return cached, nil
	}
	var out struct {
		Activities []*model.Activity `json:"activities"`
	}
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get("/api/activities")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiErr(resp)
	}
	c.cache.Put(activitiesKey, out.Activities)
	return out.Activities, nil
}

// UpdateActivity patches an activity and invalidates the list snapshot.
func (c *Client) UpdateActivity(ctx context.Context, activityID string, patch model.ActivityPatch) (*model.Activity, error) {
	var out model.Activity
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(patch).
		SetResult(&out).
		Patch("/api/activities/" + activityID)
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiErr(resp)
	}
	c.cache.Invalidate(activitiesKey)
	return &out, nil
}

// DeleteActivity removes an activity and invalidates the list snapshot.
func (c *Client) DeleteActivity(ctx context.Context, activityID string) error {
	resp, err := c.http.R().SetContext(ctx).Delete("/api/activities/" + activityID)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return apiErr(resp)
	}
	c.cache.Invalidate(activitiesKey)
	return nil
}

// Grid fetches the 7x24 aggregation, optionally filtered by exact name.
func (c *Client) Grid(ctx context.Context, filter string) (*grid.Grid, error) {
	var out grid.Grid
	req := c.http.R().SetContext(ctx).SetResult(&out)
	if filter != "" {
		req.SetQueryParam("activity", filter)
	}
	resp, err := req.Get("/api/grid")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiErr(resp)
	}
	return &out, nil
}

// Summary fetches the distinct-name frequency ranking.
func (c *Client) Summary(ctx context.Context) ([]grid.FrequencyEntry, error) {
	var out struct {
		Activities []grid.FrequencyEntry `json:"activities"`
	}
	resp, err := c.http.R().SetContext(ctx).SetResult(&out).Get("/api/activities/summary")
	if err != nil {
		return nil, err
	}
	if resp.IsError() {
		return nil, apiErr(resp)
	}
	return out.Activities, nil
}
