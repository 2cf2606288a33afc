package client

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/pulsetrack/pulsetrack/internal/model"
)

// SubmissionState reports where the most recent activity submission stands.
// A failed submission must never look like a success: callers use the state
// to drive user feedback and to disable their submit control while a
// submission is pending.
type SubmissionState int

const (
	SubmissionIdle SubmissionState = iota
	SubmissionPending
	SubmissionFailed
	SubmissionSucceeded
)

func (s SubmissionState) String() string {
	switch s {
	case SubmissionPending:
		return "pending"
	case SubmissionFailed:
		return "failed"
	case SubmissionSucceeded:
		return "succeeded"
	default:
		return "idle"
	}
}

// ErrSubmissionInFlight is returned when AddActivity is called while a
// previous submission is still pending.
var ErrSubmissionInFlight = errors.New("activity submission already in flight")

type submissionGuard struct {
	mu    sync.Mutex
	state SubmissionState
}

// begin transitions idle/failed/succeeded -> pending; a pending submission
// blocks further attempts.
func (g *submissionGuard) begin() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.state == SubmissionPending {
		return ErrSubmissionInFlight
	}
	g.state = SubmissionPending
	return nil
}

func (g *submissionGuard) finish(ok bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if ok {
		g.state = SubmissionSucceeded
	} else {
		g.state = SubmissionFailed
	}
}

// SubmissionState returns the state of the most recent AddActivity call.
func (c *Client) SubmissionState() SubmissionState {
	c.sub.mu.Lock()
	defer c.sub.mu.Unlock()
	return c.sub.state
}

// AddActivity submits a new activity. While the request is in flight the
// submission state is pending and concurrent calls fail with
// ErrSubmissionInFlight. On success the list cache is invalidated so the
// next ListActivities reflects the write.
func (c *Client) AddActivity(ctx context.Context, name string, timestamp time.Time) (*model.Activity, error) {
	if err := c.sub.begin(); err != nil {
		return nil, err
	}

	var out model.Activity
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"name": name, "timestamp": timestamp}).
		SetResult(&out).
		Post("/api/activities")
	if err != nil {
		c.sub.finish(false)
		return nil, err
	}
	if resp.IsError() {
		c.sub.finish(false)
		return nil, apiErr(resp)
	}

	c.sub.finish(true)
	c.cache.Invalidate(activitiesKey)
	return &out, nil
}
