package health

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type fakeChecker struct {
	name    string
	healthy atomic.Int32
}

func (f *fakeChecker) Name() string                               { return f.name }
func (f *fakeChecker) IsHealthy() bool                            { return f.healthy.Load() == 1 }
func (f *fakeChecker) Start(ctx context.Context, _ time.Duration) { /* no-op */ }

func TestServiceHealthChecker_Transitions(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := &fakeChecker{name: "store"}
	b := &fakeChecker{name: "other"}
	a.healthy.Store(1)
	b.healthy.Store(1)

	svc := NewServiceHealthChecker(zerolog.Nop(), a, b)
	go svc.Start(ctx, 10*time.Millisecond)

	waitFor := func(want bool) bool {
		deadline := time.Now().Add(time.Second)
		for time.Now().Before(deadline) {
			if svc.IsHealthy() == want {
				return true
			}
			time.Sleep(5 * time.Millisecond)
		}
		return false
	}

	if !waitFor(true) {
		t.Fatal("service never became healthy")
	}

	b.healthy.Store(0)
	if !waitFor(false) {
		t.Fatal("service did not degrade when a dependency failed")
	}

	b.healthy.Store(1)
	if !waitFor(true) {
		t.Fatal("service did not recover")
	}
}
