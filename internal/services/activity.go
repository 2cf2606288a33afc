package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/pulsetrack/pulsetrack/internal/api/validate"
	"github.com/pulsetrack/pulsetrack/internal/grid"
	"github.com/pulsetrack/pulsetrack/internal/model"
	"github.com/pulsetrack/pulsetrack/internal/store"
)

// ActivityCacheKey returns the cache key invalidated when a user's activity
// set changes.
func ActivityCacheKey(userID string) string { return "activities:" + userID }

// ActivityService wraps activity persistence and aggregation. Every
// successful mutation publishes a cache invalidation for the owner's key;
// subscribers (query caches) decide how to react. The service itself never
// caches.
type ActivityService struct {
	store store.Store
	grid  *grid.Builder

	mu   sync.Mutex
	subs []func(key string)
}

// NewActivityService builds grids in loc (nil means UTC).
func NewActivityService(st store.Store, loc *time.Location) *ActivityService {
	return &ActivityService{store: st, grid: grid.NewBuilder(loc)}
}

// OnInvalidate registers fn to run after every successful mutation.
func (s *ActivityService) OnInvalidate(fn func(key string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *ActivityService) invalidate(userID string) {
	s.mu.Lock()
	subs := make([]func(string), len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()
	for _, fn := range subs {
		fn(ActivityCacheKey(userID))
	}
}

func (s *ActivityService) List(ctx context.Context, userID string) ([]*model.Activity, error) {
	return s.store.Activities().List(ctx, userID)
}

func (s *ActivityService) Create(ctx context.Context, userID, name string, timestamp time.Time) (*model.Activity, error) {
	if err := validate.ActivityName(name); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrValidation, err)
	}
	if timestamp.IsZero() {
		return nil, fmt.Errorf("%w: timestamp is required", model.ErrValidation)
	}
	a, err := s.store.Activities().Create(ctx, &model.Activity{
		UserID:    userID,
		Name:      name,
		Timestamp: timestamp,
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(userID)
	return a, nil
}

func (s *ActivityService) Update(ctx context.Context, userID, activityID string, patch model.ActivityPatch) (*model.Activity, error) {
	if patch.Name != nil {
		if err := validate.ActivityName(*patch.Name); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrValidation, err)
		}
	}
	a, err := s.store.Activities().Update(ctx, userID, activityID, patch)
	if err != nil {
		return nil, err
	}
	s.invalidate(userID)
	return a, nil
}

func (s *ActivityService) Delete(ctx context.Context, userID, activityID string) error {
	if err := s.store.Activities().Delete(ctx, userID, activityID); err != nil {
		return err
	}
	s.invalidate(userID)
	return nil
}

// Grid lists the user's activities and aggregates them into the 7x24 grid.
// filter keeps only activities whose name matches exactly; empty keeps all.
func (s *ActivityService) Grid(ctx context.Context, userID, filter string) (*grid.Grid, error) {
	activities, err := s.store.Activities().List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.grid.Build(activities, filter), nil
}

// Summary returns the distinct-name frequency ranking for the side list.
func (s *ActivityService) Summary(ctx context.Context, userID string) ([]grid.FrequencyEntry, error) {
	activities, err := s.store.Activities().List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return grid.RankByFrequency(activities), nil
}
