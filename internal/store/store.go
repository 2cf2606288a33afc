package store

import (
	"context"

	"github.com/pulsetrack/pulsetrack/internal/model"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (e.g., postgres, sqlite).
type Store interface {
	Users() Users
	Sessions() Sessions
	Activities() Activities
}

type Users interface {
	Create(ctx context.Context, u *model.User) (*model.User, error)
	GetByID(ctx context.Context, userID string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

type Sessions interface {
	Create(ctx context.Context, s *model.Session) (*model.Session, error)
	GetByToken(ctx context.Context, token string) (*model.Session, error)
	Delete(ctx context.Context, sessionID string) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type Activities interface {
	Create(ctx context.Context, a *model.Activity) (*model.Activity, error)
	List(ctx context.Context, userID string) ([]*model.Activity, error)
	Update(ctx context.Context, userID, activityID string, patch model.ActivityPatch) (*model.Activity, error)
	Delete(ctx context.Context, userID, activityID string) error
}
