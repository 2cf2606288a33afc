package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pulsetrack/pulsetrack/internal/model"
	"github.com/pulsetrack/pulsetrack/internal/store"
)

// Run exercises a minimal compliance suite against a store.Store implementation.
// Implementations should provide a clean, isolated store and return it from makeStore.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	s := makeStore(t)
	ctx := context.Background()

	email := "u-" + uuid.New().String() + "@example.test"

	// Users
	u, err := s.Users().Create(ctx, &model.User{Email: email, PasswordHash: "x"})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.UserID == "" {
		t.Fatalf("CreateUser: empty user id")
	}
	if got, err := s.Users().GetByID(ctx, u.UserID); err != nil || got.Email != email {
		t.Fatalf("GetUserByID: got=%v err=%v", got, err)
	}
	if got, err := s.Users().GetByEmail(ctx, email); err != nil || got.UserID != u.UserID {
		t.Fatalf("GetUserByEmail: got=%v err=%v", got, err)
	}
	if _, err := s.Users().GetByEmail(ctx, "absent@example.test"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetUserByEmail absent: want ErrNotFound, got %v", err)
	}
	if _, err := s.Users().Create(ctx, &model.User{Email: email, PasswordHash: "x"}); !errors.Is(err, model.ErrConflict) {
		t.Fatalf("CreateUser duplicate email: want ErrConflict, got %v", err)
	}

	// Sessions
	sess, err := s.Sessions().Create(ctx, &model.Session{
		UserID:    u.UserID,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if got, err := s.Sessions().GetByToken(ctx, sess.Token); err != nil || got.SessionID != sess.SessionID {
		t.Fatalf("GetSessionByToken: got=%v err=%v", got, err)
	}

	expired, err := s.Sessions().Create(ctx, &model.Session{
		UserID:    u.UserID,
		Token:     uuid.New().String(),
		ExpiresAt: time.Now().Add(-time.Hour),
	})
	if err != nil {
		t.Fatalf("CreateSession expired: %v", err)
	}
	if n, err := s.Sessions().DeleteExpired(ctx); err != nil || n < 1 {
		t.Fatalf("DeleteExpired: n=%d err=%v", n, err)
	}
	if _, err := s.Sessions().GetByToken(ctx, expired.Token); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetSessionByToken expired: want ErrNotFound, got %v", err)
	}
	if err := s.Sessions().Delete(ctx, sess.SessionID); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	if _, err := s.Sessions().GetByToken(ctx, sess.Token); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("GetSessionByToken after delete: want ErrNotFound, got %v", err)
	}

	// Activities
	ts := time.Date(2025, 6, 1, 8, 5, 0, 0, time.UTC)
	a, err := s.Activities().Create(ctx, &model.Activity{UserID: u.UserID, Name: "Run", Timestamp: ts})
	if err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	if a.ActivityID == "" {
		t.Fatalf("CreateActivity: empty activity id")
	}
	if _, err := s.Activities().Create(ctx, &model.Activity{UserID: u.UserID, Name: "Swim", Timestamp: ts.Add(5 * time.Minute)}); err != nil {
		t.Fatalf("CreateActivity second: %v", err)
	}

	lst, err := s.Activities().List(ctx, u.UserID)
	if err != nil || len(lst) != 2 {
		t.Fatalf("ListActivities: n=%d err=%v", len(lst), err)
	}
	if !lst[0].Timestamp.UTC().Equal(ts) {
		t.Fatalf("ListActivities: timestamp round-trip: got %v want %v", lst[0].Timestamp, ts)
	}

	newName := "Trail Run"
	upd, err := s.Activities().Update(ctx, u.UserID, a.ActivityID, model.ActivityPatch{Name: &newName})
	if err != nil || upd.Name != newName {
		t.Fatalf("UpdateActivity: got=%v err=%v", upd, err)
	}
	if !upd.Timestamp.UTC().Equal(ts) {
		t.Fatalf("UpdateActivity: patch must not touch timestamp, got %v", upd.Timestamp)
	}
	if _, err := s.Activities().Update(ctx, u.UserID, "no-such-id", model.ActivityPatch{Name: &newName}); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("UpdateActivity absent: want ErrNotFound, got %v", err)
	}

	if err := s.Activities().Delete(ctx, u.UserID, a.ActivityID); err != nil {
		t.Fatalf("DeleteActivity: %v", err)
	}
	if err := s.Activities().Delete(ctx, u.UserID, a.ActivityID); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("DeleteActivity twice: want ErrNotFound, got %v", err)
	}
	if lst, err := s.Activities().List(ctx, u.UserID); err != nil || len(lst) != 1 {
		t.Fatalf("ListActivities after delete: n=%d err=%v", len(lst), err)
	}

	// Lists are scoped per user.
	if lst, err := s.Activities().List(ctx, "other-user"); err != nil || len(lst) != 0 {
		t.Fatalf("ListActivities other user: n=%d err=%v", len(lst), err)
	}
}
