package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pulsetrack/pulsetrack/internal/model"
	"github.com/pulsetrack/pulsetrack/internal/store"
)

// NewWithDB constructs a SQLite store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &sqStore{db: db} }

type sqStore struct{ db *sql.DB }

func (s *sqStore) Users() store.Users           { return &users{db: s.db} }
func (s *sqStore) Sessions() store.Sessions     { return &sessions{db: s.db} }
func (s *sqStore) Activities() store.Activities { return &activities{db: s.db} }

// HealthPing implements health.HealthPinger for the SQLite-backed store.
func (s *sqStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func mapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return model.ErrConflict
	}
	return err
}

// --- Users ---

type users struct{ db *sql.DB }

func (u *users) Create(ctx context.Context, m *model.User) (*model.User, error) {
	id := m.UserID
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()
	_, err := u.db.ExecContext(ctx, `
        INSERT INTO users (user_id, email, display_name, password_hash, creation_time)
        VALUES (?,?,?,?,?)
    `, id, m.Email, m.DisplayName, m.PasswordHash, now)
	if err != nil {
		return nil, mapErr(err)
	}
	out := *m
	out.UserID = id
	out.CreationTime = now
	return &out, nil
}

func (u *users) GetByID(ctx context.Context, userID string) (*model.User, error) {
	return u.get(ctx, `SELECT user_id, email, display_name, password_hash, creation_time FROM users WHERE user_id=?`, userID)
}

func (u *users) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return u.get(ctx, `SELECT user_id, email, display_name, password_hash, creation_time FROM users WHERE email=?`, email)
}

func (u *users) get(ctx context.Context, query, arg string) (*model.User, error) {
	var out model.User
	row := u.db.QueryRowContext(ctx, query, arg)
	if err := row.Scan(&out.UserID, &out.Email, &out.DisplayName, &out.PasswordHash, &out.CreationTime); err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

// --- Sessions ---

type sessions struct{ db *sql.DB }

func (s *sessions) Create(ctx context.Context, m *model.Session) (*model.Session, error) {
	id := m.SessionID
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO sessions (session_id, user_id, token, expires_at, creation_time)
        VALUES (?,?,?,?,?)
    `, id, m.UserID, m.Token, m.ExpiresAt.UTC(), now)
	if err != nil {
		return nil, mapErr(err)
	}
	out := *m
	out.SessionID = id
	out.CreationTime = now
	return &out, nil
}

func (s *sessions) GetByToken(ctx context.Context, token string) (*model.Session, error) {
	var out model.Session
	row := s.db.QueryRowContext(ctx, `
        SELECT session_id, user_id, token, expires_at, creation_time
        FROM sessions WHERE token=?
    `, token)
	if err := row.Scan(&out.SessionID, &out.UserID, &out.Token, &out.ExpiresAt, &out.CreationTime); err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (s *sessions) Delete(ctx context.Context, sessionID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE session_id=?`, sessionID)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (s *sessions) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, time.Now().UTC())
	if err != nil {
		return 0, mapErr(err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// --- Activities ---

type activities struct{ db *sql.DB }

func (a *activities) Create(ctx context.Context, m *model.Activity) (*model.Activity, error) {
	id := m.ActivityID
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC()
	_, err := a.db.ExecContext(ctx, `
        INSERT INTO activities (activity_id, user_id, name, occurred_at, creation_time)
        VALUES (?,?,?,?,?)
    `, id, m.UserID, m.Name, m.Timestamp.UTC(), now)
	if err != nil {
		return nil, mapErr(err)
	}
	out := *m
	out.ActivityID = id
	out.CreationTime = now
	return &out, nil
}

func (a *activities) List(ctx context.Context, userID string) ([]*model.Activity, error) {
	rows, err := a.db.QueryContext(ctx, `
        SELECT activity_id, user_id, name, occurred_at, creation_time
        FROM activities WHERE user_id=? ORDER BY creation_time
    `, userID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer func() { _ = rows.Close() }()

	var out []*model.Activity
	for rows.Next() {
		var m model.Activity
		if err := rows.Scan(&m.ActivityID, &m.UserID, &m.Name, &m.Timestamp, &m.CreationTime); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

func (a *activities) Update(ctx context.Context, userID, activityID string, patch model.ActivityPatch) (*model.Activity, error) {
	cur, err := a.getByID(ctx, userID, activityID)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		cur.Name = *patch.Name
	}
	if patch.Timestamp != nil {
		cur.Timestamp = patch.Timestamp.UTC()
	}
	_, err = a.db.ExecContext(ctx, `
        UPDATE activities SET name=?, occurred_at=? WHERE user_id=? AND activity_id=?
    `, cur.Name, cur.Timestamp, userID, activityID)
	if err != nil {
		return nil, mapErr(err)
	}
	return cur, nil
}

func (a *activities) getByID(ctx context.Context, userID, activityID string) (*model.Activity, error) {
	var out model.Activity
	row := a.db.QueryRowContext(ctx, `
        SELECT activity_id, user_id, name, occurred_at, creation_time
        FROM activities WHERE user_id=? AND activity_id=?
    `, userID, activityID)
	if err := row.Scan(&out.ActivityID, &out.UserID, &out.Name, &out.Timestamp, &out.CreationTime); err != nil {
		return nil, mapErr(err)
	}
	return &out, nil
}

func (a *activities) Delete(ctx context.Context, userID, activityID string) error {
	res, err := a.db.ExecContext(ctx, `DELETE FROM activities WHERE user_id=? AND activity_id=?`, userID, activityID)
	if err != nil {
		return mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}
