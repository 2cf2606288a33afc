package model

import "time"

// User represents an account in the system.
type User struct {
	UserID       string    `json:"userId"`
	Email        string    `json:"email"`
	DisplayName  *string   `json:"displayName,omitempty"`
	PasswordHash string    `json:"-"`
	CreationTime time.Time `json:"creationTime"`
}

// Session is a server-side login session addressed by an opaque bearer token.
type Session struct {
	SessionID    string    `json:"sessionId"`
	UserID       string    `json:"userId"`
	Token        string    `json:"-"`
	ExpiresAt    time.Time `json:"expiresAt"`
	CreationTime time.Time `json:"creationTime"`
}

// Activity is a single logged event: a free-form name and the instant it happened.
// Names are not normalized or deduplicated at the storage level.
type Activity struct {
	ActivityID   string    `json:"activityId"`
	UserID       string    `json:"userId"`
	Name         string    `json:"name"`
	Timestamp    time.Time `json:"timestamp"`
	CreationTime time.Time `json:"creationTime"`
}

// ActivityPatch carries partial updates for an activity. Nil fields are left unchanged.
type ActivityPatch struct {
	Name      *string    `json:"name,omitempty"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}
