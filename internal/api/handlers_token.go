package api

import (
	"errors"
	"net/http"

	"github.com/pulsetrack/pulsetrack/internal/api/respond"
	"github.com/pulsetrack/pulsetrack/internal/auth"
	"github.com/pulsetrack/pulsetrack/internal/token"
)

// TokenHandler mints integration tokens for the authenticated session.
type TokenHandler struct {
	issuer *token.Issuer
}

func NewTokenHandler(issuer *token.Issuer) *TokenHandler { return &TokenHandler{issuer: issuer} }

// GetToken GET /api/auth/token
// Requires the session middleware. Responds {"token": "..."} on success and a
// bare 401 with no body when no session is present.
func (h *TokenHandler) GetToken(w http.ResponseWriter, r *http.Request) {
	sess, ok := auth.SessionFrom(r.Context())
	if !ok {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}

	signed, err := h.issuer.Issue(&token.Session{
		UserID:    sess.User.UserID,
		Email:     sess.User.Email,
		SessionID: sess.Session.SessionID,
		ExpiresAt: sess.Session.ExpiresAt,
		Document:  sess.Document(),
	})
	if err != nil {
		if errors.Is(err, token.ErrUnauthorized) {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		respond.WriteInternalError(w, err.Error())
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]string{"token": signed})
}
