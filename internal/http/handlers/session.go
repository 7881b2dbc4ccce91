package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"newsdesk/internal/domain/content"
	middlewarex "newsdesk/internal/http/middleware"
	"newsdesk/internal/session"

	"github.com/rs/zerolog/log"
)

// SessionIssuer starts sessions for the admin bootstrap endpoint.
type SessionIssuer interface {
	Issue(ctx context.Context, userID int64, role content.Role) (string, session.Session, error)
}

// SessionEnder ends a single session.
type SessionEnder interface {
	Logout(ctx context.Context, sessionID string) error
}

// MeResponse tells the dashboard who is signed in.
type MeResponse struct {
	UserID    int64        `json:"userId"`
	Role      content.Role `json:"role"`
	SessionID string       `json:"sessionId"`
}

// Me returns the current session's identity and role
func Me() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middlewarex.SessionFrom(r.Context())
		if !ok {
			http.Error(w, "session not found", http.StatusUnauthorized)
			return
		}
		writeJSON(w, http.StatusOK, MeResponse{UserID: sess.UserID, Role: sess.Role, SessionID: sess.ID})
	}
}

// Logout revokes the current session
func Logout(sessions SessionEnder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, ok := middlewarex.SessionFrom(r.Context())
		if !ok {
			http.Error(w, "session not found", http.StatusUnauthorized)
			return
		}
		if err := sessions.Logout(r.Context(), sess.ID); err != nil {
			log.Error().Err(err).Str("sid", sess.ID).Msg("logout failed")
			http.Error(w, "logout failed", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type issueRequest struct {
	UserID int64        `json:"userId"`
	Role   content.Role `json:"role"`
}

type issueResponse struct {
	Token     string `json:"token"`
	SessionID string `json:"sessionId"`
	ExpiresAt string `json:"expiresAt"`
}

// IssueSession starts a session for a user; guarded by the admin token
func IssueSession(sessions SessionIssuer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req issueRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid JSON", http.StatusBadRequest)
			return
		}
		if req.UserID <= 0 {
			http.Error(w, "userId is required", http.StatusBadRequest)
			return
		}
		switch req.Role {
		case content.RoleAdmin, content.RoleEditor, content.RoleAuthor:
		default:
			http.Error(w, "unknown role", http.StatusBadRequest)
			return
		}

		tok, sess, err := sessions.Issue(r.Context(), req.UserID, req.Role)
		if err != nil {
			log.Error().Err(err).Int64("user_id", req.UserID).Msg("issue session failed")
			http.Error(w, "issue failed", http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusCreated, issueResponse{
			Token:     tok,
			SessionID: sess.ID,
			ExpiresAt: sess.ExpiresAt.Format(time.RFC3339),
		})
	}
}
