package session

import (
	"context"
	"errors"
	"fmt"

	"newsdesk/internal/domain/content"
)

// Manager issues tokens backed by revocable sessions.
type Manager struct {
	signer *Signer
	store  *Store
}

func NewManager(signer *Signer, store *Store) *Manager {
	return &Manager{signer: signer, store: store}
}

// Issue starts a session and returns its bearer token.
func (m *Manager) Issue(ctx context.Context, userID int64, role content.Role) (string, Session, error) {
	sess, err := m.store.Create(ctx, userID, role)
	if err != nil {
		return "", Session{}, err
	}
	tok, err := m.signer.Sign(sess)
	if err != nil {
		_ = m.store.Revoke(ctx, sess.ID)
		return "", Session{}, fmt.Errorf("sign session: %w", err)
	}
	return tok, sess, nil
}

// Authenticate validates the token and checks the session is still live.
func (m *Manager) Authenticate(ctx context.Context, token string) (Session, error) {
	claims, err := m.signer.Validate(token)
	if err != nil {
		return Session{}, err
	}
	sess, err := m.store.Lookup(ctx, claims.SessionID)
	if errors.Is(err, ErrNotFound) {
		return Session{}, fmt.Errorf("%w: session revoked", ErrInvalidToken)
	}
	if err != nil {
		return Session{}, err
	}
	return sess, nil
}

func (m *Manager) Logout(ctx context.Context, sessionID string) error {
	return m.store.Revoke(ctx, sessionID)
}

func (m *Manager) LogoutUser(ctx context.Context, userID int64) (int, error) {
	return m.store.RevokeUser(ctx, userID)
}
