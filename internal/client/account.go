package client

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"newsdesk/internal/domain/content"
)

// Identity is the signed-in user as the API sees it.
type Identity struct {
	UserID    int64        `json:"userId"`
	Role      content.Role `json:"role"`
	SessionID string       `json:"sessionId"`
}

// Account is the current session: role lookup, self recognition and logout.
type Account struct {
	http *HTTPClient

	mu sync.Mutex
	me *Identity
}

func NewAccount(c *HTTPClient) *Account {
	return &Account{http: c}
}

// Me fetches the identity once and caches it.
func (a *Account) Me(ctx context.Context) (Identity, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.me != nil {
		return *a.me, nil
	}
	resp, err := a.http.Get(ctx, "/api/v1/me", nil)
	if err != nil {
		return Identity{}, err
	}
	var id Identity
	if err := resp.UnmarshalJSON(&id); err != nil {
		return Identity{}, err
	}
	a.me = &id
	return id, nil
}

// Role implements listview.RoleLookup.
func (a *Account) Role(ctx context.Context) (string, error) {
	id, err := a.Me(ctx)
	if err != nil {
		return "", err
	}
	return string(id.Role), nil
}

// IsSelf reports whether a users-screen id is the signed-in user. It only
// knows after Me has succeeded.
func (a *Account) IsSelf(id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.me != nil && content.FormatID(a.me.UserID) == id
}

// Teardown ends the session after the user deleted their own account. The
// server already revoked it, so a 401 here is expected and ignored.
func (a *Account) Teardown(ctx context.Context) error {
	err := a.Logout(ctx)
	var se *StatusError
	if errors.As(err, &se) && se.StatusCode == http.StatusUnauthorized {
		return nil
	}
	return err
}

func (a *Account) Logout(ctx context.Context) error {
	_, err := a.http.Delete(ctx, "/api/v1/session")
	a.mu.Lock()
	a.me = nil
	a.mu.Unlock()
	return err
}
