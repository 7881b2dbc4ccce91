package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"newsdesk/internal/domain/content"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

var ErrNotFound = errors.New("session not found")

// Session is one signed-in dashboard user.
type Session struct {
	ID        string       `json:"id"`
	UserID    int64        `json:"user_id"`
	Role      content.Role `json:"role"`
	CreatedAt time.Time    `json:"created_at"`
	ExpiresAt time.Time    `json:"expires_at"`
}

// Store keeps sessions in redis so they can be revoked before the token expires.
type Store struct {
	rdb redis.Cmdable
	ttl time.Duration
	now func() time.Time
}

func NewStore(rdb redis.Cmdable, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Store{rdb: rdb, ttl: ttl, now: time.Now}
}

func sessionKey(id string) string { return "newsdesk:session:" + id }
func userKey(userID int64) string { return "newsdesk:user_sessions:" + strconv.FormatInt(userID, 10) }

func (s *Store) Create(ctx context.Context, userID int64, role content.Role) (Session, error) {
	now := s.now().UTC()
	sess := Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Role:      role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	raw, err := json.Marshal(sess)
	if err != nil {
		return Session{}, err
	}

	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, sessionKey(sess.ID), raw, s.ttl)
		p.SAdd(ctx, userKey(userID), sess.ID)
		p.Expire(ctx, userKey(userID), s.ttl)
		return nil
	})
	if err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}
	log.Debug().Str("sid", sess.ID).Int64("user_id", userID).Msg("session created")
	return sess, nil
}

func (s *Store) Lookup(ctx context.Context, id string) (Session, error) {
	raw, err := s.rdb.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, ErrNotFound
	}
	if err != nil {
		return Session{}, fmt.Errorf("lookup session: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	return sess, nil
}

func (s *Store) Revoke(ctx context.Context, id string) error {
	sess, err := s.Lookup(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	_, err = s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, sessionKey(id))
		p.SRem(ctx, userKey(sess.UserID), id)
		return nil
	})
	if err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

// RevokeUser ends every session of a user and reports how many were live.
func (s *Store) RevokeUser(ctx context.Context, userID int64) (int, error) {
	ids, err := s.rdb.SMembers(ctx, userKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("list user sessions: %w", err)
	}
	keys := make([]string, 0, len(ids)+1)
	for _, id := range ids {
		keys = append(keys, sessionKey(id))
	}
	keys = append(keys, userKey(userID))

	n, err := s.rdb.Del(ctx, keys...).Result()
	if err != nil {
		return 0, fmt.Errorf("revoke user sessions: %w", err)
	}
	// the set key itself is counted when it existed
	if len(ids) > 0 {
		n--
	}
	log.Info().Int64("user_id", userID).Int64("revoked", n).Msg("user sessions revoked")
	return int(n), nil
}
