package middlewarex

import (
	"context"

	"newsdesk/internal/session"
)

type ctxKey string

const (
	ctxSession ctxKey = "session"
)

func WithSession(ctx context.Context, sess session.Session) context.Context {
	return context.WithValue(ctx, ctxSession, sess)
}

func SessionFrom(ctx context.Context) (session.Session, bool) {
	v, ok := ctx.Value(ctxSession).(session.Session)
	return v, ok
}
