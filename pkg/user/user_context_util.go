package user

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

type contextKey string

const UserKey contextKey = "user"

var ErrNoUser = errors.New("user not found")

// CurrentUid retrieves the current user's identifier from the context.
// Returns ErrNoUser if no identity is present.
func CurrentUid(ctx context.Context) (string, error) {
	u, ok := ctx.Value(UserKey).(User)
	if !ok || u.Uid == "" {
		log.Trace("user not found in context")
		return "", ErrNoUser
	}
	return u.Uid, nil
}

func WithUser(ctx context.Context, u User) context.Context {
	return context.WithValue(ctx, UserKey, u)
}

// WithUid is a convenience wrapper for callers that only carry an identifier.
func WithUid(ctx context.Context, uid string) context.Context {
	return WithUser(ctx, User{Uid: uid})
}
