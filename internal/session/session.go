package session

import (
	"context"
	"errors"
)

var ErrUnauthenticated = errors.New("not authenticated")

// Provider exposes the authenticated user, if any.
type Provider interface {
	CurrentUserID(ctx context.Context) (string, bool)
}

type contextKey string

const userIDKey contextKey = "userID"

// WithUser returns a context carrying userID.
func WithUser(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// FromContext reads the user placed in the context by WithUser.
type FromContext struct{}

func (FromContext) CurrentUserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}

// Static always reports the same user. An empty UserID means signed out.
type Static struct {
	UserID string
}

func (s Static) CurrentUserID(context.Context) (string, bool) {
	return s.UserID, s.UserID != ""
}

// Require returns the current user or ErrUnauthenticated.
func Require(ctx context.Context, p Provider) (string, error) {
	id, ok := p.CurrentUserID(ctx)
	if !ok {
		return "", ErrUnauthenticated
	}
	return id, nil
}
