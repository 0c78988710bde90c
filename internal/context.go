package internal

import (
	"context"
	"time"
)

const (
	RoleAdmin   int64 = 1
	RoleRegular int64 = 2
)

// User is the authenticated principal attached to a request by the auth middleware.
type User struct {
	ID     int64  `json:"id"`
	Email  string `json:"email"`
	RoleID int64  `json:"role_id"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.RoleID == RoleAdmin
}

func (u *User) HasRole(roleIDs ...int64) bool {
	if u == nil {
		return false
	}
	for _, id := range roleIDs {
		if u.RoleID == id {
			return true
		}
	}
	return false
}

type ctxKey string

const ContextUserKey ctxKey = "user"

func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, user)
}

func UserFromContext(ctx context.Context) (*User, bool) {
	if ctx == nil {
		return nil, false
	}
	user, ok := ctx.Value(ContextUserKey).(*User)
	return user, ok && user != nil
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
