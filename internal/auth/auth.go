package auth

import (
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents JWT token claims
type Claims struct {
	UserID int64  `json:"id"`
	Email  string `json:"email"`
	RoleID int64  `json:"role_id"`
	jwt.RegisteredClaims
}

func (c *Claims) Principal() *internal.User {
	return &internal.User{ID: c.UserID, Email: c.Email, RoleID: c.RoleID}
}

// TokenGenerator creates and validates access tokens.
type TokenGenerator interface {
	GenerateAccessToken(user *internal.User) (token string, expiresAt time.Time, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

var (
	ErrInvalidResetToken = internal.NewValidationError("reset token is invalid or expired", internal.ErrCodeInvalidResetToken)
)
