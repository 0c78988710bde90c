package user

import (
	"strings"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	userDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/user"
)

type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	RoleID       int64
	ParentUserID *int64
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u *User) IsAdmin() bool {
	return u.RoleID == internal.RoleAdmin
}

// Principal is the identity carried in tokens and request contexts.
func (u *User) Principal() *internal.User {
	return &internal.User{ID: u.ID, Email: u.Email, RoleID: u.RoleID}
}

func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		RoleID:       u.RoleID,
		ParentUserID: u.ParentUserID,
		CreatedAt:    u.CreatedAt,
	}
}

type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		RoleID:       u.RoleID,
		ParentUserID: u.ParentUserID,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		RoleID:       u.RoleID,
		ParentUserID: u.ParentUserID,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}
