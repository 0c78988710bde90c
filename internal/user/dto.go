package user

import (
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/common/validation"
)

type UserResponse struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	RoleID       int64     `json:"role_id"`
	ParentUserID *int64    `json:"parent_user_id,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type UsersResponse struct {
	Users []UserResponse `json:"users"`
}

type RolesResponse struct {
	Roles []Role `json:"roles"`
}

// CreateUserDTO is shared by registration, sub-accounts and the CLI.
type CreateUserDTO struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	RoleID       int64  `json:"role_id,omitempty"`
	ParentUserID *int64 `json:"-"`
}

func (d CreateUserDTO) Validate() *internal.AppError {
	validator := validation.NewValidator()
	validator.Field("name", d.Name).
		Required().
		MaxLength(100)
	validator.Field("email", d.Email).
		Required().
		Email().
		MaxLength(255)
	validator.Field("password", d.Password).
		Required().
		MinLength(6).
		MaxBytes(72)
	return validator.Validate()
}

type UpdateProfileDTO struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (d UpdateProfileDTO) Validate() *internal.AppError {
	validator := validation.NewValidator()
	validator.Field("name", d.Name).
		Required().
		MaxLength(100)
	validator.Field("email", d.Email).
		Required().
		Email().
		MaxLength(255)
	return validator.Validate()
}

type ChangePasswordDTO struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (d ChangePasswordDTO) Validate() *internal.AppError {
	validator := validation.NewValidator()
	validator.Field("current_password", d.CurrentPassword).Required()
	validator.Field("new_password", d.NewPassword).
		Required().
		MinLength(6).
		MaxBytes(72)
	return validator.Validate()
}
