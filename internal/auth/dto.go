package auth

import (
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/core/common/validation"
	"github.com/frahmantamala/finance-tracker/internal/user"
)

// LoginDTO is the transport shape used by the HTTP handler to accept login requests.
type LoginDTO struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() *internal.AppError {
	validator := validation.NewValidator()
	validator.Field("email", d.Email).Required()
	validator.Field("password", d.Password).Required()
	return validator.Validate()
}

type RegisterDTO = user.CreateUserDTO

type ForgotPasswordDTO struct {
	Email string `json:"email"`
}

func (d ForgotPasswordDTO) Validate() *internal.AppError {
	validator := validation.NewValidator()
	validator.Field("email", d.Email).Required().Email()
	return validator.Validate()
}

type ResetPasswordDTO struct {
	Token    string `json:"token"`
	Password string `json:"password"`
}

func (d ResetPasswordDTO) Validate() *internal.AppError {
	validator := validation.NewValidator()
	validator.Field("token", d.Token).Required()
	validator.Field("password", d.Password).
		Required().
		MinLength(6).
		MaxBytes(72)
	return validator.Validate()
}

type LoginResponse struct {
	User      user.UserResponse `json:"user"`
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
}

type RegisterResponse struct {
	User user.UserResponse `json:"user"`
}
