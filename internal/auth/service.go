package auth

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"time"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/accesslog"
	userDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/user"
	"github.com/frahmantamala/finance-tracker/internal/core/events"
	"github.com/frahmantamala/finance-tracker/internal/user"
)

type UserServiceAPI interface {
	Create(ctx context.Context, dto user.CreateUserDTO) (*user.User, error)
	GetByEmail(ctx context.Context, email string) (*user.User, error)
	SetPassword(ctx context.Context, id int64, password string) error
}

type PasswordVerifier interface {
	Verify(hash, password string) (bool, error)
}

type AccessRecorder interface {
	Record(ctx context.Context, userID int64, action string) (*accesslog.AccessLog, error)
}

type ResetRepositoryAPI interface {
	Create(ctx context.Context, reset *userDatamodel.PasswordReset) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*userDatamodel.PasswordReset, error)
	// MarkUsed returns false when the token was already consumed.
	MarkUsed(ctx context.Context, id int64, usedAt time.Time) (bool, error)
}

// Service is the main auth service with dependencies
type Service struct {
	users     UserServiceAPI
	passwords PasswordVerifier
	tokens    TokenGenerator
	resets    ResetRepositoryAPI
	access    AccessRecorder
	publisher events.Publisher
	logger    *slog.Logger
	resetTTL  time.Duration
	now       func() time.Time
}

type Dependencies struct {
	Users     UserServiceAPI
	Passwords PasswordVerifier
	Tokens    TokenGenerator
	Resets    ResetRepositoryAPI
	Access    AccessRecorder
	Publisher events.Publisher
	Logger    *slog.Logger
	ResetTTL  time.Duration
}

// NewService creates a new auth service
func NewService(deps Dependencies) *Service {
	if deps.ResetTTL <= 0 {
		deps.ResetTTL = time.Hour
	}
	return &Service{
		users:     deps.Users,
		passwords: deps.Passwords,
		tokens:    deps.Tokens,
		resets:    deps.Resets,
		access:    deps.Access,
		publisher: deps.Publisher,
		logger:    deps.Logger,
		resetTTL:  deps.ResetTTL,
		now:       time.Now,
	}
}

// Register creates an account. Only an authenticated admin may assign the admin role.
func (s *Service) Register(ctx context.Context, dto RegisterDTO, actor *internal.User) (*user.User, error) {
	if !actor.IsAdmin() {
		dto.RoleID = internal.RoleRegular
	}
	dto.ParentUserID = nil

	u, err := s.users.Create(ctx, dto)
	if err != nil {
		return nil, err
	}

	if _, err := s.access.Record(ctx, u.ID, accesslog.ActionRegister); err != nil {
		s.logger.Warn("failed to record register access", "user_id", u.ID, "error", err)
	}
	s.publish(ctx, events.NewUserRegisteredEvent(u.ID, u.Email))
	return u, nil
}

// Login validates credentials, records the access and returns a signed token
func (s *Service) Login(ctx context.Context, dto LoginDTO) (*LoginResponse, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, dto.Email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, internal.ErrInvalidCredentials
	}

	ok, err := s.passwords.Verify(u.PasswordHash, dto.Password)
	if err != nil {
		s.logger.Error("failed to verify password", "user_id", u.ID, "error", err)
		return nil, internal.ErrInvalidCredentials
	}
	if !ok {
		return nil, internal.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(u.Principal())
	if err != nil {
		return nil, internal.NewInternalError("failed to generate token", err)
	}

	if _, err := s.access.Record(ctx, u.ID, accesslog.ActionLogin); err != nil {
		return nil, err
	}
	s.publish(ctx, events.NewUserLoggedInEvent(u.ID, u.Email))

	return &LoginResponse{
		User:      u.ToResponse(),
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

// VerifyToken turns a bearer token into the request principal.
func (s *Service) VerifyToken(token string) (*internal.User, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return claims.Principal(), nil
}

// ForgotPassword never reveals whether the email is registered.
func (s *Service) ForgotPassword(ctx context.Context, dto ForgotPasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	u, err := s.users.GetByEmail(ctx, dto.Email)
	if err != nil {
		return err
	}
	if u == nil {
		s.logger.Debug("password reset requested for unknown email")
		return nil
	}

	token, err := GenerateRandomToken()
	if err != nil {
		return internal.NewInternalError("failed to generate reset token", err)
	}

	expiresAt := s.now().UTC().Add(s.resetTTL)
	reset := &userDatamodel.PasswordReset{
		UserID:    u.ID,
		TokenHash: HashToken(token),
		ExpiresAt: expiresAt,
	}
	if err := s.resets.Create(ctx, reset); err != nil {
		s.logger.Error("failed to store reset token", "user_id", u.ID, "error", err)
		return internal.NewInternalError("failed to store reset token", err)
	}

	s.publish(ctx, events.NewPasswordResetRequestedEvent(u.ID, u.Email, token, expiresAt))
	s.logger.Info("password reset requested", "user_id", u.ID)
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, dto ResetPasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	reset, err := s.resets.GetByTokenHash(ctx, HashToken(dto.Token))
	if err != nil {
		return internal.NewInternalError("failed to read reset token", err)
	}
	now := s.now().UTC()
	if reset == nil || reset.UsedAt != nil || !now.Before(reset.ExpiresAt) {
		return ErrInvalidResetToken
	}

	marked, err := s.resets.MarkUsed(ctx, reset.ID, now)
	if err != nil {
		return internal.NewInternalError("failed to consume reset token", err)
	}
	if !marked {
		return ErrInvalidResetToken
	}

	return s.users.SetPassword(ctx, reset.UserID, dto.Password)
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}

// GenerateRandomToken generates a cryptographically secure random token
func GenerateRandomToken() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// HashToken is what gets stored for reset tokens.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
