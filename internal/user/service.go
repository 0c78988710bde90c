package user

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/finance-tracker/internal"
	userDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/user"
)

var (
	ErrUserNotFound   = internal.NewNotFoundError("user not found", internal.ErrCodeUserNotFound)
	ErrDuplicateEmail = internal.NewConflictError("email is already registered", internal.ErrCodeDuplicateEmail)
	ErrUnknownRole    = internal.NewValidationFieldError("role_id", "role_id does not exist", internal.ErrCodeValidationFailed)
	ErrDeleteSelf     = internal.NewValidationError("cannot delete your own account", internal.ErrCodeValidationFailed)
	ErrWrongPassword  = internal.NewValidationFieldError("current_password", "current password is incorrect", internal.ErrCodeInvalidCredentials)
)

type RepositoryAPI interface {
	GetByID(ctx context.Context, id int64) (*userDatamodel.User, error)
	GetByEmail(ctx context.Context, email string) (*userDatamodel.User, error)
	Create(ctx context.Context, user *userDatamodel.User) error
	Update(ctx context.Context, user *userDatamodel.User) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*userDatamodel.User, error)
	ListByParent(ctx context.Context, parentID int64) ([]*userDatamodel.User, error)
	ListRoles(ctx context.Context) ([]*userDatamodel.Role, error)
	RoleExists(ctx context.Context, id int64) (bool, error)
}

// PasswordHasher is satisfied by core/user.Hasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) (bool, error)
}

type Service struct {
	repo   RepositoryAPI
	hasher PasswordHasher
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, hasher PasswordHasher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		logger: logger,
	}
}

func (s *Service) Create(ctx context.Context, dto CreateUserDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if dto.RoleID == 0 {
		dto.RoleID = internal.RoleRegular
	}
	exists, err := s.repo.RoleExists(ctx, dto.RoleID)
	if err != nil {
		return nil, internal.NewInternalError("failed to check role", err)
	}
	if !exists {
		return nil, ErrUnknownRole
	}

	email := NormalizeEmail(dto.Email)
	if err := s.ensureEmailFree(ctx, email, 0); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(dto.Password)
	if err != nil {
		return nil, internal.NewInternalError("failed to hash password", err)
	}

	dataUser := &userDatamodel.User{
		Name:         dto.Name,
		Email:        email,
		PasswordHash: hash,
		RoleID:       dto.RoleID,
		ParentUserID: dto.ParentUserID,
	}
	if err := s.repo.Create(ctx, dataUser); err != nil {
		s.logger.Error("failed to create user", "email", email, "error", err)
		return nil, internal.NewInternalError("failed to create user", err)
	}

	s.logger.Info("user created", "user_id", dataUser.ID, "role_id", dataUser.RoleID)
	return FromDataModel(dataUser), nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*User, error) {
	dataUser, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get user", err)
	}
	if dataUser == nil {
		return nil, ErrUserNotFound
	}
	return FromDataModel(dataUser), nil
}

// GetByEmail returns nil without error when no user has that email.
func (s *Service) GetByEmail(ctx context.Context, email string) (*User, error) {
	dataUser, err := s.repo.GetByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, internal.NewInternalError("failed to get user", err)
	}
	if dataUser == nil {
		return nil, nil
	}
	return FromDataModel(dataUser), nil
}

func (s *Service) UpdateProfile(ctx context.Context, id int64, dto UpdateProfileDTO) (*User, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	dataUser, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, internal.NewInternalError("failed to get user", err)
	}
	if dataUser == nil {
		return nil, ErrUserNotFound
	}

	email := NormalizeEmail(dto.Email)
	if err := s.ensureEmailFree(ctx, email, id); err != nil {
		return nil, err
	}

	dataUser.Name = dto.Name
	dataUser.Email = email
	if err := s.repo.Update(ctx, dataUser); err != nil {
		s.logger.Error("failed to update user", "user_id", id, "error", err)
		return nil, internal.NewInternalError("failed to update user", err)
	}
	return FromDataModel(dataUser), nil
}

func (s *Service) ChangePassword(ctx context.Context, id int64, dto ChangePasswordDTO) error {
	if err := dto.Validate(); err != nil {
		return err
	}

	u, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	ok, err := s.hasher.Verify(u.PasswordHash, dto.CurrentPassword)
	if err != nil {
		return internal.NewInternalError("failed to verify password", err)
	}
	if !ok {
		return ErrWrongPassword
	}

	return s.SetPassword(ctx, id, dto.NewPassword)
}

// SetPassword replaces the password without checking the old one (reset flow).
func (s *Service) SetPassword(ctx context.Context, id int64, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return internal.NewInternalError("failed to hash password", err)
	}
	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		s.logger.Error("failed to update password", "user_id", id, "error", err)
		return internal.NewInternalError("failed to update password", err)
	}
	s.logger.Info("password changed", "user_id", id)
	return nil
}

// CreateSubAccount creates a regular user owned by parentID.
func (s *Service) CreateSubAccount(ctx context.Context, parentID int64, dto CreateUserDTO) (*User, error) {
	if _, err := s.GetByID(ctx, parentID); err != nil {
		return nil, err
	}
	dto.RoleID = internal.RoleRegular
	dto.ParentUserID = &parentID
	return s.Create(ctx, dto)
}

func (s *Service) ListSubAccounts(ctx context.Context, parentID int64) ([]*User, error) {
	rows, err := s.repo.ListByParent(ctx, parentID)
	if err != nil {
		return nil, internal.NewInternalError("failed to list sub-accounts", err)
	}
	return fromDataModels(rows), nil
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to list users", err)
	}
	return fromDataModels(rows), nil
}

func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	if actorID == id {
		return ErrDeleteSelf
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete user", "user_id", id, "error", err)
		return internal.NewInternalError("failed to delete user", err)
	}
	s.logger.Info("user deleted", "user_id", id, "deleted_by", actorID)
	return nil
}

func (s *Service) ListRoles(ctx context.Context) ([]Role, error) {
	rows, err := s.repo.ListRoles(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to list roles", err)
	}
	roles := make([]Role, 0, len(rows))
	for _, r := range rows {
		roles = append(roles, Role{ID: r.ID, Name: r.Name})
	}
	return roles, nil
}

func (s *Service) ensureEmailFree(ctx context.Context, email string, selfID int64) error {
	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return internal.NewInternalError("failed to check email", err)
	}
	if existing != nil && existing.ID != selfID {
		return ErrDuplicateEmail
	}
	return nil
}

func fromDataModels(rows []*userDatamodel.User) []*User {
	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		users = append(users, FromDataModel(row))
	}
	return users
}
