package application

import (
	"context"
	"time"

	"go.uber.org/zap"

	"farmstand/internal/auth/domain"
	"farmstand/internal/auth/ports"
	"farmstand/pkg/errors"
	"farmstand/pkg/logger"
	"farmstand/pkg/pagination"
)

// AuthUseCase handles account and login business logic
type AuthUseCase struct {
	repo   ports.UserRepository
	tokens ports.TokenIssuer
	log    *logger.Logger
}

// NewAuthUseCase creates a new auth use case
func NewAuthUseCase(repo ports.UserRepository, tokens ports.TokenIssuer, log *logger.Logger) *AuthUseCase {
	return &AuthUseCase{
		repo:   repo,
		tokens: tokens,
		log:    log,
	}
}

// RegisterInput represents the input for registering a user
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Role     string
}

// AuthOutput carries a user and their freshly issued token
type AuthOutput struct {
	User  *domain.User
	Token string
}

// Register creates a new account and issues a token
func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthOutput, error) {
	user, err := domain.NewUser(input.Name, input.Email, input.Password, input.Phone, domain.Role(input.Role))
	if err != nil {
		return nil, err
	}

	existing, err := uc.repo.GetByEmail(ctx, user.Email)
	if err != nil && !errors.Is(err, errors.CodeNotFound) {
		return nil, errors.Wrap(err, "failed to check email existence")
	}
	if existing != nil {
		return nil, domain.ErrEmailExists
	}

	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	token, err := uc.tokens.Generate(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Info("user registered",
		zap.Uint("user_id", user.ID),
		zap.String("email", user.Email),
		zap.String("role", string(user.Role)),
	)

	return &AuthOutput{User: user, Token: token}, nil
}

// LoginInput represents the input for logging in
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials and issues a token. Wrong email and wrong
// password are indistinguishable to the caller.
func (uc *AuthUseCase) Login(ctx context.Context, input LoginInput) (*AuthOutput, error) {
	if input.Email == "" || input.Password == "" {
		return nil, errors.NewValidation("email and password are required", nil)
	}

	user, err := uc.repo.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, domain.ErrAccountDeactivated
	}

	if !user.ComparePassword(input.Password) {
		return nil, domain.ErrInvalidCredentials
	}

	now := time.Now()
	user.LastLogin = &now
	if err := uc.repo.Update(ctx, user); err != nil {
		uc.log.WithContext(ctx).Warn("failed to record last login",
			zap.Error(err),
			zap.Uint("user_id", user.ID),
		)
	}

	token, err := uc.tokens.Generate(user.ID, string(user.Role))
	if err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Info("user logged in",
		zap.Uint("user_id", user.ID),
		zap.String("email", user.Email),
	)

	return &AuthOutput{User: user, Token: token}, nil
}

// GetUser retrieves a user by ID
func (uc *AuthUseCase) GetUser(ctx context.Context, id uint) (*domain.User, error) {
	return uc.repo.GetByID(ctx, id)
}

// ChangePasswordInput represents the input for a password change
type ChangePasswordInput struct {
	UserID          uint
	CurrentPassword string
	NewPassword     string
}

// ChangePassword verifies the current password and stores a new one
func (uc *AuthUseCase) ChangePassword(ctx context.Context, input ChangePasswordInput) error {
	user, err := uc.repo.GetByID(ctx, input.UserID)
	if err != nil {
		return err
	}

	if !user.ComparePassword(input.CurrentPassword) {
		return errors.NewUnauthorized("current password is incorrect")
	}

	if err := user.SetPassword(input.NewPassword); err != nil {
		return err
	}

	if err := uc.repo.Update(ctx, user); err != nil {
		return err
	}

	uc.log.WithContext(ctx).Info("password changed", zap.Uint("user_id", user.ID))
	return nil
}

// UpdateProfileInput carries optional profile field updates
type UpdateProfileInput struct {
	UserID uint
	Name   *string
	Phone  *string
}

// UpdateProfile applies a user's own profile edit
func (uc *AuthUseCase) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*domain.User, error) {
	user, err := uc.repo.GetByID(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Phone != nil {
		user.Phone = *input.Phone
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	user.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// ListUsersInput represents admin listing filters
type ListUsersInput struct {
	Role   string
	Active *bool
	Page   int
	Limit  int
}

// ListUsersOutput is a page of users
type ListUsersOutput struct {
	Users      []*domain.User
	Pagination pagination.Meta
}

// ListUsers retrieves accounts matching the filters
func (uc *AuthUseCase) ListUsers(ctx context.Context, input ListUsersInput) (*ListUsersOutput, error) {
	page := pagination.Normalize(input.Page, input.Limit)

	users, total, err := uc.repo.List(ctx, ports.ListFilter{
		Role:   input.Role,
		Active: input.Active,
		Page:   page,
	})
	if err != nil {
		return nil, err
	}

	return &ListUsersOutput{
		Users:      users,
		Pagination: pagination.NewMeta(total, page),
	}, nil
}

// ToggleActive flips an account's active flag. A deactivated account keeps
// its data but can no longer log in.
func (uc *AuthUseCase) ToggleActive(ctx context.Context, id uint) (*domain.User, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user.IsActive = !user.IsActive
	user.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	uc.log.WithContext(ctx).Info("user active flag toggled",
		zap.Uint("user_id", user.ID),
		zap.Bool("is_active", user.IsActive),
	)

	return user, nil
}
