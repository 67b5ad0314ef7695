package adapters

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"farmstand/internal/auth/domain"
	"farmstand/internal/auth/ports"
	apperrors "farmstand/pkg/errors"
)

// UserModel is the GORM model for users (persistence layer)
type UserModel struct {
	ID           uint      `gorm:"primaryKey"`
	Name         string    `gorm:"size:100;not null"`
	Email        string    `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `gorm:"size:100;not null"`
	Phone        string    `gorm:"size:30"`
	Role         string    `gorm:"size:10;not null;default:'customer';index"`
	IsActive     bool      `gorm:"not null;default:true"`
	LastLogin    *time.Time
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// TableName returns the table name for GORM
func (UserModel) TableName() string {
	return "users"
}

// PostgresUserRepository implements UserRepository using PostgreSQL
type PostgresUserRepository struct {
	db *gorm.DB
}

// NewPostgresUserRepository creates a new PostgreSQL user repository
func NewPostgresUserRepository(db *gorm.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

// Migrate runs auto-migration for the user model
func (r *PostgresUserRepository) Migrate() error {
	return r.db.AutoMigrate(&UserModel{})
}

// Create creates a new user
func (r *PostgresUserRepository) Create(ctx context.Context, user *domain.User) error {
	model := toModel(user)

	result := r.db.WithContext(ctx).Create(model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return domain.ErrEmailExists
		}
		return apperrors.NewInternal("failed to create user", result.Error)
	}

	user.ID = model.ID
	user.CreatedAt = model.CreatedAt
	user.UpdatedAt = model.UpdatedAt

	return nil
}

// GetByID retrieves a user by ID
func (r *PostgresUserRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	var model UserModel

	result := r.db.WithContext(ctx).First(&model, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewUserNotFound(id)
		}
		return nil, apperrors.NewInternal("failed to get user", result.Error)
	}

	return toDomain(&model), nil
}

// GetByEmail retrieves a user by email
func (r *PostgresUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var model UserModel

	result := r.db.WithContext(ctx).Where("email = ?", email).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, domain.NewUserNotFound(email)
		}
		return nil, apperrors.NewInternal("failed to get user by email", result.Error)
	}

	return toDomain(&model), nil
}

// Update updates an existing user
func (r *PostgresUserRepository) Update(ctx context.Context, user *domain.User) error {
	model := toModel(user)

	result := r.db.WithContext(ctx).Save(model)
	if result.Error != nil {
		return apperrors.NewInternal("failed to update user", result.Error)
	}

	user.UpdatedAt = model.UpdatedAt
	return nil
}

// List retrieves users matching the filter, newest first, with the total count
func (r *PostgresUserRepository) List(ctx context.Context, filter ports.ListFilter) ([]*domain.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&UserModel{})

	if filter.Role != "" {
		query = query.Where("role = ?", filter.Role)
	}
	if filter.Active != nil {
		query = query.Where("is_active = ?", *filter.Active)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.NewInternal("failed to count users", err)
	}

	var models []UserModel
	result := query.
		Order("created_at DESC").
		Limit(filter.Page.Limit).
		Offset(filter.Page.Offset()).
		Find(&models)
	if result.Error != nil {
		return nil, 0, apperrors.NewInternal("failed to list users", result.Error)
	}

	users := make([]*domain.User, len(models))
	for i := range models {
		users[i] = toDomain(&models[i])
	}
	return users, total, nil
}

// toModel converts a domain entity to a GORM model
func toModel(user *domain.User) *UserModel {
	return &UserModel{
		ID:           user.ID,
		Name:         user.Name,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		Phone:        user.Phone,
		Role:         string(user.Role),
		IsActive:     user.IsActive,
		LastLogin:    user.LastLogin,
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}

// toDomain converts a GORM model to a domain entity
func toDomain(model *UserModel) *domain.User {
	return &domain.User{
		ID:           model.ID,
		Name:         model.Name,
		Email:        model.Email,
		PasswordHash: model.PasswordHash,
		Phone:        model.Phone,
		Role:         domain.Role(model.Role),
		IsActive:     model.IsActive,
		LastLogin:    model.LastLogin,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}
}
