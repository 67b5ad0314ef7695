package domain

import (
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role grants a user's permission level
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// User represents an account that can authenticate against the API
type User struct {
	ID           uint
	Name         string
	Email        string
	PasswordHash string
	Phone        string
	Role         Role
	IsActive     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EmailRegex is the pattern for validating emails
var EmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Validate validates the user entity
func (u *User) Validate() error {
	if u.Name == "" {
		return ErrNameRequired
	}
	if len(u.Name) < 2 || len(u.Name) > 100 {
		return ErrNameLength
	}
	if u.Email == "" {
		return ErrEmailRequired
	}
	if !EmailRegex.MatchString(u.Email) {
		return ErrEmailInvalid
	}
	if u.Role != RoleAdmin && u.Role != RoleCustomer {
		return ErrInvalidRole
	}
	return nil
}

// NewUser creates a new active user with a hashed password
func NewUser(name, email, password, phone string, role Role) (*User, error) {
	if role == "" {
		role = RoleCustomer
	}

	user := &User{
		Name:      name,
		Email:     email,
		Phone:     phone,
		Role:      role,
		IsActive:  true,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	if err := user.SetPassword(password); err != nil {
		return nil, err
	}

	return user, nil
}

// SetPassword hashes and stores a new password
func (u *User) SetPassword(password string) error {
	if len(password) < 6 {
		return ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	u.PasswordHash = string(hash)
	u.UpdatedAt = time.Now()
	return nil
}

// ComparePassword reports whether the candidate matches the stored hash
func (u *User) ComparePassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
