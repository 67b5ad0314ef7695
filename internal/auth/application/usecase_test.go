package application

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"farmstand/internal/auth/domain"
	"farmstand/internal/auth/ports"
	"farmstand/pkg/errors"
	"farmstand/pkg/logger"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	users  map[uint]*domain.User
	nextID uint
}

func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		users:  make(map[uint]*domain.User),
		nextID: 1,
	}
}

func (m *MockUserRepository) Create(ctx context.Context, user *domain.User) error {
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return domain.ErrEmailExists
		}
	}
	user.ID = m.nextID
	m.nextID++
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, domain.NewUserNotFound(id)
	}
	return user, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, errors.NewNotFound("user", email)
}

func (m *MockUserRepository) Update(ctx context.Context, user *domain.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *MockUserRepository) List(ctx context.Context, filter ports.ListFilter) ([]*domain.User, int64, error) {
	var result []*domain.User
	for _, user := range m.users {
		if filter.Role != "" && string(user.Role) != filter.Role {
			continue
		}
		if filter.Active != nil && user.IsActive != *filter.Active {
			continue
		}
		result = append(result, user)
	}
	return result, int64(len(result)), nil
}

// MockTokenIssuer is a mock implementation of TokenIssuer
type MockTokenIssuer struct {
	issued int
}

func (m *MockTokenIssuer) Generate(userID uint, role string) (string, error) {
	m.issued++
	return fmt.Sprintf("token-%d-%s", userID, role), nil
}

func newTestUseCase() (*AuthUseCase, *MockUserRepository, *MockTokenIssuer) {
	repo := NewMockUserRepository()
	tokens := &MockTokenIssuer{}
	log := logger.New("test", "debug", "console")
	return NewAuthUseCase(repo, tokens, log), repo, tokens
}

func registerInput() RegisterInput {
	return RegisterInput{
		Name:     "Jane Smith",
		Email:    "jane@example.com",
		Password: "hunter22",
	}
}

func TestRegister_Success(t *testing.T) {
	// Arrange
	useCase, _, tokens := newTestUseCase()

	// Act
	output, err := useCase.Register(context.Background(), registerInput())

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if output.User.ID != 1 {
		t.Errorf("expected ID 1, got %d", output.User.ID)
	}

	if output.User.Role != domain.RoleCustomer {
		t.Errorf("expected default customer role, got %s", output.User.Role)
	}

	if !output.User.IsActive {
		t.Error("expected new account to be active")
	}

	if output.User.PasswordHash == "hunter22" {
		t.Error("expected password to be hashed")
	}

	if output.Token == "" || tokens.issued != 1 {
		t.Error("expected a token to be issued")
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	// Arrange
	useCase, _, _ := newTestUseCase()
	if _, err := useCase.Register(context.Background(), registerInput()); err != nil {
		t.Fatalf("expected first register to succeed, got %v", err)
	}

	// Act
	_, err := useCase.Register(context.Background(), registerInput())

	// Assert
	if !errors.Is(err, errors.CodeConflict) {
		t.Errorf("expected conflict error, got %v", err)
	}
}

func TestRegister_ShortPassword(t *testing.T) {
	// Arrange
	useCase, _, _ := newTestUseCase()

	input := registerInput()
	input.Password = "abc"

	// Act
	_, err := useCase.Register(context.Background(), input)

	// Assert
	if !errors.Is(err, errors.CodeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestRegister_InvalidEmail(t *testing.T) {
	// Arrange
	useCase, _, _ := newTestUseCase()

	input := registerInput()
	input.Email = "not-an-email"

	// Act
	_, err := useCase.Register(context.Background(), input)

	// Assert
	if !errors.Is(err, errors.CodeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}

func TestLogin_Success(t *testing.T) {
	// Arrange
	useCase, _, _ := newTestUseCase()
	_, _ = useCase.Register(context.Background(), registerInput())

	// Act
	output, err := useCase.Login(context.Background(), LoginInput{
		Email:    "jane@example.com",
		Password: "hunter22",
	})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if output.Token == "" {
		t.Error("expected a token to be issued")
	}

	if output.User.LastLogin == nil {
		t.Error("expected last login to be recorded")
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	// Arrange
	useCase, _, _ := newTestUseCase()
	_, _ = useCase.Register(context.Background(), registerInput())

	// Act
	_, err := useCase.Login(context.Background(), LoginInput{
		Email:    "jane@example.com",
		Password: "wrong-password",
	})

	// Assert
	if !errors.Is(err, errors.CodeUnauthorized) {
		t.Errorf("expected unauthorized error, got %v", err)
	}
}

func TestLogin_UnknownEmail(t *testing.T) {
	// Arrange
	useCase, _, _ := newTestUseCase()
	_, _ = useCase.Register(context.Background(), registerInput())

	// Act
	_, err := useCase.Login(context.Background(), LoginInput{
		Email:    "nobody@example.com",
		Password: "hunter22",
	})

	// Assert: wrong email and wrong password must look identical
	if !errors.Is(err, errors.CodeUnauthorized) {
		t.Errorf("expected unauthorized error, got %v", err)
	}

	wrongPassErr := func() error {
		_, err := useCase.Login(context.Background(), LoginInput{
			Email:    "jane@example.com",
			Password: "wrong",
		})
		return err
	}()
	if err.Error() != wrongPassErr.Error() {
		t.Errorf("expected identical errors, got %q and %q", err, wrongPassErr)
	}
}

func TestLogin_DeactivatedAccount(t *testing.T) {
	// Arrange
	useCase, repo, _ := newTestUseCase()
	output, _ := useCase.Register(context.Background(), registerInput())
	repo.users[output.User.ID].IsActive = false

	// Act
	_, err := useCase.Login(context.Background(), LoginInput{
		Email:    "jane@example.com",
		Password: "hunter22",
	})

	// Assert
	if !errors.Is(err, errors.CodeUnauthorized) {
		t.Errorf("expected unauthorized error, got %v", err)
	}

	if !strings.Contains(err.Error(), "deactivated") {
		t.Errorf("expected deactivation message, got %v", err)
	}
}

func TestChangePassword_Success(t *testing.T) {
	// Arrange
	useCase, _, _ := newTestUseCase()
	output, _ := useCase.Register(context.Background(), registerInput())

	// Act
	err := useCase.ChangePassword(context.Background(), ChangePasswordInput{
		UserID:          output.User.ID,
		CurrentPassword: "hunter22",
		NewPassword:     "correct-horse",
	})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if _, err := useCase.Login(context.Background(), LoginInput{
		Email:    "jane@example.com",
		Password: "correct-horse",
	}); err != nil {
		t.Errorf("expected login with new password to succeed, got %v", err)
	}
}

func TestChangePassword_WrongCurrent(t *testing.T) {
	// Arrange
	useCase, _, _ := newTestUseCase()
	output, _ := useCase.Register(context.Background(), registerInput())

	// Act
	err := useCase.ChangePassword(context.Background(), ChangePasswordInput{
		UserID:          output.User.ID,
		CurrentPassword: "wrong",
		NewPassword:     "correct-horse",
	})

	// Assert
	if !errors.Is(err, errors.CodeUnauthorized) {
		t.Errorf("expected unauthorized error, got %v", err)
	}
}

func TestToggleActive_BlocksAndRestoresLogin(t *testing.T) {
	// Arrange
	useCase, _, _ := newTestUseCase()
	output, _ := useCase.Register(context.Background(), registerInput())
	login := LoginInput{Email: "jane@example.com", Password: "hunter22"}

	// Act
	user, err := useCase.ToggleActive(context.Background(), output.User.ID)

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if user.IsActive {
		t.Error("expected account to be deactivated")
	}

	if _, err := useCase.Login(context.Background(), login); !errors.Is(err, errors.CodeUnauthorized) {
		t.Errorf("expected deactivated account to be refused login, got %v", err)
	}

	// A second toggle reactivates the account
	user, err = useCase.ToggleActive(context.Background(), output.User.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !user.IsActive {
		t.Error("expected account to be reactivated")
	}

	if _, err := useCase.Login(context.Background(), login); err != nil {
		t.Errorf("expected reactivated account to log in, got %v", err)
	}
}

func TestToggleActive_UnknownUser(t *testing.T) {
	// Arrange
	useCase, _, _ := newTestUseCase()

	// Act
	_, err := useCase.ToggleActive(context.Background(), 99)

	// Assert
	if !errors.Is(err, errors.CodeNotFound) {
		t.Errorf("expected not found error, got %v", err)
	}
}

func TestListUsers_FiltersByRoleAndActive(t *testing.T) {
	// Arrange
	useCase, _, _ := newTestUseCase()
	_, _ = useCase.Register(context.Background(), registerInput())

	adminInput := registerInput()
	adminInput.Email = "admin@example.com"
	adminInput.Role = "admin"
	_, _ = useCase.Register(context.Background(), adminInput)

	customer, _ := useCase.Register(context.Background(), RegisterInput{
		Name: "John Doe", Email: "john@example.com", Password: "hunter22",
	})
	_, _ = useCase.ToggleActive(context.Background(), customer.User.ID)

	// Act
	active := true
	output, err := useCase.ListUsers(context.Background(), ListUsersInput{
		Role:   "customer",
		Active: &active,
	})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(output.Users) != 1 {
		t.Fatalf("expected 1 active customer, got %d", len(output.Users))
	}

	if output.Users[0].Email != "jane@example.com" {
		t.Errorf("expected jane@example.com, got %s", output.Users[0].Email)
	}

	if output.Pagination.Total != 1 {
		t.Errorf("expected total 1, got %d", output.Pagination.Total)
	}
}

func TestUpdateProfile_Success(t *testing.T) {
	// Arrange
	useCase, _, _ := newTestUseCase()
	output, _ := useCase.Register(context.Background(), registerInput())

	name := "Jane Cooper"
	phone := "555-0101"

	// Act
	user, err := useCase.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID: output.User.ID,
		Name:   &name,
		Phone:  &phone,
	})

	// Assert
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if user.Name != "Jane Cooper" || user.Phone != "555-0101" {
		t.Errorf("expected updated profile, got %s / %s", user.Name, user.Phone)
	}

	if user.Email != "jane@example.com" {
		t.Errorf("expected email untouched, got %s", user.Email)
	}
}

func TestUpdateProfile_InvalidName(t *testing.T) {
	// Arrange
	useCase, _, _ := newTestUseCase()
	output, _ := useCase.Register(context.Background(), registerInput())

	name := "J"

	// Act
	_, err := useCase.UpdateProfile(context.Background(), UpdateProfileInput{
		UserID: output.User.ID,
		Name:   &name,
	})

	// Assert
	if !errors.Is(err, errors.CodeValidation) {
		t.Errorf("expected validation error, got %v", err)
	}
}
