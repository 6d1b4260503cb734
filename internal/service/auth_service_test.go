package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/quizhub-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizhub-api/internal/pkg/errors"
	"github.com/yourusername/quizhub-api/pkg/auth"
	"golang.org/x/crypto/bcrypt"
)

// MockUserRepository реализует repository.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfile(userID uint, updates map[string]interface{}) error {
	args := m.Called(userID, updates)
	return args.Error(0)
}

func newTestJWTService(t *testing.T) *auth.JWTService {
	t.Helper()
	jwtService, err := auth.NewJWTService("test-secret", 1)
	require.NoError(t, err)
	return jwtService
}

func TestAuthService_RegisterUser_Success(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("Create", mock.MatchedBy(func(u *entity.User) bool {
		// Email нормализуется до сохранения
		return u.Email == "anna@example.com" && u.Name == "Анна"
	})).Run(func(args mock.Arguments) {
		args.Get(0).(*entity.User).ID = 1
	}).Return(nil)

	authService, err := NewAuthService(mockUserRepo, newTestJWTService(t))
	require.NoError(t, err)

	// Act
	user, token, err := authService.RegisterUser("  Анна  ", "  ANNA@Example.COM ", "password123")

	// Assert
	require.NoError(t, err, "Регистрация должна быть успешной")
	assert.Equal(t, "anna@example.com", user.Email)
	assert.NotEmpty(t, token, "Токен выдается сразу после регистрации")
	mockUserRepo.AssertExpectations(t)
}

func TestAuthService_RegisterUser_DuplicateEmail(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("Create", mock.AnythingOfType("*entity.User")).Return(apperrors.ErrConflict)

	authService, err := NewAuthService(mockUserRepo, newTestJWTService(t))
	require.NoError(t, err)

	// Act
	user, token, err := authService.RegisterUser("Анна", "anna@example.com", "password123")

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Nil(t, user)
	assert.Empty(t, token)
}

func TestAuthService_LoginUser_Success(t *testing.T) {
	// Arrange: в базе лежит bcrypt-хеш пароля
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	stored := &entity.User{ID: 1, Name: "Анна", Email: "anna@example.com", Password: string(hash)}

	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("GetByEmail", "anna@example.com").Return(stored, nil)

	authService, err := NewAuthService(mockUserRepo, newTestJWTService(t))
	require.NoError(t, err)

	// Act
	user, token, err := authService.LoginUser("Anna@Example.com", "password123")

	// Assert
	require.NoError(t, err, "Вход с верным паролем должен быть успешным")
	assert.Equal(t, uint(1), user.ID)
	assert.NotEmpty(t, token)
}

func TestAuthService_LoginUser_WrongPassword(t *testing.T) {
	// Arrange
	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	stored := &entity.User{ID: 1, Email: "anna@example.com", Password: string(hash)}

	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("GetByEmail", "anna@example.com").Return(stored, nil)

	authService, err := NewAuthService(mockUserRepo, newTestJWTService(t))
	require.NoError(t, err)

	// Act
	_, _, err = authService.LoginUser("anna@example.com", "wrong")

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestAuthService_LoginUser_UnknownEmail(t *testing.T) {
	// Arrange: несуществующий email неотличим от неверного пароля
	mockUserRepo := new(MockUserRepository)
	mockUserRepo.On("GetByEmail", "ghost@example.com").Return(nil, apperrors.ErrNotFound)

	authService, err := NewAuthService(mockUserRepo, newTestJWTService(t))
	require.NoError(t, err)

	// Act
	_, _, err = authService.LoginUser("ghost@example.com", "password123")

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)
}
