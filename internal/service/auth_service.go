package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/yourusername/quizhub-api/internal/domain/entity"
	"github.com/yourusername/quizhub-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizhub-api/internal/pkg/errors"
	"github.com/yourusername/quizhub-api/pkg/auth"
)

// AuthService предоставляет методы регистрации и входа пользователей
type AuthService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
}

// NewAuthService создает новый сервис аутентификации и возвращает ошибку при проблемах
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService) (*AuthService, error) {
	if userRepo == nil {
		return nil, fmt.Errorf("UserRepository is required for AuthService")
	}
	if jwtService == nil {
		return nil, fmt.Errorf("JWTService is required for AuthService")
	}
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
	}, nil
}

// RegisterUser регистрирует нового пользователя и сразу выдает access-токен.
// Email нормализуется; хеширование пароля выполняет gorm-хук сущности User.
func (s *AuthService) RegisterUser(name, email, password string) (*entity.User, string, error) {
	email = normalizeEmail(email)
	name = strings.TrimSpace(name)

	user := &entity.User{
		Name:     name,
		Email:    email,
		Password: password,
	}

	if err := s.userRepo.Create(user); err != nil {
		// Конфликт уникальности email репозиторий уже перевёл в ErrConflict
		return nil, "", err
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// LoginUser проверяет учетные данные и выдает access-токен.
// Несуществующий email и неверный пароль неразличимы для клиента.
func (s *AuthService) LoginUser(email, password string) (*entity.User, string, error) {
	user, err := s.userRepo.GetByEmail(normalizeEmail(email))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
		}
		return nil, "", err
	}

	if !user.CheckPassword(password) {
		return nil, "", fmt.Errorf("%w: invalid email or password", apperrors.ErrUnauthorized)
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate token: %w", err)
	}

	return user, token, nil
}

// normalizeEmail приводит email к каноничному виду для поиска и хранения
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
