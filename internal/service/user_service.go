package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/yourusername/quizhub-api/internal/domain/entity"
	"github.com/yourusername/quizhub-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizhub-api/internal/pkg/errors"
)

// UserService предоставляет методы профиля и личного кабинета
type UserService struct {
	userRepo    repository.UserRepository
	quizRepo    repository.QuizRepository
	attemptRepo repository.AttemptRepository
}

// NewUserService создает новый сервис пользователей
func NewUserService(
	userRepo repository.UserRepository,
	quizRepo repository.QuizRepository,
	attemptRepo repository.AttemptRepository,
) *UserService {
	return &UserService{
		userRepo:    userRepo,
		quizRepo:    quizRepo,
		attemptRepo: attemptRepo,
	}
}

// ProfileStats — счётчики активности в профиле
type ProfileStats struct {
	QuizzesCreated int64 `json:"quizzes_created"`
	QuizzesTaken   int64 `json:"quizzes_taken"`
}

// Dashboard — сводка личного кабинета
type Dashboard struct {
	TotalQuizzes   int64
	TotalAttempts  int64
	AverageScore   int
	RecentQuizzes  []entity.Quiz
	RecentAttempts []entity.Attempt
}

// GetProfile возвращает пользователя вместе со счётчиками активности
func (s *UserService) GetProfile(userID uint) (*entity.User, ProfileStats, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, ProfileStats{}, err
	}

	created, err := s.quizRepo.CountByOwner(userID)
	if err != nil {
		return nil, ProfileStats{}, fmt.Errorf("failed to count quizzes: %w", err)
	}

	taken, err := s.attemptRepo.CountByStudent(userID)
	if err != nil {
		return nil, ProfileStats{}, fmt.Errorf("failed to count attempts: %w", err)
	}

	return user, ProfileStats{QuizzesCreated: created, QuizzesTaken: taken}, nil
}

// UpdateProfile обновляет имя и/или email. Пустые поля не трогаются.
func (s *UserService) UpdateProfile(userID uint, name, email string) (*entity.User, error) {
	updates := make(map[string]interface{})
	if strings.TrimSpace(name) != "" {
		updates["name"] = strings.TrimSpace(name)
	}
	if strings.TrimSpace(email) != "" {
		updates["email"] = normalizeEmail(email)
	}

	if len(updates) == 0 {
		return nil, fmt.Errorf("%w: nothing to update", apperrors.ErrValidation)
	}

	if err := s.userRepo.UpdateProfile(userID, updates); err != nil {
		return nil, err
	}

	return s.userRepo.GetByID(userID)
}

// GetDashboard собирает сводку: мои квизы, мои попытки и средний результат
func (s *UserService) GetDashboard(userID uint) (*Dashboard, error) {
	totalQuizzes, err := s.quizRepo.CountByOwner(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to count quizzes: %w", err)
	}

	attempts, err := s.attemptRepo.ListByStudent(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempts: %w", err)
	}

	avg := 0
	if len(attempts) > 0 {
		sum := 0
		for _, a := range attempts {
			sum += a.Percentage
		}
		avg = int(math.Round(float64(sum) / float64(len(attempts))))
	}

	recentQuizzes, err := s.quizRepo.ListByOwner(userID, 5, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to load recent quizzes: %w", err)
	}

	recentAttempts := attempts
	if len(recentAttempts) > 5 {
		recentAttempts = recentAttempts[:5]
	}

	return &Dashboard{
		TotalQuizzes:   totalQuizzes,
		TotalAttempts:  int64(len(attempts)),
		AverageScore:   avg,
		RecentQuizzes:  recentQuizzes,
		RecentAttempts: recentAttempts,
	}, nil
}
