package dto

import (
	"time"

	"github.com/yourusername/quizhub-api/internal/domain/entity"
)

// UserResponse представляет пользователя в формате для ответа клиенту
type UserResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// ProfileResponse — профиль со счётчиками активности
type ProfileResponse struct {
	User           *UserResponse `json:"user"`
	QuizzesCreated int64         `json:"quizzes_created"`
	QuizzesTaken   int64         `json:"quizzes_taken"`
}

// DashboardResponse — сводка личного кабинета
type DashboardResponse struct {
	TotalQuizzes   int64              `json:"total_quizzes"`
	TotalAttempts  int64              `json:"total_attempts"`
	AverageScore   int                `json:"average_score"`
	RecentQuizzes  []*QuizResponse    `json:"recent_quizzes"`
	RecentAttempts []*AttemptResponse `json:"recent_attempts"`
}

// NewUserResponse создает DTO пользователя
func NewUserResponse(user *entity.User) *UserResponse {
	if user == nil {
		return nil
	}
	return &UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}
