package repository

import (
	"github.com/yourusername/quizhub-api/internal/domain/entity"
)

// AttemptRepository определяет методы для работы с попытками.
// Попытки только создаются и читаются: это исторические снимки.
type AttemptRepository interface {
	Create(attempt *entity.Attempt) error
	// GetByID возвращает попытку вместе с квизом и студентом
	GetByID(id uint) (*entity.Attempt, error)
	// ListByStudent возвращает попытки студента, новые первыми, с квизом
	ListByStudent(studentID uint) ([]entity.Attempt, error)
	// ListByQuiz возвращает попытки по квизу, новые первыми, со студентом
	ListByQuiz(quizID uint) ([]entity.Attempt, error)
	CountByStudent(studentID uint) (int64, error)
}
