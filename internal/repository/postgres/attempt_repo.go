package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/quizhub-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizhub-api/internal/pkg/errors"
)

// AttemptRepo реализует repository.AttemptRepository
type AttemptRepo struct {
	db *gorm.DB
}

// NewAttemptRepo создает новый репозиторий попыток
func NewAttemptRepo(db *gorm.DB) *AttemptRepo {
	return &AttemptRepo{db: db}
}

// Create сохраняет новую попытку. Попытки никогда не обновляются.
func (r *AttemptRepo) Create(attempt *entity.Attempt) error {
	return r.db.Create(attempt).Error
}

// GetByID возвращает попытку вместе с квизом и студентом
func (r *AttemptRepo) GetByID(id uint) (*entity.Attempt, error) {
	var attempt entity.Attempt
	err := r.db.
		Preload("Quiz").
		Preload("Student").
		First(&attempt, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &attempt, nil
}

// ListByStudent возвращает попытки студента, новые первыми, с квизом
func (r *AttemptRepo) ListByStudent(studentID uint) ([]entity.Attempt, error) {
	var attempts []entity.Attempt
	err := r.db.
		Preload("Quiz").
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Find(&attempts).Error
	return attempts, err
}

// ListByQuiz возвращает попытки по квизу, новые первыми, со студентом
func (r *AttemptRepo) ListByQuiz(quizID uint) ([]entity.Attempt, error) {
	var attempts []entity.Attempt
	err := r.db.
		Preload("Student").
		Where("quiz_id = ?", quizID).
		Order("created_at DESC").
		Find(&attempts).Error
	return attempts, err
}

// CountByStudent возвращает количество попыток студента
func (r *AttemptRepo) CountByStudent(studentID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Attempt{}).Where("student_id = ?", studentID).Count(&count).Error
	return count, err
}
