package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/quizhub-api/internal/domain/entity"
	"github.com/yourusername/quizhub-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizhub-api/internal/pkg/errors"
)

// QuizRepo реализует repository.QuizRepository
type QuizRepo struct {
	db *gorm.DB
}

// NewQuizRepo создает новый репозиторий квизов
func NewQuizRepo(db *gorm.DB) *QuizRepo {
	return &QuizRepo{db: db}
}

// Create создает новый квиз вместе с вопросами
func (r *QuizRepo) Create(quiz *entity.Quiz) error {
	return r.db.Create(quiz).Error
}

// GetByID возвращает квиз по ID (без вопросов)
func (r *QuizRepo) GetByID(id uint) (*entity.Quiz, error) {
	var quiz entity.Quiz
	err := r.db.First(&quiz, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// GetWithQuestions возвращает квиз с создателем и вопросами в авторском порядке
func (r *QuizRepo) GetWithQuestions(id uint) (*entity.Quiz, error) {
	var quiz entity.Quiz
	err := r.db.
		Preload("Creator").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		First(&quiz, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// GetByShareCode возвращает квиз по share-коду с создателем и вопросами
func (r *QuizRepo) GetByShareCode(code string) (*entity.Quiz, error) {
	var quiz entity.Quiz
	err := r.db.
		Preload("Creator").
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC, id ASC")
		}).
		Where("share_code = ?", code).
		First(&quiz).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &quiz, nil
}

// Update сохраняет поля квиза. При replaceQuestions весь набор вопросов
// перезаписывается целиком в одной транзакции: агрегат меняется как единое целое.
func (r *QuizRepo) Update(quiz *entity.Quiz, replaceQuestions bool) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"title":       quiz.Title,
			"description": quiz.Description,
			"is_public":   quiz.IsPublic,
			"access_pin":  quiz.AccessPin,
			"updated_at":  time.Now(),
		}
		if err := tx.Model(&entity.Quiz{}).Where("id = ?", quiz.ID).Updates(updates).Error; err != nil {
			return err
		}

		if !replaceQuestions {
			return nil
		}

		if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&entity.Question{}).Error; err != nil {
			return err
		}
		for i := range quiz.Questions {
			quiz.Questions[i].ID = 0
			quiz.Questions[i].QuizID = quiz.ID
			quiz.Questions[i].Position = i
		}
		if len(quiz.Questions) > 0 {
			if err := tx.Create(&quiz.Questions).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete удаляет квиз вместе с вопросами
func (r *QuizRepo) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", id).Delete(&entity.Question{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entity.Quiz{}, id).Error
	})
}

// ListPublic возвращает только публичные квизы с фильтрами и total count, новые первыми
func (r *QuizRepo) ListPublic(filters repository.QuizFilters, limit, offset int) ([]entity.Quiz, int64, error) {
	var quizzes []entity.Quiz
	var total int64

	query := r.db.Model(&entity.Quiz{}).Where("is_public = ?", true)

	if filters.Search != "" {
		search := "%" + filters.Search + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ?", search, search)
	}

	if filters.CreatedBy != 0 {
		query = query.Where("created_by = ?", filters.CreatedBy)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Creator").
		Limit(limit).Offset(offset).
		Order("created_at DESC").
		Find(&quizzes).Error
	if err != nil {
		return nil, 0, err
	}

	return quizzes, total, nil
}

// ListByOwner возвращает квизы владельца, новые первыми
func (r *QuizRepo) ListByOwner(ownerID uint, limit, offset int) ([]entity.Quiz, error) {
	var quizzes []entity.Quiz
	err := r.db.
		Where("created_by = ?", ownerID).
		Limit(limit).Offset(offset).
		Order("created_at DESC").
		Find(&quizzes).Error
	return quizzes, err
}

// CountByOwner возвращает количество квизов владельца
func (r *QuizRepo) CountByOwner(ownerID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Quiz{}).Where("created_by = ?", ownerID).Count(&count).Error
	return count, err
}

// trendingRow — приватная scan-структура для ListTrendingCandidates
type trendingRow struct {
	entity.Quiz
	AttemptCount   int64
	RecentAttempts int64
}

// ListTrendingCandidates возвращает публичные квизы со счётчиками попыток:
// общим и за окно с момента since. Порядок не гарантируется — ранжирует сервис.
func (r *QuizRepo) ListTrendingCandidates(since time.Time) ([]repository.TrendingQuizRow, error) {
	var rows []trendingRow
	err := r.db.
		Model(&entity.Quiz{}).
		Select(`quizzes.*,
			COUNT(attempts.id) AS attempt_count,
			COUNT(attempts.id) FILTER (WHERE attempts.created_at >= ?) AS recent_attempts`, since).
		Joins("LEFT JOIN attempts ON attempts.quiz_id = quizzes.id").
		Where("quizzes.is_public = ?", true).
		Group("quizzes.id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	result := make([]repository.TrendingQuizRow, len(rows))
	for i, row := range rows {
		result[i] = repository.TrendingQuizRow{
			Quiz:           row.Quiz,
			AttemptCount:   row.AttemptCount,
			RecentAttempts: row.RecentAttempts,
		}
	}
	return result, nil
}
