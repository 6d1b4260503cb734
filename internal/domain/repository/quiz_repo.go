package repository

import (
	"time"

	"github.com/yourusername/quizhub-api/internal/domain/entity"
)

// QuizFilters определяет фильтры для поиска публичных квизов
type QuizFilters struct {
	Search    string // Поиск по названию/описанию (ILIKE)
	CreatedBy uint   // Фильтр по автору (0 — без фильтра)
}

// TrendingQuizRow — публичный квиз со счётчиками попыток для ранжирования.
// Счётчики считает база, итоговый trending-скор и порядок — сервис.
type TrendingQuizRow struct {
	Quiz           entity.Quiz
	AttemptCount   int64
	RecentAttempts int64
}

// QuizRepository определяет методы для работы с квизами
type QuizRepository interface {
	Create(quiz *entity.Quiz) error
	GetByID(id uint) (*entity.Quiz, error)
	// GetWithQuestions возвращает квиз с создателем и вопросами в авторском порядке
	GetWithQuestions(id uint) (*entity.Quiz, error)
	GetByShareCode(code string) (*entity.Quiz, error)
	// Update сохраняет поля квиза; если quiz.Questions != nil, весь набор
	// вопросов перезаписывается целиком в одной транзакции
	Update(quiz *entity.Quiz, replaceQuestions bool) error
	Delete(id uint) error
	// ListPublic возвращает только публичные квизы, новые первыми
	ListPublic(filters QuizFilters, limit, offset int) ([]entity.Quiz, int64, error)
	ListByOwner(ownerID uint, limit, offset int) ([]entity.Quiz, error)
	CountByOwner(ownerID uint) (int64, error)
	// ListTrendingCandidates возвращает публичные квизы со счётчиками попыток:
	// общим и за окно с момента since
	ListTrendingCandidates(since time.Time) ([]TrendingQuizRow, error)
}
