package service

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/yourusername/quizhub-api/internal/domain/entity"
	"github.com/yourusername/quizhub-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizhub-api/internal/pkg/errors"
)

// QuizConfig содержит настройки квизового сервиса
type QuizConfig struct {
	// TrendingWindow — окно "свежих" попыток для trending-ранжирования
	TrendingWindow time.Duration
	// TrendingLimit — количество квизов в trending-выдаче по умолчанию
	TrendingLimit int
	// TrendingCacheTTL — время жизни кеша trending-выдачи
	TrendingCacheTTL time.Duration
}

// DefaultQuizConfig возвращает конфигурацию по умолчанию
func DefaultQuizConfig() *QuizConfig {
	return &QuizConfig{
		TrendingWindow:   7 * 24 * time.Hour,
		TrendingLimit:    6,
		TrendingCacheTTL: 5 * time.Minute,
	}
}

// QuizService предоставляет методы для работы с квизами:
// создание с валидацией, доступ по видимости/PIN, списки и trending
type QuizService struct {
	quizRepo  repository.QuizRepository
	cacheRepo repository.CacheRepository
	config    *QuizConfig
}

// NewQuizService создает новый сервис квизов
func NewQuizService(
	quizRepo repository.QuizRepository,
	cacheRepo repository.CacheRepository,
	config *QuizConfig,
) *QuizService {
	if config == nil {
		config = DefaultQuizConfig()
	}
	return &QuizService{
		quizRepo:  quizRepo,
		cacheRepo: cacheRepo,
		config:    config,
	}
}

// QuestionDraft — черновик вопроса из payload клиента
type QuestionDraft struct {
	Text    string
	Options []entity.Option
}

// CreateQuizInput — входные данные создания квиза
type CreateQuizInput struct {
	Title       string
	Description string
	Questions   []QuestionDraft
	// IsPublic nil означает "не указано" — квиз публичный по умолчанию
	IsPublic  *bool
	AccessPin string
}

// UpdateQuizInput — частичное обновление квиза.
// nil-поля не трогаются; Questions != nil перезаписывает весь список вопросов.
type UpdateQuizInput struct {
	Title       *string
	Description *string
	Questions   []QuestionDraft
	IsPublic    *bool
	AccessPin   *string
}

// QuizView — результат проверки доступа: квиз и решение, показывать ли ключ ответов
type QuizView struct {
	Quiz        *entity.Quiz
	WithAnswers bool
}

// TrendingQuiz — квиз в trending-выдаче со счётчиками и итоговым скором
type TrendingQuiz struct {
	Quiz           entity.Quiz `json:"quiz"`
	AttemptCount   int64       `json:"attempt_count"`
	RecentAttempts int64       `json:"recent_attempts"`
	TrendingScore  int64       `json:"trending_score"`
}

const trendingCacheKey = "quizzes:trending"

// CreateQuiz валидирует черновик и создает квиз.
// Публичный квиз никогда не хранит PIN: переданный PIN отбрасывается.
func (s *QuizService) CreateQuiz(input CreateQuizInput, ownerID uint) (*entity.Quiz, error) {
	// По умолчанию квиз публичный
	isPublic := true
	if input.IsPublic != nil {
		isPublic = *input.IsPublic
	}

	if err := validateQuizDraft(input.Title, input.Questions, true, isPublic, input.AccessPin); err != nil {
		return nil, err
	}

	quiz := &entity.Quiz{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		CreatedBy:   ownerID,
		IsPublic:    isPublic,
		AccessPin:   pinForVisibility(isPublic, input.AccessPin),
		Questions:   buildQuestions(input.Questions),
	}

	if err := s.quizRepo.Create(quiz); err != nil {
		return nil, fmt.Errorf("failed to create quiz: %w", err)
	}

	return quiz, nil
}

// UpdateQuiz применяет частичное обновление. Менять квиз может только владелец.
// Если обновляется список вопросов, он валидируется и перезаписывается целиком;
// инвариант публичный-без-PIN соблюдается при любой смене видимости.
func (s *QuizService) UpdateQuiz(quizID uint, input UpdateQuizInput, requesterID uint) (*entity.Quiz, error) {
	quiz, err := s.quizRepo.GetWithQuestions(quizID)
	if err != nil {
		return nil, err
	}

	if !quiz.IsOwnedBy(requesterID) {
		return nil, fmt.Errorf("%w: only the owner can update a quiz", apperrors.ErrForbidden)
	}

	// Собираем целевое состояние после патча
	title := quiz.Title
	if input.Title != nil {
		title = *input.Title
	}

	isPublic := quiz.IsPublic
	if input.IsPublic != nil {
		isPublic = *input.IsPublic
	}

	// Эффективный PIN: новый из патча, иначе уже сохранённый
	pin := ""
	if quiz.AccessPin != nil {
		pin = *quiz.AccessPin
	}
	if input.AccessPin != nil {
		pin = *input.AccessPin
	}

	replaceQuestions := input.Questions != nil
	if err := validateQuizDraft(title, input.Questions, replaceQuestions, isPublic, pin); err != nil {
		return nil, err
	}

	quiz.Title = strings.TrimSpace(title)
	if input.Description != nil {
		quiz.Description = *input.Description
	}
	quiz.IsPublic = isPublic
	quiz.AccessPin = pinForVisibility(isPublic, pin)
	if replaceQuestions {
		quiz.Questions = buildQuestions(input.Questions)
	}

	if err := s.quizRepo.Update(quiz, replaceQuestions); err != nil {
		return nil, fmt.Errorf("failed to update quiz: %w", err)
	}

	return s.quizRepo.GetWithQuestions(quizID)
}

// DeleteQuiz удаляет квиз. Удалять может только владелец.
func (s *QuizService) DeleteQuiz(quizID uint, requesterID uint) error {
	quiz, err := s.quizRepo.GetByID(quizID)
	if err != nil {
		return err
	}

	if !quiz.IsOwnedBy(requesterID) {
		return fmt.Errorf("%w: only the owner can delete a quiz", apperrors.ErrForbidden)
	}

	return s.quizRepo.Delete(quizID)
}

// GetQuizForViewer возвращает квиз с решением о показе ключа ответов.
//
// Таблица решений:
//   - публичный квиз виден всем; ключ ответов получает только владелец,
//     и только если явно запросил (revealAnswers у не-владельца игнорируется);
//   - приватный квиз виден только владельцу (доступ по PIN — через UnlockQuiz),
//     владелец всегда видит ключ ответов.
//
// viewerID == nil означает анонимного пользователя.
func (s *QuizService) GetQuizForViewer(quizID uint, viewerID *uint, revealAnswers bool) (*QuizView, error) {
	quiz, err := s.quizRepo.GetWithQuestions(quizID)
	if err != nil {
		return nil, err
	}
	return s.resolveView(quiz, viewerID, revealAnswers)
}

// GetQuizByShareCode возвращает квиз по share-коду с той же проверкой доступа
func (s *QuizService) GetQuizByShareCode(code string, viewerID *uint, revealAnswers bool) (*QuizView, error) {
	quiz, err := s.quizRepo.GetByShareCode(code)
	if err != nil {
		return nil, err
	}
	return s.resolveView(quiz, viewerID, revealAnswers)
}

func (s *QuizService) resolveView(quiz *entity.Quiz, viewerID *uint, revealAnswers bool) (*QuizView, error) {
	isOwner := viewerID != nil && quiz.IsOwnedBy(*viewerID)

	if !quiz.IsPublic && !isOwner {
		return nil, fmt.Errorf("%w: this is a private quiz", apperrors.ErrForbidden)
	}

	// Ключ ответов: владелец приватного квиза — всегда,
	// владелец публичного — только по явному запросу
	withAnswers := isOwner && (revealAnswers || !quiz.IsPublic)

	return &QuizView{Quiz: quiz, WithAnswers: withAnswers}, nil
}

// UnlockQuiz открывает квиз для прохождения. Для приватного квиза требуется
// точное совпадение PIN; ключ ответов не раскрывается никогда.
func (s *QuizService) UnlockQuiz(quizID uint, pin string) (*QuizView, error) {
	quiz, err := s.quizRepo.GetWithQuestions(quizID)
	if err != nil {
		return nil, err
	}

	if !quiz.IsPublic && !quiz.CheckPin(pin) {
		return nil, fmt.Errorf("%w: incorrect access pin", apperrors.ErrForbidden)
	}

	return &QuizView{Quiz: quiz, WithAnswers: false}, nil
}

// ListPublicQuizzes возвращает публичные квизы с поиском и пагинацией
func (s *QuizService) ListPublicQuizzes(filters repository.QuizFilters, page, pageSize int) ([]entity.Quiz, int64, error) {
	offset := (page - 1) * pageSize
	return s.quizRepo.ListPublic(filters, pageSize, offset)
}

// ListMyQuizzes возвращает квизы владельца
func (s *QuizService) ListMyQuizzes(ownerID uint, page, pageSize int) ([]entity.Quiz, error) {
	offset := (page - 1) * pageSize
	return s.quizRepo.ListByOwner(ownerID, pageSize, offset)
}

// TrendingQuizzes возвращает публичные квизы, отранжированные по популярности:
// общее число попыток с весом 1 плюс попытки за последнюю неделю с весом 3.
// Выдача кешируется; кеш не критичен для работы (fail-open).
func (s *QuizService) TrendingQuizzes(limit int) ([]TrendingQuiz, error) {
	if limit <= 0 {
		limit = s.config.TrendingLimit
	}

	if s.cacheRepo != nil {
		var cached []TrendingQuiz
		if err := s.cacheRepo.GetJSON(trendingCacheKey, &cached); err == nil {
			if len(cached) > limit {
				cached = cached[:limit]
			}
			return cached, nil
		}
	}

	since := time.Now().Add(-s.config.TrendingWindow)
	rows, err := s.quizRepo.ListTrendingCandidates(since)
	if err != nil {
		return nil, fmt.Errorf("failed to load trending candidates: %w", err)
	}

	trending := make([]TrendingQuiz, len(rows))
	for i, row := range rows {
		trending[i] = TrendingQuiz{
			Quiz:           row.Quiz,
			AttemptCount:   row.AttemptCount,
			RecentAttempts: row.RecentAttempts,
			TrendingScore:  TrendingScore(row.AttemptCount, row.RecentAttempts),
		}
	}

	// Скор по убыванию, при равенстве — более новый квиз первым
	sort.SliceStable(trending, func(i, j int) bool {
		if trending[i].TrendingScore != trending[j].TrendingScore {
			return trending[i].TrendingScore > trending[j].TrendingScore
		}
		return trending[i].Quiz.CreatedAt.After(trending[j].Quiz.CreatedAt)
	})

	if s.cacheRepo != nil {
		if err := s.cacheRepo.SetJSON(trendingCacheKey, trending, s.config.TrendingCacheTTL); err != nil {
			log.Printf("[QuizService] Не удалось записать trending-выдачу в кеш: %v", err)
		}
	}

	if len(trending) > limit {
		trending = trending[:limit]
	}
	return trending, nil
}

// InvalidateTrendingCache сбрасывает кеш trending-выдачи (после новой попытки)
func (s *QuizService) InvalidateTrendingCache() {
	if s.cacheRepo == nil {
		return
	}
	if err := s.cacheRepo.Delete(trendingCacheKey); err != nil {
		log.Printf("[QuizService] Не удалось сбросить trending-кеш: %v", err)
	}
}

// validateQuizDraft проверяет черновик квиза. Порядок проверок фиксирован,
// возвращается первая ошибка:
//  1. непустой title;
//  2. непустой список вопросов (если вопросы вообще меняются);
//  3. у каждого вопроса есть текст и минимум 2 варианта;
//  4. у каждого вопроса ровно один правильный вариант;
//  5. приватному квизу нужен непустой PIN.
func validateQuizDraft(title string, questions []QuestionDraft, checkQuestions bool, isPublic bool, pin string) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", apperrors.ErrValidation)
	}

	if checkQuestions {
		if len(questions) == 0 {
			return fmt.Errorf("%w: at least one question is required", apperrors.ErrValidation)
		}

		for i, q := range questions {
			if strings.TrimSpace(q.Text) == "" || len(q.Options) < 2 {
				return fmt.Errorf("%w: question #%d must have text and at least 2 options", apperrors.ErrValidation, i+1)
			}
		}

		for i, q := range questions {
			correct := 0
			for _, opt := range q.Options {
				if strings.TrimSpace(opt.Text) == "" {
					return fmt.Errorf("%w: question #%d has an option without text", apperrors.ErrValidation, i+1)
				}
				if opt.Correct {
					correct++
				}
			}
			switch {
			case correct == 0:
				return fmt.Errorf("%w: question #%d has no correct option", apperrors.ErrValidation, i+1)
			case correct > 1:
				return fmt.Errorf("%w: question #%d has more than one correct option", apperrors.ErrValidation, i+1)
			}
		}
	}

	if !isPublic && strings.TrimSpace(pin) == "" {
		return fmt.Errorf("%w: private quiz requires an access pin", apperrors.ErrValidation)
	}

	return nil
}

// pinForVisibility возвращает PIN для сохранения: публичный квиз PIN не хранит
func pinForVisibility(isPublic bool, pin string) *string {
	if isPublic || pin == "" {
		return nil
	}
	return &pin
}

// buildQuestions превращает черновики в entity.Question с авторским порядком
func buildQuestions(drafts []QuestionDraft) []entity.Question {
	questions := make([]entity.Question, len(drafts))
	for i, d := range drafts {
		questions[i] = entity.Question{
			Position: i,
			Text:     strings.TrimSpace(d.Text),
			Options:  d.Options,
		}
	}
	return questions
}
