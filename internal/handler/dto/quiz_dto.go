package dto

import (
	"time"

	"github.com/yourusername/quizhub-api/internal/domain/entity"
)

// CreatorResponse — автор квиза в ответе клиенту
type CreatorResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OptionResponse — вариант ответа. Флаг Correct сериализуется только когда
// вызывающий код решил раскрыть ключ ответов.
type OptionResponse struct {
	Text    string `json:"text"`
	Correct *bool  `json:"correct,omitempty"`
}

// QuestionResponse представляет вопрос в формате для ответа клиенту
type QuestionResponse struct {
	ID       uint             `json:"id"`
	Position int              `json:"position"`
	Text     string           `json:"text"`
	Options  []OptionResponse `json:"options"`
}

// QuizResponse представляет квиз в формате для ответа клиенту.
// PIN доступа не попадает в ответ никогда.
type QuizResponse struct {
	ID            uint               `json:"id"`
	ShareCode     string             `json:"share_code"`
	Title         string             `json:"title"`
	Description   string             `json:"description,omitempty"`
	IsPublic      bool               `json:"is_public"`
	Creator       *CreatorResponse   `json:"creator,omitempty"`
	QuestionCount int                `json:"question_count,omitempty"`
	Questions     []QuestionResponse `json:"questions,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// TrendingQuizResponse — квиз в trending-выдаче со счётчиками
type TrendingQuizResponse struct {
	Quiz          *QuizResponse `json:"quiz"`
	AttemptCount  int64         `json:"attempt_count"`
	TrendingScore int64         `json:"trending_score"`
}

// PaginatedQuizResponse представляет пагинированный список квизов
type PaginatedQuizResponse struct {
	Quizzes []*QuizResponse `json:"quizzes"`
	Total   int64           `json:"total"`
	Page    int             `json:"page"`
	PerPage int             `json:"per_page"`
}

// NewQuestionResponse создает DTO вопроса.
// includeAnswers управляет раскрытием флага правильного варианта.
func NewQuestionResponse(q *entity.Question, includeAnswers bool) QuestionResponse {
	options := make([]OptionResponse, len(q.Options))
	for i, opt := range q.Options {
		options[i] = OptionResponse{Text: opt.Text}
		if includeAnswers {
			correct := opt.Correct
			options[i].Correct = &correct
		}
	}

	return QuestionResponse{
		ID:       q.ID,
		Position: q.Position,
		Text:     q.Text,
		Options:  options,
	}
}

// NewQuizResponse создает DTO квиза
func NewQuizResponse(quiz *entity.Quiz, includeQuestions, includeAnswers bool) *QuizResponse {
	if quiz == nil {
		return nil
	}

	var questions []QuestionResponse
	if includeQuestions {
		questions = make([]QuestionResponse, len(quiz.Questions))
		for i := range quiz.Questions {
			questions[i] = NewQuestionResponse(&quiz.Questions[i], includeAnswers)
		}
	}

	var creator *CreatorResponse
	if quiz.Creator.ID != 0 {
		creator = &CreatorResponse{
			ID:    quiz.Creator.ID,
			Name:  quiz.Creator.Name,
			Email: quiz.Creator.Email,
		}
	}

	return &QuizResponse{
		ID:            quiz.ID,
		ShareCode:     quiz.ShareCode,
		Title:         quiz.Title,
		Description:   quiz.Description,
		IsPublic:      quiz.IsPublic,
		Creator:       creator,
		QuestionCount: len(quiz.Questions),
		Questions:     questions,
		CreatedAt:     quiz.CreatedAt,
		UpdatedAt:     quiz.UpdatedAt,
	}
}

// NewListQuizResponse создает слайс DTO для списка квизов, без вопросов
func NewListQuizResponse(quizzes []entity.Quiz) []*QuizResponse {
	list := make([]*QuizResponse, len(quizzes))
	for i := range quizzes {
		list[i] = NewQuizResponse(&quizzes[i], false, false)
	}
	return list
}

// NewPaginatedQuizResponse создает DTO для пагинированного списка квизов
func NewPaginatedQuizResponse(quizzes []entity.Quiz, total int64, page, perPage int) *PaginatedQuizResponse {
	return &PaginatedQuizResponse{
		Quizzes: NewListQuizResponse(quizzes),
		Total:   total,
		Page:    page,
		PerPage: perPage,
	}
}

// NewTrendingQuizResponse создает DTO квиза в trending-выдаче
func NewTrendingQuizResponse(quiz *entity.Quiz, attemptCount, trendingScore int64) *TrendingQuizResponse {
	return &TrendingQuizResponse{
		Quiz:          NewQuizResponse(quiz, false, false),
		AttemptCount:  attemptCount,
		TrendingScore: trendingScore,
	}
}
