package dto

import (
	"time"

	"github.com/yourusername/quizhub-api/internal/domain/entity"
	"github.com/yourusername/quizhub-api/internal/service"
)

// AnswerResponse — один ответ студента внутри попытки
type AnswerResponse struct {
	QuestionID     uint   `json:"question_id"`
	SelectedOption string `json:"selected_option"`
}

// QuizBrief — краткая карточка квиза внутри попытки
type QuizBrief struct {
	ID    uint   `json:"id"`
	Title string `json:"title"`
}

// AttemptResponse представляет попытку в формате для ответа клиенту
type AttemptResponse struct {
	ID             uint             `json:"id"`
	QuizID         uint             `json:"quiz_id"`
	Quiz           *QuizBrief       `json:"quiz,omitempty"`
	StudentID      uint             `json:"student_id"`
	Score          int              `json:"score"`
	TotalQuestions int              `json:"total_questions"`
	Percentage     int              `json:"percentage"`
	Answers        []AnswerResponse `json:"answers"`
	CreatedAt      time.Time        `json:"created_at"`
}

// AttemptStatsResponse — агрегированная статистика по квизу
type AttemptStatsResponse struct {
	TotalAttempts int     `json:"total_attempts"`
	AverageScore  float64 `json:"average_score"`
	HighestScore  int     `json:"highest_score"`
	LowestScore   int     `json:"lowest_score"`
}

// ResultRowResponse — одна попытка в таблице результатов владельца
type ResultRowResponse struct {
	AttemptID      uint             `json:"attempt_id"`
	StudentName    string           `json:"student_name"`
	StudentEmail   string           `json:"student_email"`
	Score          int              `json:"score"`
	TotalQuestions int              `json:"total_questions"`
	Percentage     int              `json:"percentage"`
	Answers        []AnswerResponse `json:"answers"`
	AttemptedAt    string           `json:"attempted_at"`
}

// QuizResultsResponse — сводка результатов квиза для владельца
type QuizResultsResponse struct {
	Quiz    *QuizResponse        `json:"quiz"`
	Stats   AttemptStatsResponse `json:"stats"`
	Results []*ResultRowResponse `json:"results"`
}

// NewAnswerResponses создает DTO списка ответов
func NewAnswerResponses(answers entity.AnswerList) []AnswerResponse {
	list := make([]AnswerResponse, len(answers))
	for i, a := range answers {
		list[i] = AnswerResponse{QuestionID: a.QuestionID, SelectedOption: a.SelectedOption}
	}
	return list
}

// NewAttemptResponse создает DTO попытки
func NewAttemptResponse(attempt *entity.Attempt) *AttemptResponse {
	if attempt == nil {
		return nil
	}

	var quiz *QuizBrief
	if attempt.Quiz.ID != 0 {
		quiz = &QuizBrief{ID: attempt.Quiz.ID, Title: attempt.Quiz.Title}
	}

	return &AttemptResponse{
		ID:             attempt.ID,
		QuizID:         attempt.QuizID,
		Quiz:           quiz,
		StudentID:      attempt.StudentID,
		Score:          attempt.Score,
		TotalQuestions: attempt.TotalQuestions,
		Percentage:     attempt.Percentage,
		Answers:        NewAnswerResponses(attempt.Answers),
		CreatedAt:      attempt.CreatedAt,
	}
}

// NewListAttemptResponse создает слайс DTO для списка попыток
func NewListAttemptResponse(attempts []entity.Attempt) []*AttemptResponse {
	list := make([]*AttemptResponse, len(attempts))
	for i := range attempts {
		list[i] = NewAttemptResponse(&attempts[i])
	}
	return list
}

// NewQuizResultsResponse создает DTO сводки результатов квиза
func NewQuizResultsResponse(results *service.QuizResults) *QuizResultsResponse {
	rows := make([]*ResultRowResponse, len(results.Rows))
	for i, row := range results.Rows {
		rows[i] = &ResultRowResponse{
			AttemptID:      row.AttemptID,
			StudentName:    row.StudentName,
			StudentEmail:   row.StudentEmail,
			Score:          row.Score,
			TotalQuestions: row.TotalQuestions,
			Percentage:     row.Percentage,
			Answers:        NewAnswerResponses(row.Answers),
			AttemptedAt:    row.AttemptedAt,
		}
	}

	return &QuizResultsResponse{
		Quiz: NewQuizResponse(results.Quiz, false, false),
		Stats: AttemptStatsResponse{
			TotalAttempts: results.Stats.TotalAttempts,
			AverageScore:  results.Stats.AverageScore,
			HighestScore:  results.Stats.HighestScore,
			LowestScore:   results.Stats.LowestScore,
		},
		Results: rows,
	}
}
