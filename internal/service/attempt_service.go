package service

import (
	"fmt"

	"github.com/yourusername/quizhub-api/internal/domain/entity"
	"github.com/yourusername/quizhub-api/internal/domain/repository"
	apperrors "github.com/yourusername/quizhub-api/internal/pkg/errors"
)

// AttemptService отвечает за прохождение квизов: приём ответов,
// серверный подсчёт результата и доступ к сохранённым попыткам
type AttemptService struct {
	attemptRepo repository.AttemptRepository
	quizRepo    repository.QuizRepository
	quizService *QuizService
}

// NewAttemptService создает новый сервис попыток
func NewAttemptService(
	attemptRepo repository.AttemptRepository,
	quizRepo repository.QuizRepository,
	quizService *QuizService,
) *AttemptService {
	return &AttemptService{
		attemptRepo: attemptRepo,
		quizRepo:    quizRepo,
		quizService: quizService,
	}
}

// ResultRow — строка результатов квиза для владельца
type ResultRow struct {
	AttemptID      uint              `json:"attempt_id"`
	StudentName    string            `json:"student_name"`
	StudentEmail   string            `json:"student_email"`
	Score          int               `json:"score"`
	TotalQuestions int               `json:"total_questions"`
	Percentage     int               `json:"percentage"`
	Answers        entity.AnswerList `json:"answers"`
	AttemptedAt    string            `json:"attempted_at"`
}

// QuizResults — сводка результатов квиза: статистика плюс построчные попытки
type QuizResults struct {
	Quiz  *entity.Quiz
	Stats AttemptStats
	Rows  []ResultRow
}

// SubmitAttempt принимает ответы, считает результат по эталону из базы
// и сохраняет неизменяемый снапшот попытки.
//
// Счёт — точное совпадение текста выбранного варианта с текстом правильного
// варианта вопроса (с учётом регистра). Вопросы без ответа и ответы на чужие
// вопросы очков не дают. При нескольких ответах на один вопрос учитывается первый.
func (s *AttemptService) SubmitAttempt(quizID, studentID uint, answers []entity.Answer) (*entity.Attempt, error) {
	if answers == nil {
		return nil, fmt.Errorf("%w: answers are required", apperrors.ErrInvalidSubmission)
	}
	for _, a := range answers {
		if a.QuestionID == 0 {
			return nil, fmt.Errorf("%w: each answer must reference a question", apperrors.ErrInvalidSubmission)
		}
	}

	quiz, err := s.quizRepo.GetWithQuestions(quizID)
	if err != nil {
		return nil, err
	}

	score := scoreAnswers(quiz.Questions, answers)
	total := len(quiz.Questions)

	attempt := &entity.Attempt{
		QuizID:         quiz.ID,
		StudentID:      studentID,
		Answers:        answers,
		Score:          score,
		TotalQuestions: total,
		Percentage:     PercentageOf(score, total),
	}

	if err := s.attemptRepo.Create(attempt); err != nil {
		return nil, fmt.Errorf("failed to save attempt: %w", err)
	}

	// Новая попытка меняет trending-счётчики
	if s.quizService != nil {
		s.quizService.InvalidateTrendingCache()
	}

	return attempt, nil
}

// GetAttempt возвращает попытку. Доступ есть у её автора и у владельца квиза.
func (s *AttemptService) GetAttempt(attemptID, requesterID uint) (*entity.Attempt, error) {
	attempt, err := s.attemptRepo.GetByID(attemptID)
	if err != nil {
		return nil, err
	}

	if attempt.StudentID != requesterID && !attempt.Quiz.IsOwnedBy(requesterID) {
		return nil, fmt.Errorf("%w: no access to this attempt", apperrors.ErrForbidden)
	}

	return attempt, nil
}

// ListMyAttempts возвращает попытки студента, новые первыми
func (s *AttemptService) ListMyAttempts(studentID uint) ([]entity.Attempt, error) {
	return s.attemptRepo.ListByStudent(studentID)
}

// GetQuizResults возвращает владельцу квиза статистику и все попытки
func (s *AttemptService) GetQuizResults(quizID, requesterID uint) (*QuizResults, error) {
	quiz, err := s.quizRepo.GetWithQuestions(quizID)
	if err != nil {
		return nil, err
	}

	if !quiz.IsOwnedBy(requesterID) {
		return nil, fmt.Errorf("%w: only the owner can view quiz results", apperrors.ErrForbidden)
	}

	attempts, err := s.attemptRepo.ListByQuiz(quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to load attempts: %w", err)
	}

	rows := make([]ResultRow, len(attempts))
	for i, a := range attempts {
		rows[i] = ResultRow{
			AttemptID:      a.ID,
			StudentName:    a.Student.Name,
			StudentEmail:   a.Student.Email,
			Score:          a.Score,
			TotalQuestions: a.TotalQuestions,
			Percentage:     a.Percentage,
			Answers:        a.Answers,
			AttemptedAt:    a.CreatedAt.Format("2006-01-02 15:04:05"),
		}
	}

	return &QuizResults{
		Quiz:  quiz,
		Stats: SummarizeAttempts(attempts),
		Rows:  rows,
	}, nil
}

// scoreAnswers считает количество правильных ответов по эталонным вопросам
func scoreAnswers(questions []entity.Question, answers []entity.Answer) int {
	selected := make(map[uint]string, len(answers))
	for _, a := range answers {
		if _, ok := selected[a.QuestionID]; !ok {
			selected[a.QuestionID] = a.SelectedOption
		}
	}

	score := 0
	for _, q := range questions {
		chosen, answered := selected[q.ID]
		if !answered {
			continue
		}
		if correct, ok := q.CorrectOption(); ok && chosen == correct.Text {
			score++
		}
	}
	return score
}
