package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/quizhub-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizhub-api/internal/pkg/errors"
)

// MockAttemptRepository реализует repository.AttemptRepository
type MockAttemptRepository struct {
	mock.Mock
}

func (m *MockAttemptRepository) Create(attempt *entity.Attempt) error {
	args := m.Called(attempt)
	return args.Error(0)
}

func (m *MockAttemptRepository) GetByID(id uint) (*entity.Attempt, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Attempt), args.Error(1)
}

func (m *MockAttemptRepository) ListByStudent(studentID uint) ([]entity.Attempt, error) {
	args := m.Called(studentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Attempt), args.Error(1)
}

func (m *MockAttemptRepository) ListByQuiz(quizID uint) ([]entity.Attempt, error) {
	args := m.Called(quizID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Attempt), args.Error(1)
}

func (m *MockAttemptRepository) CountByStudent(studentID uint) (int64, error) {
	args := m.Called(studentID)
	return args.Get(0).(int64), args.Error(1)
}

// fourQuestionQuiz — квиз из 4 вопросов с известными правильными ответами
func fourQuestionQuiz() *entity.Quiz {
	return &entity.Quiz{
		ID:        1,
		Title:     "География",
		CreatedBy: 1,
		IsPublic:  true,
		Questions: []entity.Question{
			{ID: 10, QuizID: 1, Position: 0, Text: "Столица Франции?", Options: entity.OptionList{
				{Text: "Paris", Correct: true}, {Text: "London"},
			}},
			{ID: 11, QuizID: 1, Position: 1, Text: "Столица Италии?", Options: entity.OptionList{
				{Text: "Rome", Correct: true}, {Text: "Milan"},
			}},
			{ID: 12, QuizID: 1, Position: 2, Text: "Столица Испании?", Options: entity.OptionList{
				{Text: "Madrid", Correct: true}, {Text: "Barcelona"},
			}},
			{ID: 13, QuizID: 1, Position: 3, Text: "Столица Германии?", Options: entity.OptionList{
				{Text: "Berlin", Correct: true}, {Text: "Munich"},
			}},
		},
	}
}

func newTestAttemptService(attemptRepo *MockAttemptRepository, quizRepo *MockQuizRepository) *AttemptService {
	return NewAttemptService(attemptRepo, quizRepo, nil)
}

// ============================================================================
// SubmitAttempt: подсчёт результата
// ============================================================================

func TestAttemptService_SubmitAttempt_PartialScore(t *testing.T) {
	// Arrange: 2 правильных ответа из 4 вопросов
	mockAttemptRepo := new(MockAttemptRepository)
	mockQuizRepo := new(MockQuizRepository)
	mockQuizRepo.On("GetWithQuestions", uint(1)).Return(fourQuestionQuiz(), nil)
	mockAttemptRepo.On("Create", mock.AnythingOfType("*entity.Attempt")).Return(nil)

	svc := newTestAttemptService(mockAttemptRepo, mockQuizRepo)

	answers := []entity.Answer{
		{QuestionID: 10, SelectedOption: "Paris"},  // верно
		{QuestionID: 11, SelectedOption: "Milan"},  // неверно
		{QuestionID: 12, SelectedOption: "Madrid"}, // верно
		// вопрос 13 без ответа
	}

	// Act
	attempt, err := svc.SubmitAttempt(1, 5, answers)

	// Assert
	require.NoError(t, err, "Отправка попытки должна быть успешной")
	assert.Equal(t, 2, attempt.Score)
	assert.Equal(t, 4, attempt.TotalQuestions)
	assert.Equal(t, 50, attempt.Percentage)
	assert.Equal(t, uint(5), attempt.StudentID)
	mockAttemptRepo.AssertExpectations(t)
}

func TestAttemptService_SubmitAttempt_AllCorrect(t *testing.T) {
	// Arrange
	mockAttemptRepo := new(MockAttemptRepository)
	mockQuizRepo := new(MockQuizRepository)
	mockQuizRepo.On("GetWithQuestions", uint(1)).Return(fourQuestionQuiz(), nil)
	mockAttemptRepo.On("Create", mock.AnythingOfType("*entity.Attempt")).Return(nil)

	svc := newTestAttemptService(mockAttemptRepo, mockQuizRepo)

	answers := []entity.Answer{
		{QuestionID: 10, SelectedOption: "Paris"},
		{QuestionID: 11, SelectedOption: "Rome"},
		{QuestionID: 12, SelectedOption: "Madrid"},
		{QuestionID: 13, SelectedOption: "Berlin"},
	}

	// Act
	attempt, err := svc.SubmitAttempt(1, 5, answers)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 4, attempt.Score)
	assert.Equal(t, 100, attempt.Percentage)
}

func TestAttemptService_SubmitAttempt_CaseSensitiveMatch(t *testing.T) {
	// Arrange: сравнение текста вариантов строгое, с учётом регистра
	mockAttemptRepo := new(MockAttemptRepository)
	mockQuizRepo := new(MockQuizRepository)
	mockQuizRepo.On("GetWithQuestions", uint(1)).Return(fourQuestionQuiz(), nil)
	mockAttemptRepo.On("Create", mock.AnythingOfType("*entity.Attempt")).Return(nil)

	svc := newTestAttemptService(mockAttemptRepo, mockQuizRepo)

	answers := []entity.Answer{
		{QuestionID: 10, SelectedOption: "paris"}, // регистр не совпадает
	}

	// Act
	attempt, err := svc.SubmitAttempt(1, 5, answers)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, attempt.Score, "Совпадение текста должно быть точным")
}

func TestAttemptService_SubmitAttempt_EmptyAnswers(t *testing.T) {
	// Arrange: пустой (но не nil) список ответов даёт нулевой результат
	mockAttemptRepo := new(MockAttemptRepository)
	mockQuizRepo := new(MockQuizRepository)
	mockQuizRepo.On("GetWithQuestions", uint(1)).Return(fourQuestionQuiz(), nil)
	mockAttemptRepo.On("Create", mock.AnythingOfType("*entity.Attempt")).Return(nil)

	svc := newTestAttemptService(mockAttemptRepo, mockQuizRepo)

	// Act
	attempt, err := svc.SubmitAttempt(1, 5, []entity.Answer{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, attempt.Score)
	assert.Equal(t, 0, attempt.Percentage)
	assert.Equal(t, 4, attempt.TotalQuestions)
}

func TestAttemptService_SubmitAttempt_NilAnswers(t *testing.T) {
	// Arrange
	svc := newTestAttemptService(new(MockAttemptRepository), new(MockQuizRepository))

	// Act
	attempt, err := svc.SubmitAttempt(1, 5, nil)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrInvalidSubmission)
	assert.Nil(t, attempt)
}

func TestAttemptService_SubmitAttempt_UnknownQuestionIgnored(t *testing.T) {
	// Arrange: ответ на вопрос чужого квиза очков не даёт
	mockAttemptRepo := new(MockAttemptRepository)
	mockQuizRepo := new(MockQuizRepository)
	mockQuizRepo.On("GetWithQuestions", uint(1)).Return(fourQuestionQuiz(), nil)
	mockAttemptRepo.On("Create", mock.AnythingOfType("*entity.Attempt")).Return(nil)

	svc := newTestAttemptService(mockAttemptRepo, mockQuizRepo)

	answers := []entity.Answer{
		{QuestionID: 999, SelectedOption: "Paris"},
		{QuestionID: 10, SelectedOption: "Paris"},
	}

	// Act
	attempt, err := svc.SubmitAttempt(1, 5, answers)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, attempt.Score)
}

func TestAttemptService_SubmitAttempt_DuplicateAnswerFirstWins(t *testing.T) {
	// Arrange: два ответа на один вопрос, учитывается первый
	mockAttemptRepo := new(MockAttemptRepository)
	mockQuizRepo := new(MockQuizRepository)
	mockQuizRepo.On("GetWithQuestions", uint(1)).Return(fourQuestionQuiz(), nil)
	mockAttemptRepo.On("Create", mock.AnythingOfType("*entity.Attempt")).Return(nil)

	svc := newTestAttemptService(mockAttemptRepo, mockQuizRepo)

	answers := []entity.Answer{
		{QuestionID: 10, SelectedOption: "London"}, // первый, неверный
		{QuestionID: 10, SelectedOption: "Paris"},  // второй игнорируется
	}

	// Act
	attempt, err := svc.SubmitAttempt(1, 5, answers)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, attempt.Score)
}

func TestAttemptService_SubmitAttempt_QuizWithoutQuestions(t *testing.T) {
	// Arrange: квиз без вопросов — процент 0, не деление на ноль
	emptyQuiz := &entity.Quiz{ID: 2, Title: "Пустой", CreatedBy: 1, IsPublic: true}

	mockAttemptRepo := new(MockAttemptRepository)
	mockQuizRepo := new(MockQuizRepository)
	mockQuizRepo.On("GetWithQuestions", uint(2)).Return(emptyQuiz, nil)
	mockAttemptRepo.On("Create", mock.AnythingOfType("*entity.Attempt")).Return(nil)

	svc := newTestAttemptService(mockAttemptRepo, mockQuizRepo)

	// Act
	attempt, err := svc.SubmitAttempt(2, 5, []entity.Answer{})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, attempt.TotalQuestions)
	assert.Equal(t, 0, attempt.Percentage)
}

func TestAttemptService_SubmitAttempt_QuizNotFound(t *testing.T) {
	// Arrange
	mockQuizRepo := new(MockQuizRepository)
	mockQuizRepo.On("GetWithQuestions", uint(99)).Return(nil, apperrors.ErrNotFound)

	svc := newTestAttemptService(new(MockAttemptRepository), mockQuizRepo)

	// Act
	attempt, err := svc.SubmitAttempt(99, 5, []entity.Answer{})

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Nil(t, attempt)
}

// ============================================================================
// GetAttempt: доступ
// ============================================================================

func TestAttemptService_GetAttempt_Access(t *testing.T) {
	attempt := &entity.Attempt{
		ID:        1,
		QuizID:    1,
		Quiz:      entity.Quiz{ID: 1, CreatedBy: 7},
		StudentID: 5,
	}

	tests := []struct {
		name      string
		requester uint
		wantErr   bool
	}{
		{"автор попытки видит её", 5, false},
		{"владелец квиза видит попытку", 7, false},
		{"посторонний не видит попытку", 3, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			mockAttemptRepo := new(MockAttemptRepository)
			mockAttemptRepo.On("GetByID", uint(1)).Return(attempt, nil)

			svc := newTestAttemptService(mockAttemptRepo, new(MockQuizRepository))

			// Act
			got, err := svc.GetAttempt(1, tt.requester)

			// Assert
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrForbidden)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, attempt.ID, got.ID)
		})
	}
}

// ============================================================================
// GetQuizResults
// ============================================================================

func TestAttemptService_GetQuizResults_NotOwner(t *testing.T) {
	// Arrange
	mockQuizRepo := new(MockQuizRepository)
	mockQuizRepo.On("GetWithQuestions", uint(1)).Return(fourQuestionQuiz(), nil)

	svc := newTestAttemptService(new(MockAttemptRepository), mockQuizRepo)

	// Act: квиз принадлежит пользователю 1, запрашивает 2
	results, err := svc.GetQuizResults(1, 2)

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	assert.Nil(t, results)
}

func TestAttemptService_GetQuizResults_OwnerGetsStatsAndRows(t *testing.T) {
	// Arrange
	attempts := []entity.Attempt{
		{ID: 1, QuizID: 1, StudentID: 5, Student: entity.User{ID: 5, Name: "Анна", Email: "anna@example.com"}, Score: 4, TotalQuestions: 4, Percentage: 100},
		{ID: 2, QuizID: 1, StudentID: 6, Student: entity.User{ID: 6, Name: "Борис", Email: "boris@example.com"}, Score: 2, TotalQuestions: 4, Percentage: 50},
	}

	mockAttemptRepo := new(MockAttemptRepository)
	mockQuizRepo := new(MockQuizRepository)
	mockQuizRepo.On("GetWithQuestions", uint(1)).Return(fourQuestionQuiz(), nil)
	mockAttemptRepo.On("ListByQuiz", uint(1)).Return(attempts, nil)

	svc := newTestAttemptService(mockAttemptRepo, mockQuizRepo)

	// Act
	results, err := svc.GetQuizResults(1, 1)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, results.Stats.TotalAttempts)
	assert.Equal(t, 75.0, results.Stats.AverageScore)
	assert.Equal(t, 100, results.Stats.HighestScore)
	assert.Equal(t, 50, results.Stats.LowestScore)
	require.Len(t, results.Rows, 2)
	assert.Equal(t, "Анна", results.Rows[0].StudentName)
}
