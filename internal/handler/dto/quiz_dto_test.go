package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/quizhub-api/internal/domain/entity"
)

func sampleQuiz() *entity.Quiz {
	return &entity.Quiz{
		ID:        1,
		ShareCode: "abc-123",
		Title:     "География",
		IsPublic:  true,
		Questions: []entity.Question{
			{
				ID:   10,
				Text: "Столица Франции?",
				Options: entity.OptionList{
					{Text: "Париж", Correct: true},
					{Text: "Лион", Correct: false},
				},
			},
			{
				ID:   11,
				Text: "Столица Италии?",
				Options: entity.OptionList{
					{Text: "Рим", Correct: true},
					{Text: "Милан", Correct: false},
				},
			},
		},
	}
}

func TestNewQuestionResponse_HidesCorrectFlags(t *testing.T) {
	// Arrange
	quiz := sampleQuiz()

	// Act: ключ ответов не запрошен
	resp := NewQuestionResponse(&quiz.Questions[0], false)

	// Assert: флаг Correct отсутствует у каждого варианта
	require.Len(t, resp.Options, 2)
	for _, opt := range resp.Options {
		assert.Nil(t, opt.Correct, "Флаг правильности не должен попадать в ответ без ключа")
	}

	// И не просачивается в JSON через omitempty
	raw, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "correct", "JSON не должен содержать поле correct")
}

func TestNewQuestionResponse_RevealsCorrectFlags(t *testing.T) {
	// Arrange
	quiz := sampleQuiz()

	// Act: ключ ответов раскрыт
	resp := NewQuestionResponse(&quiz.Questions[0], true)

	// Assert
	require.Len(t, resp.Options, 2)
	require.NotNil(t, resp.Options[0].Correct)
	require.NotNil(t, resp.Options[1].Correct)
	assert.True(t, *resp.Options[0].Correct, "Правильный вариант должен быть отмечен")
	assert.False(t, *resp.Options[1].Correct)
}

func TestNewQuizResponse_RedactsAllQuestions(t *testing.T) {
	// Arrange
	quiz := sampleQuiz()

	// Act
	resp := NewQuizResponse(quiz, true, false)

	// Assert: редактирование применяется ко всем вопросам квиза
	require.Len(t, resp.Questions, 2)
	for _, q := range resp.Questions {
		for _, opt := range q.Options {
			assert.Nil(t, opt.Correct, "Ни один вариант не должен раскрывать правильность")
		}
	}
}
