package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuestion_CorrectOption_Found(t *testing.T) {
	// Arrange
	question := &Question{
		ID:     1,
		QuizID: 1,
		Text:   "Столица Франции?",
		Options: OptionList{
			{Text: "London", Correct: false},
			{Text: "Paris", Correct: true},
			{Text: "Berlin", Correct: false},
		},
	}

	// Act
	opt, ok := question.CorrectOption()

	// Assert
	require.True(t, ok, "Ключ ответа должен быть найден")
	assert.Equal(t, "Paris", opt.Text, "Правильный вариант — Paris")
}

func TestQuestion_CorrectOption_Missing(t *testing.T) {
	// Arrange: вопрос без ключа ответа (невалидный)
	question := &Question{
		Options: OptionList{
			{Text: "A", Correct: false},
			{Text: "B", Correct: false},
		},
	}

	// Act
	_, ok := question.CorrectOption()

	// Assert
	assert.False(t, ok, "Без помеченного варианта ключ ответа не находится")
}

func TestQuestion_CorrectCount(t *testing.T) {
	// Arrange & Act & Assert
	q := &Question{Options: OptionList{{Text: "A", Correct: true}, {Text: "B", Correct: false}}}
	assert.Equal(t, 1, q.CorrectCount())

	q = &Question{Options: OptionList{{Text: "A", Correct: true}, {Text: "B", Correct: true}}}
	assert.Equal(t, 2, q.CorrectCount(), "Оба помеченных варианта должны быть посчитаны")

	q = &Question{Options: OptionList{{Text: "A"}, {Text: "B"}}}
	assert.Equal(t, 0, q.CorrectCount())
}

func TestOptionList_Scan_Null(t *testing.T) {
	// Arrange
	var options OptionList

	// Act: NULL из базы данных
	err := options.Scan(nil)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, options, "NULL должен давать пустой список")
}

func TestOptionList_Scan_JSONB(t *testing.T) {
	// Arrange
	var options OptionList
	raw := []byte(`[{"text":"Paris","correct":true},{"text":"London","correct":false}]`)

	// Act
	err := options.Scan(raw)

	// Assert
	require.NoError(t, err)
	require.Len(t, options, 2)
	assert.Equal(t, "Paris", options[0].Text)
	assert.True(t, options[0].Correct)
}
