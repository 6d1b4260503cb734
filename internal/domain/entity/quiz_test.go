package entity

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuiz_IsOwnedBy(t *testing.T) {
	// Arrange
	quiz := &Quiz{ID: 1, Title: "География", CreatedBy: 42}

	// Act & Assert
	assert.True(t, quiz.IsOwnedBy(42), "Создатель — владелец квиза")
	assert.False(t, quiz.IsOwnedBy(7), "Другой пользователь не владелец")
}

func TestQuiz_CheckPin_Private(t *testing.T) {
	// Arrange: приватный квиз с PIN
	pin := "1234"
	quiz := &Quiz{ID: 1, IsPublic: false, AccessPin: &pin}

	// Act & Assert: точное сравнение строк, без нормализации
	assert.True(t, quiz.CheckPin("1234"), "Правильный PIN должен подходить")
	assert.False(t, quiz.CheckPin("0000"), "Неправильный PIN не должен подходить")
	assert.False(t, quiz.CheckPin(" 1234"), "PIN с пробелом не нормализуется и не подходит")
	assert.False(t, quiz.CheckPin(""), "Пустой PIN никогда не подходит")
}

func TestQuiz_CheckPin_Public(t *testing.T) {
	// Arrange: публичный квиз без PIN
	quiz := &Quiz{ID: 1, IsPublic: true, AccessPin: nil}

	// Act & Assert
	assert.False(t, quiz.CheckPin("1234"), "У публичного квиза PIN не хранится")
}

func TestQuiz_BeforeCreate_GeneratesShareCode(t *testing.T) {
	// Arrange
	quiz := &Quiz{Title: "Новый квиз"}

	// Act
	err := quiz.BeforeCreate(nil)

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, quiz.ShareCode, "Share-код должен быть сгенерирован")

	// Повторный вызов не перетирает код
	code := quiz.ShareCode
	require.NoError(t, quiz.BeforeCreate(nil))
	assert.Equal(t, code, quiz.ShareCode, "Существующий share-код не должен меняться")
}

// Схема управляется миграциями; gorm-теги должны совпадать с колонками
// из migrations/000001_init_schema.up.sql.
func TestQuiz_GormTagsMatchSchema(t *testing.T) {
	quizType := reflect.TypeOf(Quiz{})

	expected := map[string]string{
		"ShareCode":   "size:36;not null;uniqueIndex",
		"Title":       "size:255;not null",
		"Description": "type:text;not null;default:''",
		"AccessPin":   "size:100",
	}

	for field, tag := range expected {
		f, ok := quizType.FieldByName(field)
		require.True(t, ok, "Поле %s должно существовать", field)
		assert.Equal(t, tag, f.Tag.Get("gorm"), "Тег gorm поля %s должен соответствовать схеме", field)
	}
}
