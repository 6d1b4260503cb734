package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// BeforeSave не использует tx напрямую, но сигнатура хука требует его
var mockTx *gorm.DB = nil

func TestUser_BeforeSave_HashesPassword(t *testing.T) {
	// Arrange: пользователь с открытым паролем
	plainPassword := "mySecretPassword123"
	user := &User{
		Name:     "alice",
		Email:    "alice@example.com",
		Password: plainPassword,
	}

	// Act
	err := user.BeforeSave(mockTx)

	// Assert: пароль должен быть заменён bcrypt-хешем
	require.NoError(t, err, "BeforeSave не должен возвращать ошибку")
	assert.NotEqual(t, plainPassword, user.Password, "Пароль должен быть изменён после хеширования")
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(plainPassword)),
		"Хеш должен соответствовать исходному паролю")
}

func TestUser_BeforeSave_SkipsAlreadyHashedPassword(t *testing.T) {
	// Arrange: пароль уже хеширован
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("alreadyHashed"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &User{Email: "alice@example.com", Password: string(hashedPassword)}

	// Act
	err = user.BeforeSave(mockTx)

	// Assert: нет двойного хеширования
	require.NoError(t, err)
	assert.Equal(t, string(hashedPassword), user.Password, "Уже хешированный пароль не должен изменяться")
}

func TestUser_CheckPassword(t *testing.T) {
	// Arrange
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte("correctPassword123"), bcrypt.DefaultCost)
	require.NoError(t, err)

	user := &User{Email: "alice@example.com", Password: string(hashedPassword)}

	// Act & Assert
	assert.True(t, user.CheckPassword("correctPassword123"), "Правильный пароль должен совпадать")
	assert.False(t, user.CheckPassword("wrongPassword456"), "Неправильный пароль не должен совпадать")
	assert.False(t, user.CheckPassword(""), "Пустой пароль не должен совпадать")
}
