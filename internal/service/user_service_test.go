package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/quizhub-api/internal/domain/entity"
	apperrors "github.com/yourusername/quizhub-api/internal/pkg/errors"
)

func TestUpdateProfile_NothingToUpdate(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	userService := NewUserService(mockUserRepo, new(MockQuizRepository), new(MockAttemptRepository))

	// Act: оба поля пустые (пробелы не считаются значением)
	_, err := userService.UpdateProfile(1, "   ", "")

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrValidation, "Пустое обновление должно быть ошибкой валидации")
	mockUserRepo.AssertNotCalled(t, "UpdateProfile")
}

func TestUpdateProfile_NormalizesEmail(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	userService := NewUserService(mockUserRepo, new(MockQuizRepository), new(MockAttemptRepository))

	mockUserRepo.On("UpdateProfile", uint(1), mock.MatchedBy(func(updates map[string]interface{}) bool {
		return updates["email"] == "bob@example.com" && updates["name"] == "Bob"
	})).Return(nil)
	mockUserRepo.On("GetByID", uint(1)).Return(&entity.User{ID: 1, Name: "Bob", Email: "bob@example.com"}, nil)

	// Act
	user, err := userService.UpdateProfile(1, "  Bob  ", " BOB@Example.com ")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", user.Email, "Email должен быть нормализован")
	mockUserRepo.AssertExpectations(t)
}

func TestGetDashboard_AveragesAttemptPercentages(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	mockQuizRepo := new(MockQuizRepository)
	mockAttemptRepo := new(MockAttemptRepository)
	userService := NewUserService(mockUserRepo, mockQuizRepo, mockAttemptRepo)

	attempts := []entity.Attempt{
		{ID: 1, Percentage: 50},
		{ID: 2, Percentage: 67},
		{ID: 3, Percentage: 100},
	}
	mockQuizRepo.On("CountByOwner", uint(7)).Return(int64(2), nil)
	mockAttemptRepo.On("ListByStudent", uint(7)).Return(attempts, nil)
	mockQuizRepo.On("ListByOwner", uint(7), 5, 0).Return([]entity.Quiz{{ID: 11}, {ID: 12}}, nil)

	// Act
	dashboard, err := userService.GetDashboard(7)

	// Assert: (50+67+100)/3 = 72.33 -> 72
	require.NoError(t, err)
	assert.Equal(t, 72, dashboard.AverageScore, "Средний результат округляется до целого")
	assert.Equal(t, int64(2), dashboard.TotalQuizzes)
	assert.Equal(t, int64(3), dashboard.TotalAttempts)
	assert.Len(t, dashboard.RecentAttempts, 3)
	assert.Len(t, dashboard.RecentQuizzes, 2)
}

func TestGetDashboard_NoAttempts(t *testing.T) {
	// Arrange
	mockUserRepo := new(MockUserRepository)
	mockQuizRepo := new(MockQuizRepository)
	mockAttemptRepo := new(MockAttemptRepository)
	userService := NewUserService(mockUserRepo, mockQuizRepo, mockAttemptRepo)

	mockQuizRepo.On("CountByOwner", uint(7)).Return(int64(0), nil)
	mockAttemptRepo.On("ListByStudent", uint(7)).Return([]entity.Attempt{}, nil)
	mockQuizRepo.On("ListByOwner", uint(7), 5, 0).Return([]entity.Quiz{}, nil)

	// Act
	dashboard, err := userService.GetDashboard(7)

	// Assert: без попыток средний результат 0, не NaN
	require.NoError(t, err)
	assert.Equal(t, 0, dashboard.AverageScore)
	assert.Equal(t, int64(0), dashboard.TotalAttempts)
}
