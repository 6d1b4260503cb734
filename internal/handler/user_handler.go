package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/quizhub-api/internal/handler/dto"
	apperrors "github.com/yourusername/quizhub-api/internal/pkg/errors"
	"github.com/yourusername/quizhub-api/internal/service"
)

// UserHandler обрабатывает запросы профиля и личного кабинета
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler создает новый обработчик пользователей
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateProfileRequest представляет запрос на обновление профиля
type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"omitempty,min=2,max=100"`
	Email string `json:"email" binding:"omitempty,email"`
}

// GetMe возвращает профиль текущего пользователя со счётчиками
// GET /api/users/me
func (h *UserHandler) GetMe(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	user, stats, err := h.userService.GetProfile(userID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ProfileResponse{
		User:           dto.NewUserResponse(user),
		QuizzesCreated: stats.QuizzesCreated,
		QuizzesTaken:   stats.QuizzesTaken,
	})
}

// UpdateMe обновляет имя и/или email текущего пользователя
// PUT /api/users/me
func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
		return
	}

	user, err := h.userService.UpdateProfile(userID, req.Name, req.Email)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": dto.NewUserResponse(user)})
}

// GetDashboard возвращает сводку личного кабинета
// GET /api/users/dashboard
func (h *UserHandler) GetDashboard(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	dashboard, err := h.userService.GetDashboard(userID)
	if err != nil {
		h.handleUserError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.DashboardResponse{
		TotalQuizzes:   dashboard.TotalQuizzes,
		TotalAttempts:  dashboard.TotalAttempts,
		AverageScore:   dashboard.AverageScore,
		RecentQuizzes:  dto.NewListQuizResponse(dashboard.RecentQuizzes),
		RecentAttempts: dto.NewListAttemptResponse(dashboard.RecentAttempts),
	})
}

func (h *UserHandler) handleUserError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "error_type": "not_found"})
	} else if errors.Is(err, apperrors.ErrConflict) {
		c.JSON(http.StatusConflict, gin.H{"error": "Email is already registered", "error_type": "conflict"})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
	} else {
		log.Printf("[UserHandler] Internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "error_type": "internal_server_error"})
	}
}
