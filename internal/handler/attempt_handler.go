package handler

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/quizhub-api/internal/domain/entity"
	"github.com/yourusername/quizhub-api/internal/handler/dto"
	apperrors "github.com/yourusername/quizhub-api/internal/pkg/errors"
	"github.com/yourusername/quizhub-api/internal/service"
)

// AttemptHandler обрабатывает запросы, связанные с прохождением квизов
type AttemptHandler struct {
	attemptService *service.AttemptService
}

// NewAttemptHandler создает новый обработчик попыток
func NewAttemptHandler(attemptService *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{attemptService: attemptService}
}

// AnswerPayload — один ответ студента в запросе
type AnswerPayload struct {
	QuestionID     uint   `json:"question_id"`
	SelectedOption string `json:"selected_option"`
}

// SubmitAttemptRequest представляет отправку ответов на квиз
type SubmitAttemptRequest struct {
	QuizID  uint            `json:"quiz_id" binding:"required"`
	Answers []AnswerPayload `json:"answers"`
}

// SubmitAttempt принимает ответы и возвращает посчитанный результат
// POST /api/attempts
func (h *AttemptHandler) SubmitAttempt(c *gin.Context) {
	var req SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "error_type": "validation_error"})
		return
	}

	userID := c.MustGet("user_id").(uint)

	var answers []entity.Answer
	if req.Answers != nil {
		answers = make([]entity.Answer, len(req.Answers))
		for i, a := range req.Answers {
			answers[i] = entity.Answer{QuestionID: a.QuestionID, SelectedOption: a.SelectedOption}
		}
	}

	attempt, err := h.attemptService.SubmitAttempt(req.QuizID, userID, answers)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	log.Printf("[AttemptHandler] Попытка ID=%d: квиз ID=%d, пользователь ID=%d, результат %d/%d",
		attempt.ID, attempt.QuizID, userID, attempt.Score, attempt.TotalQuestions)

	c.JSON(http.StatusCreated, dto.NewAttemptResponse(attempt))
}

// ListMyAttempts возвращает попытки текущего пользователя
// GET /api/attempts/my
func (h *AttemptHandler) ListMyAttempts(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	attempts, err := h.attemptService.ListMyAttempts(userID)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"attempts": dto.NewListAttemptResponse(attempts)})
}

// GetAttempt возвращает попытку её автору или владельцу квиза
// GET /api/attempts/:id
func (h *AttemptHandler) GetAttempt(c *gin.Context) {
	attemptID := c.MustGet("attemptID").(uint)
	userID := c.MustGet("user_id").(uint)

	attempt, err := h.attemptService.GetAttempt(attemptID, userID)
	if err != nil {
		h.handleAttemptError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewAttemptResponse(attempt))
}

func (h *AttemptHandler) handleAttemptError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found", "error_type": "not_found"})
	} else if errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "error_type": "forbidden"})
	} else if errors.Is(err, apperrors.ErrInvalidSubmission) || errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
	} else {
		log.Printf("[AttemptHandler] Internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "error_type": "internal_server_error"})
	}
}
