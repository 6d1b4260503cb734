package handler

import (
	"encoding/csv"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"github.com/yourusername/quizhub-api/internal/domain/entity"
	"github.com/yourusername/quizhub-api/internal/domain/repository"
	"github.com/yourusername/quizhub-api/internal/handler/dto"
	apperrors "github.com/yourusername/quizhub-api/internal/pkg/errors"
	"github.com/yourusername/quizhub-api/internal/service"
)

// QuizHandler обрабатывает запросы, связанные с квизами
type QuizHandler struct {
	quizService    *service.QuizService
	attemptService *service.AttemptService
}

// NewQuizHandler создает новый обработчик квизов
func NewQuizHandler(quizService *service.QuizService, attemptService *service.AttemptService) *QuizHandler {
	return &QuizHandler{
		quizService:    quizService,
		attemptService: attemptService,
	}
}

// OptionPayload — вариант ответа в запросе клиента
type OptionPayload struct {
	Text    string `json:"text"`
	Correct bool   `json:"correct"`
}

// QuestionPayload — вопрос в запросе клиента
type QuestionPayload struct {
	Text    string          `json:"text"`
	Options []OptionPayload `json:"options"`
}

// CreateQuizRequest представляет запрос на создание квиза.
// Смысловую валидацию (порядок проверок) выполняет сервис.
type CreateQuizRequest struct {
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Questions   []QuestionPayload `json:"questions"`
	IsPublic    *bool             `json:"is_public"`
	AccessPin   string            `json:"access_pin"`
}

// UpdateQuizRequest представляет частичное обновление квиза
type UpdateQuizRequest struct {
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Questions   []QuestionPayload `json:"questions"`
	IsPublic    *bool             `json:"is_public"`
	AccessPin   *string           `json:"access_pin"`
}

// UnlockQuizRequest представляет запрос на открытие приватного квиза по PIN
type UnlockQuizRequest struct {
	AccessPin string `json:"access_pin"`
}

// CreateQuiz обрабатывает запрос на создание квиза
// POST /api/quizzes
func (h *QuizHandler) CreateQuiz(c *gin.Context) {
	var req CreateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "error_type": "validation_error"})
		return
	}

	userID := c.MustGet("user_id").(uint)

	quiz, err := h.quizService.CreateQuiz(service.CreateQuizInput{
		Title:       req.Title,
		Description: req.Description,
		Questions:   toQuestionDrafts(req.Questions),
		IsPublic:    req.IsPublic,
		AccessPin:   req.AccessPin,
	}, userID)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	log.Printf("[QuizHandler] Квиз ID=%d создан пользователем ID=%d", quiz.ID, userID)

	// Владелец только что прислал вопросы, возвращаем их с ключом ответов
	c.JSON(http.StatusCreated, dto.NewQuizResponse(quiz, true, true))
}

// GetQuiz возвращает квиз по ID с учетом того, кто смотрит
// GET /api/quizzes/:id?include_answers=true
func (h *QuizHandler) GetQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)
	reveal := c.Query("include_answers") == "true"

	view, err := h.quizService.GetQuizForViewer(quizID, viewerFromContext(c), reveal)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuizResponse(view.Quiz, true, view.WithAnswers))
}

// GetQuizByCode возвращает квиз по share-коду
// GET /api/quizzes/code/:code
func (h *QuizHandler) GetQuizByCode(c *gin.Context) {
	code := c.Param("code")
	reveal := c.Query("include_answers") == "true"

	view, err := h.quizService.GetQuizByShareCode(code, viewerFromContext(c), reveal)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuizResponse(view.Quiz, true, view.WithAnswers))
}

// UnlockQuiz открывает приватный квиз по PIN; ключ ответов не раскрывается
// POST /api/quizzes/:id/unlock
func (h *QuizHandler) UnlockQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)

	var req UnlockQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "error_type": "validation_error"})
		return
	}

	view, err := h.quizService.UnlockQuiz(quizID, req.AccessPin)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuizResponse(view.Quiz, true, false))
}

// UpdateQuiz обрабатывает частичное обновление квиза владельцем
// PUT /api/quizzes/:id
func (h *QuizHandler) UpdateQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)
	userID := c.MustGet("user_id").(uint)

	var req UpdateQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "error_type": "validation_error"})
		return
	}

	input := service.UpdateQuizInput{
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    req.IsPublic,
		AccessPin:   req.AccessPin,
	}
	if req.Questions != nil {
		input.Questions = toQuestionDrafts(req.Questions)
	}

	quiz, err := h.quizService.UpdateQuiz(quizID, input, userID)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuizResponse(quiz, true, true))
}

// DeleteQuiz удаляет квиз владельца вместе с вопросами
// DELETE /api/quizzes/:id
func (h *QuizHandler) DeleteQuiz(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)
	userID := c.MustGet("user_id").(uint)

	if err := h.quizService.DeleteQuiz(quizID, userID); err != nil {
		h.handleQuizError(c, err)
		return
	}

	log.Printf("[QuizHandler] Квиз ID=%d удален пользователем ID=%d", quizID, userID)
	c.JSON(http.StatusOK, gin.H{"message": "Quiz deleted"})
}

// ListQuizzes возвращает публичные квизы с поиском и пагинацией
// GET /api/quizzes?search=...&created_by=...&page=1&per_page=20
func (h *QuizHandler) ListQuizzes(c *gin.Context) {
	page, perPage := paginationParams(c)

	filters := repository.QuizFilters{Search: c.Query("search")}
	if createdBy, err := strconv.ParseUint(c.Query("created_by"), 10, 32); err == nil {
		filters.CreatedBy = uint(createdBy)
	}

	quizzes, total, err := h.quizService.ListPublicQuizzes(filters, page, perPage)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPaginatedQuizResponse(quizzes, total, page, perPage))
}

// ListMyQuizzes возвращает квизы текущего пользователя
// GET /api/quizzes/my
func (h *QuizHandler) ListMyQuizzes(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	page, perPage := paginationParams(c)

	quizzes, err := h.quizService.ListMyQuizzes(userID, page, perPage)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"quizzes": dto.NewListQuizResponse(quizzes)})
}

// TrendingQuizzes возвращает популярные публичные квизы
// GET /api/quizzes/trending?limit=6
func (h *QuizHandler) TrendingQuizzes(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	trending, err := h.quizService.TrendingQuizzes(limit)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	list := make([]*dto.TrendingQuizResponse, len(trending))
	for i := range trending {
		list[i] = dto.NewTrendingQuizResponse(&trending[i].Quiz, trending[i].AttemptCount, trending[i].TrendingScore)
	}

	c.JSON(http.StatusOK, gin.H{"quizzes": list})
}

// GetQuizResults возвращает владельцу статистику и попытки по квизу
// GET /api/quizzes/:id/results
func (h *QuizHandler) GetQuizResults(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)
	userID := c.MustGet("user_id").(uint)

	results, err := h.attemptService.GetQuizResults(quizID, userID)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuizResultsResponse(results))
}

// ExportQuizResults экспортирует результаты квиза в CSV или Excel формате
// GET /api/quizzes/:id/results/export?format=csv|xlsx
func (h *QuizHandler) ExportQuizResults(c *gin.Context) {
	quizID := c.MustGet("quizID").(uint)
	userID := c.MustGet("user_id").(uint)
	format := c.DefaultQuery("format", "csv")

	results, err := h.attemptService.GetQuizResults(quizID, userID)
	if err != nil {
		h.handleQuizError(c, err)
		return
	}

	filename := fmt.Sprintf("quiz_%d_results_%s", quizID, time.Now().Format("2006-01-02"))

	switch format {
	case "xlsx":
		h.exportXLSX(c, results, filename)
	default:
		h.exportCSV(c, results, filename)
	}
}

// exportCSV экспортирует результаты в CSV с правильным экранированием спецсимволов
func (h *QuizHandler) exportCSV(c *gin.Context, results *service.QuizResults, filename string) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.csv\"", filename))

	// BOM для корректного отображения UTF-8 в Excel
	c.Writer.Write([]byte{0xEF, 0xBB, 0xBF})

	writer := csv.NewWriter(c.Writer)
	defer writer.Flush()

	writer.Write([]string{"Студент", "Email", "Очки", "Всего вопросов", "Процент", "Дата попытки"})

	for _, r := range results.Rows {
		writer.Write([]string{
			sanitizeForExcel(r.StudentName),
			sanitizeForExcel(r.StudentEmail),
			strconv.Itoa(r.Score),
			strconv.Itoa(r.TotalQuestions),
			strconv.Itoa(r.Percentage) + "%",
			r.AttemptedAt,
		})
	}
}

// exportXLSX экспортирует результаты в Excel с использованием StreamWriter
func (h *QuizHandler) exportXLSX(c *gin.Context, results *service.QuizResults, filename string) {
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Результаты"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[QuizHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	headers := []interface{}{"Студент", "Email", "Очки", "Всего вопросов", "Процент", "Дата попытки"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[QuizHandler] Ошибка записи заголовков: %v", err)
	}

	for i, r := range results.Rows {
		cell := fmt.Sprintf("A%d", i+2)
		row := []interface{}{
			sanitizeForExcel(r.StudentName),
			sanitizeForExcel(r.StudentEmail),
			r.Score,
			r.TotalQuestions,
			r.Percentage,
			r.AttemptedAt,
		}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[QuizHandler] Ошибка записи строки %d: %v", i+2, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[QuizHandler] Ошибка при Flush: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[QuizHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}

func (h *QuizHandler) handleQuizError(c *gin.Context, err error) {
	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Quiz not found", "error_type": "not_found"})
	} else if errors.Is(err, apperrors.ErrForbidden) {
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "error_type": "forbidden"})
	} else if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
	} else {
		log.Printf("[QuizHandler] Internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error", "error_type": "internal_server_error"})
	}
}

// toQuestionDrafts переводит payload вопросов в черновики для сервиса
func toQuestionDrafts(payload []QuestionPayload) []service.QuestionDraft {
	drafts := make([]service.QuestionDraft, len(payload))
	for i, q := range payload {
		options := make([]entity.Option, len(q.Options))
		for j, opt := range q.Options {
			options[j] = entity.Option{Text: opt.Text, Correct: opt.Correct}
		}
		drafts[i] = service.QuestionDraft{Text: q.Text, Options: options}
	}
	return drafts
}

// viewerFromContext возвращает ID аутентифицированного пользователя или nil
func viewerFromContext(c *gin.Context) *uint {
	if v, exists := c.Get("user_id"); exists {
		if id, ok := v.(uint); ok {
			return &id
		}
	}
	return nil
}

// paginationParams извлекает page/per_page с разумными пределами
func paginationParams(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if err != nil || perPage < 1 || perPage > 100 {
		perPage = 20
	}
	return page, perPage
}
