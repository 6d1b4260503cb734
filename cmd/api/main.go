package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/yourusername/quizhub-api/internal/config"
	"github.com/yourusername/quizhub-api/internal/handler"
	"github.com/yourusername/quizhub-api/internal/middleware"
	pgRepo "github.com/yourusername/quizhub-api/internal/repository/postgres"
	redisRepo "github.com/yourusername/quizhub-api/internal/repository/redis"
	"github.com/yourusername/quizhub-api/internal/service"
	"github.com/yourusername/quizhub-api/pkg/auth"
	"github.com/yourusername/quizhub-api/pkg/database"
)

func main() {
	// Загружаем конфигурацию
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}
	log.Printf("Загрузка конфигурации из %s", configPath)

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Printf("Failed to load config: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к PostgreSQL
	db, err := database.NewPostgresDB(cfg.Database.PostgresConnectionString())
	if err != nil {
		log.Printf("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	// Применяем миграции
	if err := database.MigrateDB(db); err != nil {
		log.Printf("Failed to migrate database: %v", err)
		os.Exit(1)
	}

	// Инициализируем подключение к Redis
	redisClient, err := database.NewUniversalRedisClient(cfg.Redis)
	if err != nil {
		log.Printf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	log.Println("Successfully connected to Redis")

	// Инициализируем репозитории
	userRepo := pgRepo.NewUserRepo(db)
	quizRepo := pgRepo.NewQuizRepo(db)
	attemptRepo := pgRepo.NewAttemptRepo(db)

	cacheRepo, err := redisRepo.NewCacheRepo(redisClient)
	if err != nil {
		log.Printf("Failed to initialize CacheRepo: %v", err)
		os.Exit(1)
	}

	// Инициализируем JWT сервис
	jwtService, err := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpirationHrs)
	if err != nil {
		log.Printf("Failed to initialize JWTService: %v", err)
		os.Exit(1)
	}

	// Инициализируем сервисы
	authService, err := service.NewAuthService(userRepo, jwtService)
	if err != nil {
		log.Printf("Failed to initialize AuthService: %v", err)
		os.Exit(1)
	}

	quizConfig := &service.QuizConfig{
		TrendingWindow:   time.Duration(cfg.Quiz.TrendingWindowDays) * 24 * time.Hour,
		TrendingLimit:    cfg.Quiz.TrendingLimit,
		TrendingCacheTTL: time.Duration(cfg.Quiz.TrendingCacheTTLSec) * time.Second,
	}
	quizService := service.NewQuizService(quizRepo, cacheRepo, quizConfig)
	attemptService := service.NewAttemptService(attemptRepo, quizRepo, quizService)
	userService := service.NewUserService(userRepo, quizRepo, attemptRepo)

	// Инициализируем обработчики
	authHandler := handler.NewAuthHandler(authService, jwtService)
	quizHandler := handler.NewQuizHandler(quizService, attemptService)
	attemptHandler := handler.NewAttemptHandler(attemptService)
	userHandler := handler.NewUserHandler(userService)

	// Инициализируем middleware
	authMiddleware := middleware.NewAuthMiddleware(jwtService)
	rateLimiter := middleware.NewRateLimiter(redisClient)

	router := gin.Default()

	// Настройка доверенных прокси для корректной работы c.ClientIP()
	isProduction := gin.Mode() == gin.ReleaseMode
	if isProduction {
		// Production: не доверять прокси-заголовкам
		if err := router.SetTrustedProxies(nil); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	} else {
		if err := router.SetTrustedProxies([]string{"127.0.0.1", "::1"}); err != nil {
			log.Printf("Warning: failed to set trusted proxies: %v", err)
		}
	}

	// Настройка CORS
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Настраиваем маршруты API
	api := router.Group("/api")
	{
		// Аутентификация
		authGroup := api.Group("/auth")
		authGroup.Use(rateLimiter.Limit(middleware.AuthRateLimitConfig()))
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/logout", authHandler.Logout)
		}

		// Пользователи
		users := api.Group("/users")
		users.Use(authMiddleware.RequireAuth())
		{
			users.GET("/me", userHandler.GetMe)
			users.PUT("/me", userHandler.UpdateMe)
			users.GET("/dashboard", userHandler.GetDashboard)
		}

		// Квизы
		quizzes := api.Group("/quizzes")
		{
			quizzes.GET("", quizHandler.ListQuizzes)
			quizzes.GET("/trending", quizHandler.TrendingQuizzes)
			quizzes.GET("/my", authMiddleware.RequireAuth(), quizHandler.ListMyQuizzes)
			quizzes.GET("/code/:code", authMiddleware.OptionalAuth(), quizHandler.GetQuizByCode)
			quizzes.POST("", authMiddleware.RequireAuth(), quizHandler.CreateQuiz)

			// Группа маршрутов, требующих quizID
			quizWithID := quizzes.Group("/:id")
			quizWithID.Use(middleware.ExtractUintParam("id", "quizID"))
			{
				quizWithID.GET("", authMiddleware.OptionalAuth(), quizHandler.GetQuiz)
				quizWithID.POST("/unlock", authMiddleware.OptionalAuth(), quizHandler.UnlockQuiz)

				authedQuiz := quizWithID.Group("")
				authedQuiz.Use(authMiddleware.RequireAuth())
				{
					authedQuiz.PUT("", quizHandler.UpdateQuiz)
					authedQuiz.DELETE("", quizHandler.DeleteQuiz)
					authedQuiz.GET("/results", quizHandler.GetQuizResults)
					authedQuiz.GET("/results/export", quizHandler.ExportQuizResults)
				}
			}
		}

		// Попытки
		attempts := api.Group("/attempts")
		attempts.Use(authMiddleware.RequireAuth())
		{
			attempts.POST("", rateLimiter.Limit(middleware.SubmitRateLimitConfig()), attemptHandler.SubmitAttempt)
			attempts.GET("/my", attemptHandler.ListMyAttempts)
			attempts.GET("/:id", middleware.ExtractUintParam("id", "attemptID"), attemptHandler.GetAttempt)
		}
	}

	// Настраиваем HTTP сервер с тайм-аутами для защиты от slow client attacks
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Запускаем сервер в горутине
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Failed to start server: %v", err)
		}
	}()

	// Ждём SIGINT или SIGTERM для graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
		os.Exit(1)
	}

	if err := redisClient.Close(); err != nil {
		log.Printf("Error closing Redis client: %v", err)
	}

	log.Println("Server exited properly")
}
