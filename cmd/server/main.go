package main

import (
	"fmt"
	"net/http"
	"os"

	"draw-size-go/internal/config"
	"draw-size-go/internal/database"
	"draw-size-go/internal/handler"
	"draw-size-go/internal/repository"
	"draw-size-go/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

func main() {
	// Получаем конфигурацию из переменных окружения
	cfg := config.LoadConfig()

	// Инициализируем логгер
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if level, err := logrus.ParseLevel(cfg.Logging.Level); err == nil {
		logger.SetLevel(level)
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	logger.Info("Запуск Draw Size API Server")

	// Инициализируем базу данных
	logger.Info("Подключение к базе данных...")
	if err := database.Connect(); err != nil {
		logger.Fatalf("Ошибка подключения к базе данных: %v", err)
	}

	// Выполняем миграции
	logger.Info("Выполнение миграций базы данных...")
	if err := database.Migrate(); err != nil {
		logger.Fatalf("Ошибка выполнения миграций: %v", err)
	}

	// Проверяем здоровье базы данных
	if err := database.HealthCheck(); err != nil {
		logger.Fatalf("База данных недоступна: %v", err)
	}

	logger.Info("База данных успешно подключена и готова к работе")

	// Создаем папку для хранения снимков
	if err := os.MkdirAll(cfg.Storage.Dir, 0755); err != nil {
		logger.Fatalf("Ошибка создания папки для хранения снимков: %v", err)
	}

	// Инициализируем репозитории
	userRepo := repository.NewUserRepository(database.DB)
	projectRepo := repository.NewProjectRepository(database.DB)
	imageRepo := repository.NewImageRepository(database.DB)
	auditRepo := repository.NewAuditRepository(database.DB)

	// Инициализируем сервисы
	auditService := service.NewAuditService(auditRepo, logger)
	authService := service.NewAuthService(userRepo, auditService, logger, cfg.Auth.JWTSecret, cfg.Auth.TokenTTLMinutes, cfg.Auth.BcryptCost)
	projectService := service.NewProjectService(projectRepo, imageRepo, auditService, logger)
	imageService := service.NewImageService(imageRepo, projectRepo, auditService, logger, cfg.Storage.Dir)
	analysisService := service.NewAnalysisService(imageRepo, imageService, auditService, logger)

	// Инициализируем обработчики
	healthHandler := handler.NewHealthHandler(logger)
	authHandler := handler.NewAuthHandler(authService, auditService, logger)
	projectHandler := handler.NewProjectHandler(projectService, logger)
	imageHandler := handler.NewImageHandler(imageService, analysisService, logger, cfg.Storage.MaxUploadMB)

	// Настраиваем Gin router
	if os.Getenv("ENVIRONMENT") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Добавляем middleware
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	// Регистрируем маршруты
	authMiddleware := handler.AuthMiddleware(authService, logger)
	healthHandler.RegisterRoutes(router)
	authHandler.RegisterRoutes(router, authMiddleware)
	projectHandler.RegisterRoutes(router, authMiddleware)
	imageHandler.RegisterRoutes(router, authMiddleware)

	// Добавляем базовый маршрут для проверки
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Draw Size API Server",
			"version": "1.0.0",
			"status":  "running",
		})
	})

	// Запускаем сервер
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Infof("Сервер запущен на %s", serverAddr)
	logger.Infof("API доступно по адресу: http://localhost:%d/api/v1", cfg.Server.Port)

	if err := router.Run(serverAddr); err != nil {
		logger.Fatalf("Ошибка запуска сервера: %v", err)
	}
}

// corsMiddleware добавляет заголовки CORS
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization, X-Requested-With")
		c.Header("Access-Control-Allow-Credentials", "true")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
