package handler

import (
	"net/http"

	"draw-size-go/internal/database"
	"draw-size-go/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Версия сервиса, отдается в проверке здоровья
const serviceVersion = "1.0.0"

// HealthHandler обработчик проверки здоровья сервиса
type HealthHandler struct {
	logger *logrus.Logger
}

// NewHealthHandler создает новый экземпляр HealthHandler
func NewHealthHandler(logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{
		logger: logger,
	}
}

// RegisterRoutes регистрирует маршрут проверки здоровья
func (h *HealthHandler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	{
		api.GET("/health", h.CheckHealth)
	}
}

// CheckHealth проверяет состояние сервиса и подключения к базе данных
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	status := "healthy"
	code := http.StatusOK

	if err := database.HealthCheck(); err != nil {
		h.logger.Errorf("База данных недоступна: %v", err)
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, models.HealthResponse{
		Status:  status,
		Version: serviceVersion,
	})
}
