package handler

import (
	"errors"
	"net/http"

	"draw-size-go/internal/service"
	"draw-size-go/internal/vision"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// respondError переводит ошибку сервиса в HTTP статус и тело ответа
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	var vErr *vision.ValidationError
	var calErr *vision.CalibrationError
	var segErr *vision.SegmentationError
	var decErr *vision.DecodeError

	switch {
	case errors.Is(err, service.ErrProjectNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Проект не найден"})
	case errors.Is(err, service.ErrImageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Изображение не найдено"})
	case errors.Is(err, service.ErrNoNextImage):
		c.JSON(http.StatusNotFound, gin.H{"error": "Следующее изображение не найдено"})
	case errors.Is(err, service.ErrImageNotTransformed):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Снимок еще не выпрямлен"})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Почта уже зарегистрирована"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Неверная почта или пароль"})
	case errors.Is(err, service.ErrInactiveUser):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Учетная запись отключена"})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Неверный токен доступа"})
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error()})
	case errors.As(err, &calErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": calErr.Error()})
	case errors.As(err, &segErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": segErr.Error()})
	case errors.As(err, &decErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Не удалось декодировать изображение"})
	default:
		logger.Errorf("Внутренняя ошибка: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Внутренняя ошибка сервера"})
	}
}
