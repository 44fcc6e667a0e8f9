package handler

import (
	"net/http"
	"strings"

	"draw-size-go/internal/model"
	"draw-size-go/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Ключ контекста gin для текущего пользователя
const contextUserKey = "currentUser"

// AuthMiddleware проверяет токен доступа и кладет пользователя в контекст запроса
func AuthMiddleware(authService *service.AuthService, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Требуется токен доступа"})
			return
		}

		user, err := authService.CurrentUser(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			logger.Warnf("Отклонен токен доступа: %v", err)
			if err == service.ErrInactiveUser {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Учетная запись отключена"})
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Неверный токен доступа"})
			return
		}

		c.Set(contextUserKey, user)
		c.Next()
	}
}

// currentUser возвращает пользователя, положенного middleware в контекст
func currentUser(c *gin.Context) *model.User {
	value, exists := c.Get(contextUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*model.User)
	if !ok {
		return nil
	}
	return user
}
