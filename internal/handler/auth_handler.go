package handler

import (
	"net/http"
	"strconv"

	"draw-size-go/internal/service"
	"draw-size-go/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AuthHandler обрабатывает HTTP запросы аутентификации
type AuthHandler struct {
	authService  *service.AuthService
	auditService *service.AuditService
	logger       *logrus.Logger
}

// NewAuthHandler создает новый экземпляр AuthHandler
func NewAuthHandler(authService *service.AuthService, auditService *service.AuditService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		auditService: auditService,
		logger:       logger,
	}
}

// RegisterRoutes регистрирует маршруты аутентификации
func (h *AuthHandler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	api := router.Group("/api/v1")
	{
		api.POST("/auth/signup", h.Signup)
		api.POST("/auth/login", h.Login)
	}

	protected := router.Group("/api/v1", auth)
	{
		protected.GET("/auth/me", h.Me)
		protected.GET("/audit", h.RecentActions)
	}
}

// Signup обрабатывает регистрацию нового пользователя
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Ошибка разбора запроса регистрации: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат запроса"})
		return
	}
	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Пароль должен быть не короче 6 символов"})
		return
	}

	user, err := h.authService.Signup(req.Email, req.Password, req.FullName)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// Login обрабатывает вход по форме email/password
func (h *AuthHandler) Login(c *gin.Context) {
	email := getFormValue(c, []string{"email", "username"})
	password := c.PostForm("password")
	if email == "" || password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Требуются поля email и password"})
		return
	}

	token, err := h.authService.Login(email, password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

// Me возвращает данные текущего пользователя
func (h *AuthHandler) Me(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется аутентификация"})
		return
	}
	c.JSON(http.StatusOK, h.authService.UserInfo(user))
}

// RecentActions возвращает последние действия текущего пользователя
func (h *AuthHandler) RecentActions(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется аутентификация"})
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат limit"})
		return
	}

	entries, err := h.auditService.RecentForUser(user.ID, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
