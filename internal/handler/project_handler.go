package handler

import (
	"net/http"

	"draw-size-go/internal/service"
	"draw-size-go/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ProjectHandler обрабатывает HTTP запросы для работы с проектами
type ProjectHandler struct {
	projectService *service.ProjectService
	logger         *logrus.Logger
}

// NewProjectHandler создает новый экземпляр ProjectHandler
func NewProjectHandler(projectService *service.ProjectService, logger *logrus.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// RegisterRoutes регистрирует маршруты проектов
func (h *ProjectHandler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	api := router.Group("/api/v1", auth)
	{
		api.GET("/projects", h.ListProjects)
		api.POST("/projects", h.CreateProject)
		api.GET("/projects/:project_id", h.GetProject)
		api.DELETE("/projects/:project_id", h.DeleteProject)
	}
}

// ListProjects возвращает проекты текущего пользователя
func (h *ProjectHandler) ListProjects(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется аутентификация"})
		return
	}

	projects, err := h.projectService.ListProjects(user.ID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, projects)
}

// CreateProject создает новый проект
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется аутентификация"})
		return
	}

	var req models.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Ошибка разбора запроса создания проекта: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат запроса"})
		return
	}

	project, err := h.projectService.CreateProject(user.ID, req.Name, req.Description)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, project)
}

// GetProject возвращает проект по ID
func (h *ProjectHandler) GetProject(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется аутентификация"})
		return
	}

	project, err := h.projectService.GetProject(user.ID, c.Param("project_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, project)
}

// DeleteProject удаляет проект со всем содержимым
func (h *ProjectHandler) DeleteProject(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется аутентификация"})
		return
	}

	if err := h.projectService.DeleteProject(user.ID, c.Param("project_id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
