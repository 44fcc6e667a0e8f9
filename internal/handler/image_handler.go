package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"draw-size-go/internal/service"
	"draw-size-go/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ImageHandler обрабатывает HTTP запросы для работы со снимками
type ImageHandler struct {
	imageService    *service.ImageService
	analysisService *service.AnalysisService
	logger          *logrus.Logger
	maxUploadBytes  int64
}

// NewImageHandler создает новый экземпляр ImageHandler
func NewImageHandler(imageService *service.ImageService, analysisService *service.AnalysisService, logger *logrus.Logger, maxUploadMB int) *ImageHandler {
	return &ImageHandler{
		imageService:    imageService,
		analysisService: analysisService,
		logger:          logger,
		maxUploadBytes:  int64(maxUploadMB) * 1024 * 1024,
	}
}

// RegisterRoutes регистрирует маршруты снимков
func (h *ImageHandler) RegisterRoutes(router *gin.Engine, auth gin.HandlerFunc) {
	api := router.Group("/api/v1", auth)
	{
		api.GET("/projects/:project_id/images", h.ListImages)
		api.POST("/projects/:project_id/images", h.UploadImage)
		api.GET("/projects/:project_id/images/:image_id", h.GetImage)
		api.GET("/projects/:project_id/images/:image_id/original", h.GetOriginal)
		api.GET("/projects/:project_id/images/:image_id/next", h.GetNext)
		api.POST("/projects/:project_id/images/:image_id/transform", h.Transform)
		api.POST("/projects/:project_id/images/:image_id/segment", h.Segment)
		api.POST("/projects/:project_id/images/:image_id/analysis", h.SaveAnalysis)
	}
}

// ListImages возвращает снимки проекта
func (h *ImageHandler) ListImages(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется аутентификация"})
		return
	}

	images, err := h.imageService.ListImages(user.ID, c.Param("project_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, images)
}

// UploadImage загружает новый снимок в проект
func (h *ImageHandler) UploadImage(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется аутентификация"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		h.logger.Errorf("Ошибка получения файла: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Файл изображения обязателен"})
		return
	}
	defer file.Close()

	if header.Size > h.maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Файл слишком большой"})
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Errorf("Ошибка чтения файла: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Ошибка чтения файла"})
		return
	}

	resp, err := h.imageService.UploadImage(user.ID, c.Param("project_id"), header.Filename, data)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetImage возвращает данные снимка
func (h *ImageHandler) GetImage(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется аутентификация"})
		return
	}

	image, err := h.imageService.GetImage(user.ID, c.Param("project_id"), c.Param("image_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, image)
}

// GetOriginal возвращает исходный снимок как data URL
func (h *ImageHandler) GetOriginal(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется аутентификация"})
		return
	}

	data, err := h.imageService.OriginalData(user.ID, c.Param("project_id"), c.Param("image_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, data)
}

// GetNext возвращает следующий снимок проекта при обходе от новых к старым
func (h *ImageHandler) GetNext(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется аутентификация"})
		return
	}

	image, err := h.imageService.NextImage(user.ID, c.Param("project_id"), c.Param("image_id"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, image)
}

// Transform обрабатывает запрос на выпрямление перспективы
// @Summary Выпрямление перспективы снимка
// @Description Строит перспективное преобразование по четырем углам поверхности и переносит ее на прямоугольный холст
// @Tags images
// @Accept multipart/form-data
// @Produce json
// @Param corners formData string true "Четыре угла поверхности как JSON массив точек"
// @Param real_width formData number true "Реальная ширина поверхности"
// @Param real_height formData number true "Реальная высота поверхности"
// @Success 200 {object} models.TransformResponse
// @Failure 400 {object} gin.H
// @Failure 404 {object} gin.H
// @Router /projects/{project_id}/images/{image_id}/transform [post]
func (h *ImageHandler) Transform(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется аутентификация"})
		return
	}

	// Получаем параметры формы (поддерживаем разные форматы)
	cornersStr := getFormValue(c, []string{"corners", "corner_points"})
	widthStr := getFormValue(c, []string{"real_width", "width"})
	heightStr := getFormValue(c, []string{"real_height", "height"})
	if cornersStr == "" || widthStr == "" || heightStr == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Отсутствуют обязательные параметры: corners, real_width, real_height",
		})
		return
	}

	var corners []models.Point
	if err := json.Unmarshal([]byte(cornersStr), &corners); err != nil {
		h.logger.Errorf("Ошибка разбора углов: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат corners"})
		return
	}

	realWidth, err := strconv.ParseFloat(widthStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат real_width"})
		return
	}
	realHeight, err := strconv.ParseFloat(heightStr, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат real_height"})
		return
	}

	resp, err := h.imageService.Transform(user.ID, c.Param("project_id"), c.Param("image_id"), corners, realWidth, realHeight)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Segment возвращает предпросмотр сегментации без сохранения
func (h *ImageHandler) Segment(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется аутентификация"})
		return
	}

	var req models.SegmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Ошибка разбора запроса сегментации: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат запроса"})
		return
	}

	tolerance := service.DefaultTolerance
	if req.Tolerance != nil {
		tolerance = *req.Tolerance
	}

	resp, err := h.imageService.SegmentPreview(user.ID, c.Param("project_id"), c.Param("image_id"), req.SeedPoints, tolerance)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SaveAnalysis сохраняет анализ снимка
func (h *ImageHandler) SaveAnalysis(c *gin.Context) {
	user := currentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Требуется аутентификация"})
		return
	}

	var req models.AnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Errorf("Ошибка разбора запроса анализа: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Неверный формат запроса"})
		return
	}

	resp, err := h.analysisService.SaveAnalysis(user.ID, c.Param("project_id"), c.Param("image_id"), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getFormValue получает значение из формы по списку возможных ключей
func getFormValue(c *gin.Context, keys []string) string {
	for _, key := range keys {
		if value := c.PostForm(key); value != "" {
			return value
		}
	}
	return ""
}
