package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"draw-size-go/pkg/models"

	"github.com/sirupsen/logrus"
)

// DrawSizeClient клиент для взаимодействия с Draw Size API
type DrawSizeClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewDrawSizeClient создает новый клиент для Draw Size API
func NewDrawSizeClient(baseURL string, timeout time.Duration, logger *logrus.Logger) *DrawSizeClient {
	return &DrawSizeClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// SetToken устанавливает токен доступа для защищенных запросов
func (c *DrawSizeClient) SetToken(token string) {
	c.token = token
}

// CheckHealth проверяет состояние API
func (c *DrawSizeClient) CheckHealth() (*models.HealthResponse, error) {
	c.logger.Debug("Проверка здоровья Draw Size API")

	req, err := http.NewRequest("GET", fmt.Sprintf("%s/api/v1/health", c.baseURL), nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания HTTP запроса: %w", err)
	}

	var healthResponse models.HealthResponse
	if err := c.send(req, &healthResponse); err != nil {
		return nil, err
	}

	return &healthResponse, nil
}

// Signup регистрирует нового пользователя
func (c *DrawSizeClient) Signup(request models.SignupRequest) (*models.UserInfo, error) {
	c.logger.Infof("Регистрация пользователя %s", request.Email)

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	req, err := http.NewRequest("POST", fmt.Sprintf("%s/api/v1/auth/signup", c.baseURL), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания HTTP запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var userInfo models.UserInfo
	if err := c.send(req, &userInfo); err != nil {
		return nil, err
	}

	return &userInfo, nil
}

// Login выполняет вход и сохраняет полученный токен в клиенте
func (c *DrawSizeClient) Login(email, password string) (*models.TokenResponse, error) {
	c.logger.Infof("Вход пользователя %s", email)

	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)

	req, err := http.NewRequest("POST", fmt.Sprintf("%s/api/v1/auth/login", c.baseURL), strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания HTTP запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var tokenResponse models.TokenResponse
	if err := c.send(req, &tokenResponse); err != nil {
		return nil, err
	}

	c.token = tokenResponse.AccessToken
	return &tokenResponse, nil
}

// CurrentUser возвращает данные аутентифицированного пользователя
func (c *DrawSizeClient) CurrentUser() (*models.UserInfo, error) {
	req, err := http.NewRequest("GET", fmt.Sprintf("%s/api/v1/auth/me", c.baseURL), nil)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания HTTP запроса: %w", err)
	}

	var userInfo models.UserInfo
	if err := c.send(req, &userInfo); err != nil {
		return nil, err
	}

	return &userInfo, nil
}

// CreateProject создает новый проект
func (c *DrawSizeClient) CreateProject(request models.CreateProjectRequest) (*models.ProjectInfo, error) {
	c.logger.Infof("Создание проекта %s", request.Name)

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	req, err := http.NewRequest("POST", fmt.Sprintf("%s/api/v1/projects", c.baseURL), bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания HTTP запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var projectInfo models.ProjectInfo
	if err := c.send(req, &projectInfo); err != nil {
		return nil, err
	}

	return &projectInfo, nil
}

// UploadImage загружает снимок стены в проект
func (c *DrawSizeClient) UploadImage(projectID, filename string, data []byte) (*models.UploadResponse, error) {
	c.logger.Infof("Загрузка снимка %s в проект %s", filename, projectID)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	fileWriter, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания form field для снимка: %w", err)
	}

	if _, err := fileWriter.Write(data); err != nil {
		return nil, fmt.Errorf("ошибка записи данных снимка: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("ошибка закрытия multipart writer: %w", err)
	}

	req, err := http.NewRequest("POST", fmt.Sprintf("%s/api/v1/projects/%s/images", c.baseURL, projectID), &body)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания HTTP запроса: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	var uploadResponse models.UploadResponse
	if err := c.send(req, &uploadResponse); err != nil {
		return nil, err
	}

	return &uploadResponse, nil
}

// TransformImage выпрямляет снимок по четырем углам и реальным размерам
func (c *DrawSizeClient) TransformImage(projectID, imageID string, corners []models.Point, realWidth, realHeight float64) (*models.TransformResponse, error) {
	c.logger.Infof("Выпрямление снимка %s", imageID)

	cornersJSON, err := json.Marshal(corners)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации углов: %w", err)
	}

	form := url.Values{}
	form.Set("corners", string(cornersJSON))
	form.Set("real_width", fmt.Sprintf("%.6f", realWidth))
	form.Set("real_height", fmt.Sprintf("%.6f", realHeight))

	endpoint := fmt.Sprintf("%s/api/v1/projects/%s/images/%s/transform", c.baseURL, projectID, imageID)
	req, err := http.NewRequest("POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания HTTP запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var transformResponse models.TransformResponse
	if err := c.send(req, &transformResponse); err != nil {
		return nil, err
	}

	return &transformResponse, nil
}

// SegmentImage строит предпросмотр заливки по точкам затравки
func (c *DrawSizeClient) SegmentImage(projectID, imageID string, request models.SegmentRequest) (*models.SegmentResponse, error) {
	c.logger.Infof("Сегментация снимка %s", imageID)

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/v1/projects/%s/images/%s/segment", c.baseURL, projectID, imageID)
	req, err := http.NewRequest("POST", endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания HTTP запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var segmentResponse models.SegmentResponse
	if err := c.send(req, &segmentResponse); err != nil {
		return nil, err
	}

	return &segmentResponse, nil
}

// SaveAnalysis сохраняет параметры расчета и возвращает итоговые площади
func (c *DrawSizeClient) SaveAnalysis(projectID, imageID string, request models.AnalysisRequest) (*models.AnalysisResponse, error) {
	c.logger.Infof("Расчет площадей для снимка %s", imageID)

	payload, err := json.Marshal(request)
	if err != nil {
		return nil, fmt.Errorf("ошибка сериализации запроса: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/v1/projects/%s/images/%s/analysis", c.baseURL, projectID, imageID)
	req, err := http.NewRequest("POST", endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("ошибка создания HTTP запроса: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var analysisResponse models.AnalysisResponse
	if err := c.send(req, &analysisResponse); err != nil {
		return nil, err
	}

	return &analysisResponse, nil
}

// send выполняет запрос, проверяет статус и разбирает JSON ответ
func (c *DrawSizeClient) send(req *http.Request, out interface{}) error {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debugf("Отправка %s запроса на %s", req.Method, req.URL.String())
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка отправки HTTP запроса: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("ошибка чтения ответа: %w", err)
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return fmt.Errorf("API вернул ошибку: статус %d, тело: %s", resp.StatusCode, string(respBody))
	}

	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("ошибка парсинга JSON ответа: %w", err)
	}

	return nil
}
