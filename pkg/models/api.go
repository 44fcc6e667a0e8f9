package models

import "time"

// Point представляет точку в пиксельных координатах изображения
type Point struct {
	X float64 `json:"x"` // Координата по горизонтали
	Y float64 `json:"y"` // Координата по вертикали
}

// SignupRequest представляет запрос на регистрацию пользователя
type SignupRequest struct {
	Email    string `json:"email" binding:"required"`    // Адрес электронной почты
	Password string `json:"password" binding:"required"` // Пароль в открытом виде
	FullName string `json:"full_name"`                   // Полное имя
}

// UserInfo представляет публичные данные пользователя
type UserInfo struct {
	ID        string    `json:"id"`         // Идентификатор пользователя
	Email     string    `json:"email"`      // Адрес электронной почты
	FullName  string    `json:"full_name"`  // Полное имя
	IsActive  bool      `json:"is_active"`  // Активна ли учетная запись
	CreatedAt time.Time `json:"created_at"` // Время регистрации
}

// TokenResponse представляет выданный токен доступа
type TokenResponse struct {
	AccessToken string `json:"access_token"` // Подписанный JWT
	TokenType   string `json:"token_type"`   // Тип токена (bearer)
}

// CreateProjectRequest представляет запрос на создание проекта
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required"` // Название проекта
	Description string `json:"description"`             // Описание проекта
}

// ProjectInfo представляет данные проекта
type ProjectInfo struct {
	ID          string    `json:"id"`          // Идентификатор проекта
	Name        string    `json:"name"`        // Название проекта
	Description string    `json:"description"` // Описание проекта
	IsArchived  bool      `json:"is_archived"` // Архивирован ли проект
	ImageCount  int       `json:"image_count"` // Количество изображений в проекте
	CreatedAt   time.Time `json:"created_at"`  // Время создания
	UpdatedAt   time.Time `json:"updated_at"`  // Время последнего изменения
}

// DeselectionInput представляет вычитаемую область в запросе
type DeselectionInput struct {
	Shape    string   `json:"shape"`    // Форма области (rect/circle/irregular)
	Count    int      `json:"count"`    // Количество одинаковых областей
	Length   *float64 `json:"length"`   // Длина (для rect)
	Breadth  *float64 `json:"breadth"`  // Ширина (для rect)
	Diameter *float64 `json:"diameter"` // Диаметр (для circle)
	Area     *float64 `json:"area"`     // Готовая площадь (для irregular)
	Unit     string   `json:"unit"`     // Единица измерения
}

// DeselectionInfo представляет сохраненную вычитаемую область
type DeselectionInfo struct {
	ID       uint     `json:"id"`       // Идентификатор записи
	Shape    string   `json:"shape"`    // Форма области
	Count    int      `json:"count"`    // Количество одинаковых областей
	Length   *float64 `json:"length"`   // Длина (для rect)
	Breadth  *float64 `json:"breadth"`  // Ширина (для rect)
	Diameter *float64 `json:"diameter"` // Диаметр (для circle)
	Area     *float64 `json:"area"`     // Готовая площадь (для irregular)
	Unit     string   `json:"unit"`     // Единица измерения
}

// ImageInfo представляет состояние изображения и его площадные показатели
type ImageInfo struct {
	ID                    string            `json:"id"`                      // Идентификатор изображения
	ProjectID             string            `json:"project_id"`              // Идентификатор проекта
	Filename              string            `json:"filename"`                // Исходное имя файла
	WidthPx               int               `json:"width_px"`                // Ширина исходного снимка в пикселях
	HeightPx              int               `json:"height_px"`               // Высота исходного снимка в пикселях
	Status                string            `json:"status"`                  // Статус обработки (new/ready)
	Corners               []Point           `json:"corners,omitempty"`       // Углы поверхности на исходном снимке
	RealWidth             *float64          `json:"real_width"`              // Реальная ширина поверхности
	RealHeight            *float64          `json:"real_height"`             // Реальная высота поверхности
	RealUnit              string            `json:"real_unit"`               // Единица реальных размеров
	ErrorMessage          string            `json:"error_message"`           // Текст последней ошибки обработки
	SeedPoints            []Point           `json:"seed_points,omitempty"`   // Сохраненные точки затравки
	Tolerance             *int              `json:"tolerance"`               // Сохраненный допуск заливки
	MaskCoveragePercent   *float64          `json:"mask_coverage_percent"`   // Покрытие маской в процентах холста
	DeselectArea          *float64          `json:"deselect_area"`           // Суммарная вычитаемая площадь
	EffectiveDeselectArea *float64          `json:"effective_deselect_area"` // Учтенная вычитаемая площадь
	UsableArea            *float64          `json:"usable_area"`             // Полезная площадь поверхности
	CementedArea          *float64          `json:"cemented_area"`           // Площадь выбранной области
	CementedPercent       *float64          `json:"cemented_percent"`        // Доля выбранной области от полезной
	SortKey               *float64          `json:"sort_key_numeric"`        // Числовой ключ сортировки снимков
	Deselections          []DeselectionInfo `json:"deselections"`            // Сохраненные вычитаемые области
	CreatedAt             time.Time         `json:"created_at"`              // Время загрузки
	UpdatedAt             time.Time         `json:"updated_at"`              // Время последнего изменения
}

// UploadResponse представляет ответ на загрузку изображения
type UploadResponse struct {
	Image     ImageInfo `json:"image"`      // Данные созданного изображения
	ImageData string    `json:"image_data"` // Исходный снимок как data URL
}

// TransformResponse представляет ответ на выпрямление перспективы
type TransformResponse struct {
	Image            ImageInfo `json:"image"`             // Обновленные данные изображения
	TransformedImage string    `json:"transformed_image"` // Выпрямленный холст как data URL
	OutputWidth      int       `json:"output_width"`      // Ширина холста в пикселях
	OutputHeight     int       `json:"output_height"`     // Высота холста в пикселях
}

// SegmentRequest представляет запрос на сегментацию выпрямленного холста
type SegmentRequest struct {
	SeedPoints []Point `json:"seed_points" binding:"required"` // Точки затравки на холсте
	Tolerance  *int    `json:"tolerance"`                      // Допуск заливки (по умолчанию 50)
}

// SegmentResponse представляет результат предпросмотра сегментации
type SegmentResponse struct {
	SelectedPixelCount  int     `json:"selected_pixel_count"`  // Количество выбранных пикселей
	MaskCoveragePercent float64 `json:"mask_coverage_percent"` // Покрытие маской в процентах холста
	OverlayImage        string  `json:"overlay_image"`         // Холст с зеленой подсветкой как data URL
	CutoutImage         string  `json:"cutout_image"`          // Вырезка по маске как data URL (PNG)
}

// AnalysisRequest представляет запрос на сохранение анализа. Нулевые поля
// не изменяют сохраненные значения
type AnalysisRequest struct {
	SeedPoints   *[]Point            `json:"seed_points"`      // Новые точки затравки
	Tolerance    *int                `json:"tolerance"`        // Новый допуск заливки
	Deselections *[]DeselectionInput `json:"deselections"`     // Полная замена вычитаемых областей
	RealWidth    *float64            `json:"real_width"`       // Переопределение реальной ширины
	RealHeight   *float64            `json:"real_height"`      // Переопределение реальной высоты
	RealUnit     *string             `json:"real_unit"`        // Переопределение единицы размеров
	SortKey      *float64            `json:"sort_key_numeric"` // Переопределение ключа сортировки
}

// AnalysisResponse представляет результат сохраненного анализа
type AnalysisResponse struct {
	Image    ImageInfo `json:"image"`    // Обновленные данные изображения
	Warnings []string  `json:"warnings"` // Предупреждения расчета площадей
}

// ImageDataResponse представляет снимок, закодированный для передачи клиенту
type ImageDataResponse struct {
	ImageData string `json:"image_data"` // Снимок как data URL
	WidthPx   int    `json:"width_px"`   // Ширина снимка в пикселях
	HeightPx  int    `json:"height_px"`  // Высота снимка в пикселях
}

// HealthResponse представляет ответ проверки здоровья сервиса
type HealthResponse struct {
	Status  string `json:"status"`  // Статус сервиса (healthy/unhealthy)
	Version string `json:"version"` // Версия сервиса
}
