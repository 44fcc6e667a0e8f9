package model

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"draw-size-go/pkg/models"
)

// Статусы обработки изображения
const (
	ImageStatusNew   = "new"
	ImageStatusReady = "ready"
)

// ProjectImage представляет снимок поверхности в базе данных
type ProjectImage struct {
	ID              string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ProjectID       string `gorm:"type:varchar(36);not null;index" json:"project_id"`
	Filename        string `gorm:"type:varchar(255)" json:"filename"`
	OriginalPath    string `gorm:"type:varchar(500)" json:"original_path"`
	TransformedPath string `gorm:"type:varchar(500)" json:"transformed_path"`
	WidthPx         int    `gorm:"not null" json:"width_px"`
	HeightPx        int    `gorm:"not null" json:"height_px"`
	Status          string `gorm:"type:varchar(32);not null;default:new" json:"status"`

	// Калибровка перспективы
	Corners      string   `gorm:"type:text" json:"-"`
	RealWidth    *float64 `json:"real_width"`
	RealHeight   *float64 `json:"real_height"`
	RealUnit     string   `gorm:"type:varchar(16)" json:"real_unit"`
	ErrorMessage string   `gorm:"type:text" json:"error_message"`

	// Сегментация
	SeedPoints string `gorm:"type:text" json:"-"`
	Tolerance  *int   `json:"tolerance"`

	// Площадные показатели, пересчитываются единым анализом
	MaskCoveragePercent   *float64 `json:"mask_coverage_percent"`
	DeselectArea          *float64 `json:"deselect_area"`
	EffectiveDeselectArea *float64 `json:"effective_deselect_area"`
	UsableArea            *float64 `json:"usable_area"`
	CementedArea          *float64 `json:"cemented_area"`
	CementedPercent       *float64 `json:"cemented_percent"`
	SortKeyNumeric        *float64 `json:"sort_key_numeric"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Связь с вычитаемыми областями
	Deselections []ImageDeselection `gorm:"foreignKey:ImageID;constraint:OnDelete:CASCADE" json:"deselections"`
}

// ImageDeselection представляет вычитаемую область в базе данных
type ImageDeselection struct {
	ID       uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	ImageID  string   `gorm:"type:varchar(36);not null;index" json:"image_id"`
	Shape    string   `gorm:"type:varchar(16);not null" json:"shape"`
	Count    int      `gorm:"not null;default:1" json:"count"`
	Length   *float64 `json:"length"`
	Breadth  *float64 `json:"breadth"`
	Diameter *float64 `json:"diameter"`
	Area     *float64 `json:"area"`
	Unit     string   `gorm:"type:varchar(16)" json:"unit"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`

	// Обратная связь с изображением
	Image ProjectImage `gorm:"foreignKey:ImageID;references:ID" json:"-"`
}

// TableName указывает имя таблицы для ProjectImage
func (ProjectImage) TableName() string {
	return "project_images"
}

// TableName указывает имя таблицы для ImageDeselection
func (ImageDeselection) TableName() string {
	return "image_deselections"
}

// SetCornerPoints сериализует углы поверхности в JSON колонку
func (i *ProjectImage) SetCornerPoints(points []models.Point) error {
	data, err := json.Marshal(points)
	if err != nil {
		return err
	}
	i.Corners = string(data)
	return nil
}

// CornerPoints возвращает сохраненные углы поверхности
func (i *ProjectImage) CornerPoints() ([]models.Point, error) {
	if i.Corners == "" {
		return nil, nil
	}
	var points []models.Point
	if err := json.Unmarshal([]byte(i.Corners), &points); err != nil {
		return nil, err
	}
	return points, nil
}

// SetSeedPointList сериализует точки затравки в JSON колонку
func (i *ProjectImage) SetSeedPointList(points []models.Point) error {
	data, err := json.Marshal(points)
	if err != nil {
		return err
	}
	i.SeedPoints = string(data)
	return nil
}

// SeedPointList возвращает сохраненные точки затравки
func (i *ProjectImage) SeedPointList() ([]models.Point, error) {
	if i.SeedPoints == "" {
		return nil, nil
	}
	var points []models.Point
	if err := json.Unmarshal([]byte(i.SeedPoints), &points); err != nil {
		return nil, err
	}
	return points, nil
}
