package repository

import (
	"fmt"
	"time"

	"draw-size-go/internal/model"

	"gorm.io/gorm"
)

// ImageRepository интерфейс для работы с изображениями проекта
type ImageRepository interface {
	Create(image *model.ProjectImage) error
	GetForProject(id, projectID string) (*model.ProjectImage, error)
	ListByProject(projectID string) ([]*model.ProjectImage, error)
	NextBefore(projectID, excludeID string, before time.Time) (*model.ProjectImage, error)
	Update(image *model.ProjectImage) error
	SaveAnalysis(image *model.ProjectImage, deselections []model.ImageDeselection) error
}

// imageRepository реализация ImageRepository
type imageRepository struct {
	db *gorm.DB
}

// NewImageRepository создает новый instance ImageRepository
func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{
		db: db,
	}
}

// Create создает новое изображение в базе данных
func (r *imageRepository) Create(image *model.ProjectImage) error {
	if err := r.db.Create(image).Error; err != nil {
		return fmt.Errorf("failed to create image: %w", err)
	}
	return nil
}

// GetForProject получает изображение по ID в пределах проекта, nil если не найдено
func (r *imageRepository) GetForProject(id, projectID string) (*model.ProjectImage, error) {
	var image model.ProjectImage
	err := r.db.Preload("Deselections").
		Where("id = ? AND project_id = ?", id, projectID).
		First(&image).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get image: %w", err)
	}
	return &image, nil
}

// ListByProject получает изображения проекта, сначала самые новые
func (r *imageRepository) ListByProject(projectID string) ([]*model.ProjectImage, error) {
	var images []*model.ProjectImage
	err := r.db.Preload("Deselections").
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&images).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return images, nil
}

// NextBefore получает следующее изображение проекта при обходе от новых
// к старым, nil если текущее последнее
func (r *imageRepository) NextBefore(projectID, excludeID string, before time.Time) (*model.ProjectImage, error) {
	var image model.ProjectImage
	err := r.db.Preload("Deselections").
		Where("project_id = ? AND id <> ? AND created_at < ?", projectID, excludeID, before).
		Order("created_at DESC").
		First(&image).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get next image: %w", err)
	}
	return &image, nil
}

// Update сохраняет изменившиеся поля изображения, не трогая связанные области
func (r *imageRepository) Update(image *model.ProjectImage) error {
	if err := r.db.Omit("Deselections").Save(image).Error; err != nil {
		return fmt.Errorf("failed to update image: %w", err)
	}
	return nil
}

// SaveAnalysis атомарно сохраняет изображение и заменяет его вычитаемые
// области: либо записывается все, либо ничего
func (r *imageRepository) SaveAnalysis(image *model.ProjectImage, deselections []model.ImageDeselection) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	// Обновляем изображение
	if err := tx.Omit("Deselections").Save(image).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to update image: %w", err)
	}

	// Удаляем старые области
	if err := tx.Where("image_id = ?", image.ID).Delete(&model.ImageDeselection{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete old deselections: %w", err)
	}

	// Создаем новые области
	for i := range deselections {
		deselections[i].ID = 0 // Обнуляем ID для auto-increment
		deselections[i].ImageID = image.ID
		if err := tx.Create(&deselections[i]).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to create deselection %d: %w", i, err)
		}
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
