package repository

import (
	"fmt"

	"draw-size-go/internal/model"

	"gorm.io/gorm"
)

// ProjectRepository интерфейс для работы с проектами
type ProjectRepository interface {
	Create(project *model.Project) error
	GetByIDForUser(id, userID string) (*model.Project, error)
	ListByUser(userID string) ([]*model.Project, error)
	CountImages(projectID string) (int64, error)
	Delete(id, userID string) error
}

// projectRepository реализация ProjectRepository
type projectRepository struct {
	db *gorm.DB
}

// NewProjectRepository создает новый instance ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{
		db: db,
	}
}

// Create создает новый проект в базе данных
func (r *projectRepository) Create(project *model.Project) error {
	if err := r.db.Create(project).Error; err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// GetByIDForUser получает проект по ID в пределах владельца, nil если не найден
func (r *projectRepository) GetByIDForUser(id, userID string) (*model.Project, error) {
	var project model.Project
	err := r.db.Where("id = ? AND user_id = ?", id, userID).First(&project).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &project, nil
}

// ListByUser получает проекты пользователя, новые сверху
func (r *projectRepository) ListByUser(userID string) ([]*model.Project, error) {
	var projects []*model.Project
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// CountImages подсчитывает изображения проекта
func (r *projectRepository) CountImages(projectID string) (int64, error) {
	var total int64
	err := r.db.Model(&model.ProjectImage{}).
		Where("project_id = ?", projectID).
		Count(&total).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count images: %w", err)
	}
	return total, nil
}

// Delete удаляет проект вместе с изображениями и их областями
func (r *projectRepository) Delete(id, userID string) error {
	tx := r.db.Begin()
	if tx.Error != nil {
		return fmt.Errorf("failed to begin transaction: %w", tx.Error)
	}

	// Собираем изображения проекта
	var imageIDs []string
	if err := tx.Model(&model.ProjectImage{}).
		Where("project_id = ?", id).
		Pluck("id", &imageIDs).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to collect image ids: %w", err)
	}

	// Сначала удаляем вычитаемые области
	if len(imageIDs) > 0 {
		if err := tx.Where("image_id IN ?", imageIDs).Delete(&model.ImageDeselection{}).Error; err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to delete deselections: %w", err)
		}
	}

	// Затем изображения
	if err := tx.Where("project_id = ?", id).Delete(&model.ProjectImage{}).Error; err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete images: %w", err)
	}

	// И сам проект, строго в пределах владельца
	result := tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Project{})
	if result.Error != nil {
		tx.Rollback()
		return fmt.Errorf("failed to delete project: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		tx.Rollback()
		return fmt.Errorf("project with id %s not found", id)
	}

	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
