package service

import (
	"fmt"
	"os"

	"draw-size-go/internal/model"
	"draw-size-go/internal/repository"
	"draw-size-go/pkg/models"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ProjectService сервис для работы с проектами
type ProjectService struct {
	projectRepo repository.ProjectRepository
	imageRepo   repository.ImageRepository
	audit       *AuditService
	logger      *logrus.Logger
}

// NewProjectService создает новый сервис для работы с проектами
func NewProjectService(projectRepo repository.ProjectRepository, imageRepo repository.ImageRepository, audit *AuditService, logger *logrus.Logger) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		imageRepo:   imageRepo,
		audit:       audit,
		logger:      logger,
	}
}

// CreateProject создает проект для пользователя
func (s *ProjectService) CreateProject(userID, name, description string) (*models.ProjectInfo, error) {
	s.logger.Infof("Создаем проект %q для пользователя %s", name, userID)

	project := &model.Project{
		ID:          uuid.New().String(),
		UserID:      userID,
		Name:        name,
		Description: description,
	}
	if err := s.projectRepo.Create(project); err != nil {
		s.logger.Errorf("Ошибка создания проекта: %v", err)
		return nil, fmt.Errorf("failed to create project: %w", err)
	}

	s.audit.Record(userID, EventProjectCreate, "project", project.ID, project.Name)
	return s.modelToInfo(project, 0), nil
}

// ListProjects возвращает проекты пользователя, новые сверху
func (s *ProjectService) ListProjects(userID string) ([]models.ProjectInfo, error) {
	projects, err := s.projectRepo.ListByUser(userID)
	if err != nil {
		s.logger.Errorf("Ошибка получения проектов: %v", err)
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	infos := make([]models.ProjectInfo, len(projects))
	for i, project := range projects {
		count, err := s.projectRepo.CountImages(project.ID)
		if err != nil {
			s.logger.Warnf("Не удалось подсчитать изображения проекта %s: %v", project.ID, err)
		}
		infos[i] = *s.modelToInfo(project, int(count))
	}
	return infos, nil
}

// GetProject возвращает проект пользователя по ID
func (s *ProjectService) GetProject(userID, projectID string) (*models.ProjectInfo, error) {
	project, err := s.projectRepo.GetByIDForUser(projectID, userID)
	if err != nil {
		s.logger.Errorf("Ошибка получения проекта: %v", err)
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	count, err := s.projectRepo.CountImages(project.ID)
	if err != nil {
		s.logger.Warnf("Не удалось подсчитать изображения проекта %s: %v", project.ID, err)
	}
	return s.modelToInfo(project, int(count)), nil
}

// DeleteProject удаляет проект пользователя вместе с изображениями и файлами
func (s *ProjectService) DeleteProject(userID, projectID string) error {
	s.logger.Infof("Удаляем проект %s пользователя %s", projectID, userID)

	project, err := s.projectRepo.GetByIDForUser(projectID, userID)
	if err != nil {
		s.logger.Errorf("Ошибка получения проекта для удаления: %v", err)
		return fmt.Errorf("failed to get project for deletion: %w", err)
	}
	if project == nil {
		return ErrProjectNotFound
	}

	// Собираем пути файлов до удаления записей
	images, err := s.imageRepo.ListByProject(projectID)
	if err != nil {
		s.logger.Errorf("Ошибка получения изображений проекта: %v", err)
		return fmt.Errorf("failed to list project images: %w", err)
	}

	if err := s.projectRepo.Delete(projectID, userID); err != nil {
		s.logger.Errorf("Ошибка удаления проекта из БД: %v", err)
		return fmt.Errorf("failed to delete project from database: %w", err)
	}

	// Удаляем файлы снимков, ошибки файловой системы не откатывают удаление
	for _, image := range images {
		for _, path := range []string{image.OriginalPath, image.TransformedPath} {
			if path == "" {
				continue
			}
			if err := os.Remove(path); err != nil {
				s.logger.Warnf("Не удалось удалить файл %s: %v", path, err)
			}
		}
	}

	s.audit.Record(userID, EventProjectDelete, "project", projectID, project.Name)
	s.logger.Infof("Проект %s успешно удален", projectID)
	return nil
}

// modelToInfo преобразует модель проекта в ответ API
func (s *ProjectService) modelToInfo(project *model.Project, imageCount int) *models.ProjectInfo {
	return &models.ProjectInfo{
		ID:          project.ID,
		Name:        project.Name,
		Description: project.Description,
		IsArchived:  project.IsArchived,
		ImageCount:  imageCount,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}
