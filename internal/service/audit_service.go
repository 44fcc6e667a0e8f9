package service

import (
	"fmt"

	"draw-size-go/internal/model"
	"draw-size-go/internal/repository"

	"github.com/sirupsen/logrus"
)

// События, фиксируемые в журнале
const (
	EventSignup         = "user.signup"
	EventLogin          = "user.login"
	EventProjectCreate  = "project.create"
	EventProjectDelete  = "project.delete"
	EventImageUpload    = "image.upload"
	EventImageTransform = "image.transform"
	EventImageSegment   = "image.segment"
	EventImageAnalysis  = "image.analysis"
)

// AuditService сервис журнала действий пользователей
type AuditService struct {
	auditRepo repository.AuditRepository
	logger    *logrus.Logger
}

// NewAuditService создает новый сервис журнала
func NewAuditService(auditRepo repository.AuditRepository, logger *logrus.Logger) *AuditService {
	return &AuditService{
		auditRepo: auditRepo,
		logger:    logger,
	}
}

// Record добавляет запись в журнал. Ошибка записи не прерывает основной поток
func (s *AuditService) Record(userID, eventType, entityType, entityID, payload string) {
	entry := &model.AuditLog{
		UserID:     userID,
		EventType:  eventType,
		EntityType: entityType,
		EntityID:   entityID,
		Payload:    payload,
	}
	if err := s.auditRepo.Create(entry); err != nil {
		s.logger.Warnf("Не удалось записать событие %s в журнал: %v", eventType, err)
	}
}

// RecentForUser возвращает последние действия пользователя
func (s *AuditService) RecentForUser(userID string, limit int) ([]*model.AuditLog, error) {
	if limit < 1 || limit > 200 {
		limit = 50
	}
	entries, err := s.auditRepo.ListByUser(userID, limit)
	if err != nil {
		s.logger.Errorf("Ошибка чтения журнала: %v", err)
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}
