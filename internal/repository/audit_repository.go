package repository

import (
	"fmt"

	"draw-size-go/internal/model"

	"gorm.io/gorm"
)

// AuditRepository интерфейс для журнала действий пользователей
type AuditRepository interface {
	Create(entry *model.AuditLog) error
	ListByUser(userID string, limit int) ([]*model.AuditLog, error)
}

// auditRepository реализация AuditRepository
type auditRepository struct {
	db *gorm.DB
}

// NewAuditRepository создает новый instance AuditRepository
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{
		db: db,
	}
}

// Create добавляет запись в журнал
func (r *auditRepository) Create(entry *model.AuditLog) error {
	if err := r.db.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create audit entry: %w", err)
	}
	return nil
}

// ListByUser получает последние записи журнала пользователя
func (r *auditRepository) ListByUser(userID string, limit int) ([]*model.AuditLog, error) {
	var entries []*model.AuditLog
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	return entries, nil
}
