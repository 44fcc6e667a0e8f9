package model

import "time"

// AuditLog представляет запись журнала действий пользователя
type AuditLog struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     string `gorm:"type:varchar(36);index" json:"user_id"`
	EventType  string `gorm:"type:varchar(64);not null" json:"event_type"`
	EntityType string `gorm:"type:varchar(32)" json:"entity_type"`
	EntityID   string `gorm:"type:varchar(36)" json:"entity_id"`
	Payload    string `gorm:"type:text" json:"payload"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName указывает имя таблицы для AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}
