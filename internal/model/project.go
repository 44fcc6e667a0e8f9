package model

import (
	"time"

	"gorm.io/gorm"
)

// Project представляет проект обмеров в базе данных
type Project struct {
	ID          string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID      string `gorm:"type:varchar(36);not null;index" json:"user_id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`
	IsArchived  bool   `gorm:"not null;default:false" json:"is_archived"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	// Связь с изображениями
	Images []ProjectImage `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"images"`
}

// TableName указывает имя таблицы для Project
func (Project) TableName() string {
	return "projects"
}
