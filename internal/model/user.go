package model

import "time"

// User представляет учетную запись пользователя в базе данных
type User struct {
	ID             string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Email          string `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	HashedPassword string `gorm:"type:varchar(255);not null" json:"-"`
	FullName       string `gorm:"type:varchar(255)" json:"full_name"`
	IsActive       bool   `gorm:"not null;default:true" json:"is_active"`

	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	// Связь с проектами
	Projects []Project `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName указывает имя таблицы для User
func (User) TableName() string {
	return "users"
}
