package models

import (
	"time"

	"gorm.io/gorm"
)

// Admin 管理员
type Admin struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	Email        string         `gorm:"uniqueIndex;size:191;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"`
	IsSuper      bool           `gorm:"not null;default:false" json:"is_super"`
	TokenVersion uint64         `gorm:"not null;default:0" json:"-"` // 递增后旧 token 失效
	LastLoginAt  *time.Time     `json:"last_login_at"`
	CreatedAt    time.Time      `json:"created_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName 指定表名
func (Admin) TableName() string {
	return "admins"
}
