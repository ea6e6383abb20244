package models

import "time"

// User 顾客账号
type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	Email        string     `gorm:"uniqueIndex;size:191;not null" json:"email"`
	DisplayName  string     `gorm:"size:100" json:"display_name"`
	PasswordHash string     `gorm:"not null" json:"-"`
	TokenVersion uint64     `gorm:"not null;default:0" json:"-"`
	LastLoginAt  *time.Time `json:"last_login_at"`
	CreatedAt    time.Time  `json:"created_at"`
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
