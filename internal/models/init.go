package models

import (
	"strings"

	"github.com/tadka-labs/storefront/internal/logger"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	defaultAdminPassword = "admin123"
)

// InitDefaultAdmin 没有管理员时创建超级管理员
func InitDefaultAdmin(db *gorm.DB, email, password string) error {
	var count int64
	if err := db.Model(&Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		email = "admin@gmail.com"
	}
	if password == "" {
		password = defaultAdminPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := db.Create(&Admin{Email: email, PasswordHash: string(hash), IsSuper: true}).Error; err != nil {
		return err
	}
	if password == defaultAdminPassword {
		logger.Warnw("default_admin_created_with_default_password", "email", email)
	} else {
		logger.Infow("default_admin_created", "email", email)
	}
	return nil
}

// InitDemoUser 创建演示顾客账号（已存在则跳过）
func InitDemoUser(db *gorm.DB, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil
	}
	var count int64
	if err := db.Model(&User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	name := email
	if at := strings.Index(email, "@"); at > 0 {
		name = email[:at]
	}
	if err := db.Create(&User{Email: email, DisplayName: name, PasswordHash: string(hash)}).Error; err != nil {
		return err
	}
	logger.Infow("demo_user_created", "email", email)
	return nil
}
