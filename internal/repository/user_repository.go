package repository

import (
	"github.com/tadka-labs/storefront/internal/models"

	"gorm.io/gorm"
)

// UserRepository 顾客数据访问接口
type UserRepository interface {
	GetByEmail(email string) (*models.User, error)
	GetByID(id uint) (*models.User, error)
	Update(user *models.User) error
}

// GormUserRepository GORM 实现
type GormUserRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建顾客仓库
func NewUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

// GetByEmail 根据邮箱获取顾客
func (r *GormUserRepository) GetByEmail(email string) (*models.User, error) {
	return firstOrNil[models.User](r.db.Where("email = ?", normalizeEmail(email)))
}

// GetByID 根据 ID 获取顾客
func (r *GormUserRepository) GetByID(id uint) (*models.User, error) {
	return firstOrNil[models.User](r.db.Where("id = ?", id))
}

// Update 更新顾客
func (r *GormUserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}
