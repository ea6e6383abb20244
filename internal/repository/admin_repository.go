package repository

import (
	"errors"
	"strings"

	"github.com/tadka-labs/storefront/internal/models"

	"gorm.io/gorm"
)

// AdminRepository 管理员数据访问接口
type AdminRepository interface {
	GetByEmail(email string) (*models.Admin, error)
	GetByID(id uint) (*models.Admin, error)
	Count() (int64, error)
	Update(admin *models.Admin) error
}

// GormAdminRepository GORM 实现
type GormAdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository 创建管理员仓库
func NewAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

// GetByEmail 邮箱不区分大小写
func (r *GormAdminRepository) GetByEmail(email string) (*models.Admin, error) {
	return firstOrNil[models.Admin](r.db.Where("email = ?", normalizeEmail(email)))
}

// GetByID 根据 ID 获取管理员
func (r *GormAdminRepository) GetByID(id uint) (*models.Admin, error) {
	return firstOrNil[models.Admin](r.db.Where("id = ?", id))
}

// Count 统计管理员数量
func (r *GormAdminRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Admin{}).Count(&count).Error
	return count, err
}

// Update 保存登录时间、token 版本等变更
func (r *GormAdminRepository) Update(admin *models.Admin) error {
	return r.db.Save(admin).Error
}

// firstOrNil 取第一条记录，不存在时返回 nil, nil
func firstOrNil[T any](query *gorm.DB) (*T, error) {
	var row T
	if err := query.First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
