package repository

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/tadka-labs/storefront/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StoreRepository 共享文档存储接口，后写覆盖，不加锁
type StoreRepository interface {
	GetByKey(ctx context.Context, key string) (*models.StoreEntry, error)
	Upsert(ctx context.Context, key string, value []byte, version int) error
	Delete(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
}

// GormStoreRepository GORM 实现
type GormStoreRepository struct {
	db *gorm.DB
}

// NewStoreRepository 创建文档存储仓库
func NewStoreRepository(db *gorm.DB) *GormStoreRepository {
	return &GormStoreRepository{db: db}
}

// GetByKey 按键读取文档，不存在返回 nil
func (r *GormStoreRepository) GetByKey(ctx context.Context, key string) (*models.StoreEntry, error) {
	var entry models.StoreEntry
	if err := r.db.WithContext(ctx).Where("store_key = ?", key).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

// Upsert 写入文档，键已存在时整体覆盖
func (r *GormStoreRepository) Upsert(ctx context.Context, key string, value []byte, version int) error {
	entry := models.StoreEntry{
		Key:           key,
		Value:         string(value),
		SchemaVersion: version,
		UpdatedAt:     time.Now(),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "store_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "schema_version", "updated_at"}),
	}).Create(&entry).Error
}

// Delete 删除文档，不存在时不报错
func (r *GormStoreRepository) Delete(ctx context.Context, key string) error {
	return r.db.WithContext(ctx).Where("store_key = ?", key).Delete(&models.StoreEntry{}).Error
}

// ListKeys 按前缀列出键，空前缀返回全部
func (r *GormStoreRepository) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	query := r.db.WithContext(ctx).Model(&models.StoreEntry{})
	if prefix != "" {
		query = query.Where("store_key LIKE ? ESCAPE '\\'", escapeLike(prefix)+"%")
	}
	var keys []string
	if err := query.Order("store_key ASC").Pluck("store_key", &keys).Error; err != nil {
		return nil, err
	}
	// sqlite 的 LIKE 不区分大小写，这里再精确过滤一次
	filtered := keys[:0]
	for _, key := range keys {
		if strings.HasPrefix(key, prefix) {
			filtered = append(filtered, key)
		}
	}
	return filtered, nil
}
