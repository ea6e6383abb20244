package repository

import (
	"context"

	"github.com/tadka-labs/storefront/internal/constants"
	"github.com/tadka-labs/storefront/internal/models"
	"github.com/tadka-labs/storefront/internal/schema"
)

// CategoryRepository 分类集合访问接口
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	Save(ctx context.Context, categories []models.Category) error
}

// StoreCategoryRepository 基于文档存储的实现
type StoreCategoryRepository struct {
	store StoreRepository
}

// NewCategoryRepository 创建分类仓库
func NewCategoryRepository(store StoreRepository) *StoreCategoryRepository {
	return &StoreCategoryRepository{store: store}
}

// List 读取全部分类
func (r *StoreCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	return loadDocument(ctx, r.store, constants.StoreKeyCategories, schema.DecodeCategories)
}

// Save 覆盖写入全部分类
func (r *StoreCategoryRepository) Save(ctx context.Context, categories []models.Category) error {
	if categories == nil {
		categories = []models.Category{}
	}
	return saveDocument(ctx, r.store, constants.StoreKeyCategories, categories)
}
