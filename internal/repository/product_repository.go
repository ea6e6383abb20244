package repository

import (
	"context"

	"github.com/tadka-labs/storefront/internal/constants"
	"github.com/tadka-labs/storefront/internal/models"
	"github.com/tadka-labs/storefront/internal/schema"
)

// ProductRepository 菜品集合访问接口
type ProductRepository interface {
	List(ctx context.Context) ([]models.Product, error)
	Save(ctx context.Context, products []models.Product) error
}

// StoreProductRepository 基于文档存储的实现
type StoreProductRepository struct {
	store StoreRepository
}

// NewProductRepository 创建菜品仓库
func NewProductRepository(store StoreRepository) *StoreProductRepository {
	return &StoreProductRepository{store: store}
}

// List 读取全部菜品
func (r *StoreProductRepository) List(ctx context.Context) ([]models.Product, error) {
	return loadDocument(ctx, r.store, constants.StoreKeyProducts, schema.DecodeProducts)
}

// Save 覆盖写入全部菜品
func (r *StoreProductRepository) Save(ctx context.Context, products []models.Product) error {
	if products == nil {
		products = []models.Product{}
	}
	return saveDocument(ctx, r.store, constants.StoreKeyProducts, products)
}
