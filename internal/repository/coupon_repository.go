package repository

import (
	"context"

	"github.com/tadka-labs/storefront/internal/constants"
	"github.com/tadka-labs/storefront/internal/models"
	"github.com/tadka-labs/storefront/internal/schema"
)

// CouponRepository 优惠券集合访问接口
type CouponRepository interface {
	List(ctx context.Context) ([]models.Coupon, error)
	Save(ctx context.Context, coupons []models.Coupon) error
}

// StoreCouponRepository 基于文档存储的实现，整个集合存为一个文档
type StoreCouponRepository struct {
	store StoreRepository
}

// NewCouponRepository 创建优惠券仓库
func NewCouponRepository(store StoreRepository) *StoreCouponRepository {
	return &StoreCouponRepository{store: store}
}

// List 读取全部优惠券，文档损坏时返回 schema.ErrCorrupt
func (r *StoreCouponRepository) List(ctx context.Context) ([]models.Coupon, error) {
	return loadDocument(ctx, r.store, constants.StoreKeyCoupons, schema.DecodeCoupons)
}

// Save 覆盖写入全部优惠券
func (r *StoreCouponRepository) Save(ctx context.Context, coupons []models.Coupon) error {
	if coupons == nil {
		coupons = []models.Coupon{}
	}
	return saveDocument(ctx, r.store, constants.StoreKeyCoupons, coupons)
}
