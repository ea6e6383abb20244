package repository

import (
	"context"
	"strings"

	"github.com/tadka-labs/storefront/internal/constants"
	"github.com/tadka-labs/storefront/internal/models"
	"github.com/tadka-labs/storefront/internal/schema"
)

// CartRepository 购物车与已选优惠券访问接口，按会话隔离
type CartRepository interface {
	GetLines(ctx context.Context, session string) ([]models.CartLine, error)
	SaveLines(ctx context.Context, session string, lines []models.CartLine) error
	GetApplied(ctx context.Context, session string) (models.AppliedCoupon, error)
	SaveApplied(ctx context.Context, session string, applied models.AppliedCoupon) error
	Clear(ctx context.Context, session string) error
	ListAppliedSessions(ctx context.Context) ([]string, error)
}

// StoreCartRepository 基于文档存储的实现
type StoreCartRepository struct {
	store StoreRepository
}

// NewCartRepository 创建购物车仓库
func NewCartRepository(store StoreRepository) *StoreCartRepository {
	return &StoreCartRepository{store: store}
}

func cartKey(session string) string {
	return constants.StoreKeyCartPrefix + session
}

func appliedKey(session string) string {
	return constants.StoreKeyAppliedPrefix + session
}

// GetLines 读取购物车行
func (r *StoreCartRepository) GetLines(ctx context.Context, session string) ([]models.CartLine, error) {
	return loadDocument(ctx, r.store, cartKey(session), schema.DecodeCart)
}

// SaveLines 写入购物车行，合并后为空则删除文档
func (r *StoreCartRepository) SaveLines(ctx context.Context, session string, lines []models.CartLine) error {
	merged := schema.MergeCartLines(lines)
	if len(merged) == 0 {
		return r.store.Delete(ctx, cartKey(session))
	}
	return saveDocument(ctx, r.store, cartKey(session), merged)
}

// GetApplied 读取已选优惠券，缺失视为未选
func (r *StoreCartRepository) GetApplied(ctx context.Context, session string) (models.AppliedCoupon, error) {
	return loadDocument(ctx, r.store, appliedKey(session), schema.DecodeApplied)
}

// SaveApplied 写入已选优惠券，未选状态直接删除文档
func (r *StoreCartRepository) SaveApplied(ctx context.Context, session string, applied models.AppliedCoupon) error {
	code := models.NormalizeCouponCode(applied.Code)
	if code == "" || code == constants.NoCouponCode {
		return r.store.Delete(ctx, appliedKey(session))
	}
	applied.Code = code
	return saveDocument(ctx, r.store, appliedKey(session), applied)
}

// Clear 清空购物车及已选优惠券
func (r *StoreCartRepository) Clear(ctx context.Context, session string) error {
	if err := r.store.Delete(ctx, cartKey(session)); err != nil {
		return err
	}
	return r.store.Delete(ctx, appliedKey(session))
}

// ListAppliedSessions 列出存在已选优惠券的会话
func (r *StoreCartRepository) ListAppliedSessions(ctx context.Context) ([]string, error) {
	keys, err := r.store.ListKeys(ctx, constants.StoreKeyAppliedPrefix)
	if err != nil {
		return nil, err
	}
	sessions := make([]string, 0, len(keys))
	for _, key := range keys {
		session := strings.TrimPrefix(key, constants.StoreKeyAppliedPrefix)
		if session != "" {
			sessions = append(sessions, session)
		}
	}
	return sessions, nil
}
