package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tadka-labs/storefront/internal/constants"
	"github.com/tadka-labs/storefront/internal/models"
)

// NormalizeDiscountType 归一化优惠类型，未知值返回 false
func NormalizeDiscountType(raw string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "flat", "fixed", "amount":
		return constants.DiscountTypeFlat, true
	case "percent", "percentage", "pct", "%":
		return constants.DiscountTypePercent, true
	default:
		return "", false
	}
}

// DecodeCoupons 解码优惠券集合
func DecodeCoupons(raw []byte) ([]models.Coupon, int, error) {
	version, payload, err := unwrap(raw)
	if err != nil || isEmpty(payload) {
		return nil, version, err
	}
	if version == CurrentVersion {
		var coupons []models.Coupon
		if err := json.Unmarshal(payload, &coupons); err != nil {
			return nil, version, fmt.Errorf("%w: coupons: %v", ErrCorrupt, err)
		}
		return coupons, version, nil
	}

	var legacy []legacyObject
	if err := json.Unmarshal(payload, &legacy); err != nil {
		return nil, version, fmt.Errorf("%w: legacy coupons: %v", ErrCorrupt, err)
	}
	coupons := make([]models.Coupon, 0, len(legacy))
	for _, item := range legacy {
		if item == nil {
			continue
		}
		code := models.NormalizeCouponCode(item.str("code"))
		if code == "" || code == constants.NoCouponCode {
			continue
		}
		discountType, ok := NormalizeDiscountType(item.str("discountType", "type"))
		if !ok {
			discountType = constants.DiscountTypeFlat
		}
		id := item.str("id")
		if id == "" {
			id = newID()
		}
		title := item.str("title", "label", "name")
		if title == "" {
			title = code
		}
		coupons = append(coupons, models.Coupon{
			ID:            id,
			Title:         title,
			Code:          code,
			Description:   item.str("description", "desc"),
			DiscountType:  discountType,
			DiscountValue: item.money("discountValue", "discount", "value"),
			MinSubtotal:   item.money("minSubtotal", "minTotal", "min"),
			Active:        item.boolean(true, "active", "isActive"),
		})
	}
	return coupons, version, nil
}

// DecodeCategories 解码分类集合，历史数据可能是字符串数组
func DecodeCategories(raw []byte) ([]models.Category, int, error) {
	version, payload, err := unwrap(raw)
	if err != nil || isEmpty(payload) {
		return nil, version, err
	}
	if version == CurrentVersion {
		var categories []models.Category
		if err := json.Unmarshal(payload, &categories); err != nil {
			return nil, version, fmt.Errorf("%w: categories: %v", ErrCorrupt, err)
		}
		return categories, version, nil
	}

	var legacy []json.RawMessage
	if err := json.Unmarshal(payload, &legacy); err != nil {
		return nil, version, fmt.Errorf("%w: legacy categories: %v", ErrCorrupt, err)
	}
	categories := make([]models.Category, 0, len(legacy))
	for _, entry := range legacy {
		var title string
		if err := json.Unmarshal(entry, &title); err == nil {
			title = strings.TrimSpace(title)
			if title != "" {
				categories = append(categories, models.Category{ID: newID(), Title: title})
			}
			continue
		}
		var obj legacyObject
		if err := json.Unmarshal(entry, &obj); err != nil || obj == nil {
			continue
		}
		title = obj.str("title", "name")
		if title == "" {
			continue
		}
		id := obj.str("id")
		if id == "" {
			id = newID()
		}
		categories = append(categories, models.Category{ID: id, Title: title, Image: obj.str("image", "img")})
	}
	return categories, version, nil
}

// DecodeProducts 解码菜品集合
func DecodeProducts(raw []byte) ([]models.Product, int, error) {
	version, payload, err := unwrap(raw)
	if err != nil || isEmpty(payload) {
		return nil, version, err
	}
	if version == CurrentVersion {
		var products []models.Product
		if err := json.Unmarshal(payload, &products); err != nil {
			return nil, version, fmt.Errorf("%w: products: %v", ErrCorrupt, err)
		}
		return products, version, nil
	}

	var legacy []legacyObject
	if err := json.Unmarshal(payload, &legacy); err != nil {
		return nil, version, fmt.Errorf("%w: legacy products: %v", ErrCorrupt, err)
	}
	products := make([]models.Product, 0, len(legacy))
	for _, item := range legacy {
		if item == nil {
			continue
		}
		title := item.str("title", "name")
		if title == "" {
			continue
		}
		id := item.str("id")
		if id == "" {
			id = newID()
		}
		products = append(products, models.Product{
			ID:            id,
			Title:         title,
			Description:   item.str("description", "desc"),
			Image:         item.str("image", "img"),
			Price:         item.money("price"),
			OriginalPrice: item.money("originalPrice", "original"),
			Category:      item.str("category"),
			Featured:      item.boolean(false, "featured"),
		})
	}
	return products, version, nil
}

// DecodeCart 解码购物车行，按商品合并并丢弃数量非正的行
func DecodeCart(raw []byte) ([]models.CartLine, int, error) {
	version, payload, err := unwrap(raw)
	if err != nil || isEmpty(payload) {
		return nil, version, err
	}
	var lines []models.CartLine
	if version == CurrentVersion {
		if err := json.Unmarshal(payload, &lines); err != nil {
			return nil, version, fmt.Errorf("%w: cart: %v", ErrCorrupt, err)
		}
	} else {
		var legacy []legacyObject
		if err := json.Unmarshal(payload, &legacy); err != nil {
			return nil, version, fmt.Errorf("%w: legacy cart: %v", ErrCorrupt, err)
		}
		for _, item := range legacy {
			if item == nil {
				continue
			}
			lines = append(lines, models.CartLine{
				ProductID: item.str("productId", "id"),
				Title:     item.str("title", "name"),
				Image:     item.str("image", "img"),
				UnitPrice: item.money("unitPrice", "price"),
				Quantity:  item.integer(1, "quantity", "qty"),
			})
		}
	}
	return MergeCartLines(lines), version, nil
}

// MergeCartLines 合并同一商品的行并保持首次出现的顺序
func MergeCartLines(lines []models.CartLine) []models.CartLine {
	merged := make([]models.CartLine, 0, len(lines))
	index := make(map[string]int, len(lines))
	for _, line := range lines {
		if line.ProductID == "" {
			continue
		}
		if pos, ok := index[line.ProductID]; ok {
			merged[pos].Quantity += line.Quantity
			continue
		}
		index[line.ProductID] = len(merged)
		merged = append(merged, line)
	}
	kept := merged[:0]
	for _, line := range merged {
		if line.Quantity > 0 {
			kept = append(kept, line)
		}
	}
	return kept
}

// DecodeApplied 解码已选优惠券，空值视为未选
func DecodeApplied(raw []byte) (models.AppliedCoupon, int, error) {
	none := models.AppliedCoupon{Code: constants.NoCouponCode}
	version, payload, err := unwrap(raw)
	if err != nil || isEmpty(payload) {
		return none, version, err
	}
	var obj legacyObject
	if err := json.Unmarshal(payload, &obj); err != nil {
		return none, version, fmt.Errorf("%w: applied coupon: %v", ErrCorrupt, err)
	}
	code := models.NormalizeCouponCode(obj.str("code"))
	if code == "" || code == constants.NoCouponCode {
		return none, version, nil
	}
	return models.AppliedCoupon{Code: code, Amount: obj.money("amount", "discount")}, version, nil
}
