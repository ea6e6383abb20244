package shared

import (
	"errors"

	"github.com/tadka-labs/storefront/internal/http/response"
	"github.com/tadka-labs/storefront/internal/schema"
	"github.com/tadka-labs/storefront/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedError 业务错误到接口错误响应的映射。
type mappedError struct {
	target error
	code   int
	key    string
}

var serviceErrorRules = []mappedError{
	{target: service.ErrInvalidCredentials, code: response.CodeUnauthorized, key: "error.login_failed"},
	{target: service.ErrCaptchaRequired, code: response.CodeBadRequest, key: "error.captcha_required"},
	{target: service.ErrCaptchaInvalid, code: response.CodeBadRequest, key: "error.captcha_invalid"},

	{target: service.ErrCouponNotFound, code: response.CodeNotFound, key: "error.coupon_not_found"},
	{target: service.ErrCouponCodeRequired, code: response.CodeBadRequest, key: "error.coupon_code_required"},
	{target: service.ErrCouponCodeExists, code: response.CodeConflict, key: "error.coupon_code_exists"},
	{target: service.ErrCouponTypeInvalid, code: response.CodeBadRequest, key: "error.coupon_type_invalid"},
	{target: service.ErrCouponValueInvalid, code: response.CodeBadRequest, key: "error.coupon_value_invalid"},
	{target: service.ErrCouponPercentInvalid, code: response.CodeBadRequest, key: "error.coupon_percent_invalid"},
	{target: service.ErrCouponMinInvalid, code: response.CodeBadRequest, key: "error.coupon_min_invalid"},

	{target: service.ErrCategoryNotFound, code: response.CodeNotFound, key: "error.category_not_found"},
	{target: service.ErrCategoryTitleRequired, code: response.CodeBadRequest, key: "error.category_title_required"},
	{target: service.ErrCategoryExists, code: response.CodeConflict, key: "error.category_exists"},

	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrProductTitleRequired, code: response.CodeBadRequest, key: "error.product_title_required"},
	{target: service.ErrProductPriceInvalid, code: response.CodeBadRequest, key: "error.product_price_invalid"},

	{target: service.ErrCartSessionMissing, code: response.CodeBadRequest, key: "error.cart_session_missing"},
	{target: service.ErrCartEmpty, code: response.CodeBadRequest, key: "error.cart_empty"},
	{target: service.ErrCartQuantityInvalid, code: response.CodeBadRequest, key: "error.cart_quantity_invalid"},

	{target: service.ErrCheckoutNameRequired, code: response.CodeBadRequest, key: "error.checkout_name_required"},
	{target: service.ErrCheckoutMobileRequired, code: response.CodeBadRequest, key: "error.checkout_mobile_required"},
	{target: service.ErrCheckoutStreetRequired, code: response.CodeBadRequest, key: "error.checkout_street_required"},

	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrNotFound, code: response.CodeNotFound, key: "error.not_found"},
}

// RespondServiceError 按业务错误类型返回响应，未识别的错误记录日志并返回 fallbackKey。
func RespondServiceError(c *gin.Context, err error, fallbackKey string) {
	for _, rule := range serviceErrorRules {
		if errors.Is(err, rule.target) {
			RespondError(c, rule.code, rule.key, nil)
			return
		}
	}
	if errors.Is(err, schema.ErrCorrupt) {
		RespondError(c, response.CodeInternal, "error.store_corrupt", err)
		return
	}
	if fallbackKey == "" {
		fallbackKey = "error.internal"
	}
	RespondError(c, response.CodeInternal, fallbackKey, err)
}
