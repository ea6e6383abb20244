package service

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrCaptchaRequired    = errors.New("captcha required")
	ErrCaptchaInvalid     = errors.New("captcha invalid")

	ErrCouponNotFound       = errors.New("coupon not found")
	ErrCouponCodeRequired   = errors.New("coupon code required")
	ErrCouponCodeExists     = errors.New("coupon code exists")
	ErrCouponTypeInvalid    = errors.New("coupon discount type invalid")
	ErrCouponValueInvalid   = errors.New("coupon discount value invalid")
	ErrCouponPercentInvalid = errors.New("coupon percent out of range")
	ErrCouponMinInvalid     = errors.New("coupon minimum subtotal invalid")

	ErrCategoryNotFound      = errors.New("category not found")
	ErrCategoryTitleRequired = errors.New("category title required")
	ErrCategoryExists        = errors.New("category exists")

	ErrProductNotFound      = errors.New("product not found")
	ErrProductTitleRequired = errors.New("product title required")
	ErrProductPriceInvalid  = errors.New("product price invalid")

	ErrCartSessionMissing  = errors.New("cart session missing")
	ErrCartEmpty           = errors.New("cart is empty")
	ErrCartQuantityInvalid = errors.New("cart quantity invalid")

	ErrCheckoutNameRequired   = errors.New("checkout full name required")
	ErrCheckoutMobileRequired = errors.New("checkout mobile required")
	ErrCheckoutStreetRequired = errors.New("checkout street required")

	ErrOrderNotFound = errors.New("order not found")
)
