package i18n

var messages = map[string]map[string]string{
	LocaleEN: {
		"error.bad_request":              "Invalid request",
		"error.internal":                 "Internal server error",
		"error.not_found":                "Not found",
		"error.unauthorized":             "Unauthorized",
		"error.forbidden":                "Permission denied",
		"error.jwt_secret_missing":       "Token secret is not configured",
		"error.auth_header_missing":      "Authorization header is missing",
		"error.auth_header_invalid":      "Authorization header is invalid",
		"error.token_invalid":            "Token is invalid or expired",
		"error.token_revoked":            "Token has been revoked",
		"error.admin_id_invalid":         "Invalid admin id",
		"error.admin_id_type_invalid":    "Invalid admin id type",
		"error.login_failed":             "Invalid email or password",
		"error.login_too_many":           "Too many login attempts, please retry in %d seconds",
		"error.rate_limited":             "Too many requests, please retry in %d seconds",
		"error.rate_limit_unavailable":   "Rate limiter is unavailable",
		"error.captcha_required":         "Captcha is required",
		"error.captcha_invalid":          "Captcha is incorrect",
		"error.captcha_generate_failed":  "Failed to generate captcha",
		"error.coupon_not_found":         "Coupon not found",
		"error.coupon_inactive":          "Coupon is inactive",
		"error.coupon_below_minimum":     "Minimum order value is %s%s",
		"error.coupon_code_required":     "Coupon code is required",
		"error.coupon_code_exists":       "Coupon code already exists",
		"error.coupon_type_invalid":      "Discount type must be flat or percent",
		"error.coupon_value_invalid":     "Discount value must be zero or more",
		"error.coupon_percent_invalid":   "Percent discount must be between 0 and 100",
		"error.coupon_min_invalid":       "Minimum subtotal must be zero or more",
		"error.category_not_found":       "Category not found",
		"error.category_title_required":  "Category title is required",
		"error.category_exists":          "Category already exists",
		"error.product_not_found":        "Product not found",
		"error.product_title_required":   "Product title is required",
		"error.product_price_invalid":    "Price must be a whole amount of zero or more",
		"error.cart_session_missing":     "Cart session is missing",
		"error.cart_empty":               "Your cart is empty",
		"error.cart_quantity_invalid":    "Quantity is out of range",
		"error.checkout_name_required":   "Full name is required",
		"error.checkout_mobile_required": "Mobile number is required",
		"error.checkout_street_required": "Street address is required",
		"error.store_corrupt":            "Stored data could not be read",
		"error.order_not_found":          "Order not found",
		"coupon.applied":                 "Coupon applied successfully",
		"coupon.cleared":                 "Coupon removed",
		"order.placed":                   "Order placed successfully",
	},
	LocaleZH: {
		"error.bad_request":              "请求参数错误",
		"error.internal":                 "服务器内部错误",
		"error.not_found":                "资源不存在",
		"error.unauthorized":             "未登录或登录已失效",
		"error.forbidden":                "没有权限",
		"error.jwt_secret_missing":       "未配置令牌密钥",
		"error.auth_header_missing":      "缺少 Authorization 请求头",
		"error.auth_header_invalid":      "Authorization 请求头格式错误",
		"error.token_invalid":            "令牌无效或已过期",
		"error.token_revoked":            "令牌已失效",
		"error.admin_id_invalid":         "管理员 ID 无效",
		"error.admin_id_type_invalid":    "管理员 ID 类型错误",
		"error.login_failed":             "邮箱或密码错误",
		"error.login_too_many":           "登录尝试过多，请 %d 秒后重试",
		"error.rate_limited":             "请求过于频繁，请 %d 秒后重试",
		"error.rate_limit_unavailable":   "限流服务不可用",
		"error.captcha_required":         "请输入验证码",
		"error.captcha_invalid":          "验证码错误",
		"error.captcha_generate_failed":  "验证码生成失败",
		"error.coupon_not_found":         "优惠券不存在",
		"error.coupon_inactive":          "优惠券未启用",
		"error.coupon_below_minimum":     "订单满 %s%s 才可使用",
		"error.coupon_code_required":     "请填写优惠码",
		"error.coupon_code_exists":       "优惠码已存在",
		"error.coupon_type_invalid":      "优惠类型只能是 flat 或 percent",
		"error.coupon_value_invalid":     "优惠值不能为负数",
		"error.coupon_percent_invalid":   "折扣百分比必须在 0 到 100 之间",
		"error.coupon_min_invalid":       "使用门槛不能为负数",
		"error.category_not_found":       "分类不存在",
		"error.category_title_required":  "请填写分类名称",
		"error.category_exists":          "分类已存在",
		"error.product_not_found":        "菜品不存在",
		"error.product_title_required":   "请填写菜品名称",
		"error.product_price_invalid":    "价格须为非负整数",
		"error.cart_session_missing":     "缺少购物车会话",
		"error.cart_empty":               "购物车为空",
		"error.cart_quantity_invalid":    "数量超出范围",
		"error.checkout_name_required":   "请填写收货人姓名",
		"error.checkout_mobile_required": "请填写手机号",
		"error.checkout_street_required": "请填写街道地址",
		"error.store_corrupt":            "存储数据无法读取",
		"error.order_not_found":          "订单不存在",
		"coupon.applied":                 "优惠券使用成功",
		"coupon.cleared":                 "已取消优惠券",
		"order.placed":                   "下单成功",
	},
}
