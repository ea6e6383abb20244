package constants

// 优惠类型
const (
	DiscountTypeFlat    = "flat"
	DiscountTypePercent = "percent"
)

// NoCouponCode 未使用优惠券时的占位编码
const NoCouponCode = "NONE"

// 文档存储键（沿用前端本地存储的键名）
const (
	StoreKeyCoupons       = "admin_coupons_v1"
	StoreKeyCategories    = "admin_categories_v1"
	StoreKeyProducts      = "admin_products_v1"
	StoreKeyCartPrefix    = "cart:"
	StoreKeyAppliedPrefix = "cart_applied_coupon:"
)

// 变更通知主题
const (
	TopicCouponsUpdated    = "coupons-updated"
	TopicCategoriesUpdated = "categories-updated"
	TopicProductsUpdated   = "products-updated"
	TopicCartUpdated       = "cart-updated"
)

// 订单
const (
	OrderStatusPlaced    = "placed"
	PaymentMethodCOD     = "Cash on Delivery (COD)"
	OrderNoPrefix        = "TK"
	UserCartSessionFmt   = "user:%d"
	CartSessionHeader    = "X-Cart-Session"
	DefaultCurrencySign  = "₹"
	DefaultLatestOrders  = 5
	DefaultCartLineLimit = 99
)

// 队列
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型
const (
	TaskCartReconcileCoupons = "cart:reconcile_coupons"
	TaskOrderPlaced          = "order:placed"
)
