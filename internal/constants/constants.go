package constants

// 下单请求状态常量
const (
	OrderStatusSubmitted      = "submitted"
	OrderStatusPendingPayment = "pending_payment"
	OrderStatusExpired        = "expired"
	OrderStatusFailed         = "failed"
)

// 商品目录后端常量
const (
	CatalogBackendGraphQL = "graphql"
	CatalogBackendWoo     = "woo"
	CatalogBackendStrapi  = "strapi"
)

// 购物车存储驱动常量
const (
	CartStorageMemory   = "memory"
	CartStorageRedis    = "redis"
	CartStorageDatabase = "database"
)

// 结账校验失败原因
const (
	CheckoutReasonCartEmpty       = "cart_empty"
	CheckoutReasonProductNotFound = "product_not_found"
	CheckoutReasonVariantNotFound = "variant_not_found"
	CheckoutReasonOutOfStock      = "out_of_stock"
)

// 目录库存状态
const (
	StockStatusInStock = "IN_STOCK"
)

// 异步任务类型
const (
	TaskOrderTimeoutCancel = "order:timeout_cancel"
)

// 队列名称
const (
	QueueDefault = "default"
)
