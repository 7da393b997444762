package constants

// 订单状态常量
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
	OrderStatusRefunded  = "refunded"
)

// 库存调整路径常量
const (
	StockPathBatch       = "batch"
	StockPathTransaction = "transaction"
)

// 身份提供方常量
const (
	AuthProviderLocal    = "local"
	AuthProviderFirebase = "firebase"
)

// 后台角色常量
const (
	RoleAdmin   = "admin"
	RoleAuditor = "auditor"
)

// 销售分成比例（百分比），按每笔订单总额计算
const (
	RevenueShareAminePercent = 10
)

// 月度统计键格式
const MonthKeyLayout = "2006-01"

// 默认热销榜长度
const DefaultTopSellersLimit = 100

// 队列常量
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 队列任务类型
const (
	TaskOrderCreated = "order:created"
)
