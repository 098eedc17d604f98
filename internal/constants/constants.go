package constants

// 订单状态常量
const (
	OrderStatusPending   = "Pending"
	OrderStatusServed    = "Served"
	OrderStatusCompleted = "Completed"
	OrderStatusCancelled = "Cancelled"
)

// 订单支付状态常量
const (
	PaymentStatusPending = "Pending"
	PaymentStatusSuccess = "Success"
)

// 收银端支付方式（调用方传入的名称）
const (
	PaymentMethodCash        = "Cash"
	PaymentMethodCard        = "Card"
	PaymentMethodMobileMoney = "Mobile_Money"
)

// 流水记录的规范支付方式
const (
	TransactionMethodCash        = "Cash"
	TransactionMethodBankCard    = "Bank_Card"
	TransactionMethodMobileMoney = "Mobile_Money"
	TransactionMethodWallet      = "Wallet"
	TransactionMethodCheck       = "Check"
)

// 流水状态常量
const (
	TransactionStatusPending  = "Pending"
	TransactionStatusSuccess  = "Success"
	TransactionStatusFailed   = "Failed"
	TransactionStatusReversed = "Reversed"
)

// 结算状态常量
const (
	SettlementStatusNotSettled       = "Not_Settled"
	SettlementStatusSettled          = "Settled"
	SettlementStatusPartiallySettled = "Partially_Settled"
)

// 优惠券类型
const (
	CouponTypePercentage = "percentage"
	CouponTypeFixed      = "fixed"
)

// 员工角色
const (
	RoleRestaurant = "restaurant"
	RoleEmployee   = "employee"
	RoleAdmin      = "admin"
)

// DefaultCurrency 默认币种（西非法郎）
const DefaultCurrency = "XOF"

// TransactionProviderInHouse 店内收款的支付提供方标识
const TransactionProviderInHouse = "in_house"

// 队列名称
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型
const (
	TaskTransactionAutoSettle = "transaction:auto_settle"
)

// 结算事件类型
const (
	EventOrderPaid      = "order.paid"
	EventOrderCompleted = "order.completed"
	EventOrderCancelled = "order.cancelled"
)
