package repository

import "time"

// OrderListFilter 查询订单列表的过滤条件
type OrderListFilter struct {
	Page          int
	PageSize      int
	RestaurantID  uint
	Status        string
	PaymentStatus string
	CreatedFrom   *time.Time
	CreatedTo     *time.Time
}

// TransactionListFilter 查询结算流水的过滤条件
type TransactionListFilter struct {
	Page             int
	PageSize         int
	MerchantID       uint
	OrderID          uint
	SettlementStatus string
}
