package models

import (
	"time"

	"github.com/triaxx-pos/internal/constants"
)

// Order 订单表（一次堂食/外带消费）
type Order struct {
	ID             uint          `gorm:"primarykey" json:"id"`                                       // 主键
	RestaurantID   uint          `gorm:"index;not null" json:"restaurant_id"`                        // 所属餐厅
	CustomerID     *uint         `gorm:"index" json:"customer_id,omitempty"`                         // 顾客ID
	TableNo        string        `gorm:"type:varchar(32)" json:"table_no,omitempty"`                 // 桌号
	Status         string        `gorm:"type:varchar(20);index;not null" json:"status"`              // 订单状态
	PaymentStatus  string        `gorm:"type:varchar(20);index;not null" json:"payment_status"`      // 支付状态
	Currency       string        `gorm:"type:varchar(8);not null" json:"currency"`                   // 币种
	Tax            Money         `gorm:"type:decimal(20,2);not null;default:0" json:"tax"`           // 税费（固定金额）
	Subtotal       Money         `gorm:"type:decimal(20,2);not null;default:0" json:"subtotal"`      // 小计
	Total          Money         `gorm:"type:decimal(20,2);not null;default:0" json:"total"`         // 合计 = 小计 + 税费
	CouponCode     string        `gorm:"type:varchar(64)" json:"coupon_code,omitempty"`              // 使用的优惠码
	DiscountAmount *Money        `gorm:"type:decimal(20,2)" json:"discount_amount,omitempty"`        // 优惠金额
	FinalAmount    *Money        `gorm:"type:decimal(20,2)" json:"final_amount,omitempty"`           // 优惠后应付
	SplitPayments  SplitPayments `gorm:"type:json" json:"split_payments,omitempty"`                  // 拆分支付明细
	PaymentMethod  string        `gorm:"type:varchar(32)" json:"payment_method,omitempty"`           // 支付方式
	PaidAt         *time.Time    `gorm:"index" json:"paid_at,omitempty"`                             // 支付时间
	TransactionID  *uint         `gorm:"index" json:"transaction_id,omitempty"`                      // 结算流水ID
	PaymentLink    PaymentLink   `gorm:"embedded;embeddedPrefix:payment_link_" json:"-"`             // 当前支付链接
	CreatedBy      uint          `gorm:"not null;default:0" json:"created_by"`                       // 创建人
	UpdatedBy      uint          `gorm:"not null;default:0" json:"updated_by"`                       // 更新人
	CreatedAt      time.Time     `gorm:"index" json:"created_at"`                                    // 创建时间
	UpdatedAt      time.Time     `gorm:"index" json:"updated_at"`                                    // 更新时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 订单项
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}

// IsPaid 是否已完成支付
func (o *Order) IsPaid() bool {
	return o != nil && o.PaymentStatus == constants.PaymentStatusSuccess
}

// HasCustomer 是否关联顾客
func (o *Order) HasCustomer() bool {
	return o != nil && o.CustomerID != nil && *o.CustomerID != 0
}

// OrderItem 订单项表，归属于订单
type OrderItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`                          // 主键
	OrderID   uint      `gorm:"index;not null" json:"order_id"`                // 订单ID
	ItemID    uint      `gorm:"index;not null" json:"item_id"`                 // 菜品ID
	Quantity  int       `gorm:"not null" json:"quantity"`                      // 数量
	AddonID   *uint     `json:"addon_id,omitempty"`                            // 加料ID
	VariantID *uint     `json:"variant_id,omitempty"`                          // 规格ID
	Status    string    `gorm:"type:varchar(20);not null" json:"status"`       // 与订单同步的状态
	CreatedAt time.Time `json:"created_at"`                                    // 创建时间
	UpdatedAt time.Time `json:"updated_at"`                                    // 更新时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}

// PaymentLink 订单内嵌的支付链接，每个订单同时最多一条
type PaymentLink struct {
	TokenDigest    string      `gorm:"type:varchar(64);index"`     // 令牌摘要，原始令牌不落库
	Amount         Money       `gorm:"type:decimal(20,2)"`         // 签发时的应付金额快照
	Currency       string      `gorm:"type:varchar(8)"`            // 币种
	ExpiresAt      *time.Time  `gorm:"index"`                      // 过期时间
	AllowedMethods StringArray `gorm:"type:json"`                  // 允许的支付方式
	IsActive       bool        `gorm:"not null;default:false"`     // 是否可用
	CreatedBy      uint        `gorm:"not null;default:0"`         // 签发人
	IssuedAt       *time.Time                                      // 签发时间
}

// IsExpired 链接是否已过期（惰性判断，不修改状态）
func (l PaymentLink) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}

// AllowsMethod 是否允许该支付方式
func (l PaymentLink) AllowsMethod(method string) bool {
	return l.AllowedMethods.Contains(method)
}
