package models

import "time"

// CustomerTransaction 顾客结算流水（仅追加，创建后只允许修改状态）
type CustomerTransaction struct {
	ID                uint       `gorm:"primarykey" json:"id"`                                          // 主键
	MerchantID        uint       `gorm:"index;not null" json:"merchant_id"`                             // 商户（餐厅）ID
	OrderID           *uint      `gorm:"index" json:"order_id,omitempty"`                               // 订单ID
	CustomerID        uint       `gorm:"index;not null" json:"customer_id"`                             // 顾客ID
	TransactionAmount Money      `gorm:"type:decimal(20,2);not null;default:0" json:"transaction_amount"` // 交易金额
	PaymentMethodUsed string     `gorm:"type:varchar(20);not null" json:"payment_method_used"`          // 规范支付方式
	PaymentProvider   string     `gorm:"type:varchar(64)" json:"payment_provider,omitempty"`            // 支付提供方
	MerchantReference string     `gorm:"type:varchar(64);uniqueIndex" json:"merchant_reference"`        // 商户侧流水号
	ProviderReference string     `gorm:"type:varchar(128)" json:"provider_reference,omitempty"`         // 渠道侧流水号
	TransactionStatus string     `gorm:"type:varchar(20);index;not null" json:"transaction_status"`     // 交易状态
	SettlementStatus  string     `gorm:"type:varchar(20);index;not null" json:"settlement_status"`      // 结算状态
	SettlementDate    *time.Time `json:"settlement_date,omitempty"`                                     // 结算时间
	ProviderFee       Money      `gorm:"type:decimal(20,2);not null;default:0" json:"provider_fee"`     // 渠道手续费
	MerchantReceives  Money      `gorm:"type:decimal(20,2);not null;default:0" json:"merchant_receives"` // 商户实收
	Currency          string     `gorm:"type:varchar(8);not null" json:"currency"`                      // 币种
	Notes             string     `gorm:"type:text" json:"notes,omitempty"`                              // 备注
	CreatedBy         uint       `gorm:"not null;default:0" json:"created_by"`                          // 创建人
	UpdatedBy         uint       `gorm:"not null;default:0" json:"updated_by"`                          // 更新人
	CreatedAt         time.Time  `gorm:"index" json:"created_at"`                                       // 创建时间
	UpdatedAt         time.Time  `json:"updated_at"`                                                    // 更新时间
}

// TableName 指定表名
func (CustomerTransaction) TableName() string {
	return "customer_transactions"
}
