package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/triaxx-pos/internal/constants"
	"github.com/triaxx-pos/internal/models"
	"github.com/triaxx-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// SettlementRecorder 支付成功后写入结算流水并回写订单
type SettlementRecorder struct {
	orderRepo repository.OrderRepository
	txnRepo   repository.TransactionRepository
	now       func() time.Time
}

// NewSettlementRecorder 创建结算记录器
func NewSettlementRecorder(orderRepo repository.OrderRepository, txnRepo repository.TransactionRepository) *SettlementRecorder {
	return &SettlementRecorder{
		orderRepo: orderRepo,
		txnRepo:   txnRepo,
		now:       time.Now,
	}
}

// CanonicalTransactionMethod 收银端支付方式映射为流水支付方式，未知方式按现金记录
func CanonicalTransactionMethod(method string) string {
	switch strings.TrimSpace(method) {
	case constants.PaymentMethodCard:
		return constants.TransactionMethodBankCard
	case constants.PaymentMethodMobileMoney:
		return constants.TransactionMethodMobileMoney
	default:
		return constants.TransactionMethodCash
	}
}

// Record 为订单写入一条结算流水。订单无顾客或已关联流水时返回 nil。
// 写流水与回写订单在同一事务内完成：tx 为空时自行开启事务
func (r *SettlementRecorder) Record(tx *gorm.DB, order *models.Order, method string, actorID uint) (*models.CustomerTransaction, error) {
	if order == nil || !order.HasCustomer() || order.TransactionID != nil {
		return nil, nil
	}
	if tx != nil {
		return r.record(tx, order, method, actorID)
	}

	var txn *models.CustomerTransaction
	err := models.DB.Transaction(func(inner *gorm.DB) error {
		var err error
		txn, err = r.record(inner, order, method, actorID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

func (r *SettlementRecorder) record(tx *gorm.DB, order *models.Order, method string, actorID uint) (*models.CustomerTransaction, error) {
	orderRepo := r.orderRepo.WithTx(tx)
	txnRepo := r.txnRepo.WithTx(tx)

	currency := strings.TrimSpace(order.Currency)
	if currency == "" {
		currency = constants.DefaultCurrency
	}
	orderID := order.ID
	now := r.now()
	txn := &models.CustomerTransaction{
		MerchantID:        order.RestaurantID,
		OrderID:           &orderID,
		CustomerID:        *order.CustomerID,
		TransactionAmount: models.NewMoney(order.Total.Decimal),
		PaymentMethodUsed: CanonicalTransactionMethod(method),
		PaymentProvider:   constants.TransactionProviderInHouse,
		MerchantReference: uuid.NewString(),
		TransactionStatus: constants.TransactionStatusSuccess,
		SettlementStatus:  constants.SettlementStatusNotSettled,
		ProviderFee:       models.NewMoney(decimal.Zero),
		MerchantReceives:  models.NewMoney(order.Total.Decimal),
		Currency:          currency,
		CreatedBy:         actorID,
		UpdatedBy:         actorID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := txnRepo.Create(txn); err != nil {
		return nil, fmt.Errorf("create customer transaction: %w", err)
	}

	attached, err := orderRepo.AttachTransaction(order.ID, txn.ID)
	if err != nil {
		return nil, fmt.Errorf("attach transaction to order: %w", err)
	}
	if !attached {
		// 并发写入已关联其他流水，由调用方回滚本次写入
		return nil, ErrAlreadyPaid
	}
	order.TransactionID = &txn.ID
	return txn, nil
}
