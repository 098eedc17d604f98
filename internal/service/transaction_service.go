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

// TransactionService 结算流水查询与状态维护
type TransactionService struct {
	txnRepo   repository.TransactionRepository
	orderRepo repository.OrderRepository
	currency  string
	now       func() time.Time
}

// NewTransactionService 创建流水服务
func NewTransactionService(txnRepo repository.TransactionRepository, orderRepo repository.OrderRepository, currency string) *TransactionService {
	currency = strings.TrimSpace(currency)
	if currency == "" {
		currency = constants.DefaultCurrency
	}
	return &TransactionService{
		txnRepo:   txnRepo,
		orderRepo: orderRepo,
		currency:  currency,
		now:       time.Now,
	}
}

// RecordTransactionInput 手工补录流水输入
type RecordTransactionInput struct {
	MerchantID        uint
	OrderID           *uint
	CustomerID        uint
	Amount            decimal.Decimal
	PaymentMethod     string
	PaymentProvider   string
	ProviderReference string
	Currency          string
	Notes             string
}

// TransactionPatch 流水状态补丁，仅应用非空字段
type TransactionPatch struct {
	TransactionStatus *string
	SettlementStatus  *string
}

var (
	transactionMethods = map[string]struct{}{
		constants.TransactionMethodCash:        {},
		constants.TransactionMethodBankCard:    {},
		constants.TransactionMethodMobileMoney: {},
		constants.TransactionMethodWallet:      {},
		constants.TransactionMethodCheck:       {},
	}
	transactionStatuses = map[string]struct{}{
		constants.TransactionStatusPending:  {},
		constants.TransactionStatusSuccess:  {},
		constants.TransactionStatusFailed:   {},
		constants.TransactionStatusReversed: {},
	}
	settlementStatuses = map[string]struct{}{
		constants.SettlementStatusNotSettled:       {},
		constants.SettlementStatusSettled:          {},
		constants.SettlementStatusPartiallySettled: {},
	}
)

// Record 手工补录一条待确认流水。关联订单时同一事务内回写订单，每个订单最多一条流水
func (s *TransactionService) Record(p Principal, input RecordTransactionInput) (*models.CustomerTransaction, error) {
	merchantID := input.MerchantID
	if p.RestaurantScoped() {
		merchantID = p.UserID
	}
	method := strings.TrimSpace(input.PaymentMethod)
	if merchantID == 0 || input.CustomerID == 0 || !input.Amount.IsPositive() {
		return nil, ErrInvalidTransactionInput
	}
	if _, ok := transactionMethods[method]; !ok {
		return nil, ErrInvalidPaymentMethod
	}
	if input.OrderID != nil {
		order, err := s.orderRepo.GetByID(*input.OrderID)
		if err != nil {
			return nil, fmt.Errorf("load order %d: %w", *input.OrderID, err)
		}
		if order == nil {
			return nil, ErrOrderNotFound
		}
		if order.RestaurantID != merchantID {
			return nil, ErrForbidden
		}
		if order.TransactionID != nil {
			return nil, ErrTransactionExists
		}
	}

	currency := strings.TrimSpace(input.Currency)
	if currency == "" {
		currency = s.currency
	}
	provider := strings.TrimSpace(input.PaymentProvider)
	if provider == "" {
		provider = constants.TransactionProviderInHouse
	}
	now := s.now()
	txn := &models.CustomerTransaction{
		MerchantID:        merchantID,
		OrderID:           input.OrderID,
		CustomerID:        input.CustomerID,
		TransactionAmount: models.NewMoney(input.Amount),
		PaymentMethodUsed: method,
		PaymentProvider:   provider,
		MerchantReference: uuid.NewString(),
		ProviderReference: strings.TrimSpace(input.ProviderReference),
		TransactionStatus: constants.TransactionStatusPending,
		SettlementStatus:  constants.SettlementStatusNotSettled,
		ProviderFee:       models.NewMoney(decimal.Zero),
		MerchantReceives:  models.NewMoney(input.Amount),
		Currency:          currency,
		Notes:             strings.TrimSpace(input.Notes),
		CreatedBy:         p.UserID,
		UpdatedBy:         p.UserID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.txnRepo.WithTx(tx).Create(txn); err != nil {
			return fmt.Errorf("create customer transaction: %w", err)
		}
		if input.OrderID == nil {
			return nil
		}
		attached, err := s.orderRepo.WithTx(tx).AttachTransaction(*input.OrderID, txn.ID)
		if err != nil {
			return fmt.Errorf("attach transaction to order: %w", err)
		}
		if !attached {
			return ErrTransactionExists
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// GetByID 查询流水
func (s *TransactionService) GetByID(p Principal, id uint) (*models.CustomerTransaction, error) {
	txn, err := s.txnRepo.GetByID(id)
	if err != nil {
		return nil, fmt.Errorf("load transaction %d: %w", id, err)
	}
	if txn == nil {
		return nil, ErrTransactionNotFound
	}
	if p.RestaurantScoped() && txn.MerchantID != p.UserID {
		return nil, ErrForbidden
	}
	return txn, nil
}

// ListByMerchant 分页查询商户流水
func (s *TransactionService) ListByMerchant(p Principal, filter repository.TransactionListFilter) ([]models.CustomerTransaction, int64, error) {
	if filter.MerchantID == 0 {
		return nil, 0, ErrInvalidTransactionInput
	}
	if p.RestaurantScoped() && filter.MerchantID != p.UserID {
		return nil, 0, ErrForbidden
	}
	return s.txnRepo.ListByMerchant(filter)
}

// UpdateStatus 按补丁更新流水状态，标记已结算时写入结算时间
func (s *TransactionService) UpdateStatus(p Principal, id uint, patch TransactionPatch) (*models.CustomerTransaction, error) {
	txn, err := s.GetByID(p, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	updates := map[string]interface{}{}
	if patch.TransactionStatus != nil {
		status := strings.TrimSpace(*patch.TransactionStatus)
		if _, ok := transactionStatuses[status]; !ok {
			return nil, ErrInvalidTransactionStatus
		}
		updates["transaction_status"] = status
		txn.TransactionStatus = status
	}
	if patch.SettlementStatus != nil {
		status := strings.TrimSpace(*patch.SettlementStatus)
		if _, ok := settlementStatuses[status]; !ok {
			return nil, ErrInvalidTransactionStatus
		}
		updates["settlement_status"] = status
		txn.SettlementStatus = status
		if status == constants.SettlementStatusSettled {
			updates["settlement_date"] = now
			txn.SettlementDate = &now
		}
	}
	if len(updates) == 0 {
		return txn, nil
	}
	updates["updated_by"] = p.UserID
	updates["updated_at"] = now
	if err := s.txnRepo.UpdateStatus(txn.ID, updates); err != nil {
		return nil, fmt.Errorf("update transaction %d: %w", txn.ID, err)
	}
	txn.UpdatedBy = p.UserID
	txn.UpdatedAt = now
	return txn, nil
}

// MarkSettled 自动结算：只处理成功且未结算的流水，重复调用无副作用
func (s *TransactionService) MarkSettled(id uint) (bool, error) {
	txn, err := s.txnRepo.GetByID(id)
	if err != nil {
		return false, fmt.Errorf("load transaction %d: %w", id, err)
	}
	if txn == nil {
		return false, ErrTransactionNotFound
	}
	if txn.TransactionStatus != constants.TransactionStatusSuccess {
		return false, nil
	}
	return s.txnRepo.MarkSettled(id, s.now())
}
