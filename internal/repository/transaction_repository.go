package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/triaxx-pos/internal/constants"
	"github.com/triaxx-pos/internal/models"

	"gorm.io/gorm"
)

// TransactionRepository 结算流水数据访问接口
type TransactionRepository interface {
	Create(txn *models.CustomerTransaction) error
	GetByID(id uint) (*models.CustomerTransaction, error)
	ListByMerchant(filter TransactionListFilter) ([]models.CustomerTransaction, int64, error)
	UpdateStatus(id uint, updates map[string]interface{}) error
	MarkSettled(id uint, settledAt time.Time) (bool, error)
	WithTx(tx *gorm.DB) *GormTransactionRepository
}

// GormTransactionRepository GORM 实现
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository 创建结算流水仓库
func NewTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// WithTx 绑定事务
func (r *GormTransactionRepository) WithTx(tx *gorm.DB) *GormTransactionRepository {
	if tx == nil {
		return r
	}
	return &GormTransactionRepository{db: tx}
}

// Create 写入流水
func (r *GormTransactionRepository) Create(txn *models.CustomerTransaction) error {
	return r.db.Create(txn).Error
}

// GetByID 根据 ID 获取流水，不存在时返回 nil
func (r *GormTransactionRepository) GetByID(id uint) (*models.CustomerTransaction, error) {
	var txn models.CustomerTransaction
	if err := r.db.First(&txn, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &txn, nil
}

// ListByMerchant 分页查询商户流水，按创建时间倒序
func (r *GormTransactionRepository) ListByMerchant(filter TransactionListFilter) ([]models.CustomerTransaction, int64, error) {
	query := r.db.Model(&models.CustomerTransaction{}).Where("merchant_id = ?", filter.MerchantID)
	if filter.OrderID != 0 {
		query = query.Where("order_id = ?", filter.OrderID)
	}
	if status := strings.TrimSpace(filter.SettlementStatus); status != "" {
		query = query.Where("settlement_status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var rows []models.CustomerTransaction
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Order("created_at desc").Order("id desc").Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// UpdateStatus 更新流水状态字段
func (r *GormTransactionRepository) UpdateStatus(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.CustomerTransaction{}).Where("id = ?", id).Updates(updates).Error
}

// MarkSettled 将未结算的流水标记为已结算，返回是否发生了更新
func (r *GormTransactionRepository) MarkSettled(id uint, settledAt time.Time) (bool, error) {
	result := r.db.Model(&models.CustomerTransaction{}).
		Where("id = ? AND settlement_status <> ?", id, constants.SettlementStatusSettled).
		Updates(map[string]interface{}{
			"settlement_status": constants.SettlementStatusSettled,
			"settlement_date":   settledAt,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}
