package repository

import (
	"errors"
	"strings"

	"github.com/triaxx-pos/internal/constants"
	"github.com/triaxx-pos/internal/models"

	"gorm.io/gorm"
)

// OrderRepository 订单数据访问接口
type OrderRepository interface {
	Create(order *models.Order, items []models.OrderItem) error
	GetByID(id uint) (*models.Order, error)
	GetByActiveLinkDigest(digest string) (*models.Order, error)
	List(filter OrderListFilter) ([]models.Order, int64, error)
	TransitionStatus(id uint, from, to string, updates map[string]interface{}) (bool, error)
	UpdateItemsStatus(orderID uint, status string) error
	UpdateFields(id uint, updates map[string]interface{}) error
	MarkPaid(id uint, updates map[string]interface{}) (bool, error)
	UpdateUnpaid(id uint, updates map[string]interface{}) (bool, error)
	AttachTransaction(id uint, transactionID uint) (bool, error)
	WithTx(tx *gorm.DB) *GormOrderRepository
}

// GormOrderRepository GORM 实现
type GormOrderRepository struct {
	db *gorm.DB
}

// NewOrderRepository 创建订单仓库
func NewOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormOrderRepository) WithTx(tx *gorm.DB) *GormOrderRepository {
	if tx == nil {
		return r
	}
	return &GormOrderRepository{db: tx}
}

// Create 创建订单与订单项
func (r *GormOrderRepository) Create(order *models.Order, items []models.OrderItem) error {
	if err := r.db.Omit("Items").Create(order).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if len(items) > 0 {
		if err := r.db.Create(&items).Error; err != nil {
			return err
		}
	}
	order.Items = items
	return nil
}

// GetByID 根据 ID 获取订单（含订单项），不存在时返回 nil
func (r *GormOrderRepository) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := r.db.Preload("Items", orderItemsOrdered).First(&order, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// GetByActiveLinkDigest 根据支付链接令牌摘要查找持有可用链接的订单
func (r *GormOrderRepository) GetByActiveLinkDigest(digest string) (*models.Order, error) {
	digest = strings.TrimSpace(digest)
	if digest == "" {
		return nil, nil
	}
	var order models.Order
	err := r.db.Preload("Items", orderItemsOrdered).
		Where("payment_link_token_digest = ? AND payment_link_is_active = ?", digest, true).
		First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// List 分页查询订单
func (r *GormOrderRepository) List(filter OrderListFilter) ([]models.Order, int64, error) {
	query := r.db.Model(&models.Order{})
	if filter.RestaurantID != 0 {
		query = query.Where("restaurant_id = ?", filter.RestaurantID)
	}
	if status := strings.TrimSpace(filter.Status); status != "" {
		query = query.Where("status = ?", status)
	}
	if status := strings.TrimSpace(filter.PaymentStatus); status != "" {
		query = query.Where("payment_status = ?", status)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var orders []models.Order
	query = applyPagination(query, filter.Page, filter.PageSize)
	if err := query.Preload("Items", orderItemsOrdered).Order("id desc").Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// TransitionStatus 条件更新订单状态：仅当当前状态等于 from 时写入
func (r *GormOrderRepository) TransitionStatus(id uint, from, to string, updates map[string]interface{}) (bool, error) {
	values := copyUpdates(updates)
	values["status"] = to
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(values)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// UpdateItemsStatus 同步订单项状态
func (r *GormOrderRepository) UpdateItemsStatus(orderID uint, status string) error {
	return r.db.Model(&models.OrderItem{}).
		Where("order_id = ?", orderID).
		Update("status", status).Error
}

// UpdateFields 按字段更新订单
func (r *GormOrderRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	if len(updates) == 0 {
		return nil
	}
	return r.db.Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
}

// MarkPaid 以 payment_status = Pending 为前置条件写入支付成功，返回是否抢占成功
func (r *GormOrderRepository) MarkPaid(id uint, updates map[string]interface{}) (bool, error) {
	values := copyUpdates(updates)
	values["payment_status"] = constants.PaymentStatusSuccess
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", id, constants.PaymentStatusPending).
		Updates(values)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// UpdateUnpaid 仅当订单仍未支付时更新字段，返回是否写入
func (r *GormOrderRepository) UpdateUnpaid(id uint, updates map[string]interface{}) (bool, error) {
	if len(updates) == 0 {
		return false, nil
	}
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND payment_status = ?", id, constants.PaymentStatusPending).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// AttachTransaction 回写结算流水ID（仅在尚未关联时写入）
func (r *GormOrderRepository) AttachTransaction(id uint, transactionID uint) (bool, error) {
	result := r.db.Model(&models.Order{}).
		Where("id = ? AND transaction_id IS NULL", id).
		Update("transaction_id", transactionID)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func orderItemsOrdered(db *gorm.DB) *gorm.DB {
	return db.Order("id asc")
}

func copyUpdates(updates map[string]interface{}) map[string]interface{} {
	values := make(map[string]interface{}, len(updates)+1)
	for k, v := range updates {
		values[k] = v
	}
	return values
}
