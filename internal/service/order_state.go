package service

import (
	"context"
	"fmt"

	"github.com/triaxx-pos/internal/constants"
	"github.com/triaxx-pos/internal/metrics"
	"github.com/triaxx-pos/internal/models"

	"gorm.io/gorm"
)

// transitionRule 校验当前状态能否迁移到目标状态
type transitionRule func(current string) error

// serveRule Pending -> Served
func serveRule(current string) error {
	if current != constants.OrderStatusPending {
		return ErrInvalidOrderState
	}
	return nil
}

// completeRule 已完成或已取消的订单不能再完成
func completeRule(current string) error {
	switch current {
	case constants.OrderStatusCompleted:
		return ErrAlreadyCompleted
	case constants.OrderStatusCancelled:
		return ErrCannotCompleteCancelled
	}
	return nil
}

// cancelRule 已取消或已完成的订单不能再取消
func cancelRule(current string) error {
	switch current {
	case constants.OrderStatusCancelled:
		return ErrAlreadyCancelled
	case constants.OrderStatusCompleted:
		return ErrCannotCancelCompleted
	}
	return nil
}

// Serve 上菜
func (s *OrderService) Serve(ctx context.Context, p Principal, orderID uint) (*models.Order, error) {
	order, err := s.transition(p, orderID, serveRule, constants.OrderStatusServed)
	metrics.RecordSettlementOperation("serve", err == nil)
	return order, err
}

// Complete 完成订单，状态同步到全部订单项
func (s *OrderService) Complete(ctx context.Context, p Principal, orderID uint) (*models.Order, error) {
	order, err := s.transition(p, orderID, completeRule, constants.OrderStatusCompleted)
	metrics.RecordSettlementOperation("complete", err == nil)
	if err != nil {
		return nil, err
	}
	s.notifier.OrderStatusChanged(ctx, order, constants.EventOrderCompleted)
	return order, nil
}

// Cancel 取消订单，状态同步到全部订单项
func (s *OrderService) Cancel(ctx context.Context, p Principal, orderID uint) (*models.Order, error) {
	order, err := s.transition(p, orderID, cancelRule, constants.OrderStatusCancelled)
	metrics.RecordSettlementOperation("cancel", err == nil)
	if err != nil {
		return nil, err
	}
	s.notifier.OrderStatusChanged(ctx, order, constants.EventOrderCancelled)
	return order, nil
}

// transition 先校验所有权与迁移规则，再在事务内条件更新订单与订单项
func (s *OrderService) transition(p Principal, orderID uint, rule transitionRule, target string) (*models.Order, error) {
	order, err := s.loadOwnedOrder(p, orderID)
	if err != nil {
		return nil, err
	}
	if err := rule(order.Status); err != nil {
		return nil, err
	}

	now := s.now()
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		orderRepo := s.orderRepo.WithTx(tx)
		updated, err := orderRepo.TransitionStatus(order.ID, order.Status, target, map[string]interface{}{
			"updated_by": p.UserID,
			"updated_at": now,
		})
		if err != nil {
			return fmt.Errorf("update order status: %w", err)
		}
		if !updated {
			// 状态已被并发请求修改，按最新状态给出错误
			latest, err := orderRepo.GetByID(order.ID)
			if err != nil {
				return fmt.Errorf("reload order: %w", err)
			}
			if latest == nil {
				return ErrOrderNotFound
			}
			if err := rule(latest.Status); err != nil {
				return err
			}
			return ErrInvalidOrderState
		}
		if err := orderRepo.UpdateItemsStatus(order.ID, target); err != nil {
			return fmt.Errorf("update order items status: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Status = target
	order.UpdatedBy = p.UserID
	order.UpdatedAt = now
	for i := range order.Items {
		order.Items[i].Status = target
	}
	return order, nil
}
