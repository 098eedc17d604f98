package employee

import (
	"context"
	"strings"
	"time"

	handlershared "github.com/triaxx-pos/internal/http/handlers/shared"
	"github.com/triaxx-pos/internal/http/response"
	"github.com/triaxx-pos/internal/models"
	"github.com/triaxx-pos/internal/repository"
	"github.com/triaxx-pos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreateOrderItemRequest 下单项
type CreateOrderItemRequest struct {
	ItemID    uint  `json:"item_id" binding:"required"`
	Quantity  int   `json:"quantity" binding:"required"`
	AddonID   *uint `json:"addon_id"`
	VariantID *uint `json:"variant_id"`
}

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	RestaurantID uint                     `json:"restaurant_id"`
	CustomerID   *uint                    `json:"customer_id"`
	TableNo      string                   `json:"table_no"`
	Tax          decimal.Decimal          `json:"tax"`
	Items        []CreateOrderItemRequest `json:"items" binding:"required,min=1,dive"`
}

// CreateOrder 下单
func (h *Handler) CreateOrder(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	items := make([]service.CreateOrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		items = append(items, service.CreateOrderItem{
			ItemID:    item.ItemID,
			Quantity:  item.Quantity,
			AddonID:   item.AddonID,
			VariantID: item.VariantID,
		})
	}
	order, err := h.OrderService.CreateOrder(c.Request.Context(), principal, service.CreateOrderInput{
		RestaurantID: req.RestaurantID,
		CustomerID:   req.CustomerID,
		TableNo:      req.TableNo,
		Tax:          req.Tax,
		Items:        items,
	})
	if err != nil {
		respondSettlementError(c, err)
		return
	}
	response.Success(c, order)
}

// ListOrders 订单列表
func (h *Handler) ListOrders(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.ParsePagination(c)
	createdFrom, err := parseTimeNullable(c.Query("created_from"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	createdTo, err := parseTimeNullable(c.Query("created_to"))
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}

	orders, total, err := h.OrderService.ListOrders(principal, repository.OrderListFilter{
		Page:          page,
		PageSize:      pageSize,
		Status:        strings.TrimSpace(c.Query("status")),
		PaymentStatus: strings.TrimSpace(c.Query("payment_status")),
		CreatedFrom:   createdFrom,
		CreatedTo:     createdTo,
	})
	if err != nil {
		respondSettlementError(c, err)
		return
	}
	response.SuccessWithPage(c, orders, response.NewPagination(page, pageSize, total))
}

// GetOrderDetails 订单详情（含计价明细）
func (h *Handler) GetOrderDetails(c *gin.Context) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseUintParam(c, "orderId")
	if !ok {
		return
	}
	details, err := h.OrderService.GetOrderDetails(principal, orderID)
	if err != nil {
		respondSettlementError(c, err)
		return
	}
	response.Success(c, details)
}

// ServeOrder 上菜
func (h *Handler) ServeOrder(c *gin.Context) {
	h.transitionOrder(c, "id", h.OrderService.Serve)
}

// CompleteOrder 完成订单
func (h *Handler) CompleteOrder(c *gin.Context) {
	h.transitionOrder(c, "orderId", h.OrderService.Complete)
}

// CancelOrder 取消订单
func (h *Handler) CancelOrder(c *gin.Context) {
	h.transitionOrder(c, "orderId", h.OrderService.Cancel)
}

type orderTransition func(ctx context.Context, p service.Principal, orderID uint) (*models.Order, error)

func (h *Handler) transitionOrder(c *gin.Context, param string, apply orderTransition) {
	principal, ok := getPrincipal(c)
	if !ok {
		return
	}
	orderID, ok := handlershared.ParseUintParam(c, param)
	if !ok {
		return
	}
	order, err := apply(c.Request.Context(), principal, orderID)
	if err != nil {
		respondSettlementError(c, err)
		return
	}
	response.Success(c, gin.H{
		"order_id":   order.ID,
		"status":     order.Status,
		"updated_at": order.UpdatedAt,
	})
}

// parseTimeNullable 解析 RFC3339 或 yyyy-mm-dd 格式的时间
func parseTimeNullable(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
