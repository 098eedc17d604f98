package service

import (
	"github.com/triaxx-pos/internal/models"
	"github.com/triaxx-pos/internal/repository"

	"github.com/shopspring/decimal"
)

// PricedLine 单个订单项的计价结果
type PricedLine struct {
	OrderItemID  uint            `json:"order_item_id"`
	ItemID       uint            `json:"item_id"`
	ItemName     string          `json:"item_name,omitempty"`
	AddonID      *uint           `json:"addon_id,omitempty"`
	VariantID    *uint           `json:"variant_id,omitempty"`
	Quantity     int             `json:"quantity"`
	BasePrice    decimal.Decimal `json:"base_price"`
	AddonPrice   decimal.Decimal `json:"addon_price"`
	VariantPrice decimal.Decimal `json:"variant_price"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	LineTotal    decimal.Decimal `json:"line_total"`
	Status       string          `json:"status"`
}

// OrderPricing 订单计价结果
type OrderPricing struct {
	Lines    []PricedLine    `json:"lines"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Tax      decimal.Decimal `json:"tax"`
	Total    decimal.Decimal `json:"total"`
}

// PricingResolver 计价器：单价 = 菜品价 + 加料价 + 规格价
type PricingResolver struct {
	catalog repository.CatalogRepository
}

// NewPricingResolver 创建计价器
func NewPricingResolver(catalog repository.CatalogRepository) *PricingResolver {
	return &PricingResolver{catalog: catalog}
}

// PriceLine 计算单个订单项。引用的菜品、加料或规格不存在时按 0 计价
func (r *PricingResolver) PriceLine(item models.OrderItem) (PricedLine, error) {
	line := PricedLine{
		OrderItemID:  item.ID,
		ItemID:       item.ItemID,
		AddonID:      item.AddonID,
		VariantID:    item.VariantID,
		Quantity:     item.Quantity,
		BasePrice:    decimal.Zero,
		AddonPrice:   decimal.Zero,
		VariantPrice: decimal.Zero,
		Status:       item.Status,
	}

	catalogItem, err := r.catalog.GetItem(item.ItemID)
	if err != nil {
		return PricedLine{}, err
	}
	if catalogItem != nil {
		line.BasePrice = catalogItem.Price.Decimal
		line.ItemName = catalogItem.Name
	}
	if item.AddonID != nil {
		addon, err := r.catalog.GetAddon(*item.AddonID)
		if err != nil {
			return PricedLine{}, err
		}
		if addon != nil {
			line.AddonPrice = addon.Price.Decimal
		}
	}
	if item.VariantID != nil {
		variant, err := r.catalog.GetVariant(*item.VariantID)
		if err != nil {
			return PricedLine{}, err
		}
		if variant != nil {
			line.VariantPrice = variant.Price.Decimal
		}
	}

	line.UnitPrice = line.BasePrice.Add(line.AddonPrice).Add(line.VariantPrice)
	line.LineTotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
	return line, nil
}

// PriceOrder 计算订单小计与合计：合计 = 小计 + 订单上的固定税费
func (r *PricingResolver) PriceOrder(order *models.Order) (*OrderPricing, error) {
	pricing := &OrderPricing{
		Lines:    make([]PricedLine, 0, len(order.Items)),
		Subtotal: decimal.Zero,
		Tax:      order.Tax.Decimal,
	}
	for _, item := range order.Items {
		line, err := r.PriceLine(item)
		if err != nil {
			return nil, err
		}
		pricing.Lines = append(pricing.Lines, line)
		pricing.Subtotal = pricing.Subtotal.Add(line.LineTotal)
	}
	pricing.Total = pricing.Subtotal.Add(pricing.Tax)
	return pricing, nil
}
