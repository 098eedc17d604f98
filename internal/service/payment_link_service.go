package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/triaxx-pos/internal/config"
	"github.com/triaxx-pos/internal/constants"
	"github.com/triaxx-pos/internal/logger"
	"github.com/triaxx-pos/internal/metrics"
	"github.com/triaxx-pos/internal/models"
	"github.com/triaxx-pos/internal/repository"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/blake2b"
	"gorm.io/gorm"
)

const (
	paymentLinkTokenBytes     = 32
	defaultLinkExpiryHours    = 24
	defaultLinkMaxExpiryHours = 168
)

// PaymentLinkService 支付链接签发与核销
type PaymentLinkService struct {
	orderRepo          repository.OrderRepository
	pricing            *PricingResolver
	validator          *PaymentValidator
	recorder           *SettlementRecorder
	notifier           *SettlementNotifier
	defaultExpiryHours int
	maxExpiryHours     int
	defaultMethods     []string
	publicPath         string
	now                func() time.Time
	random             io.Reader
}

// NewPaymentLinkService 创建支付链接服务
func NewPaymentLinkService(orderRepo repository.OrderRepository, catalogRepo repository.CatalogRepository, recorder *SettlementRecorder, notifier *SettlementNotifier, cfg config.PaymentLinkConfig) *PaymentLinkService {
	defaultHours := cfg.DefaultExpiryHours
	if defaultHours <= 0 {
		defaultHours = defaultLinkExpiryHours
	}
	maxHours := cfg.MaxExpiryHours
	if maxHours <= 0 {
		maxHours = defaultLinkMaxExpiryHours
	}
	if defaultHours > maxHours {
		defaultHours = maxHours
	}
	methods := normalizeMethods(cfg.AllowedMethods)
	if len(methods) == 0 {
		methods = []string{constants.PaymentMethodCard, constants.PaymentMethodMobileMoney}
	}
	return &PaymentLinkService{
		orderRepo:          orderRepo,
		pricing:            NewPricingResolver(catalogRepo),
		validator:          NewPaymentValidator(),
		recorder:           recorder,
		notifier:           notifier,
		defaultExpiryHours: defaultHours,
		maxExpiryHours:     maxHours,
		defaultMethods:     methods,
		publicPath:         strings.TrimRight(strings.TrimSpace(cfg.PublicPath), "/"),
		now:                time.Now,
		random:             rand.Reader,
	}
}

// IssuePaymentLinkInput 签发输入，零值字段使用默认配置
type IssuePaymentLinkInput struct {
	OrderID        uint
	ExpiryHours    int
	AllowedMethods []string
}

// IssuedPaymentLink 签发结果，原始令牌只在此返回一次
type IssuedPaymentLink struct {
	OrderID        uint            `json:"order_id"`
	Token          string          `json:"token"`
	Path           string          `json:"path"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	ExpiresAt      time.Time       `json:"expires_at"`
	AllowedMethods []string        `json:"allowed_methods"`
}

// RedeemPaymentLinkInput 核销输入
type RedeemPaymentLinkInput struct {
	Method string
	Amount decimal.Decimal
}

// PaymentLinkView 公开的链接详情
type PaymentLinkView struct {
	OrderID        uint            `json:"order_id"`
	RestaurantID   uint            `json:"restaurant_id"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	ExpiresAt      *time.Time      `json:"expires_at,omitempty"`
	AllowedMethods []string        `json:"allowed_methods"`
	Expired        bool            `json:"expired"`
	Paid           bool            `json:"paid"`
}

// Issue 为已上菜且未支付的订单签发支付链接，重复签发会覆盖旧链接
func (s *PaymentLinkService) Issue(ctx context.Context, p Principal, input IssuePaymentLinkInput) (*IssuedPaymentLink, error) {
	link, err := s.issue(p, input)
	metrics.RecordSettlementOperation("issue_payment_link", err == nil)
	return link, err
}

func (s *PaymentLinkService) issue(p Principal, input IssuePaymentLinkInput) (*IssuedPaymentLink, error) {
	hours := input.ExpiryHours
	if hours == 0 {
		hours = s.defaultExpiryHours
	}
	if hours < 0 || hours > s.maxExpiryHours {
		return nil, ErrPaymentLinkExpiryInvalid
	}
	methods := normalizeMethods(input.AllowedMethods)
	if len(methods) == 0 {
		methods = append([]string(nil), s.defaultMethods...)
	}

	order, err := s.orderRepo.GetByID(input.OrderID)
	if err != nil {
		return nil, fmt.Errorf("load order %d: %w", input.OrderID, err)
	}
	if order == nil {
		return nil, ErrOrderNotFound
	}
	if err := ensureOwnership(p, order); err != nil {
		return nil, err
	}
	if err := s.validator.CheckPayable(order); err != nil {
		return nil, err
	}
	pricing, err := s.pricing.PriceOrder(order)
	if err != nil {
		return nil, err
	}

	token, err := s.newToken()
	if err != nil {
		return nil, err
	}
	now := s.now()
	expiresAt := now.Add(time.Duration(hours) * time.Hour)
	updates := map[string]interface{}{
		"subtotal":                     models.NewMoney(pricing.Subtotal),
		"total":                        models.NewMoney(pricing.Total),
		"payment_link_token_digest":    digestPaymentLinkToken(token),
		"payment_link_amount":          models.NewMoney(pricing.Total),
		"payment_link_currency":        order.Currency,
		"payment_link_expires_at":      expiresAt,
		"payment_link_allowed_methods": models.StringArray(methods),
		"payment_link_is_active":       true,
		"payment_link_created_by":      p.UserID,
		"payment_link_issued_at":       now,
		"updated_by":                   p.UserID,
		"updated_at":                   now,
	}
	saved, err := s.orderRepo.UpdateUnpaid(order.ID, updates)
	if err != nil {
		return nil, fmt.Errorf("save payment link: %w", err)
	}
	if !saved {
		// 校验之后订单已被并发支付
		return nil, ErrAlreadyPaid
	}

	return &IssuedPaymentLink{
		OrderID:        order.ID,
		Token:          token,
		Path:           s.publicPath + "/" + token,
		Amount:         pricing.Total,
		Currency:       order.Currency,
		ExpiresAt:      expiresAt,
		AllowedMethods: methods,
	}, nil
}

// Redeem 通过链接支付。校验顺序：链接存在、未过期、方式允许、金额一致、未支付
func (s *PaymentLinkService) Redeem(ctx context.Context, token string, input RedeemPaymentLinkInput) (*PaymentResult, error) {
	result, err := s.redeem(ctx, token, input)
	metrics.RecordSettlementOperation("redeem_payment_link", err == nil)
	return result, err
}

func (s *PaymentLinkService) redeem(ctx context.Context, token string, input RedeemPaymentLinkInput) (*PaymentResult, error) {
	order, err := s.findActive(token)
	if err != nil {
		return nil, err
	}
	link := order.PaymentLink
	now := s.now()
	if link.IsExpired(now) {
		return nil, ErrPaymentLinkExpired
	}
	method := strings.TrimSpace(input.Method)
	if !link.AllowsMethod(method) {
		return nil, ErrMethodNotAllowed
	}
	if err := s.validator.ValidateExact(link.Amount.Decimal, input.Amount); err != nil {
		return nil, err
	}
	if order.IsPaid() {
		return nil, ErrAlreadyPaid
	}
	if err := s.validator.CheckPayable(order); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"payment_method":         method,
		"paid_at":                now,
		"payment_link_is_active": false,
		"updated_at":             now,
	}
	var txn *models.CustomerTransaction
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		paid, err := s.orderRepo.WithTx(tx).MarkPaid(order.ID, updates)
		if err != nil {
			return fmt.Errorf("mark order paid: %w", err)
		}
		if !paid {
			return ErrAlreadyPaid
		}
		order.PaymentStatus = constants.PaymentStatusSuccess
		order.PaymentMethod = method
		order.PaidAt = &now
		order.PaymentLink.IsActive = false
		order.UpdatedAt = now
		txn, err = s.recorder.Record(tx, order, method, link.CreatedBy)
		return err
	})
	if err != nil {
		if errors.Is(err, ErrAlreadyPaid) {
			logger.Infow("payment_link_cas_lost", "order_id", order.ID)
		}
		return nil, err
	}
	s.notifier.OrderPaid(ctx, order, txn)

	return &PaymentResult{
		OrderID:       order.ID,
		Status:        order.Status,
		PaymentStatus: order.PaymentStatus,
		Method:        method,
		Amount:        link.Amount.Decimal,
		Currency:      link.Currency,
		PaidAt:        order.PaidAt,
		TransactionID: order.TransactionID,
	}, nil
}

// Details 公开查询链接详情，已失效或不存在时返回 ErrPaymentLinkNotFound
func (s *PaymentLinkService) Details(token string) (*PaymentLinkView, error) {
	order, err := s.findActive(token)
	if err != nil {
		return nil, err
	}
	link := order.PaymentLink
	return &PaymentLinkView{
		OrderID:        order.ID,
		RestaurantID:   order.RestaurantID,
		Amount:         link.Amount.Decimal,
		Currency:       link.Currency,
		ExpiresAt:      link.ExpiresAt,
		AllowedMethods: append([]string(nil), link.AllowedMethods...),
		Expired:        link.IsExpired(s.now()),
		Paid:           order.IsPaid(),
	}, nil
}

func (s *PaymentLinkService) findActive(token string) (*models.Order, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrPaymentLinkNotFound
	}
	order, err := s.orderRepo.GetByActiveLinkDigest(digestPaymentLinkToken(token))
	if err != nil {
		return nil, fmt.Errorf("load payment link: %w", err)
	}
	if order == nil {
		return nil, ErrPaymentLinkNotFound
	}
	return order, nil
}

func (s *PaymentLinkService) newToken() (string, error) {
	buf := make([]byte, paymentLinkTokenBytes)
	if _, err := io.ReadFull(s.random, buf); err != nil {
		return "", fmt.Errorf("generate payment link token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// digestPaymentLinkToken 令牌只以 BLAKE2b-256 摘要落库
func digestPaymentLinkToken(token string) string {
	sum := blake2b.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func normalizeMethods(methods []string) []string {
	seen := make(map[string]struct{}, len(methods))
	result := make([]string, 0, len(methods))
	for _, m := range methods {
		m = strings.TrimSpace(m)
		if m == "" {
			continue
		}
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		result = append(result, m)
	}
	return result
}
