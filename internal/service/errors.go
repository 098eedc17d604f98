package service

import "errors"

// 结算引擎对外暴露的错误，HTTP 层按 errors.Is 映射为响应码
var (
	ErrOrderNotFound            = errors.New("order not found")
	ErrPaymentLinkNotFound      = errors.New("payment link not found")
	ErrTransactionNotFound      = errors.New("transaction not found")
	ErrTransactionExists        = errors.New("order already has a transaction")
	ErrForbidden                = errors.New("order belongs to another restaurant")
	ErrInvalidOrderState        = errors.New("order is not in a payable state")
	ErrAlreadyPaid              = errors.New("order already paid")
	ErrAlreadyCompleted         = errors.New("order already completed")
	ErrAlreadyCancelled         = errors.New("order already cancelled")
	ErrCannotCompleteCancelled  = errors.New("cannot complete a cancelled order")
	ErrCannotCancelCompleted    = errors.New("cannot cancel a completed order")
	ErrAmountMismatch           = errors.New("payment amount does not match order total")
	ErrMethodNotAllowed         = errors.New("payment method not allowed")
	ErrPaymentLinkExpired       = errors.New("payment link expired")
	ErrInvalidCoupon            = errors.New("invalid coupon code")
	ErrMinimumOrderNotMet       = errors.New("order total below coupon minimum")
	ErrInvalidSplit             = errors.New("invalid split payment")
	ErrInvalidOrderItem         = errors.New("invalid order item")
	ErrInvalidOrderInput        = errors.New("invalid order input")
	ErrInvalidPaymentMethod     = errors.New("invalid payment method")
	ErrInvalidTransactionStatus = errors.New("invalid transaction status")
	ErrInvalidTransactionInput  = errors.New("invalid transaction input")
	ErrPaymentLinkExpiryInvalid = errors.New("payment link expiry out of range")
)
