package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// moneyScale 金额持久化与输出的小数位数
const moneyScale = 2

// Money 金额类型：运算使用 decimal 原值，持久化与 JSON 输出保留 2 位小数
type Money struct {
	decimal.Decimal
}

// NewMoney 从 decimal 创建金额
func NewMoney(amount decimal.Decimal) Money {
	return Money{Decimal: amount}
}

// NewMoneyFromFloat 从浮点数创建金额（仅用于测试与种子数据）
func NewMoneyFromFloat(amount float64) Money {
	return Money{Decimal: decimal.NewFromFloat(amount)}
}

// ParseMoney 解析字符串金额
func ParseMoney(raw string) (Money, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Money{}, fmt.Errorf("parse money %q: %w", raw, err)
	}
	return Money{Decimal: d}, nil
}

// RoundMoney 按金额精度四舍五入
func RoundMoney(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(moneyScale)
}

// MoneyPtr 返回金额指针，便于写入可选字段
func MoneyPtr(amount decimal.Decimal) *Money {
	m := NewMoney(amount)
	return &m
}

// MarshalJSON 输出 2 位小数的字符串
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON 解析金额（字符串或数字），保留调用方给出的精度
func (m *Money) UnmarshalJSON(b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return err
		}
		m.Decimal = d
		return nil
	}
	// 数字按原始文本解析，避免经过 float64 丢失精度
	d, err := decimal.NewFromString(string(b))
	if err != nil {
		return err
	}
	m.Decimal = d
	return nil
}

// Value 用于数据库写入
func (m Money) Value() (driver.Value, error) {
	return m.Decimal.Round(moneyScale).Value()
}

// Scan 用于数据库读取
func (m *Money) Scan(value interface{}) error {
	return m.Decimal.Scan(value)
}

// String 返回 2 位小数格式
func (m Money) String() string {
	return m.Decimal.StringFixed(moneyScale)
}
