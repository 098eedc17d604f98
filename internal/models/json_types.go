package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// StringArray 字符串数组，以 JSON 形式存储
type StringArray []string

// Value 实现 driver.Valuer 接口
func (s StringArray) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(payload), nil
}

// Scan 实现 sql.Scanner 接口
func (s *StringArray) Scan(value interface{}) error {
	return scanJSON(value, s, func() { *s = StringArray{} })
}

// Contains 判断是否包含指定值（区分大小写）
func (s StringArray) Contains(value string) bool {
	for _, item := range s {
		if item == value {
			return true
		}
	}
	return false
}

// SplitPayment 拆分支付的单笔明细
type SplitPayment struct {
	Method string `json:"method"`
	Amount Money  `json:"amount"`
}

// SplitPayments 拆分支付明细列表
type SplitPayments []SplitPayment

// Value 实现 driver.Valuer 接口
func (s SplitPayments) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(payload), nil
}

// Scan 实现 sql.Scanner 接口
func (s *SplitPayments) Scan(value interface{}) error {
	return scanJSON(value, s, func() { *s = nil })
}

func scanJSON(value interface{}, dest interface{}, onNil func()) error {
	switch v := value.(type) {
	case nil:
		onNil()
		return nil
	case []byte:
		if len(v) == 0 {
			onNil()
			return nil
		}
		return json.Unmarshal(v, dest)
	case string:
		if v == "" {
			onNil()
			return nil
		}
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported json column type %T", value)
	}
}
