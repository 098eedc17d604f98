package service

import (
	"strings"

	"github.com/triaxx-pos/internal/constants"
	"github.com/triaxx-pos/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// EmployeeClaims 账号服务签发的员工令牌载荷
type EmployeeClaims struct {
	UserID uint   `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

var knownRoles = map[string]struct{}{
	constants.RoleRestaurant: {},
	constants.RoleEmployee:   {},
	constants.RoleAdmin:      {},
}

// Principal 转换为请求身份，角色未知时返回 false
func (c *EmployeeClaims) Principal() (Principal, bool) {
	role := strings.ToLower(strings.TrimSpace(c.Role))
	if c.UserID == 0 {
		return Principal{}, false
	}
	if _, ok := knownRoles[role]; !ok {
		return Principal{}, false
	}
	return Principal{UserID: c.UserID, Role: role}, true
}

// Principal 发起请求的员工身份（由鉴权中间件从令牌解析）
type Principal struct {
	UserID uint
	Role   string
}

// RestaurantScoped 是否为餐厅账号：餐厅账号只能操作自己的订单
func (p Principal) RestaurantScoped() bool {
	return strings.EqualFold(strings.TrimSpace(p.Role), constants.RoleRestaurant)
}

// CanAccess 所有权校验
func (p Principal) CanAccess(order *models.Order) bool {
	if order == nil {
		return false
	}
	if !p.RestaurantScoped() {
		return true
	}
	return order.RestaurantID == p.UserID
}

func ensureOwnership(p Principal, order *models.Order) error {
	if !p.CanAccess(order) {
		return ErrForbidden
	}
	return nil
}
