package i18n

var messages = map[string]map[string]string{
	LocaleEN: {
		"error.bad_request":                     "Invalid request parameters",
		"error.unauthorized":                    "Please sign in first",
		"error.token_invalid":                   "Invalid or expired token",
		"error.forbidden":                       "Access denied",
		"error.not_found":                       "Resource not found",
		"error.internal":                        "Internal server error",
		"error.too_many_requests":               "Too many requests, please retry in %d seconds",
		"error.rate_limit_unavailable":          "Rate limiting is temporarily unavailable",
		"error.order_not_found":                 "Order not found",
		"error.order_forbidden":                 "This order belongs to another restaurant",
		"error.order_invalid_state":             "Order must be served or completed before payment",
		"error.order_already_paid":              "Order has already been paid",
		"error.order_already_completed":         "Order is already completed",
		"error.order_already_cancelled":         "Order is already cancelled",
		"error.order_cannot_complete_cancelled": "A cancelled order cannot be completed",
		"error.order_cannot_cancel_completed":   "A completed order cannot be cancelled",
		"error.order_input_invalid":             "Invalid order data",
		"error.order_item_invalid":              "Invalid or unavailable order item",
		"error.amount_mismatch":                 "Payment amount does not match the amount due",
		"error.payment_method_invalid":          "Invalid payment method",
		"error.method_not_allowed":              "Payment method not allowed for this link",
		"error.payment_link_not_found":          "Payment link not found or no longer active",
		"error.payment_link_expired":            "Payment link has expired",
		"error.payment_link_expiry_invalid":     "Payment link expiry is out of range",
		"error.coupon_invalid":                  "Invalid coupon code",
		"error.coupon_minimum_not_met":          "Order total is below the coupon minimum",
		"error.split_invalid":                   "Invalid split payment",
		"error.transaction_not_found":           "Transaction not found",
		"error.transaction_exists":              "Order already has a transaction",
		"error.transaction_status_invalid":      "Invalid transaction status",
		"error.transaction_input_invalid":       "Invalid transaction data",
	},
	LocaleFR: {
		"error.bad_request":                     "Paramètres de requête invalides",
		"error.unauthorized":                    "Veuillez vous connecter",
		"error.token_invalid":                   "Jeton invalide ou expiré",
		"error.forbidden":                       "Accès refusé",
		"error.not_found":                       "Ressource introuvable",
		"error.internal":                        "Erreur interne du serveur",
		"error.too_many_requests":               "Trop de requêtes, réessayez dans %d secondes",
		"error.rate_limit_unavailable":          "Limitation de débit temporairement indisponible",
		"error.order_not_found":                 "Commande introuvable",
		"error.order_forbidden":                 "Cette commande appartient à un autre restaurant",
		"error.order_invalid_state":             "La commande doit être servie ou terminée avant le paiement",
		"error.order_already_paid":              "La commande est déjà payée",
		"error.order_already_completed":         "La commande est déjà terminée",
		"error.order_already_cancelled":         "La commande est déjà annulée",
		"error.order_cannot_complete_cancelled": "Une commande annulée ne peut pas être terminée",
		"error.order_cannot_cancel_completed":   "Une commande terminée ne peut pas être annulée",
		"error.order_input_invalid":             "Données de commande invalides",
		"error.order_item_invalid":              "Article invalide ou indisponible",
		"error.amount_mismatch":                 "Le montant ne correspond pas au montant dû",
		"error.payment_method_invalid":          "Moyen de paiement invalide",
		"error.method_not_allowed":              "Moyen de paiement non autorisé pour ce lien",
		"error.payment_link_not_found":          "Lien de paiement introuvable ou inactif",
		"error.payment_link_expired":            "Le lien de paiement a expiré",
		"error.payment_link_expiry_invalid":     "Durée de validité du lien hors limites",
		"error.coupon_invalid":                  "Code promo invalide",
		"error.coupon_minimum_not_met":          "Montant inférieur au minimum du code promo",
		"error.split_invalid":                   "Paiement fractionné invalide",
		"error.transaction_not_found":           "Transaction introuvable",
		"error.transaction_exists":              "La commande a déjà une transaction",
		"error.transaction_status_invalid":      "Statut de transaction invalide",
		"error.transaction_input_invalid":       "Données de transaction invalides",
	},
	LocaleZhCN: {
		"error.bad_request":                     "请求参数错误",
		"error.unauthorized":                    "请先登录",
		"error.token_invalid":                   "令牌无效或已过期",
		"error.forbidden":                       "无权访问",
		"error.not_found":                       "资源不存在",
		"error.internal":                        "服务器内部错误",
		"error.too_many_requests":               "请求过于频繁，请 %d 秒后重试",
		"error.rate_limit_unavailable":          "限流服务暂不可用",
		"error.order_not_found":                 "订单不存在",
		"error.order_forbidden":                 "该订单属于其他餐厅",
		"error.order_invalid_state":             "订单需已上菜或已完成才能支付",
		"error.order_already_paid":              "订单已支付",
		"error.order_already_completed":         "订单已完成",
		"error.order_already_cancelled":         "订单已取消",
		"error.order_cannot_complete_cancelled": "已取消的订单不能完成",
		"error.order_cannot_cancel_completed":   "已完成的订单不能取消",
		"error.order_input_invalid":             "订单数据无效",
		"error.order_item_invalid":              "菜品无效或已停售",
		"error.amount_mismatch":                 "支付金额与应付金额不一致",
		"error.payment_method_invalid":          "支付方式无效",
		"error.method_not_allowed":              "该链接不支持此支付方式",
		"error.payment_link_not_found":          "支付链接不存在或已失效",
		"error.payment_link_expired":            "支付链接已过期",
		"error.payment_link_expiry_invalid":     "支付链接有效期超出范围",
		"error.coupon_invalid":                  "优惠码无效",
		"error.coupon_minimum_not_met":          "订单金额未达到优惠券门槛",
		"error.split_invalid":                   "拆分支付无效",
		"error.transaction_not_found":           "流水不存在",
		"error.transaction_exists":              "订单已存在结算流水",
		"error.transaction_status_invalid":      "流水状态无效",
		"error.transaction_input_invalid":       "流水数据无效",
	},
}
