package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/triaxx-pos/internal/config"
	"github.com/triaxx-pos/internal/constants"
	"github.com/triaxx-pos/internal/models"
	"github.com/triaxx-pos/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type apiResponse struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

type testServer struct {
	t      *testing.T
	engine *gin.Engine
	db     *gorm.DB
	token  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:router_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	rows := []interface{}{
		&models.CatalogItem{ID: 1, RestaurantID: 7, Name: "Attieke", Price: models.NewMoney(decimal.RequireFromString("10.00")), IsActive: true},
		&models.CatalogItem{ID: 2, RestaurantID: 7, Name: "Poulet braise", Price: models.NewMoney(decimal.RequireFromString("15.50")), IsActive: true},
	}
	for _, row := range rows {
		if err := db.Create(row).Error; err != nil {
			t.Fatalf("seed catalog failed: %v", err)
		}
	}

	cfg := &config.Config{
		Server:      config.ServerConfig{Mode: "debug"},
		JWT:         config.JWTConfig{SecretKey: testJWTSecret},
		Order:       config.OrderConfig{Currency: constants.DefaultCurrency},
		PaymentLink: config.PaymentLinkConfig{PublicPath: "/api/v1/public/payment-link"},
		Metrics:     config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
	cfg.Order.Coupons = []config.CouponConfig{{Code: "DISCOUNT10", Type: "percentage", Value: "10", MinOrder: "0"}}
	container := provider.NewContainer(cfg)
	t.Cleanup(container.Close)

	return &testServer{
		t:      t,
		engine: SetupRouter(cfg, container),
		db:     db,
		token:  signEmployeeToken(t, testJWTSecret, validClaims(7, constants.RoleRestaurant)),
	}
}

func (s *testServer) do(method, path string, body interface{}, auth bool) apiResponse {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		s.t.Fatalf("%s %s: http status want 200 got %d", method, path, w.Code)
	}
	var resp apiResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		s.t.Fatalf("%s %s: decode response failed: %v (%s)", method, path, err, w.Body.String())
	}
	return resp
}

func (s *testServer) createServedOrder(customerID uint) uint {
	s.t.Helper()
	body := gin.H{
		"tax": "2.00",
		"items": []gin.H{
			{"item_id": 1, "quantity": 1},
			{"item_id": 2, "quantity": 1},
		},
	}
	if customerID > 0 {
		body["customer_id"] = customerID
	}
	resp := s.do(http.MethodPost, "/api/v1/employee/orders", body, true)
	if resp.StatusCode != 0 {
		s.t.Fatalf("create order failed: %d %s", resp.StatusCode, resp.Msg)
	}
	var order struct {
		ID    uint   `json:"id"`
		Total string `json:"total"`
	}
	if err := json.Unmarshal(resp.Data, &order); err != nil {
		s.t.Fatalf("decode order failed: %v", err)
	}
	if order.Total != "27.50" {
		s.t.Fatalf("order total want 27.50 got %s", order.Total)
	}
	served := s.do(http.MethodPut, fmt.Sprintf("/api/v1/employee/orders/%d/serve", order.ID), nil, true)
	if served.StatusCode != 0 {
		s.t.Fatalf("serve order failed: %d %s", served.StatusCode, served.Msg)
	}
	return order.ID
}

func TestEmployeeRoutesRequireToken(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(http.MethodGet, "/api/v1/employee/orders", nil, false)
	if resp.StatusCode != 401 {
		t.Fatalf("want 401 got %d", resp.StatusCode)
	}
}

func TestProcessPaymentFlow(t *testing.T) {
	s := newTestServer(t)
	orderID := s.createServedOrder(42)

	mismatch := s.do(http.MethodPost, "/api/v1/employee/process-payment", gin.H{
		"order_id": orderID, "amount": "27.49", "payment_method": "Card",
	}, true)
	if mismatch.StatusCode != 400 {
		t.Fatalf("amount mismatch want 400 got %d", mismatch.StatusCode)
	}

	paid := s.do(http.MethodPost, "/api/v1/employee/process-payment", gin.H{
		"order_id": orderID, "amount": "27.50", "payment_method": "Card",
	}, true)
	if paid.StatusCode != 0 {
		t.Fatalf("payment failed: %d %s", paid.StatusCode, paid.Msg)
	}
	var result struct {
		PaymentStatus string `json:"payment_status"`
		TransactionID *uint  `json:"transaction_id"`
	}
	if err := json.Unmarshal(paid.Data, &result); err != nil {
		t.Fatalf("decode payment result failed: %v", err)
	}
	if result.PaymentStatus != constants.PaymentStatusSuccess || result.TransactionID == nil {
		t.Fatalf("unexpected payment result %+v", result)
	}

	again := s.do(http.MethodPost, "/api/v1/employee/process-payment", gin.H{
		"order_id": orderID, "amount": "27.50", "payment_method": "Card",
	}, true)
	if again.StatusCode != 409 {
		t.Fatalf("second payment want 409 got %d", again.StatusCode)
	}

	txn := s.do(http.MethodGet, fmt.Sprintf("/api/v1/employee/transactions/%d", *result.TransactionID), nil, true)
	if txn.StatusCode != 0 || !strings.Contains(string(txn.Data), constants.TransactionMethodBankCard) {
		t.Fatalf("unexpected transaction response %d %s", txn.StatusCode, string(txn.Data))
	}

	list := s.do(http.MethodGet, "/api/v1/employee/transactions/merchant/7?page=1&page_size=10", nil, true)
	if list.StatusCode != 0 {
		t.Fatalf("list transactions failed: %d", list.StatusCode)
	}
}

func TestOrderStateRoutes(t *testing.T) {
	s := newTestServer(t)
	orderID := s.createServedOrder(0)

	if resp := s.do(http.MethodPut, fmt.Sprintf("/api/v1/employee/complete-order/%d", orderID), nil, true); resp.StatusCode != 0 {
		t.Fatalf("complete failed: %d", resp.StatusCode)
	}
	if resp := s.do(http.MethodPut, fmt.Sprintf("/api/v1/employee/complete-order/%d", orderID), nil, true); resp.StatusCode != 409 {
		t.Fatalf("double complete want 409 got %d", resp.StatusCode)
	}
	if resp := s.do(http.MethodPut, fmt.Sprintf("/api/v1/employee/cancel-order/%d", orderID), nil, true); resp.StatusCode != 409 {
		t.Fatalf("cancel completed want 409 got %d", resp.StatusCode)
	}
	if resp := s.do(http.MethodGet, "/api/v1/employee/order-details/999", nil, true); resp.StatusCode != 404 {
		t.Fatalf("missing order want 404 got %d", resp.StatusCode)
	}
	if resp := s.do(http.MethodGet, "/api/v1/employee/order-details/abc", nil, true); resp.StatusCode != 400 {
		t.Fatalf("invalid id want 400 got %d", resp.StatusCode)
	}
}

func TestSplitRoutes(t *testing.T) {
	s := newTestServer(t)
	orderID := s.createServedOrder(0)

	resp := s.do(http.MethodPost, "/api/v1/employee/calculate-split-amounts", gin.H{"order_id": orderID, "split_count": 3}, true)
	if resp.StatusCode != 0 {
		t.Fatalf("calculate split failed: %d %s", resp.StatusCode, resp.Msg)
	}
	var split struct {
		Amounts []decimal.Decimal `json:"amounts"`
	}
	if err := json.Unmarshal(resp.Data, &split); err != nil {
		t.Fatalf("decode split failed: %v", err)
	}
	if len(split.Amounts) != 3 || !split.Amounts[0].Equal(decimal.RequireFromString("9.17")) {
		t.Fatalf("unexpected split amounts %v", split.Amounts)
	}

	paid := s.do(http.MethodPost, "/api/v1/employee/process-split-payment", gin.H{
		"order_id": orderID,
		"payments": []gin.H{
			{"payment_method": "Cash", "amount": "9.17"},
			{"payment_method": "Card", "amount": "9.17"},
			{"payment_method": "Mobile_Money", "amount": "9.16"},
		},
	}, true)
	if paid.StatusCode != 0 {
		t.Fatalf("split payment failed: %d %s", paid.StatusCode, paid.Msg)
	}
}

func TestPaymentLinkRoutes(t *testing.T) {
	s := newTestServer(t)
	orderID := s.createServedOrder(42)

	issued := s.do(http.MethodPost, "/api/v1/employee/generate-payment-link", gin.H{
		"order_id": orderID, "expiry_hours": 24, "allowed_methods": []string{"Card"},
	}, true)
	if issued.StatusCode != 0 {
		t.Fatalf("issue link failed: %d %s", issued.StatusCode, issued.Msg)
	}
	var link struct {
		Token string `json:"token"`
		Path  string `json:"path"`
	}
	if err := json.Unmarshal(issued.Data, &link); err != nil {
		t.Fatalf("decode link failed: %v", err)
	}
	if len(link.Token) != 64 || !strings.HasSuffix(link.Path, link.Token) {
		t.Fatalf("unexpected link %+v", link)
	}

	details := s.do(http.MethodGet, "/api/v1/public/payment-link/"+link.Token+"/details", nil, false)
	if details.StatusCode != 0 || strings.Contains(string(details.Data), link.Token) {
		t.Fatalf("unexpected details %d %s", details.StatusCode, string(details.Data))
	}

	wrongMethod := s.do(http.MethodPost, "/api/v1/public/payment-link/"+link.Token+"/process", gin.H{
		"payment_method": "Cash", "amount": "27.50",
	}, false)
	if wrongMethod.StatusCode != 400 {
		t.Fatalf("disallowed method want 400 got %d", wrongMethod.StatusCode)
	}

	paid := s.do(http.MethodPost, "/api/v1/public/payment-link/"+link.Token+"/process", gin.H{
		"payment_method": "Card", "amount": "27.50",
	}, false)
	if paid.StatusCode != 0 {
		t.Fatalf("redeem failed: %d %s", paid.StatusCode, paid.Msg)
	}

	gone := s.do(http.MethodGet, "/api/v1/public/payment-link/"+link.Token+"/details", nil, false)
	if gone.StatusCode != 404 {
		t.Fatalf("used link want 404 got %d", gone.StatusCode)
	}
}

func TestHealthzAndMetrics(t *testing.T) {
	s := newTestServer(t)
	resp := s.do(http.MethodGet, "/healthz", nil, false)
	if resp.StatusCode != 0 || !strings.Contains(string(resp.Data), `"ok"`) {
		t.Fatalf("unexpected healthz %d %s", resp.StatusCode, string(resp.Data))
	}

	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "triaxx_pos_http_requests_total") {
		t.Fatalf("metrics endpoint missing request counter")
	}
}
