package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/tadka-labs/storefront/internal/authz"
	"github.com/tadka-labs/storefront/internal/cache"
	"github.com/tadka-labs/storefront/internal/config"
	"github.com/tadka-labs/storefront/internal/constants"
	"github.com/tadka-labs/storefront/internal/models"
	"github.com/tadka-labs/storefront/internal/provider"
	"github.com/tadka-labs/storefront/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

type cartBody struct {
	Session   string `json:"session"`
	ItemCount int    `json:"item_count"`
	Coupon    struct {
		Code string `json:"code"`
	} `json:"coupon"`
	Discount json.Number `json:"discount"`
	Total    json.Number `json:"total"`
}

type testServer struct {
	t         *testing.T
	engine    *gin.Engine
	container *provider.Container
}

func setupRouterTest(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:router_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	models.DB = db
	cache.Use(nil, "")

	cfg := &config.Config{}
	cfg.Server.Mode = "debug"
	cfg.JWT = config.JWTConfig{SecretKey: "admin-test-secret", ExpireHours: 1}
	cfg.UserJWT = config.JWTConfig{SecretKey: "user-test-secret", ExpireHours: 1}
	cfg.Shop.CurrencySymbol = "₹"
	cfg.Store.CacheTTLSeconds = 0

	container := provider.NewContainer(cfg)
	require.NoError(t, models.InitDefaultAdmin(db, "admin@gmail.com", "admin123"))
	require.NoError(t, models.InitDemoUser(db, "digit@gmail.com", "1234"))
	_, err = container.SeedService.Seed(context.Background(), false)
	require.NoError(t, err)

	return &testServer{t: t, engine: SetupRouter(cfg, container), container: container}
}

func (s *testServer) do(method, path string, body interface{}, headers map[string]string) envelope {
	s.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())

	var resp envelope
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &resp), w.Body.String())
	return resp
}

func (s *testServer) productID(category, title string) string {
	s.t.Helper()
	resp := s.do(http.MethodGet, "/api/v1/public/products?category="+category, nil, nil)
	require.Equal(s.t, 0, resp.StatusCode)
	var products []models.Product
	require.NoError(s.t, json.Unmarshal(resp.Data, &products))
	for _, product := range products {
		if product.Title == title {
			return product.ID
		}
	}
	s.t.Fatalf("product %s not found in %s", title, category)
	return ""
}

func (s *testServer) adminToken(email, password string) string {
	s.t.Helper()
	resp := s.do(http.MethodPost, "/api/v1/admin/login", gin.H{"email": email, "password": password}, nil)
	require.Equal(s.t, 0, resp.StatusCode, resp.Msg)
	var data struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(resp.Data, &data))
	return data.Token
}

func decodeCart(t *testing.T, raw json.RawMessage) cartBody {
	t.Helper()
	var cart cartBody
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&cart))
	return cart
}

func TestStorefrontCheckoutFlow(t *testing.T) {
	s := setupRouterTest(t)

	resp := s.do(http.MethodPost, "/api/v1/cart/session", nil, nil)
	require.Equal(t, 0, resp.StatusCode)
	var issued struct {
		Session string `json:"session"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &issued))
	require.NotEmpty(t, issued.Session)
	headers := map[string]string{constants.CartSessionHeader: issued.Session}

	pizzaID := s.productID("Pizzas", "Pizzas Demo 3")
	s.do(http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": pizzaID}, headers)
	resp = s.do(http.MethodPut, "/api/v1/cart/items/"+pizzaID, gin.H{"quantity": 2}, headers)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)

	resp = s.do(http.MethodPost, "/api/v1/cart/coupon", gin.H{"code": " save500 "}, headers)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var applied struct {
		Cart json.RawMessage `json:"cart"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &applied))
	cart := decodeCart(t, applied.Cart)
	assert.Equal(t, "SAVE500", cart.Coupon.Code)
	assert.Equal(t, "75", cart.Discount.String())
	assert.Equal(t, "465", cart.Total.String())

	// 270 低于 500 门槛，已选优惠券被清除
	resp = s.do(http.MethodPut, "/api/v1/cart/items/"+pizzaID, gin.H{"quantity": 1}, headers)
	cart = decodeCart(t, resp.Data)
	assert.Equal(t, constants.NoCouponCode, cart.Coupon.Code)
	assert.Equal(t, "270", cart.Total.String())

	resp = s.do(http.MethodPost, "/api/v1/cart/coupon", gin.H{"code": "FESTIVE30"}, headers)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)

	resp = s.do(http.MethodPost, "/api/v1/cart/checkout", gin.H{
		"fullName": "Asha Rao",
		"mobile":   "9876543210",
		"street":   "12 MG Road",
		"city":     "Pune",
	}, headers)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var order models.Order
	require.NoError(t, json.Unmarshal(resp.Data, &order))
	assert.Equal(t, "FESTIVE30", order.CouponCode)
	assert.Equal(t, "81.00", order.DiscountAmount.String())
	assert.Equal(t, "189.00", order.TotalAmount.String())

	resp = s.do(http.MethodGet, "/api/v1/cart", nil, headers)
	cart = decodeCart(t, resp.Data)
	assert.Equal(t, 0, cart.ItemCount)

	resp = s.do(http.MethodGet, "/api/v1/cart/orders/"+order.OrderNo, nil, headers)
	assert.Equal(t, 0, resp.StatusCode)
	resp = s.do(http.MethodGet, "/api/v1/cart/orders/"+order.OrderNo, nil, map[string]string{constants.CartSessionHeader: "someone-else"})
	assert.Equal(t, 404, resp.StatusCode)
}

func TestApplyCouponFailures(t *testing.T) {
	s := setupRouterTest(t)
	headers := map[string]string{constants.CartSessionHeader: "guest-fail"}

	resp := s.do(http.MethodPost, "/api/v1/cart/coupon", gin.H{"code": "WELCOME50"}, headers)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "Your cart is empty", resp.Msg)

	drinkID := s.productID("Drinks", "Drinks Demo 1")
	s.do(http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": drinkID}, headers)

	resp = s.do(http.MethodPost, "/api/v1/cart/coupon", gin.H{"code": "NOPE"}, headers)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "Coupon not found", resp.Msg)

	resp = s.do(http.MethodPost, "/api/v1/cart/coupon", gin.H{"code": "SAVE500"}, headers)
	assert.Equal(t, 400, resp.StatusCode)
	assert.Equal(t, "Minimum order value is ₹500", resp.Msg)

	resp = s.do(http.MethodGet, "/api/v1/cart", nil, nil)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestPreviewCouponDoesNotTouchCart(t *testing.T) {
	s := setupRouterTest(t)

	resp := s.do(http.MethodPost, "/api/v1/public/coupons/preview", gin.H{"code": "festive30", "subtotal": 510}, nil)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var result struct {
		Applied  bool        `json:"applied"`
		Code     string      `json:"code"`
		Discount json.Number `json:"discount"`
		Total    json.Number `json:"total"`
		Message  string      `json:"message"`
	}
	dec := json.NewDecoder(bytes.NewReader(resp.Data))
	dec.UseNumber()
	require.NoError(t, dec.Decode(&result))
	assert.True(t, result.Applied)
	assert.Equal(t, "FESTIVE30", result.Code)
	assert.Equal(t, "153", result.Discount.String())
	assert.Equal(t, "357", result.Total.String())
	assert.Equal(t, "Coupon applied successfully", result.Message)
}

func TestAdminCouponChangeReconcilesCarts(t *testing.T) {
	s := setupRouterTest(t)
	token := s.adminToken("admin@gmail.com", "admin123")
	auth := map[string]string{"Authorization": "Bearer " + token}
	headers := map[string]string{constants.CartSessionHeader: "guest-reconcile"}

	s.do(http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": s.productID("Burgers", "Burgers Demo 1")}, headers)
	resp := s.do(http.MethodPost, "/api/v1/cart/coupon", gin.H{"code": "WELCOME50"}, headers)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)

	resp = s.do(http.MethodGet, "/api/v1/admin/coupons", nil, auth)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var coupons []models.Coupon
	require.NoError(t, json.Unmarshal(resp.Data, &coupons))
	var welcomeID string
	for _, coupon := range coupons {
		if coupon.Code == "WELCOME50" {
			welcomeID = coupon.ID
		}
	}
	require.NotEmpty(t, welcomeID)

	resp = s.do(http.MethodPut, "/api/v1/admin/coupons/"+welcomeID, gin.H{
		"title":         "Welcome Coupon",
		"code":          "WELCOME50",
		"discountType":  "flat",
		"discountValue": 50,
		"active":        false,
	}, auth)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)

	applied, err := s.container.CartRepo.GetApplied(context.Background(), "guest-reconcile")
	require.NoError(t, err)
	assert.Equal(t, constants.NoCouponCode, applied.Code)

	resp = s.do(http.MethodPost, "/api/v1/admin/coupons", gin.H{"code": "none", "discountValue": 5}, auth)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestAdminRBAC(t *testing.T) {
	s := setupRouterTest(t)

	resp := s.do(http.MethodGet, "/api/v1/admin/dashboard", nil, nil)
	assert.Equal(t, 401, resp.StatusCode)

	hash, err := service.HashPassword("auditor-pass")
	require.NoError(t, err)
	auditor := &models.Admin{Email: "auditor@gmail.com", PasswordHash: hash}
	require.NoError(t, models.DB.Create(auditor).Error)
	require.NoError(t, s.container.AuthzService.SetAdminRoles(auditor.ID, []string{authz.RoleReadonlyAuditor}))

	auth := map[string]string{"Authorization": "Bearer " + s.adminToken("auditor@gmail.com", "auditor-pass")}
	resp = s.do(http.MethodGet, "/api/v1/admin/dashboard", nil, auth)
	assert.Equal(t, 0, resp.StatusCode, resp.Msg)
	resp = s.do(http.MethodGet, "/api/v1/admin/coupons", nil, auth)
	assert.Equal(t, 0, resp.StatusCode, resp.Msg)

	resp = s.do(http.MethodPost, "/api/v1/admin/coupons/reset", nil, auth)
	assert.Equal(t, 403, resp.StatusCode)
	resp = s.do(http.MethodDelete, "/api/v1/admin/products/any", nil, auth)
	assert.Equal(t, 403, resp.StatusCode)

	resp = s.do(http.MethodGet, "/api/v1/admin/me", nil, auth)
	require.Equal(t, 0, resp.StatusCode)
	var me struct {
		Roles []string `json:"roles"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &me))
	assert.Contains(t, me.Roles, authz.RoleReadonlyAuditor)
}

func TestUserLoginUsesUserCart(t *testing.T) {
	s := setupRouterTest(t)

	resp := s.do(http.MethodPost, "/api/v1/auth/login", gin.H{"email": "digit@gmail.com", "password": "1234"}, nil)
	require.Equal(t, 0, resp.StatusCode, resp.Msg)
	var login struct {
		Token   string `json:"token"`
		Session string `json:"session"`
	}
	require.NoError(t, json.Unmarshal(resp.Data, &login))
	require.NotEmpty(t, login.Token)

	auth := map[string]string{"Authorization": "Bearer " + login.Token}
	s.do(http.MethodPost, "/api/v1/cart/items", gin.H{"product_id": s.productID("Desserts", "Desserts Demo 1")}, auth)
	resp = s.do(http.MethodGet, "/api/v1/cart", nil, auth)
	cart := decodeCart(t, resp.Data)
	assert.Equal(t, login.Session, cart.Session)
	assert.Equal(t, 1, cart.ItemCount)

	resp = s.do(http.MethodPost, "/api/v1/auth/login", gin.H{"email": "digit@gmail.com", "password": "wrong"}, nil)
	assert.Equal(t, 401, resp.StatusCode)
}

func TestEventsRejectsForgedSession(t *testing.T) {
	s := setupRouterTest(t)
	long := strings.Repeat("g", service.MaxGuestSessionLength+1)

	for _, session := range []string{"user:1", long} {
		resp := s.do(http.MethodGet, "/api/v1/public/events?session="+url.QueryEscape(session), nil, nil)
		assert.Equal(t, 400, resp.StatusCode, session)
	}

	resp := s.do(http.MethodGet, "/api/v1/public/events", nil, map[string]string{constants.CartSessionHeader: "user:1"})
	assert.Equal(t, 400, resp.StatusCode)
}
