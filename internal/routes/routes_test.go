package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"textile-store/internal/cache"
	"textile-store/internal/events"
	"textile-store/internal/models"
	"textile-store/internal/permission"
	"textile-store/internal/service"
	"textile-store/internal/service/memstore"
)

type testServer struct {
	router   *gin.Engine
	auth     *service.AuthService
	products *memstore.Products
	bus      *permission.Bus
}

func newTestServer(t *testing.T, products ...*models.Product) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	require.NoError(t, RegisterValidators())

	log := zap.NewNop()
	c := cache.NewMemory(time.Minute, 0)
	t.Cleanup(func() { _ = c.Close() })

	productStore := memstore.NewProducts(products...)
	orders := memstore.NewOrders()
	carts := memstore.NewCarts()
	bus := permission.NewBus()
	pricing := service.Pricing{ShippingFee: 15000, FreeShippingMin: 500000}

	auth := service.NewAuthService(memstore.NewUsers(), memstore.NewSessions(), c, time.Hour, log)
	catalog := service.NewCatalogService(productStore, c, log)

	router := NewEngine(log, "id")
	RegisterRoutes(router, Services{
		Auth:      auth,
		Catalog:   catalog,
		Cart:      service.NewCartService(carts, productStore, pricing, log),
		Orders:    service.NewOrderService(orders, productStore, carts, catalog, events.NewLogPublisher(log), pricing, log),
		Ratings:   service.NewRatingService(memstore.NewRatings(), orders, productStore, catalog, log),
		Inventory: service.NewInventoryService(productStore, catalog, 5, log),
		Materials: service.NewMaterialService(memstore.NewMaterials(), log),
		Reports:   service.NewReportService(orders, productStore, 5, log),
		Bus:       bus,
	})
	return &testServer{router: router, auth: auth, products: productStore, bus: bus}
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var out map[string]interface{}
	if w.Body.Len() > 0 {
		_ = json.Unmarshal(w.Body.Bytes(), &out)
	}
	return w, out
}

func (s *testServer) login(t *testing.T, email, password string) string {
	t.Helper()
	w, body := s.do(t, http.MethodPost, "/v1/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return body["token"].(string)
}

func (s *testServer) customer(t *testing.T) string {
	t.Helper()
	w, _ := s.do(t, http.MethodPost, "/v1/auth/register", "", gin.H{
		"email": "siti@example.com", "password": "rahasia123", "name": "Siti", "phone": "0812-3456-7890",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return s.login(t, "siti@example.com", "rahasia123")
}

func (s *testServer) admin(t *testing.T) string {
	t.Helper()
	require.NoError(t, s.auth.EnsureAdmin(context.Background(), "admin@toko.id", "admin12345"))
	return s.login(t, "admin@toko.id", "admin12345")
}

func cotton() *models.Product {
	return &models.Product{
		ID: primitive.NewObjectID(), SKU: "KTN-001", Name: "Katun Jepang", NameEN: "Japanese Cotton",
		Category: "katun", Unit: models.UnitMeter, PriceIDR: 45000, Stock: 20, IsActive: true,
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	w, body := s.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", body["status"])
}

func TestRegisterValidation(t *testing.T) {
	s := newTestServer(t)

	w, body := s.do(t, http.MethodPost, "/v1/auth/register", "", gin.H{
		"email": "siti@example.com", "password": "rahasia123", "name": "Siti", "phone": "12345",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "validation_failed", body["code"])
	assert.Equal(t, "phone", body["field"])

	w, body = s.do(t, http.MethodPost, "/v1/auth/register?lang=en", "", gin.H{
		"email": "not-an-email", "password": "rahasia123", "name": "Siti",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "email", body["field"])
	assert.Contains(t, body["error"], "Invalid data")

	s.customer(t)
	w, body = s.do(t, http.MethodPost, "/v1/auth/register", "", gin.H{
		"email": "SITI@example.com", "password": "rahasia123", "name": "Siti",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "conflict", body["code"])

	w, body = s.do(t, http.MethodPost, "/v1/auth/login", "", gin.H{"email": "siti@example.com", "password": "salah-sekali"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Email atau kata sandi salah", body["error"])
}

func TestPublicCatalog(t *testing.T) {
	hidden := cotton()
	hidden.ID, hidden.SKU, hidden.IsActive = primitive.NewObjectID(), "OLD-001", false
	p := cotton()
	s := newTestServer(t, p, hidden)

	w, body := s.do(t, http.MethodGet, "/v1/products?lang=en", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := body["data"].([]interface{})
	require.Len(t, data, 1)
	first := data[0].(map[string]interface{})
	assert.Equal(t, "Japanese Cotton", first["display_name"])
	assert.Equal(t, "IDR 45,000", first["display_price"])

	w, _ = s.do(t, http.MethodGet, "/v1/products/"+hidden.ID.Hex(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, body = s.do(t, http.MethodGet, "/v1/products/not-an-id", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid_id", body["code"])

	w, body = s.do(t, http.MethodGet, "/v1/categories", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []interface{}{"katun"}, body["data"])
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	s := newTestServer(t)
	token := s.customer(t)

	w, _ := s.do(t, http.MethodGet, "/v1/admin/dashboard", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, body := s.do(t, http.MethodGet, "/v1/admin/dashboard", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "forbidden", body["code"])

	adminToken := s.admin(t)
	w, body = s.do(t, http.MethodGet, "/v1/admin/permission-errors", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	events := body["data"].([]interface{})
	require.Len(t, events, 2)
	assert.Equal(t, float64(http.StatusForbidden), events[0].(map[string]interface{})["status"])
}

func TestShoppingFlow(t *testing.T) {
	p := cotton()
	s := newTestServer(t, p)
	token := s.customer(t)
	adminToken := s.admin(t)

	w, body := s.do(t, http.MethodPost, "/v1/cart/items", token, gin.H{"product_id": p.ID.Hex(), "quantity": 4})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	cart := body["data"].(map[string]interface{})
	assert.Equal(t, float64(180000), cart["subtotal"])
	assert.Equal(t, float64(195000), cart["total"])
	assert.Equal(t, "Rp 195.000", cart["display"].(map[string]interface{})["total"])

	w, body = s.do(t, http.MethodPost, "/v1/cart/items", token, gin.H{"product_id": p.ID.Hex(), "quantity": 50})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "insufficient_stock", body["code"])

	w, body = s.do(t, http.MethodPost, "/v1/checkout", token, gin.H{"shipping_address": "Jl. Malioboro 1, Yogyakarta"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := body["data"].(map[string]interface{})
	orderID := order["id"].(string)
	assert.Equal(t, "pending", order["status"])
	assert.Contains(t, body["message"], order["number"])
	assert.Equal(t, int64(16), s.products.Stock(p.ID))

	w, body = s.do(t, http.MethodPost, "/v1/checkout", token, gin.H{"shipping_address": "Jl. Malioboro 1"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "empty_cart", body["code"])

	w, body = s.do(t, http.MethodGet, "/v1/orders", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["total"])

	for _, status := range []string{"paid", "processing", "shipped", "completed"} {
		w, _ = s.do(t, http.MethodPatch, "/v1/admin/orders/"+orderID+"/status", adminToken, gin.H{"status": status})
		require.Equal(t, http.StatusOK, w.Code, "to %s: %s", status, w.Body.String())
	}

	w, body = s.do(t, http.MethodPost, "/v1/orders/"+orderID+"/cancel", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "invalid_transition", body["code"])

	w, _ = s.do(t, http.MethodPost, "/v1/products/"+p.ID.Hex()+"/ratings", token, gin.H{"order_id": orderID, "stars": 5, "comment": "bagus"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w, body = s.do(t, http.MethodGet, "/v1/products/"+p.ID.Hex(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["rating_count"])

	w, body = s.do(t, http.MethodGet, "/v1/admin/reports/sales", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), body["order_count"])
	assert.Equal(t, float64(195000), body["revenue"])
}

func TestAdminProductAndInventory(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.admin(t)

	w, body := s.do(t, http.MethodPost, "/v1/admin/products", adminToken, gin.H{
		"sku": "btk-01", "name": "Batik Tulis", "category": "Batik", "price_idr": 350000, "stock": 3, "is_active": true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	id := body["data"].(map[string]interface{})["id"].(string)

	w, body = s.do(t, http.MethodGet, "/v1/admin/inventory/low-stock", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["data"], 1)

	w, body = s.do(t, http.MethodGet, "/v1/admin/inventory/low-stock?threshold=0", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, body["data"])
	assert.Equal(t, float64(0), body["threshold"])

	w, body = s.do(t, http.MethodPost, "/v1/admin/inventory/"+id+"/adjust", adminToken, gin.H{"delta": -5})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "insufficient_stock", body["code"])

	w, body = s.do(t, http.MethodPut, "/v1/admin/inventory/"+id, adminToken, gin.H{"stock": 40})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(40), body["data"].(map[string]interface{})["stock"])

	w, _ = s.do(t, http.MethodDelete, "/v1/admin/products/"+id, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = s.do(t, http.MethodGet, "/v1/products/"+id, "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMaterialsRoutes(t *testing.T) {
	s := newTestServer(t)
	adminToken := s.admin(t)

	w, body := s.do(t, http.MethodPost, "/v1/admin/materials/purchases", adminToken, gin.H{"name": "Kain Mori", "quantity": "50 meter"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "50 meter", body["data"].(map[string]interface{})["quantity"])

	w, body = s.do(t, http.MethodPost, "/v1/admin/materials/usages", adminToken, gin.H{"name": "kain mori", "quantity": "1.000,5 m"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "quantity", body["field"])

	w, _ = s.do(t, http.MethodPost, "/v1/admin/materials/usages", adminToken, gin.H{"name": "kain mori", "quantity": "60 m"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w, _ = s.do(t, http.MethodPost, "/v1/admin/materials/usages", adminToken, gin.H{"name": "kain mori", "quantity": "12,5 m"})
	require.Equal(t, http.StatusCreated, w.Code)

	w, body = s.do(t, http.MethodPost, "/v1/admin/materials/reconcile", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	rows := body["data"].([]interface{})
	require.Len(t, rows, 1)
	assert.Equal(t, "37.5", rows[0].(map[string]interface{})["available"])

	w, body = s.do(t, http.MethodGet, "/v1/admin/materials/stock", adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, body["data"], 1)
}
