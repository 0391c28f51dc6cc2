package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textile-store/internal/apperr"
	"textile-store/internal/middleware"
	"textile-store/internal/models"
)

func testContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestBuildProductQuery(t *testing.T) {
	c, _ := testContext("/v1/products?q=+batik+&category=Katun&min_price=1000&max_price=-5&active=false&page=3&page_size=500&sort=price_idr:desc,name&summary=true")
	q := buildProductQuery(c)

	assert.Equal(t, "batik", q.Search)
	assert.Equal(t, "katun", q.Category)
	assert.Equal(t, int64(1000), q.MinPrice)
	assert.Zero(t, q.MaxPrice)
	require.NotNil(t, q.Active)
	assert.False(t, *q.Active)
	assert.Equal(t, 3, q.Page)
	assert.Equal(t, defaultPageSize, q.PageSize)
	assert.True(t, q.Summary)
	assert.Equal(t, []models.SortField{{Field: "price_idr", Desc: true}, {Field: "name"}}, q.Sort)
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, []models.SortField{{Field: "created_at", Desc: true}}, parseSort("created_at:desc"))
	assert.Equal(t, []models.SortField{{Field: "name"}}, parseSort(" name:asc , ,"))
	assert.Nil(t, parseSort(""))
}

func TestGetPaginationParams(t *testing.T) {
	tests := []struct {
		query    string
		page     int
		pageSize int
	}{
		{"", 1, 20},
		{"?page=0&page_size=0", 1, 20},
		{"?page=abc&page_size=50", 1, 50},
		{"?page=4&page_size=101", 4, 20},
	}
	for _, tt := range tests {
		c, _ := testContext("/x" + tt.query)
		page, pageSize := getPaginationParams(c)
		assert.Equal(t, tt.page, page, tt.query)
		assert.Equal(t, tt.pageSize, pageSize, tt.query)
	}
}

func TestBuildOrderQuery(t *testing.T) {
	c, _ := testContext("/v1/admin/orders?status=paid&from=2024-05-01&to=2024-05-31")
	q, err := buildOrderQuery(c)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, q.Status)
	assert.Equal(t, "2024-06-01", q.To.Format("2006-01-02"))

	c, _ = testContext("/v1/admin/orders?from=mei")
	_, err = buildOrderQuery(c)
	_, ok := apperr.AsValidation(err)
	assert.True(t, ok)
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
		detail bool
	}{
		{apperr.Invalid("price_idr", "price cannot be negative"), http.StatusBadRequest, "validation_failed", false},
		{apperr.ErrInvalidID, http.StatusBadRequest, "invalid_id", false},
		{fmt.Errorf("find product: %w", apperr.ErrNotFound), http.StatusNotFound, "not_found", false},
		{apperr.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials", false},
		{fmt.Errorf("product KTN: %w", apperr.ErrInsufficientStock), http.StatusConflict, "insufficient_stock", true},
		{apperr.ErrInvalidTransition, http.StatusConflict, "invalid_transition", true},
		{apperr.ErrConflict, http.StatusConflict, "conflict", true},
		{apperr.ErrEmptyCart, http.StatusUnprocessableEntity, "empty_cart", true},
		{apperr.ErrProductUnavailable, http.StatusUnprocessableEntity, "product_unavailable", true},
		{errors.New("socket closed"), http.StatusInternalServerError, "internal_error", false},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			c, w := testContext("/x")
			respondError(c, tt.err)

			assert.Equal(t, tt.status, w.Code)
			var body ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Code)
			assert.NotEmpty(t, body.Error)
			assert.Equal(t, tt.detail, body.Detail != "")
		})
	}
}

func TestRespondErrorLocalized(t *testing.T) {
	c, w := testContext("/x")
	c.Set("locale", "en")
	respondError(c, apperr.Invalid("stock", "stock cannot be negative"))

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Invalid data: stock cannot be negative", body.Error)
	assert.Equal(t, "stock", body.Field)

	c, w = testContext("/x")
	respondError(c, apperr.ErrEmptyCart)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Keranjang belanja kosong", body.Error)
	assert.Equal(t, "id", middleware.LocaleOf(c))
}
