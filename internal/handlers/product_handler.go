package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"textile-store/internal/i18n"
	"textile-store/internal/middleware"
	"textile-store/internal/models"
	"textile-store/internal/service"
)

type ProductHandler struct {
	catalog *service.CatalogService
}

func NewProductHandler(catalog *service.CatalogService) *ProductHandler {
	return &ProductHandler{catalog: catalog}
}

// productView agrega el nombre localizado y el precio formateado
type productView struct {
	*models.Product
	DisplayName  string `json:"display_name"`
	DisplayPrice string `json:"display_price"`
}

func newProductView(p *models.Product, locale string) productView {
	return productView{
		Product:      p,
		DisplayName:  p.LocalizedName(locale),
		DisplayPrice: i18n.FormatIDR(p.PriceIDR, locale),
	}
}

// GET /v1/products
func (h *ProductHandler) ListProducts(c *gin.Context) {
	q := buildProductQuery(c)
	q.PublicOnly = true
	q.Active = nil
	h.list(c, q)
}

// GET /v1/admin/products
func (h *ProductHandler) AdminListProducts(c *gin.Context) {
	h.list(c, buildProductQuery(c))
}

func (h *ProductHandler) list(c *gin.Context, q models.ProductQuery) {
	page, err := h.catalog.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, err)
		return
	}

	locale := middleware.LocaleOf(c)
	views := make([]productView, len(page.Data))
	for i, p := range page.Data {
		views[i] = newProductView(p, locale)
	}
	c.JSON(http.StatusOK, models.NewPage(views, page.Total, page.Page, page.PageSize))
}

// GET /v1/products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	h.get(c, true)
}

// GET /v1/admin/products/:id
func (h *ProductHandler) AdminGetProduct(c *gin.Context) {
	h.get(c, false)
}

func (h *ProductHandler) get(c *gin.Context, public bool) {
	id, err := parseObjectID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	product, err := h.catalog.Get(c.Request.Context(), id, public)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, newProductView(product, middleware.LocaleOf(c)))
}

// GET /v1/categories
func (h *ProductHandler) ListCategories(c *gin.Context) {
	categories, err := h.catalog.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if categories == nil {
		categories = []string{}
	}
	c.JSON(http.StatusOK, gin.H{"data": categories})
}

// POST /v1/admin/products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var product models.Product
	if err := c.ShouldBindJSON(&product); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.catalog.Create(c.Request.Context(), &product); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": i18n.T(middleware.LocaleOf(c), i18n.MsgProductCreated),
		"code":    i18n.MsgProductCreated,
		"data":    product,
	})
}

// PATCH /v1/admin/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, err := parseObjectID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	var update models.ProductUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		respondBindError(c, err)
		return
	}

	product, err := h.catalog.Update(c.Request.Context(), id, update)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": i18n.T(middleware.LocaleOf(c), i18n.MsgProductUpdated),
		"code":    i18n.MsgProductUpdated,
		"data":    product,
	})
}

// DELETE /v1/admin/products/:id (soft delete)
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, err := parseObjectID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.catalog.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	respondMessage(c, http.StatusOK, i18n.MsgProductDeleted)
}
