package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"textile-store/internal/apperr"
	"textile-store/internal/models"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
)

// MessageResponse es la respuesta de las operaciones sin cuerpo propio;
// el front la muestra como notificación.
type MessageResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

// --- Métodos auxiliares ---

// parseObjectID convierte el parámetro de ruta a ObjectID
func parseObjectID(c *gin.Context, param string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(param))
	if err != nil {
		return primitive.NilObjectID, apperr.ErrInvalidID
	}
	return id, nil
}

// getPaginationParams obtiene y valida los parámetros de paginación
func getPaginationParams(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(defaultPage)))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))

	if page < 1 {
		page = defaultPage
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	return page, pageSize
}

// buildProductQuery arma la consulta del catálogo desde los query params
func buildProductQuery(c *gin.Context) models.ProductQuery {
	q := models.ProductQuery{
		Search:   strings.TrimSpace(c.Query("q")),
		Category: strings.ToLower(strings.TrimSpace(c.Query("category"))),
		Material: strings.TrimSpace(c.Query("material")),
		Color:    strings.TrimSpace(c.Query("color")),
		Sort:     parseSort(c.DefaultQuery("sort", "created_at:desc")),
		Summary:  c.Query("summary") == "true",
	}
	q.Page, q.PageSize = getPaginationParams(c)

	if active := c.Query("active"); active != "" {
		v := active == "true"
		q.Active = &v
	}
	if minPrice, err := strconv.ParseInt(c.Query("min_price"), 10, 64); err == nil && minPrice > 0 {
		q.MinPrice = minPrice
	}
	if maxPrice, err := strconv.ParseInt(c.Query("max_price"), 10, 64); err == nil && maxPrice > 0 {
		q.MaxPrice = maxPrice
	}
	return q
}

// parseSort interpreta "campo:asc,campo:desc"; el repositorio filtra los campos
func parseSort(raw string) []models.SortField {
	var fields []models.SortField
	for _, part := range strings.Split(raw, ",") {
		name, order, _ := strings.Cut(strings.TrimSpace(part), ":")
		if name == "" {
			continue
		}
		fields = append(fields, models.SortField{Field: name, Desc: strings.EqualFold(order, "desc")})
	}
	return fields
}

// buildOrderQuery arma los filtros del listado de pedidos del back-office
func buildOrderQuery(c *gin.Context) (models.OrderQuery, error) {
	q := models.OrderQuery{Status: models.OrderStatus(c.Query("status"))}
	q.Page, q.PageSize = getPaginationParams(c)

	if c.Query("from") != "" || c.Query("to") != "" {
		from, to, err := reportRange(c)
		if err != nil {
			return q, err
		}
		q.From, q.To = from, to
	}
	return q, nil
}
