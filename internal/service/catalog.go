package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"textile-store/internal/apperr"
	"textile-store/internal/cache"
	"textile-store/internal/models"
)

const (
	productCacheTTL  = 5 * time.Minute
	listCacheTTL     = 2 * time.Minute
	listCachePrefix  = "products:list:"
	categoriesKey    = "categories"
	productKeyPrefix = "product:"
)

// CatalogService administra el catálogo de telas con caché de lecturas
type CatalogService struct {
	products ProductStore
	cache    cache.Cache
	log      *zap.Logger
}

func NewCatalogService(products ProductStore, c cache.Cache, log *zap.Logger) *CatalogService {
	return &CatalogService{products: products, cache: c, log: log}
}

// Create valida y guarda un producto nuevo
func (s *CatalogService) Create(ctx context.Context, p *models.Product) error {
	p.SKU = strings.ToUpper(strings.TrimSpace(p.SKU))
	p.Name = strings.TrimSpace(p.Name)
	p.Category = strings.ToLower(strings.TrimSpace(p.Category))
	if p.Unit == "" {
		p.Unit = models.UnitMeter
	}
	if err := validateProduct(p); err != nil {
		return err
	}
	p.RatingAvg, p.RatingCount = 0, 0

	if err := s.products.Create(ctx, p); err != nil {
		return err
	}
	s.invalidateLists(ctx)
	return nil
}

// Get obtiene un producto (con caché); public oculta los inactivos
func (s *CatalogService) Get(ctx context.Context, id primitive.ObjectID, public bool) (*models.Product, error) {
	key := productKeyPrefix + id.Hex()

	var product models.Product
	found, err := s.cache.Get(ctx, key, &product)
	if err != nil {
		s.log.Warn("product cache read failed", zap.Error(err))
	}
	if !found {
		p, err := s.products.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		product = *p
		if err := s.cache.Set(ctx, key, product, productCacheTTL); err != nil {
			s.log.Warn("product cache write failed", zap.Error(err))
		}
	}

	if public && !product.IsActive {
		return nil, fmt.Errorf("product %s: %w", id.Hex(), apperr.ErrNotFound)
	}
	return &product, nil
}

// List pagina el catálogo; los listados públicos se cachean
func (s *CatalogService) List(ctx context.Context, q models.ProductQuery) (models.Page[*models.Product], error) {
	q.Page, q.PageSize = pageParams(q.Page, q.PageSize)

	key := listCachePrefix + listKey(q)
	if q.PublicOnly {
		var cached models.Page[*models.Product]
		if found, _ := s.cache.Get(ctx, key, &cached); found {
			return cached, nil
		}
	}

	products, total, err := s.products.FindAll(ctx, q)
	if err != nil {
		return models.Page[*models.Product]{}, err
	}
	page := models.NewPage(products, total, q.Page, q.PageSize)

	if q.PublicOnly {
		if err := s.cache.Set(ctx, key, page, listCacheTTL); err != nil {
			s.log.Warn("list cache write failed", zap.Error(err))
		}
	}
	return page, nil
}

// Update actualiza parcialmente un producto
func (s *CatalogService) Update(ctx context.Context, id primitive.ObjectID, update models.ProductUpdate) (*models.Product, error) {
	fields := map[string]interface{}{}
	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperr.Invalid("name", "name is required")
		}
		fields["name"] = name
	}
	if update.NameEN != nil {
		fields["name_en"] = strings.TrimSpace(*update.NameEN)
	}
	if update.Description != nil {
		fields["description"] = *update.Description
	}
	if update.DescriptionEN != nil {
		fields["description_en"] = *update.DescriptionEN
	}
	if update.Category != nil {
		category := strings.ToLower(strings.TrimSpace(*update.Category))
		if category == "" {
			return nil, apperr.Invalid("category", "category is required")
		}
		fields["category"] = category
	}
	if update.Material != nil {
		fields["material"] = strings.TrimSpace(*update.Material)
	}
	if update.Color != nil {
		fields["color"] = strings.TrimSpace(*update.Color)
	}
	if update.Unit != nil {
		if !models.ValidUnit(*update.Unit) {
			return nil, apperr.Invalid("unit", "unit must be one of meter, yard, roll, pcs")
		}
		fields["unit"] = *update.Unit
	}
	if update.PriceIDR != nil {
		if *update.PriceIDR < 0 {
			return nil, apperr.Invalid("price_idr", "price cannot be negative")
		}
		fields["price_idr"] = *update.PriceIDR
	}
	if update.Images != nil {
		fields["images"] = update.Images
	}
	if update.Attributes != nil {
		fields["attributes"] = update.Attributes
	}
	if update.IsActive != nil {
		fields["is_active"] = *update.IsActive
	}

	if len(fields) == 0 {
		return nil, apperr.Invalid("body", "no valid fields to update")
	}

	if err := s.products.Update(ctx, id, fields); err != nil {
		return nil, err
	}
	s.InvalidateProduct(ctx, id)
	return s.products.FindByID(ctx, id)
}

// Delete realiza un borrado lógico
func (s *CatalogService) Delete(ctx context.Context, id primitive.ObjectID) error {
	if err := s.products.SoftDelete(ctx, id); err != nil {
		return err
	}
	s.InvalidateProduct(ctx, id)
	return nil
}

// Categories lista las categorías con productos publicados
func (s *CatalogService) Categories(ctx context.Context) ([]string, error) {
	var categories []string
	if found, _ := s.cache.Get(ctx, categoriesKey, &categories); found {
		return categories, nil
	}
	categories, err := s.products.Categories(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, categoriesKey, categories, listCacheTTL); err != nil {
		s.log.Warn("categories cache write failed", zap.Error(err))
	}
	return categories, nil
}

// InvalidateProduct borra el producto y los listados del caché
func (s *CatalogService) InvalidateProduct(ctx context.Context, id primitive.ObjectID) {
	if err := s.cache.Delete(ctx, productKeyPrefix+id.Hex(), categoriesKey); err != nil {
		s.log.Warn("product cache invalidation failed", zap.Error(err))
	}
	s.invalidateLists(ctx)
}

func (s *CatalogService) invalidateLists(ctx context.Context) {
	if err := s.cache.DeleteByPrefix(ctx, listCachePrefix); err != nil {
		s.log.Warn("list cache invalidation failed", zap.Error(err))
	}
	if err := s.cache.Delete(ctx, categoriesKey); err != nil {
		s.log.Warn("categories cache invalidation failed", zap.Error(err))
	}
}

// validateProduct valida los campos requeridos del producto
func validateProduct(p *models.Product) error {
	if p.Name == "" {
		return apperr.Invalid("name", "name is required")
	}
	if p.SKU == "" {
		return apperr.Invalid("sku", "SKU is required")
	}
	if p.Category == "" {
		return apperr.Invalid("category", "category is required")
	}
	if !models.ValidUnit(p.Unit) {
		return apperr.Invalid("unit", "unit must be one of meter, yard, roll, pcs")
	}
	if p.PriceIDR < 0 {
		return apperr.Invalid("price_idr", "price cannot be negative")
	}
	if p.Stock < 0 {
		return apperr.Invalid("stock", "stock cannot be negative")
	}
	return nil
}

func listKey(q models.ProductQuery) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "p%d_s%d_q:%s_cat:%s_mat:%s_col:%s_min:%d_max:%d_sum:%v",
		q.Page, q.PageSize, strings.ToLower(q.Search), q.Category, q.Material, q.Color,
		q.MinPrice, q.MaxPrice, q.Summary)
	for _, f := range q.Sort {
		fmt.Fprintf(&sb, "_sort:%s:%v", f.Field, f.Desc)
	}
	return sb.String()
}
