package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"textile-store/internal/apperr"
	"textile-store/internal/i18n"
	"textile-store/internal/models"
)

// Pricing son las reglas de envío del checkout
type Pricing struct {
	ShippingFee     int64
	FreeShippingMin int64
}

// ShippingFor devuelve el costo de envío para un subtotal
func (p Pricing) ShippingFor(subtotal int64) int64 {
	if subtotal <= 0 {
		return 0
	}
	if p.FreeShippingMin > 0 && subtotal >= p.FreeShippingMin {
		return 0
	}
	return p.ShippingFee
}

// ComputeCart une el carrito con los productos actuales y calcula totales.
// Las líneas no disponibles quedan marcadas y fuera de los totales.
func ComputeCart(cart *models.Cart, products map[primitive.ObjectID]*models.Product, pricing Pricing, locale string) models.CartView {
	view := models.CartView{Lines: make([]models.CartLine, 0, len(cart.Items))}

	for _, it := range cart.Items {
		line := models.CartLine{ProductID: it.ProductID, Quantity: it.Quantity}
		p, ok := products[it.ProductID]
		if !ok || !p.Available() {
			line.Unavailable = true
			if ok {
				line.SKU = p.SKU
				line.Name = p.LocalizedName(locale)
			}
			view.Lines = append(view.Lines, line)
			continue
		}

		line.SKU = p.SKU
		line.Name = p.LocalizedName(locale)
		line.Unit = p.Unit
		if len(p.Images) > 0 {
			line.Image = p.Images[0]
		}
		line.PriceIDR = p.PriceIDR
		line.Stock = p.Stock
		line.Subtotal = p.PriceIDR * it.Quantity
		line.InsufficientStock = it.Quantity > p.Stock

		view.ItemCount += it.Quantity
		view.Subtotal += line.Subtotal
		view.Lines = append(view.Lines, line)
	}

	view.ShippingFee = pricing.ShippingFor(view.Subtotal)
	view.Total = view.Subtotal + view.ShippingFee
	view.Display = models.Display{
		"subtotal":     i18n.FormatIDR(view.Subtotal, locale),
		"shipping_fee": i18n.FormatIDR(view.ShippingFee, locale),
		"total":        i18n.FormatIDR(view.Total, locale),
	}
	return view
}

// CartService mantiene el carrito persistido de cada cliente
type CartService struct {
	carts    CartStore
	products ProductStore
	pricing  Pricing
	log      *zap.Logger
}

func NewCartService(carts CartStore, products ProductStore, pricing Pricing, log *zap.Logger) *CartService {
	return &CartService{carts: carts, products: products, pricing: pricing, log: log}
}

// Get devuelve el carrito calculado del usuario
func (s *CartService) Get(ctx context.Context, userID primitive.ObjectID, locale string) (models.CartView, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return models.CartView{}, err
	}
	return s.view(ctx, cart, locale)
}

// AddItem agrega cantidad a una línea, creándola si no existe
func (s *CartService) AddItem(ctx context.Context, userID, productID primitive.ObjectID, qty int64, locale string) (models.CartView, error) {
	if qty <= 0 {
		return models.CartView{}, apperr.Invalid("quantity", "quantity must be greater than zero")
	}
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return models.CartView{}, err
	}

	total := qty
	idx := cart.ItemIndex(productID)
	if idx >= 0 {
		total += cart.Items[idx].Quantity
	}
	if err := s.checkProduct(ctx, productID, total); err != nil {
		return models.CartView{}, err
	}

	if idx >= 0 {
		cart.Items[idx].Quantity = total
	} else {
		cart.Items = append(cart.Items, models.CartItem{ProductID: productID, Quantity: total})
	}
	return s.save(ctx, cart, locale)
}

// SetQuantity fija la cantidad de una línea; 0 la elimina
func (s *CartService) SetQuantity(ctx context.Context, userID, productID primitive.ObjectID, qty int64, locale string) (models.CartView, error) {
	if qty < 0 {
		return models.CartView{}, apperr.Invalid("quantity", "quantity cannot be negative")
	}
	if qty == 0 {
		return s.RemoveItem(ctx, userID, productID, locale)
	}
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return models.CartView{}, err
	}
	if err := s.checkProduct(ctx, productID, qty); err != nil {
		return models.CartView{}, err
	}

	if idx := cart.ItemIndex(productID); idx >= 0 {
		cart.Items[idx].Quantity = qty
	} else {
		cart.Items = append(cart.Items, models.CartItem{ProductID: productID, Quantity: qty})
	}
	return s.save(ctx, cart, locale)
}

// RemoveItem quita una línea del carrito
func (s *CartService) RemoveItem(ctx context.Context, userID, productID primitive.ObjectID, locale string) (models.CartView, error) {
	cart, err := s.carts.Get(ctx, userID)
	if err != nil {
		return models.CartView{}, err
	}
	idx := cart.ItemIndex(productID)
	if idx < 0 {
		return models.CartView{}, fmt.Errorf("cart item %s: %w", productID.Hex(), apperr.ErrNotFound)
	}
	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	return s.save(ctx, cart, locale)
}

// Clear vacía el carrito
func (s *CartService) Clear(ctx context.Context, userID primitive.ObjectID) error {
	return s.carts.Clear(ctx, userID)
}

func (s *CartService) checkProduct(ctx context.Context, productID primitive.ObjectID, qty int64) error {
	p, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return err
	}
	if !p.Available() {
		return fmt.Errorf("product %s: %w", p.SKU, apperr.ErrProductUnavailable)
	}
	if qty > p.Stock {
		return fmt.Errorf("product %s has %d %s left: %w", p.SKU, p.Stock, p.Unit, apperr.ErrInsufficientStock)
	}
	return nil
}

func (s *CartService) save(ctx context.Context, cart *models.Cart, locale string) (models.CartView, error) {
	if err := s.carts.Save(ctx, cart); err != nil {
		return models.CartView{}, err
	}
	return s.view(ctx, cart, locale)
}

func (s *CartService) view(ctx context.Context, cart *models.Cart, locale string) (models.CartView, error) {
	products, err := s.products.FindByIDs(ctx, cartProductIDs(cart))
	if err != nil {
		return models.CartView{}, err
	}
	return ComputeCart(cart, products, s.pricing, locale), nil
}

func cartProductIDs(cart *models.Cart) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, len(cart.Items))
	for i, it := range cart.Items {
		ids[i] = it.ProductID
	}
	return ids
}
