package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"textile-store/internal/apperr"
	"textile-store/internal/events"
	"textile-store/internal/models"
)

// CheckoutInput son los datos de envío del formulario de checkout
type CheckoutInput struct {
	ShippingAddress string `json:"shipping_address" binding:"omitempty,max=500"`
	Phone           string `json:"phone" binding:"omitempty,idphone"`
	Note            string `json:"note" binding:"omitempty,max=500"`
}

// OrderService gestiona el checkout y el ciclo de vida de los pedidos
type OrderService struct {
	orders      OrderStore
	products    ProductStore
	carts       CartStore
	invalidator ProductInvalidator
	publisher   events.Publisher
	pricing     Pricing
	log         *zap.Logger

	now func() time.Time
}

func NewOrderService(orders OrderStore, products ProductStore, carts CartStore, invalidator ProductInvalidator,
	publisher events.Publisher, pricing Pricing, log *zap.Logger) *OrderService {
	return &OrderService{
		orders:      orders,
		products:    products,
		carts:       carts,
		invalidator: invalidator,
		publisher:   publisher,
		pricing:     pricing,
		log:         log,
		now:         time.Now,
	}
}

type reservation struct {
	productID primitive.ObjectID
	quantity  int64
}

// Checkout convierte el carrito en un pedido pendiente. El stock se descuenta
// línea por línea; si una falla se devuelven las ya descontadas.
func (s *OrderService) Checkout(ctx context.Context, user *models.User, in CheckoutInput) (*models.Order, error) {
	address := strings.TrimSpace(in.ShippingAddress)
	if address == "" {
		address = user.Address
	}
	if address == "" {
		return nil, apperr.Invalid("shipping_address", "shipping address is required")
	}
	phone := strings.TrimSpace(in.Phone)
	if phone == "" {
		phone = user.Phone
	}

	cart, err := s.carts.Get(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, apperr.ErrEmptyCart
	}

	products, err := s.products.FindByIDs(ctx, cartProductIDs(cart))
	if err != nil {
		return nil, err
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	var subtotal int64
	for _, it := range cart.Items {
		p, ok := products[it.ProductID]
		if !ok || !p.Available() {
			return nil, fmt.Errorf("product %s: %w", it.ProductID.Hex(), apperr.ErrProductUnavailable)
		}
		line := models.OrderItem{
			ProductID: p.ID,
			SKU:       p.SKU,
			Name:      p.Name,
			Unit:      p.Unit,
			PriceIDR:  p.PriceIDR,
			Quantity:  it.Quantity,
			Subtotal:  p.PriceIDR * it.Quantity,
		}
		subtotal += line.Subtotal
		items = append(items, line)
	}

	taken := make([]reservation, 0, len(items))
	for _, it := range items {
		if _, err := s.products.AdjustStock(ctx, it.ProductID, -it.Quantity); err != nil {
			s.restore(ctx, taken)
			if errors.Is(err, apperr.ErrInsufficientStock) {
				return nil, fmt.Errorf("product %s: %w", it.SKU, apperr.ErrInsufficientStock)
			}
			return nil, err
		}
		taken = append(taken, reservation{productID: it.ProductID, quantity: it.Quantity})
	}

	now := s.now()
	shipping := s.pricing.ShippingFor(subtotal)
	order := &models.Order{
		Number:          OrderNumber(now),
		UserID:          user.ID,
		Items:           items,
		Subtotal:        subtotal,
		ShippingFee:     shipping,
		Total:           subtotal + shipping,
		Status:          models.OrderStatusPending,
		ShippingAddress: address,
		Phone:           phone,
		Note:            strings.TrimSpace(in.Note),
		StatusHistory:   []models.StatusChange{{Status: models.OrderStatusPending, At: now, By: user.ID.Hex()}},
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		s.restore(ctx, taken)
		return nil, err
	}

	if err := s.carts.Clear(ctx, user.ID); err != nil {
		s.log.Warn("clear cart after checkout failed", zap.String("user_id", user.ID.Hex()), zap.Error(err))
	}
	for _, r := range taken {
		s.invalidator.InvalidateProduct(ctx, r.productID)
	}

	s.publish(ctx, events.OrderCreated, order, "")
	s.log.Info("order placed",
		zap.String("number", order.Number),
		zap.String("user_id", user.ID.Hex()),
		zap.Int64("total", order.Total),
	)
	return order, nil
}

// restore devuelve el stock reservado; los errores solo se registran
func (s *OrderService) restore(ctx context.Context, taken []reservation) {
	for _, r := range taken {
		if _, err := s.products.AdjustStock(ctx, r.productID, r.quantity); err != nil {
			s.log.Error("restore stock failed",
				zap.String("product_id", r.productID.Hex()),
				zap.Int64("quantity", r.quantity),
				zap.Error(err),
			)
			continue
		}
		s.invalidator.InvalidateProduct(ctx, r.productID)
	}
}

// ListMyOrders pagina los pedidos del cliente
func (s *OrderService) ListMyOrders(ctx context.Context, userID primitive.ObjectID, page, pageSize int) (models.Page[*models.Order], error) {
	return s.ListOrders(ctx, models.OrderQuery{UserID: &userID, Page: page, PageSize: pageSize})
}

// GetMyOrder obtiene un pedido del cliente; los ajenos no existen para él
func (s *OrderService) GetMyOrder(ctx context.Context, userID, id primitive.ObjectID) (*models.Order, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.UserID != userID {
		return nil, fmt.Errorf("order %s: %w", id.Hex(), apperr.ErrNotFound)
	}
	return order, nil
}

// CancelMyOrder cancela un pedido propio mientras siga pendiente
func (s *OrderService) CancelMyOrder(ctx context.Context, userID, id primitive.ObjectID) (*models.Order, error) {
	order, err := s.GetMyOrder(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if order.Status != models.OrderStatusPending {
		return nil, fmt.Errorf("cancel %s order: %w", order.Status, apperr.ErrInvalidTransition)
	}
	return s.transition(ctx, order, models.OrderStatusCancelled, userID.Hex())
}

// ListOrders pagina todos los pedidos con filtros (back-office)
func (s *OrderService) ListOrders(ctx context.Context, q models.OrderQuery) (models.Page[*models.Order], error) {
	if q.Status != "" && !q.Status.Valid() {
		return models.Page[*models.Order]{}, apperr.Invalid("status", "unknown order status %q", q.Status)
	}
	q.Page, q.PageSize = pageParams(q.Page, q.PageSize)
	orders, total, err := s.orders.List(ctx, q)
	if err != nil {
		return models.Page[*models.Order]{}, err
	}
	return models.NewPage(orders, total, q.Page, q.PageSize), nil
}

func (s *OrderService) GetOrder(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return s.orders.FindByID(ctx, id)
}

// UpdateStatus mueve el pedido al siguiente estado (back-office)
func (s *OrderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, next models.OrderStatus, by string) (*models.Order, error) {
	if !next.Valid() {
		return nil, apperr.Invalid("status", "unknown order status %q", next)
	}
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.transition(ctx, order, next, by)
}

func (s *OrderService) transition(ctx context.Context, order *models.Order, next models.OrderStatus, by string) (*models.Order, error) {
	prev := order.Status
	if !prev.CanTransitionTo(next) {
		return nil, fmt.Errorf("%s -> %s: %w", prev, next, apperr.ErrInvalidTransition)
	}

	updated, err := s.orders.UpdateStatus(ctx, order.ID, prev, models.StatusChange{Status: next, At: s.now(), By: by})
	if err != nil {
		return nil, err
	}

	if next == models.OrderStatusCancelled {
		taken := make([]reservation, len(updated.Items))
		for i, it := range updated.Items {
			taken[i] = reservation{productID: it.ProductID, quantity: it.Quantity}
		}
		s.restore(ctx, taken)
	}

	s.publish(ctx, events.OrderStatusChanged, updated, prev)
	s.log.Info("order status changed",
		zap.String("number", updated.Number),
		zap.String("from", string(prev)),
		zap.String("to", string(next)),
		zap.String("by", by),
	)
	return updated, nil
}

func (s *OrderService) publish(ctx context.Context, kind string, order *models.Order, prev models.OrderStatus) {
	e := events.Event{
		Type:       kind,
		OrderID:    order.ID.Hex(),
		Number:     order.Number,
		UserID:     order.UserID.Hex(),
		Status:     string(order.Status),
		PrevStatus: string(prev),
		Total:      order.Total,
		At:         s.now(),
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		s.log.Error("publish order event failed",
			zap.String("type", kind),
			zap.String("number", order.Number),
			zap.Error(err),
		)
	}
}

// OrderNumber genera el número legible INV/<yyyymmdd>/<8 hex>
func OrderNumber(at time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("INV/%s/%s", at.In(jakarta).Format("20060102"), suffix)
}
