package service

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/mock/gomock"

	"textile-store/internal/apperr"
	"textile-store/internal/events"
	"textile-store/internal/models"
	"textile-store/internal/service/memstore"
	"textile-store/internal/service/mocks"
)

type orderFixture struct {
	svc       *OrderService
	products  *memstore.Products
	carts     *memstore.Carts
	orders    *memstore.Orders
	events    *recordedEvents
	invalided *invalidations
	user      *models.User
}

func newOrderFixture(t *testing.T, products ...*models.Product) *orderFixture {
	t.Helper()
	f := &orderFixture{
		products:  memstore.NewProducts(products...),
		carts:     memstore.NewCarts(),
		orders:    memstore.NewOrders(),
		events:    &recordedEvents{},
		invalided: &invalidations{},
		user:      &models.User{ID: primitive.NewObjectID(), Name: "Siti", Address: "Jl. Malioboro 1, Yogyakarta", Phone: "081234567890"},
	}
	f.svc = NewOrderService(f.orders, f.products, f.carts, f.invalided, f.events, testPricing, testLog)
	return f
}

func (f *orderFixture) fill(t *testing.T, items ...models.CartItem) {
	t.Helper()
	require.NoError(t, f.carts.Save(context.Background(), &models.Cart{UserID: f.user.ID, Items: items}))
}

func TestCheckout(t *testing.T) {
	cotton := fabric("KTN", 45000, 10)
	silk := fabric("SUT", 120000, 5)
	f := newOrderFixture(t, cotton, silk)
	ctx := context.Background()
	f.fill(t, models.CartItem{ProductID: cotton.ID, Quantity: 4}, models.CartItem{ProductID: silk.ID, Quantity: 1})

	order, err := f.svc.Checkout(ctx, f.user, CheckoutInput{Note: "  kirim pagi "})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^INV/\d{8}/[0-9A-F]{8}$`), order.Number)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, int64(300000), order.Subtotal)
	assert.Equal(t, int64(15000), order.ShippingFee)
	assert.Equal(t, int64(315000), order.Total)
	assert.Equal(t, f.user.Address, order.ShippingAddress)
	assert.Equal(t, "kirim pagi", order.Note)
	require.Len(t, order.StatusHistory, 1)

	assert.Equal(t, int64(6), f.products.Stock(cotton.ID))
	assert.Equal(t, int64(4), f.products.Stock(silk.ID))

	cart, err := f.carts.Get(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	assert.Equal(t, []string{events.OrderCreated}, f.events.types())
	assert.Len(t, f.invalided.ids, 2)
}

func TestCheckoutRollsBackStock(t *testing.T) {
	cotton := fabric("KTN", 45000, 10)
	silk := fabric("SUT", 120000, 1)
	f := newOrderFixture(t, cotton, silk)
	f.fill(t, models.CartItem{ProductID: cotton.ID, Quantity: 4}, models.CartItem{ProductID: silk.ID, Quantity: 2})

	_, err := f.svc.Checkout(context.Background(), f.user, CheckoutInput{})
	require.ErrorIs(t, err, apperr.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "SUT")

	assert.Equal(t, int64(10), f.products.Stock(cotton.ID))
	assert.Equal(t, int64(1), f.products.Stock(silk.ID))
	assert.Empty(t, f.events.types())

	cart, _ := f.carts.Get(context.Background(), f.user.ID)
	assert.Len(t, cart.Items, 2)
}

func TestCheckoutRejects(t *testing.T) {
	cotton := fabric("KTN", 45000, 10)
	hidden := fabric("OLD", 30000, 10)
	hidden.IsActive = false
	ctx := context.Background()

	t.Run("empty cart", func(t *testing.T) {
		f := newOrderFixture(t, cotton)
		_, err := f.svc.Checkout(ctx, f.user, CheckoutInput{})
		assert.ErrorIs(t, err, apperr.ErrEmptyCart)
	})

	t.Run("unavailable product", func(t *testing.T) {
		f := newOrderFixture(t, cotton, hidden)
		f.fill(t, models.CartItem{ProductID: cotton.ID, Quantity: 1}, models.CartItem{ProductID: hidden.ID, Quantity: 1})
		_, err := f.svc.Checkout(ctx, f.user, CheckoutInput{})
		assert.ErrorIs(t, err, apperr.ErrProductUnavailable)
		assert.Equal(t, int64(10), f.products.Stock(cotton.ID))
	})

	t.Run("missing address", func(t *testing.T) {
		f := newOrderFixture(t, cotton)
		f.user.Address = ""
		f.fill(t, models.CartItem{ProductID: cotton.ID, Quantity: 1})
		_, err := f.svc.Checkout(ctx, f.user, CheckoutInput{})
		ve, ok := apperr.AsValidation(err)
		require.True(t, ok)
		assert.Equal(t, "shipping_address", ve.Field)
	})
}

func TestCheckoutFreeShipping(t *testing.T) {
	cotton := fabric("KTN", 100000, 10)
	f := newOrderFixture(t, cotton)
	f.fill(t, models.CartItem{ProductID: cotton.ID, Quantity: 5})

	order, err := f.svc.Checkout(context.Background(), f.user, CheckoutInput{})
	require.NoError(t, err)
	assert.Zero(t, order.ShippingFee)
	assert.Equal(t, int64(500000), order.Total)
}

func TestOrderStatusMachine(t *testing.T) {
	cotton := fabric("KTN", 45000, 10)
	f := newOrderFixture(t, cotton)
	ctx := context.Background()
	f.fill(t, models.CartItem{ProductID: cotton.ID, Quantity: 3})

	order, err := f.svc.Checkout(ctx, f.user, CheckoutInput{})
	require.NoError(t, err)

	_, err = f.svc.UpdateStatus(ctx, order.ID, models.OrderStatusShipped, "admin")
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	_, err = f.svc.UpdateStatus(ctx, order.ID, "lost", "admin")
	_, ok := apperr.AsValidation(err)
	assert.True(t, ok)

	for _, next := range []models.OrderStatus{
		models.OrderStatusPaid, models.OrderStatusProcessing,
		models.OrderStatusShipped, models.OrderStatusCompleted,
	} {
		order, err = f.svc.UpdateStatus(ctx, order.ID, next, "admin")
		require.NoError(t, err, "to %s", next)
	}
	assert.Len(t, order.StatusHistory, 5)

	_, err = f.svc.UpdateStatus(ctx, order.ID, models.OrderStatusCancelled, "admin")
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
	assert.Equal(t, int64(7), f.products.Stock(cotton.ID))
	assert.Len(t, f.events.types(), 5)
}

func TestCancelRestoresStock(t *testing.T) {
	cotton := fabric("KTN", 45000, 10)
	f := newOrderFixture(t, cotton)
	ctx := context.Background()
	f.fill(t, models.CartItem{ProductID: cotton.ID, Quantity: 3})

	order, err := f.svc.Checkout(ctx, f.user, CheckoutInput{})
	require.NoError(t, err)
	require.Equal(t, int64(7), f.products.Stock(cotton.ID))

	_, err = f.svc.CancelMyOrder(ctx, primitive.NewObjectID(), order.ID)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	cancelled, err := f.svc.CancelMyOrder(ctx, f.user.ID, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, int64(10), f.products.Stock(cotton.ID))

	_, err = f.svc.CancelMyOrder(ctx, f.user.ID, order.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)
}

func TestCustomerCannotCancelPaidOrder(t *testing.T) {
	cotton := fabric("KTN", 45000, 10)
	f := newOrderFixture(t, cotton)
	ctx := context.Background()
	f.fill(t, models.CartItem{ProductID: cotton.ID, Quantity: 1})

	order, err := f.svc.Checkout(ctx, f.user, CheckoutInput{})
	require.NoError(t, err)
	_, err = f.svc.UpdateStatus(ctx, order.ID, models.OrderStatusPaid, "admin")
	require.NoError(t, err)

	_, err = f.svc.CancelMyOrder(ctx, f.user.ID, order.ID)
	assert.ErrorIs(t, err, apperr.ErrInvalidTransition)

	// el back-office sí puede cancelar un pedido pagado
	_, err = f.svc.UpdateStatus(ctx, order.ID, models.OrderStatusCancelled, "admin")
	require.NoError(t, err)
	assert.Equal(t, int64(10), f.products.Stock(cotton.ID))
}

func TestUpdateStatusConcurrentChange(t *testing.T) {
	ctrl := gomock.NewController(t)
	orders := mocks.NewMockOrderStore(ctrl)
	products := mocks.NewMockProductStore(ctrl)
	carts := mocks.NewMockCartStore(ctrl)
	svc := NewOrderService(orders, products, carts, &invalidations{}, &recordedEvents{}, testPricing, testLog)

	id := primitive.NewObjectID()
	orders.EXPECT().FindByID(gomock.Any(), id).Return(&models.Order{ID: id, Status: models.OrderStatusPending}, nil)
	orders.EXPECT().UpdateStatus(gomock.Any(), id, models.OrderStatusPending, gomock.Any()).
		Return(nil, apperr.ErrConflict)

	_, err := svc.UpdateStatus(context.Background(), id, models.OrderStatusCancelled, "admin")
	assert.ErrorIs(t, err, apperr.ErrConflict)
}

func TestCheckoutPublishFailureDoesNotFail(t *testing.T) {
	cotton := fabric("KTN", 45000, 10)
	f := newOrderFixture(t, cotton)
	f.events.err = errors.New("broker down")
	f.fill(t, models.CartItem{ProductID: cotton.ID, Quantity: 1})

	_, err := f.svc.Checkout(context.Background(), f.user, CheckoutInput{})
	assert.NoError(t, err)
}

func TestListOrders(t *testing.T) {
	cotton := fabric("KTN", 45000, 100)
	f := newOrderFixture(t, cotton)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		f.fill(t, models.CartItem{ProductID: cotton.ID, Quantity: 1})
		_, err := f.svc.Checkout(ctx, f.user, CheckoutInput{})
		require.NoError(t, err)
	}

	mine, err := f.svc.ListMyOrders(ctx, f.user.ID, 1, 2)
	require.NoError(t, err)
	assert.Len(t, mine.Data, 2)
	assert.Equal(t, int64(3), mine.Total)
	assert.Equal(t, int64(2), mine.TotalPages)

	other, err := f.svc.ListMyOrders(ctx, primitive.NewObjectID(), 1, 10)
	require.NoError(t, err)
	assert.Empty(t, other.Data)

	_, err = f.svc.ListOrders(ctx, models.OrderQuery{Status: "unknown"})
	_, ok := apperr.AsValidation(err)
	assert.True(t, ok)
}

func TestOrderNumber(t *testing.T) {
	at := time.Date(2024, 3, 31, 20, 0, 0, 0, time.UTC)
	// 20:00 UTC ya es 1 de abril en Jakarta
	assert.Regexp(t, `^INV/20240401/[0-9A-F]{8}$`, OrderNumber(at))
	assert.NotEqual(t, OrderNumber(at), OrderNumber(at))
}
