package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"textile-store/internal/handlers"
	"textile-store/internal/middleware"
	"textile-store/internal/permission"
	"textile-store/internal/service"
)

// Services agrupa todo lo que necesitan las rutas
type Services struct {
	Auth      *service.AuthService
	Catalog   *service.CatalogService
	Cart      *service.CartService
	Orders    *service.OrderService
	Ratings   *service.RatingService
	Inventory *service.InventoryService
	Materials *service.MaterialService
	Reports   *service.ReportService
	Bus       *permission.Bus
}

// RegisterRoutes monta la API; cada grupo corresponde a una página del
// front (tienda pública, cuenta del cliente, back-office).
func RegisterRoutes(router *gin.Engine, s Services) {
	products := handlers.NewProductHandler(s.Catalog)
	auth := handlers.NewAuthHandler(s.Auth)
	cart := handlers.NewCartHandler(s.Cart)
	orders := handlers.NewOrderHandler(s.Orders)
	ratings := handlers.NewRatingHandler(s.Ratings)
	inventory := handlers.NewInventoryHandler(s.Inventory)
	materials := handlers.NewMaterialHandler(s.Materials)
	reports := handlers.NewReportHandler(s.Reports, s.Bus)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/v1")
	{
		v1.POST("/auth/register", auth.Register)
		v1.POST("/auth/login", auth.Login)
		v1.GET("/products", products.ListProducts)
		v1.GET("/products/:id", products.GetProduct)
		v1.GET("/products/:id/ratings", ratings.ListRatings)
		v1.GET("/categories", products.ListCategories)
	}

	customer := v1.Group("", middleware.RequireAuth(s.Auth, s.Bus))
	{
		customer.POST("/auth/logout", auth.Logout)
		customer.GET("/me", auth.Me)
		customer.PATCH("/me", auth.UpdateMe)
		customer.PUT("/me/password", auth.ChangePassword)

		customer.GET("/cart", cart.GetCart)
		customer.POST("/cart/items", cart.AddItem)
		customer.PUT("/cart/items/:productId", cart.SetQuantity)
		customer.DELETE("/cart/items/:productId", cart.RemoveItem)
		customer.DELETE("/cart", cart.ClearCart)

		customer.POST("/checkout", orders.Checkout)
		customer.GET("/orders", orders.ListMyOrders)
		customer.GET("/orders/:id", orders.GetMyOrder)
		customer.POST("/orders/:id/cancel", orders.CancelMyOrder)
		customer.POST("/products/:id/ratings", ratings.Rate)
	}

	admin := customer.Group("/admin", middleware.RequireAdmin(s.Bus))
	{
		admin.POST("/products", products.CreateProduct)
		admin.GET("/products", products.AdminListProducts)
		admin.GET("/products/:id", products.AdminGetProduct)
		admin.PATCH("/products/:id", products.UpdateProduct)
		admin.DELETE("/products/:id", products.DeleteProduct)

		admin.GET("/inventory/low-stock", inventory.LowStock)
		admin.POST("/inventory/:id/adjust", inventory.Adjust)
		admin.PUT("/inventory/:id", inventory.Set)

		admin.GET("/orders", orders.ListOrders)
		admin.GET("/orders/:id", orders.GetOrder)
		admin.PATCH("/orders/:id/status", orders.UpdateStatus)

		admin.GET("/users", auth.ListUsers)
		admin.PATCH("/users/:id/role", auth.SetRole)

		admin.GET("/materials/purchases", materials.ListPurchases)
		admin.POST("/materials/purchases", materials.RecordPurchase)
		admin.DELETE("/materials/purchases/:id", materials.DeletePurchase)
		admin.GET("/materials/usages", materials.ListUsages)
		admin.POST("/materials/usages", materials.RecordUsage)
		admin.DELETE("/materials/usages/:id", materials.DeleteUsage)
		admin.GET("/materials/stock", materials.StockTable)
		admin.POST("/materials/reconcile", materials.Reconcile)

		admin.GET("/reports/sales", reports.Sales)
		admin.GET("/dashboard", reports.Dashboard)
		admin.GET("/permission-errors", reports.PermissionErrors)
	}
}
