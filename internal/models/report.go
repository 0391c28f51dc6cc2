package models

// SalesReport resume las ventas de un rango de fechas
type SalesReport struct {
	From              string                `json:"from"`
	To                string                `json:"to"`
	OrderCount        int64                 `json:"order_count"`
	Revenue           int64                 `json:"revenue"`
	ItemsSold         int64                 `json:"items_sold"`
	AverageOrderValue int64                 `json:"average_order_value"`
	Daily             []DailySales          `json:"daily"`
	TopProducts       []ProductSales        `json:"top_products"`
	ByStatus          map[OrderStatus]int64 `json:"by_status"`
	Display           Display               `json:"display,omitempty"`
}

type DailySales struct {
	Date    string `json:"date"`
	Orders  int64  `json:"orders"`
	Revenue int64  `json:"revenue"`
}

type ProductSales struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
	Revenue   int64  `json:"revenue"`
}

// Dashboard son los contadores de la portada del back-office
type Dashboard struct {
	Products       int64   `json:"products"`
	ActiveProducts int64   `json:"active_products"`
	LowStock       int64   `json:"low_stock"`
	PendingOrders  int64   `json:"pending_orders"`
	RevenueToday   int64   `json:"revenue_today"`
	Display        Display `json:"display,omitempty"`
}
