package service

import (
	"context"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"textile-store/internal/apperr"
	"textile-store/internal/i18n"
	"textile-store/internal/models"
)

const (
	dateLayout      = "2006-01-02"
	topProductLimit = 10
	defaultRange    = 30
)

// Asia/Jakarta (WIB) no tiene horario de verano
var jakarta = time.FixedZone("WIB", 7*60*60)

var allStatuses = []models.OrderStatus{
	models.OrderStatusPending, models.OrderStatusPaid, models.OrderStatusProcessing,
	models.OrderStatusShipped, models.OrderStatusCompleted, models.OrderStatusCancelled,
}

// ReportService calcula los reportes del back-office
type ReportService struct {
	orders    OrderStore
	products  ProductStore
	threshold int64
	log       *zap.Logger
	now       func() time.Time
}

func NewReportService(orders OrderStore, products ProductStore, lowStockThreshold int64, log *zap.Logger) *ReportService {
	return &ReportService{orders: orders, products: products, threshold: lowStockThreshold, log: log, now: time.Now}
}

// ReportRange interpreta fechas yyyy-mm-dd (hora de Jakarta) como el rango
// [from, to+1d). Sin fechas se usan los últimos 30 días.
func ReportRange(from, to string, now time.Time) (time.Time, time.Time, error) {
	today := startOfDay(now)
	end := today.AddDate(0, 0, 1)
	if to != "" {
		t, err := time.ParseInLocation(dateLayout, to, jakarta)
		if err != nil {
			return time.Time{}, time.Time{}, apperr.Invalid("to", "to must be a date (yyyy-mm-dd)")
		}
		end = t.AddDate(0, 0, 1)
	}
	start := end.AddDate(0, 0, -defaultRange)
	if from != "" {
		t, err := time.ParseInLocation(dateLayout, from, jakarta)
		if err != nil {
			return time.Time{}, time.Time{}, apperr.Invalid("from", "from must be a date (yyyy-mm-dd)")
		}
		start = t
	}
	if !start.Before(end) {
		return time.Time{}, time.Time{}, apperr.Invalid("from", "from must not be after to")
	}
	return start, end, nil
}

func startOfDay(t time.Time) time.Time {
	t = t.In(jakarta)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, jakarta)
}

// Sales resume las ventas creadas en [from, to)
func (s *ReportService) Sales(ctx context.Context, from, to time.Time, locale string) (*models.SalesReport, error) {
	orders, err := s.orders.FindCreatedBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	report := BuildSalesReport(orders, from, to)
	report.Display = models.Display{
		"revenue":             i18n.FormatIDR(report.Revenue, locale),
		"average_order_value": i18n.FormatIDR(report.AverageOrderValue, locale),
	}
	return report, nil
}

// BuildSalesReport agrega los pedidos; solo los estados de venta cuentan
// para ingresos, mientras ByStatus cuenta todos.
func BuildSalesReport(orders []*models.Order, from, to time.Time) *models.SalesReport {
	report := &models.SalesReport{
		From:        from.In(jakarta).Format(dateLayout),
		To:          to.Add(-time.Nanosecond).In(jakarta).Format(dateLayout),
		Daily:       []models.DailySales{},
		TopProducts: []models.ProductSales{},
		ByStatus:    make(map[models.OrderStatus]int64, len(allStatuses)),
	}
	for _, st := range allStatuses {
		report.ByStatus[st] = 0
	}

	daily := map[string]*models.DailySales{}
	products := map[string]*models.ProductSales{}

	for _, o := range orders {
		report.ByStatus[o.Status]++
		if !o.Status.CountsAsSale() {
			continue
		}
		report.OrderCount++
		report.Revenue += o.Total

		day := o.CreatedAt.In(jakarta).Format(dateLayout)
		d, ok := daily[day]
		if !ok {
			d = &models.DailySales{Date: day}
			daily[day] = d
		}
		d.Orders++
		d.Revenue += o.Total

		for _, it := range o.Items {
			report.ItemsSold += it.Quantity
			key := it.ProductID.Hex()
			p, ok := products[key]
			if !ok {
				p = &models.ProductSales{ProductID: key, Name: it.Name}
				products[key] = p
			}
			p.Quantity += it.Quantity
			p.Revenue += it.Subtotal
		}
	}

	if report.OrderCount > 0 {
		report.AverageOrderValue = report.Revenue / report.OrderCount
	}

	for _, d := range daily {
		report.Daily = append(report.Daily, *d)
	}
	sort.Slice(report.Daily, func(i, j int) bool { return report.Daily[i].Date < report.Daily[j].Date })

	for _, p := range products {
		report.TopProducts = append(report.TopProducts, *p)
	}
	sort.Slice(report.TopProducts, func(i, j int) bool {
		a, b := report.TopProducts[i], report.TopProducts[j]
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		if a.Revenue != b.Revenue {
			return a.Revenue > b.Revenue
		}
		return a.ProductID < b.ProductID
	})
	if len(report.TopProducts) > topProductLimit {
		report.TopProducts = report.TopProducts[:topProductLimit]
	}
	return report
}

// Dashboard calcula los contadores de la portada en paralelo
func (s *ReportService) Dashboard(ctx context.Context, locale string) (*models.Dashboard, error) {
	var d models.Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := s.products.Count(gctx, false)
		d.Products = n
		return err
	})
	g.Go(func() error {
		n, err := s.products.Count(gctx, true)
		d.ActiveProducts = n
		return err
	})
	g.Go(func() error {
		n, err := s.products.CountLowStock(gctx, s.threshold)
		d.LowStock = n
		return err
	})
	g.Go(func() error {
		n, err := s.orders.CountByStatus(gctx, models.OrderStatusPending)
		d.PendingOrders = n
		return err
	})
	g.Go(func() error {
		start := startOfDay(s.now())
		orders, err := s.orders.FindCreatedBetween(gctx, start, start.AddDate(0, 0, 1))
		if err != nil {
			return err
		}
		for _, o := range orders {
			if o.Status.CountsAsSale() {
				d.RevenueToday += o.Total
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.log.Error("dashboard failed", zap.Error(err))
		return nil, err
	}
	d.Display = models.Display{"revenue_today": i18n.FormatIDR(d.RevenueToday, locale)}
	return &d, nil
}
