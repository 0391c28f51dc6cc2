package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"textile-store/internal/middleware"
	"textile-store/internal/permission"
	"textile-store/internal/service"
)

type ReportHandler struct {
	reports *service.ReportService
	bus     *permission.Bus
}

func NewReportHandler(reports *service.ReportService, bus *permission.Bus) *ReportHandler {
	return &ReportHandler{reports: reports, bus: bus}
}

func reportRange(c *gin.Context) (time.Time, time.Time, error) {
	return service.ReportRange(c.Query("from"), c.Query("to"), time.Now())
}

// GET /v1/admin/reports/sales?from=yyyy-mm-dd&to=yyyy-mm-dd
func (h *ReportHandler) Sales(c *gin.Context) {
	from, to, err := reportRange(c)
	if err != nil {
		respondError(c, err)
		return
	}
	report, err := h.reports.Sales(c.Request.Context(), from, to, middleware.LocaleOf(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// GET /v1/admin/dashboard
func (h *ReportHandler) Dashboard(c *gin.Context) {
	d, err := h.reports.Dashboard(c.Request.Context(), middleware.LocaleOf(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// GET /v1/admin/permission-errors?limit=
func (h *ReportHandler) PermissionErrors(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	c.JSON(http.StatusOK, gin.H{"data": h.bus.Recent(limit)})
}
