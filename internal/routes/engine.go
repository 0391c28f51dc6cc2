package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"textile-store/internal/middleware"
)

// NewEngine crea el router con el middleware común
func NewEngine(log *zap.Logger, defaultLocale string) *gin.Engine {
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Logger(log),
		middleware.Recovery(log),
		middleware.Locale(defaultLocale),
	)
	return router
}
