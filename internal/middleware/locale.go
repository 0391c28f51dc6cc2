package middleware

import (
	"github.com/gin-gonic/gin"

	"textile-store/internal/i18n"
)

const (
	localeKey   = "locale"
	explicitKey = "locale_explicit"
)

// Locale resuelve el idioma con ?lang= y Accept-Language. RequireAuth lo
// corrige después con el idioma guardado del usuario.
func Locale(fallback string) gin.HandlerFunc {
	return func(c *gin.Context) {
		explicit := i18n.Normalize(c.Query("lang"))
		c.Set(explicitKey, explicit != "")
		c.Set(localeKey, i18n.Negotiate(explicit, "", c.GetHeader("Accept-Language"), fallback))
		c.Next()
	}
}

// LocaleOf devuelve el idioma de la petición ("id" si no se resolvió)
func LocaleOf(c *gin.Context) string {
	if loc := c.GetString(localeKey); loc != "" {
		return loc
	}
	return i18n.Indonesian
}
