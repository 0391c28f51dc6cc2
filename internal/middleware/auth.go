package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"textile-store/internal/apperr"
	"textile-store/internal/i18n"
	"textile-store/internal/models"
	"textile-store/internal/permission"
)

const (
	userKey  = "user"
	tokenKey = "token"
)

// Authenticator resuelve el usuario de un token de sesión
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// RequireAuth exige una sesión válida (Authorization: Bearer <token>)
func RequireAuth(auth Authenticator, bus *permission.Bus) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			deny(c, bus, nil, http.StatusUnauthorized, "missing bearer token")
			return
		}

		user, err := auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, apperr.ErrUnauthorized) {
				deny(c, bus, nil, http.StatusUnauthorized, "invalid or expired session")
				return
			}
			_ = c.Error(err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": i18n.T(LocaleOf(c), i18n.MsgInternal),
				"code":  i18n.MsgInternal,
			})
			return
		}

		c.Set(userKey, user)
		c.Set(tokenKey, token)
		if !c.GetBool(explicitKey) {
			if loc := i18n.Normalize(user.Locale); loc != "" {
				c.Set(localeKey, loc)
			}
		}
		c.Next()
	}
}

// RequireAdmin exige rol admin; va después de RequireAuth
func RequireAdmin(bus *permission.Bus) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			deny(c, bus, nil, http.StatusUnauthorized, "no session")
			return
		}
		if !user.IsAdmin() {
			deny(c, bus, user, http.StatusForbidden, "admin role required")
			return
		}
		c.Next()
	}
}

// CurrentUser devuelve el usuario autenticado o nil
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// Token devuelve el token de sesión de la petición
func Token(c *gin.Context) string {
	return c.GetString(tokenKey)
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// deny corta la petición y publica el fallo en el bus de permisos
func deny(c *gin.Context, bus *permission.Bus, user *models.User, status int, reason string) {
	e := permission.Error{
		Method: c.Request.Method,
		Path:   c.FullPath(),
		Status: status,
		Reason: reason,
		At:     time.Now(),
	}
	if e.Path == "" {
		e.Path = c.Request.URL.Path
	}
	if user != nil {
		e.UserID = user.ID.Hex()
		e.Role = user.Role
	}
	if bus != nil {
		bus.Publish(e)
	}

	key := i18n.MsgUnauthorized
	if status == http.StatusForbidden {
		key = i18n.MsgForbidden
	}
	c.AbortWithStatusJSON(status, gin.H{"error": i18n.T(LocaleOf(c), key), "code": key})
}
