package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"textile-store/internal/i18n"
	"textile-store/internal/middleware"
	"textile-store/internal/models"
	"textile-store/internal/service"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required"`
}

type setRoleRequest struct {
	Role string `json:"role" binding:"required,oneof=admin customer"`
}

// POST /v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var in service.RegisterInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}
	if in.Locale == "" {
		in.Locale = middleware.LocaleOf(c)
	}

	user, err := h.auth.Register(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// POST /v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var in loginRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	res, err := h.auth.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// POST /v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.auth.Logout(c.Request.Context(), middleware.Token(c)); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, i18n.MsgLoggedOut)
}

// GET /v1/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.auth.GetProfile(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// PATCH /v1/me
func (h *AuthHandler) UpdateMe(c *gin.Context) {
	var in models.ProfileUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.auth.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c).ID, in)
	if err != nil {
		respondError(c, err)
		return
	}
	locale := middleware.LocaleOf(c)
	if in.Locale != nil {
		locale = *in.Locale
	}
	c.JSON(http.StatusOK, gin.H{
		"message": i18n.T(locale, i18n.MsgProfileUpdated),
		"code":    i18n.MsgProfileUpdated,
		"data":    user,
	})
}

// PUT /v1/me/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var in changePasswordRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	err := h.auth.ChangePassword(c.Request.Context(), middleware.CurrentUser(c).ID, in.CurrentPassword, in.NewPassword)
	if err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, i18n.MsgPasswordChanged)
}

// GET /v1/admin/users
func (h *AuthHandler) ListUsers(c *gin.Context) {
	page, pageSize := getPaginationParams(c)
	users, err := h.auth.ListUsers(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// PATCH /v1/admin/users/:id/role
func (h *AuthHandler) SetRole(c *gin.Context) {
	id, err := parseObjectID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var in setRoleRequest
	if err := c.ShouldBindJSON(&in); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.auth.SetRole(c.Request.Context(), middleware.CurrentUser(c).ID, id, in.Role); err != nil {
		respondError(c, err)
		return
	}
	respondMessage(c, http.StatusOK, i18n.MsgRoleUpdated)
}
