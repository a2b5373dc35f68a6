// Package handlers provides HTTP request handlers.
package handlers

import (
	"github.com/gin-gonic/gin"

	"tillbox/internal/core/apperror"
	appctx "tillbox/internal/core/context"
	"tillbox/internal/domain/auth"
	"tillbox/internal/infrastructure/http/v1/dto"
	"tillbox/internal/infrastructure/http/v1/middleware"
)

// AuthHandler handles authentication and user management endpoints.
type AuthHandler struct {
	*BaseHandler
	service *auth.Service
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(base *BaseHandler, service *auth.Service) *AuthHandler {
	return &AuthHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	ctx := c.Request.Context()

	var creds auth.Credentials
	if !h.BindJSON(c, &creds) {
		return
	}

	token, user, err := h.service.Login(ctx, creds)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, "login successful", dto.LoginData{
		Token: token,
		User:  dto.FromUser(user),
	})
}

// Me handles GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	ctx := c.Request.Context()

	userCtx := appctx.GetUser(ctx)
	if userCtx == nil {
		h.Error(c, apperror.NewUnauthorized("not authenticated"))
		return
	}

	user, err := h.service.GetUserByID(ctx, userCtx.UserID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, "current user", dto.FromUser(user))
}

// CreateUser handles POST /users
func (h *AuthHandler) CreateUser(c *gin.Context) {
	ctx := c.Request.Context()

	var req auth.CreateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}

	user, err := h.service.CreateUser(ctx, req)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, "user created", dto.FromUser(user))
}

// RegisterRoutes registers auth routes.
func (h *AuthHandler) RegisterRoutes(public, protected *gin.RouterGroup) {
	public.POST("/auth/login", h.Login)

	protected.GET("/auth/me", h.Me)
	// NOTE: user creation is privileged. Keep it behind the admin role.
	protected.POST("/users", middleware.RequireRole("admin"), h.CreateUser)
}
