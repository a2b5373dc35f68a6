package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"tillbox/internal/core/apperror"
	appctx "tillbox/internal/core/context"
	"tillbox/internal/domain/listing"
	"tillbox/internal/infrastructure/http/v1/dto"
)

// BaseHandler provides common handler utilities.
type BaseHandler struct{}

// NewBaseHandler creates a new base handler.
func NewBaseHandler() *BaseHandler {
	return &BaseHandler{}
}

// BindJSON binds and validates JSON request body.
func (h *BaseHandler) BindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		h.Error(c, apperror.NewValidation("invalid request body").WithDetail("error", err.Error()))
		return false
	}
	return true
}

// Error registers an error on the Gin context and aborts the request.
// The JSON body is produced by middleware.ErrorHandler (single source of
// truth).
func (h *BaseHandler) Error(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// ParseID parses a positive int64 path parameter.
func (h *BaseHandler) ParseID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		h.Error(c, apperror.NewValidation("invalid "+name).WithDetail(name, raw))
		return 0, false
	}
	return id, true
}

// GetUserID extracts the authenticated user id from the request context.
func (h *BaseHandler) GetUserID(c *gin.Context) int64 {
	return appctx.GetUserID(c.Request.Context())
}

// OK sends a 200 envelope.
func (h *BaseHandler) OK(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, dto.OK(message, data))
}

// Created sends a 201 envelope.
func (h *BaseHandler) Created(c *gin.Context, message string, data any) {
	c.JSON(http.StatusCreated, dto.OK(message, data))
}

// Paged sends a 200 envelope with pagination metadata.
func (h *BaseHandler) Paged(c *gin.Context, message string, data any, meta listing.Meta) {
	c.JSON(http.StatusOK, dto.Paged(message, data, meta))
}
