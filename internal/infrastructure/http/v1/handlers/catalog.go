package handlers

import (
	"github.com/gin-gonic/gin"

	"tillbox/internal/domain"
	"tillbox/internal/domain/listing"
	"tillbox/internal/infrastructure/http/v1/middleware"
)

// CatalogHandler provides generic HTTP handlers for catalog entities.
// The domain entities carry JSON tags, so requests and responses bind
// them directly without a mapping layer.
type CatalogHandler[T domain.Entity] struct {
	*BaseHandler
	service *domain.CatalogService[T]
	schema  *listing.Schema

	// name and plural name for response messages
	name   string
	plural string

	newFn func() T
}

// CatalogHandlerConfig configures the catalog handler.
type CatalogHandlerConfig[T domain.Entity] struct {
	Service *domain.CatalogService[T]
	Schema  *listing.Schema
	Name    string
	Plural  string
	New     func() T
}

// NewCatalogHandler creates a new catalog handler.
func NewCatalogHandler[T domain.Entity](
	base *BaseHandler,
	cfg CatalogHandlerConfig[T],
) *CatalogHandler[T] {
	return &CatalogHandler[T]{
		BaseHandler: base,
		service:     cfg.Service,
		schema:      cfg.Schema,
		name:        cfg.Name,
		plural:      cfg.Plural,
		newFn:       cfg.New,
	}
}

// List handles GET /{entity} - list with filtering, sorting and pagination.
func (h *CatalogHandler[T]) List(c *gin.Context) {
	ctx := c.Request.Context()

	q, err := h.schema.Parse(c.Request.URL.Query())
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(ctx, q)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Paged(c, h.plural+" retrieved", result.Rows, listing.NewMeta(q.Page, q.Limit, result.Total))
}

// Get handles GET /{entity}/:id - get single entity.
func (h *CatalogHandler[T]) Get(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	entity, err := h.service.GetByID(ctx, id)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, h.name+" retrieved", entity)
}

// Create handles POST /{entity} - create new entity.
func (h *CatalogHandler[T]) Create(c *gin.Context) {
	ctx := c.Request.Context()

	entity := h.newFn()
	if !h.BindJSON(c, entity) {
		return
	}
	// The id is always database-assigned, and a new entity is never born
	// deleted.
	entity.SetID(0)
	entity.Undelete()

	if err := h.service.Create(ctx, entity); err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, h.name+" created", entity)
}

// Update handles PUT /{entity}/:id - update existing entity.
func (h *CatalogHandler[T]) Update(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	// Bind over the stored entity so omitted fields keep their values.
	entity, err := h.service.GetByID(ctx, id)
	if err != nil {
		h.Error(c, err)
		return
	}
	marked := entity.Deleted()
	if !h.BindJSON(c, entity) {
		return
	}
	entity.SetID(id)
	// The deletion mark only changes through the delete endpoint.
	if marked {
		entity.MarkDeleted()
	} else {
		entity.Undelete()
	}

	if err := h.service.Update(ctx, entity); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, h.name+" updated", entity)
}

// Delete handles DELETE /{entity}/:id - soft delete entity.
func (h *CatalogHandler[T]) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(ctx, id); err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, h.name+" deleted", nil)
}

// RegisterRoutes registers CRUD routes on the group. Reads are open to any
// authenticated user; mutations require the admin role.
func (h *CatalogHandler[T]) RegisterRoutes(rg *gin.RouterGroup) {
	admin := middleware.RequireRole("admin")

	rg.GET("", h.List)
	rg.POST("", admin, h.Create)
	rg.GET("/:id", h.Get)
	rg.PUT("/:id", admin, h.Update)
	rg.DELETE("/:id", admin, h.Delete)
}
