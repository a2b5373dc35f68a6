package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"tillbox/internal/domain/listing"
	"tillbox/internal/domain/printing"
	"tillbox/internal/infrastructure/http/v1/dto"
)

// PrintJobHandler handles receipt print queue endpoints.
type PrintJobHandler struct {
	*BaseHandler
	service *printing.Service
}

// NewPrintJobHandler creates a new print job handler.
func NewPrintJobHandler(base *BaseHandler, service *printing.Service) *PrintJobHandler {
	return &PrintJobHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /print-jobs
func (h *PrintJobHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.EnqueuePrintJobRequest
	if !h.BindJSON(c, &req) {
		return
	}

	job, err := h.service.Enqueue(ctx, req.TransactionID)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, "print job queued", job)
}

// List handles GET /print-jobs
func (h *PrintJobHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	q, err := printing.ListSchema.Parse(c.Request.URL.Query())
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(ctx, q)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Paged(c, "print jobs retrieved", result.Rows, listing.NewMeta(q.Page, q.Limit, result.Total))
}

// Document handles GET /print-jobs/:id/document
// Serves the rendered receipt PDF of a printed job.
func (h *PrintJobHandler) Document(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	pdf, err := h.service.Document(ctx, id)
	if err != nil {
		h.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", fmt.Sprintf("receipt-%d.pdf", id)))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// RegisterRoutes registers print queue routes.
func (h *PrintJobHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/print-jobs", h.List)
	rg.POST("/print-jobs", h.Create)
	rg.GET("/print-jobs/:id/document", h.Document)
}
