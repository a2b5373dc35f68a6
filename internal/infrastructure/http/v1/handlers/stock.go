package handlers

import (
	"github.com/gin-gonic/gin"

	"tillbox/internal/domain/listing"
	"tillbox/internal/domain/stock"
)

// StockHandler handles stock view endpoints.
type StockHandler struct {
	*BaseHandler
	service *stock.Service
}

// NewStockHandler creates a new stock handler.
func NewStockHandler(base *BaseHandler, service *stock.Service) *StockHandler {
	return &StockHandler{
		BaseHandler: base,
		service:     service,
	}
}

// List handles GET /stock
func (h *StockHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	q, err := stock.ListSchema.Parse(c.Request.URL.Query())
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(ctx, q)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Paged(c, "stock retrieved", result.Rows, listing.NewMeta(q.Page, q.Limit, result.Total))
}

// History handles GET /stock/:productId/history
func (h *StockHandler) History(c *gin.Context) {
	ctx := c.Request.Context()

	productID, ok := h.ParseID(c, "productId")
	if !ok {
		return
	}

	q, err := stock.HistorySchema.Parse(c.Request.URL.Query())
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.History(ctx, productID, q)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Paged(c, "stock history retrieved", result.Rows, listing.NewMeta(q.Page, q.Limit, result.Total))
}

// RegisterRoutes registers stock routes.
func (h *StockHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stock", h.List)
	rg.GET("/stock/:productId/history", h.History)
}
