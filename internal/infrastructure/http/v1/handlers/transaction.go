package handlers

import (
	"github.com/gin-gonic/gin"

	"tillbox/internal/domain/listing"
	"tillbox/internal/domain/transaction"
	"tillbox/internal/infrastructure/http/v1/dto"
)

// TransactionHandler handles transaction document endpoints.
type TransactionHandler struct {
	*BaseHandler
	service *transaction.Service
}

// NewTransactionHandler creates a new transaction handler.
func NewTransactionHandler(base *BaseHandler, service *transaction.Service) *TransactionHandler {
	return &TransactionHandler{
		BaseHandler: base,
		service:     service,
	}
}

// Create handles POST /transactions
func (h *TransactionHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()

	var req transaction.CreateRequest
	if !h.BindJSON(c, &req) {
		return
	}

	doc, err := h.service.Create(ctx, h.GetUserID(c), req)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Created(c, "transaction recorded", dto.FromTransaction(doc))
}

// List handles GET /transactions
func (h *TransactionHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	q, err := transaction.ListSchema.Parse(c.Request.URL.Query())
	if err != nil {
		h.Error(c, err)
		return
	}

	result, err := h.service.List(ctx, q)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.Paged(c, "transactions retrieved",
		dto.FromTransactions(result.Rows),
		listing.NewMeta(q.Page, q.Limit, result.Total))
}

// Get handles GET /transactions/:id
func (h *TransactionHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	id, ok := h.ParseID(c, "id")
	if !ok {
		return
	}

	doc, err := h.service.GetByID(ctx, id)
	if err != nil {
		h.Error(c, err)
		return
	}

	h.OK(c, "transaction retrieved", dto.FromTransaction(doc))
}

// RegisterRoutes registers transaction routes. Cashiers record sales, so no
// role restriction applies here.
func (h *TransactionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/transactions", h.List)
	rg.POST("/transactions", h.Create)
	rg.GET("/transactions/:id", h.Get)
}
