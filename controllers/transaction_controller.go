package controllers

import (
	"bytes"
	"errors"
	"strconv"
	"time"

	"github.com/jchou1989/XuanteaPOS-sub001/entity"
	"github.com/jchou1989/XuanteaPOS-sub001/events"
	"github.com/jchou1989/XuanteaPOS-sub001/pkg/resp"
	"github.com/jchou1989/XuanteaPOS-sub001/services"
	"github.com/jchou1989/XuanteaPOS-sub001/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

const exportLimit = 1000

type TransactionController struct {
	gateway   *services.TransactionGateway
	bus       *events.Bus
	analytics *services.SalesAnalytics
}

func NewTransactionController(g *services.TransactionGateway, bus *events.Bus, a *services.SalesAnalytics) *TransactionController {
	return &TransactionController{gateway: g, bus: bus, analytics: a}
}

// queryLimit reads ?limit=, capped at exportLimit since every row costs an item query.
func queryLimit(c *gin.Context, fallback int) (int, bool) {
	raw := c.Query("limit")
	if raw == "" {
		return fallback, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		resp.BadRequest(c, "limit must be a positive integer")
		return 0, false
	}
	if n > exportLimit {
		n = exportLimit
	}
	return n, true
}

// GET /transactions?limit=
func (tc *TransactionController) List(c *gin.Context) {
	limit, ok := queryLimit(c, 50)
	if !ok {
		return
	}
	list, err := tc.gateway.ListTransactions(c.Request.Context(), limit)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, list)
}

type TransactionItemIn struct {
	Name           string                `json:"name" binding:"required"`
	Quantity       int                   `json:"quantity" binding:"required,min=1"`
	Price          *decimal.Decimal      `json:"price"`
	Type           entity.ItemType       `json:"type"`
	Customizations *entity.Customization `json:"customizations"`
}

type CreateTransactionReq struct {
	OrderNumber   string              `json:"orderNumber" binding:"required"`
	Source        entity.Source       `json:"source" binding:"required"`
	PaymentMethod string              `json:"paymentMethod"`
	OrderType     entity.OrderType    `json:"orderType" binding:"required"`
	TableNumber   *int                `json:"tableNumber"`
	Items         []TransactionItemIn `json:"items" binding:"required,min=1,dive"`
}

// POST /transactions
func (tc *TransactionController) Create(c *gin.Context) {
	var req CreateTransactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if !req.Source.Valid() || !req.OrderType.Valid() {
		resp.BadRequest(c, "invalid source or order type")
		return
	}

	uid := utils.CurrentUserID(c)
	t := entity.Transaction{
		OrderNumber:   req.OrderNumber,
		Source:        req.Source,
		PaymentMethod: req.PaymentMethod,
		OrderType:     req.OrderType,
		CreatedBy:     utils.CurrentName(c),
		UserID:        &uid,
	}
	if t.PaymentMethod == "" {
		t.PaymentMethod = services.PaymentMethodFor(req.Source)
	}
	if req.OrderType == entity.OrderTypeDineIn {
		t.TableNumber = req.TableNumber
	}
	for _, it := range req.Items {
		price := services.UnitPrice(it.Type)
		if it.Price != nil {
			price = *it.Price
		}
		t.Items = append(t.Items, entity.TransactionItem{
			Name:           it.Name,
			Quantity:       it.Quantity,
			Price:          price,
			Type:           it.Type,
			Customizations: it.Customizations,
		})
	}

	saved, result := tc.gateway.CreateTransaction(c.Request.Context(), t)
	if err := tc.bus.Publish(events.TransactionCreated(saved)); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, gin.H{"transaction": saved, "persisted": result.IsPersisted()})
}

type StatusReasonReq struct {
	Reason string `json:"reason" binding:"required"`
}

func (tc *TransactionController) changeStatus(c *gin.Context, status entity.TransactionStatus) {
	var req StatusReasonReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	err := tc.gateway.UpdateStatus(c.Request.Context(), c.Param("id"), status, req.Reason)
	if errors.Is(err, services.ErrReasonRequired) || errors.Is(err, services.ErrInvalidTransactionStatus) {
		resp.BadRequest(c, err.Error())
		return
	}
	resp.OK(c, gin.H{"id": c.Param("id"), "status": status})
}

// PATCH /transactions/:id/void
func (tc *TransactionController) Void(c *gin.Context) {
	tc.changeStatus(c, entity.TransactionVoided)
}

// PATCH /transactions/:id/refund
func (tc *TransactionController) Refund(c *gin.Context) {
	tc.changeStatus(c, entity.TransactionRefunded)
}

// GET /transactions/export
func (tc *TransactionController) Export(c *gin.Context) {
	limit, ok := queryLimit(c, exportLimit)
	if !ok {
		return
	}
	list, err := tc.gateway.ListTransactions(c.Request.Context(), limit)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := services.ExportTransactionsCSV(&buf, list); err != nil {
		resp.ServerError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+services.ExportFileName(time.Now())+`"`)
	c.Data(200, "text/csv; charset=utf-8", buf.Bytes())
}

// POST /transactions/sync
func (tc *TransactionController) Sync(c *gin.Context) {
	report, err := tc.gateway.SyncPending(c.Request.Context())
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, report)
}

// GET /analytics/summary
func (tc *TransactionController) Summary(c *gin.Context) {
	resp.OK(c, gin.H{
		"sales":   tc.analytics.Summary(),
		"pending": tc.gateway.PendingCount(),
	})
}
