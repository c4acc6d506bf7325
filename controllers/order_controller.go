package controllers

import (
	"errors"
	"time"

	"github.com/jchou1989/XuanteaPOS-sub001/entity"
	"github.com/jchou1989/XuanteaPOS-sub001/events"
	"github.com/jchou1989/XuanteaPOS-sub001/pkg/resp"
	"github.com/jchou1989/XuanteaPOS-sub001/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OrderController struct {
	queue *services.OrderQueue
	bus   *events.Bus
}

func NewOrderController(queue *services.OrderQueue, bus *events.Bus) *OrderController {
	return &OrderController{queue: queue, bus: bus}
}

// GET /orders?source=&status=&type=&q=
func (oc *OrderController) List(c *gin.Context) {
	var f services.OrderFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	resp.OK(c, oc.queue.View(f))
}

// POST /orders publishes new-order; the queue picks it up from the bus.
func (oc *OrderController) Create(c *gin.Context) {
	var o entity.Order
	if err := c.ShouldBindJSON(&o); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Now().UTC()
	}
	for i := range o.Items {
		if o.Items[i].ID == "" {
			o.Items[i].ID = uuid.NewString()
		}
	}
	if o.Status == "" {
		o.Status = entity.OrderNew
	} else if !o.Status.Valid() {
		resp.BadRequest(c, "invalid status")
		return
	}
	if err := oc.bus.Publish(events.OrderPlaced(o)); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	resp.Created(c, services.NewOrderView(o))
}

type UpdateOrderStatusReq struct {
	Status entity.OrderStatus `json:"status" binding:"required"`
}

// PATCH /orders/:id/status
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	var req UpdateOrderStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if !req.Status.Valid() {
		resp.BadRequest(c, "invalid status")
		return
	}
	id := c.Param("id")
	if !oc.queue.SetStatus(id, req.Status) {
		resp.NotFound(c, "order not found")
		return
	}
	o, _ := oc.queue.Get(id)
	resp.OK(c, services.NewOrderView(o))
}

// DELETE /orders
func (oc *OrderController) Clear(c *gin.Context) {
	if err := oc.bus.Publish(events.OrdersCleared()); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"cleared": true})
}

// GET /orders/:id/qr/:itemId
func (oc *OrderController) LabelPayload(c *gin.Context) {
	o, ok := oc.queue.Get(c.Param("id"))
	if !ok {
		resp.NotFound(c, "order not found")
		return
	}
	p, err := services.CustomizationPayload(o, c.Param("itemId"))
	switch {
	case errors.Is(err, services.ErrItemNotFound):
		resp.NotFound(c, err.Error())
		return
	case err != nil:
		resp.BadRequest(c, err.Error())
		return
	}
	qr, err := p.Encode()
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"payload": p, "qr": qr})
}
