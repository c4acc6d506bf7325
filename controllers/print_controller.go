package controllers

import (
	"errors"

	"github.com/jchou1989/XuanteaPOS-sub001/pkg/resp"
	"github.com/jchou1989/XuanteaPOS-sub001/services"

	"github.com/gin-gonic/gin"
)

type PrintController struct {
	queue   *services.OrderQueue
	tracker *services.PrintTracker
}

func NewPrintController(queue *services.OrderQueue, tracker *services.PrintTracker) *PrintController {
	return &PrintController{queue: queue, tracker: tracker}
}

type PrintLabelReq struct {
	OrderID string `json:"orderId" binding:"required"`
	ItemID  string `json:"itemId" binding:"required"`
}

// POST /print/labels
func (pc *PrintController) PrintLabel(c *gin.Context) {
	var req PrintLabelReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	o, ok := pc.queue.Get(req.OrderID)
	if !ok {
		resp.NotFound(c, "order not found")
		return
	}
	p, err := services.CustomizationPayload(o, req.ItemID)
	if errors.Is(err, services.ErrItemNotFound) {
		resp.NotFound(c, err.Error())
		return
	}
	if err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	job, err := services.NewLabelJob(p)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"state": pc.tracker.Print(c.Request.Context(), job), "job": job})
}

// GET /print/status
func (pc *PrintController) Status(c *gin.Context) {
	resp.OK(c, gin.H{"state": pc.tracker.State()})
}
