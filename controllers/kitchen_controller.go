package controllers

import (
	"errors"

	"github.com/jchou1989/XuanteaPOS-sub001/entity"
	"github.com/jchou1989/XuanteaPOS-sub001/events"
	"github.com/jchou1989/XuanteaPOS-sub001/pkg/resp"
	"github.com/jchou1989/XuanteaPOS-sub001/services"

	"github.com/gin-gonic/gin"
)

type KitchenController struct {
	board *services.KitchenBoard
	bus   *events.Bus
}

func NewKitchenController(board *services.KitchenBoard, bus *events.Bus) *KitchenController {
	return &KitchenController{board: board, bus: bus}
}

// GET /kitchen/orders
func (kc *KitchenController) List(c *gin.Context) {
	resp.OK(c, kc.board.List())
}

type UpdateKitchenItemReq struct {
	Status entity.KitchenItemStatus `json:"status" binding:"required"`
}

// PATCH /kitchen/orders/:id/items/:itemId
func (kc *KitchenController) UpdateItem(c *gin.Context) {
	var req UpdateKitchenItemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	k, err := kc.board.SetItemStatus(c.Param("id"), c.Param("itemId"), req.Status)
	switch {
	case errors.Is(err, services.ErrKitchenOrderNotFound), errors.Is(err, services.ErrKitchenItemNotFound):
		resp.NotFound(c, err.Error())
	case err != nil:
		resp.BadRequest(c, err.Error())
	default:
		resp.OK(c, k)
	}
}

// DELETE /kitchen/orders
func (kc *KitchenController) Clear(c *gin.Context) {
	if err := kc.bus.Publish(events.KitchenOrdersCleared()); err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"cleared": true})
}
