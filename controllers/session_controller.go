package controllers

import (
	"errors"

	"github.com/jchou1989/XuanteaPOS-sub001/entity"
	"github.com/jchou1989/XuanteaPOS-sub001/pkg/resp"
	"github.com/jchou1989/XuanteaPOS-sub001/services"
	"github.com/jchou1989/XuanteaPOS-sub001/utils"

	"github.com/gin-gonic/gin"
)

// SessionController drives the per-order status dialog.
type SessionController struct {
	coord *services.StatusCoordinator
}

func NewSessionController(coord *services.StatusCoordinator) *SessionController {
	return &SessionController{coord: coord}
}

func sessionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound), errors.Is(err, services.ErrSessionNotFound):
		resp.NotFound(c, err.Error())
	case errors.Is(err, services.ErrInvalidStatus), errors.Is(err, services.ErrInvalidSender):
		resp.BadRequest(c, err.Error())
	default:
		resp.ServerError(c, err)
	}
}

// POST /orders/:id/session
func (sc *SessionController) Open(c *gin.Context) {
	snap, err := sc.coord.Open(c.Param("id"))
	if err != nil {
		sessionError(c, err)
		return
	}
	resp.OK(c, snap)
}

// GET /orders/:id/session
func (sc *SessionController) Get(c *gin.Context) {
	snap, err := sc.coord.Session(c.Param("id"))
	if err != nil {
		sessionError(c, err)
		return
	}
	resp.OK(c, snap)
}

// DELETE /orders/:id/session
func (sc *SessionController) Close(c *gin.Context) {
	if !sc.coord.Close(c.Param("id")) {
		resp.NotFound(c, services.ErrSessionNotFound.Error())
		return
	}
	resp.OK(c, gin.H{"closed": true})
}

type TransitionReq struct {
	Status services.SessionStatus `json:"status" binding:"required"`
}

// PATCH /orders/:id/session/status
func (sc *SessionController) Transition(c *gin.Context) {
	var req TransitionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	res, err := sc.coord.Transition(c.Request.Context(), c.Param("id"), req.Status, utils.CurrentName(c))
	if err != nil {
		sessionError(c, err)
		return
	}
	resp.OK(c, res)
}

type PostMessageReq struct {
	Sender  entity.Sender `json:"sender" binding:"required"`
	Content string        `json:"content"`
}

// POST /orders/:id/session/messages
func (sc *SessionController) PostMessage(c *gin.Context) {
	var req PostMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	snap, err := sc.coord.PostMessage(c.Param("id"), req.Sender, req.Content)
	if err != nil {
		sessionError(c, err)
		return
	}
	resp.OK(c, snap)
}
