package controllers

import (
	"errors"
	"strconv"

	"github.com/jchou1989/XuanteaPOS-sub001/pkg/resp"
	"github.com/jchou1989/XuanteaPOS-sub001/services"

	"github.com/gin-gonic/gin"
)

type DeviceController struct {
	svc *services.DeviceService
}

func NewDeviceController(svc *services.DeviceService) *DeviceController {
	return &DeviceController{svc: svc}
}

// GET /devices
func (dc *DeviceController) List(c *gin.Context) {
	list, err := dc.svc.List(c.Request.Context())
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, list)
}

// POST /devices
func (dc *DeviceController) Register(c *gin.Context) {
	var in services.RegisterDeviceInput
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	d, err := dc.svc.Register(c.Request.Context(), in)
	if errors.Is(err, services.ErrDeviceName) || errors.Is(err, services.ErrDeviceType) {
		resp.BadRequest(c, err.Error())
		return
	}
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.Created(c, d)
}

// POST /devices/:id/heartbeat
func (dc *DeviceController) Heartbeat(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		resp.BadRequest(c, "invalid device id")
		return
	}
	err = dc.svc.Heartbeat(c.Request.Context(), uint(id))
	if errors.Is(err, services.ErrDeviceNotFound) {
		resp.NotFound(c, err.Error())
		return
	}
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	resp.OK(c, gin.H{"id": id, "status": "online"})
}
