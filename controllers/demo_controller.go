package controllers

import (
	"context"
	"time"

	"github.com/jchou1989/XuanteaPOS-sub001/pkg/resp"
	"github.com/jchou1989/XuanteaPOS-sub001/services"

	"github.com/gin-gonic/gin"
)

// generation outlives the request that started it
const generateTimeout = 5 * time.Minute

type DemoController struct {
	gen *services.SampleGenerator
}

func NewDemoController(gen *services.SampleGenerator) *DemoController {
	return &DemoController{gen: gen}
}

// POST /demo/generate returns once the request is accepted; orders follow on the bus.
func (dc *DemoController) Generate(c *gin.Context) {
	var req services.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), generateTimeout)
		defer cancel()
		_, _ = dc.gen.Generate(ctx, req)
	}()
	resp.Accepted(c, req)
}
