package controllers

import (
	"github.com/jchou1989/XuanteaPOS-sub001/pkg/resp"
	"github.com/jchou1989/XuanteaPOS-sub001/services"
	"github.com/jchou1989/XuanteaPOS-sub001/utils"

	"github.com/gin-gonic/gin"
)

type LoginRequest struct {
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct{ svc *services.AuthService }

func NewAuthController(svc *services.AuthService) *AuthController { return &AuthController{svc: svc} }

// POST /auth/login
func (a *AuthController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	token, user, err := a.svc.Login(req.Name, req.Password)
	if err != nil {
		resp.Unauthorized(c, err.Error())
		return
	}
	resp.OK(c, gin.H{"token": token, "user": user})
}

// GET /auth/me
func (a *AuthController) Me(c *gin.Context) {
	user, err := a.svc.GetProfile(utils.CurrentUserID(c))
	if err != nil {
		resp.NotFound(c, "user not found")
		return
	}
	resp.OK(c, user)
}
