package utils

import "github.com/gin-gonic/gin"

// context keys set by the auth middlewares
const (
	CtxUserID = "userId"
	CtxName   = "name"
	CtxRole   = "role"
)

func SetClaims(c *gin.Context, claims *Claims) {
	c.Set(CtxUserID, claims.UserID)
	c.Set(CtxName, claims.Name)
	c.Set(CtxRole, claims.Role)
}

func CurrentUserID(c *gin.Context) uint {
	v, _ := c.Get(CtxUserID)
	switch id := v.(type) {
	case uint:
		return id
	case int:
		return uint(id)
	case float64:
		return uint(id)
	default:
		return 0
	}
}

func CurrentName(c *gin.Context) string {
	return c.GetString(CtxName)
}

func CurrentRole(c *gin.Context) string {
	return c.GetString(CtxRole)
}
