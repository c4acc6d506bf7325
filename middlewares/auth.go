package middlewares

import (
	"strings"

	"github.com/jchou1989/XuanteaPOS-sub001/pkg/resp"
	"github.com/jchou1989/XuanteaPOS-sub001/utils"

	"github.com/gin-gonic/gin"
)

// AuthMiddleware checks the bearer token and, when roles are given, the staff role.
func AuthMiddleware(secret string, requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.GetHeader("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			resp.Unauthorized(c, "missing or invalid token")
			return
		}
		authorize(c, strings.TrimPrefix(h, "Bearer "), secret, requiredRoles)
	}
}

// WSAuthMiddleware also accepts ?token= since browsers cannot set headers on a
// WebSocket handshake.
func WSAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := c.Query("token")
		if tokenStr == "" {
			if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
				tokenStr = strings.TrimPrefix(h, "Bearer ")
			}
		}
		if tokenStr == "" {
			resp.Unauthorized(c, "missing token")
			return
		}
		authorize(c, tokenStr, secret, nil)
	}
}

func authorize(c *gin.Context, tokenStr, secret string, roles []string) {
	claims, err := utils.ParseToken(tokenStr, secret)
	if err != nil {
		resp.Unauthorized(c, "invalid token")
		return
	}
	utils.SetClaims(c, claims)

	if len(roles) > 0 {
		allowed := false
		for _, r := range roles {
			if claims.Role == r {
				allowed = true
				break
			}
		}
		if !allowed {
			resp.Forbidden(c, "forbidden")
			return
		}
	}
	c.Next()
}
