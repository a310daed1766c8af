package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/rawa-tech/zagros-erp/internal/service"
	appErrors "github.com/rawa-tech/zagros-erp/pkg/errors"
	"github.com/rawa-tech/zagros-erp/pkg/response"
)

// RequirePermission guards a route with a single permission check against the
// role stored in the session.
func RequirePermission(auth *service.AuthService, permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, ok := SessionFromContext(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if err := auth.RequirePermission(session.Role, permission); err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}
