package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/neurales/dashboard/pkg/response"
)

// LoginChecker reports whether the gateway holds a backend session.
type LoginChecker interface {
	IsLogged() bool
}

// RequireLogin rejects requests while the gateway is signed out of the backend.
func RequireLogin(session LoginChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !session.IsLogged() {
			response.Unauthorized(c, "not logged in")
			c.Abort()
			return
		}
		c.Next()
	}
}
