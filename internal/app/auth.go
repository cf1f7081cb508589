package app

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"

	domerrors "github.com/manasranjandas/portfolio-go/internal/errors"
)

// AdminPasswordHeader carries the shared admin secret.
const AdminPasswordHeader = "x-admin-password"

// metricsAuthMiddleware enforces Basic Auth on /metrics. An empty password
// leaves the endpoint open.
func metricsAuthMiddleware(username, password string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if password == "" {
			c.Next()
			return
		}

		user, pass, ok := c.Request.BasicAuth()
		if !ok || !secureEqual(user, username) || !secureEqual(pass, password) {
			c.Header("WWW-Authenticate", `Basic realm="metrics"`)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}

// adminAuthMiddleware checks the admin header against password.
func (a *Application) adminAuthMiddleware(password string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !secureEqual(c.GetHeader(AdminPasswordHeader), password) {
			a.metrics.RecordAdmin(adminOperation(c), "unauthorized")
			abortWithError(c, domerrors.ErrUnauthorized, "Unauthorized")
			return
		}
		c.Next()
	}
}

// secureEqual compares in constant time; an empty expected value never matches.
func secureEqual(got, want string) bool {
	if want == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}
