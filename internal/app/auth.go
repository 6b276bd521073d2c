package app

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// metricsAuthMiddleware guards /metrics with Basic Auth. It passes every
// request through when enabled is false.
func metricsAuthMiddleware(enabled bool, username, password string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.Next()
			return
		}

		user, pass, ok := c.Request.BasicAuth()
		// Evaluate both comparisons so timing does not reveal which one failed.
		userMatch := subtle.ConstantTimeCompare([]byte(user), []byte(username)) == 1
		passMatch := subtle.ConstantTimeCompare([]byte(pass), []byte(password)) == 1
		if !ok || !userMatch || !passMatch {
			c.Header("WWW-Authenticate", `Basic realm="metrics"`)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		c.Next()
	}
}
