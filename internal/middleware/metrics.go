package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"Athena_Nexus/internal/pkg"
)

// Metrics 按路由模板统计，未匹配的路由归到 unmatched
func Metrics(m *pkg.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.HTTPRequestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPRequestDuration.WithLabelValues(c.Request.Method, route).Observe(time.Since(start).Seconds())
	}
}
