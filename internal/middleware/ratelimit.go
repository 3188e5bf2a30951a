package middleware

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"Athena_Nexus/internal/model"
	"Athena_Nexus/internal/pkg"
)

// ActivityRecorder 写操作日志
type ActivityRecorder interface {
	Record(ctx context.Context, userID *uint64, action model.Action, detail string)
}

type RateLimitOptions struct {
	Name    string
	Limiter pkg.Limiter
	// 超限时返回的错误
	Err *pkg.Error
	// Skip 返回 true 的请求不计数
	Skip       func(c *gin.Context) bool
	OnReject   func(c *gin.Context)
	Rejections *prometheus.CounterVec
}

// RateLimit 按客户端 IP 限流；限流后端出错时放行
func RateLimit(opts RateLimitOptions) gin.HandlerFunc {
	// 后端不可用时每分钟最多告警一次
	warn := &rate.Sometimes{Interval: time.Minute}
	return func(c *gin.Context) {
		if opts.Skip != nil && opts.Skip(c) {
			c.Next()
			return
		}
		ip := c.ClientIP()
		d, err := opts.Limiter.Allow(c.Request.Context(), ip)
		if err != nil {
			warn.Do(func() {
				Logger(c).WithError(err).WithField("limiter", opts.Name).Warn("rate limiter unavailable, allowing request")
			})
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		if d.Allowed {
			c.Header("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Remaining", "0")
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(d.RetryAfter.Seconds()))))
		if opts.Rejections != nil {
			opts.Rejections.WithLabelValues(opts.Name).Inc()
		}
		if opts.OnReject != nil {
			opts.OnReject(c)
		}
		Fail(c, opts.Err)
	}
}

// LoginThrottle 登录接口：超限直接拒绝，不读取账号密码，并记一条 failed_login
func LoginThrottle(l pkg.Limiter, activity ActivityRecorder, rejections *prometheus.CounterVec) gin.HandlerFunc {
	return RateLimit(RateLimitOptions{
		Name:       "login",
		Limiter:    l,
		Err:        pkg.ErrRateLimited,
		Rejections: rejections,
		OnReject: func(c *gin.Context) {
			activity.Record(c.Request.Context(), nil, model.ActionFailedLogin, "Rate limit exceeded for IP: "+c.ClientIP())
		},
	})
}

// APILimit 通用限流，skip 中的路由不计数
func APILimit(l pkg.Limiter, rejections *prometheus.CounterVec, skip ...string) gin.HandlerFunc {
	skipped := make(map[string]struct{}, len(skip))
	for _, p := range skip {
		skipped[p] = struct{}{}
	}
	return RateLimit(RateLimitOptions{
		Name:       "api",
		Limiter:    l,
		Err:        pkg.ErrTooManyRequests,
		Rejections: rejections,
		Skip: func(c *gin.Context) bool {
			_, ok := skipped[c.FullPath()]
			return ok
		},
	})
}
