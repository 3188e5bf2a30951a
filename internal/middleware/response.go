package middleware

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"Athena_Nexus/internal/pkg"
)

var exposeErrorDetail atomic.Bool

// ExposeErrorDetail 开发环境下 500 响应附带原始错误信息
func ExposeErrorDetail(on bool) {
	exposeErrorDetail.Store(on)
}

// Fail 业务错误按自身状态码返回，其余一律 500
func Fail(c *gin.Context, err error) {
	if e, ok := pkg.AsError(err); ok {
		c.AbortWithStatusJSON(e.Status, gin.H{"msg": e.Msg, "code": e.Code})
		return
	}
	Logger(c).WithError(err).Error("request failed")
	body := gin.H{"msg": pkg.ErrInternal.Msg, "code": pkg.ErrInternal.Code}
	if exposeErrorDetail.Load() {
		body["detail"] = err.Error()
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, body)
}
