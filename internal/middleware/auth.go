package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"Athena_Nexus/internal/model"
	"Athena_Nexus/internal/pkg"
)

const (
	ContextUserKey    = "current_user"
	contextAuthErrKey = "auth_error"
)

// Resolver 根据令牌加载当前账号
type Resolver interface {
	Resolve(ctx context.Context, token string) (*model.User, error)
}

func bearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return "", false
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}

// Authenticate 可选认证：令牌有效且账号存在时注入当前账号，否则按匿名继续
func Authenticate(r Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			if c.GetHeader("Authorization") != "" {
				c.Set(contextAuthErrKey, pkg.ErrUnauthorized.WithMsg("Invalid authorization format"))
			}
			c.Next()
			return
		}
		user, err := r.Resolve(c.Request.Context(), token)
		if err != nil {
			if _, ok := pkg.AsError(err); !ok {
				Fail(c, err)
				return
			}
			c.Set(contextAuthErrKey, err)
			c.Next()
			return
		}
		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// CurrentUser 未登录返回 nil
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}

func unauthenticated(c *gin.Context) {
	if v, ok := c.Get(contextAuthErrKey); ok {
		if err, ok := v.(error); ok {
			Fail(c, err)
			return
		}
	}
	Fail(c, pkg.ErrUnauthorized.WithMsg("No token provided"))
}

// RequireAuth 必须登录，需放在 Authenticate 之后
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			unauthenticated(c)
			return
		}
		c.Next()
	}
}

// RequireAdmin 未登录 401，非管理员 403
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			unauthenticated(c)
			return
		}
		switch user.Role {
		case model.RoleAdmin:
			c.Next()
		case model.RoleMember:
			Fail(c, pkg.ErrForbidden.WithMsg("Access denied. Admin only."))
		default:
			Fail(c, pkg.ErrForbidden)
		}
	}
}
