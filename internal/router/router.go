package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"Athena_Nexus/internal/handler"
	"Athena_Nexus/internal/middleware"
	"Athena_Nexus/internal/pkg"
	"Athena_Nexus/internal/service"
)

// Deps 构建路由需要的全部依赖，Redis 和 Metrics 可以为 nil
type Deps struct {
	DB    *gorm.DB
	Redis *redis.Client

	Users      *service.UserService
	Weeks      *service.WeekService
	Submission *service.SubmissionService
	Stats      *service.StatsService
	Activity   *service.ActivityService

	LoginLimiter pkg.Limiter
	APILimiter   pkg.Limiter

	Log     logrus.FieldLogger
	Metrics *pkg.Metrics

	FrontendURL    string
	TrustedProxies []string
}

// 不计入通用限流的路由
var apiLimitSkip = []string{"/api/auth/login", "/api/health"}

func corsConfig(origin string) cors.Config {
	cfg := cors.DefaultConfig()
	if origin == "" || origin == "*" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = []string{origin}
		cfg.AllowCredentials = true
	}
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader, "Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining"}
	return cfg
}

func New(d Deps) (*gin.Engine, error) {
	r := gin.New()
	if err := r.SetTrustedProxies(d.TrustedProxies); err != nil {
		return nil, err
	}

	r.Use(middleware.RequestID(), middleware.RequestLogger(d.Log), gin.Recovery(), middleware.SecureHeaders())
	var rejections *prometheus.CounterVec
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
		rejections = d.Metrics.RateLimitRejections
		r.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}
	r.Use(cors.New(corsConfig(d.FrontendURL)))

	users := handler.NewUserHandler(d.Users)
	weeks := handler.NewWeekHandler(d.Weeks, d.Submission)
	subs := handler.NewSubmissionHandler(d.Submission)
	activity := handler.NewActivityHandler(d.Activity)
	stats := handler.NewStatsHandler(d.Stats)
	health := handler.NewHealthHandler(d.DB, d.Redis)

	api := r.Group("/api")
	api.Use(middleware.Authenticate(d.Users))
	if d.APILimiter != nil {
		api.Use(middleware.APILimit(d.APILimiter, rejections, apiLimitSkip...))
	}

	api.GET("/health", health.Health)

	// 账号相关接口
	auth := api.Group("/auth")
	{
		auth.POST("/signup", users.Signup)
		login := []gin.HandlerFunc{users.Login}
		if d.LoginLimiter != nil {
			login = append([]gin.HandlerFunc{middleware.LoginThrottle(d.LoginLimiter, d.Activity, rejections)}, login...)
		}
		auth.POST("/login", login...)
		auth.GET("/me", middleware.RequireAuth(), users.Me)
		auth.POST("/change-password", middleware.RequireAuth(), users.ChangePassword)
		auth.POST("/logout", middleware.RequireAuth(), users.Logout)
	}

	// 每周挑战
	weekGroup := api.Group("/weeks")
	{
		weekGroup.GET("", weeks.List)
		weekGroup.GET("/active", weeks.Active)
		weekGroup.GET("/stats/public", stats.Public)
		weekGroup.GET("/:id", weeks.Get)
		weekGroup.GET("/:id/submissions", weeks.Submissions)
	}

	// 作品
	subGroup := api.Group("/submissions")
	{
		subGroup.GET("/public", subs.Public)
		subGroup.GET("/my-submissions", middleware.RequireAuth(), subs.Mine)
		subGroup.GET("/:id", subs.Get)
		subGroup.POST("", middleware.RequireAuth(), subs.Create)
		subGroup.PUT("/:id", middleware.RequireAuth(), subs.Update)
	}

	admin := api.Group("/admin")
	// 本人也可以修改自己的资料
	admin.PUT("/users/:id", middleware.RequireAuth(), users.UpdateUser)
	adminOnly := admin.Group("", middleware.RequireAdmin())
	{
		adminOnly.POST("/weeks", weeks.Create)
		adminOnly.PUT("/weeks/:id", weeks.Update)
		adminOnly.DELETE("/weeks/:id", weeks.Delete)

		adminOnly.POST("/users", users.CreateUser)
		adminOnly.GET("/users", users.ListUsers)
		adminOnly.POST("/users/:id/reset-password", users.ResetPassword)
		adminOnly.DELETE("/users/:id", users.DeleteUser)

		adminOnly.GET("/submissions", subs.List)
		adminOnly.GET("/submissions/export", subs.Export)
		adminOnly.PUT("/submissions/:id/status", subs.SetStatus)

		adminOnly.GET("/stats", stats.Admin)
	}

	api.GET("/activity", middleware.RequireAdmin(), activity.List)

	return r, nil
}
