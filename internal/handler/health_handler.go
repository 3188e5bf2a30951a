package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	redis *redis.Client
}

// NewHealthHandler rdb 可以为 nil，表示没有配置 redis
func NewHealthHandler(db *gorm.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: rdb}
}

// Health 存储不可用时仍返回 200，只在结果里标出来
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := gin.H{
		"status":   "OK",
		"message":  "Server is running",
		"database": status(h.pingDB(ctx)),
	}
	if h.redis != nil {
		resp["redis"] = status(h.redis.Ping(ctx).Err())
	}
	c.JSON(http.StatusOK, resp)
}

func (h *HealthHandler) pingDB(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func status(err error) string {
	if err != nil {
		return "disconnected"
	}
	return "connected"
}
