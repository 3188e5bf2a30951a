package mysql

import (
	"context"

	"gorm.io/gorm"

	"Athena_Nexus/internal/model"
)

type ActivityRepository struct {
	DB *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{DB: db}
}

func (r *ActivityRepository) Create(ctx context.Context, entry *model.ActivityLog) error {
	return r.DB.WithContext(ctx).Omit("User").Create(entry).Error
}

// List 时间倒序，action 为空表示不过滤；只带出用户名
func (r *ActivityRepository) List(ctx context.Context, action model.Action, limit int) ([]model.ActivityLog, error) {
	q := r.DB.WithContext(ctx).Preload("User", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "username")
	})
	if action != "" {
		q = q.Where("action = ?", action)
	}
	var list []model.ActivityLog
	err := q.Order("timestamp DESC, id DESC").Limit(limit).Find(&list).Error
	return list, err
}
