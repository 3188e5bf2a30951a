package mysql

import (
	"context"

	"gorm.io/gorm"

	"Athena_Nexus/internal/model"
)

type WeekRepository struct {
	DB *gorm.DB
}

func NewWeekRepository(db *gorm.DB) *WeekRepository {
	return &WeekRepository{DB: db}
}

func (r *WeekRepository) Create(ctx context.Context, week *model.Week) error {
	return r.DB.WithContext(ctx).Create(week).Error
}

func (r *WeekRepository) FindByID(ctx context.Context, id uint64) (*model.Week, error) {
	var week model.Week
	err := r.DB.WithContext(ctx).First(&week, id).Error
	return &week, err
}

func (r *WeekRepository) NumberExists(ctx context.Context, number int) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Week{}).Where("week_number = ?", number).Count(&count).Error
	return count > 0, err
}

// List 按周次倒序
func (r *WeekRepository) List(ctx context.Context) ([]model.Week, error) {
	var list []model.Week
	err := r.DB.WithContext(ctx).Order("week_number DESC").Find(&list).Error
	return list, err
}

// ListActive 按周次倒序，正常情况下只有一条
func (r *WeekRepository) ListActive(ctx context.Context) ([]model.Week, error) {
	var list []model.Week
	err := r.DB.WithContext(ctx).
		Where("is_active = ?", true).
		Order("week_number DESC").
		Find(&list).Error
	return list, err
}

// Save 整行写回，零值（空标题、清空的日期、isActive=false）也会落库
func (r *WeekRepository) Save(ctx context.Context, week *model.Week) error {
	return r.DB.WithContext(ctx).Save(week).Error
}

func (r *WeekRepository) Delete(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Delete(&model.Week{}, id).Error
}

func (r *WeekRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Week{}).Count(&count).Error
	return count, err
}
