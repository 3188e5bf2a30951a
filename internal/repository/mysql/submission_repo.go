package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"Athena_Nexus/internal/model"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

// SubmissionFilter 为空的字段不参与过滤
type SubmissionFilter struct {
	UserID *uint64
	WeekID *uint64
	Status model.SubmissionStatus
}

func (r *SubmissionRepository) Create(ctx context.Context, sub *model.Submission) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Create(sub).Error
}

// FindByID 带出团队和周信息
func (r *SubmissionRepository) FindByID(ctx context.Context, id uint64) (*model.Submission, error) {
	var sub model.Submission
	err := r.DB.WithContext(ctx).
		Preload("User").
		Preload("Week").
		First(&sub, id).Error
	return &sub, err
}

func (r *SubmissionRepository) ExistsForUserWeek(ctx context.Context, userID, weekID uint64) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Submission{}).
		Where("user_id = ? AND week_id = ?", userID, weekID).
		Count(&count).Error
	return count > 0, err
}

// Save 只写提交本身，不级联写 User/Week
func (r *SubmissionRepository) Save(ctx context.Context, sub *model.Submission) error {
	return r.DB.WithContext(ctx).Omit(clause.Associations).Save(sub).Error
}

// List 按提交时间倒序
func (r *SubmissionRepository) List(ctx context.Context, f SubmissionFilter) ([]model.Submission, error) {
	q := r.DB.WithContext(ctx).Preload("User").Preload("Week")
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.WeekID != nil {
		q = q.Where("week_id = ?", *f.WeekID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var list []model.Submission
	err := q.Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

func (r *SubmissionRepository) Count(ctx context.Context, f SubmissionFilter) (int64, error) {
	q := r.DB.WithContext(ctx).Model(&model.Submission{})
	if f.UserID != nil {
		q = q.Where("user_id = ?", *f.UserID)
	}
	if f.WeekID != nil {
		q = q.Where("week_id = ?", *f.WeekID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}
