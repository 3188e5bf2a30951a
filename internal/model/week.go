package model

import (
	"time"

	"gorm.io/datatypes"
)

// Week 每周挑战
type Week struct {
	ID           uint64                      `gorm:"primaryKey" json:"id"`
	WeekNumber   int                         `gorm:"uniqueIndex;not null" json:"week_number"`
	Title        string                      `gorm:"size:200" json:"title"`
	Description  string                      `gorm:"type:text" json:"description"`
	StartDate    *time.Time                  `json:"startDate"`
	DeadlineDate *time.Time                  `json:"deadlineDate"`
	Resources    datatypes.JSONSlice[string] `json:"resources"`
	IsActive     bool                        `gorm:"not null;default:false;index" json:"isActive"`
	CreatedAt    time.Time                   `json:"created_at"`
}

// DeadlinePassed 截止时间为空表示不限时
func (w *Week) DeadlinePassed(now time.Time) bool {
	return w.DeadlineDate != nil && now.After(*w.DeadlineDate)
}
