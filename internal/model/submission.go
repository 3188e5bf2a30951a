package model

import (
	"time"

	"gorm.io/datatypes"
)

type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusApproved SubmissionStatus = "approved"
	StatusRejected SubmissionStatus = "rejected"
)

func (s SubmissionStatus) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// 可选标签
const (
	TagWeb    = "web"
	TagMobile = "mobile"
	TagUIUX   = "uiux"
)

func ValidTag(tag string) bool {
	switch tag {
	case TagWeb, TagMobile, TagUIUX:
		return true
	}
	return false
}

const MaxDescriptionLen = 300

// Submission 团队某一周的作品，(user_id, week_id) 唯一
type Submission struct {
	ID            uint64                      `gorm:"primaryKey" json:"id"`
	UserID        uint64                      `gorm:"not null;uniqueIndex:idx_user_week,priority:1" json:"user_id"`
	WeekID        uint64                      `gorm:"not null;uniqueIndex:idx_user_week,priority:2;index" json:"week_id"`
	GithubRepoURL string                      `gorm:"size:512;not null" json:"github_repo_url"`
	LiveDemoURL   string                      `gorm:"size:512" json:"github_live_demo_url"`
	Description   string                      `gorm:"size:1200" json:"description"`
	ScreenshotURL string                      `gorm:"size:512" json:"screenshotUrl"`
	Tags          datatypes.JSONSlice[string] `json:"tags"`
	Status        SubmissionStatus            `gorm:"size:16;not null;default:pending;index" json:"status"`
	ReviewerNotes string                      `gorm:"type:text" json:"reviewerNotes"`
	CreatedAt     time.Time                   `gorm:"index" json:"created_at"`
	UpdatedAt     time.Time                   `json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Week *Week `gorm:"foreignKey:WeekID" json:"week,omitempty"`
}
