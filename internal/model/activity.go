package model

import "time"

type Action string

const (
	ActionLogin       Action = "login"
	ActionFailedLogin Action = "failed_login"
	ActionSubmit      Action = "submit"
	ActionUpdate      Action = "update"
	ActionLogout      Action = "logout"
)

func (a Action) Valid() bool {
	switch a {
	case ActionLogin, ActionFailedLogin, ActionSubmit, ActionUpdate, ActionLogout:
		return true
	}
	return false
}

// ActivityLog 只追加的操作日志
type ActivityLog struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    *uint64   `gorm:"index" json:"user_id"`
	Action    Action    `gorm:"size:32;not null;index" json:"action"`
	Detail    string    `gorm:"size:512" json:"detail"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (ActivityLog) TableName() string {
	return "activity_logs"
}
