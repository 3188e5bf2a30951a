package model

import (
	"time"

	"gorm.io/datatypes"
)

// Role 账号角色，只有 member 和 admin 两种
type Role string

const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleAdmin:
		return true
	}
	return false
}

// Member 团队成员信息
type Member struct {
	Name           string `json:"name"`
	Role           string `json:"role,omitempty"`
	GithubUsername string `json:"githubUsername,omitempty"`
	Email          string `json:"email,omitempty"`
}

// User 团队账号，提交作品的最小单位
type User struct {
	ID           uint64                      `gorm:"primaryKey" json:"id"`
	Username     string                      `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Password     string                      `gorm:"size:255;not null" json:"-"`
	Role         Role                        `gorm:"size:16;not null;default:member" json:"role"`
	DisplayName  string                      `gorm:"size:128" json:"displayName"`
	Email        string                      `gorm:"size:128" json:"email"`
	ContactEmail string                      `gorm:"size:128" json:"contactEmail"`
	Members      datatypes.JSONSlice[Member] `json:"members"`
	CreatedAt    time.Time                   `json:"created_at"`
	UpdatedAt    time.Time                   `json:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// GroupName 导出和展示用的团队名称
func (u *User) GroupName() string {
	if u == nil {
		return ""
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}
