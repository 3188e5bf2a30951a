package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"Athena_Nexus/internal/middleware"
	"Athena_Nexus/internal/model"
)

func writeError(c *gin.Context, err error) {
	middleware.Fail(c, err)
}

func ok(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, gin.H{"msg": msg})
}

// userView 对外展示的账号信息，不含密码
type userView struct {
	ID           uint64         `json:"id"`
	Username     string         `json:"username"`
	Role         model.Role     `json:"role"`
	DisplayName  string         `json:"displayName"`
	Email        string         `json:"email"`
	ContactEmail string         `json:"contactEmail"`
	Members      []model.Member `json:"members"`
}

func toUserView(u *model.User) userView {
	members := []model.Member(u.Members)
	if members == nil {
		members = []model.Member{}
	}
	return userView{
		ID:           u.ID,
		Username:     u.Username,
		Role:         u.Role,
		DisplayName:  u.DisplayName,
		Email:        u.Email,
		ContactEmail: u.ContactEmail,
		Members:      members,
	}
}
