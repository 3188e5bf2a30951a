package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"Athena_Nexus/internal/middleware"
	"Athena_Nexus/internal/service"
)

type UserHandler struct {
	svc *service.UserService
}

func NewUserHandler(svc *service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// SignupReq 注册请求体，members 可以是逗号分隔字符串或数组
type SignupReq struct {
	Username     string          `json:"username"`
	Password     string          `json:"password"`
	DisplayName  string          `json:"displayName"`
	Email        string          `json:"email"`
	ContactEmail string          `json:"contactEmail"`
	Members      json.RawMessage `json:"members"`
}

type LoginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type ChangePasswordReq struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type ResetPasswordReq struct {
	NewPassword string `json:"newPassword"`
}

// UpdateUserReq nil 字段不修改
type UpdateUserReq struct {
	DisplayName  *string         `json:"displayName"`
	Email        *string         `json:"email"`
	ContactEmail *string         `json:"contactEmail"`
	Members      json.RawMessage `json:"members"`
}

func (r *SignupReq) profile() (service.Profile, error) {
	members, _, err := parseMembers(r.Members)
	if err != nil {
		return service.Profile{}, err
	}
	return service.Profile{
		DisplayName:  r.DisplayName,
		Email:        r.Email,
		ContactEmail: r.ContactEmail,
		Members:      members,
	}, nil
}

// Signup 注册并直接返回登录态
func (h *UserHandler) Signup(c *gin.Context) {
	var req SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errInvalidParams)
		return
	}
	p, err := req.profile()
	if err != nil {
		writeError(c, err)
		return
	}
	res, err := h.svc.Signup(c.Request.Context(), req.Username, req.Password, p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"token": res.Token,
		"user":  toUserView(res.User),
		"msg":   "Account created successfully!",
	})
}

// Login 登录接口
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errInvalidParams)
		return
	}
	res, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": res.Token, "user": toUserView(res.User)})
}

func (h *UserHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"user": toUserView(middleware.CurrentUser(c))})
}

// ChangePassword 登录态修改密码
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req ChangePasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errInvalidParams)
		return
	}
	if err := h.svc.ChangePassword(c.Request.Context(), middleware.CurrentUser(c), req.CurrentPassword, req.NewPassword); err != nil {
		writeError(c, err)
		return
	}
	ok(c, "Password changed successfully")
}

// Logout 只记录日志，令牌在过期前仍然有效
func (h *UserHandler) Logout(c *gin.Context) {
	h.svc.Logout(c.Request.Context(), middleware.CurrentUser(c))
	ok(c, "Logged out")
}

// CreateUser 管理员建号，角色固定为 member
func (h *UserHandler) CreateUser(c *gin.Context) {
	var req SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errInvalidParams)
		return
	}
	p, err := req.profile()
	if err != nil {
		writeError(c, err)
		return
	}
	user, err := h.svc.CreateAccount(c.Request.Context(), req.Username, req.Password, p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"id":          user.ID,
		"username":    user.Username,
		"displayName": user.DisplayName,
		"msg":         "Group created successfully",
	})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	list, err := h.svc.ListMembers(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]userView, 0, len(list))
	for i := range list {
		out = append(out, toUserView(&list[i]))
	}
	c.JSON(http.StatusOK, out)
}

// UpdateUser 管理员或本人修改资料
func (h *UserHandler) UpdateUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var req UpdateUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errInvalidParams)
		return
	}
	patch := service.ProfilePatch{
		DisplayName:  req.DisplayName,
		Email:        req.Email,
		ContactEmail: req.ContactEmail,
	}
	members, set, err := parseMembers(req.Members)
	if err != nil {
		writeError(c, err)
		return
	}
	if set {
		patch.Members = &members
	}
	user, err := h.svc.UpdateProfile(c.Request.Context(), middleware.CurrentUser(c), id, patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserView(user))
}

func (h *UserHandler) ResetPassword(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var req ResetPasswordReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errInvalidParams)
		return
	}
	if err := h.svc.ResetPassword(c.Request.Context(), id, req.NewPassword); err != nil {
		writeError(c, err)
		return
	}
	ok(c, "Password reset successfully")
}

func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	ok(c, "User deleted successfully")
}

