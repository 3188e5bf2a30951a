package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"Athena_Nexus/internal/model"
	"Athena_Nexus/internal/pkg"
	"Athena_Nexus/internal/service"
)

type ActivityHandler struct {
	svc *service.ActivityService
}

func NewActivityHandler(svc *service.ActivityService) *ActivityHandler {
	return &ActivityHandler{svc: svc}
}

type activityUser struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

type activityView struct {
	ID        uint64        `json:"id"`
	UserID    *uint64       `json:"user_id"`
	User      *activityUser `json:"user"`
	Action    model.Action  `json:"action"`
	Detail    string        `json:"detail"`
	Timestamp time.Time     `json:"timestamp"`
}

// List 支持 action 和 limit 查询参数
func (h *ActivityHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeError(c, pkg.ErrValidation.WithMsg("Invalid limit"))
			return
		}
		limit = n
	}
	list, err := h.svc.List(c.Request.Context(), c.Query("action"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	out := make([]activityView, 0, len(list))
	for _, e := range list {
		v := activityView{
			ID:        e.ID,
			UserID:    e.UserID,
			Action:    e.Action,
			Detail:    e.Detail,
			Timestamp: e.Timestamp,
		}
		if e.User != nil {
			v.User = &activityUser{ID: e.User.ID, Username: e.User.Username}
		}
		out = append(out, v)
	}
	c.JSON(http.StatusOK, out)
}
