package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"Athena_Nexus/internal/service"
)

type WeekHandler struct {
	svc  *service.WeekService
	subs *service.SubmissionService
}

func NewWeekHandler(svc *service.WeekService, subs *service.SubmissionService) *WeekHandler {
	return &WeekHandler{svc: svc, subs: subs}
}

type CreateWeekReq struct {
	WeekNumber   int             `json:"week_number"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	StartDate    json.RawMessage `json:"startDate"`
	DeadlineDate json.RawMessage `json:"deadlineDate"`
	Resources    []string        `json:"resources"`
}

// UpdateWeekReq 日期字段传 null 或空串表示清空
type UpdateWeekReq struct {
	Title        *string         `json:"title"`
	Description  *string         `json:"description"`
	StartDate    json.RawMessage `json:"startDate"`
	DeadlineDate json.RawMessage `json:"deadlineDate"`
	Resources    *[]string       `json:"resources"`
	IsActive     *bool           `json:"isActive"`
}

func (h *WeekHandler) List(c *gin.Context) {
	list, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *WeekHandler) Active(c *gin.Context) {
	week, err := h.svc.GetActive(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, week)
}

func (h *WeekHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	week, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, week)
}

// Submissions 某一周已通过的作品
func (h *WeekHandler) Submissions(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	list, err := h.subs.ListPublic(c.Request.Context(), &id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSubmissionViews(list))
}

func (h *WeekHandler) Create(c *gin.Context) {
	var req CreateWeekReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errInvalidParams)
		return
	}
	start, _, err := parseDate(req.StartDate)
	if err != nil {
		writeError(c, err)
		return
	}
	deadline, _, err := parseDate(req.DeadlineDate)
	if err != nil {
		writeError(c, err)
		return
	}
	week, err := h.svc.Create(c.Request.Context(), service.WeekInput{
		WeekNumber:   req.WeekNumber,
		Title:        req.Title,
		Description:  req.Description,
		StartDate:    start,
		DeadlineDate: deadline,
		Resources:    req.Resources,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, week)
}

func (h *WeekHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var req UpdateWeekReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errInvalidParams)
		return
	}
	patch := service.WeekPatch{
		Title:       req.Title,
		Description: req.Description,
		Resources:   req.Resources,
		IsActive:    req.IsActive,
	}
	start, set, err := parseDate(req.StartDate)
	if err != nil {
		writeError(c, err)
		return
	}
	if set {
		patch.StartDate = &service.DateUpdate{Value: start}
	}
	deadline, set, err := parseDate(req.DeadlineDate)
	if err != nil {
		writeError(c, err)
		return
	}
	if set {
		patch.DeadlineDate = &service.DateUpdate{Value: deadline}
	}
	week, err := h.svc.Update(c.Request.Context(), id, patch)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, week)
}

func (h *WeekHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	ok(c, "Week deleted successfully")
}
