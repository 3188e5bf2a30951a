package handler

import (
	"bytes"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"Athena_Nexus/internal/middleware"
	"Athena_Nexus/internal/model"
	"Athena_Nexus/internal/service"
)

type SubmissionHandler struct {
	svc *service.SubmissionService
}

func NewSubmissionHandler(svc *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{svc: svc}
}

type CreateSubmissionReq struct {
	WeekID        flexID   `json:"week_id"`
	GithubRepoURL string   `json:"github_repo_url"`
	LiveDemoURL   string   `json:"github_live_demo_url"`
	Description   string   `json:"description"`
	ScreenshotURL string   `json:"screenshotUrl"`
	Tags          []string `json:"tags"`
}

type UpdateSubmissionReq struct {
	GithubRepoURL *string   `json:"github_repo_url"`
	LiveDemoURL   *string   `json:"github_live_demo_url"`
	Description   *string   `json:"description"`
	ScreenshotURL *string   `json:"screenshotUrl"`
	Tags          *[]string `json:"tags"`
}

type SetStatusReq struct {
	Status        model.SubmissionStatus `json:"status"`
	ReviewerNotes *string                `json:"reviewerNotes"`
}

// 作品里只展示团队和周的摘要信息
type submissionUser struct {
	ID          uint64 `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
}

type submissionWeek struct {
	ID         uint64 `json:"id"`
	WeekNumber int    `json:"week_number"`
	Title      string `json:"title"`
}

type submissionView struct {
	ID            uint64                 `json:"id"`
	UserID        uint64                 `json:"user_id"`
	WeekID        uint64                 `json:"week_id"`
	GithubRepoURL string                 `json:"github_repo_url"`
	LiveDemoURL   string                 `json:"github_live_demo_url"`
	Description   string                 `json:"description"`
	ScreenshotURL string                 `json:"screenshotUrl"`
	Tags          []string               `json:"tags"`
	Status        model.SubmissionStatus `json:"status"`
	ReviewerNotes string                 `json:"reviewerNotes"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`
	User          *submissionUser        `json:"user,omitempty"`
	Week          *submissionWeek        `json:"week,omitempty"`
}

func toSubmissionView(s *model.Submission) submissionView {
	tags := []string(s.Tags)
	if tags == nil {
		tags = []string{}
	}
	v := submissionView{
		ID:            s.ID,
		UserID:        s.UserID,
		WeekID:        s.WeekID,
		GithubRepoURL: s.GithubRepoURL,
		LiveDemoURL:   s.LiveDemoURL,
		Description:   s.Description,
		ScreenshotURL: s.ScreenshotURL,
		Tags:          tags,
		Status:        s.Status,
		ReviewerNotes: s.ReviewerNotes,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
	if s.User != nil {
		v.User = &submissionUser{ID: s.User.ID, Username: s.User.Username, DisplayName: s.User.DisplayName}
	}
	if s.Week != nil {
		v.Week = &submissionWeek{ID: s.Week.ID, WeekNumber: s.Week.WeekNumber, Title: s.Week.Title}
	}
	return v
}

func toSubmissionViews(list []model.Submission) []submissionView {
	out := make([]submissionView, 0, len(list))
	for i := range list {
		out = append(out, toSubmissionView(&list[i]))
	}
	return out
}

// Public 公开展示已通过的作品，可按 weekId 过滤
func (h *SubmissionHandler) Public(c *gin.Context) {
	weekID, err := queryID(c, "weekId")
	if err != nil {
		writeError(c, err)
		return
	}
	list, err := h.svc.ListPublic(c.Request.Context(), weekID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSubmissionViews(list))
}

func (h *SubmissionHandler) Mine(c *gin.Context) {
	list, err := h.svc.ListOwn(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSubmissionViews(list))
}

// Get 未通过的作品只有本人和管理员可见
func (h *SubmissionHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	sub, err := h.svc.Get(c.Request.Context(), id, middleware.CurrentUser(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSubmissionView(sub))
}

func (h *SubmissionHandler) Create(c *gin.Context) {
	var req CreateSubmissionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errInvalidParams)
		return
	}
	sub, err := h.svc.Create(c.Request.Context(), middleware.CurrentUser(c), service.SubmissionInput{
		WeekID:        uint64(req.WeekID),
		GithubRepoURL: req.GithubRepoURL,
		LiveDemoURL:   req.LiveDemoURL,
		Description:   req.Description,
		ScreenshotURL: req.ScreenshotURL,
		Tags:          req.Tags,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toSubmissionView(sub))
}

func (h *SubmissionHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var req UpdateSubmissionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errInvalidParams)
		return
	}
	sub, err := h.svc.Update(c.Request.Context(), id, middleware.CurrentUser(c), service.SubmissionPatch{
		GithubRepoURL: req.GithubRepoURL,
		LiveDemoURL:   req.LiveDemoURL,
		Description:   req.Description,
		ScreenshotURL: req.ScreenshotURL,
		Tags:          req.Tags,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSubmissionView(sub))
}

// List 管理员审核列表，可按 weekId 和 status 过滤
func (h *SubmissionHandler) List(c *gin.Context) {
	weekID, err := queryID(c, "weekId")
	if err != nil {
		writeError(c, err)
		return
	}
	list, err := h.svc.ListAll(c.Request.Context(), weekID, c.Query("status"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSubmissionViews(list))
}

func (h *SubmissionHandler) SetStatus(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		writeError(c, err)
		return
	}
	var req SetStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errInvalidParams)
		return
	}
	sub, err := h.svc.SetStatus(c.Request.Context(), id, req.Status, req.ReviewerNotes)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toSubmissionView(sub))
}

// Export 先写入缓冲区，出错时还能返回 JSON 错误
func (h *SubmissionHandler) Export(c *gin.Context) {
	weekID, err := queryID(c, "weekId")
	if err != nil {
		writeError(c, err)
		return
	}
	var buf bytes.Buffer
	if err := h.svc.ExportCSV(c.Request.Context(), &buf, weekID); err != nil {
		writeError(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename=submissions.csv")
	c.Data(http.StatusOK, "text/csv", buf.Bytes())
}
