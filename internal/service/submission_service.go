package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"Athena_Nexus/internal/model"
	"Athena_Nexus/internal/pkg"
	"Athena_Nexus/internal/repository/mysql"
)

type SubmissionService struct {
	repo     *mysql.SubmissionRepository
	weeks    *mysql.WeekRepository
	activity *ActivityService
	now      func() time.Time
}

func NewSubmissionService(repo *mysql.SubmissionRepository, weeks *mysql.WeekRepository, activity *ActivityService) *SubmissionService {
	return &SubmissionService{repo: repo, weeks: weeks, activity: activity, now: time.Now}
}

type SubmissionInput struct {
	WeekID        uint64
	GithubRepoURL string
	LiveDemoURL   string
	Description   string
	ScreenshotURL string
	Tags          []string
}

// SubmissionPatch nil 字段不修改；GithubRepoURL 为空串同样视为不修改
type SubmissionPatch struct {
	GithubRepoURL *string
	LiveDemoURL   *string
	Description   *string
	ScreenshotURL *string
	Tags          *[]string
}

var (
	errRepoURL = pkg.ErrInvalidURL.WithMsg("Invalid GitHub URL. Must be in format: https://github.com/owner/repo")
	errDemoURL = pkg.ErrInvalidURL.WithMsg("Invalid live demo URL")
)

// Create 校验顺序：必填与标签、URL、周是否存在、截止时间、是否重复提交
func (s *SubmissionService) Create(ctx context.Context, owner *model.User, in SubmissionInput) (*model.Submission, error) {
	if in.WeekID == 0 || in.GithubRepoURL == "" {
		return nil, pkg.ErrValidation.WithMsg("Week ID and GitHub repo URL are required")
	}
	tags, err := normalizeTags(in.Tags)
	if err != nil {
		return nil, err
	}
	if !pkg.IsValidGitHubURL(in.GithubRepoURL) {
		return nil, errRepoURL
	}
	if in.LiveDemoURL != "" && !pkg.IsValidURL(in.LiveDemoURL) {
		return nil, errDemoURL
	}

	week, err := s.weeks.FindByID(ctx, in.WeekID)
	if err != nil {
		if mysql.IsNotFound(err) {
			return nil, pkg.ErrNotFound.WithMsg("Week not found")
		}
		return nil, fmt.Errorf("find week: %w", err)
	}
	if week.DeadlinePassed(s.now()) {
		return nil, pkg.ErrDeadlinePassed
	}

	exists, err := s.repo.ExistsForUserWeek(ctx, owner.ID, week.ID)
	if err != nil {
		return nil, fmt.Errorf("check submission: %w", err)
	}
	if exists {
		return nil, pkg.ErrDuplicateSubmission
	}

	sub := &model.Submission{
		UserID:        owner.ID,
		WeekID:        week.ID,
		GithubRepoURL: in.GithubRepoURL,
		LiveDemoURL:   in.LiveDemoURL,
		Description:   truncateRunes(in.Description, model.MaxDescriptionLen),
		ScreenshotURL: in.ScreenshotURL,
		Tags:          tags,
		Status:        model.StatusPending,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		// 唯一索引 (user_id, week_id) 兜底并发重复提交
		if mysql.IsDuplicate(err) {
			return nil, pkg.ErrDuplicateSubmission
		}
		return nil, fmt.Errorf("create submission: %w", err)
	}
	s.activity.Record(ctx, &owner.ID, model.ActionSubmit, fmt.Sprintf("Submitted for week %d", week.WeekNumber))
	return sub, nil
}

// Update 只有所有者可以修改；被拒绝的提交修改后回到待审核
func (s *SubmissionService) Update(ctx context.Context, id uint64, owner *model.User, patch SubmissionPatch) (*model.Submission, error) {
	sub, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if owner == nil || sub.UserID != owner.ID {
		return nil, pkg.ErrForbidden.WithMsg("Not authorized to update this submission")
	}
	if sub.Week != nil && sub.Week.DeadlinePassed(s.now()) {
		return nil, pkg.ErrDeadlinePassed.WithMsg("Cannot update submission after deadline")
	}

	var tags []string
	if patch.Tags != nil {
		if tags, err = normalizeTags(*patch.Tags); err != nil {
			return nil, err
		}
	}
	if patch.GithubRepoURL != nil && *patch.GithubRepoURL != "" && !pkg.IsValidGitHubURL(*patch.GithubRepoURL) {
		return nil, errRepoURL
	}
	if patch.LiveDemoURL != nil && *patch.LiveDemoURL != "" && !pkg.IsValidURL(*patch.LiveDemoURL) {
		return nil, errDemoURL
	}

	if patch.GithubRepoURL != nil && *patch.GithubRepoURL != "" {
		sub.GithubRepoURL = *patch.GithubRepoURL
	}
	if patch.LiveDemoURL != nil {
		sub.LiveDemoURL = *patch.LiveDemoURL
	}
	if patch.Description != nil {
		sub.Description = truncateRunes(*patch.Description, model.MaxDescriptionLen)
	}
	if patch.ScreenshotURL != nil {
		sub.ScreenshotURL = *patch.ScreenshotURL
	}
	if patch.Tags != nil {
		sub.Tags = tags
	}
	if sub.Status == model.StatusRejected {
		sub.Status = model.StatusPending
	}

	if err := s.repo.Save(ctx, sub); err != nil {
		return nil, fmt.Errorf("update submission: %w", err)
	}
	weekNumber := 0
	if sub.Week != nil {
		weekNumber = sub.Week.WeekNumber
	}
	s.activity.Record(ctx, &owner.ID, model.ActionUpdate, fmt.Sprintf("Updated submission for week %d", weekNumber))
	return sub, nil
}

// SetStatus 管理员审核，不受截止时间限制，重复设置同一状态结果不变
func (s *SubmissionService) SetStatus(ctx context.Context, id uint64, status model.SubmissionStatus, notes *string) (*model.Submission, error) {
	sub, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, pkg.ErrValidation.WithMsg("Invalid status")
	}
	sub.Status = status
	if notes != nil {
		sub.ReviewerNotes = *notes
	}
	if err := s.repo.Save(ctx, sub); err != nil {
		return nil, fmt.Errorf("update submission status: %w", err)
	}
	return sub, nil
}

// ListPublic 画廊只展示已通过的
func (s *SubmissionService) ListPublic(ctx context.Context, weekID *uint64) ([]model.Submission, error) {
	return s.list(ctx, mysql.SubmissionFilter{WeekID: weekID, Status: model.StatusApproved})
}

func (s *SubmissionService) ListOwn(ctx context.Context, owner *model.User) ([]model.Submission, error) {
	return s.list(ctx, mysql.SubmissionFilter{UserID: &owner.ID})
}

func (s *SubmissionService) ListAll(ctx context.Context, weekID *uint64, status string) ([]model.Submission, error) {
	st := model.SubmissionStatus(status)
	if st != "" && !st.Valid() {
		return nil, pkg.ErrValidation.WithMsg("Invalid status")
	}
	return s.list(ctx, mysql.SubmissionFilter{WeekID: weekID, Status: st})
}

func (s *SubmissionService) list(ctx context.Context, f mysql.SubmissionFilter) ([]model.Submission, error) {
	list, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return list, nil
}

// Get 已通过的所有人可见，其余只有所有者和管理员可见
func (s *SubmissionService) Get(ctx context.Context, id uint64, caller *model.User) (*model.Submission, error) {
	sub, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if sub.Status == model.StatusApproved {
		return sub, nil
	}
	if caller == nil {
		return nil, pkg.ErrForbidden.WithMsg("Submission not available")
	}
	if err := RequireOwnerOrAdmin(caller, sub.UserID); err != nil {
		return nil, pkg.ErrForbidden.WithMsg("Not authorized to view this submission")
	}
	return sub, nil
}

func (s *SubmissionService) find(ctx context.Context, id uint64) (*model.Submission, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if mysql.IsNotFound(err) {
			return nil, pkg.ErrNotFound.WithMsg("Submission not found")
		}
		return nil, fmt.Errorf("find submission: %w", err)
	}
	return sub, nil
}

// normalizeTags 去重并保持顺序，未知标签报错
func normalizeTags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if !model.ValidTag(t) {
			return nil, pkg.ErrValidation.WithMsg("Invalid tag: " + t)
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out, nil
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
