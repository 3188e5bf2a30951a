package service

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"Athena_Nexus/internal/model"
	"Athena_Nexus/internal/pkg"
	"Athena_Nexus/internal/repository/mysql"
)

type WeekService struct {
	repo *mysql.WeekRepository
	subs *mysql.SubmissionRepository
	log  logrus.FieldLogger
}

func NewWeekService(repo *mysql.WeekRepository, subs *mysql.SubmissionRepository, log logrus.FieldLogger) *WeekService {
	return &WeekService{repo: repo, subs: subs, log: log}
}

type WeekInput struct {
	WeekNumber   int
	Title        string
	Description  string
	StartDate    *time.Time
	DeadlineDate *time.Time
	Resources    []string
}

// DateUpdate Value 为 nil 表示清空日期
type DateUpdate struct {
	Value *time.Time
}

// WeekPatch nil 字段不修改，周次不可修改
type WeekPatch struct {
	Title        *string
	Description  *string
	StartDate    *DateUpdate
	DeadlineDate *DateUpdate
	Resources    *[]string
	IsActive     *bool
}

// Create 新建的周默认不激活
func (s *WeekService) Create(ctx context.Context, in WeekInput) (*model.Week, error) {
	if in.WeekNumber <= 0 {
		return nil, pkg.ErrValidation.WithMsg("Week number is required")
	}
	exists, err := s.repo.NumberExists(ctx, in.WeekNumber)
	if err != nil {
		return nil, fmt.Errorf("check week number: %w", err)
	}
	if exists {
		return nil, pkg.ErrDuplicateWeekNumber
	}
	week := &model.Week{
		WeekNumber:   in.WeekNumber,
		Title:        in.Title,
		Description:  in.Description,
		StartDate:    in.StartDate,
		DeadlineDate: in.DeadlineDate,
		Resources:    in.Resources,
		IsActive:     false,
	}
	if week.Resources == nil {
		week.Resources = []string{}
	}
	if err := s.repo.Create(ctx, week); err != nil {
		if mysql.IsDuplicate(err) {
			return nil, pkg.ErrDuplicateWeekNumber
		}
		return nil, fmt.Errorf("create week: %w", err)
	}
	return week, nil
}

func (s *WeekService) Get(ctx context.Context, id uint64) (*model.Week, error) {
	week, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if mysql.IsNotFound(err) {
			return nil, pkg.ErrNotFound.WithMsg("Week not found")
		}
		return nil, fmt.Errorf("find week: %w", err)
	}
	return week, nil
}

func (s *WeekService) List(ctx context.Context) ([]model.Week, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list weeks: %w", err)
	}
	return list, nil
}

// GetActive 激活标记不做唯一约束，多个激活时取周次最大的一个
func (s *WeekService) GetActive(ctx context.Context) (*model.Week, error) {
	list, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active weeks: %w", err)
	}
	if len(list) == 0 {
		return nil, pkg.ErrNotFound.WithMsg("No active week found")
	}
	if len(list) > 1 {
		numbers := make([]int, 0, len(list))
		for _, w := range list {
			numbers = append(numbers, w.WeekNumber)
		}
		s.log.WithField("week_numbers", numbers).Warn("multiple weeks are active")
	}
	return &list[0], nil
}

func (s *WeekService) Update(ctx context.Context, id uint64, patch WeekPatch) (*model.Week, error) {
	week, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		week.Title = *patch.Title
	}
	if patch.Description != nil {
		week.Description = *patch.Description
	}
	if patch.StartDate != nil {
		week.StartDate = patch.StartDate.Value
	}
	if patch.DeadlineDate != nil {
		week.DeadlineDate = patch.DeadlineDate.Value
	}
	if patch.Resources != nil {
		week.Resources = *patch.Resources
		if week.Resources == nil {
			week.Resources = []string{}
		}
	}
	if patch.IsActive != nil {
		week.IsActive = *patch.IsActive
	}
	if err := s.repo.Save(ctx, week); err != nil {
		return nil, fmt.Errorf("update week: %w", err)
	}
	return week, nil
}

// Delete 有提交引用的周不能删
func (s *WeekService) Delete(ctx context.Context, id uint64) error {
	week, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	n, err := s.subs.Count(ctx, mysql.SubmissionFilter{WeekID: &week.ID})
	if err != nil {
		return fmt.Errorf("count submissions: %w", err)
	}
	if n > 0 {
		return pkg.ErrHasDependents.WithMsg("Cannot delete week with existing submissions")
	}
	if err := s.repo.Delete(ctx, week.ID); err != nil {
		return fmt.Errorf("delete week: %w", err)
	}
	return nil
}
