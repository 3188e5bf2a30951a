package service

import (
	"context"
	"fmt"

	"Athena_Nexus/internal/model"
	"Athena_Nexus/internal/repository/mysql"
)

type StatsService struct {
	users *mysql.UserRepository
	weeks *mysql.WeekRepository
	subs  *mysql.SubmissionRepository
}

func NewStatsService(users *mysql.UserRepository, weeks *mysql.WeekRepository, subs *mysql.SubmissionRepository) *StatsService {
	return &StatsService{users: users, weeks: weeks, subs: subs}
}

type PublicStats struct {
	TotalUsers       int64 `json:"totalUsers"`
	TotalWeeks       int64 `json:"totalWeeks"`
	TotalSubmissions int64 `json:"totalSubmissions"`
}

type AdminStats struct {
	PublicStats
	ApprovedSubmissions int64 `json:"approvedSubmissions"`
	PendingSubmissions  int64 `json:"pendingSubmissions"`
	RejectedSubmissions int64 `json:"rejectedSubmissions"`
}

// Public totalUsers 只统计 member 账号
func (s *StatsService) Public(ctx context.Context) (*PublicStats, error) {
	var st PublicStats
	var err error
	if st.TotalUsers, err = s.users.CountByRole(ctx, model.RoleMember); err != nil {
		return nil, fmt.Errorf("count users: %w", err)
	}
	if st.TotalWeeks, err = s.weeks.Count(ctx); err != nil {
		return nil, fmt.Errorf("count weeks: %w", err)
	}
	if st.TotalSubmissions, err = s.subs.Count(ctx, mysql.SubmissionFilter{}); err != nil {
		return nil, fmt.Errorf("count submissions: %w", err)
	}
	return &st, nil
}

func (s *StatsService) Admin(ctx context.Context) (*AdminStats, error) {
	pub, err := s.Public(ctx)
	if err != nil {
		return nil, err
	}
	st := &AdminStats{PublicStats: *pub}
	for status, dst := range map[model.SubmissionStatus]*int64{
		model.StatusApproved: &st.ApprovedSubmissions,
		model.StatusPending:  &st.PendingSubmissions,
		model.StatusRejected: &st.RejectedSubmissions,
	} {
		n, err := s.subs.Count(ctx, mysql.SubmissionFilter{Status: status})
		if err != nil {
			return nil, fmt.Errorf("count %s submissions: %w", status, err)
		}
		*dst = n
	}
	return st, nil
}
