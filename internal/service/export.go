package service

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"Athena_Nexus/internal/model"
	"Athena_Nexus/internal/repository/mysql"
)

var csvHeader = []string{"Week", "Group Name", "GitHub Repo", "Live Demo", "Status", "Description", "Submitted At"}

// 与 JavaScript toISOString 相同的格式
const isoMillis = "2006-01-02T15:04:05.000Z"

// ExportCSV 按提交时间倒序导出，weekID 为 nil 时导出全部
func (s *SubmissionService) ExportCSV(ctx context.Context, w io.Writer, weekID *uint64) error {
	list, err := s.repo.List(ctx, mysql.SubmissionFilter{WeekID: weekID})
	if err != nil {
		return fmt.Errorf("list submissions: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for i := range list {
		if err := cw.Write(csvRow(&list[i])); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func csvRow(sub *model.Submission) []string {
	week := "N/A"
	if sub.Week != nil {
		week = strconv.Itoa(sub.Week.WeekNumber)
	}
	group := "N/A"
	if name := sub.User.GroupName(); name != "" {
		group = name
	}
	return []string{
		week,
		group,
		sub.GithubRepoURL,
		sub.LiveDemoURL,
		string(sub.Status),
		strings.ReplaceAll(sub.Description, ",", ";"),
		sub.CreatedAt.UTC().Format(isoMillis),
	}
}
