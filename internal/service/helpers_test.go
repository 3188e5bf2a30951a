package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"Athena_Nexus/internal/model"
	"Athena_Nexus/internal/pkg"
	"Athena_Nexus/internal/repository/mysql"
	"Athena_Nexus/internal/repository/mysql/mysqltest"
)

type testEnv struct {
	users    *UserService
	weeks    *WeekService
	subs     *SubmissionService
	stats    *StatsService
	activity *ActivityService
	tokens   *pkg.TokenService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := mysqltest.New(t)
	userRepo := mysql.NewUserRepository(db)
	weekRepo := mysql.NewWeekRepository(db)
	subRepo := mysql.NewSubmissionRepository(db)
	actRepo := mysql.NewActivityRepository(db)

	tokens, err := pkg.NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)
	activity := NewActivityService(actRepo, pkg.NopLogger())
	return &testEnv{
		users:    NewUserService(userRepo, subRepo, tokens, activity),
		weeks:    NewWeekService(weekRepo, subRepo, pkg.NopLogger()),
		subs:     NewSubmissionService(subRepo, weekRepo, activity),
		stats:    NewStatsService(userRepo, weekRepo, subRepo),
		activity: activity,
		tokens:   tokens,
	}
}

func (e *testEnv) member(t *testing.T, username string) *model.User {
	t.Helper()
	u, err := e.users.CreateAccount(context.Background(), username, "secret123", Profile{})
	require.NoError(t, err)
	return u
}

func (e *testEnv) admin(t *testing.T) *model.User {
	t.Helper()
	u, created, err := e.users.EnsureAdmin(context.Background(), "admin", "Admin123!", Profile{})
	require.NoError(t, err)
	require.True(t, created)
	return u
}

func (e *testEnv) week(t *testing.T, number int, deadline *time.Time) *model.Week {
	t.Helper()
	w, err := e.weeks.Create(context.Background(), WeekInput{WeekNumber: number, Title: "Week", DeadlineDate: deadline})
	require.NoError(t, err)
	return w
}

func (e *testEnv) actions(t *testing.T) []model.Action {
	t.Helper()
	list, err := e.activity.List(context.Background(), "", 0)
	require.NoError(t, err)
	out := make([]model.Action, 0, len(list))
	for _, l := range list {
		out = append(out, l.Action)
	}
	return out
}

func ptr[T any](v T) *T { return &v }

type fakePublisher struct {
	mu   sync.Mutex
	keys []string
	vals [][]byte
	err  error
}

func (p *fakePublisher) Publish(_ context.Context, key string, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.keys = append(p.keys, key)
	p.vals = append(p.vals, value)
	return p.err
}
