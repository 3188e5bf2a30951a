package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Athena_Nexus/internal/model"
	"Athena_Nexus/internal/pkg"
)

const repoURL = "https://github.com/team/project"

func TestSubmissionCreateValidationOrder(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.member(t, "team-a")
	w := env.week(t, 1, nil)

	cases := []struct {
		name string
		in   SubmissionInput
		want error
	}{
		{"missing week", SubmissionInput{GithubRepoURL: repoURL}, pkg.ErrValidation},
		{"missing repo", SubmissionInput{WeekID: w.ID}, pkg.ErrValidation},
		{"bad tag before bad url", SubmissionInput{WeekID: w.ID, GithubRepoURL: "nope", Tags: []string{"desktop"}}, pkg.ErrValidation},
		{"http repo", SubmissionInput{WeekID: w.ID, GithubRepoURL: "http://github.com/a/b"}, pkg.ErrInvalidURL},
		{"gitlab repo", SubmissionInput{WeekID: w.ID, GithubRepoURL: "https://gitlab.com/a/b"}, pkg.ErrInvalidURL},
		{"demo scheme", SubmissionInput{WeekID: w.ID, GithubRepoURL: repoURL, LiveDemoURL: "javascript:alert(1)"}, pkg.ErrInvalidURL},
		{"unknown week", SubmissionInput{WeekID: 999, GithubRepoURL: repoURL}, pkg.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.subs.Create(ctx, u, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestSubmissionCreate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.member(t, "team-a")
	w := env.week(t, 4, nil)

	long := strings.Repeat("é", 350)
	sub, err := env.subs.Create(ctx, u, SubmissionInput{
		WeekID:        w.ID,
		GithubRepoURL: repoURL,
		LiveDemoURL:   "https://demo.example.com",
		Description:   long,
		Tags:          []string{"web", "uiux", "web"},
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, sub.Status)
	assert.Equal(t, 300, len([]rune(sub.Description)))
	assert.Equal(t, []string{"web", "uiux"}, []string(sub.Tags))

	logs, err := env.activity.List(ctx, string(model.ActionSubmit), 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, "Submitted for week 4", logs[0].Detail)
}

func TestSubmissionDuplicateRegardlessOfStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.member(t, "team-a")
	w := env.week(t, 1, nil)

	sub, err := env.subs.Create(ctx, u, SubmissionInput{WeekID: w.ID, GithubRepoURL: repoURL})
	require.NoError(t, err)

	for _, st := range []model.SubmissionStatus{model.StatusPending, model.StatusApproved, model.StatusRejected} {
		_, err = env.subs.SetStatus(ctx, sub.ID, st, nil)
		require.NoError(t, err)
		_, err = env.subs.Create(ctx, u, SubmissionInput{WeekID: w.ID, GithubRepoURL: repoURL})
		assert.ErrorIs(t, err, pkg.ErrDuplicateSubmission, string(st))
	}

	// 其他团队不受影响
	other := env.member(t, "team-b")
	_, err = env.subs.Create(ctx, other, SubmissionInput{WeekID: w.ID, GithubRepoURL: repoURL})
	assert.NoError(t, err)
}

func TestSubmissionDeadline(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.member(t, "team-a")
	deadline := time.Now().Add(time.Hour)
	w := env.week(t, 1, &deadline)

	sub, err := env.subs.Create(ctx, u, SubmissionInput{WeekID: w.ID, GithubRepoURL: repoURL})
	require.NoError(t, err)

	env.subs.now = func() time.Time { return deadline.Add(time.Second) }

	_, err = env.subs.Update(ctx, sub.ID, u, SubmissionPatch{Description: ptr("late")})
	assert.ErrorIs(t, err, pkg.ErrDeadlinePassed)

	late := env.member(t, "team-late")
	_, err = env.subs.Create(ctx, late, SubmissionInput{WeekID: w.ID, GithubRepoURL: repoURL})
	assert.ErrorIs(t, err, pkg.ErrDeadlinePassed)

	// 审核不受截止时间限制
	got, err := env.subs.SetStatus(ctx, sub.ID, model.StatusApproved, ptr("great"))
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, got.Status)
}

func TestSubmissionUpdate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.member(t, "team-a")
	other := env.member(t, "team-b")
	w := env.week(t, 2, nil)

	sub, err := env.subs.Create(ctx, u, SubmissionInput{WeekID: w.ID, GithubRepoURL: repoURL, LiveDemoURL: "https://demo.example.com"})
	require.NoError(t, err)

	_, err = env.subs.Update(ctx, 999, u, SubmissionPatch{})
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	_, err = env.subs.Update(ctx, sub.ID, other, SubmissionPatch{Description: ptr("x")})
	assert.ErrorIs(t, err, pkg.ErrForbidden)

	_, err = env.subs.Update(ctx, sub.ID, u, SubmissionPatch{GithubRepoURL: ptr("https://github.com/a")})
	assert.ErrorIs(t, err, pkg.ErrInvalidURL)

	_, err = env.subs.Update(ctx, sub.ID, u, SubmissionPatch{Tags: &[]string{"cli"}})
	assert.ErrorIs(t, err, pkg.ErrValidation)

	_, err = env.subs.SetStatus(ctx, sub.ID, model.StatusRejected, ptr("missing readme"))
	require.NoError(t, err)

	got, err := env.subs.Update(ctx, sub.ID, u, SubmissionPatch{
		GithubRepoURL: ptr(""),
		LiveDemoURL:   ptr(""),
		Description:   ptr("added readme"),
	})
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, got.Status, "rejected goes back to pending")
	assert.Equal(t, repoURL, got.GithubRepoURL, "empty repo url means unchanged")
	assert.Empty(t, got.LiveDemoURL)
	assert.Equal(t, w.ID, got.WeekID)

	_, err = env.subs.SetStatus(ctx, sub.ID, model.StatusApproved, nil)
	require.NoError(t, err)
	got, err = env.subs.Update(ctx, sub.ID, u, SubmissionPatch{Description: ptr("tweak")})
	require.NoError(t, err)
	assert.Equal(t, model.StatusApproved, got.Status, "only rejected resets")

	logs, err := env.activity.List(ctx, string(model.ActionUpdate), 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)
	assert.Equal(t, "Updated submission for week 2", logs[0].Detail)
}

func TestSetStatusIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.member(t, "team-a")
	w := env.week(t, 1, nil)
	sub, err := env.subs.Create(ctx, u, SubmissionInput{WeekID: w.ID, GithubRepoURL: repoURL})
	require.NoError(t, err)

	_, err = env.subs.SetStatus(ctx, 999, model.StatusApproved, nil)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
	_, err = env.subs.SetStatus(ctx, sub.ID, "archived", nil)
	assert.ErrorIs(t, err, pkg.ErrValidation)

	first, err := env.subs.SetStatus(ctx, sub.ID, model.StatusApproved, ptr("ok"))
	require.NoError(t, err)
	second, err := env.subs.SetStatus(ctx, sub.ID, model.StatusApproved, ptr("ok"))
	require.NoError(t, err)
	assert.Equal(t, first.Status, second.Status)
	assert.Equal(t, first.ReviewerNotes, second.ReviewerNotes)

	kept, err := env.subs.SetStatus(ctx, sub.ID, model.StatusApproved, nil)
	require.NoError(t, err)
	assert.Equal(t, "ok", kept.ReviewerNotes, "notes untouched when omitted")
}

func TestPublicGalleryAndVisibility(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.member(t, "team-a")
	b := env.member(t, "team-b")
	admin := env.admin(t)
	w1 := env.week(t, 1, nil)
	w2 := env.week(t, 2, nil)

	sa, err := env.subs.Create(ctx, a, SubmissionInput{WeekID: w1.ID, GithubRepoURL: repoURL})
	require.NoError(t, err)
	sb, err := env.subs.Create(ctx, b, SubmissionInput{WeekID: w1.ID, GithubRepoURL: repoURL})
	require.NoError(t, err)
	_, err = env.subs.Create(ctx, a, SubmissionInput{WeekID: w2.ID, GithubRepoURL: repoURL})
	require.NoError(t, err)

	gallery, err := env.subs.ListPublic(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, gallery)

	_, err = env.subs.SetStatus(ctx, sa.ID, model.StatusApproved, nil)
	require.NoError(t, err)
	_, err = env.subs.SetStatus(ctx, sb.ID, model.StatusRejected, nil)
	require.NoError(t, err)

	gallery, err = env.subs.ListPublic(ctx, &w1.ID)
	require.NoError(t, err)
	require.Len(t, gallery, 1)
	assert.Equal(t, sa.ID, gallery[0].ID)
	require.NotNil(t, gallery[0].User)
	assert.Equal(t, "team-a", gallery[0].User.Username)

	// 已通过的匿名可见
	_, err = env.subs.Get(ctx, sa.ID, nil)
	assert.NoError(t, err)
	// 未通过的只有本人和管理员能看
	_, err = env.subs.Get(ctx, sb.ID, nil)
	assert.ErrorIs(t, err, pkg.ErrForbidden)
	_, err = env.subs.Get(ctx, sb.ID, a)
	assert.ErrorIs(t, err, pkg.ErrForbidden)
	_, err = env.subs.Get(ctx, sb.ID, b)
	assert.NoError(t, err)
	_, err = env.subs.Get(ctx, sb.ID, admin)
	assert.NoError(t, err)

	own, err := env.subs.ListOwn(ctx, a)
	require.NoError(t, err)
	assert.Len(t, own, 2)

	all, err := env.subs.ListAll(ctx, &w1.ID, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
	rejected, err := env.subs.ListAll(ctx, nil, "rejected")
	require.NoError(t, err)
	require.Len(t, rejected, 1)
	assert.Equal(t, sb.ID, rejected[0].ID)
	_, err = env.subs.ListAll(ctx, nil, "bogus")
	assert.ErrorIs(t, err, pkg.ErrValidation)
}

func TestExportCSV(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	a := env.member(t, "team-a")
	_, err := env.users.UpdateProfile(ctx, a, a.ID, ProfilePatch{DisplayName: ptr("Alpha, Inc")})
	require.NoError(t, err)
	b := env.member(t, "team-b")
	w1 := env.week(t, 1, nil)
	w2 := env.week(t, 2, nil)

	_, err = env.subs.Create(ctx, a, SubmissionInput{WeekID: w1.ID, GithubRepoURL: repoURL, Description: "fast, small, tested"})
	require.NoError(t, err)
	_, err = env.subs.Create(ctx, b, SubmissionInput{WeekID: w2.ID, GithubRepoURL: repoURL, LiveDemoURL: "https://b.example.com"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, env.subs.ExportCSV(ctx, &buf, nil))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Week", "Group Name", "GitHub Repo", "Live Demo", "Status", "Description", "Submitted At"}, rows[0])

	assert.Equal(t, "2", rows[1][0], "newest first")
	assert.Equal(t, "team-b", rows[1][1])
	assert.Equal(t, "https://b.example.com", rows[1][3])

	assert.Equal(t, "1", rows[2][0])
	assert.Equal(t, "Alpha, Inc", rows[2][1])
	assert.Equal(t, "pending", rows[2][4])
	assert.Equal(t, "fast; small; tested", rows[2][5])
	_, err = time.Parse(time.RFC3339, rows[2][6])
	assert.NoError(t, err)
	assert.True(t, strings.HasSuffix(rows[2][6], "Z"))

	buf.Reset()
	require.NoError(t, env.subs.ExportCSV(ctx, &buf, &w1.ID))
	rows, err = csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}
