package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Athena_Nexus/internal/model"
	"Athena_Nexus/internal/pkg"
)

func TestActivityList(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	u := env.member(t, "team-a")

	for i := 0; i < 5; i++ {
		env.activity.Record(ctx, &u.ID, model.ActionLogin, "Successful login")
	}
	env.activity.Record(ctx, nil, model.ActionFailedLogin, "Rate limit exceeded for IP: 1.2.3.4")

	list, err := env.activity.List(ctx, "", 3)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, model.ActionFailedLogin, list[0].Action)
	require.NotNil(t, list[1].User)
	assert.Equal(t, "team-a", list[1].User.Username)

	list, err = env.activity.List(ctx, "failed_login", 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	_, err = env.activity.List(ctx, "hack", 0)
	assert.ErrorIs(t, err, pkg.ErrValidation)
}

func TestActivityPublishes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	pub := &fakePublisher{}
	env.activity.WithPublisher(pub)
	u := env.member(t, "team-a")

	env.activity.Record(ctx, &u.ID, model.ActionSubmit, "Submitted for week 1")
	env.activity.Record(ctx, nil, model.ActionFailedLogin, "x")
	env.activity.Wait()

	pub.mu.Lock()
	defer pub.mu.Unlock()
	require.Len(t, pub.keys, 2)
	assert.ElementsMatch(t, []string{pkg.MakeKeyFromID(u.ID), "anonymous"}, pub.keys)

	for _, raw := range pub.vals {
		var ev ActivityEvent
		require.NoError(t, json.Unmarshal(raw, &ev))
		assert.NotEmpty(t, ev.ID)
		assert.True(t, ev.Action.Valid())
	}
}

func TestActivityFailuresAreSwallowed(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	counter := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_activity_failures"})
	pub := &fakePublisher{err: errors.New("broker down")}
	env.activity.WithPublisher(pub).WithFailureCounter(counter)

	env.activity.Record(ctx, nil, model.ActionLogout, "bye")
	env.activity.Wait()
	var m dto.Metric
	require.NoError(t, counter.Write(&m))
	assert.Equal(t, float64(1), m.GetCounter().GetValue())

	list, err := env.activity.List(ctx, "", 0)
	require.NoError(t, err)
	assert.Len(t, list, 1, "db write still happens")
}
