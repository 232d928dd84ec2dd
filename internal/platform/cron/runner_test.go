package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRunner_Add_InvalidSpec(t *testing.T) {
	r := New(nil, context.Background(), time.UTC)

	_, err := r.Add("not a cron spec", "broken", func(context.Context) error { return nil })
	assert.Error(t, err)
}

func TestRunner_Next(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Stockholm")
	require.NoError(t, err)

	r := New(nil, context.Background(), loc)
	id, err := r.Add("0 6 * * *", "import", func(context.Context) error { return nil })
	require.NoError(t, err)

	r.Start()
	defer r.Stop()

	next := r.Next(id).In(loc)
	assert.Equal(t, 6, next.Hour())
	assert.Equal(t, 0, next.Minute())
	assert.True(t, next.After(time.Now()))
}

func TestRunner_RunsJobWithBaseContext(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "base")

	var runs atomic.Int32
	done := make(chan struct{}, 1)

	r := New(nil, ctx, time.UTC)
	_, err := r.Add("@every 1s", "tick", func(jobCtx context.Context) error {
		if jobCtx.Value(key{}) != "base" {
			t.Error("job did not receive the base context")
		}
		if runs.Add(1) == 1 {
			done <- struct{}{}
		}
		return errors.New("logged, not fatal")
	})
	require.NoError(t, err)

	r.Start()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		t.Fatal("job did not run")
	}
	r.Stop()

	assert.GreaterOrEqual(t, runs.Load(), int32(1))
}

func TestRunner_CanceledBaseContextSkipsJob(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var runs atomic.Int32
	r := New(nil, ctx, time.UTC)
	_, err := r.Add("@every 1s", "tick", func(context.Context) error {
		runs.Add(1)
		return nil
	})
	require.NoError(t, err)

	r.Start()
	time.Sleep(1500 * time.Millisecond)
	r.Stop()

	assert.Zero(t, runs.Load())
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "0 6 * * *", cfg.Spec)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}
