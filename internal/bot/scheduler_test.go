package bot

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/logbook/internal/bot/tasks"
	"github.com/edgard/logbook/internal/config"
)

type countingReporter struct {
	n atomic.Int32
}

func (r *countingReporter) Capture(context.Context, error, map[string]string) { r.n.Add(1) }

func (r *countingReporter) Flush(time.Duration) {}

func TestSchedulerRunsEnabledTasks(t *testing.T) {
	t.Parallel()

	var ran, failed, disabled atomic.Int32
	taskMap := map[string]tasks.ScheduledTaskFunc{
		"tick": func(context.Context) error {
			ran.Add(1)
			return nil
		},
		"broken": func(context.Context) error {
			failed.Add(1)
			return errors.New("boom")
		},
		"off": func(context.Context) error {
			disabled.Add(1)
			return nil
		},
	}
	cfg := &config.SchedulerConfig{Tasks: map[string]config.TaskConfig{
		"tick":       {Enabled: true, Schedule: "* * * * * *"},
		"broken":     {Enabled: true, Schedule: "* * * * * *"},
		"off":        {Enabled: false, Schedule: "* * * * * *"},
		"unknown":    {Enabled: true, Schedule: "* * * * * *"},
		"no_cron":    {Enabled: true},
		"bad_syntax": {Enabled: true, Schedule: "every day"},
	}}
	taskMap["no_cron"] = taskMap["tick"]
	taskMap["bad_syntax"] = taskMap["tick"]

	reporter := &countingReporter{}
	s, err := NewScheduler(nil, cfg, taskMap, time.UTC, reporter)
	require.NoError(t, err)

	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() { _ = s.Stop() })

	assert.ElementsMatch(t, []string{"tick", "broken"}, s.Jobs())
	assert.Error(t, s.Start(context.Background()), "second start is rejected")

	require.Eventually(t, func() bool {
		return ran.Load() > 0 && failed.Load() > 0
	}, 3*time.Second, 50*time.Millisecond)
	assert.Positive(t, reporter.n.Load(), "failures are reported")
	assert.Zero(t, disabled.Load())

	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop(), "stopping twice is a no-op")
}

func TestSchedulerWithoutTasks(t *testing.T) {
	t.Parallel()

	s, err := NewScheduler(nil, nil, nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, s.Start(context.Background()))
	assert.Empty(t, s.Jobs())
	require.NoError(t, s.Stop())
}
