package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"golang-market-etl/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingPipeline struct {
	mu   sync.Mutex
	runs int
}

func (p *countingPipeline) Run(context.Context) *RunReport {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.runs++
	return &RunReport{}
}

func (p *countingPipeline) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.runs
}

type fakeLocker struct {
	acquired bool
	err      error
	released int
}

func (l *fakeLocker) AcquireLock(context.Context, string, time.Duration) (func(context.Context) error, bool, error) {
	if l.err != nil || !l.acquired {
		return nil, false, l.err
	}
	return func(context.Context) error {
		l.released++
		return nil
	}, true, nil
}

func TestRunOnceWithoutLocker(t *testing.T) {
	pipeline := &countingPipeline{}
	s := NewSchedulerService(pipeline, nil, ScheduleOptions{}, logger.NewNop())

	report, ran := s.RunOnce(context.Background())

	assert.True(t, ran)
	assert.NotNil(t, report)
	assert.Equal(t, 1, pipeline.count())
}

func TestRunOnceHonorsLock(t *testing.T) {
	cases := []struct {
		name   string
		locker *fakeLocker
		ran    bool
	}{
		{"acquired", &fakeLocker{acquired: true}, true},
		{"held elsewhere", &fakeLocker{}, false},
		{"backend down", &fakeLocker{err: errors.New("dial tcp: refused")}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			pipeline := &countingPipeline{}
			s := NewSchedulerService(pipeline, tc.locker, ScheduleOptions{}, logger.NewNop())

			_, ran := s.RunOnce(context.Background())

			assert.Equal(t, tc.ran, ran)
			if tc.ran {
				assert.Equal(t, 1, pipeline.count())
				assert.Equal(t, 1, tc.locker.released)
			} else {
				assert.Equal(t, 0, pipeline.count())
			}
		})
	}
}

func TestStartRejectsInvalidSchedule(t *testing.T) {
	s := NewSchedulerService(&countingPipeline{}, nil, ScheduleOptions{Spec: "every day"}, logger.NewNop())

	err := s.Start(context.Background())
	assert.ErrorContains(t, err, "invalid schedule")
}

func TestStartRunsOnStartAndStops(t *testing.T) {
	pipeline := &countingPipeline{}
	s := NewSchedulerService(pipeline, nil, ScheduleOptions{Spec: "@yearly", RunOnStart: true}, logger.NewNop())
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Start(ctx) }()

	require.Eventually(t, func() bool { return pipeline.count() == 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}
