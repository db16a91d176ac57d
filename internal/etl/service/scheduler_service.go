package service

import (
	"context"
	"fmt"
	"time"

	"golang-market-etl/pkg/common"
	"golang-market-etl/pkg/logger"
	"golang-market-etl/pkg/utils"

	"github.com/robfig/cron/v3"
)

// Locker guards a run across processes. *redis.Client from pkg/redis satisfies it.
type Locker interface {
	AcquireLock(ctx context.Context, key string, ttl time.Duration) (release func(context.Context) error, acquired bool, err error)
}

// ScheduleOptions configures the scheduler.
type ScheduleOptions struct {
	Spec       string
	RunOnStart bool
	LockTTL    time.Duration
}

// SchedulerService defines the interface for periodic pipeline runs.
type SchedulerService interface {
	Start(ctx context.Context) error
	RunOnce(ctx context.Context) (*RunReport, bool)
}

// NewSchedulerService creates a new scheduler service. locker may be nil.
func NewSchedulerService(pipeline PipelineService, locker Locker, opts ScheduleOptions, logger *logger.Logger) SchedulerService {
	if opts.Spec == "" {
		opts.Spec = common.DefaultSchedule
	}
	if opts.LockTTL <= 0 {
		opts.LockTTL = time.Hour
	}
	return &schedulerService{
		pipeline:   pipeline,
		locker:     locker,
		opts:       opts,
		logger:     logger,
		cronParser: cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
	}
}

type schedulerService struct {
	pipeline   PipelineService
	locker     Locker
	opts       ScheduleOptions
	logger     *logger.Logger
	cronParser cron.Parser
}

// Start runs the pipeline on the configured schedule until ctx is done.
// Overlapping runs are skipped.
func (s *schedulerService) Start(ctx context.Context) error {
	schedule, err := s.cronParser.Parse(s.opts.Spec)
	if err != nil {
		return fmt.Errorf("invalid schedule %q: %w", s.opts.Spec, err)
	}

	cl := cronLogger{logger: s.logger}
	c := cron.New(cron.WithParser(s.cronParser), cron.WithLogger(cl))
	job := cron.NewChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)).Then(cron.FuncJob(func() {
		s.RunOnce(ctx)
	}))
	c.Schedule(schedule, job)
	c.Start()
	s.logger.Info("Scheduler started",
		logger.StringField("schedule", s.opts.Spec),
		logger.Field("next_run", schedule.Next(time.Now())))

	if s.opts.RunOnStart {
		utils.GoSafe(job.Run)
	}

	<-ctx.Done()
	s.logger.Info("Scheduler service stopping")
	<-c.Stop().Done()
	return nil
}

// RunOnce runs the pipeline if the run lock can be taken. ran is false when
// another instance holds the lock or the lock backend is unavailable.
func (s *schedulerService) RunOnce(ctx context.Context) (report *RunReport, ran bool) {
	if s.locker != nil {
		release, acquired, err := s.locker.AcquireLock(ctx, common.RedisLockPipelineRun, s.opts.LockTTL)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to acquire run lock, skipping run", logger.ErrorField(err))
			return nil, false
		}
		if !acquired {
			s.logger.InfoContext(ctx, "Run lock held by another instance, skipping run")
			return nil, false
		}
		defer func() {
			if err := release(context.Background()); err != nil {
				s.logger.WarnContext(ctx, "Failed to release run lock", logger.ErrorField(err))
			}
		}()
	}
	return s.pipeline.Run(ctx), true
}

// cronLogger adapts the zap logger to cron.Logger.
type cronLogger struct {
	logger *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Sugar().Errorw(msg, append(keysAndValues, "error", err)...)
}
