package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"fieldops/config"
	"fieldops/internal/lifecycle"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/go-co-op/gocron"
)

type Schedule int

const (
	Hourly Schedule = iota
	Daily           // at REMINDER_HOUR_UTC every day
)

// Job is a unit of work the scheduler runs on its Schedule.
type Job interface {
	Name() string
	Execute(ctx context.Context) error
	Schedule() Schedule
}

type SchedulerService struct {
	scheduler *gocron.Scheduler
	dailyAt   string
	jobs      []Job
	log       logger.Logger
	started   bool
	mu        sync.Mutex
	ctx       context.Context
	cancel    context.CancelFunc
}

func NewSchedulerService(config config.Config) *SchedulerService {
	ctx, cancel := context.WithCancel(context.Background())

	return &SchedulerService{
		scheduler: gocron.NewScheduler(time.UTC),
		dailyAt:   fmt.Sprintf("%02d:00", config.ReminderHourUTC),
		jobs:      make([]Job, 0),
		log:       logger.New("scheduler"),
		ctx:       ctx,
		cancel:    cancel,
	}
}

func (s *SchedulerService) executeJob(job Job, log logger.Logger) {
	log.Info("Executing scheduled job", "job", job.Name())
	if err := job.Execute(s.ctx); err != nil {
		_ = log.Err("Job execution failed", err, "job", job.Name())
		return
	}
	log.Info("Job execution completed", "job", job.Name())
}

func (s *SchedulerService) AddJob(job Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("AddJob")

	var err error
	switch job.Schedule() {
	case Daily:
		_, err = s.scheduler.Every(1).Day().At(s.dailyAt).Do(func() {
			s.executeJob(job, log)
		})
	case Hourly:
		_, err = s.scheduler.Every(1).Hour().Do(func() {
			s.executeJob(job, log)
		})
	default:
		err = fmt.Errorf("unknown schedule %d", job.Schedule())
	}

	if err != nil {
		return log.Err("failed to register job with scheduler", err, "job", job.Name())
	}

	s.jobs = append(s.jobs, job)
	log.Info("Job registered", "job", job.Name(), "schedule", job.Schedule())

	return nil
}

func (s *SchedulerService) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.log.Function("Start")

	if s.started {
		return nil
	}

	if len(s.jobs) == 0 {
		log.Info("No jobs registered, scheduler will not start")
		return nil
	}

	s.scheduler.StartAsync()
	s.started = true

	for _, job := range s.scheduler.Jobs() {
		log.Info("Job scheduled", "nextRun", job.NextRun())
	}

	return nil
}

func (s *SchedulerService) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.cancel()
	s.scheduler.Stop()
	s.started = false

	s.log.Function("Stop").Info("Scheduler stopped")
	return nil
}

func (s *SchedulerService) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

func (s *SchedulerService) GetJobCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

// TriggerJobByName runs a registered job immediately and waits for it.
func (s *SchedulerService) TriggerJobByName(ctx context.Context, jobName string) error {
	s.mu.Lock()
	var target Job
	for _, job := range s.jobs {
		if job.Name() == jobName {
			target = job
			break
		}
	}
	s.mu.Unlock()

	log := s.log.Function("TriggerJobByName")
	if target == nil {
		log.Warn("job not found", "job", jobName)
		return lifecycle.NotFound("job %s is not registered", jobName)
	}

	log.Info("Manually triggering job", "job", jobName)
	return target.Execute(ctx)
}
