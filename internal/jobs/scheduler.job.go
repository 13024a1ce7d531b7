package jobs

import (
	"fieldops/config"
	"fieldops/internal/database"
	"fieldops/internal/repositories"
	"fieldops/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	Daily  = services.Daily
	Hourly = services.Hourly
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	services services.Service,
	repos repositories.Repository,
	db database.DB,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	if !config.SchedulerEnabled {
		log.Info("Scheduler disabled, skipping job registration")
		return nil
	}

	orderReminderJob := NewOrderReminderJob(repos, services.Notification, db.SQL, Daily)
	if err := schedulerService.AddJob(orderReminderJob); err != nil {
		return log.Err("failed to register order reminder job", err)
	}
	log.Info("Registered order reminder job", "schedule", "daily", "hourUTC", config.ReminderHourUTC)

	return nil
}
