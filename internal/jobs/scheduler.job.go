package jobs

import (
	"maidhub/config"
	"maidhub/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

func RegisterAllJobs(
	schedulerService *services.SchedulerService,
	config config.Config,
	svc services.Service,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	if !config.SchedulerEnabled {
		log.Info("Scheduler disabled, skipping job registration")
		return nil
	}

	sweepJob := NewOverdueSweepJob(svc.Lifecycle, services.Hourly)
	if err := schedulerService.AddJob(sweepJob); err != nil {
		return log.Err("failed to register overdue sweep job", err)
	}
	log.Info("Registered overdue sweep job", "schedule", "hourly")

	cleanupJob := NewFileCleanupJob(svc.FileCleanup, services.Daily)
	if err := schedulerService.AddJob(cleanupJob); err != nil {
		return log.Err("failed to register file cleanup job", err)
	}
	log.Info("Registered file cleanup job", "schedule", "daily")

	return nil
}
