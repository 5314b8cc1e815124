package jobs

import (
	"context"

	"maidhub/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type OrphanFileCleaner interface {
	CleanupOrphanAttachments(ctx context.Context) (int, error)
}

type FileCleanupJob struct {
	fileCleanup OrphanFileCleaner
	log         logger.Logger
	schedule    services.Schedule
}

func NewFileCleanupJob(fileCleanup OrphanFileCleaner, schedule services.Schedule) *FileCleanupJob {
	log := logger.New("fileCleanupJob")
	log.Info("Creating new file cleanup job", "schedule", schedule)

	return &FileCleanupJob{
		fileCleanup: fileCleanup,
		log:         log,
		schedule:    schedule,
	}
}

func (j *FileCleanupJob) Name() string {
	return "OrphanAttachmentCleanup"
}

func (j *FileCleanupJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	log.Info("Starting orphan attachment cleanup")

	removed, err := j.fileCleanup.CleanupOrphanAttachments(ctx)
	if err != nil {
		return log.Err("orphan attachment cleanup failed", err)
	}

	log.Info("Orphan attachment cleanup completed", "removed", removed)
	return nil
}

func (j *FileCleanupJob) Schedule() services.Schedule {
	return j.schedule
}
