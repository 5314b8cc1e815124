package services

import (
	"context"
	"time"

	"maidhub/internal/database"
	"maidhub/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	ORPHAN_ATTACHMENT_GRACE = 24 * time.Hour
	ORPHAN_CLEANUP_BATCH    = 200
)

// ObjectRemover deletes stored objects by key.
type ObjectRemover interface {
	RemoveObject(ctx context.Context, key string) error
}

// FileCleanupService removes attachment uploads that were never sent with a
// message, or whose message was deleted or redacted.
type FileCleanupService struct {
	db    database.DB
	files repositories.FileRepository
	store ObjectRemover
	grace time.Duration
	now   func() time.Time
	log   logger.Logger
}

func NewFileCleanupService(
	db database.DB,
	files repositories.FileRepository,
	store ObjectRemover,
) *FileCleanupService {
	return &FileCleanupService{
		db:    db,
		files: files,
		store: store,
		grace: ORPHAN_ATTACHMENT_GRACE,
		now:   time.Now,
		log:   logger.New("fileCleanupService"),
	}
}

// CleanupOrphanAttachments deletes one batch of orphaned attachments, object
// first and then the row. A file whose object cannot be removed keeps its row
// and is retried on the next run.
func (fcs *FileCleanupService) CleanupOrphanAttachments(ctx context.Context) (int, error) {
	log := fcs.log.Function("CleanupOrphanAttachments")

	cutoff := fcs.now().Add(-fcs.grace)
	orphans, err := fcs.files.ListOrphanAttachments(ctx, fcs.db.SQLWithContext(ctx), cutoff, ORPHAN_CLEANUP_BATCH)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, file := range orphans {
		if err := fcs.store.RemoveObject(ctx, file.ObjectKey); err != nil {
			log.Warn("failed to remove orphan object", "fileID", file.ID, "error", err.Error())
			continue
		}

		if err := fcs.files.Delete(ctx, fcs.db.SQLWithContext(ctx), file.ID); err != nil {
			log.Er("failed to delete orphan file record", err, "fileID", file.ID)
			continue
		}

		removed++
	}

	if removed > 0 {
		log.Info("Removed orphan attachments", "removed", removed, "candidates", len(orphans))
	}

	return removed, nil
}
